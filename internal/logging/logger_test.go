package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hvppyflow/hfnodes"
)

var _ hfnodes.Logger = (*Logger)(nil)

func TestLoggerRenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, slog.LevelInfo)

	logger.Error(context.Background(), "call failed", "node", "HFSleep", "error", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "msg=\"call failed\"")
	assert.Contains(t, out, "node=HFSleep")
	assert.Contains(t, out, "err=boom")
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, slog.LevelInfo)

	logger.Debug(context.Background(), "hidden")
	assert.Empty(t, buf.String())

	logger.Info(context.Background(), "shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
