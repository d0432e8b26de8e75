package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textEvent(items ...any) Event {
	return Event{NodeID: "7", Node: "HFShowTextNode", Payload: map[string][]any{TextKey: items}}
}

func TestPages(t *testing.T) {
	assert.Equal(t, []Page{{Text: "only"}}, Pages([]any{"only"}))
	assert.Equal(t, []Page{
		{Label: "1 / 3", Text: "a"},
		{Label: "2 / 3", Text: "2"},
		{Label: "3 / 3", Text: ""},
	}, Pages([]any{"a", 2, nil}))
	assert.Empty(t, Pages(nil))
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder(2)
	ctx := context.Background()

	require.NoError(t, rec.Deliver(ctx, Event{NodeID: "1"}))
	require.NoError(t, rec.Deliver(ctx, Event{NodeID: "2"}))
	require.NoError(t, rec.Deliver(ctx, Event{NodeID: "1", Node: "latest"}))

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "2", events[0].NodeID)

	last, ok := rec.Last("1")
	require.True(t, ok)
	assert.Equal(t, "latest", last.Node)

	rec.Reset()
	assert.Empty(t, rec.Events())
	_, ok = rec.Last("1")
	assert.False(t, ok)
}

func TestMulti(t *testing.T) {
	a, b := NewRecorder(0), NewRecorder(0)
	errFirst := errors.New("first")
	failing := SinkFunc(func(context.Context, Event) error { return errFirst })

	err := Multi(failing, a, SinkFunc(func(context.Context, Event) error { return errors.New("second") }), b).
		Deliver(context.Background(), textEvent("x"))

	assert.ErrorIs(t, err, errFirst)
	assert.Len(t, a.Events(), 1)
	assert.Len(t, b.Events(), 1, "later sinks still receive the event")
	assert.NoError(t, Discard.Deliver(context.Background(), textEvent("x")))
}

func TestTerminalText(t *testing.T) {
	var buf bytes.Buffer
	term, err := NewTerminal(&buf, WithNoColor(true))
	require.NoError(t, err)

	require.NoError(t, term.Deliver(context.Background(), textEvent("first", "second")))

	out := buf.String()
	assert.Contains(t, out, "HFShowTextNode (7)")
	assert.Contains(t, out, "[1 / 2]\nfirst\n")
	assert.Contains(t, out, "[2 / 2]\nsecond\n")

	buf.Reset()
	require.NoError(t, term.Deliver(context.Background(), textEvent("single")))
	assert.NotContains(t, buf.String(), "1 / 1")
	assert.Contains(t, buf.String(), "single\n")
}

func TestTerminalMarkdown(t *testing.T) {
	var buf bytes.Buffer
	term, err := NewTerminal(&buf, WithNoColor(true), WithWordWrap(60))
	require.NoError(t, err)

	ev := Event{Node: "HFShowMarkdownNode", Payload: map[string][]any{MarkdownKey: {"# Title\n\nSome **bold** text"}}}
	require.NoError(t, term.Deliver(context.Background(), ev))

	out := buf.String()
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
	assert.NotContains(t, out, "\x1b[", "no escape sequences without colour")
}

func TestRedisPublishes(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	sink := NewRedis(client, "")
	assert.Equal(t, "hfnodes:ui:HFShowTextNode", sink.Channel("HFShowTextNode"))

	sub := client.Subscribe(ctx, sink.Channel("HFShowTextNode"))
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, sink.Deliver(ctx, textEvent("a", "b")))

	select {
	case msg := <-sub.Channel():
		var ev Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		assert.Equal(t, "7", ev.NodeID)
		assert.Equal(t, []any{"a", "b"}, ev.Payload[TextKey])
	case <-time.After(2 * time.Second):
		t.Fatal("no message published")
	}
}

func TestRedisDeliverError(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	srv.Close()

	err := NewRedis(client, "custom").Deliver(context.Background(), textEvent("a"))
	assert.ErrorContains(t, err, "publish ui event")
}

func TestTerminalDebugTextJoined(t *testing.T) {
	var buf bytes.Buffer
	term, err := NewTerminal(&buf, WithNoColor(true))
	require.NoError(t, err)

	ev := Event{NodeID: "3", Node: "HFDebug", Payload: map[string][]any{TextKey: {"first", "second", 3}}}
	require.NoError(t, term.Deliver(context.Background(), ev))

	out := buf.String()
	assert.Contains(t, out, "HFDebug (3)")
	assert.Contains(t, out, "firstsecond3\n")
	assert.NotContains(t, out, "1 / 3")
}
