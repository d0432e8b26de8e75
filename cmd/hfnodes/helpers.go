package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	goyaml "github.com/goccy/go-yaml"

	"github.com/hvppyflow/hfnodes"
	"github.com/hvppyflow/hfnodes/internal/logging"
)

// expandPath expands ~ to home directory.
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// newLogger builds the command logger from the global flags. Verbose
// forces debug output.
func newLogger(w io.Writer) (*logging.Logger, error) {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	return logging.NewWithWriter(w, level), nil
}

// parseSet parses a key=value flag against the ports of schema. Values of
// STRING ports are kept verbatim; other values are read as YAML scalars so
// numbers and booleans keep their type.
func parseSet(kv string, schema hfnodes.Schema) (string, any, error) {
	key, raw, ok := strings.Cut(kv, "=")
	if !ok || key == "" {
		return "", nil, fmt.Errorf("invalid --set %q, want key=value", kv)
	}
	if port, ok := schema.Inputs.Lookup(key); ok && port.Type == hfnodes.String {
		return key, raw, nil
	}
	if raw == "" {
		return key, "", nil
	}
	var value any
	if err := goyaml.Unmarshal([]byte(raw), &value); err != nil {
		return key, raw, nil
	}
	if value == nil {
		return key, raw, nil
	}
	return key, value, nil
}

// writeFormatted writes v as JSON or YAML.
func writeFormatted(w io.Writer, format string, v any) error {
	switch format {
	case jsonFormat:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case yamlFormat:
		data, err := goyaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
