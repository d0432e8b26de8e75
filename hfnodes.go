// Package hfnodes provides small plugin nodes for visual node-graph hosts:
// debug print, sleep, text splitting and text/markdown display.
//
// A node is a static port schema plus one callable entry point. Hosts find
// nodes through a Registry and invoke them with keyword-matched inputs.
// Ordering, caching and list fan-out across calls stay with the host.
package hfnodes

import (
	"context"
	"errors"
)

// Common errors.
var (
	ErrUnknownNode   = errors.New("unknown node")
	ErrDuplicateNode = errors.New("node already registered")
	ErrInvalidInput  = errors.New("invalid input")
	ErrOutputArity   = errors.New("output count does not match return types")
)

// IOType names the value kind carried by a port.
type IOType string

// Port types understood by hosts.
const (
	String  IOType = "STRING"
	Int     IOType = "INT"
	Float   IOType = "FLOAT"
	Boolean IOType = "BOOLEAN"
	Any     IOType = "*"

	// Hidden input kinds are filled by the host, never wired by users.
	UniqueID     IOType = "UNIQUE_ID"
	ExtraPNGInfo IOType = "EXTRA_PNGINFO"
)

// InputOptions carries the widget options of an input port.
type InputOptions struct {
	Default        any      `json:"default,omitempty" yaml:"default,omitempty"`
	Min            *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max            *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Step           float64  `json:"step,omitempty" yaml:"step,omitempty"`
	Multiline      bool     `json:"multiline,omitempty" yaml:"multiline,omitempty"`
	ForceInput     bool     `json:"forceInput,omitempty" yaml:"forceInput,omitempty"`
	DynamicPrompts *bool    `json:"dynamicPrompts,omitempty" yaml:"dynamicPrompts,omitempty"`
}

// Input is a named input port.
type Input struct {
	Name    string       `json:"name" yaml:"name"`
	Type    IOType       `json:"type" yaml:"type"`
	Options InputOptions `json:"options" yaml:"options"`
}

// InputTypes groups input ports the way hosts present them.
type InputTypes struct {
	Required []Input `json:"required" yaml:"required"`
	Optional []Input `json:"optional,omitempty" yaml:"optional,omitempty"`
	Hidden   []Input `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// Visible returns required then optional ports.
func (it InputTypes) Visible() []Input {
	ports := make([]Input, 0, len(it.Required)+len(it.Optional))
	ports = append(ports, it.Required...)
	return append(ports, it.Optional...)
}

// Lookup finds a port by name across all groups.
func (it InputTypes) Lookup(name string) (Input, bool) {
	for _, group := range [][]Input{it.Required, it.Optional, it.Hidden} {
		for _, in := range group {
			if in.Name == name {
				return in, true
			}
		}
	}
	return Input{}, false
}

// Schema is the static port metadata a host reads to build its editor UI
// and to check wiring.
type Schema struct {
	Inputs       InputTypes `json:"input" yaml:"input"`
	ReturnTypes  []IOType   `json:"output" yaml:"output"`
	ReturnNames  []string   `json:"output_name,omitempty" yaml:"output_name,omitempty"`
	InputIsList  bool       `json:"input_is_list" yaml:"input_is_list"`
	OutputIsList []bool     `json:"output_is_list,omitempty" yaml:"output_is_list,omitempty"`
	OutputNode   bool       `json:"output_node" yaml:"output_node"`
	Category     string     `json:"category" yaml:"category"`
	Description  string     `json:"description,omitempty" yaml:"description,omitempty"`
	Function     string     `json:"function" yaml:"function"`
}

// OutputNames returns the declared return names, falling back to the
// return type names for unnamed outputs.
func (s Schema) OutputNames() []string {
	names := make([]string, len(s.ReturnTypes))
	for i, t := range s.ReturnTypes {
		if i < len(s.ReturnNames) && s.ReturnNames[i] != "" {
			names[i] = s.ReturnNames[i]
			continue
		}
		names[i] = string(t)
	}
	return names
}

// Inputs holds keyword-matched arguments for one call.
type Inputs map[string]any

// Result is what a node returns: outputs in declaration order plus an
// optional UI payload for the host's display side-channel.
type Result struct {
	UI      map[string][]any `json:"ui,omitempty"`
	Outputs []any            `json:"result"`
}

// Node is one plugin node.
type Node interface {
	Schema() Schema
	Call(ctx context.Context, in Inputs) (Result, error)
}

// Fingerprinter is implemented by nodes that tell the host whether their
// inputs changed since the previous run.
type Fingerprinter interface {
	Fingerprint(in Inputs) any
}

// Logger provides structured logging capabilities.
type Logger interface {
	Debug(ctx context.Context, msg string, keysAndValues ...any)
	Info(ctx context.Context, msg string, keysAndValues ...any)
	Error(ctx context.Context, msg string, keysAndValues ...any)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(context.Context, string, ...any) {}
func (NopLogger) Info(context.Context, string, ...any)  {}
func (NopLogger) Error(context.Context, string, ...any) {}

// FloatPtr returns a pointer to f, for InputOptions bounds.
func FloatPtr(f float64) *float64 { return &f }
