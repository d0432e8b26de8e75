package hfnodes

import (
	"context"
	"reflect"
)

// CallFunc is the body of a node.
type CallFunc func(ctx context.Context, in Inputs) (Result, error)

// nodeOptions holds configuration for a node built with NewNode.
type nodeOptions struct {
	fingerprint func(Inputs) any
}

// Option configures a node built with NewNode.
type Option func(*nodeOptions)

// WithFingerprint sets the change fingerprint reported to the host.
func WithFingerprint(fn func(in Inputs) any) Option {
	return func(opts *nodeOptions) {
		opts.fingerprint = fn
	}
}

// funcNode is the private implementation of Node used by NewNode.
type funcNode struct {
	schema Schema
	call   CallFunc
	opts   nodeOptions
}

// NewNode creates a node from a schema and a call function.
func NewNode(schema Schema, call CallFunc, opts ...Option) Node {
	n := &funcNode{schema: schema, call: call}
	for _, opt := range opts {
		opt(&n.opts)
	}
	return n
}

func (n *funcNode) Schema() Schema {
	return n.schema
}

func (n *funcNode) Call(ctx context.Context, in Inputs) (Result, error) {
	return n.call(ctx, in)
}

// Fingerprint returns nil when no fingerprint function was configured, which
// leaves change detection to the host.
func (n *funcNode) Fingerprint(in Inputs) any {
	if n.opts.fingerprint == nil {
		return nil
	}
	return n.opts.fingerprint(in)
}

// AsList normalizes v into a list. A []any is returned as is, other slices
// and arrays are copied element by element and any other value becomes a
// one-element list.
func AsList(v any) []any {
	if list, ok := v.([]any); ok {
		return list
	}
	rv := reflect.ValueOf(v)
	if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return []any{v}
		}
		list := make([]any, rv.Len())
		for i := range list {
			list[i] = rv.Index(i).Interface()
		}
		return list
	}
	return []any{v}
}

// IsList reports whether v is a slice or array other than []byte.
func IsList(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Slice:
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	default:
		return false
	}
}
