// Package middleware provides node enhancement patterns for cross-cutting concerns
// like logging, metrics, timeouts and panic recovery.
package middleware

import (
	"context"

	"github.com/hvppyflow/hfnodes"
)

// Middleware modifies node behavior. The id is the registry id of node.
type Middleware func(id string, node hfnodes.Node) hfnodes.Node

// middlewareNode wraps a node to modify its behavior.
type middlewareNode struct {
	inner hfnodes.Node
	call  hfnodes.CallFunc
}

func (m *middlewareNode) Schema() hfnodes.Schema {
	return m.inner.Schema()
}

func (m *middlewareNode) Call(ctx context.Context, in hfnodes.Inputs) (hfnodes.Result, error) {
	if m.call != nil {
		return m.call(ctx, in)
	}
	return m.inner.Call(ctx, in)
}

// Fingerprint forwards to the wrapped node.
func (m *middlewareNode) Fingerprint(in hfnodes.Inputs) any {
	if fp, ok := m.inner.(hfnodes.Fingerprinter); ok {
		return fp.Fingerprint(in)
	}
	return nil
}

// Chain combines multiple middlewares into a single middleware.
// The first middleware is the outermost one.
func Chain(middlewares ...Middleware) Middleware {
	return func(id string, node hfnodes.Node) hfnodes.Node {
		for i := len(middlewares) - 1; i >= 0; i-- {
			node = middlewares[i](id, node)
		}
		return node
	}
}

// Apply applies middleware to a node. The last middleware is the outermost one.
func Apply(id string, node hfnodes.Node, middlewares ...Middleware) hfnodes.Node {
	for _, mw := range middlewares {
		node = mw(id, node)
	}
	return node
}
