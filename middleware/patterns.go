package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/hvppyflow/hfnodes"
)

// Timeout bounds each call with a context deadline.
func Timeout(duration time.Duration) Middleware {
	return func(id string, node hfnodes.Node) hfnodes.Node {
		return &middlewareNode{
			inner: node,
			call: func(ctx context.Context, in hfnodes.Inputs) (hfnodes.Result, error) {
				timeoutCtx, cancel := context.WithTimeout(ctx, duration)
				defer cancel()

				result, err := node.Call(timeoutCtx, in)
				if err != nil && timeoutCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
					return hfnodes.Result{}, fmt.Errorf("node %s timed out after %v: %w", id, duration, err)
				}
				return result, err
			},
		}
	}
}

// Recover turns a panic inside a node into an error.
func Recover() Middleware {
	return func(id string, node hfnodes.Node) hfnodes.Node {
		return &middlewareNode{
			inner: node,
			call: func(ctx context.Context, in hfnodes.Inputs) (result hfnodes.Result, err error) {
				defer func() {
					if r := recover(); r != nil {
						result = hfnodes.Result{}
						err = fmt.Errorf("node %s panicked: %v", id, r)
					}
				}()
				return node.Call(ctx, in)
			},
		}
	}
}

// Validation applies port defaults and checks inputs against the node's
// port schema before the call.
func Validation() Middleware {
	return func(id string, node hfnodes.Node) hfnodes.Node {
		return &middlewareNode{
			inner: node,
			call: func(ctx context.Context, in hfnodes.Inputs) (hfnodes.Result, error) {
				schema := node.Schema()
				in = hfnodes.ApplyDefaults(schema, in)
				if err := hfnodes.ValidateInputs(schema, in); err != nil {
					return hfnodes.Result{}, fmt.Errorf("validate inputs: %w", err)
				}
				return node.Call(ctx, in)
			},
		}
	}
}
