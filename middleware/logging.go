package middleware

import (
	"context"
	"time"

	"github.com/hvppyflow/hfnodes"
)

// Logging adds structured logging around every call.
func Logging(logger hfnodes.Logger) Middleware {
	return func(id string, node hfnodes.Node) hfnodes.Node {
		return &middlewareNode{
			inner: node,
			call: func(ctx context.Context, in hfnodes.Inputs) (hfnodes.Result, error) {
				logger.Info(ctx, "node call starting", "node", id, "inputs", len(in))
				start := time.Now()

				result, err := node.Call(ctx, in)

				if err != nil {
					logger.Error(ctx, "node call failed",
						"node", id,
						"duration", time.Since(start),
						"error", err)
				} else {
					logger.Info(ctx, "node call completed",
						"node", id,
						"duration", time.Since(start),
						"outputs", len(result.Outputs),
						"ui", result.UI != nil)
				}

				return result, err
			},
		}
	}
}
