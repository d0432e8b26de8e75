// Package invoke calls a single registered node the way a host would:
// defaults and validation first, hidden inputs injected, UI payload
// forwarded to a sink. It never chains nodes together.
package invoke

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hvppyflow/hfnodes"
	"github.com/hvppyflow/hfnodes/middleware"
	"github.com/hvppyflow/hfnodes/ui"
)

// Request asks for one call of one node.
type Request struct {
	// Node is the registry id.
	Node string `json:"node" yaml:"node"`
	// ID identifies the node instance; it becomes the unique_id hidden
	// input. A random UUID is used when empty.
	ID     string         `json:"id,omitempty" yaml:"id,omitempty"`
	Inputs hfnodes.Inputs `json:"inputs" yaml:"inputs"`
	// Extra is passed as the extra_pnginfo hidden input.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Response is the outcome of one call.
type Response struct {
	ID          string           `json:"id" yaml:"id"`
	Node        string           `json:"node" yaml:"node"`
	Outputs     map[string]any   `json:"outputs" yaml:"outputs"`
	Result      []any            `json:"result" yaml:"result"`
	UI          map[string][]any `json:"ui,omitempty" yaml:"ui,omitempty"`
	Fingerprint any              `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	Duration    time.Duration    `json:"duration" yaml:"duration"`
}

// Invoker calls registered nodes.
type Invoker struct {
	registry    *hfnodes.Registry
	sink        ui.Sink
	logger      hfnodes.Logger
	middlewares []middleware.Middleware
	newID       func() string
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithSink sets where UI payloads of output nodes go.
func WithSink(sink ui.Sink) Option {
	return func(i *Invoker) { i.sink = sink }
}

// WithLogger sets the logger.
func WithLogger(logger hfnodes.Logger) Option {
	return func(i *Invoker) { i.logger = logger }
}

// WithMiddleware wraps every node call. The first middleware is the
// outermost one.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(i *Invoker) { i.middlewares = append(i.middlewares, mws...) }
}

// WithIDGenerator replaces the UUID generator used for empty request ids.
func WithIDGenerator(fn func() string) Option {
	return func(i *Invoker) { i.newID = fn }
}

// New creates an invoker over registry.
func New(registry *hfnodes.Registry, opts ...Option) *Invoker {
	i := &Invoker{
		registry: registry,
		sink:     ui.Discard,
		logger:   hfnodes.NopLogger{},
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Registry returns the registry the invoker resolves nodes in.
func (i *Invoker) Registry() *hfnodes.Registry {
	return i.registry
}

// Invoke runs one request.
func (i *Invoker) Invoke(ctx context.Context, req Request) (*Response, error) {
	node, err := i.registry.Lookup(req.Node)
	if err != nil {
		return nil, err
	}
	schema := node.Schema()

	id := req.ID
	if id == "" {
		id = i.newID()
	}

	in := hfnodes.ApplyDefaults(schema, req.Inputs)
	if schema.InputIsList {
		for _, port := range schema.Inputs.Visible() {
			if v, ok := in[port.Name]; ok {
				in[port.Name] = hfnodes.AsList(v)
			}
		}
	}
	injectHidden(schema, in, id, req.Extra)

	var fingerprint any
	if fp, ok := node.(hfnodes.Fingerprinter); ok {
		fingerprint = fp.Fingerprint(in)
	}

	// Validation is the innermost middleware.
	mws := append(append([]middleware.Middleware(nil), i.middlewares...), middleware.Validation())
	wrapped := middleware.Chain(mws...)(req.Node, node)

	start := time.Now()
	result, err := wrapped.Call(ctx, in)
	duration := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", req.Node, err)
	}

	if len(result.Outputs) != len(schema.ReturnTypes) {
		return nil, fmt.Errorf("node %s: %w: got %d, want %d",
			req.Node, hfnodes.ErrOutputArity, len(result.Outputs), len(schema.ReturnTypes))
	}

	if schema.OutputNode && result.UI != nil {
		ev := ui.Event{NodeID: id, Node: req.Node, Payload: result.UI, Time: time.Now()}
		if err := i.sink.Deliver(ctx, ev); err != nil {
			// The result is still valid; the display just missed an update.
			i.logger.Error(ctx, "ui delivery failed", "node", req.Node, "id", id, "error", err)
		}
	}

	names := schema.OutputNames()
	outputs := make(map[string]any, len(names))
	for idx, name := range names {
		outputs[name] = result.Outputs[idx]
	}

	return &Response{
		ID:          id,
		Node:        req.Node,
		Outputs:     outputs,
		Result:      result.Outputs,
		UI:          result.UI,
		Fingerprint: fingerprint,
		Duration:    duration,
	}, nil
}

// InvokeAll runs independent requests concurrently, at most parallel at a
// time (unbounded when parallel <= 0). Responses keep the request order.
// The first failure cancels the remaining calls.
func (i *Invoker) InvokeAll(ctx context.Context, reqs []Request, parallel int) ([]*Response, error) {
	responses := make([]*Response, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}

	for idx, req := range reqs {
		g.Go(func() error {
			resp, err := i.Invoke(gctx, req)
			if err != nil {
				return fmt.Errorf("request %d: %w", idx, err)
			}
			responses[idx] = resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return responses, nil
}

func injectHidden(schema hfnodes.Schema, in hfnodes.Inputs, id string, extra map[string]any) {
	for _, port := range schema.Inputs.Hidden {
		switch port.Type {
		case hfnodes.UniqueID:
			in[port.Name] = id
		case hfnodes.ExtraPNGInfo:
			if extra != nil {
				in[port.Name] = extra
			}
		}
	}
}
