// Package ui delivers node UI payloads to display surfaces. It stands in
// for the host's side-channel between node calls and front-end panels.
package ui

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Event is one UI payload produced by an output node.
type Event struct {
	// NodeID is the unique id of the node instance in the host's graph.
	NodeID string `json:"node_id"`
	// Node is the registry id of the node type.
	Node    string           `json:"node"`
	Payload map[string][]any `json:"payload"`
	Time    time.Time        `json:"time"`
}

// Sink receives UI events.
type Sink interface {
	Deliver(ctx context.Context, ev Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, ev Event) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Discard drops every event.
var Discard Sink = SinkFunc(func(context.Context, Event) error { return nil })

// Multi delivers each event to all sinks in order. Every sink is tried; the
// first error is returned.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(ctx context.Context, ev Event) error {
		var first error
		for _, s := range sinks {
			if err := s.Deliver(ctx, ev); err != nil && first == nil {
				first = err
			}
		}
		return first
	})
}

// Recorder keeps delivered events in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.RWMutex
	events []Event
	limit  int
}

// NewRecorder creates a recorder keeping at most limit events; older events
// are dropped first. A limit of zero keeps everything.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Deliver implements Sink.
func (r *Recorder) Deliver(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	if r.limit > 0 && len(r.events) > r.limit {
		r.events = append([]Event(nil), r.events[len(r.events)-r.limit:]...)
	}
	return nil
}

// Events returns a copy of the recorded events, oldest first.
func (r *Recorder) Events() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Event(nil), r.events...)
}

// Last returns the most recent event for a node instance.
func (r *Recorder) Last(nodeID string) (Event, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].NodeID == nodeID {
			return r.events[i], true
		}
	}
	return Event{}, false
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Page is one entry of a paged text display.
type Page struct {
	Label string
	Text  string
}

// Pages lays out items the way display panels show them: a single item has
// no label, several items are labelled "i / N".
func Pages(items []any) []Page {
	pages := make([]Page, len(items))
	for i, item := range items {
		pages[i] = Page{Text: toText(item)}
		if len(items) > 1 {
			pages[i].Label = fmt.Sprintf("%d / %d", i+1, len(items))
		}
	}
	return pages
}

func toText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
