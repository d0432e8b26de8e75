package hfnodes

import (
	"fmt"
	"sort"
	"sync"
)

// DefaultWebDirectory is the front-end asset directory hosts load for
// nodes with custom UI rendering.
const DefaultWebDirectory = "./web"

// Registry maps stable node identifiers to node implementations. Hosts
// discover nodes solely through it.
type Registry struct {
	mu           sync.RWMutex
	nodes        map[string]Node
	displayNames map[string]string

	// WebDirectory points at front-end assets for display panels.
	WebDirectory string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes:        make(map[string]Node),
		displayNames: make(map[string]string),
		WebDirectory: DefaultWebDirectory,
	}
}

// Register adds a node under id. An empty displayName falls back to id.
func (r *Registry) Register(id string, node Node, displayName string) error {
	if id == "" {
		return fmt.Errorf("register node: empty id")
	}
	if node == nil {
		return fmt.Errorf("register node %q: nil node", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.nodes[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, id)
	}
	r.nodes[id] = node
	if displayName != "" {
		r.displayNames[id] = displayName
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(id string, node Node, displayName string) {
	if err := r.Register(id, node, displayName); err != nil {
		panic(err)
	}
}

// Get returns the node registered under id.
func (r *Registry) Get(id string) (Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	node, ok := r.nodes[id]
	return node, ok
}

// Lookup is like Get but returns ErrUnknownNode for missing ids.
func (r *Registry) Lookup(id string) (Node, error) {
	node, ok := r.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return node, nil
}

// DisplayName returns the human-facing name of id.
func (r *Registry) DisplayName(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.displayNames[id]; ok {
		return name
	}
	return id
}

// IDs returns all registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.nodes))
	for id := range r.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

// NodeInfo is the host-facing description of one registered node.
type NodeInfo struct {
	ID          string `json:"name" yaml:"name"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Schema      `yaml:",inline"`
}

// Info describes the node registered under id.
func (r *Registry) Info(id string) (NodeInfo, error) {
	node, err := r.Lookup(id)
	if err != nil {
		return NodeInfo{}, err
	}
	return NodeInfo{ID: id, DisplayName: r.DisplayName(id), Schema: node.Schema()}, nil
}

// Schemas returns the info of every registered node keyed by id.
func (r *Registry) Schemas() map[string]NodeInfo {
	ids := r.IDs()
	out := make(map[string]NodeInfo, len(ids))
	for _, id := range ids {
		if info, err := r.Info(id); err == nil {
			out[id] = info
		}
	}
	return out
}
