// Package registry is the process-wide catalog of built-in simulations.
// A single Registry is created at startup, populated from the compiled-in
// simulation packages, and read-only afterwards; factories are stateless and
// produce a fresh, fully initialized simulation on every Get, so no instance
// is shared or mutated across callers.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vk/decisim/internal/schema"
	"github.com/vk/decisim/internal/sim"
)

// ErrNotFound marks a lookup for an id the registry does not know.
var ErrNotFound = errors.New("simulation not found")

// Factory builds a fresh simulation instance.
type Factory func() (*sim.Simulation, error)

// Entry is one catalog entry: identifying metadata, search tags and the
// factory that produces the instance.
type Entry struct {
	Meta    schema.Metadata
	Tags    []string
	Factory Factory
}

// Registry holds the catalog. Reads are safe concurrently; registration
// happens only during process startup.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register adds an entry to the catalog. A duplicate id or a nil factory is
// a programmer error and panics.
func (r *Registry) Register(e Entry) {
	if e.Meta.ID == "" {
		panic("registry: entry has no id")
	}
	if e.Factory == nil {
		panic(fmt.Sprintf("registry: entry %q has no factory", e.Meta.ID))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[e.Meta.ID]; exists {
		panic(fmt.Sprintf("registry: simulation %q already registered", e.Meta.ID))
	}
	r.entries[e.Meta.ID] = &e
}

// Get builds a fresh simulation instance for id.
func (r *Registry) Get(id string) (*sim.Simulation, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("simulation %q: %w", id, ErrNotFound)
	}
	s, err := e.Factory()
	if err != nil {
		return nil, fmt.Errorf("simulation %q: factory failed: %w", id, err)
	}
	return s, nil
}

// List returns the metadata of every registered simulation, sorted by id.
func (r *Registry) List() []schema.Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]schema.Metadata, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
