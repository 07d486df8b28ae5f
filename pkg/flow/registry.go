package flow

import (
	"sort"
	"sync"

	"github.com/percursohq/percurso/pkg/domain"
)

// Registry maps flow names to graphs. One graph exists per data
// collection scenario; they share the same shape but differ in content.
type Registry struct {
	mu    sync.RWMutex
	flows map[string]*Graph
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{flows: make(map[string]*Graph)}
}

// Register adds a graph under its own name, overwriting any previous one.
func (r *Registry) Register(g *Graph) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flows[g.Name()] = g
}

// Get returns the graph registered under name.
func (r *Registry) Get(name string) (*Graph, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.flows[name]
	if !ok {
		return nil, domain.ErrFlowNotFound
	}
	return g, nil
}

// Names returns the registered flow names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.flows))
	for name := range r.flows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
