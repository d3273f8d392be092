package registry

import (
	"sort"
)

// Module is the interface that all workload modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds all the registered workload kinds for a single application instance.
type Registry struct {
	Workloads map[string]*RegisteredWorkload
}

// New creates a new, empty registry.
func New() *Registry {
	r := &Registry{
		Workloads: make(map[string]*RegisteredWorkload),
	}
	return r
}

// Kinds returns the registered workload kinds in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.Workloads))
	for k := range r.Workloads {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Lookup returns the workload registered for kind.
func (r *Registry) Lookup(kind string) (*RegisteredWorkload, bool) {
	w, ok := r.Workloads[kind]
	return w, ok
}
