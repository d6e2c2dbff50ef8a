// Package registry maps method names to callables with declared signatures.
//
// The dispatch loop resolves symbolic targets against a Registry at
// execution time. Signatures carry the parameter names and defaults that Go
// reflection cannot recover from a func value, so they are supplied at
// registration and checked against the func's actual parameter types.
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is a thread-safe mapping from method name to Callable.
//
// The registry is an external collaborator of the dispatch loop: the loop
// reads it to resolve symbolic targets but does not own or mutate it.
type Registry struct {
	mu      sync.RWMutex
	methods map[string]*Callable
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		methods: make(map[string]*Callable),
	}
}

// Register binds a method name to a Go func with the given parameter specs.
//
// Parameter specs are matched positionally against the func's inputs; see
// NewCallable for the rules. Registering a duplicate name is an error so a
// later registration can never silently shadow an earlier one.
func (r *Registry) Register(name string, fn any, params ...Param) error {
	c, err := NewCallable(name, fn, params...)
	if err != nil {
		return err
	}
	return r.RegisterCallable(c)
}

// RegisterCallable adds a pre-built callable under its own name.
func (r *Registry) RegisterCallable(c *Callable) error {
	if c == nil {
		return fmt.Errorf("callable must not be nil")
	}
	if c.Name() == "" {
		return fmt.Errorf("callable name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.methods[c.Name()]; exists {
		return fmt.Errorf("duplicate method name: %s", c.Name())
	}
	r.methods[c.Name()] = c
	return nil
}

// Resolve looks up a callable by name.
// Thread-safe: may be called from any goroutine.
func (r *Registry) Resolve(name string) (*Callable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.methods[name]
	return c, ok
}

// Names returns the registered method names in sorted order.
// Used for introspection and error reporting.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered methods.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.methods)
}
