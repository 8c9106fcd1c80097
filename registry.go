// FILE: registry.go
package runlog

import (
	"sort"
	"sync"
	"time"
)

// Registry owns named handles. Getting the same name twice returns the same handle.
type Registry struct {
	mu      sync.Mutex
	handles map[string]*Handle
	now     func() time.Time
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithClock sets the time source used by every handle of the registry
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegistry creates an empty registry
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		handles: make(map[string]*Handle),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the handle registered under name, creating it on first use.
// An empty name resolves to DefaultName.
func (r *Registry) Get(name string) *Handle {
	if name == "" {
		name = DefaultName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.handles[name]; ok {
		return h
	}
	h := newHandle(name, r.now)
	r.handles[name] = h
	return h
}

// Names returns the registered handle names in sorted order
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.handles))
	for name := range r.handles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes the sinks of every registered handle. Handles remain registered.
func (r *Registry) Close() error {
	r.mu.Lock()
	handles := make([]*Handle, 0, len(r.handles))
	for _, h := range r.handles {
		handles = append(handles, h)
	}
	r.mu.Unlock()

	var finalErr error
	for _, h := range handles {
		if err := h.Close(); err != nil {
			finalErr = combineErrors(finalErr, err)
		}
	}
	return finalErr
}
