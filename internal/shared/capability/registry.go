// Package capability resolves domain capability ports to concrete adapters.
//
// A capability port is the sole surface through which one domain module is
// visible to another. The composition root binds each port name to either an
// in-process adapter (direct call) or a remote adapter (network call),
// depending on deployment topology; call sites always resolve through the
// registry and never change when a module is extracted into its own process.
package capability

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrPortNameRequired = errors.New("capability port name is required")
	ErrPortImplRequired = errors.New("capability port implementation is required")
	ErrPortNotBound     = errors.New("capability port is not bound")
	ErrPortTypeMismatch = errors.New("capability port bound to incompatible type")
)

// Registry maps versioned port names (for example "catalog.v1") to their
// wired implementation for this deployment.
type Registry struct {
	mu    sync.RWMutex
	ports map[string]any
}

func NewRegistry() *Registry {
	return &Registry{ports: make(map[string]any)}
}

// Bind wires a port name to an implementation. Rebinding replaces the
// previous adapter; switching a module from in-process to remote is exactly
// one Bind call in the composition root.
func (r *Registry) Bind(name string, impl any) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrPortNameRequired
	}
	if impl == nil {
		return ErrPortImplRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ports == nil {
		r.ports = make(map[string]any)
	}
	r.ports[name] = impl
	return nil
}

func (r *Registry) lookup(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	impl, ok := r.ports[name]
	return impl, ok
}

// Resolve returns the adapter bound to name, typed as the caller's port
// interface.
func Resolve[T any](r *Registry, name string) (T, error) {
	var zero T
	if r == nil {
		return zero, ErrPortNotBound
	}

	impl, ok := r.lookup(strings.TrimSpace(name))
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrPortNotBound, name)
	}

	typed, ok := impl.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T", ErrPortTypeMismatch, name, impl)
	}
	return typed, nil
}
