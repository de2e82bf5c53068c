// Package refs resolves polymorphic (type name, record id) references
// against an open-ended set of record stores. Targets register under a
// type name; resolution never fails hard, it degrades to placeholder
// display strings.
package refs

import (
	"context"
	"fmt"
	"sync"
)

// Resolver is the capability a record store exposes for its type.
type Resolver interface {
	Exists(ctx context.Context, id uint) (bool, error)
	DisplayName(ctx context.Context, id uint) (string, error)
}

// Target is a navigable reference to a resolved record.
type Target struct {
	Model       string `json:"model"`
	ID          uint   `json:"id"`
	DisplayName string `json:"display_name"`
}

// Registry maps type names to resolvers.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]Resolver
}

func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]Resolver)}
}

func (r *Registry) Register(name string, resolver Resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers[name] = resolver
}

func (r *Registry) Lookup(name string) (Resolver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	resolver, ok := r.resolvers[name]
	return resolver, ok
}

// DisplayName resolves the display name for a reference. An unset
// reference yields "". An unknown type name or a failing lookup yields
// the "Invalid" placeholder, a known type whose record no longer exists
// yields the "Deleted" placeholder.
func (r *Registry) DisplayName(ctx context.Context, name string, id uint) string {
	if name == "" || id == 0 {
		return ""
	}
	resolver, ok := r.Lookup(name)
	if !ok {
		return fmt.Sprintf("Invalid %s #%d", name, id)
	}
	exists, err := resolver.Exists(ctx, id)
	if err != nil {
		return fmt.Sprintf("Invalid %s #%d", name, id)
	}
	if !exists {
		return fmt.Sprintf("Deleted %s #%d", name, id)
	}
	display, err := resolver.DisplayName(ctx, id)
	if err != nil {
		return fmt.Sprintf("Invalid %s #%d", name, id)
	}
	return display
}

// Resolve returns a navigable Target for a reference, or nil when the
// reference is unset or cannot be resolved to a live record.
func (r *Registry) Resolve(ctx context.Context, name string, id uint) *Target {
	if name == "" || id == 0 {
		return nil
	}
	resolver, ok := r.Lookup(name)
	if !ok {
		return nil
	}
	exists, err := resolver.Exists(ctx, id)
	if err != nil || !exists {
		return nil
	}
	display, err := resolver.DisplayName(ctx, id)
	if err != nil {
		return nil
	}
	return &Target{Model: name, ID: id, DisplayName: display}
}
