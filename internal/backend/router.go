package backend

import (
	"context"
	"fmt"
)

// Router dispatches role-bound generation calls to registered backends.
// Role and backend key are independent: any role may bind to any key.
// The router performs no business logic beyond dispatch; in particular it
// does not retry, so generation failures propagate to the caller. Retry
// and backoff policy, if ever added, belongs at this boundary.
type Router struct {
	reg *Registry
}

// NewRouter creates a Router over the given registry.
func NewRouter(reg *Registry) *Router {
	return &Router{reg: reg}
}

// Invoke performs one generation call for the given role against the backend
// registered under key. The role is carried for error context only.
func (r *Router) Invoke(ctx context.Context, role, key string, req Request) (string, error) {
	b, err := r.reg.Get(key)
	if err != nil {
		return "", fmt.Errorf("invoke %s: %w", role, err)
	}

	text, err := b.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("invoke %s via %s: %w", role, key, err)
	}
	return text, nil
}

// DisplayName returns the human-readable label of the backend registered
// under key, falling back to the key itself when the key is unknown.
func (r *Router) DisplayName(key string) string {
	b, err := r.reg.Get(key)
	if err != nil {
		return key
	}
	return b.DisplayName()
}

// Keys returns the registered backend keys in sorted order.
func (r *Router) Keys() []string {
	return r.reg.Keys()
}
