// Package backend provides the generation backends that power debate roles
// and the router that dispatches role-bound calls to them.
//
// Two wire protocols are supported: a chat-style multi-message protocol
// (OpenAI-compatible chat completions, used by ChatBackend) and a
// single-combined-prompt protocol (Gemini-style generateContent, used by
// PromptBackend). Both satisfy the same Backend contract: return trimmed
// plain text bounded by the request's max token count.
package backend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/debatelab/arena/internal/config"
)

// Request carries one generation call's inputs.
type Request struct {
	// System is the role instruction block.
	System string
	// User is the conversation context for this turn.
	User string
	// Temperature is the sampling temperature for this call.
	Temperature float64
	// MaxTokens bounds the generated output length.
	MaxTokens int
}

// Backend is a stateless text-generation service bound to one model.
type Backend interface {
	// Key returns the registry key this backend was registered under.
	Key() string

	// DisplayName returns the human-readable backend label used in
	// transcripts and verdicts.
	DisplayName() string

	// Complete performs one generation call and returns trimmed text.
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrUnknownBackend is returned when a requested backend key is not registered.
var ErrUnknownBackend = fmt.Errorf("unknown backend")

// Registry holds the configured backends by key. It is populated once at
// construction time and read-only afterwards; no ambient globals.
type Registry struct {
	backends map[string]Backend
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

// NewRegistryFromConfig builds a Registry containing one backend per
// configured key, constructed according to its protocol.
func NewRegistryFromConfig(cfg *config.Config) (*Registry, error) {
	reg := NewRegistry()
	for key, bc := range cfg.Backends {
		var b Backend
		switch strings.ToLower(bc.Protocol) {
		case config.ProtocolChat:
			b = NewChatBackend(key, bc)
		case config.ProtocolPrompt:
			b = NewPromptBackend(key, bc)
		default:
			return nil, fmt.Errorf("backend %q: unsupported protocol %q", key, bc.Protocol)
		}
		reg.Register(b)
	}
	return reg, nil
}

// Register adds a backend under its key, replacing any previous registration.
func (r *Registry) Register(b Backend) {
	r.backends[b.Key()] = b
}

// Get returns the backend registered under key.
func (r *Registry) Get(key string) (Backend, error) {
	b, ok := r.backends[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, key)
	}
	return b, nil
}

// Keys returns the registered backend keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.backends))
	for k := range r.backends {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
