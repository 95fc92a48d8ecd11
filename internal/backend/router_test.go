package backend

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/debatelab/arena/internal/config"
)

// stubBackend returns a fixed response, or an error when failWith is set.
type stubBackend struct {
	key      string
	display  string
	response string
	failWith error
	calls    int
	lastReq  Request
}

func (s *stubBackend) Key() string         { return s.key }
func (s *stubBackend) DisplayName() string { return s.display }

func (s *stubBackend) Complete(_ context.Context, req Request) (string, error) {
	s.calls++
	s.lastReq = req
	if s.failWith != nil {
		return "", s.failWith
	}
	return s.response, nil
}

func TestRouterInvoke(t *testing.T) {
	reg := NewRegistry()
	stub := &stubBackend{key: "openai", display: "OpenAI", response: "an argument"}
	reg.Register(stub)
	router := NewRouter(reg)

	got, err := router.Invoke(context.Background(), "debater_a", "openai", Request{
		User:        "Question: why?",
		Temperature: 0.6,
		MaxTokens:   220,
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got != "an argument" {
		t.Errorf("Invoke() = %q, want %q", got, "an argument")
	}
	if stub.calls != 1 {
		t.Errorf("backend called %d times, want 1", stub.calls)
	}
	if stub.lastReq.Temperature != 0.6 {
		t.Errorf("dispatched temperature = %v, want 0.6", stub.lastReq.Temperature)
	}
}

func TestRouterInvokeUnknownKey(t *testing.T) {
	router := NewRouter(NewRegistry())

	_, err := router.Invoke(context.Background(), "judge", "missing", Request{User: "q"})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Invoke() error = %v, want ErrUnknownBackend", err)
	}
}

func TestRouterInvokePropagatesBackendError(t *testing.T) {
	reg := NewRegistry()
	backendErr := fmt.Errorf("quota exhausted")
	reg.Register(&stubBackend{key: "grok", failWith: backendErr})
	router := NewRouter(reg)

	_, err := router.Invoke(context.Background(), "debater_b", "grok", Request{User: "q"})
	if !errors.Is(err, backendErr) {
		t.Errorf("Invoke() error = %v, want wrapped backend error", err)
	}
}

func TestRouterDisplayName(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubBackend{key: "grok", display: "Grok"})
	router := NewRouter(reg)

	if got := router.DisplayName("grok"); got != "Grok" {
		t.Errorf("DisplayName(grok) = %q, want %q", got, "Grok")
	}
	// Unknown keys fall back to the key itself.
	if got := router.DisplayName("nope"); got != "nope" {
		t.Errorf("DisplayName(nope) = %q, want key fallback", got)
	}
}

func TestNewRegistryFromConfig(t *testing.T) {
	cfg := config.Default()
	reg, err := NewRegistryFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewRegistryFromConfig() error = %v", err)
	}

	keys := reg.Keys()
	want := []string{"gemini", "grok", "openai"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], k)
		}
	}

	gemini, err := reg.Get("gemini")
	if err != nil {
		t.Fatalf("Get(gemini) error = %v", err)
	}
	if _, ok := gemini.(*PromptBackend); !ok {
		t.Errorf("gemini backend is %T, want *PromptBackend", gemini)
	}

	openai, err := reg.Get("openai")
	if err != nil {
		t.Fatalf("Get(openai) error = %v", err)
	}
	if _, ok := openai.(*ChatBackend); !ok {
		t.Errorf("openai backend is %T, want *ChatBackend", openai)
	}
}

func TestNewRegistryFromConfigBadProtocol(t *testing.T) {
	cfg := config.Default()
	cfg.Backends["weird"] = config.BackendConfig{
		Protocol: "carrier-pigeon",
		Endpoint: "http://localhost",
		Model:    "m",
	}

	if _, err := NewRegistryFromConfig(cfg); err == nil {
		t.Error("NewRegistryFromConfig() error = nil, want unsupported protocol error")
	}
}
