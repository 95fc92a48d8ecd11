package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/debatelab/arena/internal/config"
)

func newPromptTestServer(t *testing.T, handler http.HandlerFunc) *PromptBackend {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("PROMPT_TEST_KEY", "sk-gemini")
	return NewPromptBackend("gemini", config.BackendConfig{
		Protocol:    config.ProtocolPrompt,
		Endpoint:    srv.URL,
		Model:       "gemini-2.0-flash-lite",
		APIKeyEnv:   "PROMPT_TEST_KEY",
		DisplayName: "Gemini",
	}, WithPromptHTTPClient(srv.Client()))
}

func TestPromptComplete(t *testing.T) {
	var gotReq generateRequest
	var gotPath, gotKey string

	b := newPromptTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(generateResponse{
			Candidates: []generateCandidate{
				{Content: generateContent{Parts: []generatePart{
					{Text: "Winner: B\n"},
					{Text: "Final: Use X.  "},
				}}},
			},
		})
	})

	got, err := b.Complete(context.Background(), Request{
		System:      "You are the Judge.",
		User:        "Question: REST vs gRPC?",
		Temperature: 0.3,
		MaxTokens:   220,
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	// Parts are concatenated and the whole result trimmed.
	if got != "Winner: B\nFinal: Use X." {
		t.Errorf("Complete() = %q", got)
	}
	if want := "/v1beta/models/gemini-2.0-flash-lite:generateContent"; gotPath != want {
		t.Errorf("request path = %q, want %q", gotPath, want)
	}
	if gotKey != "sk-gemini" {
		t.Errorf("x-goog-api-key = %q, want %q", gotKey, "sk-gemini")
	}
	if gotReq.GenerationConfig.Temperature != 0.3 {
		t.Errorf("temperature = %v, want 0.3", gotReq.GenerationConfig.Temperature)
	}
	if gotReq.GenerationConfig.MaxOutputTokens != 220 {
		t.Errorf("maxOutputTokens = %d, want 220", gotReq.GenerationConfig.MaxOutputTokens)
	}

	// System instructions are folded into the single combined prompt.
	if len(gotReq.Contents) != 1 || len(gotReq.Contents[0].Parts) != 1 {
		t.Fatalf("contents = %+v, want one content with one part", gotReq.Contents)
	}
	prompt := gotReq.Contents[0].Parts[0].Text
	if !strings.HasPrefix(prompt, "You are the Judge.\n\n") {
		t.Errorf("combined prompt missing system prefix: %q", prompt)
	}
	if !strings.Contains(prompt, "Question: REST vs gRPC?") {
		t.Errorf("combined prompt missing user context: %q", prompt)
	}
}

func TestPromptCompleteHTTPError(t *testing.T) {
	b := newPromptTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend unavailable", http.StatusServiceUnavailable)
	})

	_, err := b.Complete(context.Background(), Request{User: "hi"})
	if err == nil {
		t.Fatal("Complete() error = nil, want API error")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error %q should carry the status code", err)
	}
}

func TestPromptCompleteEmptyCandidates(t *testing.T) {
	b := newPromptTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(generateResponse{})
	})

	_, err := b.Complete(context.Background(), Request{User: "hi"})
	if err == nil {
		t.Fatal("Complete() error = nil, want empty-response error")
	}
}
