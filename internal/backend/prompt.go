package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/debatelab/arena/internal/config"
)

// PromptBackend implements Backend over the Gemini-style generateContent
// protocol: the role instructions and context are combined into one text
// prompt rather than sent as separate message turns.
type PromptBackend struct {
	key         string
	displayName string
	endpoint    string
	model       string
	apiKey      string
	httpClient  *http.Client
}

// PromptOption configures a PromptBackend.
type PromptOption func(*PromptBackend)

// WithPromptHTTPClient replaces the HTTP client, primarily for tests.
func WithPromptHTTPClient(client *http.Client) PromptOption {
	return func(b *PromptBackend) {
		b.httpClient = client
	}
}

// NewPromptBackend creates a prompt-protocol backend from config.
func NewPromptBackend(key string, cfg config.BackendConfig, opts ...PromptOption) *PromptBackend {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	b := &PromptBackend{
		key:         key,
		displayName: displayNameOrKey(cfg.DisplayName, key),
		endpoint:    strings.TrimRight(cfg.Endpoint, "/"),
		model:       cfg.Model,
		apiKey:      cfg.APIKey(),
		httpClient:  &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *PromptBackend) Key() string { return b.key }

func (b *PromptBackend) DisplayName() string { return b.displayName }

// generateRequest is the generateContent request structure.
type generateRequest struct {
	Contents         []generateContent `json:"contents"`
	GenerationConfig generationConfig  `json:"generationConfig"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generatePart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// generateResponse is the generateContent response structure.
type generateResponse struct {
	Candidates []generateCandidate `json:"candidates"`
	Error      *generateAPIError   `json:"error,omitempty"`
}

type generateCandidate struct {
	Content generateContent `json:"content"`
}

type generateAPIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Complete combines the system instructions and user context into a single
// prompt, sends it, and returns the first candidate's text, trimmed.
func (b *PromptBackend) Complete(ctx context.Context, req Request) (string, error) {
	prompt := req.User
	if req.System != "" {
		prompt = req.System + "\n\n" + req.User
	}

	reqBody := generateRequest{
		Contents: []generateContent{
			{Parts: []generatePart{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		},
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", b.endpoint, b.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		httpReq.Header.Set("x-goog-api-key", b.apiKey)
	}

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s API error (status %d): %s", b.key, resp.StatusCode, string(body))
	}

	var respData generateResponse
	if err := json.Unmarshal(body, &respData); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if respData.Error != nil {
		return "", fmt.Errorf("%s API error: %s", b.key, respData.Error.Message)
	}

	if len(respData.Candidates) == 0 {
		return "", fmt.Errorf("%s: empty response from API", b.key)
	}

	var sb strings.Builder
	for _, part := range respData.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}
