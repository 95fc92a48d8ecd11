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

// defaultTimeout is the fallback HTTP request timeout.
const defaultTimeout = 60 * time.Second

// ChatBackend implements Backend over the OpenAI-compatible chat completions
// protocol. The xAI API uses the same wire format with a different base URL,
// so both debater backends are ChatBackends by default.
type ChatBackend struct {
	key         string
	displayName string
	endpoint    string
	model       string
	apiKey      string
	httpClient  *http.Client
}

// ChatOption configures a ChatBackend.
type ChatOption func(*ChatBackend)

// WithChatHTTPClient replaces the HTTP client, primarily for tests.
func WithChatHTTPClient(client *http.Client) ChatOption {
	return func(b *ChatBackend) {
		b.httpClient = client
	}
}

// NewChatBackend creates a chat-protocol backend from config.
func NewChatBackend(key string, cfg config.BackendConfig, opts ...ChatOption) *ChatBackend {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	b := &ChatBackend{
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

func (b *ChatBackend) Key() string { return b.key }

func (b *ChatBackend) DisplayName() string { return b.displayName }

// chatRequest is the chat completions request structure.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the chat completions response structure.
type chatResponse struct {
	Choices []chatChoice  `json:"choices"`
	Error   *chatAPIError `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatAPIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Complete sends the request as a system + user message pair and returns the
// first choice's content, trimmed.
func (b *ChatBackend) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.User})

	reqBody := chatRequest{
		Model:       b.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := b.endpoint + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)
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

	var respData chatResponse
	if err := json.Unmarshal(body, &respData); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if respData.Error != nil {
		return "", fmt.Errorf("%s API error: %s", b.key, respData.Error.Message)
	}

	if len(respData.Choices) == 0 {
		return "", fmt.Errorf("%s: empty response from API", b.key)
	}

	return strings.TrimSpace(respData.Choices[0].Message.Content), nil
}

// displayNameOrKey falls back to the registry key when no display name is
// configured.
func displayNameOrKey(name, key string) string {
	if name != "" {
		return name
	}
	return key
}
