// internal/app/system/textgen/textgen.go

// Package textgen is a thin client for the OpenRouter chat-completions API,
// used to draft profile copy and campaign briefs. Callers own the prompt;
// this package owns transport, auth headers, and response unwrapping.
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL   = "https://openrouter.ai/api/v1"
	defaultModel     = "anthropic/claude-3.5-sonnet"
	defaultMaxTokens = 2000
	requestTimeout   = 60 * time.Second
)

// ErrEmptyCompletion is returned when the API answers without any choices.
var ErrEmptyCompletion = errors.New("completion had no choices")

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"` // system | user | assistant
	Content string `json:"content"`
}

// Options tune a single completion call. Zero values fall back to the
// client's defaults.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	JSONMode    bool
}

// Client calls the OpenRouter chat-completions endpoint.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
	referer string
	title   string
	log     *zap.Logger
}

// Config holds the client settings. APIKey is required; everything else has
// a default.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Referer string
	Title   string
}

// New builds an OpenRouter client.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return &Client{
		http:    &http.Client{Timeout: requestTimeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		referer: cfg.Referer,
		title:   cfg.Title,
		log:     logger,
	}
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Chat sends the conversation and returns the first choice's content.
func (c *Client) Chat(ctx context.Context, messages []Message, opts Options) (string, error) {
	if opts.Model == "" {
		opts.Model = c.model
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.7
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}

	reqBody := chatRequest{
		Model:       opts.Model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	if opts.JSONMode {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		req.Header.Set("X-Title", c.title)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion endpoint answered %d: %s", resp.StatusCode, body)
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	c.log.Debug("completion finished",
		zap.String("model", opts.Model),
		zap.Int("total_tokens", out.Usage.TotalTokens))
	return out.Choices[0].Message.Content, nil
}

// GenerateJSON asks for a JSON-mode completion and decodes the result into
// dst. The optional system prompt is prepended when non-empty.
func (c *Client) GenerateJSON(ctx context.Context, prompt, systemPrompt string, dst any) error {
	var messages []Message
	if systemPrompt != "" {
		messages = append(messages, Message{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, Message{Role: "user", Content: prompt})

	content, err := c.Chat(ctx, messages, Options{JSONMode: true})
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(content), dst); err != nil {
		return fmt.Errorf("decode generated JSON: %w", err)
	}
	return nil
}
