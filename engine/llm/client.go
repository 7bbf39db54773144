// Package llm sends single-turn system+user message pairs to a hosted
// chat-completion endpoint. One round-trip, no streaming, no retry. Failures
// are returned as errors; callers decide how to degrade.
package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is the hosted model used when none is configured.
const DefaultModel = "aisingapore/Llama-SEA-LION-v3-70B-IT"

// DefaultTimeout bounds a single completion round-trip.
const DefaultTimeout = 60 * time.Second

// Config holds the chat endpoint settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client is a thin chat-completions client.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// New creates a Client for an OpenAI-compatible chat endpoint.
func New(cfg Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		api:     openai.NewClientWithConfig(clientCfg),
		model:   model,
		timeout: timeout,
	}
}

// Options tunes a single completion call. Zero values mean client defaults.
type Options struct {
	Model     string
	MaxTokens int
}

// Complete sends one system+user pair and returns the generated text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error) {
	model := opts.Model
	if model == "" {
		model = c.model
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxTokens: opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
