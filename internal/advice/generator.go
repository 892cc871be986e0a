// Package advice calls an external language model to answer personal
// finance questions. The generator is a best-effort sidecar: when it is
// unconfigured or fails, callers fall back to a canned response and the
// stored request simply stays pending.
package advice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Fallback is returned to clients when no advice could be generated.
const Fallback = "Sorry, I couldn't generate advice at this time."

const systemPrompt = "You are a helpful financial advisor. Give brief, practical advice."

var (
	// ErrNotConfigured means no API key was provided.
	ErrNotConfigured = errors.New("advice generator not configured")
	// ErrTimeout means the upstream call exceeded its deadline.
	ErrTimeout = errors.New("advice generation timed out")
)

// Generator produces advice text for a user query.
type Generator interface {
	Generate(ctx context.Context, query string) (string, error)
}

// OpenAIGenerator implements Generator against an OpenAI-compatible
// chat completion endpoint.
type OpenAIGenerator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// Config for NewOpenAIGenerator. BaseURL is optional and lets the
// generator target any OpenAI-compatible server.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewOpenAIGenerator returns a generator, or ErrNotConfigured when the
// API key is empty.
func NewOpenAIGenerator(cfg Config) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &OpenAIGenerator{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		timeout: timeout,
	}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.3,
		MaxTokens:   300,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("blank completion text")
	}
	return text, nil
}

var _ Generator = (*OpenAIGenerator)(nil)
