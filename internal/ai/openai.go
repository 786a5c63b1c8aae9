package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// chatProvider talks to any OpenAI-compatible chat completions API. It
// backs both the OpenAI and Mistral providers.
type chatProvider struct {
	name   string
	model  string
	client openai.Client
}

func newChatProvider(name string, cfg ProviderConfig) *chatProvider {
	return &chatProvider{
		name:  name,
		model: cfg.Model,
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.BaseURL),
			option.WithHTTPClient(&http.Client{Timeout: requestTimeout}),
			option.WithMaxRetries(0),
		),
	}
}

// newOpenAI creates the OpenAI provider.
func newOpenAI(cfg ProviderConfig) *chatProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	return newChatProvider("openai", cfg)
}

func (p *chatProvider) Name() string { return p.name }

// Generate sends a system + user chat completion and returns the first
// choice's content.
func (p *chatProvider) Generate(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%s API error (status %d): %w", p.name, apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("%s http: %w", p.name, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices returned", p.name)
	}
	return resp.Choices[0].Message.Content, nil
}
