// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// geminiProvider implements the Provider interface with the Google GenAI
// SDK against the Gemini Developer API.
type geminiProvider struct {
	config ProviderConfig

	once    sync.Once
	client  *genai.Client
	initErr error
}

// newGemini creates a Google Gemini provider. The SDK client is built on
// first use because construction needs a context.
func newGemini(cfg ProviderConfig) *geminiProvider {
	return &geminiProvider{config: cfg}
}

func (p *geminiProvider) Name() string { return "gemini" }

func (p *geminiProvider) sdk(ctx context.Context) (*genai.Client, error) {
	p.once.Do(func() {
		cc := &genai.ClientConfig{
			APIKey:     p.config.APIKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: &http.Client{Timeout: requestTimeout},
		}
		if p.config.BaseURL != "" {
			cc.HTTPOptions.BaseURL = strings.TrimRight(p.config.BaseURL, "/") + "/"
		}
		p.client, p.initErr = genai.NewClient(ctx, cc)
	})
	return p.client, p.initErr
}

// Generate calls models.generateContent and returns the first text part.
func (p *geminiProvider) Generate(ctx context.Context, req Request) (string, error) {
	client, err := p.sdk(ctx)
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.System}}},
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(req.Temperature))
	}

	result, err := client.Models.GenerateContent(ctx, p.config.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("gemini: no candidates returned")
	}
	content := result.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", fmt.Errorf("gemini: no content parts in candidate")
	}
	return content.Parts[0].Text, nil
}
