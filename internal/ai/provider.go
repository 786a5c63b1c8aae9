// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai proxies single-turn prompts to hosted language models. The
// site's assistants (crypto, engineering, motivational) only ever need one
// system instruction plus one user prompt, so every backend is reduced to
// the same small Provider contract and a Registry picks which one answers.
package ai

import (
	"context"
	"errors"
	"time"
)

// requestTimeout bounds a single provider call. It stays below the HTTP
// server's write timeout so the handler can still answer with an error.
const requestTimeout = 60 * time.Second

// ErrNoProvider is returned when no backend has credentials configured.
var ErrNoProvider = errors.New("ai: no provider configured")

// Request is one system instruction plus one user prompt.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int     // 0 leaves the backend default
	Temperature float64 // only sent when positive
}

// Provider is a hosted model backend.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// ProviderConfig carries the credentials for one backend. An empty APIKey
// disables the backend; an empty BaseURL selects the vendor endpoint.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// preference is the order used when the configured provider is unavailable.
var preference = []string{"openai", "gemini", "claude", "mistral"}

func build(name string, cfg ProviderConfig) Provider {
	switch name {
	case "openai":
		return newOpenAI(cfg)
	case "gemini":
		return newGemini(cfg)
	case "claude":
		return newClaude(cfg)
	case "mistral":
		return newMistral(cfg)
	}
	return nil
}
