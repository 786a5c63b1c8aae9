// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Registry holds the configured backends and routes Generate calls to the
// active one. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	active    string
}

// NewRegistry builds a provider for every config with an API key. When the
// preferred backend has no key, the first keyed backend in preference order
// becomes active instead so the assistants keep answering.
func NewRegistry(preferred string, configs map[string]ProviderConfig) *Registry {
	reg := &Registry{providers: make(map[string]Provider, len(configs)), active: preferred}

	for name, cfg := range configs {
		if cfg.APIKey == "" {
			continue
		}
		if p := build(name, cfg); p != nil {
			reg.providers[name] = p
		}
	}

	if _, ok := reg.providers[preferred]; !ok {
		for _, name := range preference {
			if _, ok := reg.providers[name]; ok {
				slog.Warn("ai provider unavailable, falling back", "preferred", preferred, "using", name)
				reg.active = name
				break
			}
		}
	}
	return reg
}

// Generate forwards the request to the active provider.
func (reg *Registry) Generate(ctx context.Context, req Request) (string, error) {
	p, err := reg.Active()
	if err != nil {
		return "", err
	}
	return p.Generate(ctx, req)
}

// Active returns the provider currently answering requests.
func (reg *Registry) Active() (Provider, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	p, ok := reg.providers[reg.active]
	if !ok {
		return nil, fmt.Errorf("%w (wanted %q)", ErrNoProvider, reg.active)
	}
	return p, nil
}

// ActiveName reports the name of the active provider.
func (reg *Registry) ActiveName() string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.active
}

// SetActive switches backends at runtime. Only keyed backends are accepted.
func (reg *Registry) SetActive(name string) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, ok := reg.providers[name]; !ok {
		return fmt.Errorf("%w (wanted %q)", ErrNoProvider, name)
	}
	reg.active = name
	return nil
}

// Register installs p under name, replacing any previous backend.
func (reg *Registry) Register(name string, p Provider) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.providers[name] = p
}

// Available lists the keyed backends in sorted order.
func (reg *Registry) Available() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	names := make([]string, 0, len(reg.providers))
	for name := range reg.providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
