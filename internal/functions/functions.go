// Package functions holds the named AI functions the site exposes
// (crypto-ai, engineering-ai, motivational-message). Each one pairs a
// system prompt with generation settings and a response key.
package functions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"ivonews/internal/ai"
	"ivonews/internal/metrics"
)

var (
	ErrUnknown       = errors.New("função desconhecida")
	ErrEmptyPrompt   = errors.New("Por favor, digite sua pergunta")
	ErrEmptyResponse = errors.New("Resposta vazia recebida")
)

// Response keys used in the JSON envelope.
const (
	KeyResponse = "response"
	KeyMessage  = "message"
)

// Definition describes one named function.
type Definition struct {
	Name        string
	Title       string
	Description string
	Placeholder string
	ButtonLabel string

	System      string
	ResponseKey string
	// FixedPrompt is sent instead of user input when set; such functions
	// take no prompt.
	FixedPrompt string
	MaxTokens   int
	Temperature float64
}

// TakesInput reports whether the caller must supply a prompt.
func (d Definition) TakesInput() bool {
	return d.FixedPrompt == ""
}

// Result is a successful invocation.
type Result struct {
	Key  string
	Text string
}

// Generator produces text for a request; *ai.Registry satisfies it.
type Generator interface {
	Generate(ctx context.Context, req ai.Request) (string, error)
}

// Service invokes functions by name.
type Service struct {
	gen  Generator
	rec  metrics.Recorder
	defs map[string]Definition
}

// New creates a Service with the given definitions, or Defaults() when
// none are passed.
func New(gen Generator, rec metrics.Recorder, defs ...Definition) *Service {
	if len(defs) == 0 {
		defs = Defaults()
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	s := &Service{gen: gen, rec: rec, defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		s.defs[d.Name] = d
	}
	return s
}

// Lookup returns the definition registered under name.
func (s *Service) Lookup(name string) (Definition, bool) {
	d, ok := s.defs[name]
	return d, ok
}

// Names returns the registered function names, sorted.
func (s *Service) Names() []string {
	names := make([]string, 0, len(s.defs))
	for n := range s.defs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the named function. The prompt is ignored for functions
// with a fixed prompt.
func (s *Service) Invoke(ctx context.Context, name, prompt string) (Result, error) {
	def, ok := s.defs[name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknown, name)
	}

	userPrompt := strings.TrimSpace(prompt)
	if !def.TakesInput() {
		userPrompt = def.FixedPrompt
	} else if userPrompt == "" {
		s.rec.RecordFunction(name, "rejected")
		return Result{}, ErrEmptyPrompt
	}

	text, err := s.gen.Generate(ctx, ai.Request{
		System:      def.System,
		Prompt:      userPrompt,
		MaxTokens:   def.MaxTokens,
		Temperature: def.Temperature,
	})
	if err != nil {
		s.rec.RecordFunction(name, "error")
		slog.Error("function invocation failed", "function", name, "error", err)
		return Result{}, fmt.Errorf("%s: %w", name, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		s.rec.RecordFunction(name, "empty")
		return Result{}, ErrEmptyResponse
	}

	s.rec.RecordFunction(name, "ok")
	return Result{Key: def.ResponseKey, Text: text}, nil
}
