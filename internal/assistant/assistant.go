// Package assistant models the AI-assistant panels shown on the topic
// pages. A Panel holds one prompt/response exchange and moves through
// idle, submitting, and then either displaying or error.
package assistant

import (
	"context"
	"errors"
	"strings"

	"ivonews/internal/functions"
)

// State of a panel.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateDisplaying
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateDisplaying:
		return "displaying"
	case StateError:
		return "error"
	}
	return "unknown"
}

// User-facing messages.
const (
	MsgEmptyPrompt   = "Por favor, digite sua pergunta"
	MsgFailed        = "Erro ao gerar resposta. Tente novamente."
	MsgEmptyResponse = "Resposta vazia recebida"
	MsgUnreachable   = "Erro ao conectar com o assistente IA"
	LabelBusy        = "Analisando..."
	LabelResponse    = "Resposta:"
)

// Invoker runs a named function; *functions.Service satisfies it.
type Invoker interface {
	Invoke(ctx context.Context, name, prompt string) (functions.Result, error)
}

// Panel is the state of one assistant modal.
type Panel struct {
	Function functions.Definition
	State    State
	Prompt   string
	Response string
	// Toast is the error shown for the last failed submit, if any.
	Toast string
}

// NewPanel returns an idle panel for def.
func NewPanel(def functions.Definition) *Panel {
	return &Panel{Function: def}
}

// Busy reports whether a request is in flight.
func (p *Panel) Busy() bool { return p.State == StateSubmitting }

// Submit sends prompt to the panel's function. An empty prompt is rejected
// before anything is invoked and leaves the panel idle. On failure the
// response is cleared and the panel moves to StateError with a toast.
func (p *Panel) Submit(ctx context.Context, inv Invoker, prompt string) error {
	p.Prompt = prompt
	p.Toast = ""

	if p.Function.TakesInput() && strings.TrimSpace(prompt) == "" {
		p.State = StateIdle
		p.Toast = MsgEmptyPrompt
		return functions.ErrEmptyPrompt
	}

	p.State = StateSubmitting
	p.Response = ""

	res, err := inv.Invoke(ctx, p.Function.Name, prompt)
	if err != nil {
		p.State = StateError
		p.Toast = toastFor(err)
		return err
	}

	p.State = StateDisplaying
	p.Response = res.Text
	return nil
}

// Close resets the panel, dropping the prompt and response.
func (p *Panel) Close() {
	p.State = StateIdle
	p.Prompt = ""
	p.Response = ""
	p.Toast = ""
}

func toastFor(err error) string {
	switch {
	case errors.Is(err, functions.ErrEmptyResponse):
		return MsgEmptyResponse
	case errors.Is(err, functions.ErrEmptyPrompt):
		return MsgEmptyPrompt
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return MsgUnreachable
	}
	return MsgFailed
}
