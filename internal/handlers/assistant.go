package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"ivonews/internal/assistant"
	"ivonews/internal/functions"
	"ivonews/internal/render"
)

// Assistant serves the HTMX assistant panels embedded on topic pages.
type Assistant struct {
	renderer  *render.Renderer
	functions *functions.Service
}

// NewAssistant creates a new Assistant handler group.
func NewAssistant(renderer *render.Renderer, fns *functions.Service) *Assistant {
	return &Assistant{renderer: renderer, functions: fns}
}

// Submit runs the panel's function on the posted prompt and swaps in the
// updated panel. Failures are shown inside the panel, so the status is
// always 200 and HTMX performs the swap.
func (a *Assistant) Submit(w http.ResponseWriter, r *http.Request) {
	def, ok := a.functions.Lookup(chi.URLParam(r, "name"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	panel := assistant.NewPanel(def)
	if err := panel.Submit(r.Context(), a.functions, r.FormValue("prompt")); err != nil {
		slog.Warn("assistant request failed", "function", def.Name, "state", panel.State.String(), "error", err)
	}
	a.renderer.Fragment(w, r, "assistant_panel", panel)
}

// Close resets the panel.
func (a *Assistant) Close(w http.ResponseWriter, r *http.Request) {
	def, ok := a.functions.Lookup(chi.URLParam(r, "name"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	panel := assistant.NewPanel(def)
	panel.Close()
	a.renderer.Fragment(w, r, "assistant_panel", panel)
}

// Functions exposes the named AI functions as a JSON endpoint for
// cross-origin callers.
type Functions struct {
	functions *functions.Service
}

// NewFunctions creates a new Functions handler.
func NewFunctions(fns *functions.Service) *Functions {
	return &Functions{functions: fns}
}

type invokeRequest struct {
	Prompt string `json:"prompt"`
}

// maxInvokeBody caps the JSON body of a function call.
const maxInvokeBody = 64 << 10

// Invoke answers POST /functions/v1/{name} with {"response"|"message": ...}
// on success and {"error": ...} otherwise. The body is optional.
func (f *Functions) Invoke(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req invokeRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxInvokeBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "falha ao ler o corpo da requisição"})
		return
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON inválido"})
			return
		}
	}

	res, err := f.functions.Invoke(r.Context(), name, req.Prompt)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{res.Key: res.Text})
	case errors.Is(err, functions.ErrUnknown):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "função não encontrada"})
	case errors.Is(err, functions.ErrEmptyPrompt):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, functions.ErrEmptyResponse):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Erro ao gerar resposta"})
	}
}
