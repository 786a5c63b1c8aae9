// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for Ivo Fernandes News.
// Handlers are grouped by concern (public, auth, studio, settings,
// assistant, functions) and receive their dependencies through the
// handler struct.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ivonews/internal/middleware"
	"ivonews/internal/models"
	"ivonews/internal/session"
	"ivonews/internal/validate"
	"ivonews/internal/youtube"
)

// SessionStore is the part of *session.Store the handlers use.
type SessionStore interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Update(ctx context.Context, r *http.Request, data *session.Data) error
	AddFlash(ctx context.Context, r *http.Request, f session.Flash) error
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// CategoryLister lists categories for form dropdowns.
type CategoryLister interface {
	List(ctx context.Context) ([]models.Category, error)
}

// Toast titles.
const (
	titleSuccess = "Sucesso"
	titleError   = "Erro"
)

// flash queues a toast for the next page the user sees. Failures are only
// logged; the action itself already happened.
func flash(sessions SessionStore, r *http.Request, kind session.FlashKind, message string) {
	title := titleSuccess
	if kind == session.FlashError {
		title = titleError
	}
	if err := sessions.AddFlash(r.Context(), r, session.Flash{Kind: kind, Title: title, Message: message}); err != nil {
		slog.Warn("add flash failed", "error", err)
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// urlID parses the {id} route parameter.
func urlID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// formUUID parses an optional UUID form field; blank or malformed values
// yield nil.
func formUUID(r *http.Request, field string) *uuid.UUID {
	v := strings.TrimSpace(r.FormValue(field))
	if v == "" {
		return nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil
	}
	return &id
}

// formBool reads a checkbox.
func formBool(r *http.Request, field string) bool {
	switch r.FormValue(field) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// currentUser returns the session of the signed-in user. Routes using it
// sit behind RequireAuth, so a nil session never reaches the handlers.
func currentUser(r *http.Request) *session.Data {
	return middleware.SessionFromCtx(r.Context())
}

// userError returns the message of an error the user can fix by editing
// the form.
func userError(err error) (string, bool) {
	if msg := validate.Message(err); msg != "" {
		return msg, true
	}
	if errors.Is(err, youtube.ErrInvalidURL) {
		return youtube.ErrInvalidURL.Error(), true
	}
	return "", false
}
