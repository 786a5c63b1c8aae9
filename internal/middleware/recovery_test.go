// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func panicking(v any) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic(v) })
}

func TestRecovererPageRequest(t *testing.T) {
	logs := captureLogs(t)
	rr := httptest.NewRecorder()
	Recoverer(panicking("nil feed")).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/crypto", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Erro interno") {
		t.Errorf("body = %q", rr.Body.String())
	}
	for _, want := range []string{"handler panicked", "nil feed", "/crypto", "stack"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("log missing %q: %s", want, logs.String())
		}
	}
}

func TestRecovererFunctionCall(t *testing.T) {
	captureLogs(t)
	req := httptest.NewRequest(http.MethodPost, "/functions/v1/crypto-ai", strings.NewReader(`{"prompt":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	Recoverer(panicking(errors.New("boom"))).ServeHTTP(rr, req)

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("body %q is not JSON: %v", rr.Body.String(), err)
	}
	if rr.Code != http.StatusInternalServerError || body["error"] == "" {
		t.Errorf("got %d %v", rr.Code, body)
	}
}

func TestRecovererRethrowsAbort(t *testing.T) {
	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Errorf("recovered %v, want http.ErrAbortHandler", rec)
		}
	}()
	Recoverer(panicking(http.ErrAbortHandler)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	t.Error("ErrAbortHandler should propagate")
}

func TestRecovererPassThrough(t *testing.T) {
	inner, called := okHandler()
	rr := httptest.NewRecorder()
	Recoverer(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if !*called || rr.Code != http.StatusOK {
		t.Errorf("called=%v status=%d", *called, rr.Code)
	}
}
