package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
)

const (
	// CSRFCookieName holds the per-browser token. It is readable from JS so
	// the upload helper can echo it.
	CSRFCookieName = "ivo_csrf"

	// CSRFHeaderName is set on every HTMX request through hx-headers.
	CSRFHeaderName = "X-CSRF-Token"

	// CSRFFormField carries the token in plain multipart or urlencoded forms.
	CSRFFormField = "csrf_token"

	csrfTokenBytes = 32
)

type csrfCtxKey struct{}

// NewCSRF implements double-submit cookie protection. Safe methods only
// mint the cookie; POST and friends must echo its value in CSRFHeaderName
// or CSRFFormField. Requests under an exempt prefix bypass the check
// entirely and get no cookie.
func NewCSRF(secure bool, exempt ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hasAnyPrefix(r.URL.Path, exempt) {
				next.ServeHTTP(w, r)
				return
			}

			token, err := csrfToken(w, r, secure)
			if err != nil {
				fail(w, r, http.StatusInternalServerError, "Erro interno. Tente novamente mais tarde.")
				return
			}
			r = r.WithContext(context.WithValue(r.Context(), csrfCtxKey{}, token))

			if !isSafeMethod(r.Method) && !csrfMatches(r, token) {
				fail(w, r, http.StatusForbidden, "Sessão expirada. Recarregue a página e tente novamente.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CSRFTokenFromCtx returns the token for the current request, for hidden
// fields and hx-headers.
func CSRFTokenFromCtx(ctx context.Context) string {
	token, _ := ctx.Value(csrfCtxKey{}).(string)
	return token
}

// csrfToken returns the browser's existing token or issues a new cookie.
func csrfToken(w http.ResponseWriter, r *http.Request, secure bool) (string, error) {
	if c, err := r.Cookie(CSRFCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}

	raw := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
	return token, nil
}

func csrfMatches(r *http.Request, token string) bool {
	sent := r.Header.Get(CSRFHeaderName)
	if sent == "" {
		sent = r.FormValue(CSRFFormField)
	}
	return sent != "" && subtle.ConstantTimeCompare([]byte(token), []byte(sent)) == 1
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
