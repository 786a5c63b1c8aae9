// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the site.
// It supports full-page and HTMX partial rendering, automatically detecting
// the request type via the HX-Request header.
package render

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"ivonews/internal/feed"
	"ivonews/internal/markdown"
	"ivonews/internal/middleware"
	"ivonews/internal/models"
	"ivonews/internal/sanitize"
	"ivonews/internal/session"
	"ivonews/internal/site"
	"ivonews/internal/youtube"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to page templates.
type PageData struct {
	Title     string          // Page title for <title> tag
	Section   string          // Active nav entry (topic path, "profile", ...)
	Session   *session.Data   // Current user session (nil if anonymous)
	CSRFToken string          // CSRF token for forms and HTMX headers
	Data      map[string]any  // Page-specific data
	Flashes   []session.Flash // One-time toasts
	Nav       []site.Topic
}

// FlashSource hands out pending toasts for a request; *session.Store
// satisfies it.
type FlashSource interface {
	PopFlashes(ctx context.Context, r *http.Request) ([]session.Flash, error)
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
	flashes   FlashSource
}

// standaloneTemplates render as full HTML pages without the base layout.
var standaloneTemplates = map[string]bool{
	"auth": true,
}

// layoutFiles are parsed into every page; they are not pages themselves.
var layoutFiles = map[string]bool{
	"base.html":     true,
	"partials.html": true,
}

// New creates a Renderer by parsing all templates from the embedded
// filesystem. Each page template is paired with the base layout and the
// shared partials. When devMode is true, templates load TailwindCSS from
// the CDN; otherwise they reference the local stylesheet. flashes may be nil.
func New(devMode bool, flashes FlashSource) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		flashes:   flashes,
		funcMap: template.FuncMap{
			"activeClass": func(current, target string) string {
				if current == target {
					return "text-white border-b-2 border-blue-400"
				}
				return "text-gray-300 hover:text-white"
			},
			"deref": func(s *string) string {
				if s == nil {
					return ""
				}
				return *s
			},
			"isDev": func() bool {
				return devMode
			},
			// uuidEq reports whether ptr is set and equals val.
			"uuidEq": func(ptr *uuid.UUID, val uuid.UUID) bool {
				return ptr != nil && *ptr == val
			},
			"richText":    sanitize.Template,
			"linkify":     func(s string) template.HTML { return template.HTML(markdown.Linkify(s)) }, //nolint:gosec // sanitized by Linkify
			"plainText":   func(s string) string { return feed.Truncate(sanitize.Text(s), feed.ExcerptLength) },
			"formatViews": feed.FormatViews,
			"formatDate":  formatDate,
			"embedURL":    youtube.EmbedURL,
			"typeLabel":   func(t models.ContentType) string { return t.Label() },
			"lower":       strings.ToLower,
			"initial":     initial,
			"dict":        dict,
		},
	}

	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || layoutFiles[name] || !strings.HasSuffix(name, ".html") {
			continue
		}
		tmplName := strings.TrimSuffix(name, ".html")

		var tmpl *template.Template
		var parseErr error
		if standaloneTemplates[tmplName] {
			tmpl, parseErr = template.New(name).Funcs(r.funcMap).ParseFS(
				templateFS, "templates/partials.html", "templates/"+name,
			)
		} else {
			tmpl, parseErr = template.New("base.html").Funcs(r.funcMap).ParseFS(
				templateFS, "templates/base.html", "templates/partials.html", "templates/"+name,
			)
		}
		if parseErr != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, parseErr)
		}
		r.templates[tmplName] = tmpl
	}

	// Fragments are rendered from the partials alone.
	partials, err := template.New("partials.html").Funcs(r.funcMap).ParseFS(templateFS, "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parse partials: %w", err)
	}
	r.templates["_partials"] = partials

	return r, nil
}

// Page renders a full page, or only its "content" block for HTMX requests.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	rn.PageStatus(w, r, http.StatusOK, name, data)
}

// PageStatus is Page with an explicit status code.
func (rn *Renderer) PageStatus(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	rn.fill(r, data)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	execName := "base.html"
	switch {
	case isHTMX(r) && !standaloneTemplates[name]:
		execName = "content"
	case standaloneTemplates[name]:
		execName = name + ".html"
	}

	if err := executeTemplate(w, tmpl, execName, data); err != nil {
		slog.Error("template execution failed", "template", name, "error", err)
	}
}

// Fragment renders a single named block from the shared partials, used
// for HTMX swaps (assistant panel, content rows).
func (rn *Renderer) Fragment(w http.ResponseWriter, r *http.Request, block string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := executeTemplate(w, rn.templates["_partials"], block, data); err != nil {
		slog.Error("fragment execution failed", "block", block, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// fill injects the per-request fields every layout needs.
func (rn *Renderer) fill(r *http.Request, data *PageData) {
	ctx := r.Context()
	data.CSRFToken = middleware.CSRFTokenFromCtx(ctx)
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(ctx)
	}
	if data.Nav == nil {
		data.Nav = site.Topics()
	}
	if data.Flashes == nil && data.Session != nil && rn.flashes != nil {
		flashes, err := rn.flashes.PopFlashes(ctx, r)
		if err != nil {
			slog.Warn("pop flashes failed", "error", err)
		}
		data.Flashes = flashes
	}
}

// executeTemplate wraps template execution with error handling.
func executeTemplate(w io.Writer, tmpl *template.Template, name string, data any) error {
	return tmpl.ExecuteTemplate(w, name, data)
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// formatDate renders t as dd/mm/yyyy; nil and zero times render as "".
func formatDate(t any) string {
	switch v := t.(type) {
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format("02/01/2006")
	case *time.Time:
		if v == nil || v.IsZero() {
			return ""
		}
		return v.Format("02/01/2006")
	}
	return ""
}

// initial returns the uppercased first letter of name for avatar fallbacks.
func initial(name string) string {
	r, size := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if size == 0 || r == utf8.RuneError {
		return "U"
	}
	return strings.ToUpper(string(r))
}

// dict builds a map from alternating keys and values, for passing several
// values into a sub-template.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}
