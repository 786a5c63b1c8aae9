// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for Ivo
// Fernandes News. It organizes routes into public, authenticated and
// cross-origin function groups with the appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ivonews/internal/handlers"
	"ivonews/internal/metrics"
	"ivonews/internal/middleware"
	"ivonews/internal/session"
	"ivonews/internal/site"
	"ivonews/web"
)

// Deps carries everything the router wires together.
type Deps struct {
	Sessions      *session.Store
	SecureCookies bool

	// Limiter throttles sign-in, sign-up and AI calls per client IP.
	Limiter *middleware.RateLimiter

	Recorder metrics.Recorder
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler

	Public    *handlers.Public
	Auth      *handlers.Auth
	Studio    *handlers.Studio
	Settings  *handlers.Settings
	Assistant *handlers.Assistant
	Functions *handlers.Functions
}

// functionsPrefix is exempt from CSRF; callers authenticate through CORS.
const functionsPrefix = "/functions/"

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	rec := d.Recorder
	if rec == nil {
		rec = metrics.Nop{}
	}
	limit := func(next http.Handler) http.Handler { return next }
	if d.Limiter != nil {
		limit = d.Limiter.Middleware
	}

	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.Metrics(rec))
	r.Use(middleware.LoadSession(d.Sessions))
	r.Use(middleware.NewCSRF(d.SecureCookies, functionsPrefix))

	// Health check and scrape endpoint, no auth.
	r.Get("/health", healthHandler)
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}
	r.Handle("/static/*", staticHandler())

	// Public site.
	r.Get("/", d.Public.Home)
	for _, topic := range site.Topics() {
		r.Get(topic.Path, d.Public.Topic(topic))
	}
	r.Get("/post/{slug}", d.Public.PostView)
	r.Get("/video/{slug}", d.Public.VideoView)

	// Authentication.
	r.Route("/auth", func(r chi.Router) {
		r.Get("/", d.Auth.Page)
		r.With(limit).Post("/signin", d.Auth.SignIn)
		r.With(limit).Post("/signup", d.Auth.SignUp)
		r.Post("/signout", d.Auth.SignOut)
	})

	// Assistant panels (HTMX fragments).
	r.Route("/assistant/{name}", func(r chi.Router) {
		r.With(limit).Post("/", d.Assistant.Submit)
		r.Post("/close", d.Assistant.Close)
	})

	// Function endpoints for cross-origin callers.
	r.Route("/functions/v1", func(r chi.Router) {
		r.Use(middleware.FunctionCORS)
		r.Use(limit)
		r.Post("/{name}", d.Functions.Invoke)
	})

	// Authenticated authoring area.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/create", d.Studio.CreatePage)
		r.Post("/create/post", d.Studio.CreatePost)
		r.Post("/create/video", d.Studio.CreateVideo)
		r.Post("/media/upload", d.Studio.MediaUpload)

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", d.Studio.Profile)

			r.Route("/posts/{id}", func(r chi.Router) {
				r.Get("/edit", d.Studio.EditPostPage)
				r.Post("/edit", d.Studio.EditPost)
				r.Post("/publish", d.Studio.TogglePost)
				r.Post("/delete", d.Studio.DeletePost)
			})
			r.Route("/videos/{id}", func(r chi.Router) {
				r.Get("/edit", d.Studio.EditVideoPage)
				r.Post("/edit", d.Studio.EditVideo)
				r.Post("/publish", d.Studio.ToggleVideo)
				r.Post("/delete", d.Studio.DeleteVideo)
			})

			r.Post("/avatar", d.Settings.UploadAvatar)
			r.Post("/avatar/remove", d.Settings.RemoveAvatar)

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", d.Settings.Page)
				r.Post("/profile", d.Settings.UpdateProfile)
				r.Post("/password", d.Settings.ChangePassword)
				r.Post("/categories", d.Settings.AddCategory)
				r.Post("/categories/{id}/delete", d.Settings.DeleteCategory)
			})
		})
	})

	r.NotFound(d.Public.NotFound)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// staticHandler serves the embedded web/static tree under /static/.
func staticHandler() http.Handler {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
