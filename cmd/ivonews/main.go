// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Ivo Fernandes News server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"ivonews/internal/account"
	"ivonews/internal/ai"
	"ivonews/internal/cache"
	"ivonews/internal/config"
	"ivonews/internal/content"
	"ivonews/internal/database"
	"ivonews/internal/feed"
	"ivonews/internal/functions"
	"ivonews/internal/handlers"
	"ivonews/internal/metrics"
	"ivonews/internal/middleware"
	"ivonews/internal/render"
	"ivonews/internal/router"
	"ivonews/internal/session"
	"ivonews/internal/storage"
	"ivonews/internal/store"
	"ivonews/internal/upload"
)

func main() {
	// A local .env is optional; real deployments set the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env", "error", err)
	}

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON elsewhere.
	var logHandler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	if cfg.IsDev() {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(logHandler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL and bring the schema up to date.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), time.Minute)
	db, err := database.Connect(startupCtx, cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	err = database.Migrate(startupCtx, db)
	startupCancel()
	if err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Default categories and the admin identity (no-op if present).
	if err := database.Seed(db, database.AdminAccount{
		Email:       cfg.AdminEmail,
		Password:    cfg.AdminPassword,
		DisplayName: "Ivo Fernandes",
	}); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey (Redis-compatible cache + session store).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyAddr(), cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	feedCache := cache.NewFeedCache(valkeyClient, cache.DefaultFeedTTL)

	// Prometheus registry with the process collectors plus ours.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// In dev mode, templates load assets from CDN; in production they use
	// the files embedded in the binary.
	renderer, err := render.New(cfg.IsDev(), sessionStore)
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	profileStore := store.NewProfileStore(db)
	categoryStore := store.NewCategoryStore(db)
	postStore := store.NewPostStore(db)
	videoStore := store.NewVideoStore(db)

	// Connect to S3-compatible object storage (optional; uploads are disabled without it).
	var objects upload.ObjectStore
	if cfg.StorageEnabled() {
		storageClient, err := storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3PublicURL,
			cfg.AvatarBucket, cfg.ContentBucket,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err = storageClient.EnsureBuckets(ctx)
		cancel()
		if err != nil {
			slog.Error("failed to prepare S3 buckets", "error", err)
			os.Exit(1)
		}
		objects = storageClient
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"avatar_bucket", cfg.AvatarBucket,
			"content_bucket", cfg.ContentBucket,
		)
	} else {
		slog.Warn("s3 storage not configured, image uploads disabled")
	}
	uploader := upload.NewUploader(objects, profileStore, collector, upload.Options{
		AvatarBucket:  cfg.AvatarBucket,
		ContentBucket: cfg.ContentBucket,
		MaxCoverWidth: cfg.MaxCoverWidth,
	})

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		"gemini":  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralBaseURL},
	})

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	fns := functions.New(aiRegistry, collector)

	// Domain services.
	feedService := feed.NewService(postStore, videoStore, categoryStore, feedCache)
	manager := content.NewManager(postStore, videoStore, feedCache)
	editor := content.NewEditor(postStore, videoStore, feedCache)
	accounts := account.NewService(profileStore, userStore, categoryStore, feedCache)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Deps{
		Sessions:       sessionStore,
		SecureCookies:  secureCookies,
		Limiter:        limiter,
		Recorder:       collector,
		MetricsHandler: metrics.Handler(registry),
		Public:         handlers.NewPublic(renderer, feedService, postStore, videoStore, fns, collector),
		Auth:           handlers.NewAuth(renderer, sessionStore, userStore, profileStore),
		Studio:         handlers.NewStudio(renderer, sessionStore, manager, editor, categoryStore, profileStore, uploader),
		Settings:       handlers.NewSettings(renderer, sessionStore, accounts, uploader),
		Assistant:      handlers.NewAssistant(renderer, fns),
		Functions:      handlers.NewFunctions(fns),
	})

	// WriteTimeout must accommodate the AI endpoints that wait on LLM
	// responses.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
