// Package main is the entry point for the Blogavel blog server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogavel/internal/cache"
	"blogavel/internal/config"
	"blogavel/internal/database"
	"blogavel/internal/feed"
	"blogavel/internal/handlers"
	"blogavel/internal/middleware"
	"blogavel/internal/render"
	"blogavel/internal/router"
	"blogavel/internal/storage"
	"blogavel/internal/store"
)

// commentRateLimit throttles public comment submission per client IP.
const (
	commentRateLimit  = 5
	commentRateWindow = time.Minute
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"base_url", cfg.BaseURL,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey. The blog runs without it, pages just render on
	// every request, so a connection failure only disables the page cache.
	var pageCache *cache.PageCache
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, page caching disabled", "error", err)
	} else {
		defer valkeyClient.Close()
		pageCache = cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)
	}

	// Initialize the HTML template renderer for the public pages.
	renderer, err := render.New(cfg.AppName)
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Connect to S3-compatible object storage. Optional: without it the
	// blog still serves with empty media URLs, media uploads are just
	// disabled.
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient == nil {
		slog.Warn("s3 storage not configured, media uploads disabled")
	}

	// Initialize data stores. A typed nil resolver would not compare equal
	// to nil inside the store, so only hand it over when configured.
	var mediaURLs store.FileURLResolver
	if storageClient != nil {
		mediaURLs = storageClient
	}
	postStore := store.NewPostStore(db, mediaURLs)
	categoryStore := store.NewCategoryStore(db)
	tagStore := store.NewTagStore(db)
	mediaStore := store.NewMediaStore(db)
	commentStore := store.NewCommentStore(db)

	site := feed.Site{Name: cfg.AppName, BaseURL: cfg.BaseURL}

	// Create handler groups with their dependencies.
	publicHandlers := handlers.NewPublic(postStore, categoryStore, tagStore, commentStore, renderer, pageCache, cfg.BaseURL)
	feedHandlers := handlers.NewFeeds(postStore, pageCache, site)
	commentHandlers := handlers.NewComments(postStore, commentStore)
	adminHandlers := handlers.NewAdmin(postStore, categoryStore, tagStore, mediaStore, commentStore, storageClient, pageCache, cfg.BaseURL)

	commentLimiter := middleware.NewRateLimiter(commentRateLimit, commentRateWindow)
	defer commentLimiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(publicHandlers, feedHandlers, commentHandlers, adminHandlers, cfg.APIKeys, commentLimiter)

	// Create the HTTP server with sensible timeouts. WriteTimeout covers
	// media uploads, which can carry files up to 50 MB.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
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
