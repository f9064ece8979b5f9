// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

// Command financecms runs the bilingual content API and admin console
// backend for the Causeway Group finance site.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/causewaygrp/finance-cms/internal/config"
	"github.com/causewaygrp/finance-cms/internal/geoip"
	"github.com/causewaygrp/finance-cms/internal/handler/api"
	"github.com/causewaygrp/finance-cms/internal/middleware"
	"github.com/causewaygrp/finance-cms/internal/service"
	"github.com/causewaygrp/finance-cms/internal/session"
	"github.com/causewaygrp/finance-cms/internal/store"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: financecms [options]\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FCMS_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FCMS_DB_PATH           SQLite database path (default: ./data/financecms.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FCMS_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FCMS_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FCMS_SITE_URL          Canonical site URL for sitemap links\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FCMS_UPLOADS_DIR       Upload storage directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FCMS_GEOIP_DB_PATH     GeoLite2-Country.mmdb path (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FCMS_DO_SEED           Seed admin account and categories (default: false)\n")
	}
	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("financecms %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data and uploads directories exist
	for _, dir := range []string{filepath.Dir(cfg.DBPath), cfg.UploadsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// GeoIP country lookup for login audit entries (optional)
	geo, err := geoip.NewLookup(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip lookup unavailable", "path", cfg.GeoIPDBPath, "error", err)
	}
	defer func() {
		if err := geo.Close(); err != nil {
			slog.Error("error closing geoip database", "error", err)
		}
	}()
	if geo.IsEnabled() {
		slog.Info("geoip lookup initialized", "path", cfg.GeoIPDBPath)
	}

	auditRecorder := service.NewAuditRecorder(db, logger)
	defer auditRecorder.Close()

	uploader := service.NewUploader(db, &service.LocalStorage{
		BaseDir: cfg.UploadsDir,
		BaseURL: "/uploads",
	}, logger, cfg.MaxUploadBytes())

	linkChecker := service.NewLinkChecker(db, logger, time.Duration(cfg.LinkCheckTimeout)*time.Second)

	apiHandler := api.NewHandler(db, cfg, logger, sessionManager, auditRecorder, uploader, linkChecker, geo)

	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(30 * time.Second))

	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))
	slog.Info("security headers middleware initialized", "hsts", !cfg.IsDevelopment())

	r.Use(sessionManager.LoadAndSave)

	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerPort)
	csrfMiddleware := middleware.CSRF(csrfConfig)
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	// Login rate limit: 1 attempt per 2 seconds per IP, small burst
	loginRateLimiter := middleware.RateLimit(0.5, 5)

	// Public site API
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", apiHandler.Health)
		r.Get("/search", apiHandler.Search)
		r.Get("/resources", apiHandler.ListPublicResources)
		r.Get("/resources/{slug}", apiHandler.GetPublicResource)
		r.Get("/categories", apiHandler.ListPublicCategories)
		r.Get("/pages", apiHandler.ListPublicPages)
		r.Get("/pages/{slug}", apiHandler.GetPublicPage)
	})

	r.Get("/sitemap.xml", apiHandler.Sitemap)

	// Admin console API
	r.Route("/admin/api", func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.LoadUser(sessionManager, db))

		r.With(loginRateLimiter).Post("/auth/login", apiHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/auth/logout", apiHandler.Logout)
			r.Get("/auth/me", apiHandler.Me)

			r.Get("/resources", apiHandler.ListResources)
			r.Post("/resources", apiHandler.CreateResource)
			r.Get("/resources/{id}", apiHandler.GetResource)
			r.Patch("/resources/{id}", apiHandler.UpdateResource)
			r.Delete("/resources/{id}", apiHandler.DeleteResource)

			r.Get("/categories", apiHandler.ListCategories)
			r.Post("/categories", apiHandler.CreateCategory)
			r.Patch("/categories/{id}", apiHandler.UpdateCategory)
			r.Delete("/categories/{id}", apiHandler.DeleteCategory)

			r.Get("/pages", apiHandler.ListPages)
			r.Post("/pages", apiHandler.CreatePage)
			r.Get("/pages/{ref}", apiHandler.GetPage)
			r.Patch("/pages/{id}", apiHandler.UpdatePage)
			r.Delete("/pages/{id}", apiHandler.DeletePage)
			r.Post("/pages/{id}/blocks", apiHandler.AddPageBlock)
			r.Patch("/pages/{id}/blocks/{blockId}", apiHandler.UpdatePageBlock)
			r.Delete("/pages/{id}/blocks/{blockId}", apiHandler.RemovePageBlock)

			r.Post("/upload", apiHandler.Upload)

			r.Get("/health/content", apiHandler.ContentHealth)
			r.Post("/health/link-check", apiHandler.RunLinkCheck)

			// Audit trail access is restricted to administrators
			r.With(middleware.RequireAdmin).Get("/audit", apiHandler.ListAuditLogs)
		})
	})

	// Serve uploaded files, cached for one week
	uploadsFiles := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))
	r.Get("/uploads/*", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=604800")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		uploadsFiles.ServeHTTP(w, req)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for large uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
