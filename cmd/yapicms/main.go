// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
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

	"github.com/joho/godotenv"

	"github.com/olegiv/yapicms/internal/auth"
	"github.com/olegiv/yapicms/internal/cache"
	"github.com/olegiv/yapicms/internal/config"
	"github.com/olegiv/yapicms/internal/geoip"
	"github.com/olegiv/yapicms/internal/handler"
	"github.com/olegiv/yapicms/internal/logging"
	"github.com/olegiv/yapicms/internal/scheduler"
	"github.com/olegiv/yapicms/internal/service"
	"github.com/olegiv/yapicms/internal/store"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Yapı CMS - Construction Company CMS Backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YAPICMS_JWT_SECRET       JWT signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YAPICMS_DB_PATH          SQLite database path (default: ./data/yapicms.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YAPICMS_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YAPICMS_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YAPICMS_UPLOADS_DIR      Upload storage directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YAPICMS_REDIS_URL        Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YAPICMS_GEOIP_DB_PATH    GeoLite2-Country.mmdb path (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Printf("yapicms %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
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

	// Setup logger
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
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	// Initialize database
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

	// Upgrade logger to also write WARN and ERROR logs to the audit log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("audit log integration enabled", "min_level", "warn")

	// Seed the admin account, default settings and fixed pages
	ctx := context.Background()
	adminPassword := cfg.SeedAdminPassword
	if adminPassword == "" {
		buf := make([]byte, 16)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("generating admin password: %w", err)
		}
		adminPassword = hex.EncodeToString(buf)
		slog.Info("generated initial admin password; change it after first login",
			"email", cfg.SeedAdminEmail, "password", adminPassword)
	}
	if err := store.Seed(ctx, db, cfg.SeedAdminEmail, adminPassword); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	// Cache for public payloads
	cacheManager := cache.NewManager(cache.Options{
		RedisURL:    cfg.RedisURL,
		RedisPrefix: cfg.CachePrefix,
		TTL:         time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:     cfg.CacheMaxSize,
	})
	defer func() {
		if err := cacheManager.Close(); err != nil {
			slog.Warn("error closing cache", "error", err)
		}
	}()

	// GeoIP lookup for contact submissions (optional)
	geo := geoip.NewLookup()
	if cfg.GeoIPEnabled() {
		if err := geo.Init(cfg.GeoIPDBPath); err != nil {
			slog.Warn("geoip database unavailable, country resolution disabled", "error", err)
		} else {
			slog.Info("geoip database loaded", "path", cfg.GeoIPDBPath)
		}
	}
	defer func() { _ = geo.Close() }()

	// Scheduled maintenance
	sched := scheduler.New(db, logger, scheduler.Options{
		SubmissionRetentionDays: cfg.SubmissionRetentionDays,
		EventRetentionDays:      cfg.EventRetentionDays,
		GeoIP:                   geo,
	})
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Application services and HTTP surface
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	media := service.NewMediaService(db, cfg.UploadsDir, cfg.MaxUploadSize)
	apiHandler := handler.New(store.NewStore(db), cfg, tokens, cacheManager, geo, media)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           apiHandler.Routes(),
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

	// Wait for interrupt signal
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
