// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
	"your-secret-key-change-in-production",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string        `env:"YAPICMS_DB_PATH" envDefault:"./data/yapicms.db"`
	JWTSecret  string        `env:"YAPICMS_JWT_SECRET,required"`
	JWTExpiry  time.Duration `env:"YAPICMS_JWT_EXPIRY" envDefault:"168h"` // 7 days
	ServerHost string        `env:"YAPICMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int           `env:"YAPICMS_SERVER_PORT" envDefault:"8080"`
	Env        string        `env:"YAPICMS_ENV" envDefault:"development"`
	LogLevel   string        `env:"YAPICMS_LOG_LEVEL" envDefault:"info"`
	UploadsDir string        `env:"YAPICMS_UPLOADS_DIR" envDefault:"./uploads"`

	// Upload limits, bytes
	MaxUploadSize int64 `env:"YAPICMS_MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10 MB

	// CORS allowed origins, comma separated. Empty allows same-origin only.
	CORSOrigins []string `env:"YAPICMS_CORS_ORIGINS" envSeparator:","`

	// Rate limiting for the public API
	RateLimitRequests int `env:"YAPICMS_RATE_LIMIT_REQUESTS" envDefault:"100"`
	RateLimitWindow   int `env:"YAPICMS_RATE_LIMIT_WINDOW" envDefault:"900"` // seconds

	// Cache configuration
	RedisURL     string `env:"YAPICMS_REDIS_URL"`                        // Optional Redis URL for distributed caching
	CachePrefix  string `env:"YAPICMS_CACHE_PREFIX" envDefault:"yapi:"`  // Redis key prefix
	CacheTTL     int    `env:"YAPICMS_CACHE_TTL" envDefault:"3600"`      // Default cache TTL in seconds
	CacheMaxSize int    `env:"YAPICMS_CACHE_MAX_SIZE" envDefault:"10000"`

	// GeoIP configuration
	GeoIPDBPath string `env:"YAPICMS_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Retention windows for scheduled cleanup, days
	SubmissionRetentionDays int `env:"YAPICMS_SUBMISSION_RETENTION_DAYS" envDefault:"90"`
	EventRetentionDays      int `env:"YAPICMS_EVENT_RETENTION_DAYS" envDefault:"30"`

	// Seeding configuration
	SeedAdminEmail    string `env:"YAPICMS_SEED_ADMIN_EMAIL" envDefault:"admin@example.com"`
	SeedAdminPassword string `env:"YAPICMS_SEED_ADMIN_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// MinJWTSecretLength is the minimum required length for the JWT signing secret.
const MinJWTSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.JWTSecret) < MinJWTSecretLength {
		return nil, fmt.Errorf("YAPICMS_JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinJWTSecretLength, len(cfg.JWTSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.JWTSecret == weak {
			return nil, fmt.Errorf("YAPICMS_JWT_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.JWTSecret) {
		slog.Warn("YAPICMS_JWT_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.JWTExpiry <= 0 {
		return nil, fmt.Errorf("YAPICMS_JWT_EXPIRY must be positive, got %s", cfg.JWTExpiry)
	}
	if cfg.MaxUploadSize <= 0 {
		return nil, fmt.Errorf("YAPICMS_MAX_UPLOAD_SIZE must be positive, got %d", cfg.MaxUploadSize)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
