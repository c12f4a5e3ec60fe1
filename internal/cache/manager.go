// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"time"
)

// Cache keys for public payloads.
const (
	keyPublicSettings = "public_settings"
	keyContactInfo    = "contact_info:" // + language code
)

// Manager fronts the configured cache backend. When Redis is configured but
// unreachable it falls back to the in-memory cache so reads keep working.
type Manager struct {
	backend Cache
	ttl     time.Duration
}

// Options configures the cache manager.
type Options struct {
	RedisURL    string // empty uses the memory backend
	RedisPrefix string
	TTL         time.Duration
	MaxSize     int
}

// NewManager creates a Manager, preferring Redis when configured and
// reachable, otherwise a memory cache.
func NewManager(opts Options) *Manager {
	ttl := opts.TTL
	if ttl == 0 {
		ttl = time.Hour
	}

	if opts.RedisURL != "" {
		redisCache, err := NewRedisCache(RedisCacheOptions{
			URL:        opts.RedisURL,
			Prefix:     opts.RedisPrefix,
			DefaultTTL: ttl,
		})
		if err == nil {
			slog.Info("cache backend ready", "backend", "redis")
			return &Manager{backend: redisCache, ttl: ttl}
		}
		slog.Warn("redis unavailable, falling back to memory cache", "error", err)
	}

	return &Manager{
		backend: NewMemoryCache(MemoryCacheOptions{
			DefaultTTL:      ttl,
			MaxSize:         opts.MaxSize,
			CleanupInterval: time.Minute,
		}),
		ttl: ttl,
	}
}

// GetPublicSettings returns the cached public settings payload, if any.
func (m *Manager) GetPublicSettings(ctx context.Context) ([]byte, bool) {
	val, err := m.backend.Get(ctx, keyPublicSettings)
	if err != nil {
		return nil, false
	}
	return val, true
}

// SetPublicSettings caches the public settings payload.
func (m *Manager) SetPublicSettings(ctx context.Context, payload []byte) {
	if err := m.backend.Set(ctx, keyPublicSettings, payload, m.ttl); err != nil {
		slog.Warn("failed to cache public settings", "error", err)
	}
}

// InvalidateSettings drops the cached public settings payload. Called after
// any settings write.
func (m *Manager) InvalidateSettings(ctx context.Context) {
	_ = m.backend.Delete(ctx, keyPublicSettings)
}

// GetContactInfo returns the cached contact payload for a language, if any.
func (m *Manager) GetContactInfo(ctx context.Context, lang string) ([]byte, bool) {
	val, err := m.backend.Get(ctx, keyContactInfo+lang)
	if err != nil {
		return nil, false
	}
	return val, true
}

// SetContactInfo caches the contact payload for a language.
func (m *Manager) SetContactInfo(ctx context.Context, lang string, payload []byte) {
	if err := m.backend.Set(ctx, keyContactInfo+lang, payload, m.ttl); err != nil {
		slog.Warn("failed to cache contact info", "error", err)
	}
}

// InvalidateContactInfo drops the cached contact payload for a language.
func (m *Manager) InvalidateContactInfo(ctx context.Context, lang string) {
	_ = m.backend.Delete(ctx, keyContactInfo+lang)
}

// Clear empties the whole cache.
func (m *Manager) Clear(ctx context.Context) {
	if err := m.backend.Clear(ctx); err != nil {
		slog.Warn("failed to clear cache", "error", err)
	}
}

// Close releases the backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}
