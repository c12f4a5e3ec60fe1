// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/olegiv/yapicms/internal/auth"
	"github.com/olegiv/yapicms/internal/cache"
	"github.com/olegiv/yapicms/internal/config"
	"github.com/olegiv/yapicms/internal/geoip"
	"github.com/olegiv/yapicms/internal/model"
	"github.com/olegiv/yapicms/internal/service"
	"github.com/olegiv/yapicms/internal/store"
)

// testEnv bundles a handler wired over an in-memory database with its
// router and token manager.
type testEnv struct {
	handler *Handler
	router  http.Handler
	store   *store.Store
	tokens  *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := store.NewDBWithConfig(":memory:", store.DBConfig{
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	if err != nil {
		t.Fatalf("NewDBWithConfig: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:         "0123456789abcdef0123456789abcdef",
		JWTExpiry:         time.Hour,
		Env:               "test",
		UploadsDir:        t.TempDir(),
		MaxUploadSize:     10 << 20,
		RateLimitRequests: 1000,
		RateLimitWindow:   60,
		CacheMaxSize:      100,
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	cacheManager := cache.NewManager(cache.Options{TTL: time.Minute, MaxSize: cfg.CacheMaxSize})
	t.Cleanup(func() { _ = cacheManager.Close() })

	st := store.NewStore(db)
	h := New(st, cfg, tokens, cacheManager, geoip.NewLookup(),
		service.NewMediaService(db, cfg.UploadsDir, cfg.MaxUploadSize))

	return &testEnv{
		handler: h,
		router:  h.Routes(),
		store:   st,
		tokens:  tokens,
	}
}

// createUser inserts an account and returns it with a valid token.
func (env *testEnv) createUser(t *testing.T, email, role string) (model.User, string) {
	t.Helper()

	hash, err := auth.HashPassword("parola-123")
	if err != nil {
		t.Fatal(err)
	}
	user, err := env.store.CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
		Role:         role,
		Active:       true,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	token, err := env.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return user, token
}

func (env *testEnv) admin(t *testing.T) (model.User, string) {
	t.Helper()
	return env.createUser(t, "admin@example.com", model.RoleAdmin)
}

func (env *testEnv) editor(t *testing.T) (model.User, string) {
	t.Helper()
	return env.createUser(t, "editor@example.com", model.RoleEditor)
}

// request runs one request through the full router. A non-empty token is
// sent as a Bearer credential; a non-nil body is JSON encoded.
func (env *testEnv) request(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// assertStatusCode checks that the response has the expected status code.
func assertStatusCode(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("expected status %d, got %d: %s", expected, w.Code, w.Body.String())
	}
}

// assertErrorResponse unmarshals and validates an error response.
func assertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedCode string) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error.Code != expectedCode {
		t.Errorf("expected code %q, got %q", expectedCode, resp.Error.Code)
	}
	return resp
}

// decodeData unmarshals the data field of a success envelope into dst.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
		Meta *Meta           `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to unmarshal envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, dst); err != nil {
		t.Fatalf("failed to unmarshal data: %v", err)
	}
}

// decodeMeta returns the meta block of a success envelope.
func decodeMeta(t *testing.T, w *httptest.ResponseRecorder) *Meta {
	t.Helper()
	var envelope struct {
		Meta *Meta `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to unmarshal envelope: %v", err)
	}
	return envelope.Meta
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
