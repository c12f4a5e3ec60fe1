// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, map[string]string{"hello": "world"})

	assertStatusCode(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body["hello"] != "world" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, []string{"a", "b"}, &Meta{Total: 2, Page: 1, PerPage: 20, Pages: 1})

	assertStatusCode(t, w, http.StatusOK)

	var items []string
	decodeData(t, w, &items)
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}
	meta := decodeMeta(t, w)
	if meta == nil || meta.Total != 2 {
		t.Errorf("unexpected meta: %+v", meta)
	}
}

func TestWriteCreated(t *testing.T) {
	w := httptest.NewRecorder()
	WriteCreated(w, map[string]int{"id": 7})

	assertStatusCode(t, w, http.StatusCreated)

	var data map[string]int
	decodeData(t, w, &data)
	if data["id"] != 7 {
		t.Errorf("unexpected data: %v", data)
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusTeapot, "teapot", "I am a teapot", map[string]string{"field": "broken"})

	assertStatusCode(t, w, http.StatusTeapot)
	resp := assertErrorResponse(t, w, "teapot")
	if resp.Error.Message != "I am a teapot" {
		t.Errorf("unexpected message %q", resp.Error.Message)
	}
	if resp.Error.Details["field"] != "broken" {
		t.Errorf("unexpected details: %v", resp.Error.Details)
	}
}

func TestWriteShortcuts(t *testing.T) {
	tests := []struct {
		name       string
		write      func(w http.ResponseWriter)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "bad request",
			write:      func(w http.ResponseWriter) { WriteBadRequest(w, "nope", nil) },
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "not found",
			write:      func(w http.ResponseWriter) { WriteNotFound(w, "gone") },
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "unauthorized",
			write:      func(w http.ResponseWriter) { WriteUnauthorized(w, "who") },
			wantStatus: http.StatusUnauthorized,
			wantCode:   "unauthorized",
		},
		{
			name:       "forbidden",
			write:      func(w http.ResponseWriter) { WriteForbidden(w, "no") },
			wantStatus: http.StatusForbidden,
			wantCode:   "forbidden",
		},
		{
			name:       "validation",
			write:      func(w http.ResponseWriter) { WriteValidationError(w, map[string]string{"name": "required"}) },
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)
			assertStatusCode(t, w, tt.wantStatus)
			assertErrorResponse(t, w, tt.wantCode)
		})
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantPage    int
		wantPerPage int
	}{
		{"defaults", "", 1, defaultPerPage},
		{"explicit", "?page=3&per_page=10", 3, 10},
		{"zero page clamps", "?page=0", 1, defaultPerPage},
		{"negative per_page clamps", "?per_page=-5", 1, defaultPerPage},
		{"per_page cap", "?per_page=1000", 1, maxPerPage},
		{"garbage ignored", "?page=abc&per_page=xyz", 1, defaultPerPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			page, perPage := parsePagination(r)
			if page != tt.wantPage || perPage != tt.wantPerPage {
				t.Errorf("got page=%d per_page=%d, want page=%d per_page=%d",
					page, perPage, tt.wantPage, tt.wantPerPage)
			}
		})
	}
}

func TestPaginationMeta(t *testing.T) {
	meta := paginationMeta(45, 2, 20)
	if meta.Total != 45 || meta.Page != 2 || meta.PerPage != 20 || meta.Pages != 3 {
		t.Errorf("unexpected meta: %+v", meta)
	}

	meta = paginationMeta(0, 1, 20)
	if meta.Pages != 0 {
		t.Errorf("expected 0 pages for empty set, got %d", meta.Pages)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/health", "", nil)
	assertStatusCode(t, w, http.StatusOK)

	var body healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("expected status ok, got %q", body.Status)
	}
	if body.Environment != "test" {
		t.Errorf("unexpected environment %q", body.Environment)
	}
}

func TestUnknownFieldRejected(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "a@b.co", "password": "x", "bogus": "y"})
	assertStatusCode(t, w, http.StatusBadRequest)
	assertErrorResponse(t, w, "bad_request")
}
