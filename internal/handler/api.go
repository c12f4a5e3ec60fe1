// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the REST API handlers for the CMS.
package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/yapicms/internal/auth"
	"github.com/olegiv/yapicms/internal/cache"
	"github.com/olegiv/yapicms/internal/config"
	"github.com/olegiv/yapicms/internal/geoip"
	"github.com/olegiv/yapicms/internal/model"
	"github.com/olegiv/yapicms/internal/service"
	"github.com/olegiv/yapicms/internal/store"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	store  *store.Store
	cfg    *config.Config
	tokens *auth.TokenManager
	cache  *cache.Manager
	geo    *geoip.Lookup
	media  *service.MediaService
}

// New creates an API handler over the shared application services.
func New(st *store.Store, cfg *config.Config, tokens *auth.TokenManager, cacheMgr *cache.Manager, geo *geoip.Lookup, media *service.MediaService) *Handler {
	return &Handler{
		store:  st,
		cfg:    cfg,
		tokens: tokens,
		cache:  cacheMgr,
		geo:    geo,
		media:  media,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination and other metadata.
type Meta struct {
	Total   int64 `json:"total,omitempty"`
	Page    int   `json:"page,omitempty"`
	PerPage int   `json:"per_page,omitempty"`
	Pages   int   `json:"pages,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message, nil)
}

// WriteValidationError writes a 400 Bad Request response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusBadRequest, "validation_error", "Validation failed", fieldErrors)
}

// writeInternalError writes a 500 response. The underlying error is exposed
// only in development mode.
func (h *Handler) writeInternalError(w http.ResponseWriter, message string, err error) {
	var details map[string]string
	if err != nil && h.cfg.IsDevelopment() {
		details = map[string]string{"error": err.Error()}
	}
	WriteError(w, http.StatusInternalServerError, "internal_error", message, details)
}

// parseIDParam extracts a positive numeric {id} from the URL.
func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// Listing defaults and caps.
const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// parsePagination returns the 1-based page and per-page size from the query
// string, clamped to sane bounds.
func parsePagination(r *http.Request) (page, perPage int) {
	page = 1
	perPage = defaultPerPage
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && v > 0 {
		perPage = v
		if perPage > maxPerPage {
			perPage = maxPerPage
		}
	}
	return page, perPage
}

// paginationMeta builds the Meta block for a paginated listing.
func paginationMeta(total int64, page, perPage int) *Meta {
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return &Meta{Total: total, Page: page, PerPage: perPage, Pages: pages}
}

// resolveLanguage returns the content language from the ?lang= query
// parameter, falling back to the site default.
func resolveLanguage(r *http.Request) model.Language {
	return model.NormalizeLanguage(r.URL.Query().Get("lang"))
}

// entityFetcher is a function that fetches an entity by ID.
type entityFetcher[T any] func(id int64) (T, error)

// requireEntityByID parses {id} from the URL and fetches the entity.
// On failure the response has already been written and ok is false.
func requireEntityByID[T any](h *Handler, w http.ResponseWriter, r *http.Request, entityName string, fetch entityFetcher[T]) (T, bool) {
	var zero T

	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid "+entityName+" ID", nil)
		return zero, false
	}

	entity, err := fetch(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, capitalizeFirst(entityName)+" not found")
		} else {
			h.writeInternalError(w, "Failed to retrieve "+entityName, err)
		}
		return zero, false
	}

	return entity, true
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
