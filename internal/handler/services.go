// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/yapicms/internal/middleware"
	"github.com/olegiv/yapicms/internal/model"
	"github.com/olegiv/yapicms/internal/store"
	"github.com/olegiv/yapicms/internal/util"
)

// listServiceViews builds localized views over a service listing.
func (h *Handler) listServiceViews(r *http.Request, activeOnly bool) ([]model.ServiceView, error) {
	lang := resolveLanguage(r)
	services, err := h.store.ListServices(r.Context(), activeOnly)
	if err != nil {
		return nil, err
	}

	views := make([]model.ServiceView, 0, len(services))
	for _, svc := range services {
		view, err := h.store.GetServiceView(r.Context(), svc, lang)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// ListServices returns active services with content and features, ordered by
// position.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	views, err := h.listServiceViews(r, true)
	if err != nil {
		h.writeInternalError(w, "Failed to list services", err)
		return
	}
	WriteSuccess(w, views, nil)
}

// AdminListServices returns all services, inactive included.
func (h *Handler) AdminListServices(w http.ResponseWriter, r *http.Request) {
	views, err := h.listServiceViews(r, false)
	if err != nil {
		h.writeInternalError(w, "Failed to list services", err)
		return
	}
	WriteSuccess(w, views, nil)
}

// GetService returns one service with content and features.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	lang := resolveLanguage(r)

	svc, err := h.store.GetServiceBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Service not found")
		} else {
			h.writeInternalError(w, "Failed to retrieve service", err)
		}
		return
	}
	if !svc.Active {
		WriteNotFound(w, "Service not found")
		return
	}

	view, err := h.store.GetServiceView(r.Context(), svc, lang)
	if err != nil {
		h.writeInternalError(w, "Failed to retrieve service", err)
		return
	}
	WriteSuccess(w, view, nil)
}

// localizedServiceContent is one language's worth of service text. A non-nil
// features list replaces the stored one wholesale.
type localizedServiceContent struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Features    *[]string `json:"features"`
}

// createServiceRequest is the POST /api/services body. The slug is derived
// from the default-language title once, at creation.
type createServiceRequest struct {
	Icon     string `json:"icon"`
	Position int64  `json:"position"`
	Active   *bool  `json:"active"`

	Content map[string]localizedServiceContent `json:"content"`
}

// CreateService creates a service with content and features in one
// transaction.
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req createServiceRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	updates, fieldErrors := serviceContentUpdates(req.Content)

	slug := serviceSlug(req.Content)
	if slug == "" {
		fieldErrors["content."+string(model.DefaultLanguage)+".title"] = "A title in the default language is required"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	if _, err := h.store.GetServiceBySlug(r.Context(), slug); err == nil {
		WriteValidationError(w, map[string]string{"slug": "A service with this title already exists"})
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		h.writeInternalError(w, "Failed to create service", err)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	svc, err := h.store.CreateServiceFull(r.Context(), store.CreateServiceParams{
		Slug:     slug,
		Icon:     req.Icon,
		Position: req.Position,
		Active:   active,
	}, updates)
	if err != nil {
		h.writeInternalError(w, "Failed to create service", err)
		return
	}

	slog.Info("service created", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r), "service_id", svc.ID, "slug", svc.Slug)
	WriteCreated(w, svc)
}

// updateServiceRequest is the PUT /api/services/{id} body.
type updateServiceRequest struct {
	Icon     *string `json:"icon"`
	Position *int64  `json:"position"`
	Active   *bool   `json:"active"`

	Content map[string]localizedServiceContent `json:"content"`
}

// UpdateService applies scalar, content and feature changes in one
// transaction.
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid service ID", nil)
		return
	}

	var req updateServiceRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	updates, fieldErrors := serviceContentUpdates(req.Content)
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	svc, err := h.store.UpdateServiceFull(r.Context(), store.UpdateServiceParams{
		ID:       id,
		Icon:     req.Icon,
		Position: req.Position,
		Active:   req.Active,
	}, updates)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Service not found")
		} else {
			h.writeInternalError(w, "Failed to update service", err)
		}
		return
	}

	slog.Info("service updated", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r), "service_id", svc.ID, "slug", svc.Slug)
	WriteSuccess(w, svc, nil)
}

// DeleteService removes a service. Admin only.
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	svc, ok := requireEntityByID(h, w, r, "service", func(id int64) (model.Service, error) {
		return h.store.GetServiceByID(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.store.DeleteService(r.Context(), svc.ID); err != nil {
		h.writeInternalError(w, "Failed to delete service", err)
		return
	}

	slog.Info("service deleted", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r), "service_id", svc.ID, "slug", svc.Slug)
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// serviceContentUpdates converts the per-language request map into store
// updates.
func serviceContentUpdates(content map[string]localizedServiceContent) ([]store.ServiceContentUpdate, map[string]string) {
	var updates []store.ServiceContentUpdate
	fieldErrors := map[string]string{}

	for code, lc := range content {
		if !model.IsValidLanguage(code) {
			fieldErrors["content."+code] = "Unsupported language"
			continue
		}
		if lc.Description != nil {
			clean := util.SanitizeHTML(*lc.Description)
			lc.Description = &clean
		}

		u := store.ServiceContentUpdate{Language: model.Language(code), Features: lc.Features}
		if lc.Title != nil || lc.Description != nil {
			u.Content = &store.UpsertServiceContentParams{
				Title:       lc.Title,
				Description: lc.Description,
			}
		}
		if u.Content != nil || u.Features != nil {
			updates = append(updates, u)
		}
	}
	return updates, fieldErrors
}

// serviceSlug derives the slug from the default-language title, falling back
// to any provided title.
func serviceSlug(content map[string]localizedServiceContent) string {
	if lc, ok := content[string(model.DefaultLanguage)]; ok && lc.Title != nil {
		return util.Slugify(*lc.Title)
	}
	for _, code := range model.SupportedLanguages {
		if lc, ok := content[string(code)]; ok && lc.Title != nil {
			return util.Slugify(*lc.Title)
		}
	}
	return ""
}
