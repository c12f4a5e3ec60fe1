// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/yapicms/internal/middleware"
	"github.com/olegiv/yapicms/internal/model"
)

// GetPublicSettings returns the allow-listed settings as a flat object,
// served from cache when possible.
func (h *Handler) GetPublicSettings(w http.ResponseWriter, r *http.Request) {
	if payload, ok := h.cache.GetPublicSettings(r.Context()); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
		return
	}

	values, err := h.store.ListSettingsByKeys(r.Context(), model.PublicSettingKeys)
	if err != nil {
		h.writeInternalError(w, "Failed to retrieve settings", err)
		return
	}

	payload, err := json.Marshal(Response{Data: values})
	if err != nil {
		h.writeInternalError(w, "Failed to retrieve settings", err)
		return
	}
	h.cache.SetPublicSettings(r.Context(), payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// ListSettings returns every setting row. Admin only.
func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.ListSettings(r.Context())
	if err != nil {
		h.writeInternalError(w, "Failed to list settings", err)
		return
	}
	if settings == nil {
		settings = []model.Setting{}
	}
	WriteSuccess(w, settings, nil)
}

// updateSettingRequest is the PUT /api/settings/{key} body.
type updateSettingRequest struct {
	Value string `json:"value"`
}

// UpdateSetting creates or overwrites one setting and drops the public
// cache.
func (h *Handler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		WriteBadRequest(w, "Setting key is required", nil)
		return
	}

	var req updateSettingRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	setting, err := h.store.UpsertSetting(r.Context(), key, req.Value)
	if err != nil {
		h.writeInternalError(w, "Failed to update setting", err)
		return
	}
	h.cache.InvalidateSettings(r.Context())

	slog.Info("setting updated", "category", model.EventCategoryConfig,
		"user_id", middleware.GetUserID(r), "key", key)
	WriteSuccess(w, setting, nil)
}

// bulkSettingsRequest is the POST /api/settings/bulk body.
type bulkSettingsRequest struct {
	Settings map[string]string `json:"settings"`
}

// BulkUpdateSettings writes several settings at once. Writes are applied in
// order and are not atomic; a mid-way failure leaves earlier keys updated.
func (h *Handler) BulkUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req bulkSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if len(req.Settings) == 0 {
		WriteBadRequest(w, "Settings are required", nil)
		return
	}

	updated := make([]model.Setting, 0, len(req.Settings))
	for key, value := range req.Settings {
		setting, err := h.store.UpsertSetting(r.Context(), key, value)
		if err != nil {
			h.cache.InvalidateSettings(r.Context())
			h.writeInternalError(w, "Failed to update setting "+key, err)
			return
		}
		updated = append(updated, setting)
	}
	h.cache.InvalidateSettings(r.Context())

	slog.Info("settings bulk updated", "category", model.EventCategoryConfig,
		"user_id", middleware.GetUserID(r), "count", len(updated))
	WriteSuccess(w, updated, nil)
}
