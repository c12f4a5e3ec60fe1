// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/yapicms/internal/middleware"
	"github.com/olegiv/yapicms/internal/model"
	"github.com/olegiv/yapicms/internal/store"
	"github.com/olegiv/yapicms/internal/util"
)

// listReferenceViews builds localized views over a reference listing.
func (h *Handler) listReferenceViews(r *http.Request, activeOnly bool) ([]model.ReferenceView, error) {
	lang := resolveLanguage(r)
	refs, err := h.store.ListReferences(r.Context(), activeOnly)
	if err != nil {
		return nil, err
	}

	views := make([]model.ReferenceView, 0, len(refs))
	for _, ref := range refs {
		view, err := h.store.GetReferenceView(r.Context(), ref, lang)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// ListReferences returns active client references, ordered by position.
func (h *Handler) ListReferences(w http.ResponseWriter, r *http.Request) {
	views, err := h.listReferenceViews(r, true)
	if err != nil {
		h.writeInternalError(w, "Failed to list references", err)
		return
	}
	WriteSuccess(w, views, nil)
}

// AdminListReferences returns all client references, inactive included.
func (h *Handler) AdminListReferences(w http.ResponseWriter, r *http.Request) {
	views, err := h.listReferenceViews(r, false)
	if err != nil {
		h.writeInternalError(w, "Failed to list references", err)
		return
	}
	WriteSuccess(w, views, nil)
}

// localizedReferenceContent is one language's worth of reference text.
type localizedReferenceContent struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// createReferenceRequest is the POST /api/references body. The slug is
// derived from the default-language name once, at creation.
type createReferenceRequest struct {
	Logo     string `json:"logo"`
	Website  string `json:"website"`
	Position int64  `json:"position"`
	Active   *bool  `json:"active"`

	Content map[string]localizedReferenceContent `json:"content"`
}

// CreateReference creates a client reference with localized content.
func (h *Handler) CreateReference(w http.ResponseWriter, r *http.Request) {
	var req createReferenceRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	updates, fieldErrors := referenceContentUpdates(req.Content)

	slug := referenceSlug(req.Content)
	if slug == "" {
		fieldErrors["content."+string(model.DefaultLanguage)+".name"] = "A name in the default language is required"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	ref, err := h.store.CreateReferenceFull(r.Context(), store.CreateReferenceParams{
		Slug:     slug,
		Logo:     req.Logo,
		Website:  req.Website,
		Position: req.Position,
		Active:   active,
	}, updates)
	if err != nil {
		h.writeInternalError(w, "Failed to create reference", err)
		return
	}

	slog.Info("reference created", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r), "reference_id", ref.ID, "slug", ref.Slug)
	WriteCreated(w, ref)
}

// updateReferenceRequest is the PUT /api/references/{id} body.
type updateReferenceRequest struct {
	Logo     *string `json:"logo"`
	Website  *string `json:"website"`
	Position *int64  `json:"position"`
	Active   *bool   `json:"active"`

	Content map[string]localizedReferenceContent `json:"content"`
}

// UpdateReference applies scalar and content changes in one transaction.
func (h *Handler) UpdateReference(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid reference ID", nil)
		return
	}

	var req updateReferenceRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	updates, fieldErrors := referenceContentUpdates(req.Content)
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	ref, err := h.store.UpdateReferenceFull(r.Context(), store.UpdateReferenceParams{
		ID:       id,
		Logo:     req.Logo,
		Website:  req.Website,
		Position: req.Position,
		Active:   req.Active,
	}, updates)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Reference not found")
		} else {
			h.writeInternalError(w, "Failed to update reference", err)
		}
		return
	}

	slog.Info("reference updated", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r), "reference_id", ref.ID, "slug", ref.Slug)
	WriteSuccess(w, ref, nil)
}

// DeleteReference removes a client reference. Admin only.
func (h *Handler) DeleteReference(w http.ResponseWriter, r *http.Request) {
	ref, ok := requireEntityByID(h, w, r, "reference", func(id int64) (model.Reference, error) {
		return h.store.GetReferenceByID(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.store.DeleteReference(r.Context(), ref.ID); err != nil {
		h.writeInternalError(w, "Failed to delete reference", err)
		return
	}

	slog.Info("reference deleted", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r), "reference_id", ref.ID, "slug", ref.Slug)
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// ReorderReferences applies new positions to client references.
func (h *Handler) ReorderReferences(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if len(req.Positions) == 0 {
		WriteBadRequest(w, "Positions are required", nil)
		return
	}

	if err := h.store.ReorderReferences(r.Context(), req.Positions); err != nil {
		if errors.Is(err, store.ErrForeignRow) {
			WriteBadRequest(w, "One or more references do not exist", nil)
		} else {
			h.writeInternalError(w, "Failed to reorder references", err)
		}
		return
	}

	slog.Info("references reordered", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r))
	WriteSuccess(w, map[string]string{"status": "reordered"}, nil)
}

// referenceContentUpdates converts the per-language request map into store
// updates.
func referenceContentUpdates(content map[string]localizedReferenceContent) ([]store.ReferenceContentUpdate, map[string]string) {
	var updates []store.ReferenceContentUpdate
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
		if lc.Name == nil && lc.Description == nil {
			continue
		}
		updates = append(updates, store.ReferenceContentUpdate{
			Language: model.Language(code),
			Content: &store.UpsertReferenceContentParams{
				Name:        lc.Name,
				Description: lc.Description,
			},
		})
	}
	return updates, fieldErrors
}

// referenceSlug derives the slug from the default-language name, falling
// back to any provided name.
func referenceSlug(content map[string]localizedReferenceContent) string {
	if lc, ok := content[string(model.DefaultLanguage)]; ok && lc.Name != nil {
		return util.Slugify(*lc.Name)
	}
	for _, code := range model.SupportedLanguages {
		if lc, ok := content[string(code)]; ok && lc.Name != nil {
			return util.Slugify(*lc.Name)
		}
	}
	return ""
}
