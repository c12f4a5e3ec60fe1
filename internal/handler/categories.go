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
	"github.com/olegiv/yapicms/internal/util"
)

// ListCategories returns all categories with names for one language.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.store.ListCategories(r.Context(), resolveLanguage(r))
	if err != nil {
		h.writeInternalError(w, "Failed to list categories", err)
		return
	}
	if cats == nil {
		cats = []model.CategoryView{}
	}
	WriteSuccess(w, cats, nil)
}

// AdminListCategories returns categories with project counts.
func (h *Handler) AdminListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.store.ListCategoriesWithCounts(r.Context(), resolveLanguage(r))
	if err != nil {
		h.writeInternalError(w, "Failed to list categories", err)
		return
	}
	if cats == nil {
		cats = []model.CategoryView{}
	}
	WriteSuccess(w, cats, nil)
}

// categoryRequest is the POST and PUT category body. Names are keyed by
// language code and merge with stored ones.
type categoryRequest struct {
	Slug     *string           `json:"slug"`
	Position *int64            `json:"position"`
	Names    map[string]string `json:"names"`
}

// validateCategoryNames checks the language codes of a names map and converts
// it to the store's keying.
func validateCategoryNames(names map[string]string) (map[model.Language]string, map[string]string) {
	out := make(map[model.Language]string, len(names))
	fieldErrors := map[string]string{}
	for code, name := range names {
		if !model.IsValidLanguage(code) {
			fieldErrors["names."+code] = "Unsupported language"
			continue
		}
		out[model.Language(code)] = name
	}
	return out, fieldErrors
}

// CreateCategory creates a category with localized names. The slug comes
// from the default-language name unless given explicitly.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	names, fieldErrors := validateCategoryNames(req.Names)

	slug := ""
	if req.Slug != nil {
		slug = *req.Slug
	} else if name, ok := names[model.DefaultLanguage]; ok {
		slug = util.Slugify(name)
	}
	if !util.IsValidSlug(slug) {
		fieldErrors["slug"] = "A valid slug or default-language name is required"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	if _, err := h.store.GetCategoryBySlug(r.Context(), slug); err == nil {
		WriteValidationError(w, map[string]string{"slug": "Slug already exists"})
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		h.writeInternalError(w, "Failed to create category", err)
		return
	}

	var position int64
	if req.Position != nil {
		position = *req.Position
	}
	cat, err := h.store.CreateCategoryWithNames(r.Context(), slug, position, names)
	if err != nil {
		h.writeInternalError(w, "Failed to create category", err)
		return
	}

	slog.Info("category created", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r), "category_id", cat.ID, "slug", cat.Slug)
	WriteCreated(w, cat)
}

// UpdateCategory renames a category and merges localized names.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(h, w, r, "category", func(id int64) (model.Category, error) {
		return h.store.GetCategoryByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	names, fieldErrors := validateCategoryNames(req.Names)
	if req.Slug != nil && !util.IsValidSlug(*req.Slug) {
		fieldErrors["slug"] = "Invalid slug format"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	if req.Slug != nil && *req.Slug != existing.Slug {
		if _, err := h.store.GetCategoryBySlug(r.Context(), *req.Slug); err == nil {
			WriteValidationError(w, map[string]string{"slug": "Slug already exists"})
			return
		} else if !errors.Is(err, sql.ErrNoRows) {
			h.writeInternalError(w, "Failed to update category", err)
			return
		}
	}

	cat, err := h.store.UpdateCategory(r.Context(), existing.ID, req.Slug, req.Position, names)
	if err != nil {
		h.writeInternalError(w, "Failed to update category", err)
		return
	}

	slog.Info("category updated", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r), "category_id", cat.ID, "slug", cat.Slug)
	WriteSuccess(w, cat, nil)
}

// DeleteCategory removes a category; project links cascade. Admin only.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	cat, ok := requireEntityByID(h, w, r, "category", func(id int64) (model.Category, error) {
		return h.store.GetCategoryByID(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.store.DeleteCategory(r.Context(), cat.ID); err != nil {
		h.writeInternalError(w, "Failed to delete category", err)
		return
	}

	slog.Info("category deleted", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r), "category_id", cat.ID, "slug", cat.Slug)
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
