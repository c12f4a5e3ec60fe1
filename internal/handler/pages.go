// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/yapicms/internal/middleware"
	"github.com/olegiv/yapicms/internal/model"
	"github.com/olegiv/yapicms/internal/store"
	"github.com/olegiv/yapicms/internal/util"
)

// GetPage returns the public projection of one page: localized content, SEO
// and visible sections for the requested language.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	lang := resolveLanguage(r)

	page, err := h.store.GetPageBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Page not found")
		} else {
			h.writeInternalError(w, "Failed to retrieve page", err)
		}
		return
	}
	if !page.Active {
		WriteNotFound(w, "Page not found")
		return
	}

	view, err := h.store.GetPageView(r.Context(), page, lang, true)
	if err != nil {
		h.writeInternalError(w, "Failed to retrieve page", err)
		return
	}
	WriteSuccess(w, view, nil)
}

// ListPages returns the public page listing: active pages in display order
// with localized content, SEO and visible sections.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	lang := resolveLanguage(r)

	pages, err := h.store.ListPages(r.Context(), true)
	if err != nil {
		h.writeInternalError(w, "Failed to list pages", err)
		return
	}

	views := make([]model.PageView, 0, len(pages))
	for _, page := range pages {
		view, err := h.store.GetPageView(r.Context(), page, lang, true)
		if err != nil {
			h.writeInternalError(w, "Failed to list pages", err)
			return
		}
		views = append(views, view)
	}
	WriteSuccess(w, views, nil)
}

// AdminListPages returns all pages with every section included, for the
// admin UI.
func (h *Handler) AdminListPages(w http.ResponseWriter, r *http.Request) {
	lang := resolveLanguage(r)

	pages, err := h.store.ListPages(r.Context(), false)
	if err != nil {
		h.writeInternalError(w, "Failed to list pages", err)
		return
	}

	views := make([]model.PageView, 0, len(pages))
	for _, page := range pages {
		view, err := h.store.GetPageView(r.Context(), page, lang, false)
		if err != nil {
			h.writeInternalError(w, "Failed to list pages", err)
			return
		}
		views = append(views, view)
	}
	WriteSuccess(w, views, nil)
}

// createPageRequest is the POST /api/pages body.
type createPageRequest struct {
	Slug     string                          `json:"slug"`
	Template string                          `json:"template"`
	Position int64                           `json:"position"`
	Active   *bool                           `json:"active"`
	Content  map[string]localizedPageContent `json:"content"`
}

// CreatePage creates a page beyond the seeded set, with optional localized
// content and SEO.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req createPageRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	fieldErrors := map[string]string{}
	if !util.IsValidSlug(req.Slug) {
		fieldErrors["slug"] = "A valid slug is required"
	}
	if req.Template == "" {
		req.Template = "default"
	}

	updates, contentErrors := pageContentUpdates(0, req.Content)
	for k, v := range contentErrors {
		fieldErrors[k] = v
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	if _, err := h.store.GetPageBySlug(r.Context(), req.Slug); err == nil {
		WriteValidationError(w, map[string]string{"slug": "Slug already exists"})
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		h.writeInternalError(w, "Failed to create page", err)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	page, err := h.store.CreatePageFull(r.Context(), store.CreatePageParams{
		Slug:     req.Slug,
		Template: req.Template,
		Position: req.Position,
		Active:   active,
	}, updates)
	if err != nil {
		h.writeInternalError(w, "Failed to create page", err)
		return
	}

	slog.Info("page created", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r), "page_id", page.ID, "slug", page.Slug)
	WriteCreated(w, page)
}

// localizedPageContent is one language's worth of page text and SEO in an
// update request.
type localizedPageContent struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`

	MetaTitle       *string `json:"meta_title"`
	MetaDescription *string `json:"meta_description"`
	Keywords        *string `json:"keywords"`
	OGImage         *string `json:"og_image"`
}

// updatePageRequest is the PUT /api/pages/{id} body. Content is keyed by
// language code; provided fields overwrite, everything else is kept.
type updatePageRequest struct {
	Template *string                         `json:"template"`
	Position *int64                          `json:"position"`
	Active   *bool                           `json:"active"`
	Content  map[string]localizedPageContent `json:"content"`
}

// UpdatePage applies scalar, content and SEO changes to a page in one
// transaction.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid page ID", nil)
		return
	}

	var req updatePageRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	updates, fieldErrors := pageContentUpdates(id, req.Content)
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	page, err := h.store.UpdatePageFull(r.Context(), store.UpdatePageParams{
		ID:       id,
		Template: req.Template,
		Position: req.Position,
		Active:   req.Active,
	}, updates)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Page not found")
		} else {
			h.writeInternalError(w, "Failed to update page", err)
		}
		return
	}

	slog.Info("page updated", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r), "page_id", page.ID, "slug", page.Slug)
	WriteSuccess(w, page, nil)
}

// pageContentUpdates converts the per-language request map into store upserts,
// validating language codes and sanitizing rich text.
func pageContentUpdates(pageID int64, content map[string]localizedPageContent) ([]store.ContentUpdate, map[string]string) {
	var updates []store.ContentUpdate
	fieldErrors := map[string]string{}

	for code, lc := range content {
		if !model.IsValidLanguage(code) {
			fieldErrors["content."+code] = "Unsupported language"
			continue
		}
		lang := model.Language(code)

		if lc.Description != nil {
			clean := util.SanitizeHTML(*lc.Description)
			lc.Description = &clean
		}

		u := store.ContentUpdate{}
		if lc.Title != nil || lc.Description != nil {
			u.Content = &store.UpsertPageContentParams{
				PageID:      pageID,
				Language:    lang,
				Title:       lc.Title,
				Description: lc.Description,
			}
		}
		if lc.MetaTitle != nil || lc.MetaDescription != nil || lc.Keywords != nil || lc.OGImage != nil {
			u.SEO = &store.UpsertPageSEOParams{
				PageID:          pageID,
				Language:        lang,
				MetaTitle:       lc.MetaTitle,
				MetaDescription: lc.MetaDescription,
				Keywords:        lc.Keywords,
				OGImage:         lc.OGImage,
			}
		}
		if u.Content != nil || u.SEO != nil {
			updates = append(updates, u)
		}
	}
	return updates, fieldErrors
}

// localizedSectionContent is one language's worth of section payload in a
// create or update request.
type localizedSectionContent struct {
	Title     *string `json:"title"`
	Subtitle  *string `json:"subtitle"`
	Content   *string `json:"content"`
	MediaURLs *string `json:"media_urls"`
	Data      *string `json:"data"`
}

// createSectionRequest is the POST /api/pages/{pageID}/sections body.
type createSectionRequest struct {
	Name     string                             `json:"name"`
	Type     string                             `json:"type"`
	Position int64                              `json:"position"`
	Visible  *bool                              `json:"visible"`
	Settings string                             `json:"settings"`
	Content  map[string]localizedSectionContent `json:"content"`
}

// CreateSection adds a section to a page, with optional localized content.
func (h *Handler) CreateSection(w http.ResponseWriter, r *http.Request) {
	pageID, err := parseIDParam(r, "pageID")
	if err != nil {
		WriteBadRequest(w, "Invalid page ID", nil)
		return
	}

	var req createSectionRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	fieldErrors := map[string]string{}
	if req.Name == "" {
		fieldErrors["name"] = "Name is required"
	}
	if req.Type == "" {
		fieldErrors["type"] = "Type is required"
	}
	if req.Settings != "" && !json.Valid([]byte(req.Settings)) {
		fieldErrors["settings"] = "Settings must be a JSON object"
	}
	for code := range req.Content {
		if !model.IsValidLanguage(code) {
			fieldErrors["content."+code] = "Unsupported language"
		}
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	if _, err := h.store.GetPageByID(r.Context(), pageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Page not found")
		} else {
			h.writeInternalError(w, "Failed to create section", err)
		}
		return
	}

	visible := true
	if req.Visible != nil {
		visible = *req.Visible
	}

	section, err := h.store.CreateSection(r.Context(), store.CreateSectionParams{
		PageID:   pageID,
		Name:     req.Name,
		Type:     req.Type,
		Position: req.Position,
		Visible:  visible,
		Settings: req.Settings,
	})
	if err != nil {
		h.writeInternalError(w, "Failed to create section", err)
		return
	}

	if err := h.upsertSectionContent(r, section.ID, req.Content); err != nil {
		h.writeInternalError(w, "Failed to save section content", err)
		return
	}

	slog.Info("section created", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r), "page_id", pageID, "section_id", section.ID)
	WriteCreated(w, section)
}

// updateSectionRequest is the PUT /api/sections/{id} body.
type updateSectionRequest struct {
	Name     *string                            `json:"name"`
	Type     *string                            `json:"type"`
	Position *int64                             `json:"position"`
	Visible  *bool                              `json:"visible"`
	Settings *string                            `json:"settings"`
	Content  map[string]localizedSectionContent `json:"content"`
}

// UpdateSection applies scalar and content changes to a section.
func (h *Handler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	section, ok := requireEntityByID(h, w, r, "section", func(id int64) (model.PageSection, error) {
		return h.store.GetSectionByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req updateSectionRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	fieldErrors := map[string]string{}
	if req.Settings != nil && !json.Valid([]byte(*req.Settings)) {
		fieldErrors["settings"] = "Settings must be a JSON object"
	}
	for code := range req.Content {
		if !model.IsValidLanguage(code) {
			fieldErrors["content."+code] = "Unsupported language"
		}
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	if err := h.store.UpdateSection(r.Context(), store.UpdateSectionParams{
		ID:       section.ID,
		Name:     req.Name,
		Type:     req.Type,
		Position: req.Position,
		Visible:  req.Visible,
		Settings: req.Settings,
	}); err != nil {
		h.writeInternalError(w, "Failed to update section", err)
		return
	}

	if err := h.upsertSectionContent(r, section.ID, req.Content); err != nil {
		h.writeInternalError(w, "Failed to save section content", err)
		return
	}

	updated, err := h.store.GetSectionByID(r.Context(), section.ID)
	if err != nil {
		h.writeInternalError(w, "Failed to update section", err)
		return
	}

	slog.Info("section updated", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r), "section_id", updated.ID)
	WriteSuccess(w, updated, nil)
}

// upsertSectionContent writes the localized payloads of a section. Language
// codes are validated by the callers.
func (h *Handler) upsertSectionContent(r *http.Request, sectionID int64, content map[string]localizedSectionContent) error {
	for code, lc := range content {
		if lc.Content != nil {
			clean := util.SanitizeHTML(*lc.Content)
			lc.Content = &clean
		}
		if err := h.store.UpsertSectionContent(r.Context(), store.UpsertSectionContentParams{
			SectionID: sectionID,
			Language:  model.Language(code),
			Title:     lc.Title,
			Subtitle:  lc.Subtitle,
			Content:   lc.Content,
			MediaURLs: lc.MediaURLs,
			Data:      lc.Data,
		}); err != nil {
			return err
		}
	}
	return nil
}

// DeleteSection removes a section and its content.
func (h *Handler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	section, ok := requireEntityByID(h, w, r, "section", func(id int64) (model.PageSection, error) {
		return h.store.GetSectionByID(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.store.DeleteSection(r.Context(), section.ID); err != nil {
		h.writeInternalError(w, "Failed to delete section", err)
		return
	}

	slog.Info("section deleted", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r), "section_id", section.ID)
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// reorderRequest is the body of the reorder endpoints.
type reorderRequest struct {
	Positions []store.PositionUpdate `json:"positions"`
}

// ReorderSections applies new positions to the sections of a page. Every id
// must belong to the page or the whole request is rejected.
func (h *Handler) ReorderSections(w http.ResponseWriter, r *http.Request) {
	pageID, err := parseIDParam(r, "pageID")
	if err != nil {
		WriteBadRequest(w, "Invalid page ID", nil)
		return
	}

	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if len(req.Positions) == 0 {
		WriteBadRequest(w, "Positions are required", nil)
		return
	}

	if err := h.store.ReorderSections(r.Context(), pageID, req.Positions); err != nil {
		if errors.Is(err, store.ErrForeignRow) {
			WriteBadRequest(w, "One or more sections do not belong to this page", nil)
		} else {
			h.writeInternalError(w, "Failed to reorder sections", err)
		}
		return
	}

	slog.Info("sections reordered", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r), "page_id", pageID)
	WriteSuccess(w, map[string]string{"status": "reordered"}, nil)
}
