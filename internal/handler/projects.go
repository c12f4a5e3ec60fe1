// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/yapicms/internal/middleware"
	"github.com/olegiv/yapicms/internal/model"
	"github.com/olegiv/yapicms/internal/store"
	"github.com/olegiv/yapicms/internal/util"
)

// dateLayout is the wire format for project dates.
const dateLayout = "2006-01-02"

// ListProjects returns the public project listing, filtered and paginated.
// Unpublished projects are never included.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	lang := resolveLanguage(r)
	page, perPage := parsePagination(r)

	published := true
	params := store.ListProjectsParams{
		Status:       r.URL.Query().Get("status"),
		Published:    &published,
		CategorySlug: r.URL.Query().Get("category"),
		Limit:        int64(perPage),
		Offset:       int64((page - 1) * perPage),
	}
	if params.Status != "" && !model.IsValidProjectStatus(params.Status) {
		WriteBadRequest(w, "Unknown project status", nil)
		return
	}
	if v := r.URL.Query().Get("featured"); v != "" {
		featured := v == "true" || v == "1"
		params.Featured = &featured
	}

	projects, err := h.store.ListProjects(r.Context(), params)
	if err != nil {
		h.writeInternalError(w, "Failed to list projects", err)
		return
	}
	total, err := h.store.CountProjects(r.Context(), params)
	if err != nil {
		h.writeInternalError(w, "Failed to list projects", err)
		return
	}

	views := make([]model.ProjectView, 0, len(projects))
	for _, p := range projects {
		view, err := h.store.GetProjectView(r.Context(), p, lang)
		if err != nil {
			h.writeInternalError(w, "Failed to list projects", err)
			return
		}
		views = append(views, view)
	}
	WriteSuccess(w, views, paginationMeta(total, page, perPage))
}

// GetProject returns the public projection of one project.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	lang := resolveLanguage(r)

	project, err := h.store.GetProjectBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Project not found")
		} else {
			h.writeInternalError(w, "Failed to retrieve project", err)
		}
		return
	}
	if !project.Published {
		WriteNotFound(w, "Project not found")
		return
	}

	view, err := h.store.GetProjectView(r.Context(), project, lang)
	if err != nil {
		h.writeInternalError(w, "Failed to retrieve project", err)
		return
	}
	WriteSuccess(w, view, nil)
}

// adminProject is a project with content in every language, for the admin
// listing.
type adminProject struct {
	model.Project
	Contents []model.ProjectContent `json:"contents"`
}

// AdminListProjects returns projects with all language contents.
func (h *Handler) AdminListProjects(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)
	params := store.ListProjectsParams{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	}

	projects, err := h.store.ListProjects(r.Context(), params)
	if err != nil {
		h.writeInternalError(w, "Failed to list projects", err)
		return
	}
	total, err := h.store.CountProjects(r.Context(), params)
	if err != nil {
		h.writeInternalError(w, "Failed to list projects", err)
		return
	}

	items := make([]adminProject, 0, len(projects))
	for _, p := range projects {
		contents, err := h.store.ListProjectContents(r.Context(), p.ID)
		if err != nil {
			h.writeInternalError(w, "Failed to list projects", err)
			return
		}
		if contents == nil {
			contents = []model.ProjectContent{}
		}
		items = append(items, adminProject{Project: p, Contents: contents})
	}
	WriteSuccess(w, items, paginationMeta(total, page, perPage))
}

// localizedProjectContent is one language's worth of project text in a
// create or update request. A non-nil highlights list replaces the stored
// one wholesale.
type localizedProjectContent struct {
	Title       *string   `json:"title"`
	Summary     *string   `json:"summary"`
	Description *string   `json:"description"`
	Highlights  *[]string `json:"highlights"`
}

// createProjectRequest is the POST /api/projects body. The slug is derived
// from the default-language title once, at creation.
type createProjectRequest struct {
	Status     string  `json:"status"`
	Published  bool    `json:"published"`
	Featured   bool    `json:"featured"`
	Position   int64   `json:"position"`
	CoverImage string  `json:"cover_image"`
	Year       *int64  `json:"year"`
	Location   string  `json:"location"`
	Employer   string  `json:"employer"`
	Area       string  `json:"area"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`

	Content     map[string]localizedProjectContent `json:"content"`
	CategoryIDs []int64                            `json:"category_ids"`
}

// CreateProject creates a project with content, highlights and category
// links in one transaction.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	fieldErrors := map[string]string{}
	if req.Status == "" {
		req.Status = model.ProjectOngoing
	}
	if !model.IsValidProjectStatus(req.Status) {
		fieldErrors["status"] = "Status must be ongoing, completed or planned"
	}

	updates, contentErrors := projectContentUpdates(req.Content)
	for k, v := range contentErrors {
		fieldErrors[k] = v
	}

	slug := projectSlug(req.Content)
	if slug == "" {
		fieldErrors["content."+string(model.DefaultLanguage)+".title"] = "A title in the default language is required"
	}

	startDate, err := parseNullDate(req.StartDate)
	if err != nil {
		fieldErrors["start_date"] = "Date must be YYYY-MM-DD"
	}
	endDate, err := parseNullDate(req.EndDate)
	if err != nil {
		fieldErrors["end_date"] = "Date must be YYYY-MM-DD"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	if _, err := h.store.GetProjectBySlug(r.Context(), slug); err == nil {
		WriteValidationError(w, map[string]string{"slug": "A project with this title already exists"})
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		h.writeInternalError(w, "Failed to create project", err)
		return
	}

	var year sql.NullInt64
	if req.Year != nil {
		year = sql.NullInt64{Int64: *req.Year, Valid: true}
	}

	project, err := h.store.CreateProjectFull(r.Context(), store.CreateProjectParams{
		Slug:       slug,
		Status:     req.Status,
		Published:  req.Published,
		Featured:   req.Featured,
		Position:   req.Position,
		CoverImage: req.CoverImage,
		Year:       year,
		Location:   req.Location,
		Employer:   req.Employer,
		Area:       req.Area,
		StartDate:  startDate,
		EndDate:    endDate,
	}, updates, req.CategoryIDs)
	if err != nil {
		h.writeInternalError(w, "Failed to create project", err)
		return
	}

	slog.Info("project created", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r), "project_id", project.ID, "slug", project.Slug)
	WriteCreated(w, project)
}

// updateProjectRequest is the PUT /api/projects/{id} body. The slug never
// changes after creation so stored links stay stable.
type updateProjectRequest struct {
	Status     *string `json:"status"`
	Published  *bool   `json:"published"`
	Featured   *bool   `json:"featured"`
	Position   *int64  `json:"position"`
	CoverImage *string `json:"cover_image"`
	Year       *int64  `json:"year"`
	Location   *string `json:"location"`
	Employer   *string `json:"employer"`
	Area       *string `json:"area"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`

	Content     map[string]localizedProjectContent `json:"content"`
	CategoryIDs *[]int64                           `json:"category_ids"`
}

// UpdateProject applies scalar, content, highlight and category changes in
// one transaction.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid project ID", nil)
		return
	}

	var req updateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	fieldErrors := map[string]string{}
	if req.Status != nil && !model.IsValidProjectStatus(*req.Status) {
		fieldErrors["status"] = "Status must be ongoing, completed or planned"
	}

	updates, contentErrors := projectContentUpdates(req.Content)
	for k, v := range contentErrors {
		fieldErrors[k] = v
	}

	params := store.UpdateProjectParams{
		ID:         id,
		Status:     req.Status,
		Published:  req.Published,
		Featured:   req.Featured,
		Position:   req.Position,
		CoverImage: req.CoverImage,
		Year:       req.Year,
		Location:   req.Location,
		Employer:   req.Employer,
		Area:       req.Area,
	}
	if req.StartDate != nil {
		t, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			fieldErrors["start_date"] = "Date must be YYYY-MM-DD"
		} else {
			params.StartDate = &t
		}
	}
	if req.EndDate != nil {
		t, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			fieldErrors["end_date"] = "Date must be YYYY-MM-DD"
		} else {
			params.EndDate = &t
		}
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	project, err := h.store.UpdateProjectFull(r.Context(), params, updates, req.CategoryIDs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Project not found")
		} else {
			h.writeInternalError(w, "Failed to update project", err)
		}
		return
	}

	slog.Info("project updated", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r), "project_id", project.ID, "slug", project.Slug)
	WriteSuccess(w, project, nil)
}

// DeleteProject removes a project and everything attached to it. Admin only.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	project, ok := requireEntityByID(h, w, r, "project", func(id int64) (model.Project, error) {
		return h.store.GetProjectByID(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.store.DeleteProject(r.Context(), project.ID); err != nil {
		h.writeInternalError(w, "Failed to delete project", err)
		return
	}

	slog.Info("project deleted", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r), "project_id", project.ID, "slug", project.Slug)
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// addGalleryImageRequest is the POST /api/projects/{id}/gallery body.
type addGalleryImageRequest struct {
	URL      string `json:"url"`
	Alt      string `json:"alt"`
	Position int64  `json:"position"`
}

// AddGalleryImage appends one image to a project gallery.
func (h *Handler) AddGalleryImage(w http.ResponseWriter, r *http.Request) {
	project, ok := requireEntityByID(h, w, r, "project", func(id int64) (model.Project, error) {
		return h.store.GetProjectByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req addGalleryImageRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if req.URL == "" {
		WriteValidationError(w, map[string]string{"url": "URL is required"})
		return
	}

	image, err := h.store.AddGalleryImage(r.Context(), project.ID, req.URL, req.Alt, req.Position)
	if err != nil {
		h.writeInternalError(w, "Failed to add gallery image", err)
		return
	}

	slog.Info("gallery image added", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r), "project_id", project.ID, "image_id", image.ID)
	WriteCreated(w, image)
}

// DeleteGalleryImage removes one gallery image.
func (h *Handler) DeleteGalleryImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "imageID")
	if err != nil {
		WriteBadRequest(w, "Invalid image ID", nil)
		return
	}

	image, err := h.store.GetGalleryImage(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Gallery image not found")
		} else {
			h.writeInternalError(w, "Failed to delete gallery image", err)
		}
		return
	}

	if err := h.store.DeleteGalleryImage(r.Context(), image.ID); err != nil {
		h.writeInternalError(w, "Failed to delete gallery image", err)
		return
	}

	slog.Info("gallery image deleted", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r), "project_id", image.ProjectID, "image_id", image.ID)
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// ReorderProjects applies new positions to projects.
func (h *Handler) ReorderProjects(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if len(req.Positions) == 0 {
		WriteBadRequest(w, "Positions are required", nil)
		return
	}

	if err := h.store.ReorderProjects(r.Context(), req.Positions); err != nil {
		if errors.Is(err, store.ErrForeignRow) {
			WriteBadRequest(w, "One or more projects do not exist", nil)
		} else {
			h.writeInternalError(w, "Failed to reorder projects", err)
		}
		return
	}

	slog.Info("projects reordered", "category", model.EventCategoryContent,
		"user_id", middleware.GetUserID(r))
	WriteSuccess(w, map[string]string{"status": "reordered"}, nil)
}

// projectContentUpdates converts the per-language request map into store
// updates, validating language codes and sanitizing rich text.
func projectContentUpdates(content map[string]localizedProjectContent) ([]store.ProjectContentUpdate, map[string]string) {
	var updates []store.ProjectContentUpdate
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

		u := store.ProjectContentUpdate{Language: model.Language(code), Highlights: lc.Highlights}
		if lc.Title != nil || lc.Summary != nil || lc.Description != nil {
			u.Content = &store.UpsertProjectContentParams{
				Title:       lc.Title,
				Summary:     lc.Summary,
				Description: lc.Description,
			}
		}
		if u.Content != nil || u.Highlights != nil {
			updates = append(updates, u)
		}
	}
	return updates, fieldErrors
}

// projectSlug derives the slug from the default-language title, falling back
// to any provided title.
func projectSlug(content map[string]localizedProjectContent) string {
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

// parseNullDate parses an optional YYYY-MM-DD date.
func parseNullDate(s *string) (sql.NullTime, error) {
	if s == nil || *s == "" {
		return sql.NullTime{}, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return sql.NullTime{}, err
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}
