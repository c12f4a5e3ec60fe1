// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/yapicms/internal/middleware"
	"github.com/olegiv/yapicms/internal/model"
	"github.com/olegiv/yapicms/internal/store"
)

// GetContactInfo returns the localized contact block, served from cache when
// possible.
func (h *Handler) GetContactInfo(w http.ResponseWriter, r *http.Request) {
	lang := resolveLanguage(r)

	if payload, ok := h.cache.GetContactInfo(r.Context(), string(lang)); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
		return
	}

	info, err := h.store.GetContactInfo(r.Context(), lang)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Contact info not found")
		} else {
			h.writeInternalError(w, "Failed to retrieve contact info", err)
		}
		return
	}

	payload, err := json.Marshal(Response{Data: info})
	if err != nil {
		h.writeInternalError(w, "Failed to retrieve contact info", err)
		return
	}
	h.cache.SetContactInfo(r.Context(), string(lang), payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// updateContactInfoRequest is the PUT /api/contact/info/{lang} body. Nil
// fields keep their stored values.
type updateContactInfoRequest struct {
	Address      *string `json:"address"`
	Phone        *string `json:"phone"`
	Fax          *string `json:"fax"`
	Email        *string `json:"email"`
	WorkingHours *string `json:"working_hours"`
	MapEmbed     *string `json:"map_embed"`
}

// UpdateContactInfo writes the contact block for one language and drops the
// cached copy.
func (h *Handler) UpdateContactInfo(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "lang")
	if !model.IsValidLanguage(code) {
		WriteBadRequest(w, "Unsupported language", nil)
		return
	}
	lang := model.Language(code)

	var req updateContactInfoRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.store.UpsertContactInfo(r.Context(), store.UpsertContactInfoParams{
		Language:     lang,
		Address:      req.Address,
		Phone:        req.Phone,
		Fax:          req.Fax,
		Email:        req.Email,
		WorkingHours: req.WorkingHours,
		MapEmbed:     req.MapEmbed,
	}); err != nil {
		h.writeInternalError(w, "Failed to update contact info", err)
		return
	}
	h.cache.InvalidateContactInfo(r.Context(), string(lang))

	info, err := h.store.GetContactInfo(r.Context(), lang)
	if err != nil {
		h.writeInternalError(w, "Failed to update contact info", err)
		return
	}

	slog.Info("contact info updated", "category", model.EventCategoryContact,
		"user_id", middleware.GetUserID(r), "lang", lang)
	WriteSuccess(w, info, nil)
}

// submitContactRequest is the POST /api/contact/submit body.
type submitContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Field length caps for the public contact form.
const (
	maxContactFieldLen   = 255
	maxContactMessageLen = 5000
)

// SubmitContact stores a message from the public contact form. The sender's
// country is resolved from their IP, best effort.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req submitContactRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	fieldErrors := map[string]string{}
	if req.Name == "" {
		fieldErrors["name"] = "Name is required"
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		fieldErrors["email"] = "A valid email address is required"
	}
	if req.Message == "" {
		fieldErrors["message"] = "Message is required"
	}
	if len(req.Name) > maxContactFieldLen || len(req.Email) > maxContactFieldLen ||
		len(req.Phone) > maxContactFieldLen || len(req.Subject) > maxContactFieldLen {
		fieldErrors["fields"] = "Field too long"
	}
	if len(req.Message) > maxContactMessageLen {
		fieldErrors["message"] = "Message too long"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	country := h.geo.LookupCountry(middleware.ClientIP(r))

	submission, err := h.store.CreateSubmission(r.Context(), store.CreateSubmissionParams{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
		Country: country,
	})
	if err != nil {
		h.writeInternalError(w, "Failed to store submission", err)
		return
	}

	slog.Info("contact submission received", "category", model.EventCategoryContact,
		"submission_id", submission.ID, "country", country)
	WriteCreated(w, submission)
}

// ListSubmissions returns contact submissions, newest first, optionally
// filtered by archived state.
func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	params := store.ListSubmissionsParams{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	}
	if v := r.URL.Query().Get("archived"); v != "" {
		archived := v == "true" || v == "1"
		params.Archived = &archived
	}

	items, err := h.store.ListSubmissions(r.Context(), params)
	if err != nil {
		h.writeInternalError(w, "Failed to list submissions", err)
		return
	}
	total, err := h.store.CountSubmissions(r.Context(), params.Archived)
	if err != nil {
		h.writeInternalError(w, "Failed to list submissions", err)
		return
	}
	if items == nil {
		items = []model.ContactSubmission{}
	}
	WriteSuccess(w, items, paginationMeta(total, page, perPage))
}

// MarkSubmissionRead flags a submission as read.
func (h *Handler) MarkSubmissionRead(w http.ResponseWriter, r *http.Request) {
	submission, ok := requireEntityByID(h, w, r, "submission", func(id int64) (model.ContactSubmission, error) {
		return h.store.MarkSubmissionRead(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, submission, nil)
}

// ArchiveSubmission flags a submission as archived, putting it in line for
// retention cleanup.
func (h *Handler) ArchiveSubmission(w http.ResponseWriter, r *http.Request) {
	submission, ok := requireEntityByID(h, w, r, "submission", func(id int64) (model.ContactSubmission, error) {
		return h.store.ArchiveSubmission(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, submission, nil)
}

// DeleteSubmission removes a submission permanently. Admin only.
func (h *Handler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	submission, ok := requireEntityByID(h, w, r, "submission", func(id int64) (model.ContactSubmission, error) {
		return h.store.GetSubmission(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.store.DeleteSubmission(r.Context(), submission.ID); err != nil {
		h.writeInternalError(w, "Failed to delete submission", err)
		return
	}

	slog.Info("submission deleted", "category", model.EventCategoryContact,
		"user_id", middleware.GetUserID(r), "submission_id", submission.ID)
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
