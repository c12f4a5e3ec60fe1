// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/olegiv/yapicms/internal/middleware"
	"github.com/olegiv/yapicms/internal/model"
	"github.com/olegiv/yapicms/internal/service"
	"github.com/olegiv/yapicms/internal/store"
)

// maxMultiUploadFiles caps the batch upload endpoint.
const maxMultiUploadFiles = 10

// writeUploadError maps media service failures onto HTTP statuses. Rejected
// uploads are client errors, so both cases answer 400 with a distinct code.
func (h *Handler) writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrFileTooLarge):
		WriteError(w, http.StatusBadRequest, "file_too_large", "File exceeds the upload size limit", nil)
	case errors.Is(err, service.ErrUnsupportedType):
		WriteError(w, http.StatusBadRequest, "unsupported_type", "File type is not allowed", nil)
	default:
		h.writeInternalError(w, "Failed to store upload", err)
	}
}

// UploadMedia stores one uploaded file, generating a thumbnail for images.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.media.MaxSize()+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteBadRequest(w, "Invalid multipart request", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "Missing file field", nil)
		return
	}
	defer file.Close()

	media, err := h.media.Upload(r.Context(), file, header)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	slog.Info("media uploaded", "category", model.EventCategoryMedia,
		"user_id", middleware.GetUserID(r), "media_id", media.ID, "type", media.Type)
	WriteCreated(w, media)
}

// uploadResult is one entry of the batch upload response.
type uploadResult struct {
	OriginalName string       `json:"original_name"`
	Media        *model.Media `json:"media,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// UploadMediaMultiple stores up to maxMultiUploadFiles uploads in one
// request. Files are processed independently; a failed file does not stop
// the rest.
func (h *Handler) UploadMediaMultiple(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxMultiUploadFiles)*h.media.MaxSize()+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteBadRequest(w, "Invalid multipart request", nil)
		return
	}

	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File["files"]
	}
	if len(headers) == 0 {
		WriteBadRequest(w, "Missing files field", nil)
		return
	}
	if len(headers) > maxMultiUploadFiles {
		WriteBadRequest(w, "Too many files in one request", nil)
		return
	}

	results := make([]uploadResult, 0, len(headers))
	for _, header := range headers {
		result := uploadResult{OriginalName: header.Filename}

		file, err := header.Open()
		if err != nil {
			result.Error = "failed to read file"
			results = append(results, result)
			continue
		}

		media, err := h.media.Upload(r.Context(), file, header)
		_ = file.Close()
		if err != nil {
			switch {
			case errors.Is(err, service.ErrFileTooLarge):
				result.Error = "file exceeds the upload size limit"
			case errors.Is(err, service.ErrUnsupportedType):
				result.Error = "file type is not allowed"
			default:
				slog.Error("media upload failed", "category", model.EventCategoryMedia,
					"error", err, "filename", header.Filename)
				result.Error = "failed to store upload"
			}
		} else {
			result.Media = &media
		}
		results = append(results, result)
	}

	slog.Info("media batch uploaded", "category", model.EventCategoryMedia,
		"user_id", middleware.GetUserID(r), "count", len(results))
	WriteSuccess(w, results, nil)
}

// ListMedia returns media rows, newest first, optionally filtered by type.
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	mediaType := r.URL.Query().Get("type")
	if mediaType != "" && mediaType != model.MediaImage && mediaType != model.MediaVideo {
		WriteBadRequest(w, "Unknown media type", nil)
		return
	}

	items, err := h.store.ListMedia(r.Context(), store.ListMediaParams{
		Type:   mediaType,
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		h.writeInternalError(w, "Failed to list media", err)
		return
	}
	total, err := h.store.CountMedia(r.Context(), mediaType)
	if err != nil {
		h.writeInternalError(w, "Failed to list media", err)
		return
	}
	if items == nil {
		items = []model.Media{}
	}
	WriteSuccess(w, items, paginationMeta(total, page, perPage))
}

// updateMediaRequest is the PUT /api/media/{id} body. Only alt text is
// mutable; the stored file never changes.
type updateMediaRequest struct {
	Alt string `json:"alt"`
}

// UpdateMedia sets the alt text of a media row.
func (h *Handler) UpdateMedia(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(h, w, r, "media", func(id int64) (model.Media, error) {
		return h.store.GetMediaByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req updateMediaRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	media, err := h.store.UpdateMediaAlt(r.Context(), existing.ID, req.Alt)
	if err != nil {
		h.writeInternalError(w, "Failed to update media", err)
		return
	}
	WriteSuccess(w, media, nil)
}

// DeleteMedia removes a media row and its files from disk.
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid media ID", nil)
		return
	}

	if err := h.media.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Media not found")
		} else {
			h.writeInternalError(w, "Failed to delete media", err)
		}
		return
	}

	slog.Info("media deleted", "category", model.EventCategoryMedia,
		"user_id", middleware.GetUserID(r), "media_id", id)
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
