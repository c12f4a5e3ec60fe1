// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service contains application services that sit between the
// HTTP handlers and the store.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/olegiv/yapicms/internal/imaging"
	"github.com/olegiv/yapicms/internal/model"
	"github.com/olegiv/yapicms/internal/store"
)

// Upload validation errors, mapped to 400 by the handlers.
var (
	ErrFileTooLarge    = errors.New("file size exceeds the maximum allowed")
	ErrUnsupportedType = errors.New("file type is not allowed")
)

// UploadsURLPrefix is the public URL prefix for stored files.
const UploadsURLPrefix = "/uploads/"

// MediaService handles media uploads, thumbnail generation, and file
// cleanup on delete.
type MediaService struct {
	queries   *store.Queries
	processor *imaging.Processor
	maxSize   int64
}

// NewMediaService creates a new media service. maxSize is the upload
// size limit in bytes.
func NewMediaService(db *sql.DB, uploadDir string, maxSize int64) *MediaService {
	return &MediaService{
		queries:   store.New(db),
		processor: imaging.NewProcessor(uploadDir),
		maxSize:   maxSize,
	}
}

// MaxSize returns the upload size limit in bytes.
func (s *MediaService) MaxSize() int64 {
	return s.maxSize
}

// Upload validates, stores, and records one uploaded file. Images are
// re-encoded and get a 400x400 thumbnail; videos are stored as-is.
// Both the file extension and the declared MIME type must be on the
// allow-list.
func (s *MediaService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (model.Media, error) {
	if header.Size > s.maxSize {
		return model.Media{}, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	mimeType := header.Header.Get("Content-Type")
	kind := model.MediaTypeForUpload(ext, mimeType)
	if kind == "" {
		return model.Media{}, ErrUnsupportedType
	}

	storedName := uuid.New().String() + ext
	originalName := filepath.Base(header.Filename)

	params := store.CreateMediaParams{
		Filename:     storedName,
		OriginalName: originalName,
		Type:         kind,
		Path:         UploadsURLPrefix + storedName,
	}

	var savedFiles []string
	if kind == model.MediaImage {
		result, err := s.processor.ProcessImage(file, storedName)
		if err != nil {
			return model.Media{}, fmt.Errorf("failed to process image: %w", err)
		}
		savedFiles = append(savedFiles, storedName)

		thumbName := imaging.ThumbnailPrefix + storedName
		if _, err := s.processor.CreateThumbnail(result.FilePath, storedName); err != nil {
			_ = s.processor.DeleteFiles(savedFiles...)
			return model.Media{}, fmt.Errorf("failed to create thumbnail: %w", err)
		}
		savedFiles = append(savedFiles, thumbName)

		params.MimeType = result.MimeType
		params.Size = result.Size
		params.ThumbnailPath = UploadsURLPrefix + thumbName
	} else {
		data, err := io.ReadAll(io.LimitReader(file, s.maxSize+1))
		if err != nil {
			return model.Media{}, fmt.Errorf("failed to read upload: %w", err)
		}
		if int64(len(data)) > s.maxSize {
			return model.Media{}, ErrFileTooLarge
		}

		if _, err := s.processor.SaveFile(storedName, data); err != nil {
			return model.Media{}, fmt.Errorf("failed to save file: %w", err)
		}
		savedFiles = append(savedFiles, storedName)

		params.MimeType = mimeType
		params.Size = int64(len(data))
	}

	media, err := s.queries.CreateMedia(ctx, params)
	if err != nil {
		_ = s.processor.DeleteFiles(savedFiles...)
		return model.Media{}, fmt.Errorf("failed to create media record: %w", err)
	}
	return media, nil
}

// Delete removes a media row and its files. Missing files on disk are
// tolerated so a half-cleaned item can still be deleted.
func (s *MediaService) Delete(ctx context.Context, id int64) error {
	media, err := s.queries.GetMediaByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.queries.DeleteMedia(ctx, id); err != nil {
		return fmt.Errorf("failed to delete media record: %w", err)
	}

	files := []string{media.Filename}
	if media.ThumbnailPath != "" {
		files = append(files, imaging.ThumbnailPrefix+media.Filename)
	}
	if err := s.processor.DeleteFiles(files...); err != nil {
		// Row is already gone, leave the orphan file and log it.
		slog.Warn("failed to delete media files", "media_id", id, "error", err)
	}
	return nil
}
