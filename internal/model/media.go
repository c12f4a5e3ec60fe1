// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// Media kinds.
const (
	MediaImage = "image"
	MediaVideo = "video"
)

// Media is an uploaded file in the library.
type Media struct {
	ID            int64     `json:"id"`
	Filename      string    `json:"filename"`
	OriginalName  string    `json:"original_name"`
	MimeType      string    `json:"mime_type"`
	Size          int64     `json:"size"`
	Path          string    `json:"path"`
	ThumbnailPath string    `json:"thumbnail_path,omitempty"`
	Alt           string    `json:"alt"`
	Type          string    `json:"type"`
	CreatedAt     time.Time `json:"created_at"`
}

// AllowedUploadTypes maps permitted file extensions (without dot) to the
// media kind they produce. Both the extension and the declared MIME type
// must pass before a file is accepted.
var AllowedUploadTypes = map[string]string{
	"jpeg": MediaImage,
	"jpg":  MediaImage,
	"png":  MediaImage,
	"gif":  MediaImage,
	"webp": MediaImage,
	"mp4":  MediaVideo,
	"mov":  MediaVideo,
	"avi":  MediaVideo,
}

// AllowedMimeTypes maps permitted MIME types to the media kind.
var AllowedMimeTypes = map[string]string{
	"image/jpeg":      MediaImage,
	"image/jpg":       MediaImage,
	"image/png":       MediaImage,
	"image/gif":       MediaImage,
	"image/webp":      MediaImage,
	"video/mp4":       MediaVideo,
	"video/quicktime": MediaVideo,
	"video/x-msvideo": MediaVideo,
	"video/avi":       MediaVideo,
}

// MediaTypeForUpload validates the extension/MIME pair of an upload and
// returns the media kind. Empty string means the file is not allowed.
func MediaTypeForUpload(ext, mimeType string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	byExt, ok := AllowedUploadTypes[ext]
	if !ok {
		return ""
	}
	byMime, ok := AllowedMimeTypes[strings.ToLower(mimeType)]
	if !ok || byMime != byExt {
		return ""
	}
	return byExt
}
