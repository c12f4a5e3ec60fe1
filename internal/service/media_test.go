// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/olegiv/yapicms/internal/model"
	"github.com/olegiv/yapicms/internal/store"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.NewDBWithConfig(":memory:", store.DBConfig{
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x % 256), B: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// multipartFile builds a parsed multipart file the way the handlers
// receive it from FormFile.
func multipartFile(t *testing.T, filename, contentType string, data []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	_ = w.Close()

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	file, header, err := req.FormFile("file")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = file.Close() })
	return file, header
}

func TestUploadImage(t *testing.T) {
	db := newTestDB(t)
	dir := t.TempDir()
	svc := NewMediaService(db, dir, 10*1024*1024)
	ctx := context.Background()

	file, header := multipartFile(t, "santiye fotoğrafı.png", "image/png", pngBytes(t, 640, 480))
	media, err := svc.Upload(ctx, file, header)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if media.Type != model.MediaImage {
		t.Errorf("Type = %q, want image", media.Type)
	}
	if media.OriginalName != "santiye fotoğrafı.png" {
		t.Errorf("OriginalName = %q", media.OriginalName)
	}
	if !strings.HasSuffix(media.Filename, ".png") {
		t.Errorf("stored filename %q should keep the extension", media.Filename)
	}
	if media.Path != UploadsURLPrefix+media.Filename {
		t.Errorf("Path = %q", media.Path)
	}
	if media.ThumbnailPath != UploadsURLPrefix+"thumb-"+media.Filename {
		t.Errorf("ThumbnailPath = %q", media.ThumbnailPath)
	}

	// Both files exist on disk.
	for _, name := range []string{media.Filename, "thumb-" + media.Filename} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing file %s: %v", name, err)
		}
	}
}

func TestUploadVideo(t *testing.T) {
	db := newTestDB(t)
	dir := t.TempDir()
	svc := NewMediaService(db, dir, 10*1024*1024)

	data := []byte("fake mp4 payload")
	file, header := multipartFile(t, "tanitim.mp4", "video/mp4", data)
	media, err := svc.Upload(context.Background(), file, header)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if media.Type != model.MediaVideo {
		t.Errorf("Type = %q, want video", media.Type)
	}
	if media.ThumbnailPath != "" {
		t.Errorf("videos should not get a thumbnail, got %q", media.ThumbnailPath)
	}
	if media.Size != int64(len(data)) {
		t.Errorf("Size = %d, want %d", media.Size, len(data))
	}
	if _, err := os.Stat(filepath.Join(dir, media.Filename)); err != nil {
		t.Errorf("missing file: %v", err)
	}
}

func TestUploadRejectsType(t *testing.T) {
	db := newTestDB(t)
	svc := NewMediaService(db, t.TempDir(), 10*1024*1024)
	ctx := context.Background()

	tests := []struct {
		name        string
		filename    string
		contentType string
	}{
		{"bad extension", "script.exe", "image/png"},
		{"bad mime", "photo.png", "application/octet-stream"},
		{"mismatched pair", "photo.png", "video/mp4"},
		{"svg not allowed", "logo.svg", "image/svg+xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, header := multipartFile(t, tt.filename, tt.contentType, []byte("data"))
			if _, err := svc.Upload(ctx, file, header); !errors.Is(err, ErrUnsupportedType) {
				t.Errorf("err = %v, want ErrUnsupportedType", err)
			}
		})
	}
}

func TestUploadRejectsOversize(t *testing.T) {
	db := newTestDB(t)
	svc := NewMediaService(db, t.TempDir(), 100)

	file, header := multipartFile(t, "big.png", "image/png", pngBytes(t, 64, 64))
	if _, err := svc.Upload(context.Background(), file, header); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("err = %v, want ErrFileTooLarge", err)
	}
}

func TestDeleteRemovesFiles(t *testing.T) {
	db := newTestDB(t)
	dir := t.TempDir()
	svc := NewMediaService(db, dir, 10*1024*1024)
	ctx := context.Background()

	file, header := multipartFile(t, "photo.png", "image/png", pngBytes(t, 64, 64))
	media, err := svc.Upload(ctx, file, header)
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(ctx, media.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := store.New(db).GetMediaByID(ctx, media.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("row should be gone, got %v", err)
	}
	for _, name := range []string{media.Filename, "thumb-" + media.Filename} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("file %s should be gone", name)
		}
	}
}

func TestDeleteToleratesMissingFiles(t *testing.T) {
	db := newTestDB(t)
	dir := t.TempDir()
	svc := NewMediaService(db, dir, 10*1024*1024)
	ctx := context.Background()

	file, header := multipartFile(t, "photo.png", "image/png", pngBytes(t, 64, 64))
	media, err := svc.Upload(ctx, file, header)
	if err != nil {
		t.Fatal(err)
	}

	// Simulate files lost outside the application.
	_ = os.Remove(filepath.Join(dir, media.Filename))
	_ = os.Remove(filepath.Join(dir, "thumb-"+media.Filename))

	if err := svc.Delete(ctx, media.ID); err != nil {
		t.Fatalf("Delete with missing files: %v", err)
	}
}
