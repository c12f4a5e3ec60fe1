// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/olegiv/yapicms/internal/model"
)

// testPNG returns an encoded solid-color PNG.
func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

// multipartUpload builds a multipart body with one or more files under the
// given field name.
func multipartUpload(t *testing.T, field string, files map[string][]byte, contentType string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, data := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, field, name))
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("creating part: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("writing part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func uploadTestImage(t *testing.T, env *testEnv, token, filename string) model.Media {
	t.Helper()

	body, contentType := multipartUpload(t, "file",
		map[string][]byte{filename: testPNG(t, 32, 32)}, "image/png")
	req := httptest.NewRequest(http.MethodPost, "/api/media/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assertStatusCode(t, w, http.StatusCreated)

	var media model.Media
	decodeData(t, w, &media)
	return media
}

func TestUploadMedia(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.editor(t)

	media := uploadTestImage(t, env, token, "santiye.png")
	if media.Type != model.MediaImage {
		t.Errorf("unexpected type %q", media.Type)
	}
	if media.OriginalName != "santiye.png" {
		t.Errorf("unexpected original name %q", media.OriginalName)
	}
	if !strings.HasPrefix(media.Path, "/uploads/") {
		t.Errorf("unexpected path %q", media.Path)
	}
	if media.ThumbnailPath == "" {
		t.Error("expected a thumbnail for an image upload")
	}
	if media.Size == 0 {
		t.Error("expected a recorded size")
	}
}

func TestUploadMediaRejectsUnsupportedType(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.editor(t)

	body, contentType := multipartUpload(t, "file",
		map[string][]byte{"script.sh": []byte("#!/bin/sh\n")}, "text/x-shellscript")
	req := httptest.NewRequest(http.MethodPost, "/api/media/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assertStatusCode(t, w, http.StatusBadRequest)
	assertErrorResponse(t, w, "unsupported_type")
}

func TestUploadMediaMissingFile(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.editor(t)

	body, contentType := multipartUpload(t, "wrong_field",
		map[string][]byte{"a.png": testPNG(t, 8, 8)}, "image/png")
	req := httptest.NewRequest(http.MethodPost, "/api/media/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assertStatusCode(t, w, http.StatusBadRequest)
}

func TestUploadMediaMultiple(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.editor(t)

	body, contentType := multipartUpload(t, "files", map[string][]byte{
		"bir.png":  testPNG(t, 16, 16),
		"iki.png":  testPNG(t, 16, 16),
		"kotu.exe": []byte("MZ"),
	}, "image/png")
	req := httptest.NewRequest(http.MethodPost, "/api/media/upload-multiple", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assertStatusCode(t, w, http.StatusOK)

	var results []uploadResult
	decodeData(t, w, &results)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	var succeeded, failed int
	for _, result := range results {
		if result.Media != nil {
			succeeded++
		}
		if result.Error != "" {
			failed++
		}
	}
	if succeeded != 2 || failed != 1 {
		t.Errorf("expected 2 successes and 1 failure, got %d/%d: %+v", succeeded, failed, results)
	}
}

func TestListMedia(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.editor(t)
	uploadTestImage(t, env, token, "a.png")
	uploadTestImage(t, env, token, "b.png")

	w := env.request(t, http.MethodGet, "/api/media", token, nil)
	assertStatusCode(t, w, http.StatusOK)

	var items []model.Media
	decodeData(t, w, &items)
	if len(items) != 2 {
		t.Errorf("expected 2 media rows, got %d", len(items))
	}
	if meta := decodeMeta(t, w); meta == nil || meta.Total != 2 {
		t.Errorf("unexpected meta: %+v", meta)
	}

	w = env.request(t, http.MethodGet, "/api/media?type=video", token, nil)
	decodeData(t, w, &items)
	if len(items) != 0 {
		t.Errorf("expected no videos, got %d", len(items))
	}

	w = env.request(t, http.MethodGet, "/api/media?type=document", token, nil)
	assertStatusCode(t, w, http.StatusBadRequest)
}

func TestUpdateMediaAlt(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.editor(t)
	media := uploadTestImage(t, env, token, "vinç.png")

	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/media/%d", media.ID), token,
		updateMediaRequest{Alt: "Kule vinci"})
	assertStatusCode(t, w, http.StatusOK)

	var updated model.Media
	decodeData(t, w, &updated)
	if updated.Alt != "Kule vinci" {
		t.Errorf("unexpected alt %q", updated.Alt)
	}

	w = env.request(t, http.MethodPut, "/api/media/999", token, updateMediaRequest{Alt: "x"})
	assertStatusCode(t, w, http.StatusNotFound)
}

func TestDeleteMedia(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.editor(t)
	media := uploadTestImage(t, env, token, "silinecek.png")
	target := fmt.Sprintf("/api/media/%d", media.ID)

	w := env.request(t, http.MethodDelete, target, token, nil)
	assertStatusCode(t, w, http.StatusOK)

	w = env.request(t, http.MethodDelete, target, token, nil)
	assertStatusCode(t, w, http.StatusNotFound)
}
