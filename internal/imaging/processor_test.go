// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestProcessImage(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	data := testPNG(t, 800, 600)
	result, err := p.ProcessImage(bytes.NewReader(data), "photo.png")
	if err != nil {
		t.Fatalf("ProcessImage: %v", err)
	}

	if result.Width != 800 || result.Height != 600 {
		t.Errorf("dimensions = %dx%d, want 800x600", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want image/png", result.MimeType)
	}
	if _, err := os.Stat(result.FilePath); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
	if filepath.Dir(result.FilePath) != mustAbs(t, dir) {
		t.Errorf("file saved outside upload dir: %s", result.FilePath)
	}
}

func TestProcessImageRejectsNonImage(t *testing.T) {
	p := NewProcessor(t.TempDir())
	if _, err := p.ProcessImage(bytes.NewReader([]byte("not an image at all")), "x.png"); err == nil {
		t.Error("expected error for non-image data")
	}
}

func TestCreateThumbnail(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	result, err := p.ProcessImage(bytes.NewReader(testPNG(t, 1200, 900)), "large.png")
	if err != nil {
		t.Fatal(err)
	}

	thumbPath, err := p.CreateThumbnail(result.FilePath, "large.png")
	if err != nil {
		t.Fatalf("CreateThumbnail: %v", err)
	}
	if filepath.Base(thumbPath) != "thumb-large.png" {
		t.Errorf("thumbnail name = %s", filepath.Base(thumbPath))
	}

	w, h, err := p.GetImageDimensions(thumbPath)
	if err != nil {
		t.Fatal(err)
	}
	if w > 400 || h > 400 {
		t.Errorf("thumbnail %dx%d exceeds 400x400", w, h)
	}
	// Aspect ratio preserved (1200x900 -> 400x300).
	if w != 400 || h != 300 {
		t.Errorf("thumbnail = %dx%d, want 400x300", w, h)
	}
}

func TestCreateThumbnailSmallImage(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	result, err := p.ProcessImage(bytes.NewReader(testPNG(t, 100, 80)), "small.png")
	if err != nil {
		t.Fatal(err)
	}

	thumbPath, err := p.CreateThumbnail(result.FilePath, "small.png")
	if err != nil {
		t.Fatalf("CreateThumbnail: %v", err)
	}
	w, h, err := p.GetImageDimensions(thumbPath)
	if err != nil {
		t.Fatal(err)
	}
	if w != 100 || h != 80 {
		t.Errorf("small image was resized to %dx%d", w, h)
	}
}

func TestSaveFileRejectsTraversal(t *testing.T) {
	p := NewProcessor(t.TempDir())

	for _, name := range []string{"", ".", ".."} {
		if _, err := p.SaveFile(name, []byte("x")); err == nil {
			t.Errorf("SaveFile(%q) should fail", name)
		}
	}

	// Path components are stripped, not followed.
	path, err := p.SaveFile("../../etc/passwd", []byte("x"))
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	if filepath.Base(path) != "passwd" {
		t.Errorf("unexpected filename %s", path)
	}
}

func TestDeleteFiles(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	if _, err := p.SaveFile("a.png", testPNG(t, 10, 10)); err != nil {
		t.Fatal(err)
	}

	// Missing files are tolerated.
	if err := p.DeleteFiles("a.png", "never-existed.png", ""); err != nil {
		t.Fatalf("DeleteFiles: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.png")); !os.IsNotExist(err) {
		t.Error("a.png should be gone")
	}
}

func mustAbs(t *testing.T, path string) string {
	t.Helper()
	abs, err := filepath.Abs(path)
	if err != nil {
		t.Fatal(err)
	}
	return abs
}
