// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"turkish title", "Modern Rezidans Projesi", "modern-rezidans-projesi"},
		{"turkish letters", "Özkan İnşaat", "ozkan-insaat"},
		{"dotless i", "Yapı Sanayi", "yapi-sanayi"},
		{"soft g and c cedilla", "Ağaçlı Köprü", "agacli-kopru"},
		{"accents", "Café au Lait", "cafe-au-lait"},
		{"punctuation stripped", "Hello, World!", "hello-world"},
		{"multiple spaces", "a   b", "a-b"},
		{"leading trailing", " -hello- ", "hello"},
		{"numbers kept", "Blok 3A", "blok-3a"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	in := "Kentsel Dönüşüm Projesi"
	first := Slugify(in)
	for i := 0; i < 5; i++ {
		if got := Slugify(in); got != first {
			t.Fatalf("Slugify not deterministic: %q != %q", got, first)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"hello-world", true},
		{"blok-3a", true},
		{"", false},
		{"-leading", false},
		{"trailing-", false},
		{"double--hyphen", false},
		{"UpperCase", false},
		{"has space", false},
	}

	for _, tt := range tests {
		if got := IsValidSlug(tt.slug); got != tt.want {
			t.Errorf("IsValidSlug(%q) = %v, want %v", tt.slug, got, tt.want)
		}
	}
}
