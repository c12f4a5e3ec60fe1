// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Page is a fixed site page (home, about, contact, ...) identified by slug.
type Page struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Template  string    `json:"template"`
	Position  int64     `json:"position"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PageSection is an ordered building block of a page (hero, stats, cta, ...).
type PageSection struct {
	ID        int64     `json:"id"`
	PageID    int64     `json:"page_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Position  int64     `json:"position"`
	Visible   bool      `json:"visible"`
	Settings  string    `json:"settings"` // JSON blob, opaque to the server
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SectionContent is the localized payload of a section.
type SectionContent struct {
	ID        int64    `json:"id"`
	SectionID int64    `json:"section_id"`
	Language  Language `json:"language"`
	Title     string   `json:"title"`
	Subtitle  string   `json:"subtitle"`
	Content   string   `json:"content"`
	MediaURLs string   `json:"media_urls"` // JSON array of URLs
	Data      string   `json:"data"`       // JSON blob for structured extras
}

// PageContent holds the localized title/description of a page.
type PageContent struct {
	ID          int64    `json:"id"`
	PageID      int64    `json:"page_id"`
	Language    Language `json:"language"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

// PageSEO holds the localized SEO metadata of a page.
type PageSEO struct {
	ID              int64    `json:"id"`
	PageID          int64    `json:"page_id"`
	Language        Language `json:"language"`
	MetaTitle       string   `json:"meta_title"`
	MetaDescription string   `json:"meta_description"`
	Keywords        string   `json:"keywords"`
	OGImage         string   `json:"og_image"`
}

// SectionView is a section joined with its content for one language.
type SectionView struct {
	PageSection
	Content *SectionContent `json:"content,omitempty"`
}

// PageView is the full public projection of a page for one language.
type PageView struct {
	Page
	Content  *PageContent  `json:"content,omitempty"`
	SEO      *PageSEO      `json:"seo,omitempty"`
	Sections []SectionView `json:"sections"`
}
