// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// DefaultServiceIcon is used when a service is created without an icon.
const DefaultServiceIcon = "🏗️"

// Service is a company service (general contracting, design-build, ...).
type Service struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Icon      string    `json:"icon"`
	Position  int64     `json:"position"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ServiceContent is the localized title/description of a service.
type ServiceContent struct {
	ID          int64    `json:"id"`
	ServiceID   int64    `json:"service_id"`
	Language    Language `json:"language"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

// ServiceFeature is one localized bullet point of a service.
type ServiceFeature struct {
	ID        int64    `json:"id"`
	ServiceID int64    `json:"service_id"`
	Language  Language `json:"language"`
	Text      string   `json:"text"`
	Position  int64    `json:"position"`
}

// ServiceView is a service with content and features for one language.
type ServiceView struct {
	Service
	Content  *ServiceContent  `json:"content,omitempty"`
	Features []ServiceFeature `json:"features,omitempty"`
}
