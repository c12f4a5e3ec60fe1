// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Category groups projects (residential, industrial, infrastructure, ...).
type Category struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryName is the localized display name of a category.
type CategoryName struct {
	ID         int64    `json:"id"`
	CategoryID int64    `json:"category_id"`
	Language   Language `json:"language"`
	Name       string   `json:"name"`
}

// CategoryView is a category with its name for one language.
type CategoryView struct {
	Category
	Name         string `json:"name,omitempty"`
	ProjectCount int64  `json:"project_count,omitempty"`
}
