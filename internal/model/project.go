// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Project statuses.
const (
	ProjectOngoing   = "ongoing"
	ProjectCompleted = "completed"
	ProjectPlanned   = "planned"
)

// IsValidProjectStatus reports whether status is a known project status.
func IsValidProjectStatus(status string) bool {
	switch status {
	case ProjectOngoing, ProjectCompleted, ProjectPlanned:
		return true
	}
	return false
}

// Project is a construction project in the portfolio.
type Project struct {
	ID         int64         `json:"id"`
	Slug       string        `json:"slug"`
	Status     string        `json:"status"`
	Published  bool          `json:"published"`
	Featured   bool          `json:"featured"`
	Position   int64         `json:"position"`
	CoverImage string        `json:"cover_image"`
	Year       sql.NullInt64 `json:"year,omitempty"`
	Location   string        `json:"location"`
	Employer   string        `json:"employer"`
	Area       string        `json:"area"`
	StartDate  sql.NullTime  `json:"start_date,omitempty"`
	EndDate    sql.NullTime  `json:"end_date,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// ProjectContent is the localized text of a project.
type ProjectContent struct {
	ID          int64    `json:"id"`
	ProjectID   int64    `json:"project_id"`
	Language    Language `json:"language"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
}

// GalleryImage is one ordered image in a project gallery.
type GalleryImage struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"project_id"`
	URL       string `json:"url"`
	Alt       string `json:"alt"`
	Position  int64  `json:"position"`
}

// ProjectHighlight is one localized bullet point for a project.
type ProjectHighlight struct {
	ID        int64    `json:"id"`
	ProjectID int64    `json:"project_id"`
	Language  Language `json:"language"`
	Text      string   `json:"text"`
	Position  int64    `json:"position"`
}

// ProjectView is the full projection of a project for one language.
type ProjectView struct {
	Project
	Content    *ProjectContent    `json:"content,omitempty"`
	Gallery    []GalleryImage     `json:"gallery,omitempty"`
	Highlights []ProjectHighlight `json:"highlights,omitempty"`
	Categories []CategoryView     `json:"categories,omitempty"`
}
