// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Reference is a client or partner shown on the references page.
// Stored in the client_references table ("references" is an SQL keyword).
type Reference struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Logo      string    `json:"logo"`
	Website   string    `json:"website"`
	Position  int64     `json:"position"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReferenceContent is the localized name/description of a reference.
type ReferenceContent struct {
	ID          int64    `json:"id"`
	ReferenceID int64    `json:"reference_id"`
	Language    Language `json:"language"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}

// ReferenceView is a reference with its content for one language.
type ReferenceView struct {
	Reference
	Content *ReferenceContent `json:"content,omitempty"`
}
