// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// ContactInfo is the localized contact block, one row per language.
type ContactInfo struct {
	ID           int64    `json:"id"`
	Language     Language `json:"language"`
	Address      string   `json:"address"`
	Phone        string   `json:"phone"`
	Fax          string   `json:"fax"`
	Email        string   `json:"email"`
	WorkingHours string   `json:"working_hours"`
	MapEmbed     string   `json:"map_embed"`
}

// ContactSubmission is a message sent through the public contact form.
type ContactSubmission struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Country   string    `json:"country,omitempty"` // ISO code from GeoIP, best effort
	Read      bool      `json:"read"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
}
