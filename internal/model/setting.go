// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Setting is one key/value pair of site configuration.
type Setting struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicSettingKeys is the allow-list of settings exposed without auth.
var PublicSettingKeys = []string{
	"site_name",
	"site_tagline",
	"logo",
	"social_media",
	"default_language",
}

// IsPublicSettingKey reports whether key may be served to anonymous clients.
func IsPublicSettingKey(key string) bool {
	for _, k := range PublicSettingKeys {
		if k == key {
			return true
		}
	}
	return false
}
