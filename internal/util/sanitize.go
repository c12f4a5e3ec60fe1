// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "github.com/microcosm-cc/bluemonday"

// htmlSanitizer strips dangerous markup from rich-text fields before storage.
// UGCPolicy allows safe formatting tags and drops scripts and event handlers.
var htmlSanitizer = bluemonday.UGCPolicy()

// SanitizeHTML returns s with unsafe HTML removed.
func SanitizeHTML(s string) string {
	return htmlSanitizer.Sanitize(s)
}
