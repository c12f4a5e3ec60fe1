// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including Page, Project, Service, Media, User and the
// language registry for localized content.
package model

// Language is an ISO 639-1 content language code.
type Language string

// Supported content languages. Turkish is the site default.
const (
	LangTurkish Language = "tr"
	LangEnglish Language = "en"
	LangArabic  Language = "ar"
)

// DefaultLanguage is used when a request does not specify one.
const DefaultLanguage = LangTurkish

// SupportedLanguages lists all content languages in display order.
var SupportedLanguages = []Language{LangTurkish, LangEnglish, LangArabic}

// IsValidLanguage reports whether code is a supported content language.
func IsValidLanguage(code string) bool {
	switch Language(code) {
	case LangTurkish, LangEnglish, LangArabic:
		return true
	}
	return false
}

// NormalizeLanguage returns code as a Language, falling back to the
// default for empty or unsupported values.
func NormalizeLanguage(code string) Language {
	if IsValidLanguage(code) {
		return Language(code)
	}
	return DefaultLanguage
}

// IsRTL reports whether the language is written right-to-left.
func (l Language) IsRTL() bool {
	return l == LangArabic
}
