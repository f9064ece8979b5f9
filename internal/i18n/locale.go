// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n provides locale handling and bilingual field resolution
// for the English/Arabic content model.
package i18n

// Locale identifies one of the two supported content languages.
type Locale string

// Supported locales.
const (
	LocaleEn Locale = "en"
	LocaleAr Locale = "ar"
)

// DefaultLocale is used when a request carries no locale or an
// unrecognized one.
const DefaultLocale = LocaleEn

// ParseLocale maps a request string to a supported locale, falling back
// to the default for anything unrecognized.
func ParseLocale(s string) Locale {
	if s == string(LocaleAr) {
		return LocaleAr
	}
	return LocaleEn
}

// Other returns the opposite locale.
func (l Locale) Other() Locale {
	if l == LocaleAr {
		return LocaleEn
	}
	return LocaleAr
}

// IsRTL reports whether the locale is rendered right-to-left.
func (l Locale) IsRTL() bool {
	return l == LocaleAr
}

// Localized holds the English and Arabic values of a bilingual field.
// Either side may be empty; translators fill Arabic in later.
type Localized struct {
	En string
	Ar string
}

// Resolve returns the value for the requested locale, falling back to
// the other locale when the requested one is empty. Public pages must
// never render a blank title just because a translation is missing, so
// an empty string is returned only when both sides are empty.
func (f Localized) Resolve(locale Locale) string {
	var primary, fallback string
	if locale == LocaleAr {
		primary, fallback = f.Ar, f.En
	} else {
		primary, fallback = f.En, f.Ar
	}
	if primary != "" {
		return primary
	}
	return fallback
}

// Complete reports whether both languages are filled in. Used by the
// health reporter's bilingual-completeness metrics.
func (f Localized) Complete() bool {
	return f.En != "" && f.Ar != ""
}
