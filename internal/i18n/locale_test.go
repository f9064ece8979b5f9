// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLocale(t *testing.T) {
	assert.Equal(t, LocaleAr, ParseLocale("ar"))
	assert.Equal(t, LocaleEn, ParseLocale("en"))
	assert.Equal(t, LocaleEn, ParseLocale(""))
	assert.Equal(t, LocaleEn, ParseLocale("fr"))
	assert.Equal(t, LocaleEn, ParseLocale("AR"))
}

func TestLocalizedResolve(t *testing.T) {
	both := Localized{En: "Reports", Ar: "تقارير"}
	assert.Equal(t, "Reports", both.Resolve(LocaleEn))
	assert.Equal(t, "تقارير", both.Resolve(LocaleAr))

	// Missing translations fall back to the other language.
	enOnly := Localized{En: "Reports"}
	assert.Equal(t, "Reports", enOnly.Resolve(LocaleAr))

	arOnly := Localized{Ar: "تقارير"}
	assert.Equal(t, "تقارير", arOnly.Resolve(LocaleEn))

	assert.Empty(t, Localized{}.Resolve(LocaleAr))
}

func TestLocaleHelpers(t *testing.T) {
	assert.Equal(t, LocaleAr, LocaleEn.Other())
	assert.Equal(t, LocaleEn, LocaleAr.Other())
	assert.True(t, LocaleAr.IsRTL())
	assert.False(t, LocaleEn.IsRTL())

	assert.True(t, Localized{En: "a", Ar: "b"}.Complete())
	assert.False(t, Localized{En: "a"}.Complete())
}
