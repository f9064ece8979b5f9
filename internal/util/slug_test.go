// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Annual Market Review", "annual-market-review"},
		{"punctuation", "Q3 Report: Final!", "q3-report-final"},
		{"accents", "Café Économie", "cafe-economie"},
		{"collapses hyphens", "a -- b", "a-b"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestSlugifyArabicTransliterates(t *testing.T) {
	// Arabic titles must still yield a usable ASCII slug.
	got := Slugify("تقرير السوق")
	assert.NotEmpty(t, got)
	assert.True(t, IsValidSlug(got))
}

func TestWithSlugSuffix(t *testing.T) {
	now := time.Now().UTC()
	got := WithSlugSuffix("annual-report", now)

	assert.True(t, strings.HasPrefix(got, "annual-report-"))
	assert.True(t, IsValidSlug(got))

	// Tokens from different timestamps differ.
	other := WithSlugSuffix("annual-report", now.Add(time.Second))
	assert.NotEqual(t, got, other)
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("market-reports"))
	assert.True(t, IsValidSlug("q3-2026"))
	assert.False(t, IsValidSlug(""))
	assert.False(t, IsValidSlug("-leading"))
	assert.False(t, IsValidSlug("trailing-"))
	assert.False(t, IsValidSlug("double--hyphen"))
	assert.False(t, IsValidSlug("UPPER"))
	assert.False(t, IsValidSlug("../escape"))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.00 KB", FormatBytes(1024))
	assert.Equal(t, "15.00 MB", FormatBytes(15*1024*1024))
	assert.Equal(t, "2.00 GB", FormatBytes(2*1024*1024*1024))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdefgh", 3))
	assert.Equal(t, "عرب...", Truncate("عربية طويلة", 3))
}
