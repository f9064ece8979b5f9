// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
	"time"
)

func TestSitemapBuilder(t *testing.T) {
	b := NewSitemapBuilder("https://finance.causewaygrp.com")
	b.AddHomepage()
	b.AddPage(SitemapEntry{Path: "about", UpdatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)})
	b.AddResource(SitemapEntry{Path: "resources/annual-report"})

	out, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	xml := string(out)

	if !strings.HasPrefix(xml, "<?xml") {
		t.Error("missing XML header")
	}
	for _, want := range []string{
		"https://finance.causewaygrp.com/en",
		"https://finance.causewaygrp.com/ar",
		"https://finance.causewaygrp.com/en/about",
		"https://finance.causewaygrp.com/ar/about",
		"https://finance.causewaygrp.com/en/resources/annual-report",
		`hreflang="ar"`,
		`hreflang="en"`,
		"2026-03-01T12:00:00Z",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}

	// Each localized URL appears as its own entry.
	if got := strings.Count(xml, "<loc>"); got != 6 {
		t.Errorf("loc count = %d, want 6", got)
	}
}

func TestSitemapEmptyLastMod(t *testing.T) {
	b := NewSitemapBuilder("https://example.com")
	b.AddPage(SitemapEntry{Path: "contact"})

	out, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Contains(string(out), "<lastmod>") {
		t.Error("zero UpdatedAt should omit lastmod")
	}
}
