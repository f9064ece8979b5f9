// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds the bilingual XML sitemap for the public site.
package seo

import (
	"encoding/xml"
	"time"

	"github.com/causewaygrp/finance-cms/internal/i18n"
)

// Sitemap XML namespaces.
const (
	XMLNamespace      = "http://www.sitemaps.org/schemas/sitemap/0.9"
	XHTMLNamespace    = "http://www.w3.org/1999/xhtml"
	lastModTimeFormat = time.RFC3339
)

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// AlternateLink is an xhtml:link hreflang alternate for one locale.
type AlternateLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// SitemapURL represents a single URL entry with locale alternates.
type SitemapURL struct {
	Loc        string          `xml:"loc"`
	Alternates []AlternateLink `xml:"xhtml:link"`
	LastMod    string          `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq      `xml:"changefreq,omitempty"`
	Priority   string          `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName    xml.Name     `xml:"urlset"`
	XMLNS      string       `xml:"xmlns,attr"`
	XMLNSXHTML string       `xml:"xmlns:xhtml,attr"`
	URLs       []SitemapURL `xml:"url"`
}

// SitemapEntry contains data needed to add a localized path to the sitemap.
type SitemapEntry struct {
	// Path is the locale-independent part, e.g. "resources/annual-report".
	Path      string
	UpdatedAt time.Time
}

// SitemapBuilder assembles the sitemap. Every URL is emitted once per
// locale with hreflang alternates pointing at its counterparts.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a builder rooted at siteURL (no trailing slash).
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{siteURL: siteURL}
}

// AddHomepage adds the localized homepage entries.
func (b *SitemapBuilder) AddHomepage() {
	b.add(SitemapEntry{}, ChangeFreqDaily, "1.0")
}

// AddPage adds a site page in both locales.
func (b *SitemapBuilder) AddPage(e SitemapEntry) {
	b.add(e, ChangeFreqWeekly, "0.8")
}

// AddResource adds a published resource in both locales.
func (b *SitemapBuilder) AddResource(e SitemapEntry) {
	b.add(e, ChangeFreqMonthly, "0.6")
}

func (b *SitemapBuilder) localeURL(locale i18n.Locale, path string) string {
	u := b.siteURL + "/" + string(locale)
	if path != "" {
		u += "/" + path
	}
	return u
}

func (b *SitemapBuilder) add(e SitemapEntry, freq ChangeFreq, priority string) {
	alternates := []AlternateLink{
		{Rel: "alternate", Hreflang: string(i18n.LocaleEn), Href: b.localeURL(i18n.LocaleEn, e.Path)},
		{Rel: "alternate", Hreflang: string(i18n.LocaleAr), Href: b.localeURL(i18n.LocaleAr, e.Path)},
	}

	lastMod := ""
	if !e.UpdatedAt.IsZero() {
		lastMod = e.UpdatedAt.Format(lastModTimeFormat)
	}

	for _, locale := range []i18n.Locale{i18n.LocaleEn, i18n.LocaleAr} {
		b.urls = append(b.urls, SitemapURL{
			Loc:        b.localeURL(locale, e.Path),
			Alternates: alternates,
			LastMod:    lastMod,
			ChangeFreq: freq,
			Priority:   priority,
		})
	}
}

// Build returns the sitemap XML document with header.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sm := Sitemap{
		XMLNS:      XMLNamespace,
		XMLNSXHTML: XHTMLNamespace,
		URLs:       b.urls,
	}

	out, err := xml.MarshalIndent(sm, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
