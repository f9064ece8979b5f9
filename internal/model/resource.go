// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the content entities of the CMS: bilingual
// resources, pages with per-locale block sequences, categories, the
// audit trail, and file uploads.
package model

import (
	"database/sql"
	"time"

	"github.com/causewaygrp/finance-cms/internal/i18n"
)

// Resource types.
const (
	ResourceTypeReport       = "REPORT"
	ResourceTypeWhitepaper   = "WHITEPAPER"
	ResourceTypeArticle      = "ARTICLE"
	ResourceTypePresentation = "PRESENTATION"
	ResourceTypeData         = "DATA"
	ResourceTypeGuide        = "GUIDE"
	ResourceTypeVideo        = "VIDEO"
	ResourceTypePodcast      = "PODCAST"
	ResourceTypeInfographic  = "INFOGRAPHIC"
	ResourceTypeOther        = "OTHER"
)

// ValidResourceType reports whether t is a known resource type.
func ValidResourceType(t string) bool {
	switch t {
	case ResourceTypeReport, ResourceTypeWhitepaper, ResourceTypeArticle,
		ResourceTypePresentation, ResourceTypeData, ResourceTypeGuide,
		ResourceTypeVideo, ResourceTypePodcast, ResourceTypeInfographic,
		ResourceTypeOther:
		return true
	}
	return false
}

// Resource is a downloadable or linkable content artifact (report,
// whitepaper, article and so on).
type Resource struct {
	ID            int64
	Slug          string
	TitleEn       string
	TitleAr       string
	DescriptionEn string
	DescriptionAr string
	ContentEn     string
	ContentAr     string
	Type          string
	Status        string
	Featured      bool
	Priority      int64
	Publisher     string
	PublishDate   sql.NullTime
	Year          sql.NullInt64
	ExternalURL   string
	Tags          StringList
	CategoryID    sql.NullInt64
	FileURL       string
	FileName      string
	FileSize      sql.NullInt64
	FileMimeType  string
	ThumbnailURL  string
	MetaTitleEn   string
	MetaDescEn    string
	MetaTitleAr   string
	MetaDescAr    string
	CreatedByID   sql.NullInt64
	UpdatedByID   sql.NullInt64
	PublishedAt   sql.NullTime
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsPublished returns true if the resource is published.
func (r *Resource) IsPublished() bool {
	return r.Status == StatusPublished
}

// Title returns the bilingual title pair.
func (r *Resource) Title() i18n.Localized {
	return i18n.Localized{En: r.TitleEn, Ar: r.TitleAr}
}

// Description returns the bilingual description pair.
func (r *Resource) Description() i18n.Localized {
	return i18n.Localized{En: r.DescriptionEn, Ar: r.DescriptionAr}
}

// Content returns the bilingual content pair.
func (r *Resource) Content() i18n.Localized {
	return i18n.Localized{En: r.ContentEn, Ar: r.ContentAr}
}

// MetaTitle returns the bilingual meta-title pair.
func (r *Resource) MetaTitle() i18n.Localized {
	return i18n.Localized{En: r.MetaTitleEn, Ar: r.MetaTitleAr}
}

// MetaDesc returns the bilingual meta-description pair.
func (r *Resource) MetaDesc() i18n.Localized {
	return i18n.Localized{En: r.MetaDescEn, Ar: r.MetaDescAr}
}
