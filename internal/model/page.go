// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"

	"github.com/causewaygrp/finance-cms/internal/i18n"
)

// Page is a CMS-managed page carrying either freeform rich text or
// structured per-locale block sequences. blocksEn and blocksAr are
// independent: a page may have blocks in one locale and none in the
// other.
type Page struct {
	ID          int64
	Slug        string
	TitleEn     string
	TitleAr     string
	Status      string
	Template    string
	ShowInNav   bool
	SortOrder   int64
	ContentEn   string
	ContentAr   string
	BlocksEn    BlockList
	BlocksAr    BlockList
	MetaTitleEn string
	MetaDescEn  string
	MetaTitleAr string
	MetaDescAr  string
	PublishedAt sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsPublished returns true if the page is published.
func (p *Page) IsPublished() bool {
	return p.Status == StatusPublished
}

// Title returns the bilingual title pair.
func (p *Page) Title() i18n.Localized {
	return i18n.Localized{En: p.TitleEn, Ar: p.TitleAr}
}

// Content returns the bilingual content pair.
func (p *Page) Content() i18n.Localized {
	return i18n.Localized{En: p.ContentEn, Ar: p.ContentAr}
}

// MetaTitle returns the bilingual meta-title pair.
func (p *Page) MetaTitle() i18n.Localized {
	return i18n.Localized{En: p.MetaTitleEn, Ar: p.MetaTitleAr}
}

// MetaDesc returns the bilingual meta-description pair.
func (p *Page) MetaDesc() i18n.Localized {
	return i18n.Localized{En: p.MetaDescEn, Ar: p.MetaDescAr}
}

// Blocks returns the block sequence for the given locale. The returned
// slice aliases the page's own sequence.
func (p *Page) Blocks(locale i18n.Locale) BlockList {
	if locale == i18n.LocaleAr {
		return p.BlocksAr
	}
	return p.BlocksEn
}

// SetBlocks replaces the block sequence for the given locale.
func (p *Page) SetBlocks(locale i18n.Locale, blocks BlockList) {
	if locale == i18n.LocaleAr {
		p.BlocksAr = blocks
		return
	}
	p.BlocksEn = blocks
}
