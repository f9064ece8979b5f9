// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"

	"github.com/causewaygrp/finance-cms/internal/i18n"
)

// Category groups resources, optionally one level deep via ParentID.
// A category referenced by resources cannot be deleted until those
// resources are reassigned.
type Category struct {
	ID            int64
	Slug          string
	NameEn        string
	NameAr        string
	DescriptionEn string
	DescriptionAr string
	Icon          string
	Color         string
	Enabled       bool
	SortOrder     int64
	ParentID      sql.NullInt64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Name returns the bilingual name pair.
func (c *Category) Name() i18n.Localized {
	return i18n.Localized{En: c.NameEn, Ar: c.NameAr}
}

// Description returns the bilingual description pair.
func (c *Category) Description() i18n.Localized {
	return i18n.Localized{En: c.DescriptionEn, Ar: c.DescriptionAr}
}
