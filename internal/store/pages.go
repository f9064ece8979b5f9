// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/causewaygrp/finance-cms/internal/model"
)

const pageColumns = `id, slug, title_en, title_ar, status, template, show_in_nav, sort_order,
content_en, content_ar, blocks_en, blocks_ar,
meta_title_en, meta_desc_en, meta_title_ar, meta_desc_ar,
published_at, created_at, updated_at`

func scanPage(row rowScanner) (model.Page, error) {
	var p model.Page
	err := row.Scan(&p.ID, &p.Slug, &p.TitleEn, &p.TitleAr, &p.Status, &p.Template,
		&p.ShowInNav, &p.SortOrder, &p.ContentEn, &p.ContentAr, &p.BlocksEn, &p.BlocksAr,
		&p.MetaTitleEn, &p.MetaDescEn, &p.MetaTitleAr, &p.MetaDescAr,
		&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const createPage = `
INSERT INTO pages (slug, title_en, title_ar, status, template, show_in_nav, sort_order,
	content_en, content_ar, blocks_en, blocks_ar,
	meta_title_en, meta_desc_en, meta_title_ar, meta_desc_ar,
	published_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + pageColumns

// CreatePageParams holds the fields for CreatePage.
type CreatePageParams struct {
	Slug        string
	TitleEn     string
	TitleAr     string
	Status      string
	Template    string
	ShowInNav   bool
	SortOrder   int64
	ContentEn   string
	ContentAr   string
	BlocksEn    model.BlockList
	BlocksAr    model.BlockList
	MetaTitleEn string
	MetaDescEn  string
	MetaTitleAr string
	MetaDescAr  string
	PublishedAt sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreatePage inserts a new site page.
func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (model.Page, error) {
	row := q.db.QueryRowContext(ctx, createPage,
		arg.Slug, arg.TitleEn, arg.TitleAr, arg.Status, arg.Template, arg.ShowInNav, arg.SortOrder,
		arg.ContentEn, arg.ContentAr, arg.BlocksEn, arg.BlocksAr,
		arg.MetaTitleEn, arg.MetaDescEn, arg.MetaTitleAr, arg.MetaDescAr,
		arg.PublishedAt, arg.CreatedAt, arg.UpdatedAt)
	return scanPage(row)
}

const getPageByID = `SELECT ` + pageColumns + ` FROM pages WHERE id = ?`

// GetPageByID fetches a page by primary key.
func (q *Queries) GetPageByID(ctx context.Context, id int64) (model.Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getPageByID, id))
}

const getPageBySlug = `SELECT ` + pageColumns + ` FROM pages WHERE slug = ?`

// GetPageBySlug fetches a page by its unique slug.
func (q *Queries) GetPageBySlug(ctx context.Context, slug string) (model.Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getPageBySlug, slug))
}

const countPagesBySlug = `SELECT COUNT(*) FROM pages WHERE slug = ?`

// CountPagesBySlug reports how many pages carry the given slug.
func (q *Queries) CountPagesBySlug(ctx context.Context, slug string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countPagesBySlug, slug).Scan(&n)
	return n, err
}

const updatePage = `
UPDATE pages SET
	title_en = ?, title_ar = ?, status = ?, template = ?, show_in_nav = ?, sort_order = ?,
	content_en = ?, content_ar = ?, blocks_en = ?, blocks_ar = ?,
	meta_title_en = ?, meta_desc_en = ?, meta_title_ar = ?, meta_desc_ar = ?,
	published_at = ?, updated_at = ?
WHERE id = ?
RETURNING ` + pageColumns

// UpdatePageParams holds the full post-merge row for UpdatePage.
type UpdatePageParams struct {
	ID          int64
	TitleEn     string
	TitleAr     string
	Status      string
	Template    string
	ShowInNav   bool
	SortOrder   int64
	ContentEn   string
	ContentAr   string
	BlocksEn    model.BlockList
	BlocksAr    model.BlockList
	MetaTitleEn string
	MetaDescEn  string
	MetaTitleAr string
	MetaDescAr  string
	PublishedAt sql.NullTime
	UpdatedAt   time.Time
}

// UpdatePage persists the full row and returns the updated page.
func (q *Queries) UpdatePage(ctx context.Context, arg UpdatePageParams) (model.Page, error) {
	row := q.db.QueryRowContext(ctx, updatePage,
		arg.TitleEn, arg.TitleAr, arg.Status, arg.Template, arg.ShowInNav, arg.SortOrder,
		arg.ContentEn, arg.ContentAr, arg.BlocksEn, arg.BlocksAr,
		arg.MetaTitleEn, arg.MetaDescEn, arg.MetaTitleAr, arg.MetaDescAr,
		arg.PublishedAt, arg.UpdatedAt, arg.ID)
	return scanPage(row)
}

const deletePage = `DELETE FROM pages WHERE id = ?`

// DeletePage removes a page by primary key.
func (q *Queries) DeletePage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deletePage, id)
	return err
}

const listPages = `SELECT ` + pageColumns + ` FROM pages ORDER BY sort_order ASC, title_en COLLATE NOCASE ASC`

const listPublishedPages = `SELECT ` + pageColumns + ` FROM pages WHERE status = 'PUBLISHED'
ORDER BY sort_order ASC, title_en COLLATE NOCASE ASC`

// ListPages returns pages in navigation order. With publishedOnly set,
// draft and archived pages are excluded.
func (q *Queries) ListPages(ctx context.Context, publishedOnly bool) ([]model.Page, error) {
	query := listPages
	if publishedOnly {
		query = listPublishedPages
	}
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

const countPages = `SELECT COUNT(*) FROM pages`

// CountPages returns the total number of pages.
func (q *Queries) CountPages(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countPages).Scan(&n)
	return n, err
}

const countPagesByStatus = `SELECT COUNT(*) FROM pages WHERE status = ?`

// CountPagesByStatus returns the number of pages with the given status.
func (q *Queries) CountPagesByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countPagesByStatus, status).Scan(&n)
	return n, err
}

const countPublishedPagesMissingArabic = `
SELECT COUNT(*) FROM pages WHERE status = 'PUBLISHED' AND title_ar = ''`

// CountPublishedPagesMissingArabic counts live pages lacking an Arabic title.
func (q *Queries) CountPublishedPagesMissingArabic(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countPublishedPagesMissingArabic).Scan(&n)
	return n, err
}

const searchPublishedPages = `
SELECT ` + pageColumns + `
FROM pages
WHERE status = 'PUBLISHED' AND (
	lower(title_en) LIKE '%'||lower(?1)||'%'
	OR lower(title_ar) LIKE '%'||lower(?1)||'%'
	OR lower(content_en) LIKE '%'||lower(?1)||'%'
	OR lower(content_ar) LIKE '%'||lower(?1)||'%'
)
ORDER BY sort_order ASC, title_en COLLATE NOCASE ASC
LIMIT ?2
`

// SearchPublishedPages performs the cross-entity text search over
// published pages.
func (q *Queries) SearchPublishedPages(ctx context.Context, query string, limit int64) ([]model.Page, error) {
	rows, err := q.db.QueryContext(ctx, searchPublishedPages, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}
