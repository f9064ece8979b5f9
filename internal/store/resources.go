// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/causewaygrp/finance-cms/internal/model"
)

const resourceColumns = `id, slug, title_en, title_ar, description_en, description_ar,
content_en, content_ar, type, status, featured, priority, publisher, publish_date, year,
external_url, tags, category_id, file_url, file_name, file_size, file_mime_type,
thumbnail_url, meta_title_en, meta_desc_en, meta_title_ar, meta_desc_ar,
created_by_id, updated_by_id, published_at, created_at, updated_at`

func scanResource(row rowScanner) (model.Resource, error) {
	var r model.Resource
	err := row.Scan(
		&r.ID, &r.Slug, &r.TitleEn, &r.TitleAr, &r.DescriptionEn, &r.DescriptionAr,
		&r.ContentEn, &r.ContentAr, &r.Type, &r.Status, &r.Featured, &r.Priority,
		&r.Publisher, &r.PublishDate, &r.Year, &r.ExternalURL, &r.Tags, &r.CategoryID,
		&r.FileURL, &r.FileName, &r.FileSize, &r.FileMimeType, &r.ThumbnailURL,
		&r.MetaTitleEn, &r.MetaDescEn, &r.MetaTitleAr, &r.MetaDescAr,
		&r.CreatedByID, &r.UpdatedByID, &r.PublishedAt, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

const createResource = `
INSERT INTO resources (slug, title_en, title_ar, description_en, description_ar,
	content_en, content_ar, type, status, featured, priority, publisher, publish_date, year,
	external_url, tags, category_id, file_url, file_name, file_size, file_mime_type,
	thumbnail_url, meta_title_en, meta_desc_en, meta_title_ar, meta_desc_ar,
	created_by_id, updated_by_id, published_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + resourceColumns

// CreateResourceParams holds the fields for CreateResource.
type CreateResourceParams struct {
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
	Tags          model.StringList
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

// CreateResource inserts a new resource.
func (q *Queries) CreateResource(ctx context.Context, arg CreateResourceParams) (model.Resource, error) {
	row := q.db.QueryRowContext(ctx, createResource,
		arg.Slug, arg.TitleEn, arg.TitleAr, arg.DescriptionEn, arg.DescriptionAr,
		arg.ContentEn, arg.ContentAr, arg.Type, arg.Status, arg.Featured, arg.Priority,
		arg.Publisher, arg.PublishDate, arg.Year, arg.ExternalURL, arg.Tags, arg.CategoryID,
		arg.FileURL, arg.FileName, arg.FileSize, arg.FileMimeType, arg.ThumbnailURL,
		arg.MetaTitleEn, arg.MetaDescEn, arg.MetaTitleAr, arg.MetaDescAr,
		arg.CreatedByID, arg.UpdatedByID, arg.PublishedAt, arg.CreatedAt, arg.UpdatedAt)
	return scanResource(row)
}

const getResourceByID = `SELECT ` + resourceColumns + ` FROM resources WHERE id = ?`

// GetResourceByID fetches a resource by primary key.
func (q *Queries) GetResourceByID(ctx context.Context, id int64) (model.Resource, error) {
	return scanResource(q.db.QueryRowContext(ctx, getResourceByID, id))
}

const getResourceBySlug = `SELECT ` + resourceColumns + ` FROM resources WHERE slug = ?`

// GetResourceBySlug fetches a resource by its unique slug.
func (q *Queries) GetResourceBySlug(ctx context.Context, slug string) (model.Resource, error) {
	return scanResource(q.db.QueryRowContext(ctx, getResourceBySlug, slug))
}

const countResourcesBySlug = `SELECT COUNT(*) FROM resources WHERE slug = ?`

// CountResourcesBySlug reports how many resources carry the given slug.
// Used by the collision check before creation.
func (q *Queries) CountResourcesBySlug(ctx context.Context, slug string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countResourcesBySlug, slug).Scan(&n)
	return n, err
}

const updateResource = `
UPDATE resources SET
	title_en = ?, title_ar = ?, description_en = ?, description_ar = ?,
	content_en = ?, content_ar = ?, type = ?, status = ?, featured = ?, priority = ?,
	publisher = ?, publish_date = ?, year = ?, external_url = ?, tags = ?, category_id = ?,
	file_url = ?, file_name = ?, file_size = ?, file_mime_type = ?, thumbnail_url = ?,
	meta_title_en = ?, meta_desc_en = ?, meta_title_ar = ?, meta_desc_ar = ?,
	updated_by_id = ?, published_at = ?, updated_at = ?
WHERE id = ?
RETURNING ` + resourceColumns

// UpdateResourceParams holds the full post-merge row for UpdateResource.
// Partial updates are applied read-modify-write by the handler; the
// store always persists the complete row (last write wins).
type UpdateResourceParams struct {
	ID            int64
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
	Tags          model.StringList
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
	UpdatedByID   sql.NullInt64
	PublishedAt   sql.NullTime
	UpdatedAt     time.Time
}

// UpdateResource persists the full row and returns the updated resource.
func (q *Queries) UpdateResource(ctx context.Context, arg UpdateResourceParams) (model.Resource, error) {
	row := q.db.QueryRowContext(ctx, updateResource,
		arg.TitleEn, arg.TitleAr, arg.DescriptionEn, arg.DescriptionAr,
		arg.ContentEn, arg.ContentAr, arg.Type, arg.Status, arg.Featured, arg.Priority,
		arg.Publisher, arg.PublishDate, arg.Year, arg.ExternalURL, arg.Tags, arg.CategoryID,
		arg.FileURL, arg.FileName, arg.FileSize, arg.FileMimeType, arg.ThumbnailURL,
		arg.MetaTitleEn, arg.MetaDescEn, arg.MetaTitleAr, arg.MetaDescAr,
		arg.UpdatedByID, arg.PublishedAt, arg.UpdatedAt, arg.ID)
	return scanResource(row)
}

const deleteResource = `DELETE FROM resources WHERE id = ?`

// DeleteResource removes a resource (hard delete).
func (q *Queries) DeleteResource(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteResource, id)
	return err
}

// Resource sort orders.
const (
	SortLatest = "latest"
	SortOldest = "oldest"
	SortTitle  = "title"
)

// ListResourcesParams holds the listing filters. Zero values mean
// "no filter"; Status must be set by the caller (handlers force
// PUBLISHED for public requests).
type ListResourcesParams struct {
	Search     string
	CategoryID int64 // 0 = all categories
	Type       string
	Status     string
	Sort       string
	Limit      int64
	Offset     int64
}

// The list and count queries build their WHERE clause conditionally;
// the filter combinations are too dynamic to enumerate as fixed
// statements.
func buildResourceFilter(arg ListResourcesParams) (string, []any) {
	var conds []string
	var args []any

	if arg.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, arg.Status)
	}
	if arg.CategoryID != 0 {
		conds = append(conds, "category_id = ?")
		args = append(args, arg.CategoryID)
	}
	if arg.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, arg.Type)
	}
	if arg.Search != "" {
		conds = append(conds, `(lower(title_en) LIKE '%'||lower(?)||'%'
			OR lower(title_ar) LIKE '%'||lower(?)||'%'
			OR lower(description_en) LIKE '%'||lower(?)||'%'
			OR lower(description_ar) LIKE '%'||lower(?)||'%'
			OR lower(tags) LIKE '%'||lower(?)||'%')`)
		for i := 0; i < 5; i++ {
			args = append(args, arg.Search)
		}
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func resourceOrderClause(sort string) string {
	// Featured items always lead, then priority descending, then the
	// requested sort key. SQLite sorts NULL smallest, so DESC already
	// pushes never-published rows to the end.
	switch sort {
	case SortOldest:
		return " ORDER BY featured DESC, priority DESC, published_at ASC"
	case SortTitle:
		return " ORDER BY featured DESC, priority DESC, title_en COLLATE NOCASE ASC"
	default:
		return " ORDER BY featured DESC, priority DESC, published_at DESC"
	}
}

// ListResources returns a filtered, ordered page of resources.
func (q *Queries) ListResources(ctx context.Context, arg ListResourcesParams) ([]model.Resource, error) {
	where, args := buildResourceFilter(arg)
	query := `SELECT ` + resourceColumns + ` FROM resources` + where + resourceOrderClause(arg.Sort) +
		` LIMIT ? OFFSET ?`
	args = append(args, arg.Limit, arg.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []model.Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}
	return resources, rows.Err()
}

// CountResources returns the total matching a filter, ignoring paging.
func (q *Queries) CountResources(ctx context.Context, arg ListResourcesParams) (int64, error) {
	where, args := buildResourceFilter(arg)
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resources`+where, args...).Scan(&n)
	return n, err
}

const countResourcesByStatus = `SELECT COUNT(*) FROM resources WHERE status = ?`

// CountResourcesByStatus counts resources in a given publish state.
func (q *Queries) CountResourcesByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countResourcesByStatus, status).Scan(&n)
	return n, err
}

const countResourcesByCategory = `SELECT COUNT(*) FROM resources WHERE category_id = ?`

// CountResourcesByCategory counts resources referencing a category.
// The category delete guard runs this inside the delete transaction.
func (q *Queries) CountResourcesByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countResourcesByCategory, categoryID).Scan(&n)
	return n, err
}

const countPublishedResourcesMissingArabic = `
SELECT COUNT(*) FROM resources WHERE status = 'PUBLISHED' AND title_ar = ''
`

// CountPublishedResourcesMissingArabic counts published resources
// without an Arabic title, for the bilingual-completeness metric.
func (q *Queries) CountPublishedResourcesMissingArabic(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countPublishedResourcesMissingArabic).Scan(&n)
	return n, err
}

const listPublishedResourcesWithExternalURL = `
SELECT id, external_url FROM resources
WHERE status = 'PUBLISHED' AND external_url != ''
ORDER BY id
`

// ExternalLink pairs a resource id with its external URL for link checks.
type ExternalLink struct {
	ResourceID int64
	URL        string
}

// ListPublishedExternalLinks returns the probe targets for a link-check run.
func (q *Queries) ListPublishedExternalLinks(ctx context.Context) ([]ExternalLink, error) {
	rows, err := q.db.QueryContext(ctx, listPublishedResourcesWithExternalURL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []ExternalLink
	for rows.Next() {
		var l ExternalLink
		if err := rows.Scan(&l.ResourceID, &l.URL); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

const listPublishedResourceSlugs = `
SELECT slug, updated_at FROM resources WHERE status = 'PUBLISHED' ORDER BY slug
`

// SlugEntry pairs a slug with its last modification time for sitemaps.
type SlugEntry struct {
	Slug      string
	UpdatedAt time.Time
}

// ListPublishedResourceSlugs returns all published resource slugs.
func (q *Queries) ListPublishedResourceSlugs(ctx context.Context) ([]SlugEntry, error) {
	rows, err := q.db.QueryContext(ctx, listPublishedResourceSlugs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []SlugEntry
	for rows.Next() {
		var e SlugEntry
		if err := rows.Scan(&e.Slug, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

const searchPublishedResources = `
SELECT ` + resourceColumns + ` FROM resources
WHERE status = 'PUBLISHED' AND (
	lower(title_en) LIKE '%'||lower(?1)||'%'
	OR lower(title_ar) LIKE '%'||lower(?1)||'%'
	OR lower(description_en) LIKE '%'||lower(?1)||'%'
	OR lower(description_ar) LIKE '%'||lower(?1)||'%'
	OR lower(publisher) LIKE '%'||lower(?1)||'%'
	OR lower(tags) LIKE '%'||lower(?1)||'%'
)
ORDER BY published_at DESC
LIMIT ?2
`

// SearchPublishedResources performs the cross-entity text search over
// published resources.
func (q *Queries) SearchPublishedResources(ctx context.Context, query string, limit int64) ([]model.Resource, error) {
	rows, err := q.db.QueryContext(ctx, searchPublishedResources, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []model.Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}
	return resources, rows.Err()
}
