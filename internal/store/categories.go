// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/causewaygrp/finance-cms/internal/model"
)

// ErrCategoryInUse is returned when a category delete is blocked by
// resources still referencing it.
var ErrCategoryInUse = errors.New("category has assigned resources")

const categoryColumns = `id, slug, name_en, name_ar, description_en, description_ar,
icon, color, enabled, sort_order, parent_id, created_at, updated_at`

func scanCategory(row rowScanner) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Slug, &c.NameEn, &c.NameAr, &c.DescriptionEn, &c.DescriptionAr,
		&c.Icon, &c.Color, &c.Enabled, &c.SortOrder, &c.ParentID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const createCategory = `
INSERT INTO categories (slug, name_en, name_ar, description_en, description_ar,
	icon, color, enabled, sort_order, parent_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + categoryColumns

// CreateCategoryParams holds the fields for CreateCategory.
type CreateCategoryParams struct {
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

// CreateCategory inserts a new category.
func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (model.Category, error) {
	row := q.db.QueryRowContext(ctx, createCategory,
		arg.Slug, arg.NameEn, arg.NameAr, arg.DescriptionEn, arg.DescriptionAr,
		arg.Icon, arg.Color, arg.Enabled, arg.SortOrder, arg.ParentID, arg.CreatedAt, arg.UpdatedAt)
	return scanCategory(row)
}

const getCategoryByID = `SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`

// GetCategoryByID fetches a category by primary key.
func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (model.Category, error) {
	return scanCategory(q.db.QueryRowContext(ctx, getCategoryByID, id))
}

const countCategoriesBySlug = `SELECT COUNT(*) FROM categories WHERE slug = ?`

// CountCategoriesBySlug reports how many categories carry the given slug.
func (q *Queries) CountCategoriesBySlug(ctx context.Context, slug string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countCategoriesBySlug, slug).Scan(&n)
	return n, err
}

const updateCategory = `
UPDATE categories SET
	name_en = ?, name_ar = ?, description_en = ?, description_ar = ?,
	icon = ?, color = ?, enabled = ?, sort_order = ?, parent_id = ?, updated_at = ?
WHERE id = ?
RETURNING ` + categoryColumns

// UpdateCategoryParams holds the full post-merge row for UpdateCategory.
type UpdateCategoryParams struct {
	ID            int64
	NameEn        string
	NameAr        string
	DescriptionEn string
	DescriptionAr string
	Icon          string
	Color         string
	Enabled       bool
	SortOrder     int64
	ParentID      sql.NullInt64
	UpdatedAt     time.Time
}

// UpdateCategory persists the full row and returns the updated category.
func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (model.Category, error) {
	row := q.db.QueryRowContext(ctx, updateCategory,
		arg.NameEn, arg.NameAr, arg.DescriptionEn, arg.DescriptionAr,
		arg.Icon, arg.Color, arg.Enabled, arg.SortOrder, arg.ParentID, arg.UpdatedAt, arg.ID)
	return scanCategory(row)
}

// CategoryWithCount pairs a category with its referencing-resource count.
type CategoryWithCount struct {
	model.Category
	ResourceCount int64
}

const listCategories = `
SELECT c.id, c.slug, c.name_en, c.name_ar, c.description_en, c.description_ar,
	c.icon, c.color, c.enabled, c.sort_order, c.parent_id, c.created_at, c.updated_at,
	COUNT(r.id) AS resource_count
FROM categories c
LEFT JOIN resources r ON r.category_id = c.id
%s
GROUP BY c.id
ORDER BY c.sort_order ASC, c.name_en COLLATE NOCASE ASC
`

// ListCategories returns all categories with resource counts.
// Categories are few; the list is unpaginated.
func (q *Queries) ListCategories(ctx context.Context, includeDisabled bool) ([]CategoryWithCount, error) {
	where := ""
	if !includeDisabled {
		where = "WHERE c.enabled = 1"
	}
	rows, err := q.db.QueryContext(ctx, fmt.Sprintf(listCategories, where))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []CategoryWithCount
	for rows.Next() {
		var c CategoryWithCount
		err := rows.Scan(&c.ID, &c.Slug, &c.NameEn, &c.NameAr, &c.DescriptionEn, &c.DescriptionAr,
			&c.Icon, &c.Color, &c.Enabled, &c.SortOrder, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
			&c.ResourceCount)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

const countCategories = `SELECT COUNT(*) FROM categories`

// CountCategories returns the total number of categories.
func (q *Queries) CountCategories(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countCategories).Scan(&n)
	return n, err
}

// DeleteCategoryChecked deletes a category after verifying no resources
// reference it. The check and the delete run in one transaction so a
// concurrent resource create cannot slip between them. Returns
// ErrCategoryInUse on a referential conflict and sql.ErrNoRows when the
// category does not exist.
func DeleteCategoryChecked(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := New(tx)

	if _, err := q.GetCategoryByID(ctx, id); err != nil {
		return err
	}

	count, err := q.CountResourcesByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("counting category resources: %w", err)
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	return tx.Commit()
}
