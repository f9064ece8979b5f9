// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/causewaygrp/finance-cms/internal/i18n"
	"github.com/causewaygrp/finance-cms/internal/middleware"
	"github.com/causewaygrp/finance-cms/internal/model"
	"github.com/causewaygrp/finance-cms/internal/service"
	"github.com/causewaygrp/finance-cms/internal/store"
)

// CategoryResponse carries a category with its resource count.
type CategoryResponse struct {
	ID            int64     `json:"id"`
	Slug          string    `json:"slug"`
	NameEn        string    `json:"nameEn"`
	NameAr        string    `json:"nameAr"`
	DescriptionEn string    `json:"descriptionEn,omitempty"`
	DescriptionAr string    `json:"descriptionAr,omitempty"`
	Icon          string    `json:"icon,omitempty"`
	Color         string    `json:"color,omitempty"`
	Enabled       bool      `json:"enabled"`
	SortOrder     int64     `json:"sortOrder"`
	ParentID      *int64    `json:"parentId,omitempty"`
	ResourceCount int64     `json:"resourceCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PublicCategoryResponse carries a category resolved to one locale.
type PublicCategoryResponse struct {
	ID            int64  `json:"id"`
	Slug          string `json:"slug"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Icon          string `json:"icon,omitempty"`
	Color         string `json:"color,omitempty"`
	ResourceCount int64  `json:"resourceCount"`
}

func categoryToResponse(c store.CategoryWithCount) CategoryResponse {
	return CategoryResponse{
		ID:            c.ID,
		Slug:          c.Slug,
		NameEn:        c.NameEn,
		NameAr:        c.NameAr,
		DescriptionEn: c.DescriptionEn,
		DescriptionAr: c.DescriptionAr,
		Icon:          c.Icon,
		Color:         c.Color,
		Enabled:       c.Enabled,
		SortOrder:     c.SortOrder,
		ParentID:      nullInt64Ptr(c.ParentID),
		ResourceCount: c.ResourceCount,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func categoryToPublicResponse(c store.CategoryWithCount, locale i18n.Locale) PublicCategoryResponse {
	return PublicCategoryResponse{
		ID:            c.ID,
		Slug:          c.Slug,
		Name:          c.Name().Resolve(locale),
		Description:   c.Description().Resolve(locale),
		Icon:          c.Icon,
		Color:         c.Color,
		ResourceCount: c.ResourceCount,
	}
}

// ListPublicCategories handles GET /api/categories. Disabled categories
// are hidden.
func (h *Handler) ListPublicCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.queries.ListCategories(r.Context(), false)
	if err != nil {
		WriteInternalError(w, "Failed to list categories")
		return
	}

	locale := requestLocale(r)
	responses := make([]PublicCategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, categoryToPublicResponse(c, locale))
	}
	WriteSuccess(w, responses)
}

// ListCategories handles GET /admin/api/categories. The includeDisabled
// query parameter reveals disabled categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	includeDisabled := r.URL.Query().Get("includeDisabled") == "true"

	categories, err := h.queries.ListCategories(r.Context(), includeDisabled)
	if err != nil {
		WriteInternalError(w, "Failed to list categories")
		return
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, categoryToResponse(c))
	}
	WriteSuccess(w, responses)
}

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	NameEn        string `json:"nameEn"`
	NameAr        string `json:"nameAr"`
	DescriptionEn string `json:"descriptionEn"`
	DescriptionAr string `json:"descriptionAr"`
	Icon          string `json:"icon"`
	Color         string `json:"color"`
	Enabled       *bool  `json:"enabled"`
	SortOrder     int64  `json:"sortOrder"`
	ParentID      *int64 `json:"parentId"`
}

// CreateCategory handles POST /admin/api/categories.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.NameEn == "" {
		WriteBadRequest(w, "nameEn is required")
		return
	}

	slug, err := h.uniqueSlug(req.NameEn, func(s string) (int64, error) {
		return h.queries.CountCategoriesBySlug(r.Context(), s)
	})
	if err != nil {
		WriteInternalError(w, "Failed to check slug")
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	now := time.Now().UTC()
	category, err := h.queries.CreateCategory(r.Context(), store.CreateCategoryParams{
		Slug:          slug,
		NameEn:        req.NameEn,
		NameAr:        req.NameAr,
		DescriptionEn: req.DescriptionEn,
		DescriptionAr: req.DescriptionAr,
		Icon:          req.Icon,
		Color:         req.Color,
		Enabled:       enabled,
		SortOrder:     req.SortOrder,
		ParentID:      ptrInt64ToNull(req.ParentID),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create category")
		return
	}

	h.audit.Record(service.AuditEntry{
		Action:     model.AuditActionCreate,
		EntityType: model.EntityTypeCategory,
		EntityID:   category.ID,
		UserID:     middleware.GetUserID(r),
		Details:    map[string]any{"slug": category.Slug, "name": category.NameEn},
		IPAddress:  clientIP(r),
	})

	WriteCreated(w, categoryToResponse(store.CategoryWithCount{Category: category}))
}

// UpdateCategoryRequest is the request body for partial category updates.
type UpdateCategoryRequest struct {
	NameEn        *string         `json:"nameEn"`
	NameAr        *string         `json:"nameAr"`
	DescriptionEn *string         `json:"descriptionEn"`
	DescriptionAr *string         `json:"descriptionAr"`
	Icon          *string         `json:"icon"`
	Color         *string         `json:"color"`
	Enabled       *bool           `json:"enabled"`
	SortOrder     *int64          `json:"sortOrder"`
	ParentID      Optional[int64] `json:"parentId"`
}

// UpdateCategory handles PATCH /admin/api/categories/{id}.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	current, ok := requireEntityByID(w, r, "category", func(id int64) (model.Category, error) {
		return h.queries.GetCategoryByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.NameEn != nil && *req.NameEn == "" {
		WriteBadRequest(w, "nameEn cannot be empty")
		return
	}

	merged := current
	setStr(&merged.NameEn, req.NameEn)
	setStr(&merged.NameAr, req.NameAr)
	setStr(&merged.DescriptionEn, req.DescriptionEn)
	setStr(&merged.DescriptionAr, req.DescriptionAr)
	setStr(&merged.Icon, req.Icon)
	setStr(&merged.Color, req.Color)
	if req.Enabled != nil {
		merged.Enabled = *req.Enabled
	}
	if req.SortOrder != nil {
		merged.SortOrder = *req.SortOrder
	}
	if req.ParentID.Set {
		merged.ParentID = sql.NullInt64{Int64: req.ParentID.Value, Valid: req.ParentID.Valid}
	}

	updated, err := h.queries.UpdateCategory(r.Context(), store.UpdateCategoryParams{
		ID:            merged.ID,
		NameEn:        merged.NameEn,
		NameAr:        merged.NameAr,
		DescriptionEn: merged.DescriptionEn,
		DescriptionAr: merged.DescriptionAr,
		Icon:          merged.Icon,
		Color:         merged.Color,
		Enabled:       merged.Enabled,
		SortOrder:     merged.SortOrder,
		ParentID:      merged.ParentID,
		UpdatedAt:     time.Now().UTC(),
	})
	if err != nil {
		WriteInternalError(w, "Failed to update category")
		return
	}

	count, err := h.queries.CountResourcesByCategory(r.Context(), updated.ID)
	if err != nil {
		count = 0
	}

	h.audit.Record(service.AuditEntry{
		Action:     model.AuditActionUpdate,
		EntityType: model.EntityTypeCategory,
		EntityID:   updated.ID,
		UserID:     middleware.GetUserID(r),
		Details:    map[string]any{"slug": updated.Slug, "name": updated.NameEn},
		IPAddress:  clientIP(r),
	})

	WriteSuccess(w, categoryToResponse(store.CategoryWithCount{Category: updated, ResourceCount: count}))
}

// DeleteCategory handles DELETE /admin/api/categories/{id}. A category
// still referenced by resources cannot be deleted.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid category ID")
		return
	}

	err = store.DeleteCategoryChecked(r.Context(), h.db, id)
	switch {
	case errors.Is(err, store.ErrCategoryInUse):
		WriteConflict(w, "Category has assigned resources")
		return
	case errors.Is(err, sql.ErrNoRows):
		WriteNotFound(w, "Category not found")
		return
	case err != nil:
		WriteInternalError(w, "Failed to delete category")
		return
	}

	h.audit.Record(service.AuditEntry{
		Action:     model.AuditActionDelete,
		EntityType: model.EntityTypeCategory,
		EntityID:   id,
		UserID:     middleware.GetUserID(r),
		IPAddress:  clientIP(r),
	})

	WriteSuccess(w, map[string]any{"deleted": true})
}
