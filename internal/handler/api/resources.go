// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/causewaygrp/finance-cms/internal/i18n"
	"github.com/causewaygrp/finance-cms/internal/middleware"
	"github.com/causewaygrp/finance-cms/internal/model"
	"github.com/causewaygrp/finance-cms/internal/service"
	"github.com/causewaygrp/finance-cms/internal/store"
	"github.com/causewaygrp/finance-cms/internal/util"
)

// ResourceResponse carries the full bilingual resource for the admin
// console.
type ResourceResponse struct {
	ID            int64      `json:"id"`
	Slug          string     `json:"slug"`
	TitleEn       string     `json:"titleEn"`
	TitleAr       string     `json:"titleAr"`
	DescriptionEn string     `json:"descriptionEn"`
	DescriptionAr string     `json:"descriptionAr"`
	ContentEn     string     `json:"contentEn"`
	ContentAr     string     `json:"contentAr"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	Featured      bool       `json:"featured"`
	Priority      int64      `json:"priority"`
	Publisher     string     `json:"publisher,omitempty"`
	PublishDate   *time.Time `json:"publishDate,omitempty"`
	Year          *int64     `json:"year,omitempty"`
	ExternalURL   string     `json:"externalUrl,omitempty"`
	Tags          []string   `json:"tags"`
	CategoryID    *int64     `json:"categoryId,omitempty"`
	FileURL       string     `json:"fileUrl,omitempty"`
	FileName      string     `json:"fileName,omitempty"`
	FileSize      *int64     `json:"fileSize,omitempty"`
	FileMimeType  string     `json:"fileMimeType,omitempty"`
	ThumbnailURL  string     `json:"thumbnailUrl,omitempty"`
	MetaTitleEn   string     `json:"metaTitleEn,omitempty"`
	MetaDescEn    string     `json:"metaDescEn,omitempty"`
	MetaTitleAr   string     `json:"metaTitleAr,omitempty"`
	MetaDescAr    string     `json:"metaDescAr,omitempty"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// PublicResourceResponse carries a resource resolved to one locale for
// the public site, with the markdown body pre-rendered.
type PublicResourceResponse struct {
	ID           int64      `json:"id"`
	Slug         string     `json:"slug"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Content      string     `json:"content,omitempty"`
	ContentHTML  string     `json:"contentHtml,omitempty"`
	Type         string     `json:"type"`
	Featured     bool       `json:"featured"`
	Publisher    string     `json:"publisher,omitempty"`
	PublishDate  *time.Time `json:"publishDate,omitempty"`
	Year         *int64     `json:"year,omitempty"`
	ExternalURL  string     `json:"externalUrl,omitempty"`
	Tags         []string   `json:"tags"`
	CategoryID   *int64     `json:"categoryId,omitempty"`
	FileURL      string     `json:"fileUrl,omitempty"`
	FileName     string     `json:"fileName,omitempty"`
	FileSize     *int64     `json:"fileSize,omitempty"`
	ThumbnailURL string     `json:"thumbnailUrl,omitempty"`
	MetaTitle    string     `json:"metaTitle,omitempty"`
	MetaDesc     string     `json:"metaDesc,omitempty"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

func nullInt64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return &n.Int64
}

func resourceToResponse(r model.Resource) ResourceResponse {
	return ResourceResponse{
		ID:            r.ID,
		Slug:          r.Slug,
		TitleEn:       r.TitleEn,
		TitleAr:       r.TitleAr,
		DescriptionEn: r.DescriptionEn,
		DescriptionAr: r.DescriptionAr,
		ContentEn:     r.ContentEn,
		ContentAr:     r.ContentAr,
		Type:          r.Type,
		Status:        r.Status,
		Featured:      r.Featured,
		Priority:      r.Priority,
		Publisher:     r.Publisher,
		PublishDate:   nullTimePtr(r.PublishDate),
		Year:          nullInt64Ptr(r.Year),
		ExternalURL:   r.ExternalURL,
		Tags:          r.Tags,
		CategoryID:    nullInt64Ptr(r.CategoryID),
		FileURL:       r.FileURL,
		FileName:      r.FileName,
		FileSize:      nullInt64Ptr(r.FileSize),
		FileMimeType:  r.FileMimeType,
		ThumbnailURL:  r.ThumbnailURL,
		MetaTitleEn:   r.MetaTitleEn,
		MetaDescEn:    r.MetaDescEn,
		MetaTitleAr:   r.MetaTitleAr,
		MetaDescAr:    r.MetaDescAr,
		PublishedAt:   nullTimePtr(r.PublishedAt),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (h *Handler) resourceToPublicResponse(r model.Resource, locale i18n.Locale) PublicResourceResponse {
	content := r.Content().Resolve(locale)
	contentHTML, err := service.RenderMarkdown(content)
	if err != nil {
		h.logger.Warn("rendering resource content", "slug", r.Slug, "error", err)
		contentHTML = ""
	}

	return PublicResourceResponse{
		ID:           r.ID,
		Slug:         r.Slug,
		Title:        r.Title().Resolve(locale),
		Description:  r.Description().Resolve(locale),
		Content:      content,
		ContentHTML:  contentHTML,
		Type:         r.Type,
		Featured:     r.Featured,
		Publisher:    r.Publisher,
		PublishDate:  nullTimePtr(r.PublishDate),
		Year:         nullInt64Ptr(r.Year),
		ExternalURL:  r.ExternalURL,
		Tags:         r.Tags,
		CategoryID:   nullInt64Ptr(r.CategoryID),
		FileURL:      r.FileURL,
		FileName:     r.FileName,
		FileSize:     nullInt64Ptr(r.FileSize),
		ThumbnailURL: r.ThumbnailURL,
		MetaTitle:    r.MetaTitle().Resolve(locale),
		MetaDesc:     r.MetaDesc().Resolve(locale),
		PublishedAt:  nullTimePtr(r.PublishedAt),
	}
}

// requestLocale reads the locale query parameter.
func requestLocale(r *http.Request) i18n.Locale {
	return i18n.ParseLocale(r.URL.Query().Get("locale"))
}

// parseResourceListParams reads the shared listing filters.
func parseResourceListParams(r *http.Request) (store.ListResourcesParams, int, int, bool) {
	page, limit := ParsePagination(r)
	q := r.URL.Query()

	params := store.ListResourcesParams{
		Search: q.Get("search"),
		Type:   q.Get("type"),
		Sort:   q.Get("sort"),
		Limit:  int64(limit),
		Offset: int64((page - 1) * limit),
	}

	if cat := q.Get("category"); cat != "" {
		id, err := strconv.ParseInt(cat, 10, 64)
		if err != nil {
			return params, page, limit, false
		}
		params.CategoryID = id
	}

	return params, page, limit, true
}

// ListPublicResources handles GET /api/resources. Only published
// resources are visible; ordering leads with featured, then priority.
func (h *Handler) ListPublicResources(w http.ResponseWriter, r *http.Request) {
	params, page, limit, ok := parseResourceListParams(r)
	if !ok {
		WriteBadRequest(w, "Invalid category ID")
		return
	}
	params.Status = model.StatusPublished

	if params.Type != "" && !model.ValidResourceType(params.Type) {
		WriteBadRequest(w, "Invalid resource type")
		return
	}

	resources, err := h.queries.ListResources(r.Context(), params)
	if err != nil {
		WriteInternalError(w, "Failed to list resources")
		return
	}
	total, err := h.queries.CountResources(r.Context(), params)
	if err != nil {
		WriteInternalError(w, "Failed to count resources")
		return
	}

	locale := requestLocale(r)
	responses := make([]PublicResourceResponse, 0, len(resources))
	for _, res := range resources {
		responses = append(responses, h.resourceToPublicResponse(res, locale))
	}

	WritePaged(w, responses, total, page, limit)
}

// GetPublicResource handles GET /api/resources/{slug}. Unpublished
// resources are invisible here regardless of session state.
func (h *Handler) GetPublicResource(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	resource, err := h.queries.GetResourceBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Resource not found")
		} else {
			WriteInternalError(w, "Failed to retrieve resource")
		}
		return
	}
	if !resource.IsPublished() {
		WriteNotFound(w, "Resource not found")
		return
	}

	WriteSuccess(w, h.resourceToPublicResponse(resource, requestLocale(r)))
}

// ListResources handles GET /admin/api/resources with optional status
// filtering.
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	params, page, limit, ok := parseResourceListParams(r)
	if !ok {
		WriteBadRequest(w, "Invalid category ID")
		return
	}

	if status := r.URL.Query().Get("status"); status != "" {
		if !model.ValidStatus(status) {
			WriteBadRequest(w, "Invalid status")
			return
		}
		params.Status = status
	}

	resources, err := h.queries.ListResources(r.Context(), params)
	if err != nil {
		WriteInternalError(w, "Failed to list resources")
		return
	}
	total, err := h.queries.CountResources(r.Context(), params)
	if err != nil {
		WriteInternalError(w, "Failed to count resources")
		return
	}

	responses := make([]ResourceResponse, 0, len(resources))
	for _, res := range resources {
		responses = append(responses, resourceToResponse(res))
	}

	WritePaged(w, responses, total, page, limit)
}

// GetResource handles GET /admin/api/resources/{id}.
func (h *Handler) GetResource(w http.ResponseWriter, r *http.Request) {
	resource, ok := requireEntityByID(w, r, "resource", func(id int64) (model.Resource, error) {
		return h.queries.GetResourceByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, resourceToResponse(resource))
}

// CreateResourceRequest is the request body for creating a resource.
type CreateResourceRequest struct {
	TitleEn       string     `json:"titleEn"`
	TitleAr       string     `json:"titleAr"`
	DescriptionEn string     `json:"descriptionEn"`
	DescriptionAr string     `json:"descriptionAr"`
	ContentEn     string     `json:"contentEn"`
	ContentAr     string     `json:"contentAr"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	Featured      bool       `json:"featured"`
	Priority      int64      `json:"priority"`
	Publisher     string     `json:"publisher"`
	PublishDate   *time.Time `json:"publishDate"`
	Year          *int64     `json:"year"`
	ExternalURL   string     `json:"externalUrl"`
	Tags          []string   `json:"tags"`
	CategoryID    *int64     `json:"categoryId"`
	FileURL       string     `json:"fileUrl"`
	FileName      string     `json:"fileName"`
	FileSize      *int64     `json:"fileSize"`
	FileMimeType  string     `json:"fileMimeType"`
	ThumbnailURL  string     `json:"thumbnailUrl"`
	MetaTitleEn   string     `json:"metaTitleEn"`
	MetaDescEn    string     `json:"metaDescEn"`
	MetaTitleAr   string     `json:"metaTitleAr"`
	MetaDescAr    string     `json:"metaDescAr"`
}

// uniqueSlug derives a slug from the title and suffixes it with a
// timestamp token when it is already taken.
func (h *Handler) uniqueSlug(title string, countBySlug func(string) (int64, error)) (string, error) {
	base := util.Slugify(title)
	if base == "" {
		base = "untitled"
	}

	count, err := countBySlug(base)
	if err != nil {
		return "", err
	}
	if count == 0 {
		return base, nil
	}
	return util.WithSlugSuffix(base, time.Now().UTC()), nil
}

// CreateResource handles POST /admin/api/resources.
func (h *Handler) CreateResource(w http.ResponseWriter, r *http.Request) {
	var req CreateResourceRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.TitleEn == "" {
		WriteBadRequest(w, "titleEn is required")
		return
	}
	if req.Type == "" {
		req.Type = model.ResourceTypeReport
	}
	if !model.ValidResourceType(req.Type) {
		WriteBadRequest(w, "Invalid resource type")
		return
	}
	if req.Status == "" {
		req.Status = model.StatusDraft
	}
	if !model.ValidStatus(req.Status) {
		WriteBadRequest(w, "Invalid status")
		return
	}

	slug, err := h.uniqueSlug(req.TitleEn, func(s string) (int64, error) {
		return h.queries.CountResourcesBySlug(r.Context(), s)
	})
	if err != nil {
		WriteInternalError(w, "Failed to check slug")
		return
	}

	now := time.Now().UTC()
	var publishedAt sql.NullTime
	tr := model.Transition{From: model.StatusDraft, To: req.Status}
	if stamped := tr.StampPublishedAt(nil, now); stamped != nil {
		publishedAt = sql.NullTime{Time: *stamped, Valid: true}
	}

	userID := middleware.GetUserID(r)
	var creator sql.NullInt64
	if userID != 0 {
		creator = sql.NullInt64{Int64: userID, Valid: true}
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	resource, err := h.queries.CreateResource(r.Context(), store.CreateResourceParams{
		Slug:          slug,
		TitleEn:       req.TitleEn,
		TitleAr:       req.TitleAr,
		DescriptionEn: req.DescriptionEn,
		DescriptionAr: req.DescriptionAr,
		ContentEn:     req.ContentEn,
		ContentAr:     req.ContentAr,
		Type:          req.Type,
		Status:        req.Status,
		Featured:      req.Featured,
		Priority:      req.Priority,
		Publisher:     req.Publisher,
		PublishDate:   ptrTimeToNull(req.PublishDate),
		Year:          ptrInt64ToNull(req.Year),
		ExternalURL:   req.ExternalURL,
		Tags:          tags,
		CategoryID:    ptrInt64ToNull(req.CategoryID),
		FileURL:       req.FileURL,
		FileName:      req.FileName,
		FileSize:      ptrInt64ToNull(req.FileSize),
		FileMimeType:  req.FileMimeType,
		ThumbnailURL:  req.ThumbnailURL,
		MetaTitleEn:   req.MetaTitleEn,
		MetaDescEn:    req.MetaDescEn,
		MetaTitleAr:   req.MetaTitleAr,
		MetaDescAr:    req.MetaDescAr,
		CreatedByID:   creator,
		UpdatedByID:   creator,
		PublishedAt:   publishedAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create resource")
		return
	}

	h.audit.Record(service.AuditEntry{
		Action:     model.AuditActionCreate,
		EntityType: model.EntityTypeResource,
		EntityID:   resource.ID,
		UserID:     userID,
		Details:    map[string]any{"slug": resource.Slug, "title": resource.TitleEn, "status": resource.Status},
		IPAddress:  clientIP(r),
	})

	WriteCreated(w, resourceToResponse(resource))
}

// UpdateResourceRequest is the request body for partial updates. Absent
// fields keep their current values.
type UpdateResourceRequest struct {
	TitleEn       *string             `json:"titleEn"`
	TitleAr       *string             `json:"titleAr"`
	DescriptionEn *string             `json:"descriptionEn"`
	DescriptionAr *string             `json:"descriptionAr"`
	ContentEn     *string             `json:"contentEn"`
	ContentAr     *string             `json:"contentAr"`
	Type          *string             `json:"type"`
	Status        *string             `json:"status"`
	Featured      *bool               `json:"featured"`
	Priority      *int64              `json:"priority"`
	Publisher     *string             `json:"publisher"`
	PublishDate   Optional[time.Time] `json:"publishDate"`
	Year          Optional[int64]     `json:"year"`
	ExternalURL   *string             `json:"externalUrl"`
	Tags          *[]string           `json:"tags"`
	CategoryID    Optional[int64]     `json:"categoryId"`
	FileURL       *string             `json:"fileUrl"`
	FileName      *string             `json:"fileName"`
	FileSize      Optional[int64]     `json:"fileSize"`
	FileMimeType  *string             `json:"fileMimeType"`
	ThumbnailURL  *string             `json:"thumbnailUrl"`
	MetaTitleEn   *string             `json:"metaTitleEn"`
	MetaDescEn    *string             `json:"metaDescEn"`
	MetaTitleAr   *string             `json:"metaTitleAr"`
	MetaDescAr    *string             `json:"metaDescAr"`
}

func setStr(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func ptrTimeToNull(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func ptrInt64ToNull(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

// UpdateResource handles PATCH /admin/api/resources/{id}. Concurrent
// edits resolve last-write-wins; the final state is always internally
// consistent because the merge happens against a single read.
func (h *Handler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	current, ok := requireEntityByID(w, r, "resource", func(id int64) (model.Resource, error) {
		return h.queries.GetResourceByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req UpdateResourceRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.TitleEn != nil && *req.TitleEn == "" {
		WriteBadRequest(w, "titleEn cannot be empty")
		return
	}
	if req.Type != nil && !model.ValidResourceType(*req.Type) {
		WriteBadRequest(w, "Invalid resource type")
		return
	}
	if req.Status != nil && !model.ValidStatus(*req.Status) {
		WriteBadRequest(w, "Invalid status")
		return
	}

	merged := current
	setStr(&merged.TitleEn, req.TitleEn)
	setStr(&merged.TitleAr, req.TitleAr)
	setStr(&merged.DescriptionEn, req.DescriptionEn)
	setStr(&merged.DescriptionAr, req.DescriptionAr)
	setStr(&merged.ContentEn, req.ContentEn)
	setStr(&merged.ContentAr, req.ContentAr)
	setStr(&merged.Type, req.Type)
	setStr(&merged.Publisher, req.Publisher)
	setStr(&merged.ExternalURL, req.ExternalURL)
	setStr(&merged.FileURL, req.FileURL)
	setStr(&merged.FileName, req.FileName)
	setStr(&merged.FileMimeType, req.FileMimeType)
	setStr(&merged.ThumbnailURL, req.ThumbnailURL)
	setStr(&merged.MetaTitleEn, req.MetaTitleEn)
	setStr(&merged.MetaDescEn, req.MetaDescEn)
	setStr(&merged.MetaTitleAr, req.MetaTitleAr)
	setStr(&merged.MetaDescAr, req.MetaDescAr)
	if req.Featured != nil {
		merged.Featured = *req.Featured
	}
	if req.Priority != nil {
		merged.Priority = *req.Priority
	}
	if req.PublishDate.Set {
		merged.PublishDate = sql.NullTime{Time: req.PublishDate.Value, Valid: req.PublishDate.Valid}
	}
	if req.Year.Set {
		merged.Year = sql.NullInt64{Int64: req.Year.Value, Valid: req.Year.Valid}
	}
	if req.Tags != nil {
		merged.Tags = *req.Tags
		if merged.Tags == nil {
			merged.Tags = []string{}
		}
	}
	if req.CategoryID.Set {
		merged.CategoryID = sql.NullInt64{Int64: req.CategoryID.Value, Valid: req.CategoryID.Valid}
	}
	if req.FileSize.Set {
		merged.FileSize = sql.NullInt64{Int64: req.FileSize.Value, Valid: req.FileSize.Valid}
	}
	if req.Status != nil {
		merged.Status = *req.Status
	}

	now := time.Now().UTC()
	tr := model.Transition{From: current.Status, To: merged.Status}
	stamped := tr.StampPublishedAt(nullTimePtr(current.PublishedAt), now)
	publishedAt := sql.NullTime{}
	if stamped != nil {
		publishedAt = sql.NullTime{Time: *stamped, Valid: true}
	}

	userID := middleware.GetUserID(r)
	var updater sql.NullInt64
	if userID != 0 {
		updater = sql.NullInt64{Int64: userID, Valid: true}
	}

	updated, err := h.queries.UpdateResource(r.Context(), store.UpdateResourceParams{
		ID:            merged.ID,
		TitleEn:       merged.TitleEn,
		TitleAr:       merged.TitleAr,
		DescriptionEn: merged.DescriptionEn,
		DescriptionAr: merged.DescriptionAr,
		ContentEn:     merged.ContentEn,
		ContentAr:     merged.ContentAr,
		Type:          merged.Type,
		Status:        merged.Status,
		Featured:      merged.Featured,
		Priority:      merged.Priority,
		Publisher:     merged.Publisher,
		PublishDate:   merged.PublishDate,
		Year:          merged.Year,
		ExternalURL:   merged.ExternalURL,
		Tags:          merged.Tags,
		CategoryID:    merged.CategoryID,
		FileURL:       merged.FileURL,
		FileName:      merged.FileName,
		FileSize:      merged.FileSize,
		FileMimeType:  merged.FileMimeType,
		ThumbnailURL:  merged.ThumbnailURL,
		MetaTitleEn:   merged.MetaTitleEn,
		MetaDescEn:    merged.MetaDescEn,
		MetaTitleAr:   merged.MetaTitleAr,
		MetaDescAr:    merged.MetaDescAr,
		UpdatedByID:   updater,
		PublishedAt:   publishedAt,
		UpdatedAt:     now,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update resource")
		return
	}

	h.audit.Record(service.AuditEntry{
		Action:     tr.AuditAction(),
		EntityType: model.EntityTypeResource,
		EntityID:   updated.ID,
		UserID:     userID,
		Details:    map[string]any{"slug": updated.Slug, "from": tr.From, "to": tr.To},
		IPAddress:  clientIP(r),
	})

	WriteSuccess(w, resourceToResponse(updated))
}

// DeleteResource handles DELETE /admin/api/resources/{id}.
func (h *Handler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	resource, ok := requireEntityByID(w, r, "resource", func(id int64) (model.Resource, error) {
		return h.queries.GetResourceByID(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteResource(r.Context(), resource.ID); err != nil {
		WriteInternalError(w, "Failed to delete resource")
		return
	}

	h.audit.Record(service.AuditEntry{
		Action:     model.AuditActionDelete,
		EntityType: model.EntityTypeResource,
		EntityID:   resource.ID,
		UserID:     middleware.GetUserID(r),
		Details:    map[string]any{"slug": resource.Slug, "title": resource.TitleEn},
		IPAddress:  clientIP(r),
	})

	WriteSuccess(w, map[string]any{"deleted": true})
}
