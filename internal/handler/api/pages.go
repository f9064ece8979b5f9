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
)

// PageResponse carries the full bilingual page for the admin console.
type PageResponse struct {
	ID          int64           `json:"id"`
	Slug        string          `json:"slug"`
	TitleEn     string          `json:"titleEn"`
	TitleAr     string          `json:"titleAr"`
	Status      string          `json:"status"`
	Template    string          `json:"template"`
	ShowInNav   bool            `json:"showInNav"`
	SortOrder   int64           `json:"sortOrder"`
	ContentEn   string          `json:"contentEn,omitempty"`
	ContentAr   string          `json:"contentAr,omitempty"`
	BlocksEn    model.BlockList `json:"blocksEn"`
	BlocksAr    model.BlockList `json:"blocksAr"`
	MetaTitleEn string          `json:"metaTitleEn,omitempty"`
	MetaDescEn  string          `json:"metaDescEn,omitempty"`
	MetaTitleAr string          `json:"metaTitleAr,omitempty"`
	MetaDescAr  string          `json:"metaDescAr,omitempty"`
	PublishedAt *time.Time      `json:"publishedAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// PublicPageResponse carries a page resolved to one locale.
type PublicPageResponse struct {
	ID          int64           `json:"id"`
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Template    string          `json:"template"`
	Content     string          `json:"content,omitempty"`
	ContentHTML string          `json:"contentHtml,omitempty"`
	Blocks      model.BlockList `json:"blocks"`
	MetaTitle   string          `json:"metaTitle,omitempty"`
	MetaDesc    string          `json:"metaDesc,omitempty"`
	PublishedAt *time.Time      `json:"publishedAt,omitempty"`
}

func pageToResponse(p model.Page) PageResponse {
	return PageResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		TitleEn:     p.TitleEn,
		TitleAr:     p.TitleAr,
		Status:      p.Status,
		Template:    p.Template,
		ShowInNav:   p.ShowInNav,
		SortOrder:   p.SortOrder,
		ContentEn:   p.ContentEn,
		ContentAr:   p.ContentAr,
		BlocksEn:    p.BlocksEn,
		BlocksAr:    p.BlocksAr,
		MetaTitleEn: p.MetaTitleEn,
		MetaDescEn:  p.MetaDescEn,
		MetaTitleAr: p.MetaTitleAr,
		MetaDescAr:  p.MetaDescAr,
		PublishedAt: nullTimePtr(p.PublishedAt),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (h *Handler) pageToPublicResponse(p model.Page, locale i18n.Locale) PublicPageResponse {
	content := p.Content().Resolve(locale)
	contentHTML, err := service.RenderMarkdown(content)
	if err != nil {
		h.logger.Warn("rendering page content", "slug", p.Slug, "error", err)
		contentHTML = ""
	}

	blocks := p.Blocks(locale)
	if blocks == nil {
		blocks = model.BlockList{}
	}

	return PublicPageResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title().Resolve(locale),
		Template:    p.Template,
		Content:     content,
		ContentHTML: contentHTML,
		Blocks:      blocks,
		MetaTitle:   p.MetaTitle().Resolve(locale),
		MetaDesc:    p.MetaDesc().Resolve(locale),
		PublishedAt: nullTimePtr(p.PublishedAt),
	}
}

// GetPublicPage handles GET /api/pages/{slug}. Only published pages are
// visible.
func (h *Handler) GetPublicPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.queries.GetPageBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Page not found")
		} else {
			WriteInternalError(w, "Failed to retrieve page")
		}
		return
	}
	if !page.IsPublished() {
		WriteNotFound(w, "Page not found")
		return
	}

	WriteSuccess(w, h.pageToPublicResponse(page, requestLocale(r)))
}

// ListPublicPages handles GET /api/pages, returning published pages in
// navigation order.
func (h *Handler) ListPublicPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.queries.ListPages(r.Context(), true)
	if err != nil {
		WriteInternalError(w, "Failed to list pages")
		return
	}

	locale := requestLocale(r)
	responses := make([]PublicPageResponse, 0, len(pages))
	for _, p := range pages {
		responses = append(responses, h.pageToPublicResponse(p, locale))
	}
	WriteSuccess(w, responses)
}

// ListPages handles GET /admin/api/pages.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.queries.ListPages(r.Context(), false)
	if err != nil {
		WriteInternalError(w, "Failed to list pages")
		return
	}

	responses := make([]PageResponse, 0, len(pages))
	for _, p := range pages {
		responses = append(responses, pageToResponse(p))
	}
	WriteSuccess(w, responses)
}

// getPageByRef fetches a page by numeric ID or, failing that, by slug.
func (h *Handler) getPageByRef(r *http.Request, ref string) (model.Page, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		page, err := h.queries.GetPageByID(r.Context(), id)
		if err == nil || !errors.Is(err, sql.ErrNoRows) {
			return page, err
		}
	}
	return h.queries.GetPageBySlug(r.Context(), ref)
}

// GetPage handles GET /admin/api/pages/{ref}, accepting an ID or slug.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.getPageByRef(r, chi.URLParam(r, "ref"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Page not found")
		} else {
			WriteInternalError(w, "Failed to retrieve page")
		}
		return
	}
	WriteSuccess(w, pageToResponse(page))
}

// CreatePageRequest is the request body for creating a page.
type CreatePageRequest struct {
	TitleEn     string          `json:"titleEn"`
	TitleAr     string          `json:"titleAr"`
	Slug        string          `json:"slug"`
	Status      string          `json:"status"`
	Template    string          `json:"template"`
	ShowInNav   bool            `json:"showInNav"`
	SortOrder   int64           `json:"sortOrder"`
	ContentEn   string          `json:"contentEn"`
	ContentAr   string          `json:"contentAr"`
	BlocksEn    model.BlockList `json:"blocksEn"`
	BlocksAr    model.BlockList `json:"blocksAr"`
	MetaTitleEn string          `json:"metaTitleEn"`
	MetaDescEn  string          `json:"metaDescEn"`
	MetaTitleAr string          `json:"metaTitleAr"`
	MetaDescAr  string          `json:"metaDescAr"`
}

func validateBlocks(blocks model.BlockList) string {
	for _, b := range blocks {
		if !model.ValidBlockType(b.Type) {
			return "Invalid block type: " + b.Type
		}
	}
	return ""
}

// CreatePage handles POST /admin/api/pages. An explicit slug is used as
// given; otherwise one derives from the English title.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req CreatePageRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.TitleEn == "" {
		WriteBadRequest(w, "titleEn is required")
		return
	}
	if req.Status == "" {
		req.Status = model.StatusDraft
	}
	if !model.ValidStatus(req.Status) {
		WriteBadRequest(w, "Invalid status")
		return
	}
	if msg := validateBlocks(req.BlocksEn); msg != "" {
		WriteBadRequest(w, msg)
		return
	}
	if msg := validateBlocks(req.BlocksAr); msg != "" {
		WriteBadRequest(w, msg)
		return
	}
	if req.Template == "" {
		req.Template = "default"
	}

	var slug string
	var err error
	if req.Slug != "" {
		slug = req.Slug
		count, countErr := h.queries.CountPagesBySlug(r.Context(), slug)
		if countErr != nil {
			WriteInternalError(w, "Failed to check slug")
			return
		}
		if count != 0 {
			WriteConflict(w, "Slug already exists")
			return
		}
	} else {
		slug, err = h.uniqueSlug(req.TitleEn, func(s string) (int64, error) {
			return h.queries.CountPagesBySlug(r.Context(), s)
		})
		if err != nil {
			WriteInternalError(w, "Failed to check slug")
			return
		}
	}

	now := time.Now().UTC()
	var publishedAt sql.NullTime
	tr := model.Transition{From: model.StatusDraft, To: req.Status}
	if stamped := tr.StampPublishedAt(nil, now); stamped != nil {
		publishedAt = sql.NullTime{Time: *stamped, Valid: true}
	}

	blocksEn := req.BlocksEn
	if blocksEn == nil {
		blocksEn = model.BlockList{}
	}
	blocksAr := req.BlocksAr
	if blocksAr == nil {
		blocksAr = model.BlockList{}
	}

	page, err := h.queries.CreatePage(r.Context(), store.CreatePageParams{
		Slug:        slug,
		TitleEn:     req.TitleEn,
		TitleAr:     req.TitleAr,
		Status:      req.Status,
		Template:    req.Template,
		ShowInNav:   req.ShowInNav,
		SortOrder:   req.SortOrder,
		ContentEn:   req.ContentEn,
		ContentAr:   req.ContentAr,
		BlocksEn:    blocksEn,
		BlocksAr:    blocksAr,
		MetaTitleEn: req.MetaTitleEn,
		MetaDescEn:  req.MetaDescEn,
		MetaTitleAr: req.MetaTitleAr,
		MetaDescAr:  req.MetaDescAr,
		PublishedAt: publishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create page")
		return
	}

	h.audit.Record(service.AuditEntry{
		Action:     model.AuditActionCreate,
		EntityType: model.EntityTypePage,
		EntityID:   page.ID,
		UserID:     middleware.GetUserID(r),
		Details:    map[string]any{"slug": page.Slug, "title": page.TitleEn, "status": page.Status},
		IPAddress:  clientIP(r),
	})

	WriteCreated(w, pageToResponse(page))
}

// UpdatePageRequest is the request body for partial page updates.
// Block lists replace wholesale; targeted block edits go through the
// block endpoints.
type UpdatePageRequest struct {
	TitleEn     *string          `json:"titleEn"`
	TitleAr     *string          `json:"titleAr"`
	Status      *string          `json:"status"`
	Template    *string          `json:"template"`
	ShowInNav   *bool            `json:"showInNav"`
	SortOrder   *int64           `json:"sortOrder"`
	ContentEn   *string          `json:"contentEn"`
	ContentAr   *string          `json:"contentAr"`
	BlocksEn    *model.BlockList `json:"blocksEn"`
	BlocksAr    *model.BlockList `json:"blocksAr"`
	MetaTitleEn *string          `json:"metaTitleEn"`
	MetaDescEn  *string          `json:"metaDescEn"`
	MetaTitleAr *string          `json:"metaTitleAr"`
	MetaDescAr  *string          `json:"metaDescAr"`
}

// savePage persists the full merged page row and returns the response.
func (h *Handler) savePage(w http.ResponseWriter, r *http.Request, merged model.Page, tr model.Transition, now time.Time) {
	stamped := tr.StampPublishedAt(nullTimePtr(merged.PublishedAt), now)
	publishedAt := sql.NullTime{}
	if stamped != nil {
		publishedAt = sql.NullTime{Time: *stamped, Valid: true}
	}

	updated, err := h.queries.UpdatePage(r.Context(), store.UpdatePageParams{
		ID:          merged.ID,
		TitleEn:     merged.TitleEn,
		TitleAr:     merged.TitleAr,
		Status:      merged.Status,
		Template:    merged.Template,
		ShowInNav:   merged.ShowInNav,
		SortOrder:   merged.SortOrder,
		ContentEn:   merged.ContentEn,
		ContentAr:   merged.ContentAr,
		BlocksEn:    merged.BlocksEn,
		BlocksAr:    merged.BlocksAr,
		MetaTitleEn: merged.MetaTitleEn,
		MetaDescEn:  merged.MetaDescEn,
		MetaTitleAr: merged.MetaTitleAr,
		MetaDescAr:  merged.MetaDescAr,
		PublishedAt: publishedAt,
		UpdatedAt:   now,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update page")
		return
	}

	h.audit.Record(service.AuditEntry{
		Action:     tr.AuditAction(),
		EntityType: model.EntityTypePage,
		EntityID:   updated.ID,
		UserID:     middleware.GetUserID(r),
		Details:    map[string]any{"slug": updated.Slug, "from": tr.From, "to": tr.To},
		IPAddress:  clientIP(r),
	})

	WriteSuccess(w, pageToResponse(updated))
}

// UpdatePage handles PATCH /admin/api/pages/{id}.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	current, ok := requireEntityByID(w, r, "page", func(id int64) (model.Page, error) {
		return h.queries.GetPageByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req UpdatePageRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.TitleEn != nil && *req.TitleEn == "" {
		WriteBadRequest(w, "titleEn cannot be empty")
		return
	}
	if req.Status != nil && !model.ValidStatus(*req.Status) {
		WriteBadRequest(w, "Invalid status")
		return
	}
	if req.BlocksEn != nil {
		if msg := validateBlocks(*req.BlocksEn); msg != "" {
			WriteBadRequest(w, msg)
			return
		}
	}
	if req.BlocksAr != nil {
		if msg := validateBlocks(*req.BlocksAr); msg != "" {
			WriteBadRequest(w, msg)
			return
		}
	}

	merged := current
	setStr(&merged.TitleEn, req.TitleEn)
	setStr(&merged.TitleAr, req.TitleAr)
	setStr(&merged.Template, req.Template)
	setStr(&merged.ContentEn, req.ContentEn)
	setStr(&merged.ContentAr, req.ContentAr)
	setStr(&merged.MetaTitleEn, req.MetaTitleEn)
	setStr(&merged.MetaDescEn, req.MetaDescEn)
	setStr(&merged.MetaTitleAr, req.MetaTitleAr)
	setStr(&merged.MetaDescAr, req.MetaDescAr)
	if req.ShowInNav != nil {
		merged.ShowInNav = *req.ShowInNav
	}
	if req.SortOrder != nil {
		merged.SortOrder = *req.SortOrder
	}
	if req.BlocksEn != nil {
		merged.BlocksEn = *req.BlocksEn
	}
	if req.BlocksAr != nil {
		merged.BlocksAr = *req.BlocksAr
	}
	if req.Status != nil {
		merged.Status = *req.Status
	}

	h.savePage(w, r, merged, model.Transition{From: current.Status, To: merged.Status}, time.Now().UTC())
}

// DeletePage handles DELETE /admin/api/pages/{id}.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	page, ok := requireEntityByID(w, r, "page", func(id int64) (model.Page, error) {
		return h.queries.GetPageByID(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeletePage(r.Context(), page.ID); err != nil {
		WriteInternalError(w, "Failed to delete page")
		return
	}

	h.audit.Record(service.AuditEntry{
		Action:     model.AuditActionDelete,
		EntityType: model.EntityTypePage,
		EntityID:   page.ID,
		UserID:     middleware.GetUserID(r),
		Details:    map[string]any{"slug": page.Slug, "title": page.TitleEn},
		IPAddress:  clientIP(r),
	})

	WriteSuccess(w, map[string]any{"deleted": true})
}

// blockLocale reads the locale query parameter for block operations.
// Unlike content fallback, block edits always target exactly one locale.
func blockLocale(r *http.Request) i18n.Locale {
	return i18n.ParseLocale(r.URL.Query().Get("locale"))
}

// AddBlockRequest is the request body for appending a block.
type AddBlockRequest struct {
	Type string `json:"type"`
}

// AddPageBlock handles POST /admin/api/pages/{id}/blocks. The new block
// is appended to the targeted locale's sequence with default data.
func (h *Handler) AddPageBlock(w http.ResponseWriter, r *http.Request) {
	page, ok := requireEntityByID(w, r, "page", func(id int64) (model.Page, error) {
		return h.queries.GetPageByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req AddBlockRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !model.ValidBlockType(req.Type) {
		WriteBadRequest(w, "Invalid block type")
		return
	}

	locale := blockLocale(r)
	now := time.Now().UTC()
	blocks := page.Blocks(locale)
	blocks.Add(req.Type, now)
	page.SetBlocks(locale, blocks)

	h.savePage(w, r, page, model.Transition{From: page.Status, To: page.Status}, now)
}

// UpdateBlockRequest is the request body for a shallow block-data merge.
type UpdateBlockRequest struct {
	Data map[string]any `json:"data"`
}

// UpdatePageBlock handles PATCH /admin/api/pages/{id}/blocks/{blockId}.
// Supplied data keys overwrite; absent keys survive. An unknown block
// id leaves the sequence unchanged.
func (h *Handler) UpdatePageBlock(w http.ResponseWriter, r *http.Request) {
	page, ok := requireEntityByID(w, r, "page", func(id int64) (model.Page, error) {
		return h.queries.GetPageByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req UpdateBlockRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	locale := blockLocale(r)
	blocks := page.Blocks(locale)
	blocks.Update(chi.URLParam(r, "blockId"), req.Data)
	page.SetBlocks(locale, blocks)

	h.savePage(w, r, page, model.Transition{From: page.Status, To: page.Status}, time.Now().UTC())
}

// RemovePageBlock handles DELETE /admin/api/pages/{id}/blocks/{blockId}.
// Removing an unknown block id is a no-op.
func (h *Handler) RemovePageBlock(w http.ResponseWriter, r *http.Request) {
	page, ok := requireEntityByID(w, r, "page", func(id int64) (model.Page, error) {
		return h.queries.GetPageByID(r.Context(), id)
	})
	if !ok {
		return
	}

	locale := blockLocale(r)
	blocks := page.Blocks(locale)
	blocks.Remove(chi.URLParam(r, "blockId"))
	page.SetBlocks(locale, blocks)

	h.savePage(w, r, page, model.Transition{From: page.Status, To: page.Status}, time.Now().UTC())
}
