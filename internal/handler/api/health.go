// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/causewaygrp/finance-cms/internal/model"
)

// Health handles GET /api/health, the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		WriteError(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	WriteSuccess(w, map[string]any{"status": "ok", "database": "ok"})
}

// ContentHealthResponse summarizes the state of the content catalog.
type ContentHealthResponse struct {
	Resources struct {
		Total         int64 `json:"total"`
		Published     int64 `json:"published"`
		Draft         int64 `json:"draft"`
		Archived      int64 `json:"archived"`
		MissingArabic int64 `json:"missingArabic"`
	} `json:"resources"`
	Pages struct {
		Total         int64 `json:"total"`
		Published     int64 `json:"published"`
		MissingArabic int64 `json:"missingArabic"`
	} `json:"pages"`
	Categories     int64              `json:"categories"`
	Uploads        int64              `json:"uploads"`
	BrokenLinks    int64              `json:"brokenLinks"`
	RecentActivity []AuditLogResponse `json:"recentActivity"`
}

// recentActivitySize is how many audit entries the report carries.
const recentActivitySize = 10

// ContentHealth handles GET /admin/api/health/content, reporting counts
// the dashboard surfaces: publication totals, untranslated published
// content, and broken external links from the last check run.
func (h *Handler) ContentHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var resp ContentHealthResponse
	var err error

	counts := []struct {
		dst  *int64
		load func() (int64, error)
	}{
		{&resp.Resources.Published, func() (int64, error) { return h.queries.CountResourcesByStatus(ctx, model.StatusPublished) }},
		{&resp.Resources.Draft, func() (int64, error) { return h.queries.CountResourcesByStatus(ctx, model.StatusDraft) }},
		{&resp.Resources.Archived, func() (int64, error) { return h.queries.CountResourcesByStatus(ctx, model.StatusArchived) }},
		{&resp.Resources.MissingArabic, func() (int64, error) { return h.queries.CountPublishedResourcesMissingArabic(ctx) }},
		{&resp.Pages.Total, func() (int64, error) { return h.queries.CountPages(ctx) }},
		{&resp.Pages.Published, func() (int64, error) { return h.queries.CountPagesByStatus(ctx, model.StatusPublished) }},
		{&resp.Pages.MissingArabic, func() (int64, error) { return h.queries.CountPublishedPagesMissingArabic(ctx) }},
		{&resp.Categories, func() (int64, error) { return h.queries.CountCategories(ctx) }},
		{&resp.Uploads, func() (int64, error) { return h.queries.CountFileUploads(ctx) }},
		{&resp.BrokenLinks, func() (int64, error) { return h.queries.CountBrokenLinks(ctx) }},
	}
	for _, c := range counts {
		if *c.dst, err = c.load(); err != nil {
			WriteInternalError(w, "Failed to compute content health")
			return
		}
	}
	resp.Resources.Total = resp.Resources.Published + resp.Resources.Draft + resp.Resources.Archived

	recent, err := h.queries.ListRecentAuditLogs(ctx, recentActivitySize)
	if err != nil {
		WriteInternalError(w, "Failed to compute content health")
		return
	}
	resp.RecentActivity = make([]AuditLogResponse, 0, len(recent))
	for _, a := range recent {
		resp.RecentActivity = append(resp.RecentActivity, auditLogToResponse(a))
	}

	WriteSuccess(w, resp)
}

// RunLinkCheck handles POST /admin/api/health/link-check. Every
// external URL on a published resource is probed; results overwrite the
// previous run's row for the same resource.
func (h *Handler) RunLinkCheck(w http.ResponseWriter, r *http.Request) {
	summary, err := h.links.Run(r.Context())
	if err != nil {
		h.logger.Error("link check run failed", "error", err)
		WriteInternalError(w, "Link check failed")
		return
	}
	WriteSuccess(w, summary)
}
