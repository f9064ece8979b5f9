// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/causewaygrp/finance-cms/internal/seo"
)

// Sitemap handles GET /sitemap.xml. The homepage, every published
// page, and every published resource appear once per locale with
// hreflang alternates.
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	builder := seo.NewSitemapBuilder(h.cfg.SiteURL)
	builder.AddHomepage()

	pages, err := h.queries.ListPages(r.Context(), true)
	if err != nil {
		WriteInternalError(w, "Failed to build sitemap")
		return
	}
	for _, p := range pages {
		builder.AddPage(seo.SitemapEntry{Path: p.Slug, UpdatedAt: p.UpdatedAt})
	}

	resources, err := h.queries.ListPublishedResourceSlugs(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to build sitemap")
		return
	}
	for _, res := range resources {
		builder.AddResource(seo.SitemapEntry{Path: "resources/" + res.Slug, UpdatedAt: res.UpdatedAt})
	}

	out, err := builder.Build()
	if err != nil {
		WriteInternalError(w, "Failed to build sitemap")
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}
