// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/causewaygrp/finance-cms/internal/service"
)

// SearchResult is a single hit in the site-wide search.
type SearchResult struct {
	Type    string `json:"type"`
	ID      int64  `json:"id"`
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt,omitempty"`
	URL     string `json:"url"`
}

// SearchResponse groups results with the query that produced them.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
}

const searchExcerptLen = 160

// excerpt trims content to a short plain snippet for result listings.
func excerpt(content string) string {
	content = strings.TrimSpace(content)
	if len(content) <= searchExcerptLen {
		return content
	}
	cut := content[:searchExcerptLen]
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}

// Search handles GET /api/search. Queries shorter than two characters
// are rejected. The type parameter narrows results to resources or
// pages; anything else searches both.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(q) < 2 {
		WriteBadRequest(w, "Search query must be at least 2 characters")
		return
	}

	limit := int64(DefaultPageSize)
	if v, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && v > 0 {
		limit = v
	}
	if limit > MaxSearchSize {
		limit = MaxSearchSize
	}

	searchType := r.URL.Query().Get("type")
	locale := requestLocale(r)
	results := make([]SearchResult, 0, limit)

	if searchType == "" || searchType == "all" || searchType == "resources" {
		resources, err := h.queries.SearchPublishedResources(r.Context(), q, limit)
		if err != nil {
			WriteInternalError(w, "Search failed")
			return
		}
		for _, res := range resources {
			results = append(results, SearchResult{
				Type:    "resource",
				ID:      res.ID,
				Slug:    res.Slug,
				Title:   res.Title().Resolve(locale),
				Excerpt: excerpt(res.Description().Resolve(locale)),
				URL:     "/" + string(locale) + "/resources/" + res.Slug,
			})
		}
	}

	if searchType == "" || searchType == "all" || searchType == "pages" {
		pages, err := h.queries.SearchPublishedPages(r.Context(), q, limit)
		if err != nil {
			WriteInternalError(w, "Search failed")
			return
		}
		for _, p := range pages {
			results = append(results, SearchResult{
				Type:    "page",
				ID:      p.ID,
				Slug:    p.Slug,
				Title:   p.Title().Resolve(locale),
				Excerpt: excerpt(plainText(p.Content().Resolve(locale))),
				URL:     "/" + string(locale) + "/" + p.Slug,
			})
		}
	}

	if len(results) > int(limit) {
		results = results[:limit]
	}

	WriteSuccess(w, SearchResponse{Query: q, Results: results, Total: len(results)})
}

// plainText strips markup from content so excerpts stay readable.
func plainText(content string) string {
	html, err := service.RenderMarkdown(content)
	if err != nil {
		return content
	}
	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteRune(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
