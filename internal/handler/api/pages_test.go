// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"testing"
)

func createPageViaAPI(t *testing.T, h *Handler, body string) PageResponse {
	t.Helper()
	req := asEditor(newJSONRequest(t, http.MethodPost, "/admin/api/pages", body, nil))
	w := executeHandler(h.CreatePage, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("CreatePage status = %d, body = %s", w.Code, w.Body.String())
	}
	return unmarshalData[PageResponse](t, w)
}

func TestCreatePage(t *testing.T) {
	h, _ := testSetup(t)

	page := createPageViaAPI(t, h, `{"titleEn": "About Us", "titleAr": "من نحن"}`)
	if page.Slug != "about-us" {
		t.Errorf("slug = %q", page.Slug)
	}
	if page.Status != "DRAFT" {
		t.Errorf("status = %q", page.Status)
	}
	if page.BlocksEn == nil || page.BlocksAr == nil {
		t.Error("block lists should initialize to empty, not null")
	}
}

func TestCreatePageExplicitSlugConflict(t *testing.T) {
	h, _ := testSetup(t)

	createPageViaAPI(t, h, `{"titleEn": "Services", "slug": "services"}`)

	req := asEditor(newJSONRequest(t, http.MethodPost, "/admin/api/pages",
		`{"titleEn": "Other Services", "slug": "services"}`, nil))
	w := executeHandler(h.CreatePage, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestGetPageByIDOrSlug(t *testing.T) {
	h, _ := testSetup(t)

	page := createPageViaAPI(t, h, `{"titleEn": "Contact"}`)

	byID := executeHandler(h.GetPage, newGetRequest(t, "/admin/api/pages/1",
		map[string]string{"ref": fmt.Sprint(page.ID)}))
	if byID.Code != http.StatusOK {
		t.Fatalf("get by id status = %d", byID.Code)
	}

	bySlug := executeHandler(h.GetPage, newGetRequest(t, "/admin/api/pages/contact",
		map[string]string{"ref": "contact"}))
	if bySlug.Code != http.StatusOK {
		t.Fatalf("get by slug status = %d", bySlug.Code)
	}
	if unmarshalData[PageResponse](t, bySlug).ID != page.ID {
		t.Error("slug lookup returned a different page")
	}
}

func TestPublicPageVisibility(t *testing.T) {
	h, _ := testSetup(t)

	createPageViaAPI(t, h, `{"titleEn": "Draft Page"}`)
	createPageViaAPI(t, h, `{"titleEn": "Live Page", "status": "PUBLISHED", "contentEn": "# Welcome"}`)

	w := executeHandler(h.ListPublicPages, newGetRequest(t, "/api/pages", nil))
	pages := unmarshalData[[]PublicPageResponse](t, w)
	if len(pages) != 1 {
		t.Fatalf("public pages = %d, want 1", len(pages))
	}
	if pages[0].ContentHTML == "" {
		t.Error("published page content should be rendered")
	}

	req := newGetRequest(t, "/api/pages/draft-page", map[string]string{"slug": "draft-page"})
	if w := executeHandler(h.GetPublicPage, req); w.Code != http.StatusNotFound {
		t.Errorf("draft page status = %d, want 404", w.Code)
	}
}

func TestPageBlockOperations(t *testing.T) {
	h, _ := testSetup(t)

	page := createPageViaAPI(t, h, `{"titleEn": "Home"}`)
	params := map[string]string{"id": fmt.Sprint(page.ID)}

	// Add a hero block to the English sequence only.
	req := asEditor(newJSONRequest(t, http.MethodPost, "/admin/api/pages/1/blocks?locale=en",
		`{"type": "hero"}`, params))
	w := executeHandler(h.AddPageBlock, req)
	if w.Code != http.StatusOK {
		t.Fatalf("add block status = %d, body = %s", w.Code, w.Body.String())
	}
	updated := unmarshalData[PageResponse](t, w)
	if len(updated.BlocksEn) != 1 {
		t.Fatalf("blocksEn = %d, want 1", len(updated.BlocksEn))
	}
	if len(updated.BlocksAr) != 0 {
		t.Errorf("blocksAr = %d, locales must stay independent", len(updated.BlocksAr))
	}
	blockID := updated.BlocksEn[0].ID

	// Shallow-merge data into the block.
	blockParams := map[string]string{"id": fmt.Sprint(page.ID), "blockId": blockID}
	req = asEditor(newJSONRequest(t, http.MethodPatch, "/admin/api/pages/1/blocks/"+blockID+"?locale=en",
		`{"data": {"heading": "Welcome"}}`, blockParams))
	w = executeHandler(h.UpdatePageBlock, req)
	updated = unmarshalData[PageResponse](t, w)
	if updated.BlocksEn[0].Data["heading"] != "Welcome" {
		t.Errorf("block data = %v", updated.BlocksEn[0].Data)
	}

	// Updating an unknown block id is a no-op, not an error.
	missingParams := map[string]string{"id": fmt.Sprint(page.ID), "blockId": "nope"}
	req = asEditor(newJSONRequest(t, http.MethodPatch, "/admin/api/pages/1/blocks/nope?locale=en",
		`{"data": {"heading": "x"}}`, missingParams))
	w = executeHandler(h.UpdatePageBlock, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unknown block update status = %d", w.Code)
	}
	updated = unmarshalData[PageResponse](t, w)
	if updated.BlocksEn[0].Data["heading"] != "Welcome" {
		t.Error("unknown block update must not touch existing blocks")
	}

	// Remove the block.
	req = asEditor(newJSONRequest(t, http.MethodDelete, "/admin/api/pages/1/blocks/"+blockID+"?locale=en",
		"", blockParams))
	w = executeHandler(h.RemovePageBlock, req)
	updated = unmarshalData[PageResponse](t, w)
	if len(updated.BlocksEn) != 0 {
		t.Errorf("blocksEn = %d after remove, want 0", len(updated.BlocksEn))
	}
}

func TestAddPageBlockRejectsUnknownType(t *testing.T) {
	h, _ := testSetup(t)

	page := createPageViaAPI(t, h, `{"titleEn": "Home"}`)
	params := map[string]string{"id": fmt.Sprint(page.ID)}

	req := asEditor(newJSONRequest(t, http.MethodPost, "/admin/api/pages/1/blocks",
		`{"type": "marquee"}`, params))
	w := executeHandler(h.AddPageBlock, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUpdatePagePublishStampsOnce(t *testing.T) {
	h, _ := testSetup(t)

	page := createPageViaAPI(t, h, `{"titleEn": "News"}`)
	params := map[string]string{"id": fmt.Sprint(page.ID)}

	req := asEditor(newJSONRequest(t, http.MethodPatch, "/admin/api/pages/1",
		`{"status": "PUBLISHED"}`, params))
	w := executeHandler(h.UpdatePage, req)
	published := unmarshalData[PageResponse](t, w)
	if published.PublishedAt == nil {
		t.Fatal("publishedAt not stamped")
	}
	first := *published.PublishedAt

	req = asEditor(newJSONRequest(t, http.MethodPatch, "/admin/api/pages/1",
		`{"status": "DRAFT"}`, params))
	executeHandler(h.UpdatePage, req)

	req = asEditor(newJSONRequest(t, http.MethodPatch, "/admin/api/pages/1",
		`{"status": "PUBLISHED"}`, params))
	w = executeHandler(h.UpdatePage, req)
	again := unmarshalData[PageResponse](t, w)
	if again.PublishedAt == nil || !again.PublishedAt.Equal(first) {
		t.Error("publishedAt must keep its first-publish value")
	}
}
