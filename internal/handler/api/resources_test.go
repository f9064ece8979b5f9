// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"testing"
)

func createResourceViaAPI(t *testing.T, h *Handler, body string) ResourceResponse {
	t.Helper()
	req := asEditor(newJSONRequest(t, http.MethodPost, "/admin/api/resources", body, nil))
	w := executeHandler(h.CreateResource, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("CreateResource status = %d, body = %s", w.Code, w.Body.String())
	}
	return unmarshalData[ResourceResponse](t, w)
}

func TestCreateResourceDefaults(t *testing.T) {
	h, _ := testSetup(t)

	res := createResourceViaAPI(t, h, `{"titleEn": "Annual Market Review"}`)

	if res.Slug != "annual-market-review" {
		t.Errorf("slug = %q, want annual-market-review", res.Slug)
	}
	if res.Status != "DRAFT" {
		t.Errorf("status = %q, want DRAFT", res.Status)
	}
	if res.Type != "REPORT" {
		t.Errorf("type = %q, want REPORT", res.Type)
	}
	if res.PublishedAt != nil {
		t.Error("draft resource should not have publishedAt")
	}
}

func TestCreateResourceRequiresTitle(t *testing.T) {
	h, _ := testSetup(t)

	req := asEditor(newJSONRequest(t, http.MethodPost, "/admin/api/resources", `{"titleAr": "تقرير"}`, nil))
	w := executeHandler(h.CreateResource, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCreateResourceSlugCollision(t *testing.T) {
	h, _ := testSetup(t)

	first := createResourceViaAPI(t, h, `{"titleEn": "Quarterly Outlook"}`)
	second := createResourceViaAPI(t, h, `{"titleEn": "Quarterly Outlook"}`)

	if first.Slug == second.Slug {
		t.Errorf("expected distinct slugs, both = %q", first.Slug)
	}
	if second.Slug == "" {
		t.Error("second slug is empty")
	}
}

func TestUpdateResourcePublishStampsOnce(t *testing.T) {
	h, _ := testSetup(t)

	res := createResourceViaAPI(t, h, `{"titleEn": "IPO Guide"}`)
	params := map[string]string{"id": fmt.Sprint(res.ID)}

	req := asEditor(newJSONRequest(t, http.MethodPatch, "/admin/api/resources/1", `{"status": "PUBLISHED"}`, params))
	w := executeHandler(h.UpdateResource, req)
	if w.Code != http.StatusOK {
		t.Fatalf("publish status = %d, body = %s", w.Code, w.Body.String())
	}
	published := unmarshalData[ResourceResponse](t, w)
	if published.PublishedAt == nil {
		t.Fatal("publishedAt not stamped on publish")
	}
	firstStamp := *published.PublishedAt

	// Unpublish and republish; the original timestamp must survive.
	req = asEditor(newJSONRequest(t, http.MethodPatch, "/admin/api/resources/1", `{"status": "DRAFT"}`, params))
	w = executeHandler(h.UpdateResource, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unpublish status = %d", w.Code)
	}

	req = asEditor(newJSONRequest(t, http.MethodPatch, "/admin/api/resources/1", `{"status": "PUBLISHED"}`, params))
	w = executeHandler(h.UpdateResource, req)
	republished := unmarshalData[ResourceResponse](t, w)
	if republished.PublishedAt == nil {
		t.Fatal("publishedAt lost on republish")
	}
	if !republished.PublishedAt.Equal(firstStamp) {
		t.Errorf("publishedAt restamped: %v != %v", republished.PublishedAt, firstStamp)
	}
}

func TestUpdateResourcePartialMerge(t *testing.T) {
	h, _ := testSetup(t)

	res := createResourceViaAPI(t, h,
		`{"titleEn": "Tax Brief", "titleAr": "ملخص الضرائب", "publisher": "Causeway Research", "year": 2025}`)
	params := map[string]string{"id": fmt.Sprint(res.ID)}

	req := asEditor(newJSONRequest(t, http.MethodPatch, "/admin/api/resources/1",
		`{"titleEn": "Tax Brief 2026", "year": null}`, params))
	w := executeHandler(h.UpdateResource, req)
	updated := unmarshalData[ResourceResponse](t, w)

	if updated.TitleEn != "Tax Brief 2026" {
		t.Errorf("titleEn = %q", updated.TitleEn)
	}
	if updated.TitleAr != "ملخص الضرائب" {
		t.Errorf("titleAr should be untouched, got %q", updated.TitleAr)
	}
	if updated.Publisher != "Causeway Research" {
		t.Errorf("publisher should be untouched, got %q", updated.Publisher)
	}
	if updated.Year != nil {
		t.Errorf("year should be cleared by explicit null, got %v", *updated.Year)
	}
}

func TestPublicResourceVisibility(t *testing.T) {
	h, _ := testSetup(t)

	createResourceViaAPI(t, h, `{"titleEn": "Hidden Draft"}`)
	createResourceViaAPI(t, h, `{"titleEn": "Visible Report", "status": "PUBLISHED"}`)

	w := executeHandler(h.ListPublicResources, newGetRequest(t, "/api/resources", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	items, total := unmarshalPaged[PublicResourceResponse](t, w)
	if total != 1 || len(items) != 1 {
		t.Fatalf("public list total = %d, items = %d, want 1", total, len(items))
	}
	if items[0].Slug != "visible-report" {
		t.Errorf("slug = %q", items[0].Slug)
	}

	// Drafts 404 on the public detail endpoint.
	req := newGetRequest(t, "/api/resources/hidden-draft", map[string]string{"slug": "hidden-draft"})
	w = executeHandler(h.GetPublicResource, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("draft detail status = %d, want 404", w.Code)
	}
}

func TestPublicResourceLocaleFallback(t *testing.T) {
	h, _ := testSetup(t)

	createResourceViaAPI(t, h,
		`{"titleEn": "Bond Primer", "titleAr": "دليل السندات", "status": "PUBLISHED"}`)

	req := newGetRequest(t, "/api/resources/bond-primer?locale=ar", map[string]string{"slug": "bond-primer"})
	w := executeHandler(h.GetPublicResource, req)
	res := unmarshalData[PublicResourceResponse](t, w)
	if res.Title != "دليل السندات" {
		t.Errorf("arabic title = %q", res.Title)
	}

	// A resource without Arabic falls back to English.
	createResourceViaAPI(t, h, `{"titleEn": "English Only", "status": "PUBLISHED"}`)
	req = newGetRequest(t, "/api/resources/english-only?locale=ar", map[string]string{"slug": "english-only"})
	w = executeHandler(h.GetPublicResource, req)
	res = unmarshalData[PublicResourceResponse](t, w)
	if res.Title != "English Only" {
		t.Errorf("fallback title = %q", res.Title)
	}
}

func TestListResourcesPaginationClamp(t *testing.T) {
	h, _ := testSetup(t)

	for i := 0; i < 3; i++ {
		createResourceViaAPI(t, h, fmt.Sprintf(`{"titleEn": "Report %d", "status": "PUBLISHED"}`, i))
	}

	w := executeHandler(h.ListPublicResources, newGetRequest(t, "/api/resources?page=-5&limit=9999", nil))
	items, total := unmarshalPaged[PublicResourceResponse](t, w)
	if total != 3 || len(items) != 3 {
		t.Fatalf("total = %d, items = %d", total, len(items))
	}
}

func TestDeleteResource(t *testing.T) {
	h, queries := testSetup(t)

	res := createResourceViaAPI(t, h, `{"titleEn": "Short Lived"}`)
	params := map[string]string{"id": fmt.Sprint(res.ID)}

	req := asEditor(newJSONRequest(t, http.MethodDelete, "/admin/api/resources/1", "", params))
	w := executeHandler(h.DeleteResource, req)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}

	if _, err := queries.GetResourceByID(req.Context(), res.ID); err == nil {
		t.Error("resource still present after delete")
	}

	// Deleting again yields not found.
	w = executeHandler(h.DeleteResource, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}
