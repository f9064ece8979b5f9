// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/causewaygrp/finance-cms/internal/auth"
	"github.com/causewaygrp/finance-cms/internal/model"
	"github.com/causewaygrp/finance-cms/internal/store"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 20},
		{"explicit", "page=3&limit=10", 3, 10},
		{"limit capped", "limit=500", 1, 100},
		{"negative page", "page=-2", 1, 20},
		{"garbage", "page=abc&limit=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			page, limit := ParsePagination(req)
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("ParsePagination() = (%d, %d), want (%d, %d)", page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestOptionalUnmarshal(t *testing.T) {
	var req UpdateResourceRequest
	if err := json.Unmarshal([]byte(`{"year": null, "categoryId": 7}`), &req); err != nil {
		t.Fatal(err)
	}

	if !req.Year.Set || req.Year.Valid {
		t.Errorf("explicit null: Set = %v, Valid = %v, want true/false", req.Year.Set, req.Year.Valid)
	}
	if !req.CategoryID.Set || !req.CategoryID.Valid || req.CategoryID.Value != 7 {
		t.Errorf("present value: %+v", req.CategoryID)
	}
	if req.FileSize.Set {
		t.Error("absent field must not be marked Set")
	}
}

func TestSearchMinimumQueryLength(t *testing.T) {
	h, _ := testSetup(t)

	w := executeHandler(h.Search, newGetRequest(t, "/api/search?q=a", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSearchFindsPublishedOnly(t *testing.T) {
	h, _ := testSetup(t)

	createResourceViaAPI(t, h, `{"titleEn": "Sukuk Market Deep Dive", "status": "PUBLISHED"}`)
	createResourceViaAPI(t, h, `{"titleEn": "Sukuk Draft Notes"}`)
	createPageViaAPI(t, h, `{"titleEn": "Sukuk Services", "status": "PUBLISHED"}`)

	w := executeHandler(h.Search, newGetRequest(t, "/api/search?q=sukuk", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	result := unmarshalData[SearchResponse](t, w)
	if result.Total != 2 {
		t.Fatalf("total = %d, want 2 (draft excluded)", result.Total)
	}

	types := map[string]bool{}
	for _, r := range result.Results {
		types[r.Type] = true
	}
	if !types["resource"] || !types["page"] {
		t.Errorf("expected both result types, got %v", types)
	}

	// Narrowing by type drops the page hit.
	w = executeHandler(h.Search, newGetRequest(t, "/api/search?q=sukuk&type=resources", nil))
	result = unmarshalData[SearchResponse](t, w)
	if result.Total != 1 || result.Results[0].Type != "resource" {
		t.Errorf("narrowed results = %+v", result.Results)
	}
}

func TestContentHealth(t *testing.T) {
	h, _ := testSetup(t)

	createResourceViaAPI(t, h, `{"titleEn": "Published", "titleAr": "منشور", "status": "PUBLISHED"}`)
	createResourceViaAPI(t, h, `{"titleEn": "Untranslated", "status": "PUBLISHED"}`)
	createResourceViaAPI(t, h, `{"titleEn": "Draft"}`)
	createPageViaAPI(t, h, `{"titleEn": "Home", "status": "PUBLISHED"}`)

	w := executeHandler(h.ContentHealth, newGetRequest(t, "/admin/api/health/content", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	health := unmarshalData[ContentHealthResponse](t, w)

	if health.Resources.Published != 2 || health.Resources.Draft != 1 {
		t.Errorf("resource counts = %+v", health.Resources)
	}
	if health.Resources.MissingArabic != 1 {
		t.Errorf("missingArabic = %d, want 1", health.Resources.MissingArabic)
	}
	if health.Pages.Published != 1 {
		t.Errorf("pages published = %d", health.Pages.Published)
	}
	if health.Resources.Total != 3 {
		t.Errorf("resources total = %d", health.Resources.Total)
	}
	if health.RecentActivity == nil {
		t.Error("recentActivity should always be present")
	}
}

func TestAuditLogEndpoint(t *testing.T) {
	h, queries := testSetup(t)
	ctx := context.Background()

	for i, entity := range []string{model.EntityTypeResource, model.EntityTypePage, model.EntityTypeResource} {
		err := queries.CreateAuditLog(ctx, store.CreateAuditLogParams{
			Action:     model.AuditActionCreate,
			EntityType: entity,
			CreatedAt:  time.Now().UTC().Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	w := executeHandler(h.ListAuditLogs, newGetRequest(t, "/admin/api/audit", nil))
	logs, total := unmarshalPaged[AuditLogResponse](t, w)
	if total != 3 || len(logs) != 3 {
		t.Fatalf("total = %d, logs = %d", total, len(logs))
	}

	w = executeHandler(h.ListAuditLogs, newGetRequest(t, "/admin/api/audit?entityType=Page", nil))
	logs, total = unmarshalPaged[AuditLogResponse](t, w)
	if total != 1 || logs[0].EntityType != model.EntityTypePage {
		t.Errorf("filtered total = %d", total)
	}
}

func TestLoginFlow(t *testing.T) {
	h, queries := testSetup(t)
	ctx := context.Background()

	hash, err := auth.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now().UTC()
	_, err = queries.CreateUser(ctx, store.CreateUserParams{
		Email:        "admin@causewaygrp.com",
		Name:         "Admin",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatal(err)
	}

	login := func(body string) *httptest.ResponseRecorder {
		req := newJSONRequest(t, http.MethodPost, "/admin/api/auth/login", body, nil)
		w := httptest.NewRecorder()
		h.sessions.LoadAndSave(http.HandlerFunc(h.Login)).ServeHTTP(w, req)
		return w
	}

	w := login(`{"email": "admin@causewaygrp.com", "password": "s3cret-pass"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}
	user := unmarshalData[UserResponse](t, w)
	if user.Role != model.RoleAdmin {
		t.Errorf("role = %q", user.Role)
	}

	// Wrong password and unknown account produce the same response.
	bad := login(`{"email": "admin@causewaygrp.com", "password": "wrong"}`)
	missing := login(`{"email": "nobody@causewaygrp.com", "password": "wrong"}`)
	if bad.Code != http.StatusUnauthorized || missing.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d, %d, want 401", bad.Code, missing.Code)
	}
	if responseError(t, bad) != responseError(t, missing) {
		t.Error("wrong password and unknown account must be indistinguishable")
	}
}

func TestUploadEndpoint(t *testing.T) {
	h, _ := testSetup(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="report.pdf"`},
		"Content-Type":        {"application/pdf"},
	})
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write([]byte("%PDF-1.4 test document"))
	_ = mw.WriteField("folder", "resources")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/admin/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := executeHandler(h.Upload, asEditor(req))
	if w.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body = %s", w.Code, w.Body.String())
	}

	upload := unmarshalData[UploadResponse](t, w)
	if upload.OriginalName != "report.pdf" {
		t.Errorf("originalName = %q", upload.OriginalName)
	}
	if !strings.HasPrefix(upload.URL, "/uploads/resources/") {
		t.Errorf("url = %q", upload.URL)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	h, _ := testSetup(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="script.sh"`},
		"Content-Type":        {"application/x-sh"},
	})
	_, _ = part.Write([]byte("#!/bin/sh"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/admin/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := executeHandler(h.Upload, asEditor(req))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSitemap(t *testing.T) {
	h, _ := testSetup(t)

	createPageViaAPI(t, h, `{"titleEn": "About", "status": "PUBLISHED"}`)
	createResourceViaAPI(t, h, `{"titleEn": "Yearbook", "status": "PUBLISHED"}`)
	createResourceViaAPI(t, h, `{"titleEn": "Unlisted Draft"}`)

	w := executeHandler(h.Sitemap, newGetRequest(t, "/sitemap.xml", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	body := w.Body.String()
	// Homepage, one page, one resource, each in two locales.
	if got := strings.Count(body, "<loc>"); got != 6 {
		t.Errorf("loc count = %d, want 6", got)
	}
	if !strings.Contains(body, "https://finance.example.com/ar/resources/yearbook") {
		t.Error("missing arabic resource URL")
	}
	if strings.Contains(body, "unlisted-draft") {
		t.Error("draft resource leaked into sitemap")
	}
	if !strings.Contains(body, `hreflang="en"`) || !strings.Contains(body, `hreflang="ar"`) {
		t.Error("missing hreflang alternates")
	}
}
