// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/causewaygrp/finance-cms/internal/config"
	"github.com/causewaygrp/finance-cms/internal/geoip"
	"github.com/causewaygrp/finance-cms/internal/middleware"
	"github.com/causewaygrp/finance-cms/internal/model"
	"github.com/causewaygrp/finance-cms/internal/service"
	"github.com/causewaygrp/finance-cms/internal/session"
	"github.com/causewaygrp/finance-cms/internal/store"
	"github.com/causewaygrp/finance-cms/internal/testutil"
)

// testSetup creates a migrated test database and a fully wired handler.
func testSetup(t *testing.T) (*Handler, *store.Queries) {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	logger := testutil.TestLogger()
	cfg := &config.Config{
		SessionSecret: "test-secret-test-secret-test-secret!",
		SiteURL:       "https://finance.example.com",
		UploadsDir:    t.TempDir(),
		MaxUploadMB:   15,
		Env:           "development",
	}

	audit := service.NewAuditRecorder(db, logger)
	t.Cleanup(audit.Close)

	uploader := service.NewUploader(db, &service.LocalStorage{
		BaseDir: cfg.UploadsDir,
		BaseURL: "/uploads",
	}, logger, cfg.MaxUploadBytes())

	links := service.NewLinkChecker(db, logger, 2*time.Second)
	geo, _ := geoip.NewLookup("")

	h := NewHandler(db, cfg, logger, session.New(db, true), audit, uploader, links, geo)
	return h, store.New(db)
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// newJSONRequest creates an HTTP request with a JSON body and optional
// URL params.
func newJSONRequest(t *testing.T, method, path, body string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

func newGetRequest(t *testing.T, path string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// asEditor attaches a test editor account to the request context the
// way LoadUser does.
func asEditor(r *http.Request) *http.Request {
	user := model.User{ID: 1, Email: "editor@causewaygrp.com", Role: model.RoleEditor, Active: true}
	return r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUser, user))
}

// executeHandler runs the handler function and returns the recorder.
func executeHandler(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

// unmarshalData decodes the data field of a success envelope.
func unmarshalData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshaling response envelope: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success response, got error: %s", resp.Error)
	}
	var data T
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("unmarshaling response data: %v", err)
	}
	return data
}

// unmarshalPaged decodes a paged list envelope.
func unmarshalPaged[T any](t *testing.T, w *httptest.ResponseRecorder) ([]T, int64) {
	t.Helper()
	var resp struct {
		Success bool  `json:"success"`
		Data    []T   `json:"data"`
		Total   int64 `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshaling paged envelope: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success response, got: %s", w.Body.String())
	}
	return resp.Data, resp.Total
}

// responseError extracts the error message from an error envelope.
func responseError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshaling error envelope: %v", err)
	}
	if resp.Success {
		t.Fatal("expected error response, got success")
	}
	return resp.Error
}
