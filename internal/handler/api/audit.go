// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/causewaygrp/finance-cms/internal/model"
	"github.com/causewaygrp/finance-cms/internal/store"
)

// AuditLogResponse is one entry of the audit trail.
type AuditLogResponse struct {
	ID         int64          `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   *int64         `json:"entityId,omitempty"`
	UserID     *int64         `json:"userId,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	IPAddress  string         `json:"ipAddress,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func auditLogToResponse(a model.AuditLog) AuditLogResponse {
	var details map[string]any
	if a.Details != "" {
		// Malformed stored details degrade to an absent field.
		_ = json.Unmarshal([]byte(a.Details), &details)
	}
	return AuditLogResponse{
		ID:         a.ID,
		Action:     a.Action,
		EntityType: a.EntityType,
		EntityID:   nullInt64Ptr(a.EntityID),
		UserID:     nullInt64Ptr(a.UserID),
		Details:    details,
		IPAddress:  a.IPAddress,
		CreatedAt:  a.CreatedAt,
	}
}

// ListAuditLogs handles GET /admin/api/audit. Entries come back newest
// first, filtered by entityType and userId when given.
func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	page := 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 1 {
		page = v
	}
	limit := DefaultAuditSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	params := store.ListAuditLogsParams{
		EntityType: r.URL.Query().Get("entityType"),
		Limit:      int64(limit),
		Offset:     int64((page - 1) * limit),
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64); err == nil && v > 0 {
		params.UserID = v
	}

	logs, err := h.queries.ListAuditLogs(r.Context(), params)
	if err != nil {
		WriteInternalError(w, "Failed to list audit logs")
		return
	}
	total, err := h.queries.CountAuditLogs(r.Context(), params)
	if err != nil {
		WriteInternalError(w, "Failed to count audit logs")
		return
	}

	responses := make([]AuditLogResponse, 0, len(logs))
	for _, a := range logs {
		responses = append(responses, auditLogToResponse(a))
	}
	WritePaged(w, responses, total, page, limit)
}
