// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/causewaygrp/finance-cms/internal/model"
)

const auditColumns = `id, action, entity_type, entity_id, user_id, details, ip_address, created_at`

func scanAuditLog(row rowScanner) (model.AuditLog, error) {
	var a model.AuditLog
	err := row.Scan(&a.ID, &a.Action, &a.EntityType, &a.EntityID, &a.UserID,
		&a.Details, &a.IPAddress, &a.CreatedAt)
	return a, err
}

const createAuditLog = `
INSERT INTO audit_logs (action, entity_type, entity_id, user_id, details, ip_address, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

// CreateAuditLogParams holds the fields for CreateAuditLog.
type CreateAuditLogParams struct {
	Action     string
	EntityType string
	EntityID   sql.NullInt64
	UserID     sql.NullInt64
	Details    string
	IPAddress  string
	CreatedAt  time.Time
}

// CreateAuditLog appends an entry to the audit trail.
func (q *Queries) CreateAuditLog(ctx context.Context, arg CreateAuditLogParams) error {
	_, err := q.db.ExecContext(ctx, createAuditLog,
		arg.Action, arg.EntityType, arg.EntityID, arg.UserID, arg.Details, arg.IPAddress, arg.CreatedAt)
	return err
}

// ListAuditLogsParams filters and pages the audit trail. Zero values
// mean no filter on that dimension.
type ListAuditLogsParams struct {
	EntityType string
	UserID     int64
	Limit      int64
	Offset     int64
}

func buildAuditFilter(arg ListAuditLogsParams) (string, []any) {
	var conds []string
	var args []any
	if arg.EntityType != "" {
		conds = append(conds, "entity_type = ?")
		args = append(args, arg.EntityType)
	}
	if arg.UserID > 0 {
		conds = append(conds, "user_id = ?")
		args = append(args, arg.UserID)
	}
	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// ListAuditLogs returns audit entries newest first, filtered and paged.
func (q *Queries) ListAuditLogs(ctx context.Context, arg ListAuditLogsParams) ([]model.AuditLog, error) {
	where, args := buildAuditFilter(arg)
	query := `SELECT ` + auditColumns + ` FROM audit_logs ` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, arg.Limit, arg.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.AuditLog
	for rows.Next() {
		a, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, a)
	}
	return logs, rows.Err()
}

// CountAuditLogs returns the number of entries matching the filters.
func (q *Queries) CountAuditLogs(ctx context.Context, arg ListAuditLogsParams) (int64, error) {
	where, args := buildAuditFilter(arg)
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs `+where, args...).Scan(&n)
	return n, err
}

const listRecentAuditLogs = `
SELECT ` + auditColumns + ` FROM audit_logs ORDER BY created_at DESC, id DESC LIMIT ?`

// ListRecentAuditLogs returns the newest entries for dashboards.
func (q *Queries) ListRecentAuditLogs(ctx context.Context, limit int64) ([]model.AuditLog, error) {
	rows, err := q.db.QueryContext(ctx, listRecentAuditLogs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.AuditLog
	for rows.Next() {
		a, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, a)
	}
	return logs, rows.Err()
}
