// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Audit actions.
const (
	AuditActionCreate    = "CREATE"
	AuditActionUpdate    = "UPDATE"
	AuditActionDelete    = "DELETE"
	AuditActionPublish   = "PUBLISH"
	AuditActionUnpublish = "UNPUBLISH"
	AuditActionArchive   = "ARCHIVE"
	AuditActionLogin     = "LOGIN"
	AuditActionUpload    = "UPLOAD"
	AuditActionReorder   = "REORDER"
)

// Audit entity types.
const (
	EntityTypeResource = "Resource"
	EntityTypeCategory = "Category"
	EntityTypePage     = "Page"
	EntityTypeFile     = "File"
	EntityTypeUser     = "User"
)

// AuditLog is an append-only record of a mutating action. Entries are
// never updated or deleted by the application.
type AuditLog struct {
	ID         int64
	Action     string
	EntityType string
	EntityID   sql.NullInt64
	UserID     sql.NullInt64
	Details    string // JSON object
	IPAddress  string
	CreatedAt  time.Time
}
