// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/causewaygrp/finance-cms/internal/model"
)

const createFileUpload = `
INSERT INTO file_uploads (original_name, storage_path, url, mime_type, size, thumbnail_url, uploaded_by_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, original_name, storage_path, url, mime_type, size, thumbnail_url, uploaded_by_id, created_at
`

// CreateFileUploadParams holds the fields for CreateFileUpload.
type CreateFileUploadParams struct {
	OriginalName string
	StoragePath  string
	URL          string
	MimeType     string
	Size         int64
	ThumbnailURL string
	UploadedByID sql.NullInt64
	CreatedAt    time.Time
}

// CreateFileUpload records a stored file.
func (q *Queries) CreateFileUpload(ctx context.Context, arg CreateFileUploadParams) (model.FileUpload, error) {
	var f model.FileUpload
	err := q.db.QueryRowContext(ctx, createFileUpload,
		arg.OriginalName, arg.StoragePath, arg.URL, arg.MimeType, arg.Size,
		arg.ThumbnailURL, arg.UploadedByID, arg.CreatedAt).Scan(
		&f.ID, &f.OriginalName, &f.StoragePath, &f.URL, &f.MimeType, &f.Size,
		&f.ThumbnailURL, &f.UploadedByID, &f.CreatedAt)
	return f, err
}

const countFileUploads = `SELECT COUNT(*) FROM file_uploads`

// CountFileUploads returns the total number of recorded uploads.
func (q *Queries) CountFileUploads(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countFileUploads).Scan(&n)
	return n, err
}
