// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Allowed upload MIME types.
const (
	MimeTypePDF  = "application/pdf"
	MimeTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeTypePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeWebP = "image/webp"
	MimeTypeSVG  = "image/svg+xml"
)

// AllowedMimeTypes is the upload allow-list.
var AllowedMimeTypes = map[string]bool{
	MimeTypePDF:  true,
	MimeTypeDOCX: true,
	MimeTypeXLSX: true,
	MimeTypePPTX: true,
	MimeTypeJPEG: true,
	MimeTypePNG:  true,
	MimeTypeWebP: true,
	MimeTypeSVG:  true,
}

// FileUpload records a stored binary artifact.
type FileUpload struct {
	ID           int64
	OriginalName string
	StoragePath  string
	URL          string
	MimeType     string
	Size         int64
	ThumbnailURL string
	UploadedByID sql.NullInt64
	CreatedAt    time.Time
}
