// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/causewaygrp/finance-cms/internal/middleware"
	"github.com/causewaygrp/finance-cms/internal/model"
	"github.com/causewaygrp/finance-cms/internal/service"
)

// UploadResponse describes a stored file.
type UploadResponse struct {
	ID           int64     `json:"id"`
	OriginalName string    `json:"originalName"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Upload handles POST /admin/api/upload as multipart form data with a
// "file" part and an optional "folder" field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	// The form parser caps memory use; larger parts spill to temp files.
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		WriteBadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "Missing file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxUploadBytes()+1))
	if err != nil {
		WriteInternalError(w, "Failed to read file")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	record, err := h.uploader.Upload(r.Context(), service.UploadInput{
		Filename: header.Filename,
		MimeType: mimeType,
		Folder:   r.FormValue("folder"),
		Data:     data,
		UserID:   middleware.GetUserID(r),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileTooLarge):
			WriteError(w, http.StatusRequestEntityTooLarge, "File exceeds the size limit")
		case errors.Is(err, service.ErrUnsupportedType):
			WriteBadRequest(w, "File type is not allowed")
		case errors.Is(err, service.ErrEmptyFile):
			WriteBadRequest(w, "File is empty")
		case errors.Is(err, service.ErrInvalidFolderName):
			WriteBadRequest(w, "Invalid folder name")
		default:
			h.logger.Error("upload failed", "file", header.Filename, "error", err)
			WriteInternalError(w, "Upload failed")
		}
		return
	}

	h.audit.Record(service.AuditEntry{
		Action:     model.AuditActionUpload,
		EntityType: model.EntityTypeFile,
		EntityID:   record.ID,
		UserID:     middleware.GetUserID(r),
		Details:    map[string]any{"name": record.OriginalName, "size": record.Size, "mimeType": record.MimeType},
		IPAddress:  clientIP(r),
	})

	WriteCreated(w, UploadResponse{
		ID:           record.ID,
		OriginalName: record.OriginalName,
		URL:          record.URL,
		ThumbnailURL: record.ThumbnailURL,
		MimeType:     record.MimeType,
		Size:         record.Size,
		CreatedAt:    record.CreatedAt,
	})
}
