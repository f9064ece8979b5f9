// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/causewaygrp/finance-cms/internal/imaging"
	"github.com/causewaygrp/finance-cms/internal/model"
	"github.com/causewaygrp/finance-cms/internal/store"
	"github.com/causewaygrp/finance-cms/internal/util"
)

// Upload validation errors, mapped to 4xx responses by handlers.
var (
	ErrFileTooLarge      = errors.New("file exceeds the size limit")
	ErrUnsupportedType   = errors.New("file type is not allowed")
	ErrEmptyFile         = errors.New("file is empty")
	ErrInvalidFolderName = errors.New("invalid folder name")
)

// Storage persists upload bytes under a relative path and reports the
// public URL they will be served from.
type Storage interface {
	Save(relPath string, data []byte) (url string, err error)
}

// LocalStorage writes uploads to a directory on disk, served under
// BaseURL by the file server.
type LocalStorage struct {
	BaseDir string
	BaseURL string
}

// Save writes data to BaseDir/relPath, creating directories as needed.
// relPath is validated against traversal out of BaseDir.
func (s *LocalStorage) Save(relPath string, data []byte) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage path %q", relPath)
	}

	target := filepath.Join(s.BaseDir, clean)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}

	return s.BaseURL + "/" + filepath.ToSlash(clean), nil
}

// Uploader validates and stores uploaded files, generating thumbnails
// for raster images and recording each upload.
type Uploader struct {
	queries  *store.Queries
	storage  Storage
	logger   *slog.Logger
	maxBytes int64
}

// NewUploader creates an uploader with the given size limit in bytes.
func NewUploader(db *sql.DB, storage Storage, logger *slog.Logger, maxBytes int64) *Uploader {
	return &Uploader{
		queries:  store.New(db),
		storage:  storage,
		logger:   logger,
		maxBytes: maxBytes,
	}
}

// UploadInput describes one file to store.
type UploadInput struct {
	Filename string
	MimeType string
	Folder   string // logical grouping, e.g. "resources"
	Data     []byte
	UserID   int64
}

// Upload validates the file, writes it under folder/year/month with a
// collision-proof name, and records the upload. Returns the stored
// record including URLs.
func (u *Uploader) Upload(ctx context.Context, in UploadInput) (model.FileUpload, error) {
	if len(in.Data) == 0 {
		return model.FileUpload{}, ErrEmptyFile
	}
	if int64(len(in.Data)) > u.maxBytes {
		return model.FileUpload{}, ErrFileTooLarge
	}
	if !model.AllowedMimeTypes[in.MimeType] {
		return model.FileUpload{}, ErrUnsupportedType
	}

	folder := in.Folder
	if folder == "" {
		folder = "general"
	}
	if !util.IsValidSlug(folder) {
		return model.FileUpload{}, ErrInvalidFolderName
	}

	now := time.Now().UTC()
	storagePath := buildStoragePath(folder, in.Filename, now)

	url, err := u.storage.Save(storagePath, in.Data)
	if err != nil {
		return model.FileUpload{}, err
	}

	thumbnailURL := ""
	if imaging.CanThumbnail(in.MimeType) {
		thumb, err := imaging.Thumbnail(in.Data)
		if err != nil {
			// A thumbnail failure never fails the upload.
			u.logger.Warn("thumbnail generation failed", "file", in.Filename, "error", err)
		} else {
			thumbPath := thumbStoragePath(storagePath)
			thumbnailURL, err = u.storage.Save(thumbPath, thumb)
			if err != nil {
				u.logger.Warn("storing thumbnail failed", "file", in.Filename, "error", err)
				thumbnailURL = ""
			}
		}
	}

	var uploadedBy sql.NullInt64
	if in.UserID != 0 {
		uploadedBy = sql.NullInt64{Int64: in.UserID, Valid: true}
	}

	record, err := u.queries.CreateFileUpload(ctx, store.CreateFileUploadParams{
		OriginalName: in.Filename,
		StoragePath:  storagePath,
		URL:          url,
		MimeType:     in.MimeType,
		Size:         int64(len(in.Data)),
		ThumbnailURL: thumbnailURL,
		UploadedByID: uploadedBy,
		CreatedAt:    now,
	})
	if err != nil {
		return model.FileUpload{}, fmt.Errorf("recording upload: %w", err)
	}

	u.logger.Info("file uploaded",
		"file", in.Filename, "size", util.FormatBytes(record.Size), "path", storagePath)
	return record, nil
}

// buildStoragePath yields folder/year/month/token-name.ext. The base-36
// timestamp token keeps same-named uploads from clobbering each other.
func buildStoragePath(folder, filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))

	name := util.Slugify(base)
	if name == "" {
		name = "file"
	}

	return fmt.Sprintf("%s/%d/%02d/%s-%s%s",
		folder, now.Year(), int(now.Month()), util.SlugSuffix(now), name, ext)
}

// thumbStoragePath derives the sibling thumbnail path. Thumbnails are
// always JPEG regardless of the source format.
func thumbStoragePath(storagePath string) string {
	dir, file := path.Split(storagePath)
	base := strings.TrimSuffix(file, path.Ext(file))
	return dir + "thumb_" + base + ".jpg"
}
