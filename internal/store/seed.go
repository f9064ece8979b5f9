// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/causewaygrp/finance-cms/internal/auth"
	"github.com/causewaygrp/finance-cms/internal/model"
)

// Default admin credentials. The password must be changed after the
// first login.
const (
	DefaultAdminEmail    = "admin@causewaygrp.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

// starterCategories is the initial category set for a fresh install.
var starterCategories = []CreateCategoryParams{
	{Slug: "market-reports", NameEn: "Market Reports", NameAr: "تقارير السوق", Icon: "chart-bar", SortOrder: 1, Enabled: true},
	{Slug: "regulations", NameEn: "Regulations", NameAr: "اللوائح التنظيمية", Icon: "scale", SortOrder: 2, Enabled: true},
	{Slug: "research", NameEn: "Research", NameAr: "الأبحاث", Icon: "academic-cap", SortOrder: 3, Enabled: true},
	{Slug: "guides", NameEn: "Guides", NameAr: "الأدلة الإرشادية", Icon: "book-open", SortOrder: 4, Enabled: true},
}

// Seed creates the initial admin account and starter categories on a
// fresh database. Existing data is never touched.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)
	now := time.Now().UTC()

	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	switch {
	case err == nil:
		slog.Info("admin user already exists, skipping seed")
		return nil
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		Name:         DefaultAdminName,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}
	slog.Info("created default admin user",
		"id", user.ID,
		"email", user.Email,
		"password", DefaultAdminPassword,
	)

	count, err := queries.CountCategories(ctx)
	if err != nil {
		return fmt.Errorf("counting categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, params := range starterCategories {
		params.CreatedAt = now
		params.UpdatedAt = now
		if _, err := queries.CreateCategory(ctx, params); err != nil {
			return fmt.Errorf("seeding category %s: %w", params.Slug, err)
		}
	}
	slog.Info("seeded starter categories", "count", len(starterCategories))

	return nil
}
