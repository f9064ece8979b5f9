// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "Xk9#mP2$vL5nQ8wR3tY6uI1oA4sD7fG0"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FCMS_SESSION_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data/financecms.db", cfg.DBPath)
	assert.Equal(t, "localhost:8080", cfg.ServerAddr())
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, int64(15*1024*1024), cfg.MaxUploadBytes())
	assert.False(t, cfg.GeoIPEnabled())
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("FCMS_SESSION_SECRET", "too-short")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsKnownWeakSecret(t *testing.T) {
	t.Setenv("FCMS_SESSION_SECRET", "change-me-to-32-byte-secret-key!")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveUploadLimit(t *testing.T) {
	t.Setenv("FCMS_SESSION_SECRET", testSecret)
	t.Setenv("FCMS_MAX_UPLOAD_MB", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadTrimsSiteURL(t *testing.T) {
	t.Setenv("FCMS_SESSION_SECRET", testSecret)
	t.Setenv("FCMS_SITE_URL", "https://finance.causewaygrp.com/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://finance.causewaygrp.com", cfg.SiteURL)
}
