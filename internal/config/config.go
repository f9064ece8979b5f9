// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads and validates the application configuration
// from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"FCMS_DB_PATH" envDefault:"./data/financecms.db"`
	SessionSecret string `env:"FCMS_SESSION_SECRET,required"`
	ServerHost    string `env:"FCMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"FCMS_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"FCMS_ENV" envDefault:"development"`
	LogLevel      string `env:"FCMS_LOG_LEVEL" envDefault:"info"`
	SiteURL       string `env:"FCMS_SITE_URL" envDefault:"https://finance.causewaygrp.com"`

	// Upload configuration
	UploadsDir  string `env:"FCMS_UPLOADS_DIR" envDefault:"./uploads"`
	MaxUploadMB int64  `env:"FCMS_MAX_UPLOAD_MB" envDefault:"15"`

	// GeoIP configuration
	GeoIPDBPath string `env:"FCMS_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Link checker configuration
	LinkCheckTimeout int `env:"FCMS_LINK_CHECK_TIMEOUT" envDefault:"10"` // Seconds per URL

	// Seeding configuration
	DoSeed bool `env:"FCMS_DO_SEED" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// MaxUploadBytes returns the maximum upload size in bytes.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("FCMS_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("FCMS_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("FCMS_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("FCMS_MAX_UPLOAD_MB must be positive, got %d", cfg.MaxUploadMB)
	}

	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
