// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"time"
)

// Link check source types.
const (
	LinkSourceResource = "Resource"
)

// LinkCheck is the cached reachability result for an externally linked
// URL. One row per source; each run overwrites the previous result.
type LinkCheck struct {
	ID          string // deterministic, e.g. "42-url"
	URL         string
	Status      int64 // HTTP status, or 0 for a transport failure
	StatusText  string
	SourceType  string
	SourceID    int64
	IsBroken    bool
	LastChecked time.Time
}

// LinkCheckID derives the deterministic row id for a resource's
// external URL, enabling idempotent upserts.
func LinkCheckID(resourceID int64) string {
	return fmt.Sprintf("%d-url", resourceID)
}
