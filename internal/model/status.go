// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Publish statuses shared by resources and pages.
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
	StatusArchived  = "ARCHIVED"
)

// ValidStatus reports whether s is a known publish status.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Transition captures an observed status change on an entity update.
// Any state is reachable from any other by a direct write; what varies
// per from/to pair is the audit action label and the publishedAt side
// effect.
type Transition struct {
	From string
	To   string
}

// AuditAction returns the audit action label for this transition.
// Entering PUBLISHED is a PUBLISH, leaving PUBLISHED for DRAFT is an
// UNPUBLISH, moving to ARCHIVED is an ARCHIVE, and everything else
// (including same-state edits) is a plain UPDATE.
func (t Transition) AuditAction() string {
	switch {
	case t.To == StatusPublished && t.From != StatusPublished:
		return AuditActionPublish
	case t.To == StatusDraft && t.From == StatusPublished:
		return AuditActionUnpublish
	case t.To == StatusArchived && t.From != StatusArchived:
		return AuditActionArchive
	default:
		return AuditActionUpdate
	}
}

// StampPublishedAt returns the publishedAt value to persist for this
// transition. The timestamp is set exactly once, on the first
// transition into PUBLISHED, and is never re-stamped or cleared by
// later edits: current is returned untouched whenever it is already
// valid.
func (t Transition) StampPublishedAt(current *time.Time, now time.Time) *time.Time {
	if current != nil {
		return current
	}
	if t.To == StatusPublished && t.From != StatusPublished {
		return &now
	}
	return nil
}
