// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionAuditAction(t *testing.T) {
	tests := []struct {
		from, to string
		want     string
	}{
		{StatusDraft, StatusPublished, AuditActionPublish},
		{StatusArchived, StatusPublished, AuditActionPublish},
		{StatusPublished, StatusDraft, AuditActionUnpublish},
		{StatusPublished, StatusArchived, AuditActionArchive},
		{StatusDraft, StatusArchived, AuditActionArchive},
		{StatusDraft, StatusDraft, AuditActionUpdate},
		{StatusPublished, StatusPublished, AuditActionUpdate},
		{StatusArchived, StatusDraft, AuditActionUpdate},
	}

	for _, tt := range tests {
		tr := Transition{From: tt.from, To: tt.to}
		assert.Equal(t, tt.want, tr.AuditAction(), "%s -> %s", tt.from, tt.to)
	}
}

func TestStampPublishedAtFirstPublishOnly(t *testing.T) {
	now := time.Now().UTC()

	// First publish stamps.
	tr := Transition{From: StatusDraft, To: StatusPublished}
	stamped := tr.StampPublishedAt(nil, now)
	require.NotNil(t, stamped)
	assert.Equal(t, now, *stamped)

	// Unpublishing keeps the stamp.
	later := now.Add(time.Hour)
	tr = Transition{From: StatusPublished, To: StatusDraft}
	kept := tr.StampPublishedAt(stamped, later)
	require.NotNil(t, kept)
	assert.Equal(t, now, *kept)

	// Republishing never re-stamps.
	tr = Transition{From: StatusDraft, To: StatusPublished}
	kept = tr.StampPublishedAt(stamped, later)
	require.NotNil(t, kept)
	assert.Equal(t, now, *kept)

	// A plain edit on a never-published entity stays unstamped.
	tr = Transition{From: StatusDraft, To: StatusDraft}
	assert.Nil(t, tr.StampPublishedAt(nil, now))
}

func TestBlockListOperations(t *testing.T) {
	now := time.Now()
	var blocks BlockList

	hero := blocks.Add(BlockTypeHero, now)
	text := blocks.Add(BlockTypeText, now.Add(time.Nanosecond))
	require.Len(t, blocks, 2)
	assert.NotEqual(t, hero.ID, text.ID)

	// Shallow merge keeps unspecified keys.
	blocks.Update(hero.ID, map[string]any{"title": "Welcome"})
	assert.Equal(t, "Welcome", blocks[0].Data["title"])
	assert.Contains(t, blocks[0].Data, "content")

	// Unknown ids are ignored.
	blocks.Update("missing", map[string]any{"title": "x"})
	assert.Equal(t, "Welcome", blocks[0].Data["title"])

	blocks.Remove(hero.ID)
	require.Len(t, blocks, 1)
	assert.Equal(t, text.ID, blocks[0].ID)

	blocks.Remove("missing")
	assert.Len(t, blocks, 1)
}

func TestLinkCheckID(t *testing.T) {
	assert.Equal(t, "42-url", LinkCheckID(42))
}
