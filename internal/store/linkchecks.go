// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/causewaygrp/finance-cms/internal/model"
)

const upsertLinkCheck = `
INSERT INTO link_checks (id, url, status, status_text, source_type, source_id, is_broken, last_checked)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	url = excluded.url,
	status = excluded.status,
	status_text = excluded.status_text,
	is_broken = excluded.is_broken,
	last_checked = excluded.last_checked
`

// UpsertLinkCheck records a probe result, replacing any earlier result
// for the same source.
func (q *Queries) UpsertLinkCheck(ctx context.Context, c model.LinkCheck) error {
	_, err := q.db.ExecContext(ctx, upsertLinkCheck,
		c.ID, c.URL, c.Status, c.StatusText, c.SourceType, c.SourceID, c.IsBroken, c.LastChecked)
	return err
}

const getLinkCheck = `
SELECT id, url, status, status_text, source_type, source_id, is_broken, last_checked
FROM link_checks WHERE id = ?
`

// GetLinkCheck fetches a stored probe result by id.
func (q *Queries) GetLinkCheck(ctx context.Context, id string) (model.LinkCheck, error) {
	var c model.LinkCheck
	err := q.db.QueryRowContext(ctx, getLinkCheck, id).Scan(
		&c.ID, &c.URL, &c.Status, &c.StatusText, &c.SourceType, &c.SourceID, &c.IsBroken, &c.LastChecked)
	return c, err
}

const countBrokenLinks = `SELECT COUNT(*) FROM link_checks WHERE is_broken = 1`

// CountBrokenLinks returns the number of URLs whose last probe failed.
func (q *Queries) CountBrokenLinks(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countBrokenLinks).Scan(&n)
	return n, err
}
