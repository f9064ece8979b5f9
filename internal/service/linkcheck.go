// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/causewaygrp/finance-cms/internal/model"
	"github.com/causewaygrp/finance-cms/internal/store"
)

// LinkChecker probes the external URLs of published resources and
// stores the results. One row per resource; reruns overwrite.
type LinkChecker struct {
	queries *store.Queries
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	timeout time.Duration
}

// LinkCheckSummary reports the outcome of one run.
type LinkCheckSummary struct {
	RunID   string `json:"runId"`
	Checked int    `json:"checked"`
	Broken  int    `json:"broken"`
}

// NewLinkChecker creates a checker with the given per-probe timeout.
func NewLinkChecker(db *sql.DB, logger *slog.Logger, timeout time.Duration) *LinkChecker {
	return &LinkChecker{
		queries: store.New(db),
		client: &http.Client{
			Timeout: timeout,
		},
		// Modest pacing keeps runs from hammering external hosts.
		limiter: rate.NewLimiter(rate.Limit(5), 1),
		logger:  logger,
		timeout: timeout,
	}
}

// Run probes every published resource with an external URL and upserts
// a result row per resource. Returns the run summary.
func (c *LinkChecker) Run(ctx context.Context) (LinkCheckSummary, error) {
	links, err := c.queries.ListPublishedExternalLinks(ctx)
	if err != nil {
		return LinkCheckSummary{}, err
	}

	summary := LinkCheckSummary{RunID: uuid.NewString()}
	for _, link := range links {
		if err := c.limiter.Wait(ctx); err != nil {
			return summary, err
		}

		result := c.probe(ctx, link)
		if err := c.queries.UpsertLinkCheck(ctx, result); err != nil {
			c.logger.Error("storing link check", "url", link.URL, "error", err)
			continue
		}

		summary.Checked++
		if result.IsBroken {
			summary.Broken++
		}
	}

	c.logger.Info("link check complete", "checked", summary.Checked, "broken", summary.Broken)
	return summary, nil
}

// probe issues a HEAD request. Transport failures record status 0; a
// response is healthy when its status is 2xx or 3xx.
func (c *LinkChecker) probe(ctx context.Context, link store.ExternalLink) model.LinkCheck {
	result := model.LinkCheck{
		ID:          model.LinkCheckID(link.ResourceID),
		URL:         link.URL,
		SourceType:  model.LinkSourceResource,
		SourceID:    link.ResourceID,
		LastChecked: time.Now().UTC(),
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, link.URL, nil)
	if err != nil {
		result.Status = 0
		result.StatusText = "Connection failed"
		result.IsBroken = true
		return result
	}

	resp, err := c.client.Do(req)
	if err != nil {
		result.Status = 0
		result.StatusText = "Connection failed"
		result.IsBroken = true
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	result.Status = int64(resp.StatusCode)
	result.StatusText = http.StatusText(resp.StatusCode)
	result.IsBroken = resp.StatusCode < 200 || resp.StatusCode >= 400
	return result
}
