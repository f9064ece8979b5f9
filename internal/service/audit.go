// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic: audit recording, link
// checking, file uploads, and content rendering.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/causewaygrp/finance-cms/internal/store"
)

// auditQueueSize bounds the number of pending audit writes. Entries
// beyond this are dropped rather than blocking the request path.
const auditQueueSize = 256

// AuditEntry describes one action to record.
type AuditEntry struct {
	Action     string
	EntityType string
	EntityID   int64 // 0 for actions without a target entity
	UserID     int64 // 0 for unauthenticated actions
	Details    map[string]any
	IPAddress  string
	At         time.Time
}

// AuditRecorder writes audit entries off the request path. Record never
// blocks; a full queue drops the entry with a warning.
type AuditRecorder struct {
	queries *store.Queries
	logger  *slog.Logger
	queue   chan AuditEntry
	done    chan struct{}
	once    sync.Once
}

// NewAuditRecorder creates a recorder and starts its writer goroutine.
func NewAuditRecorder(db *sql.DB, logger *slog.Logger) *AuditRecorder {
	r := &AuditRecorder{
		queries: store.New(db),
		logger:  logger,
		queue:   make(chan AuditEntry, auditQueueSize),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

// Record queues an audit entry. A zero At is stamped with the current time.
func (r *AuditRecorder) Record(e AuditEntry) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	select {
	case r.queue <- e:
	default:
		r.logger.Warn("audit queue full, dropping entry",
			"action", e.Action, "entity_type", e.EntityType, "entity_id", e.EntityID)
	}
}

// Close stops the writer after draining queued entries.
func (r *AuditRecorder) Close() {
	r.once.Do(func() {
		close(r.queue)
		<-r.done
	})
}

func (r *AuditRecorder) run() {
	defer close(r.done)
	for e := range r.queue {
		r.write(e)
	}
}

func (r *AuditRecorder) write(e AuditEntry) {
	details := "{}"
	if e.Details != nil {
		if b, err := json.Marshal(e.Details); err == nil {
			details = string(b)
		}
	}

	var entityID, userID sql.NullInt64
	if e.EntityID != 0 {
		entityID = sql.NullInt64{Int64: e.EntityID, Valid: true}
	}
	if e.UserID != 0 {
		userID = sql.NullInt64{Int64: e.UserID, Valid: true}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := r.queries.CreateAuditLog(ctx, store.CreateAuditLogParams{
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   entityID,
		UserID:     userID,
		Details:    details,
		IPAddress:  e.IPAddress,
		CreatedAt:  e.At,
	})
	if err != nil {
		r.logger.Error("writing audit entry",
			"action", e.Action, "entity_type", e.EntityType, "error", err)
	}
}
