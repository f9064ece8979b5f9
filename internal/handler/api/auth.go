// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mileusna/useragent"

	"github.com/causewaygrp/finance-cms/internal/auth"
	"github.com/causewaygrp/finance-cms/internal/middleware"
	"github.com/causewaygrp/finance-cms/internal/model"
	"github.com/causewaygrp/finance-cms/internal/service"
)

// UserResponse describes the authenticated account.
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func userToResponse(u *model.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginDetails builds the audit payload for a login, including the
// parsed client and, when geo lookup is available, the country code.
func (h *Handler) loginDetails(r *http.Request) map[string]any {
	details := map[string]any{}

	ua := useragent.Parse(r.UserAgent())
	if ua.Name != "" {
		details["browser"] = ua.Name
		if ua.Version != "" {
			details["browserVersion"] = ua.Version
		}
	}
	if ua.OS != "" {
		details["os"] = ua.OS
	}
	if ua.Mobile {
		details["device"] = "mobile"
	}

	if h.geo != nil && h.geo.IsEnabled() {
		if country := h.geo.LookupCountry(clientIP(r)); country != "" {
			details["country"] = country
		}
	}

	return details
}

// Login handles POST /admin/api/auth/login. A wrong email and a wrong
// password produce the same response.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		WriteBadRequest(w, "Email and password are required")
		return
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			WriteInternalError(w, "Login failed")
			return
		}
		// Burn a hash comparison so missing accounts cost the same.
		_, _ = auth.CheckPassword(req.Password, auth.DummyHash)
		WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	ok, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil || !ok || !user.Active {
		WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	// Hashes made with older parameters upgrade transparently on login.
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(req.Password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), user.ID, newHash, time.Now().UTC()); err != nil {
				h.logger.Warn("password rehash failed", "userId", user.ID, "error", err)
			}
		}
	}

	if err := h.sessions.RenewToken(r.Context()); err != nil {
		WriteInternalError(w, "Login failed")
		return
	}
	h.sessions.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	h.audit.Record(service.AuditEntry{
		Action:     model.AuditActionLogin,
		EntityType: model.EntityTypeUser,
		EntityID:   user.ID,
		UserID:     user.ID,
		Details:    h.loginDetails(r),
		IPAddress:  clientIP(r),
	})

	WriteSuccess(w, userToResponse(&user))
}

// Logout handles POST /admin/api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		WriteInternalError(w, "Logout failed")
		return
	}
	WriteSuccess(w, map[string]any{"loggedOut": true})
}

// Me handles GET /admin/api/auth/me, returning the current account.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	WriteSuccess(w, userToResponse(user))
}
