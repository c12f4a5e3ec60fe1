// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/olegiv/yapicms/internal/auth"
	"github.com/olegiv/yapicms/internal/middleware"
	"github.com/olegiv/yapicms/internal/model"
	"github.com/olegiv/yapicms/internal/store"
)

// loginRequest is the POST /api/auth/login body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse carries the issued token and the account it belongs to.
type loginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login authenticates a user by email and password and issues a JWT.
// Every failure path returns the same 401 so callers cannot tell which
// accounts exist.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		WriteValidationError(w, map[string]string{
			"email":    "Email is required",
			"password": "Password is required",
		})
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			h.writeInternalError(w, "Failed to authenticate", err)
			return
		}
		WriteUnauthorized(w, "Invalid email or password")
		return
	}

	if !user.Active || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		slog.Warn("login rejected", "category", model.EventCategoryAuth,
			"email", req.Email, "remote_addr", r.RemoteAddr)
		WriteUnauthorized(w, "Invalid email or password")
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		h.writeInternalError(w, "Failed to issue token", err)
		return
	}

	if err := h.store.TouchUserLogin(r.Context(), user.ID); err != nil {
		slog.Warn("failed to record login time", "error", err, "user_id", user.ID)
	}

	WriteSuccess(w, loginResponse{Token: token, User: user}, nil)
}

// Me returns the authenticated user's account.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}
	WriteSuccess(w, user, nil)
}

// createUserRequest is the POST /api/auth/users body.
type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Active   *bool  `json:"active"`
}

// CreateUser creates a new account. Admin only.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	fieldErrors := map[string]string{}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		fieldErrors["email"] = "A valid email address is required"
	}
	if len(req.Password) < auth.MinPasswordLength {
		fieldErrors["password"] = "Password is too short"
	}
	if req.Name == "" {
		fieldErrors["name"] = "Name is required"
	}
	if !model.IsValidRole(req.Role) {
		fieldErrors["role"] = "Role must be admin or editor"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	if _, err := h.store.GetUserByEmail(r.Context(), req.Email); err == nil {
		WriteValidationError(w, map[string]string{"email": "Email is already in use"})
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		h.writeInternalError(w, "Failed to create user", err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.writeInternalError(w, "Failed to create user", err)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	user, err := h.store.CreateUser(r.Context(), store.CreateUserParams{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
		Active:       active,
	})
	if err != nil {
		h.writeInternalError(w, "Failed to create user", err)
		return
	}

	slog.Info("user created", "category", model.EventCategoryAuth,
		"user_id", middleware.GetUserID(r), "created_user_id", user.ID, "role", user.Role)
	WriteCreated(w, user)
}

// ListUsers returns all accounts. Admin only.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		h.writeInternalError(w, "Failed to list users", err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	WriteSuccess(w, users, nil)
}

// updateUserRequest is the PUT /api/auth/users/{id} body. Nil fields keep
// their stored values.
type updateUserRequest struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Active   *bool   `json:"active"`
	Password *string `json:"password"`
}

// UpdateUser modifies an account. Admin only. Admins cannot deactivate or
// demote themselves so the system always keeps a working admin.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	target, ok := requireEntityByID(h, w, r, "user", func(id int64) (model.User, error) {
		return h.store.GetUserByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	fieldErrors := map[string]string{}
	if req.Email != nil {
		*req.Email = strings.TrimSpace(strings.ToLower(*req.Email))
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			fieldErrors["email"] = "A valid email address is required"
		}
	}
	if req.Role != nil && !model.IsValidRole(*req.Role) {
		fieldErrors["role"] = "Role must be admin or editor"
	}
	if req.Password != nil && len(*req.Password) < auth.MinPasswordLength {
		fieldErrors["password"] = "Password is too short"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	if self := middleware.GetUser(r); self != nil && self.ID == target.ID {
		if req.Active != nil && !*req.Active {
			WriteBadRequest(w, "You cannot deactivate your own account", nil)
			return
		}
		if req.Role != nil && *req.Role != model.RoleAdmin {
			WriteBadRequest(w, "You cannot change your own role", nil)
			return
		}
	}

	params := store.UpdateUserParams{
		ID:     target.ID,
		Email:  req.Email,
		Name:   req.Name,
		Role:   req.Role,
		Active: req.Active,
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			h.writeInternalError(w, "Failed to update user", err)
			return
		}
		params.PasswordHash = &hash
	}

	user, err := h.store.UpdateUser(r.Context(), params)
	if err != nil {
		h.writeInternalError(w, "Failed to update user", err)
		return
	}

	slog.Info("user updated", "category", model.EventCategoryAuth,
		"user_id", middleware.GetUserID(r), "updated_user_id", user.ID)
	WriteSuccess(w, user, nil)
}
