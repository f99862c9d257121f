// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-language/internal/category"
	"github.com/olegiv/ocms-language/internal/hooks"
	"github.com/olegiv/ocms-language/internal/model"
	"github.com/olegiv/ocms-language/internal/util"
)

// PermissionsHandler exposes category permission lookups and the stored
// category options.
type PermissionsHandler struct {
	permissions *category.PermissionHandler
	options     *category.OptionEditor
	hooks       *hooks.Registry
	logger      *slog.Logger
}

// NewPermissionsHandler creates a new PermissionsHandler.
func NewPermissionsHandler(ph *category.PermissionHandler, oe *category.OptionEditor, hr *hooks.Registry, logger *slog.Logger) *PermissionsHandler {
	return &PermissionsHandler{permissions: ph, options: oe, hooks: hr, logger: logger}
}

// Get handles GET /admin/categories/{category}/permissions/{user}?groups=1,2.
// User 0 is a guest and only gets the options of its groups.
func (h *PermissionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := parseIDParamJSON(w, r, "category")
	if !ok {
		return
	}
	userID := util.ParseNullInt64Positive(chi.URLParam(r, "user")).Int64

	groupIDs, err := util.ParseInt64List(r.URL.Query().Get("groups"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid group list")
		return
	}

	perms, err := h.permissions.GetPermissions(r.Context(), categoryID, category.User{ID: userID, GroupIDs: groupIDs})
	if err != nil {
		h.logger.Error("failed to load category permissions", "error", err, "category_id", categoryID)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSONSuccess(w, map[string]any{
		"category_id": categoryID,
		"user_id":     userID,
		"permissions": perms,
	})
}

// Save handles PUT /admin/categories/{category}/permissions. The body
// replaces every stored option of the category:
//
//	{"group": {"1": {"canView": true}}, "user": {"7": {"canView": false}}}
func (h *PermissionsHandler) Save(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := parseIDParamJSON(w, r, "category")
	if !ok {
		return
	}

	var acl model.CategoryACL
	if err := json.NewDecoder(r.Body).Decode(&acl); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.options.Save(r.Context(), categoryID, acl); err != nil {
		if errors.Is(err, category.ErrInvalidSubject) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to save category options", "error", err, "category_id", categoryID)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSONSuccess(w, map[string]any{"category_id": categoryID})
}

// Reset handles POST /admin/categories/permissions/reset. Every subscriber
// of the reset hook drops its snapshot.
func (h *PermissionsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.hooks.CallNoResult(r.Context(), hooks.CategoryACLReset, nil); err != nil {
		h.logger.Error("failed to reset category permissions", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to reset permissions")
		return
	}
	writeJSONSuccess(w, nil)
}
