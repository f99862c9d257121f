// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package category resolves the ACL options of content categories.
package category

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/olegiv/ocms-language/internal/hooks"
	"github.com/olegiv/ocms-language/internal/model"
)

// Permissions maps an ACL option name to whether it is granted.
type Permissions map[string]bool

// User identifies the subject of a permission lookup.
type User struct {
	ID       int64
	GroupIDs []int64
}

// Loader provides the precomputed permission map.
type Loader interface {
	Load(ctx context.Context) (model.CategoryACLOptions, error)
	Reset(ctx context.Context) error
}

// PermissionHandler answers permission queries from a snapshot of the
// permission map. The snapshot is loaded on first use and kept until
// ResetCache is called.
type PermissionHandler struct {
	loader Loader
	logger *slog.Logger

	mu     sync.RWMutex
	loaded bool
	data   model.CategoryACLOptions
}

// NewPermissionHandler creates a handler reading through loader.
func NewPermissionHandler(loader Loader, logger *slog.Logger) *PermissionHandler {
	return &PermissionHandler{loader: loader, logger: logger}
}

// GetPermissions returns the options granted to user in a category. Group
// options are ORed across all groups of the user; user options then
// overwrite whatever the groups granted. A category without entries yields
// an empty set. Only a failing loader returns an error.
func (h *PermissionHandler) GetPermissions(ctx context.Context, categoryID int64, user User) (Permissions, error) {
	data, err := h.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	perms := make(Permissions)
	acl, ok := data[categoryID]
	if !ok {
		return perms, nil
	}

	for _, groupID := range user.GroupIDs {
		for option, value := range acl.Group[groupID] {
			perms[option] = perms[option] || value
		}
	}
	if user.ID != 0 {
		for option, value := range acl.User[user.ID] {
			perms[option] = value
		}
	}
	return perms, nil
}

// ResetCache resets the loader and drops the snapshot so that the next
// query sees a rebuilt map. Queries wait until the reset is done.
func (h *PermissionHandler) ResetCache(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.loaded = false
	h.data = nil
	if err := h.loader.Reset(ctx); err != nil {
		return fmt.Errorf("resetting category permissions: %w", err)
	}
	return nil
}

// Subscribe resets the handler whenever category ACLs change.
func (h *PermissionHandler) Subscribe(reg *hooks.Registry) {
	reg.RegisterFunc(hooks.CategoryACLReset, "reset_cache", "category.permissions", func(ctx context.Context, _ any) error {
		return h.ResetCache(ctx)
	})
}

func (h *PermissionHandler) snapshot(ctx context.Context) (model.CategoryACLOptions, error) {
	h.mu.RLock()
	if h.loaded {
		data := h.data
		h.mu.RUnlock()
		return data, nil
	}
	h.mu.RUnlock()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.loaded {
		return h.data, nil
	}

	data, err := h.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading category permissions: %w", err)
	}
	h.data = data
	h.loaded = true
	h.logger.Debug("category permissions loaded", "categories", len(data))
	return data, nil
}
