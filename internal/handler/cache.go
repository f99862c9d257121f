// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/ocms-language/internal/cache"
)

// CacheHandler handles cache management routes.
type CacheHandler struct {
	cacheManager *cache.Manager
	logger       *slog.Logger
}

// NewCacheHandler creates a new CacheHandler.
func NewCacheHandler(cm *cache.Manager, logger *slog.Logger) *CacheHandler {
	return &CacheHandler{cacheManager: cm, logger: logger}
}

// Stats handles GET /admin/cache - reports cache statistics.
func (h *CacheHandler) Stats(w http.ResponseWriter, _ *http.Request) {
	writeJSONSuccess(w, map[string]any{"caches": h.cacheManager.AllStats()})
}

// Clear handles POST /admin/cache/clear - clears every cache.
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cacheManager.ClearAll(r.Context()); err != nil {
		h.logger.Error("failed to clear cache", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to clear cache")
		return
	}
	h.logger.Info("all caches cleared", "remote_addr", r.RemoteAddr)
	writeJSONSuccess(w, nil)
}
