// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/olegiv/ocms-language/internal/store"
)

// CacheType identifies a specific cache.
type CacheType string

// Cache types.
const (
	CacheTypeLanguages CacheType = "languages"
	CacheTypeACL       CacheType = "acl"
	CacheTypeShared    CacheType = "shared"
)

// CacheStats holds statistics for a specific cache.
type CacheStats struct {
	Name  string    `json:"name"`
	Type  CacheType `json:"type"`
	Stats Stats     `json:"stats"`
}

// Manager owns the resource caches of one installation.
type Manager struct {
	Languages *LanguageCache
	ACL       *ACLOptionCacheBuilder
	Shared    Cacher

	logger *slog.Logger
}

// NewManager creates a cache manager on top of the shared backend.
func NewManager(queries *store.Queries, shared Cacher, ttl time.Duration, logger *slog.Logger) *Manager {
	return &Manager{
		Languages: NewLanguageCache(queries),
		ACL:       NewACLOptionCacheBuilder(shared, queries, ttl, logger),
		Shared:    shared,
		logger:    logger,
	}
}

// InvalidateLanguages drops the language registry.
func (m *Manager) InvalidateLanguages() {
	m.Languages.Invalidate()
}

// ClearAll clears all caches and resets statistics.
func (m *Manager) ClearAll(ctx context.Context) error {
	m.Languages.Invalidate()
	if err := m.Shared.Clear(ctx); err != nil {
		return err
	}

	m.Languages.ResetStats()
	if sp, ok := m.Shared.(StatsProvider); ok {
		sp.ResetStats()
	}

	m.logger.Info("cache stats reset")
	return nil
}

// AllStats returns statistics for all caches.
func (m *Manager) AllStats() []CacheStats {
	stats := []CacheStats{
		{Name: "Languages", Type: CacheTypeLanguages, Stats: m.Languages.Stats()},
		{Name: "Category ACL", Type: CacheTypeACL, Stats: Stats{Name: ACLOptionCacheKey, Sets: m.ACL.Builds()}},
	}
	if sp, ok := m.Shared.(StatsProvider); ok {
		stats = append(stats, CacheStats{Name: "Shared", Type: CacheTypeShared, Stats: sp.Stats()})
	}
	return stats
}

// Preload warms the language registry.
func (m *Manager) Preload(ctx context.Context) error {
	return m.Languages.Preload(ctx)
}

// Close releases the shared backend.
func (m *Manager) Close() error {
	return m.Shared.Close()
}
