// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/olegiv/ocms-language/internal/model"
	"github.com/olegiv/ocms-language/internal/store"
)

// ACLOptionCacheKey is the resource key of the category permission cache.
const ACLOptionCacheKey = "categoryACLOption"

// ACLOptionCacheBuilder builds the category permission cache from the
// category_acl_option table and keeps it in a shared Cacher, so that every
// process of an installation sees the same snapshot until it is reset.
type ACLOptionCacheBuilder struct {
	cache   *TypedCache[model.CategoryACLOptions]
	queries *store.Queries
	logger  *slog.Logger

	builds atomic.Int64
}

// NewACLOptionCacheBuilder creates a builder storing its result in c.
func NewACLOptionCacheBuilder(c Cacher, queries *store.Queries, ttl time.Duration, logger *slog.Logger) *ACLOptionCacheBuilder {
	return &ACLOptionCacheBuilder{
		cache:   NewTypedCache[model.CategoryACLOptions](c, ttl),
		queries: queries,
		logger:  logger,
	}
}

// Load returns the cached permission map, rebuilding it on a miss.
func (b *ACLOptionCacheBuilder) Load(ctx context.Context) (model.CategoryACLOptions, error) {
	options, err := b.cache.GetOrSet(ctx, ACLOptionCacheKey, func() (*model.CategoryACLOptions, error) {
		return b.build(ctx)
	})
	if err != nil {
		return nil, err
	}
	return *options, nil
}

// Reset drops the cached map; the next Load rebuilds it.
func (b *ACLOptionCacheBuilder) Reset(ctx context.Context) error {
	if err := b.cache.Delete(ctx, ACLOptionCacheKey); err != nil {
		return fmt.Errorf("clearing %s cache: %w", ACLOptionCacheKey, err)
	}
	b.logger.Debug("category acl option cache reset")
	return nil
}

// Builds returns how many times the map was rebuilt from the database.
func (b *ACLOptionCacheBuilder) Builds() int64 {
	return b.builds.Load()
}

func (b *ACLOptionCacheBuilder) build(ctx context.Context) (*model.CategoryACLOptions, error) {
	rows, err := b.queries.ListCategoryACLOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing category acl options: %w", err)
	}

	options := make(model.CategoryACLOptions)
	for _, row := range rows {
		switch {
		case row.UserID.Valid:
			options.Set(row.CategoryID, row.UserID.Int64, true, row.OptionName, row.OptionValue)
		case row.GroupID.Valid:
			options.Set(row.CategoryID, row.GroupID.Int64, false, row.OptionName, row.OptionValue)
		}
	}

	b.builds.Add(1)
	b.logger.Debug("category acl option cache built", "categories", len(options), "rows", len(rows))
	return &options, nil
}
