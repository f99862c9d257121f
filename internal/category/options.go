// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/olegiv/ocms-language/internal/hooks"
	"github.com/olegiv/ocms-language/internal/model"
	"github.com/olegiv/ocms-language/internal/store"
)

// ErrInvalidSubject is returned for group or user IDs that are not positive.
var ErrInvalidSubject = errors.New("invalid group or user id")

// OptionEditor writes the stored ACL options of categories.
type OptionEditor struct {
	db      *sql.DB
	queries *store.Queries
	hooks   *hooks.Registry
	logger  *slog.Logger
}

// NewOptionEditor creates an editor that announces changes on reg.
func NewOptionEditor(db *sql.DB, queries *store.Queries, reg *hooks.Registry, logger *slog.Logger) *OptionEditor {
	return &OptionEditor{db: db, queries: queries, hooks: reg, logger: logger}
}

// Save replaces every option of a category with acl in one transaction and
// then emits the reset hook, so permission snapshots are rebuilt.
func (e *OptionEditor) Save(ctx context.Context, categoryID int64, acl model.CategoryACL) error {
	for _, ids := range []map[int64]model.OptionValues{acl.Group, acl.User} {
		for id := range ids {
			if id <= 0 {
				return fmt.Errorf("%w: %d", ErrInvalidSubject, id)
			}
		}
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := e.queries.WithTx(tx)
	if err := q.DeleteCategoryACLOptions(ctx, categoryID); err != nil {
		return fmt.Errorf("clearing options of category %d: %w", categoryID, err)
	}

	rows := 0
	for _, subject := range []struct {
		options map[int64]model.OptionValues
		isUser  bool
	}{{acl.Group, false}, {acl.User, true}} {
		for _, id := range slices.Sorted(maps.Keys(subject.options)) {
			values := subject.options[id]
			for _, option := range slices.Sorted(maps.Keys(values)) {
				row := store.CategoryACLOption{CategoryID: categoryID, OptionName: option, OptionValue: values[option]}
				if subject.isUser {
					row.UserID = sql.NullInt64{Int64: id, Valid: true}
				} else {
					row.GroupID = sql.NullInt64{Int64: id, Valid: true}
				}
				if err := q.CreateCategoryACLOption(ctx, row); err != nil {
					return fmt.Errorf("storing option %s of category %d: %w", option, categoryID, err)
				}
				rows++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	e.logger.Info("category options saved", "category_id", categoryID, "options", rows)
	return e.hooks.CallNoResult(ctx, hooks.CategoryACLReset, categoryID)
}
