// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package language

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/olegiv/ocms-language/internal/hooks"
	"github.com/olegiv/ocms-language/internal/store"
	"github.com/olegiv/ocms-language/internal/util"
)

// UpdateItems writes values (item name to value) into category. Existing
// items get the value as their custom value, with the override flag set
// for names in useCustom and cleared otherwise; their system value is
// left alone. Unknown items are created as user items owned by packageID
// (0 for none). The compiled file of the category is invalidated.
func (e *Editor) UpdateItems(ctx context.Context, values map[string]string, category store.LanguageCategory, packageID int64, useCustom map[string]bool) error {
	if len(values) == 0 {
		return nil
	}

	names := sortedKeys(values)
	var created, updated int

	err := e.svc.inTx(ctx, func(q *store.Queries) error {
		existing, err := q.ListItemsByNames(ctx, e.lang.ID, names)
		if err != nil {
			return fmt.Errorf("listing items: %w", err)
		}

		known := make(map[string]bool, len(existing))
		for _, item := range existing {
			known[item.Name] = true
			if err := q.UpdateItemCustomValue(ctx, store.UpdateItemCustomValueParams{
				LanguageID:     e.lang.ID,
				Name:           item.Name,
				CustomValue:    values[item.Name],
				UseCustomValue: useCustom[item.Name],
			}); err != nil {
				return fmt.Errorf("updating %s: %w", item.Name, err)
			}
			updated++
		}

		pkg := sql.NullInt64{}
		if packageID > 0 {
			pkg = util.NullInt64FromValue(packageID)
		}
		for _, name := range names {
			if known[name] {
				continue
			}
			if err := q.InsertItem(ctx, store.InsertItemParams{
				LanguageID:     e.lang.ID,
				Name:           name,
				Value:          values[name],
				OriginIsSystem: false,
				CategoryID:     category.ID,
				PackageID:      pkg,
			}); err != nil {
				return fmt.Errorf("creating %s: %w", name, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("updating items of language %d: %w", e.lang.ID, err)
	}

	e.svc.logger.Debug("language items updated",
		"language_id", e.lang.ID,
		"category", category.Name,
		"updated", updated,
		"created", created,
	)

	return e.svc.hooks.CallNoResult(ctx, hooks.LanguageItemsChanged, hooks.ItemsChanged{
		LanguageID: e.lang.ID,
		Category:   category.Name,
	})
}

// Items returns every item of the language ordered by name.
func (e *Editor) Items(ctx context.Context) ([]store.LanguageItem, error) {
	items, err := e.svc.queries.ListItems(ctx, e.lang.ID)
	if err != nil {
		return nil, fmt.Errorf("listing items of language %d: %w", e.lang.ID, err)
	}
	return items, nil
}

// Item returns the item called name.
func (e *Editor) Item(ctx context.Context, name string) (store.LanguageItem, error) {
	item, err := e.svc.queries.GetItem(ctx, e.lang.ID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return store.LanguageItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, name)
	}
	if err != nil {
		return store.LanguageItem{}, fmt.Errorf("loading item %s: %w", name, err)
	}
	return item, nil
}
