// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
)

// MaxItemsPerStatement caps the rows of one batched insert so that a
// statement stays below the server's maximum packet size.
const MaxItemsPerStatement = 50

const itemColumns = `language_id, language_item, language_item_value, language_custom_item_value,
	language_use_custom_value, language_item_origin_is_system, language_category_id, package_id`

func scanItems(rows *sql.Rows) ([]LanguageItem, error) {
	defer func() { _ = rows.Close() }()

	var items []LanguageItem
	for rows.Next() {
		var i LanguageItem
		if err := rows.Scan(
			&i.LanguageID, &i.Name, &i.Value, &i.CustomValue,
			&i.UseCustomValue, &i.OriginIsSystem, &i.CategoryID, &i.PackageID,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// ListItems returns all items of a language ordered by name.
func (q *Queries) ListItems(ctx context.Context, languageID int64) ([]LanguageItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM language_item WHERE language_id = ? ORDER BY language_item`, languageID)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

// GetItem returns a single item of a language.
func (q *Queries) GetItem(ctx context.Context, languageID int64, name string) (LanguageItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM language_item WHERE language_id = ? AND language_item = ?`, languageID, name)
	if err != nil {
		return LanguageItem{}, err
	}
	items, err := scanItems(rows)
	if err != nil {
		return LanguageItem{}, err
	}
	if len(items) == 0 {
		return LanguageItem{}, sql.ErrNoRows
	}
	return items[0], nil
}

// ListItemsForCategories returns the items of a language restricted to the
// given categories.
func (q *Queries) ListItemsForCategories(ctx context.Context, languageID int64, categoryIDs []int64) ([]LanguageItem, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(categoryIDs)+1)
	args = append(args, languageID)
	for _, id := range categoryIDs {
		args = append(args, id)
	}
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM language_item
		WHERE language_id = ? AND language_category_id IN (`+placeholders(len(categoryIDs))+`)
		ORDER BY language_item`, args...)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

// ListItemsByNames returns the items of a language with one of the given names.
func (q *Queries) ListItemsByNames(ctx context.Context, languageID int64, names []string) ([]LanguageItem, error) {
	if len(names) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(names)+1)
	args = append(args, languageID)
	for _, n := range names {
		args = append(args, n)
	}
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM language_item
		WHERE language_id = ? AND language_item IN (`+placeholders(len(names))+`)`, args...)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

// ListExportItemsParams filters the items of an export.
type ListExportItemsParams struct {
	LanguageID   int64
	PackageIDs   []int64
	CustomValues bool // export the effective value instead of the system value
}

// ListExportItems returns the items of a language joined with their category.
func (q *Queries) ListExportItems(ctx context.Context, arg ListExportItemsParams) ([]ExportItem, error) {
	value := "language_item.language_item_value"
	if arg.CustomValues {
		value = `CASE WHEN language_item.language_use_custom_value > 0
			THEN language_item.language_custom_item_value ELSE language_item.language_item_value END`
	}

	query := `SELECT language_category.language_category, language_item.language_item, ` + value + `
		FROM language_item
		LEFT JOIN language_category ON language_category.language_category_id = language_item.language_category_id
		WHERE language_item.language_id = ?`
	args := []any{arg.LanguageID}
	if len(arg.PackageIDs) > 0 {
		query += ` AND language_item.package_id IN (` + placeholders(len(arg.PackageIDs)) + `)`
		for _, id := range arg.PackageIDs {
			args = append(args, id)
		}
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []ExportItem
	for rows.Next() {
		var (
			category sql.NullString
			value    sql.NullString
			item     ExportItem
		)
		if err := rows.Scan(&category, &item.Name, &value); err != nil {
			return nil, err
		}
		item.Category = category.String
		item.Value = value.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItemCustomValueParams holds the override of an existing item.
type UpdateItemCustomValueParams struct {
	LanguageID     int64
	Name           string
	CustomValue    string
	UseCustomValue bool
}

// UpdateItemCustomValue sets the custom value and override flag of an item.
func (q *Queries) UpdateItemCustomValue(ctx context.Context, arg UpdateItemCustomValueParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE language_item SET language_custom_item_value = ?, language_use_custom_value = ?
		WHERE language_id = ? AND language_item = ?`,
		arg.CustomValue, arg.UseCustomValue, arg.LanguageID, arg.Name)
	return err
}

// InsertItemParams holds the columns of a new language item.
type InsertItemParams struct {
	LanguageID     int64
	Name           string
	Value          string
	OriginIsSystem bool
	CategoryID     int64
	PackageID      sql.NullInt64
}

// InsertItem inserts a single language item.
func (q *Queries) InsertItem(ctx context.Context, arg InsertItemParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO language_item
			(language_id, language_item, language_item_value, language_item_origin_is_system, language_category_id, package_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		arg.LanguageID, arg.Name, arg.Value, arg.OriginIsSystem, arg.CategoryID, arg.PackageID)
	return err
}

// CopyItems copies every item of the source language into the destination.
// The destination is expected to have no items.
func (q *Queries) CopyItems(ctx context.Context, destinationID, sourceID int64) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO language_item
			(language_id, language_item, language_item_value, language_item_origin_is_system, language_category_id, package_id)
		SELECT ?, language_item, language_item_value, language_item_origin_is_system, language_category_id, package_id
		FROM language_item
		WHERE language_id = ?`,
		destinationID, sourceID)
	return err
}

// UpsertItems writes items in batches of MaxItemsPerStatement rows. When
// update is false, existing (language, item) pairs are left untouched.
// Callers wrap the call in a transaction to make the import atomic.
func (q *Queries) UpsertItems(ctx context.Context, items []ImportItem, withPackage, update bool) error {
	for start := 0; start < len(items); start += MaxItemsPerStatement {
		end := min(start+MaxItemsPerStatement, len(items))
		batch := items[start:end]

		args := make([]any, 0, len(batch)*5)
		for _, item := range batch {
			args = append(args, item.LanguageID, item.Name, item.Value, item.CategoryID)
			if withPackage {
				args = append(args, item.PackageID)
			}
		}

		if _, err := q.db.ExecContext(ctx, q.dialect.insertItemsSQL(len(batch), withPackage, update), args...); err != nil {
			return err
		}
	}
	return nil
}

// SearchField selects the column a search runs against.
type SearchField int

// Search fields.
const (
	SearchFieldValue SearchField = iota // system or custom value
	SearchFieldName                     // item name
)

// SearchItemsParams filters a language item search.
type SearchItemsParams struct {
	Field SearchField
	// Contains is matched as a case-insensitive substring. Empty disables
	// the filter so that callers can match a regular expression themselves.
	Contains   string
	LanguageID sql.NullInt64
}

// SearchItems returns the items matching the search parameters.
func (q *Queries) SearchItems(ctx context.Context, arg SearchItemsParams) ([]LanguageItem, error) {
	var (
		conditions []string
		args       []any
	)

	if arg.Contains != "" {
		pattern := "%" + escapeLike(arg.Contains) + "%"
		if arg.Field == SearchFieldName {
			conditions = append(conditions, `language_item LIKE ? ESCAPE '!'`)
			args = append(args, pattern)
		} else {
			conditions = append(conditions,
				`(language_item_value LIKE ? ESCAPE '!' OR language_custom_item_value LIKE ? ESCAPE '!')`)
			args = append(args, pattern, pattern)
		}
	}
	if arg.LanguageID.Valid {
		conditions = append(conditions, `language_id = ?`)
		args = append(args, arg.LanguageID.Int64)
	}

	query := `SELECT ` + itemColumns + ` FROM language_item`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY language_id, language_item`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
