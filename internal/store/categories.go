// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
)

// CreateCategory inserts a language category and returns it.
func (q *Queries) CreateCategory(ctx context.Context, name string) (LanguageCategory, error) {
	res, err := q.db.ExecContext(ctx, `INSERT INTO language_category (language_category) VALUES (?)`, name)
	if err != nil {
		return LanguageCategory{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return LanguageCategory{}, err
	}
	return LanguageCategory{ID: id, Name: name}, nil
}

// GetCategory returns a category by ID.
func (q *Queries) GetCategory(ctx context.Context, id int64) (LanguageCategory, error) {
	var c LanguageCategory
	err := q.db.QueryRowContext(ctx,
		`SELECT language_category_id, language_category FROM language_category WHERE language_category_id = ?`, id,
	).Scan(&c.ID, &c.Name)
	return c, err
}

// GetCategoryByName returns a category by name.
func (q *Queries) GetCategoryByName(ctx context.Context, name string) (LanguageCategory, error) {
	var c LanguageCategory
	err := q.db.QueryRowContext(ctx,
		`SELECT language_category_id, language_category FROM language_category WHERE language_category = ?`, name,
	).Scan(&c.ID, &c.Name)
	return c, err
}

// ListCategories returns all categories ordered by name.
func (q *Queries) ListCategories(ctx context.Context) ([]LanguageCategory, error) {
	return q.listCategories(ctx,
		`SELECT language_category_id, language_category FROM language_category ORDER BY language_category`)
}

// ListCategoriesByNames returns the existing categories among names.
func (q *Queries) ListCategoriesByNames(ctx context.Context, names []string) ([]LanguageCategory, error) {
	if len(names) == 0 {
		return nil, nil
	}
	args := make([]any, len(names))
	for i, n := range names {
		args[i] = n
	}
	return q.listCategories(ctx,
		`SELECT language_category_id, language_category FROM language_category
		WHERE language_category IN (`+placeholders(len(names))+`)`, args...)
}

func (q *Queries) listCategories(ctx context.Context, query string, args ...any) ([]LanguageCategory, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []LanguageCategory
	for rows.Next() {
		var c LanguageCategory
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
