// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
)

// ListCategoryACLOptions returns every category permission row.
func (q *Queries) ListCategoryACLOptions(ctx context.Context) ([]CategoryACLOption, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT category_id, group_id, user_id, option_name, option_value
		FROM category_acl_option
		ORDER BY category_id, acl_option_id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []CategoryACLOption
	for rows.Next() {
		var o CategoryACLOption
		if err := rows.Scan(&o.CategoryID, &o.GroupID, &o.UserID, &o.OptionName, &o.OptionValue); err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

// CreateCategoryACLOption stores a permission flag for a group or a user.
func (q *Queries) CreateCategoryACLOption(ctx context.Context, arg CategoryACLOption) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO category_acl_option (category_id, group_id, user_id, option_name, option_value)
		VALUES (?, ?, ?, ?, ?)`,
		arg.CategoryID, arg.GroupID, arg.UserID, arg.OptionName, arg.OptionValue)
	return err
}

// DeleteCategoryACLOptions removes every permission row of a category.
func (q *Queries) DeleteCategoryACLOptions(ctx context.Context, categoryID int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM category_acl_option WHERE category_id = ?`, categoryID)
	return err
}
