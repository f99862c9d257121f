// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"fmt"
	"strings"
)

// Dialect identifies the SQL flavour of the underlying store.
type Dialect string

// Supported dialects.
const (
	DialectSQLite Dialect = "sqlite"
	DialectMySQL  Dialect = "mysql"
)

// ParseDialect converts a driver name into a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "mysql", "mariadb":
		return DialectMySQL, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", name)
	}
}

func (d Dialect) gooseDialect() string {
	if d == DialectMySQL {
		return "mysql"
	}
	return "sqlite3"
}

// insertItemsSQL renders a multi-row language item insert for the given row
// count. With update set, duplicates of (language_id, language_item) refresh
// the system value of system-originated items, move the item to the imported
// category and drop the custom override flag. Without it duplicates are
// ignored and the first write wins.
func (d Dialect) insertItemsSQL(rows int, withPackage, update bool) string {
	columns := "language_id, language_item, language_item_value, language_category_id"
	tuple := "(?, ?, ?, ?)"
	if withPackage {
		columns += ", package_id"
		tuple = "(?, ?, ?, ?, ?)"
	}
	values := strings.TrimSuffix(strings.Repeat(tuple+", ", rows), ", ")

	var b strings.Builder
	switch d {
	case DialectMySQL:
		b.WriteString("INSERT")
		if !update {
			b.WriteString(" IGNORE")
		}
		b.WriteString(" INTO language_item (" + columns + ") VALUES " + values)
		if update {
			b.WriteString(` ON DUPLICATE KEY UPDATE
				language_item_value = IF(language_item_origin_is_system = 0, language_item_value, VALUES(language_item_value)),
				language_category_id = VALUES(language_category_id),
				language_use_custom_value = 0`)
		}
	default:
		b.WriteString("INSERT")
		if !update {
			b.WriteString(" OR IGNORE")
		}
		b.WriteString(" INTO language_item (" + columns + ") VALUES " + values)
		if update {
			b.WriteString(` ON CONFLICT (language_id, language_item) DO UPDATE SET
				language_item_value = CASE WHEN language_item.language_item_origin_is_system = 0
					THEN language_item.language_item_value ELSE excluded.language_item_value END,
				language_category_id = excluded.language_category_id,
				language_use_custom_value = 0`)
		}
	}
	return b.String()
}

// placeholders returns "?, ?, ?" for n parameters.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
