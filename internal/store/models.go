// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "database/sql"

// GlobalCategory is the category whose values are never compiled into
// dynamic templates.
const GlobalCategory = "wcf.global"

// Language is a row of the language table.
type Language struct {
	ID           int64  `json:"language_id"`
	LanguageCode string `json:"language_code"`
	CountryCode  string `json:"country_code"`
	LanguageName string `json:"language_name"`
	IsDefault    bool   `json:"is_default"`
	HasContent   bool   `json:"has_content"`
}

// LanguageCategory is a named namespace for language items (e.g. "wcf.global").
type LanguageCategory struct {
	ID   int64  `json:"language_category_id"`
	Name string `json:"language_category"`
}

// LanguageItem is a row of the language_item table.
type LanguageItem struct {
	LanguageID     int64          `json:"language_id"`
	Name           string         `json:"language_item"`
	Value          string         `json:"language_item_value"`
	CustomValue    sql.NullString `json:"language_custom_item_value"`
	UseCustomValue bool           `json:"language_use_custom_value"`
	OriginIsSystem bool           `json:"language_item_origin_is_system"`
	CategoryID     int64          `json:"language_category_id"`
	PackageID      sql.NullInt64  `json:"package_id"`
}

// EffectiveValue returns the custom value when the override flag is set,
// the system value otherwise.
func (i LanguageItem) EffectiveValue() string {
	if i.UseCustomValue {
		return i.CustomValue.String
	}
	return i.Value
}

// ExportItem is a language item joined with its category name.
type ExportItem struct {
	Category string
	Name     string
	Value    string
}

// ImportItem is one row of a batched language item import.
type ImportItem struct {
	LanguageID int64
	Name       string
	Value      string
	CategoryID int64
	PackageID  int64
}

// CategoryACLOption is one permission flag granted to either a group or a user.
type CategoryACLOption struct {
	CategoryID  int64
	GroupID     sql.NullInt64
	UserID      sql.NullInt64
	OptionName  string
	OptionValue bool
}
