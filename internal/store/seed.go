// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Default language created on first start.
const (
	DefaultLanguageCode = "en"
	DefaultCountryCode  = "gb"
	DefaultLanguageName = "English"
)

// Seed creates the default language and the global category when the
// database has no languages yet.
func Seed(ctx context.Context, db *sql.DB, dialect Dialect) error {
	queries := NewWithDialect(db, dialect)

	languages, err := queries.ListLanguages(ctx)
	if err != nil {
		return fmt.Errorf("listing languages: %w", err)
	}
	if len(languages) > 0 {
		slog.Info("languages already exist, skipping seed", "count", len(languages))
		return nil
	}

	lang, err := queries.CreateLanguage(ctx, CreateLanguageParams{
		LanguageCode: DefaultLanguageCode,
		CountryCode:  DefaultCountryCode,
		LanguageName: DefaultLanguageName,
		IsDefault:    true,
	})
	if err != nil {
		return fmt.Errorf("creating default language: %w", err)
	}

	if _, err := queries.GetCategoryByName(ctx, GlobalCategory); IsNotFound(err) {
		if _, err := queries.CreateCategory(ctx, GlobalCategory); err != nil {
			return fmt.Errorf("creating global category: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("checking global category: %w", err)
	}

	slog.Info("created default language", "id", lang.ID, "code", lang.LanguageCode)
	return nil
}
