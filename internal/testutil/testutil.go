// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the language packages.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/olegiv/ocms-language/internal/store"
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a completely silent test logger (error level only).
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestDB creates a temporary SQLite database with migrations applied.
// The database is closed when the test finishes.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "ocms-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// CreateLanguage inserts a language with the given code.
func CreateLanguage(t *testing.T, q *store.Queries, code string, isDefault bool) store.Language {
	t.Helper()

	lang, err := q.CreateLanguage(context.Background(), store.CreateLanguageParams{
		LanguageCode: code,
		CountryCode:  code,
		LanguageName: code,
		IsDefault:    isDefault,
	})
	if err != nil {
		t.Fatalf("CreateLanguage(%s): %v", code, err)
	}
	return lang
}

// CreateCategory inserts a language category.
func CreateCategory(t *testing.T, q *store.Queries, name string) store.LanguageCategory {
	t.Helper()

	cat, err := q.CreateCategory(context.Background(), name)
	if err != nil {
		t.Fatalf("CreateCategory(%s): %v", name, err)
	}
	return cat
}

// CreateItem inserts a system language item.
func CreateItem(t *testing.T, q *store.Queries, languageID, categoryID int64, name, value string) {
	t.Helper()

	err := q.InsertItem(context.Background(), store.InsertItemParams{
		LanguageID:     languageID,
		Name:           name,
		Value:          value,
		OriginIsSystem: true,
		CategoryID:     categoryID,
	})
	if err != nil {
		t.Fatalf("InsertItem(%s): %v", name, err)
	}
}
