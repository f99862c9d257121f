// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "ocms-test.db")

	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	cleanup := func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
	}

	return db, cleanup
}

func createTestLanguage(t *testing.T, q *Queries, code string) Language {
	t.Helper()
	lang, err := q.CreateLanguage(context.Background(), CreateLanguageParams{
		LanguageCode: code,
		CountryCode:  code,
		LanguageName: strings.ToUpper(code),
	})
	if err != nil {
		t.Fatalf("CreateLanguage: %v", err)
	}
	return lang
}

func createTestCategory(t *testing.T, q *Queries, name string) LanguageCategory {
	t.Helper()
	cat, err := q.CreateCategory(context.Background(), name)
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	return cat
}

func TestCreateAndGetLanguage(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	lang := createTestLanguage(t, q, "de")
	if lang.ID == 0 {
		t.Fatal("expected language ID to be set")
	}

	byCode, err := q.GetLanguageByCode(ctx, "de")
	if err != nil {
		t.Fatalf("GetLanguageByCode: %v", err)
	}
	if byCode.ID != lang.ID {
		t.Errorf("expected ID %d, got %d", lang.ID, byCode.ID)
	}

	_, err = q.GetLanguageByCode(ctx, "xx")
	if !IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestDefaultLanguageAndHasContent(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	en := createTestLanguage(t, q, "en")
	de := createTestLanguage(t, q, "de")

	if err := q.SetDefaultLanguage(ctx, en.ID); err != nil {
		t.Fatalf("SetDefaultLanguage: %v", err)
	}
	if err := q.ClearDefaultLanguage(ctx); err != nil {
		t.Fatalf("ClearDefaultLanguage: %v", err)
	}
	if err := q.SetDefaultLanguage(ctx, de.ID); err != nil {
		t.Fatalf("SetDefaultLanguage: %v", err)
	}
	if err := q.SetHasContent(ctx, []int64{en.ID}); err != nil {
		t.Fatalf("SetHasContent: %v", err)
	}

	languages, err := q.ListLanguages(ctx)
	if err != nil {
		t.Fatalf("ListLanguages: %v", err)
	}
	for _, l := range languages {
		if l.IsDefault != (l.ID == de.ID) {
			t.Errorf("language %s: unexpected default flag %v", l.LanguageCode, l.IsDefault)
		}
		if l.HasContent != (l.ID == en.ID) {
			t.Errorf("language %s: unexpected has_content flag %v", l.LanguageCode, l.HasContent)
		}
	}
}

func TestUpsertItems_Batches(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	lang := createTestLanguage(t, q, "en")
	cat := createTestCategory(t, q, "wcf.acp")

	var items []ImportItem
	for i := range 3*MaxItemsPerStatement + 7 {
		items = append(items, ImportItem{
			LanguageID: lang.ID,
			Name:       fmt.Sprintf("wcf.acp.item%03d", i),
			Value:      fmt.Sprintf("value %d", i),
			CategoryID: cat.ID,
			PackageID:  1,
		})
	}

	if err := q.UpsertItems(ctx, items, true, true); err != nil {
		t.Fatalf("UpsertItems: %v", err)
	}

	stored, err := q.ListItems(ctx, lang.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(stored) != len(items) {
		t.Fatalf("expected %d items, got %d", len(items), len(stored))
	}
	if !stored[0].PackageID.Valid || stored[0].PackageID.Int64 != 1 {
		t.Errorf("expected package ID 1, got %v", stored[0].PackageID)
	}
	if !stored[0].OriginIsSystem {
		t.Error("expected imported item to originate from the system")
	}
}

func TestUpsertItems_ConflictPolicies(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	lang := createTestLanguage(t, q, "en")
	cat := createTestCategory(t, q, "wcf.global")
	other := createTestCategory(t, q, "wcf.acp")

	first := []ImportItem{{LanguageID: lang.ID, Name: "wcf.global.a", Value: "first", CategoryID: cat.ID}}
	if err := q.UpsertItems(ctx, first, false, true); err != nil {
		t.Fatalf("UpsertItems: %v", err)
	}
	if err := q.UpdateItemCustomValue(ctx, UpdateItemCustomValueParams{
		LanguageID: lang.ID, Name: "wcf.global.a", CustomValue: "custom", UseCustomValue: true,
	}); err != nil {
		t.Fatalf("UpdateItemCustomValue: %v", err)
	}

	// ignore policy: first write wins
	ignored := []ImportItem{{LanguageID: lang.ID, Name: "wcf.global.a", Value: "ignored", CategoryID: other.ID}}
	if err := q.UpsertItems(ctx, ignored, false, false); err != nil {
		t.Fatalf("UpsertItems ignore: %v", err)
	}
	item, err := q.GetItem(ctx, lang.ID, "wcf.global.a")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item.Value != "first" || !item.UseCustomValue || item.CategoryID != cat.ID {
		t.Errorf("ignore policy modified item: %+v", item)
	}

	// update policy: system value refreshed, override flag reset
	updated := []ImportItem{{LanguageID: lang.ID, Name: "wcf.global.a", Value: "second", CategoryID: other.ID}}
	if err := q.UpsertItems(ctx, updated, false, true); err != nil {
		t.Fatalf("UpsertItems update: %v", err)
	}
	item, err = q.GetItem(ctx, lang.ID, "wcf.global.a")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item.Value != "second" {
		t.Errorf("expected value %q, got %q", "second", item.Value)
	}
	if item.UseCustomValue {
		t.Error("expected custom override flag to be reset")
	}
	if item.CategoryID != other.ID {
		t.Errorf("expected category %d, got %d", other.ID, item.CategoryID)
	}
}

func TestUpsertItems_KeepsUserCreatedValue(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	lang := createTestLanguage(t, q, "en")
	cat := createTestCategory(t, q, "wcf.acp")

	if err := q.InsertItem(ctx, InsertItemParams{
		LanguageID: lang.ID, Name: "wcf.acp.own", Value: "mine", CategoryID: cat.ID,
	}); err != nil {
		t.Fatalf("InsertItem: %v", err)
	}

	rows := []ImportItem{{LanguageID: lang.ID, Name: "wcf.acp.own", Value: "theirs", CategoryID: cat.ID}}
	if err := q.UpsertItems(ctx, rows, false, true); err != nil {
		t.Fatalf("UpsertItems: %v", err)
	}

	item, err := q.GetItem(ctx, lang.ID, "wcf.acp.own")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item.Value != "mine" {
		t.Errorf("expected user-created value to survive, got %q", item.Value)
	}
}

func TestSearchItems(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	lang := createTestLanguage(t, q, "en")
	cat := createTestCategory(t, q, "wcf.global")

	rows := []ImportItem{
		{LanguageID: lang.ID, Name: "wcf.global.hello", Value: "Hello {name}", CategoryID: cat.ID},
		{LanguageID: lang.ID, Name: "wcf.global.percent", Value: "100% done", CategoryID: cat.ID},
		{LanguageID: lang.ID, Name: "wcf.global.bye", Value: "Goodbye", CategoryID: cat.ID},
	}
	if err := q.UpsertItems(ctx, rows, false, true); err != nil {
		t.Fatalf("UpsertItems: %v", err)
	}

	tests := []struct {
		name   string
		params SearchItemsParams
		want   int
	}{
		{"value substring", SearchItemsParams{Contains: "hello"}, 1},
		{"literal percent", SearchItemsParams{Contains: "0%"}, 1},
		{"name search misses value", SearchItemsParams{Field: SearchFieldName, Contains: "Goodbye"}, 0},
		{"name search", SearchItemsParams{Field: SearchFieldName, Contains: "global.b"}, 1},
		{"no filter", SearchItemsParams{}, 3},
		{"other language", SearchItemsParams{LanguageID: sql.NullInt64{Int64: lang.ID + 1, Valid: true}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := q.SearchItems(ctx, tt.params)
			if err != nil {
				t.Fatalf("SearchItems: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("expected %d results, got %d", tt.want, len(got))
			}
		})
	}
}

func TestCopyItemsAndCascadeDelete(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	en := createTestLanguage(t, q, "en")
	de := createTestLanguage(t, q, "de")
	cat := createTestCategory(t, q, "wcf.global")

	rows := []ImportItem{
		{LanguageID: en.ID, Name: "wcf.global.a", Value: "a", CategoryID: cat.ID},
		{LanguageID: en.ID, Name: "wcf.global.b", Value: "b", CategoryID: cat.ID},
	}
	if err := q.UpsertItems(ctx, rows, false, true); err != nil {
		t.Fatalf("UpsertItems: %v", err)
	}
	if err := q.CopyItems(ctx, de.ID, en.ID); err != nil {
		t.Fatalf("CopyItems: %v", err)
	}

	copied, err := q.ListItems(ctx, de.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(copied) != 2 {
		t.Fatalf("expected 2 copied items, got %d", len(copied))
	}

	if err := q.DeleteLanguage(ctx, de.ID); err != nil {
		t.Fatalf("DeleteLanguage: %v", err)
	}
	remaining, err := q.ListItems(ctx, de.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected items to be deleted by cascade, got %d", len(remaining))
	}
}

func TestInsertItemsSQL(t *testing.T) {
	mysql := DialectMySQL.insertItemsSQL(2, true, false)
	if !strings.HasPrefix(mysql, "INSERT IGNORE INTO language_item") {
		t.Errorf("unexpected MySQL ignore statement: %s", mysql)
	}
	if strings.Count(mysql, "(?, ?, ?, ?, ?)") != 2 {
		t.Errorf("expected two 5-column tuples: %s", mysql)
	}

	mysqlUpdate := DialectMySQL.insertItemsSQL(1, false, true)
	if !strings.Contains(mysqlUpdate, "ON DUPLICATE KEY UPDATE") {
		t.Errorf("expected ON DUPLICATE KEY UPDATE: %s", mysqlUpdate)
	}

	sqlite := DialectSQLite.insertItemsSQL(1, false, false)
	if !strings.HasPrefix(sqlite, "INSERT OR IGNORE INTO language_item") {
		t.Errorf("unexpected SQLite ignore statement: %s", sqlite)
	}
}

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{"": DialectSQLite, "sqlite3": DialectSQLite, "MySQL": DialectMySQL} {
		got, err := ParseDialect(in)
		if err != nil {
			t.Fatalf("ParseDialect(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseDialect(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseDialect("oracle"); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestSeed(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	if err := Seed(ctx, db, DialectSQLite); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	// second run is a no-op
	if err := Seed(ctx, db, DialectSQLite); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	q := New(db)
	languages, err := q.ListLanguages(ctx)
	if err != nil {
		t.Fatalf("ListLanguages: %v", err)
	}
	if len(languages) != 1 || !languages[0].IsDefault {
		t.Fatalf("expected a single default language, got %+v", languages)
	}
	if _, err := q.GetCategoryByName(ctx, GlobalCategory); err != nil {
		t.Errorf("expected global category: %v", err)
	}
}
