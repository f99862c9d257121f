// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package language

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-language/internal/cache"
	"github.com/olegiv/ocms-language/internal/store"
	"github.com/olegiv/ocms-language/internal/testutil"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db          *sql.DB
	svc         *Service
	queries     *store.Queries
	registry    *cache.LanguageCache
	installDir  string
	languageDir string
}

func newFixture(t *testing.T, codec Codec) *fixture {
	t.Helper()

	db := testutil.TestDB(t)
	q := store.New(db)
	registry := cache.NewLanguageCache(q)
	installDir := t.TempDir()

	svc := NewService(Options{
		DB:          db,
		Queries:     q,
		Registry:    registry,
		Codec:       codec,
		LanguageDir: filepath.Join(installDir, "language"),
		TemplateDirs: []string{
			filepath.Join(installDir, "templates", "compiled"),
			filepath.Join(installDir, "acp", "templates", "compiled"),
		},
		PackageID: 1,
		Logger:    testutil.TestLoggerSilent(),
	})
	svc.now = func() time.Time { return fixedNow }

	return &fixture{
		db:          db,
		svc:         svc,
		queries:     q,
		registry:    registry,
		installDir:  installDir,
		languageDir: filepath.Join(installDir, "language"),
	}
}

func (f *fixture) touch(t *testing.T, rel ...string) {
	t.Helper()
	for _, name := range rel {
		path := filepath.Join(f.installDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
}

func (f *fixture) files(t *testing.T, rel string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(f.installDir, rel))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func parseDoc(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseDocument(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

const germanXML = `<?xml version="1.0" encoding="UTF-8"?>
<language xmlns="http://www.woltlab.com" languagecode="de" languagename="Deutsch" countrycode="de">
	<category name="wcf.global">
		<item name="wcf.global.hello"><![CDATA[Hallo]]></item>
		<item name="wcf.global.bye"><![CDATA[Tschüss]]></item>
	</category>
	<category name="wcf.acp">
		<item name="wcf.acp.welcome"><![CDATA[Willkommen {$username}]]></item>
	</category>
</language>`

func TestCreate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	editor, err := f.svc.Create(ctx, CreateParams{LanguageCode: "de", CountryCode: "de", LanguageName: "Deutsch"})
	require.NoError(t, err)
	assert.NotZero(t, editor.Language().ID)

	got, err := f.registry.LanguageByCode(ctx, "de")
	require.NoError(t, err)
	require.NotNil(t, got, "registry must see the new language")

	_, err = f.svc.Create(ctx, CreateParams{LanguageCode: "not a code!"})
	assert.ErrorIs(t, err, ErrInvalidLanguageCode)
	_, err = f.svc.Create(ctx, CreateParams{})
	assert.ErrorIs(t, err, ErrInvalidLanguageCode)
}

func TestImportFromXML_CreatesLanguage(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	editor, result, err := f.svc.ImportFromXML(ctx, parseDoc(t, germanXML), 7)
	require.NoError(t, err)

	lang := editor.Language()
	assert.Equal(t, "de", lang.LanguageCode)
	assert.Equal(t, "Deutsch", lang.LanguageName)
	assert.Equal(t, ImportResult{Categories: 2, CreatedCategories: 2, Items: 3}, result)

	items, err := f.queries.ListItems(ctx, lang.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.True(t, item.PackageID.Valid)
		assert.Equal(t, int64(7), item.PackageID.Int64)
		assert.True(t, item.OriginIsSystem)
	}

	// New categories are visible through the registry right away.
	cat, err := f.registry.CategoryByName(ctx, "wcf.acp")
	require.NoError(t, err)
	assert.NotNil(t, cat)
}

func TestImportFromXML_ExistingLanguage(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	existing := testutil.CreateLanguage(t, f.queries, "de", false)

	// languagename and countrycode are only needed to create a language.
	doc := parseDoc(t, `<language xmlns="http://www.woltlab.com" languagecode="de">
		<category name="wcf.global"><item name="wcf.global.yes"><![CDATA[Ja]]></item></category>
	</language>`)

	editor, _, err := f.svc.ImportFromXML(ctx, doc, 0)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, editor.Language().ID)

	item, err := f.queries.GetItem(ctx, existing.ID, "wcf.global.yes")
	require.NoError(t, err)
	assert.Equal(t, "Ja", item.Value)
	assert.False(t, item.PackageID.Valid)
}

func TestImportFromXML_MissingAttribute(t *testing.T) {
	tests := []struct {
		name string
		root string
		attr string
	}{
		{"language code", `<language countrycode="de" languagename="Deutsch">`, AttrLanguageCode},
		{"country code", `<language languagecode="de" languagename="Deutsch">`, AttrCountryCode},
		{"language name", `<language languagecode="de" countrycode="de">`, AttrLanguageName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			ctx := context.Background()

			doc := parseDoc(t, tt.root+`<category name="wcf.global"><item name="a">b</item></category></language>`)
			_, _, err := f.svc.ImportFromXML(ctx, doc, 0)
			require.ErrorIs(t, err, ErrMissingAttribute)
			assert.Contains(t, err.Error(), tt.attr)

			languages, err := f.queries.ListLanguages(ctx)
			require.NoError(t, err)
			assert.Empty(t, languages, "no language may be created")
		})
	}
}

func TestImportFromXML_FailedImportCreatesNoLanguage(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.db.ExecContext(ctx, `CREATE TRIGGER reject_items BEFORE INSERT ON language_item
		BEGIN SELECT RAISE(ABORT, 'items rejected'); END`)
	require.NoError(t, err)

	_, _, err = f.svc.ImportFromXML(ctx, parseDoc(t, germanXML), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "items rejected")

	_, err = f.queries.GetLanguageByCode(ctx, "de")
	assert.ErrorIs(t, err, sql.ErrNoRows, "language must be rolled back with its items")

	lang, err := f.svc.LanguageByCode(ctx, "de")
	require.NoError(t, err)
	assert.Nil(t, lang)
}

func TestEnableMultilingualism(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	en := testutil.CreateLanguage(t, f.queries, "en", true)
	de := testutil.CreateLanguage(t, f.queries, "de", false)
	fr := testutil.CreateLanguage(t, f.queries, "fr", false)

	require.NoError(t, f.svc.EnableMultilingualism(ctx, []int64{en.ID, fr.ID}))
	require.NoError(t, f.svc.EnableMultilingualism(ctx, []int64{de.ID}))

	languages, err := f.registry.Languages(ctx)
	require.NoError(t, err)
	content := map[string]bool{}
	for _, l := range languages {
		content[l.LanguageCode] = l.HasContent
	}
	assert.Equal(t, map[string]bool{"en": false, "de": true, "fr": false}, content)

	require.NoError(t, f.svc.EnableMultilingualism(ctx, nil))
	languages, _ = f.registry.Languages(ctx)
	for _, l := range languages {
		assert.False(t, l.HasContent, l.LanguageCode)
	}
}

func TestPreferredLanguage(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	testutil.CreateLanguage(t, f.queries, "en", true)
	testutil.CreateLanguage(t, f.queries, "de", false)

	tests := []struct {
		header string
		want   string
	}{
		{"de-DE,de;q=0.9,en;q=0.5", "de"},
		{"en-US", "en"},
		{"ja", "en"},
		{"", "en"},
		{";;;", "en"},
	}
	for _, tt := range tests {
		got, err := f.svc.PreferredLanguage(ctx, tt.header)
		require.NoError(t, err, tt.header)
		assert.Equal(t, tt.want, got.LanguageCode, tt.header)
	}
}

func TestPreferredLanguage_NoLanguages(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.PreferredLanguage(context.Background(), "de")
	assert.ErrorIs(t, err, ErrLanguageNotFound)
}

func TestUpdateAll(t *testing.T) {
	f := newFixture(t, nil)
	f.touch(t, "language/1_wcf.global.php", "language/2_wcf.acp.php", "language/index.html")

	require.NoError(t, f.svc.UpdateAll(context.Background()))
	assert.Equal(t, []string{"index.html"}, f.files(t, "language"))
}

func TestEditorByID_NotFound(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.EditorByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrLanguageNotFound)
}
