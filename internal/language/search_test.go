// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package language

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-language/internal/store"
	"github.com/olegiv/ocms-language/internal/testutil"
)

type searchFixture struct {
	*fixture
	en     store.Language
	de     store.Language
	global store.LanguageCategory
	acp    store.LanguageCategory
}

func newSearchFixture(t *testing.T) *searchFixture {
	t.Helper()
	f := newFixture(t, nil)
	sf := &searchFixture{fixture: f}

	sf.en = testutil.CreateLanguage(t, f.queries, "en", true)
	sf.de = testutil.CreateLanguage(t, f.queries, "de", false)
	sf.global = testutil.CreateCategory(t, f.queries, store.GlobalCategory)
	sf.acp = testutil.CreateCategory(t, f.queries, "wcf.acp")

	testutil.CreateItem(t, f.queries, sf.en.ID, sf.global.ID, "wcf.global.hello", "Hello {name}")
	testutil.CreateItem(t, f.queries, sf.en.ID, sf.global.ID, "wcf.global.bye", "Goodbye")
	testutil.CreateItem(t, f.queries, sf.en.ID, sf.acp.ID, "wcf.acp.greeting", "hello admin, hello again")
	testutil.CreateItem(t, f.queries, sf.de.ID, sf.global.ID, "wcf.global.hello", "Hallo {name}")
	return sf
}

func names(results []SearchResult) []string {
	var out []string
	for _, r := range results {
		out = append(out, r.Name)
	}
	return out
}

func strPtr(s string) *string { return &s }

func TestSearch_ValuesAndNames(t *testing.T) {
	sf := newSearchFixture(t)
	ctx := context.Background()

	results, err := sf.svc.Search(ctx, SearchOptions{Query: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, []string{"wcf.acp.greeting", "wcf.global.hello"}, names(results))
	for _, r := range results {
		assert.Zero(t, r.Matches, "preview does not count")
	}

	results, err = sf.svc.Search(ctx, SearchOptions{Query: "Hello", SearchNames: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"wcf.global.hello", "wcf.global.hello"}, names(results))

	results, err = sf.svc.Search(ctx, SearchOptions{Query: "greeting admin", SearchNames: true})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = sf.svc.Search(ctx, SearchOptions{Query: "Hallo", LanguageID: sf.en.ID})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_LiteralIsNotAPattern(t *testing.T) {
	sf := newSearchFixture(t)
	testutil.CreateItem(t, sf.queries, sf.en.ID, sf.global.ID, "wcf.global.percent", "100% sure")

	results, err := sf.svc.Search(context.Background(), SearchOptions{Query: "0% s"})
	require.NoError(t, err)
	assert.Equal(t, []string{"wcf.global.percent"}, names(results))

	results, err = sf.svc.Search(context.Background(), SearchOptions{Query: "{name"})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_MatchesCustomValue(t *testing.T) {
	sf := newSearchFixture(t)
	ctx := context.Background()

	require.NoError(t, sf.queries.UpdateItemCustomValue(ctx, store.UpdateItemCustomValueParams{
		LanguageID: sf.en.ID, Name: "wcf.global.bye", CustomValue: "See you", UseCustomValue: true,
	}))

	results, err := sf.svc.Search(ctx, SearchOptions{Query: "see YOU"})
	require.NoError(t, err)
	assert.Equal(t, []string{"wcf.global.bye"}, names(results))

	results, err = sf.svc.Search(ctx, SearchOptions{Query: `^see\s`, UseRegex: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"wcf.global.bye"}, names(results))
}

func TestSearch_NonASCIIIgnoresCase(t *testing.T) {
	sf := newSearchFixture(t)
	ctx := context.Background()
	testutil.CreateItem(t, sf.queries, sf.de.ID, sf.global.ID, "wcf.global.overview", "Übersicht")

	results, err := sf.svc.Search(ctx, SearchOptions{Query: "ÜBER"})
	require.NoError(t, err)
	assert.Equal(t, []string{"wcf.global.overview"}, names(results))

	results, err = sf.svc.Search(ctx, SearchOptions{Query: "über", Replace: strPtr("X"), LanguageID: sf.de.ID})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Matches)

	item, err := sf.queries.GetItem(ctx, sf.de.ID, "wcf.global.overview")
	require.NoError(t, err)
	assert.True(t, item.UseCustomValue)
	assert.Equal(t, "Xsicht", item.EffectiveValue())
}

func TestSearch_ReplaceLiteral(t *testing.T) {
	sf := newSearchFixture(t)
	ctx := context.Background()

	sf.touch(t, "language/1_wcf.acp.php", "language/1_wcf.global.php", "language/2_wcf.global.php")

	results, err := sf.svc.Search(ctx, SearchOptions{Query: "HELLO", Replace: strPtr("Hi $1"), LanguageID: sf.en.ID})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "wcf.acp.greeting", results[0].Name)
	assert.Equal(t, 2, results[0].Matches)
	assert.Equal(t, 1, results[1].Matches)
	assert.Equal(t, "Hi $1 admin, Hi $1 again", results[0].EffectiveValue())

	greeting, err := sf.queries.GetItem(ctx, sf.en.ID, "wcf.acp.greeting")
	require.NoError(t, err)
	assert.True(t, greeting.UseCustomValue)
	assert.Equal(t, "Hi $1 admin, Hi $1 again", greeting.EffectiveValue())
	assert.Equal(t, "hello admin, hello again", greeting.Value, "system value kept")
	assert.True(t, greeting.OriginIsSystem)

	hello, err := sf.queries.GetItem(ctx, sf.en.ID, "wcf.global.hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi $1 {name}", hello.EffectiveValue())

	bye, err := sf.queries.GetItem(ctx, sf.en.ID, "wcf.global.bye")
	require.NoError(t, err)
	assert.False(t, bye.UseCustomValue, "untouched item")
	assert.False(t, bye.CustomValue.Valid)

	de, err := sf.queries.GetItem(ctx, sf.de.ID, "wcf.global.hello")
	require.NoError(t, err)
	assert.False(t, de.UseCustomValue, "other language untouched")

	assert.Equal(t, []string{"2_wcf.global.php"}, sf.files(t, "language"), "only touched files invalidated")
}

func TestSearch_ReplaceRegex(t *testing.T) {
	sf := newSearchFixture(t)
	ctx := context.Background()

	results, err := sf.svc.Search(ctx, SearchOptions{
		Query:    `H(a|e)llo \{(\w+)\}`,
		Replace:  strPtr("${2}: hi"),
		UseRegex: true,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, lang := range []store.Language{sf.en, sf.de} {
		item, err := sf.queries.GetItem(ctx, lang.ID, "wcf.global.hello")
		require.NoError(t, err)
		assert.Equal(t, "name: hi", item.EffectiveValue(), lang.LanguageCode)
		assert.True(t, item.UseCustomValue)
	}

	// Regex filtering is case-insensitive, replacement is not.
	results, err = sf.svc.Search(ctx, SearchOptions{Query: "GOODBYE", Replace: strPtr("x"), UseRegex: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Zero(t, results[0].Matches)

	bye, err := sf.queries.GetItem(ctx, sf.en.ID, "wcf.global.bye")
	require.NoError(t, err)
	assert.False(t, bye.UseCustomValue)
}

func TestSearch_Errors(t *testing.T) {
	sf := newSearchFixture(t)

	_, err := sf.svc.Search(context.Background(), SearchOptions{})
	assert.ErrorIs(t, err, ErrEmptySearch)

	_, err = sf.svc.Search(context.Background(), SearchOptions{Query: "(", UseRegex: true})
	assert.ErrorIs(t, err, ErrInvalidPattern)
}
