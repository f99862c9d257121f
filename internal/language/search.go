// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package language

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"unicode/utf8"

	"github.com/olegiv/ocms-language/internal/store"
)

// SearchOptions describes a search over language items.
type SearchOptions struct {
	Query string
	// Replace is applied to every match when set; nil only previews.
	Replace *string
	// LanguageID restricts the search to one language when non-zero.
	LanguageID int64
	UseRegex   bool
	// SearchNames matches item names instead of values.
	SearchNames bool
}

// SearchResult is a matching item. Matches counts the replacements made
// in its value and is zero for previews. After a replacement the item
// carries its new custom value.
type SearchResult struct {
	store.LanguageItem
	Matches int `json:"matches,omitempty"`
}

// Search finds items whose value (system or custom) or name matches the
// query, case-insensitively. With a replacement every matching effective
// value is rewritten and stored as a custom value with the override flag
// set, through UpdateItems, grouped by language and category.
func (s *Service) Search(ctx context.Context, opts SearchOptions) ([]SearchResult, error) {
	if opts.Query == "" {
		return nil, ErrEmptySearch
	}

	filter, replacer, err := searchPatterns(opts)
	if err != nil {
		return nil, err
	}

	params := store.SearchItemsParams{Field: store.SearchFieldValue}
	if opts.SearchNames {
		params.Field = store.SearchFieldName
	}
	if opts.LanguageID > 0 {
		params.LanguageID = sql.NullInt64{Int64: opts.LanguageID, Valid: true}
	}
	if !opts.UseRegex && asciiOnly(opts.Query) {
		params.Contains = opts.Query
	}

	rows, err := s.queries.SearchItems(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("searching language items: %w", err)
	}

	// languageID -> categoryID -> item -> new value
	staged := make(map[int64]map[int64]map[string]string)

	var results []SearchResult
	for _, row := range rows {
		if params.Contains == "" && !regexMatches(filter, row, opts.SearchNames) {
			continue
		}

		result := SearchResult{LanguageItem: row}
		if opts.Replace != nil {
			value := row.EffectiveValue()
			if n := len(replacer.FindAllStringIndex(value, -1)); n > 0 {
				var replaced string
				if opts.UseRegex {
					replaced = replacer.ReplaceAllString(value, *opts.Replace)
				} else {
					replaced = replacer.ReplaceAllLiteralString(value, *opts.Replace)
				}
				if staged[row.LanguageID] == nil {
					staged[row.LanguageID] = make(map[int64]map[string]string)
				}
				if staged[row.LanguageID][row.CategoryID] == nil {
					staged[row.LanguageID][row.CategoryID] = make(map[string]string)
				}
				staged[row.LanguageID][row.CategoryID][row.Name] = replaced
				result.CustomValue = sql.NullString{String: replaced, Valid: true}
				result.UseCustomValue = true
				result.Matches = n
			}
		}
		results = append(results, result)
	}

	if err := s.applyReplacements(ctx, staged); err != nil {
		return results, err
	}
	return results, nil
}

// searchPatterns returns the row filter applied when the database cannot
// prefilter and the pattern replacements are made with.
func searchPatterns(opts SearchOptions) (filter, replacer *regexp.Regexp, err error) {
	if !opts.UseRegex {
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(opts.Query))
		return re, re, nil
	}

	filter, err = regexp.Compile(`(?is)` + opts.Query)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	replacer, err = regexp.Compile(`(?s)` + opts.Query)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return filter, replacer, nil
}

// asciiOnly reports whether s can be prefiltered with LIKE, which folds
// case for ASCII letters only in SQLite.
func asciiOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func regexMatches(re *regexp.Regexp, item store.LanguageItem, names bool) bool {
	if names {
		return re.MatchString(item.Name)
	}
	return re.MatchString(item.Value) || (item.CustomValue.Valid && re.MatchString(item.CustomValue.String))
}

func (s *Service) applyReplacements(ctx context.Context, staged map[int64]map[int64]map[string]string) error {
	languageIDs := make([]int64, 0, len(staged))
	for id := range staged {
		languageIDs = append(languageIDs, id)
	}
	sort.Slice(languageIDs, func(i, j int) bool { return languageIDs[i] < languageIDs[j] })

	for _, languageID := range languageIDs {
		editor, err := s.EditorByID(ctx, languageID)
		if err != nil {
			return err
		}

		categories := staged[languageID]
		categoryIDs := make([]int64, 0, len(categories))
		for id := range categories {
			categoryIDs = append(categoryIDs, id)
		}
		sort.Slice(categoryIDs, func(i, j int) bool { return categoryIDs[i] < categoryIDs[j] })

		for _, categoryID := range categoryIDs {
			category, err := s.category(ctx, categoryID)
			if err != nil {
				return err
			}
			items := categories[categoryID]
			useCustom := make(map[string]bool, len(items))
			for name := range items {
				useCustom[name] = true
			}
			if err := editor.UpdateItems(ctx, items, category, s.packageID, useCustom); err != nil {
				return err
			}
		}

		s.logger.Info("search and replace applied", "language_id", languageID, "categories", len(categoryIDs))
	}
	return nil
}
