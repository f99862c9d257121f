// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package language

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olegiv/ocms-language/internal/hooks"
	"github.com/olegiv/ocms-language/internal/store"
	"github.com/olegiv/ocms-language/internal/util"
)

// Editor edits one language.
type Editor struct {
	svc  *Service
	lang store.Language
}

// Language returns the language the editor is bound to.
func (e *Editor) Language() store.Language {
	return e.lang
}

// LanguageFilePath returns the compiled file path of a category.
func (e *Editor) LanguageFilePath(category string) (string, error) {
	name := strconv.FormatInt(e.lang.ID, 10) + "_" + category + e.svc.codec.Extension()
	return util.SafeJoinPath(e.svc.languageDir, name)
}

// WriteLanguageFiles compiles the files of the given categories. Categories
// without items for this language, or unknown to the registry, are skipped.
// It returns the number of files written.
func (e *Editor) WriteLanguageFiles(ctx context.Context, categoryIDs []int64) (int, error) {
	if len(categoryIDs) == 0 {
		return 0, nil
	}

	items, err := e.svc.queries.ListItemsForCategories(ctx, e.lang.ID, categoryIDs)
	if err != nil {
		return 0, fmt.Errorf("listing items of language %d: %w", e.lang.ID, err)
	}

	var order []int64
	byCategory := make(map[int64]map[string]string)
	for _, item := range items {
		if byCategory[item.CategoryID] == nil {
			byCategory[item.CategoryID] = make(map[string]string)
			order = append(order, item.CategoryID)
		}
		byCategory[item.CategoryID][item.Name] = item.EffectiveValue()
	}

	written := 0
	for _, categoryID := range order {
		cat, err := e.svc.registry.CategoryByID(ctx, categoryID)
		if err != nil {
			return written, fmt.Errorf("looking up category %d: %w", categoryID, err)
		}
		if cat == nil {
			e.svc.logger.Debug("skipping unknown language category", "category_id", categoryID)
			continue
		}

		artifact, err := e.compile(*cat, byCategory[categoryID])
		if err != nil {
			return written, err
		}
		if err := e.writeArtifact(artifact); err != nil {
			return written, err
		}
		written++
	}

	e.svc.logger.Debug("language files written", "language_id", e.lang.ID, "files", written)
	return written, nil
}

// WriteAllLanguageFiles compiles the files of every category.
func (e *Editor) WriteAllLanguageFiles(ctx context.Context) (int, error) {
	categories, err := e.svc.queries.ListCategories(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing categories: %w", err)
	}
	ids := make([]int64, 0, len(categories))
	for _, cat := range categories {
		ids = append(ids, cat.ID)
	}
	return e.WriteLanguageFiles(ctx, ids)
}

// UpdateCategory writes the compiled file of one category.
func (e *Editor) UpdateCategory(ctx context.Context, category store.LanguageCategory) error {
	_, err := e.WriteLanguageFiles(ctx, []int64{category.ID})
	return err
}

func (e *Editor) compile(cat store.LanguageCategory, values map[string]string) (Artifact, error) {
	artifact := Artifact{
		LanguageCode: e.lang.LanguageCode,
		Category:     cat.Name,
		GeneratedAt:  e.svc.now(),
		Items:        values,
		DynamicItems: make(map[string]string),
	}
	if cat.Name == store.GlobalCategory {
		return artifact, nil
	}

	for name, value := range values {
		if !strings.Contains(value, "{") {
			continue
		}
		compiled, err := e.svc.compiler.CompileString(name, value)
		if err != nil {
			return Artifact{}, fmt.Errorf("compiling %s: %w", name, err)
		}
		artifact.DynamicItems[name] = compiled.Template
	}
	return artifact, nil
}

func (e *Editor) writeArtifact(a Artifact) error {
	path, err := e.LanguageFilePath(a.Category)
	if err != nil {
		return err
	}
	data, err := e.svc.codec.Encode(a)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return util.WriteFileAtomic(path, data, 0o644)
}

// Export writes the items of this language as a language file. When
// packageIDs is not empty only items of those packages are exported. With
// customValues the effective value is exported instead of the system value.
func (e *Editor) Export(ctx context.Context, w io.Writer, packageIDs []int64, customValues bool) error {
	items, err := e.svc.queries.ListExportItems(ctx, store.ListExportItemsParams{
		LanguageID:   e.lang.ID,
		PackageIDs:   packageIDs,
		CustomValues: customValues,
	})
	if err != nil {
		return fmt.Errorf("listing export items: %w", err)
	}
	return writeExport(w, e.lang, items)
}

// ImportOptions controls UpdateFromXML.
type ImportOptions struct {
	// UpdateFiles invalidates the compiled files of the language.
	UpdateFiles bool
	// UpdateExistingItems merges duplicates; otherwise they are ignored.
	UpdateExistingItems bool
}

// DefaultImportOptions returns the options used by ImportFromXML.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{UpdateFiles: true, UpdateExistingItems: true}
}

// ImportResult summarizes an import.
type ImportResult struct {
	Categories        int `json:"categories"`
	CreatedCategories int `json:"created_categories"`
	Items             int `json:"items"`
}

// UpdateFromXML imports the items of doc into this language in a single
// transaction. Missing categories are created. Items are written in
// batches of at most store.MaxItemsPerStatement rows. With
// UpdateExistingItems a duplicate takes the imported value unless it was
// created by a user, moves to the imported category and drops its custom
// override; without it duplicates are left unchanged.
func (e *Editor) UpdateFromXML(ctx context.Context, doc *Document, packageID int64, opts ImportOptions) (ImportResult, error) {
	if len(doc.Categories) == 0 {
		return ImportResult{}, nil
	}

	var result ImportResult
	err := e.svc.inTx(ctx, func(q *store.Queries) error {
		var err error
		result, err = e.importItems(ctx, q, doc, packageID, opts)
		return err
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("importing into language %s: %w", e.lang.LanguageCode, err)
	}
	return result, e.imported(ctx, result, opts)
}

// importItems writes the categories and items of doc through q.
func (e *Editor) importItems(ctx context.Context, q *store.Queries, doc *Document, packageID int64, opts ImportOptions) (ImportResult, error) {
	var result ImportResult
	if len(doc.Categories) == 0 {
		return result, nil
	}

	var names []string
	seen := make(map[string]bool)
	for _, c := range doc.Categories {
		if !seen[c.Name] {
			seen[c.Name] = true
			names = append(names, c.Name)
		}
	}
	result.Categories = len(names)

	existing, err := q.ListCategoriesByNames(ctx, names)
	if err != nil {
		return result, fmt.Errorf("listing categories: %w", err)
	}
	ids := make(map[string]int64, len(names))
	for _, cat := range existing {
		ids[cat.Name] = cat.ID
	}
	for _, name := range names {
		if _, ok := ids[name]; ok {
			continue
		}
		cat, err := q.CreateCategory(ctx, name)
		if err != nil {
			return result, fmt.Errorf("creating category %s: %w", name, err)
		}
		ids[name] = cat.ID
		result.CreatedCategories++
	}

	rows := make([]store.ImportItem, 0, doc.ItemCount())
	for _, c := range doc.Categories {
		for _, item := range c.Items {
			rows = append(rows, store.ImportItem{
				LanguageID: e.lang.ID,
				Name:       item.Name,
				Value:      item.Value,
				CategoryID: ids[c.Name],
				PackageID:  packageID,
			})
		}
	}
	result.Items = len(rows)

	if err := q.UpsertItems(ctx, rows, packageID > 0, opts.UpdateExistingItems); err != nil {
		return result, fmt.Errorf("writing items: %w", err)
	}
	return result, nil
}

// imported runs after a committed import.
func (e *Editor) imported(ctx context.Context, result ImportResult, opts ImportOptions) error {
	if result.CreatedCategories > 0 {
		e.svc.registry.Invalidate()
	}

	e.svc.logger.Info("language file imported",
		"language_id", e.lang.ID,
		"code", e.lang.LanguageCode,
		"categories", result.Categories,
		"created_categories", result.CreatedCategories,
		"items", result.Items,
	)

	return e.svc.hooks.CallNoResult(ctx, hooks.LanguageItemsChanged, hooks.ItemsChanged{
		LanguageID: e.lang.ID,
		SkipFiles:  !opts.UpdateFiles,
	})
}

// Copy copies every item of this language into destination, which is
// expected to have no items yet.
func (e *Editor) Copy(ctx context.Context, destination store.Language) error {
	if err := e.svc.queries.CopyItems(ctx, destination.ID, e.lang.ID); err != nil {
		return fmt.Errorf("copying language %d to %d: %w", e.lang.ID, destination.ID, err)
	}
	return e.svc.hooks.CallNoResult(ctx, hooks.LanguageItemsChanged, hooks.ItemsChanged{LanguageID: destination.ID})
}

// SetAsDefault makes this language the only default language.
func (e *Editor) SetAsDefault(ctx context.Context) error {
	err := e.svc.inTx(ctx, func(q *store.Queries) error {
		if err := q.ClearDefaultLanguage(ctx); err != nil {
			return err
		}
		return q.SetDefaultLanguage(ctx, e.lang.ID)
	})
	if err != nil {
		return fmt.Errorf("setting default language %d: %w", e.lang.ID, err)
	}
	e.lang.IsDefault = true
	e.ClearCache()
	return nil
}

// Delete removes the language, its items and its compiled files.
func (e *Editor) Delete(ctx context.Context) error {
	if err := e.svc.queries.DeleteLanguage(ctx, e.lang.ID); err != nil {
		return fmt.Errorf("deleting language %d: %w", e.lang.ID, err)
	}
	e.ClearCache()

	e.svc.logger.Info("language deleted", "language_id", e.lang.ID, "code", e.lang.LanguageCode)
	return e.svc.hooks.CallNoResult(ctx, hooks.LanguageDeleted, hooks.LanguageDeletedEvent{LanguageID: e.lang.ID})
}

// DeleteCompiledTemplates removes the compiled templates of this language.
func (e *Editor) DeleteCompiledTemplates(_ context.Context) error {
	_, err := e.svc.files.DeleteCompiledTemplates(e.lang.ID)
	return err
}

// ClearCache clears the language registry.
func (e *Editor) ClearCache() {
	e.svc.registry.Invalidate()
}
