// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package language

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/olegiv/ocms-language/internal/hooks"
	"github.com/olegiv/ocms-language/internal/util"
)

// Wildcard matches any language or category in DeleteLanguageFiles.
const Wildcard = ".*"

// Invalidator deletes derived files when language data changes. It never
// rewrites files; compiled artifacts are regenerated on demand.
type Invalidator struct {
	languageDir  string
	templateDirs []string
	ext          string
	logger       *slog.Logger
}

// NewInvalidator creates an invalidator for compiled language files with
// extension ext in languageDir and compiled templates in templateDirs.
func NewInvalidator(languageDir string, templateDirs []string, ext string, logger *slog.Logger) *Invalidator {
	return &Invalidator{
		languageDir:  languageDir,
		templateDirs: templateDirs,
		ext:          ext,
		logger:       logger,
	}
}

// LanguageFilePattern returns the file name pattern for a language ID and
// category, either of which may be Wildcard. A language ID that is not a
// number is treated as 0.
func LanguageFilePattern(languageID, category, ext string) *regexp.Regexp {
	if languageID != Wildcard {
		id, _ := strconv.ParseInt(languageID, 10, 64)
		languageID = strconv.FormatInt(id, 10)
	}
	if category != Wildcard {
		category = regexp.QuoteMeta(category)
	}
	return regexp.MustCompile(`^` + languageID + `_` + category + regexp.QuoteMeta(ext) + `$`)
}

// TemplateFilePattern returns the compiled template pattern of a language.
func TemplateFilePattern(languageID int64) *regexp.Regexp {
	return regexp.MustCompile(`^.*_` + strconv.FormatInt(languageID, 10) + `_.*\.php$`)
}

// DeleteLanguageFiles removes compiled language files.
func (inv *Invalidator) DeleteLanguageFiles(languageID, category string) (int, error) {
	n, err := util.RemovePattern(inv.languageDir, LanguageFilePattern(languageID, category, inv.ext))
	if err != nil {
		return n, fmt.Errorf("deleting language files: %w", err)
	}
	if n > 0 {
		inv.logger.Debug("language files deleted", "language", languageID, "category", category, "count", n)
	}
	return n, nil
}

// DeleteCompiledTemplates removes the compiled templates of a language.
func (inv *Invalidator) DeleteCompiledTemplates(languageID int64) (int, error) {
	re := TemplateFilePattern(languageID)

	total := 0
	for _, dir := range inv.templateDirs {
		n, err := util.RemovePattern(dir, re)
		total += n
		if err != nil {
			return total, fmt.Errorf("deleting compiled templates: %w", err)
		}
	}
	if total > 0 {
		inv.logger.Debug("compiled templates deleted", "language_id", languageID, "count", total)
	}
	return total, nil
}

// Subscribe registers the invalidator on the language hooks.
func (inv *Invalidator) Subscribe(reg *hooks.Registry) {
	const owner = "language.invalidator"

	reg.RegisterFunc(hooks.LanguageItemsChanged, "delete_files", owner, func(_ context.Context, data any) error {
		ev, ok := data.(hooks.ItemsChanged)
		if !ok {
			return fmt.Errorf("unexpected payload %T", data)
		}
		if !ev.SkipFiles {
			category := ev.Category
			if category == "" {
				category = Wildcard
			}
			if _, err := inv.DeleteLanguageFiles(strconv.FormatInt(ev.LanguageID, 10), category); err != nil {
				return err
			}
		}
		_, err := inv.DeleteCompiledTemplates(ev.LanguageID)
		return err
	})

	reg.RegisterFunc(hooks.LanguageDeleted, "delete_files", owner, func(_ context.Context, data any) error {
		ev, ok := data.(hooks.LanguageDeletedEvent)
		if !ok {
			return fmt.Errorf("unexpected payload %T", data)
		}
		if _, err := inv.DeleteLanguageFiles(strconv.FormatInt(ev.LanguageID, 10), Wildcard); err != nil {
			return err
		}
		_, err := inv.DeleteCompiledTemplates(ev.LanguageID)
		return err
	})

	reg.RegisterFunc(hooks.LanguageReset, "delete_files", owner, func(context.Context, any) error {
		_, err := inv.DeleteLanguageFiles(Wildcard, Wildcard)
		return err
	})
}
