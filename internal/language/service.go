// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package language edits languages and their items: it compiles language
// files, imports and exports language XML, searches and replaces values
// and emits the hooks that invalidate derived files.
package language

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	textlang "golang.org/x/text/language"

	"github.com/olegiv/ocms-language/internal/hooks"
	"github.com/olegiv/ocms-language/internal/scripting"
	"github.com/olegiv/ocms-language/internal/store"
)

// Registry provides cached lookups of languages and categories.
type Registry interface {
	LanguageByID(ctx context.Context, id int64) (*store.Language, error)
	LanguageByCode(ctx context.Context, code string) (*store.Language, error)
	CategoryByID(ctx context.Context, id int64) (*store.LanguageCategory, error)
	CategoryByName(ctx context.Context, name string) (*store.LanguageCategory, error)
	Languages(ctx context.Context) ([]store.Language, error)
	Default(ctx context.Context) (*store.Language, error)
	Invalidate()
}

// TemplateCompiler compiles values containing placeholders.
type TemplateCompiler interface {
	CompileString(name, value string) (scripting.Compiled, error)
}

// Options configures a Service.
type Options struct {
	DB           *sql.DB
	Queries      *store.Queries
	Registry     Registry
	Compiler     TemplateCompiler
	Codec        Codec
	Hooks        *hooks.Registry
	LanguageDir  string
	TemplateDirs []string
	// PackageID is recorded on items created through UpdateItems.
	PackageID int64
	Logger    *slog.Logger
}

// Service implements the operations that are not bound to one language
// and creates editors for the others.
type Service struct {
	db          *sql.DB
	queries     *store.Queries
	registry    Registry
	compiler    TemplateCompiler
	codec       Codec
	hooks       *hooks.Registry
	files       *Invalidator
	languageDir string
	packageID   int64
	logger      *slog.Logger
	now         func() time.Time
}

// NewService creates the service and subscribes its invalidator to the
// language hooks.
func NewService(opts Options) *Service {
	if opts.Codec == nil {
		opts.Codec = PHPCodec{}
	}
	if opts.Compiler == nil {
		opts.Compiler = scripting.NewCompiler()
	}
	if opts.Hooks == nil {
		opts.Hooks = hooks.NewRegistry(opts.Logger)
	}

	s := &Service{
		db:          opts.DB,
		queries:     opts.Queries,
		registry:    opts.Registry,
		compiler:    opts.Compiler,
		codec:       opts.Codec,
		hooks:       opts.Hooks,
		files:       NewInvalidator(opts.LanguageDir, opts.TemplateDirs, opts.Codec.Extension(), opts.Logger),
		languageDir: opts.LanguageDir,
		packageID:   opts.PackageID,
		logger:      opts.Logger,
		now:         time.Now,
	}
	s.files.Subscribe(s.hooks)
	return s
}

// Hooks returns the registry the service emits on.
func (s *Service) Hooks() *hooks.Registry {
	return s.hooks
}

// Editor returns an editor bound to lang.
func (s *Service) Editor(lang store.Language) *Editor {
	return &Editor{svc: s, lang: lang}
}

// EditorByID loads a language and returns its editor.
func (s *Service) EditorByID(ctx context.Context, id int64) (*Editor, error) {
	lang, err := s.queries.GetLanguage(ctx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %d", ErrLanguageNotFound, id)
		}
		return nil, fmt.Errorf("loading language %d: %w", id, err)
	}
	return s.Editor(lang), nil
}

// LanguageByCode returns an installed language, or nil if there is none
// with that code.
func (s *Service) LanguageByCode(ctx context.Context, code string) (*store.Language, error) {
	return s.registry.LanguageByCode(ctx, code)
}

// Languages returns every installed language.
func (s *Service) Languages(ctx context.Context) ([]store.Language, error) {
	return s.registry.Languages(ctx)
}

// CreateParams holds the attributes of a new language.
type CreateParams struct {
	LanguageCode string
	CountryCode  string
	LanguageName string
	IsDefault    bool
}

// ValidateCode checks that code is a well-formed BCP 47 language tag.
func ValidateCode(code string) error {
	if code == "" {
		return fmt.Errorf("%w: empty", ErrInvalidLanguageCode)
	}
	if _, err := textlang.Parse(code); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidLanguageCode, code, err)
	}
	return nil
}

// Create inserts a language and returns its editor.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Editor, error) {
	if err := ValidateCode(params.LanguageCode); err != nil {
		return nil, err
	}

	lang, err := s.queries.CreateLanguage(ctx, store.CreateLanguageParams{
		LanguageCode: params.LanguageCode,
		CountryCode:  params.CountryCode,
		LanguageName: params.LanguageName,
		IsDefault:    params.IsDefault,
	})
	if err != nil {
		return nil, fmt.Errorf("creating language %s: %w", params.LanguageCode, err)
	}
	s.registry.Invalidate()

	s.logger.Info("language created", "language_id", lang.ID, "code", lang.LanguageCode)
	return s.Editor(lang), nil
}

// ImportFromXML imports a language file into the language with the
// document's language code. When that language does not exist yet it is
// created from the countrycode and languagename attributes in the same
// transaction as the items, so a failed import leaves nothing behind.
// Both attributes are only required in that case.
func (s *Service) ImportFromXML(ctx context.Context, doc *Document, packageID int64) (*Editor, ImportResult, error) {
	code, err := doc.LanguageCode()
	if err != nil {
		return nil, ImportResult{}, err
	}

	existing, err := s.registry.LanguageByCode(ctx, code)
	if err != nil {
		return nil, ImportResult{}, fmt.Errorf("looking up language %s: %w", code, err)
	}
	if existing != nil {
		editor := s.Editor(*existing)
		result, err := editor.UpdateFromXML(ctx, doc, packageID, DefaultImportOptions())
		if err != nil {
			return nil, result, err
		}
		return editor, result, nil
	}

	if err := ValidateCode(code); err != nil {
		return nil, ImportResult{}, err
	}
	country, err := doc.CountryCode()
	if err != nil {
		return nil, ImportResult{}, err
	}
	name, err := doc.LanguageName()
	if err != nil {
		return nil, ImportResult{}, err
	}

	var (
		editor *Editor
		result ImportResult
	)
	err = s.inTx(ctx, func(q *store.Queries) error {
		lang, err := q.CreateLanguage(ctx, store.CreateLanguageParams{
			LanguageCode: code,
			CountryCode:  country,
			LanguageName: name,
		})
		if err != nil {
			return fmt.Errorf("creating language %s: %w", code, err)
		}
		editor = s.Editor(lang)
		result, err = editor.importItems(ctx, q, doc, packageID, DefaultImportOptions())
		return err
	})
	if err != nil {
		return nil, ImportResult{}, fmt.Errorf("importing language %s: %w", code, err)
	}
	s.registry.Invalidate()
	s.logger.Info("language created", "language_id", editor.Language().ID, "code", code)

	if result.Categories == 0 {
		return editor, result, nil
	}
	return editor, result, editor.imported(ctx, result, DefaultImportOptions())
}

// EnableMultilingualism marks exactly the given languages as having
// multilingual content.
func (s *Service) EnableMultilingualism(ctx context.Context, languageIDs []int64) error {
	err := s.inTx(ctx, func(q *store.Queries) error {
		if err := q.ClearHasContent(ctx); err != nil {
			return err
		}
		return q.SetHasContent(ctx, languageIDs)
	})
	if err != nil {
		return fmt.Errorf("enabling multilingualism: %w", err)
	}
	s.registry.Invalidate()
	return nil
}

// DeleteLanguageFiles removes compiled language files. Either argument may
// be Wildcard.
func (s *Service) DeleteLanguageFiles(languageID, category string) (int, error) {
	return s.files.DeleteLanguageFiles(languageID, category)
}

// UpdateAll invalidates every compiled language file.
func (s *Service) UpdateAll(ctx context.Context) error {
	return s.hooks.CallNoResult(ctx, hooks.LanguageReset, nil)
}

// RebuildAll compiles the language files of every language and category.
// It returns the number of files written.
func (s *Service) RebuildAll(ctx context.Context) (int, error) {
	languages, err := s.registry.Languages(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing languages: %w", err)
	}

	total := 0
	for _, lang := range languages {
		written, err := s.Editor(lang).WriteAllLanguageFiles(ctx)
		total += written
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ResetCache clears the language registry.
func (s *Service) ResetCache() {
	s.registry.Invalidate()
}

func (s *Service) inTx(ctx context.Context, fn func(q *store.Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(s.queries.WithTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// category returns a category from the registry, falling back to the
// database for categories created since the registry was loaded.
func (s *Service) category(ctx context.Context, id int64) (store.LanguageCategory, error) {
	if cat, err := s.registry.CategoryByID(ctx, id); err != nil {
		return store.LanguageCategory{}, err
	} else if cat != nil {
		return *cat, nil
	}

	cat, err := s.queries.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.LanguageCategory{}, fmt.Errorf("%w: %d", ErrCategoryNotFound, id)
		}
		return store.LanguageCategory{}, err
	}
	return cat, nil
}

// CategoryByName returns the category with that name.
func (s *Service) CategoryByName(ctx context.Context, name string) (store.LanguageCategory, error) {
	if cat, err := s.registry.CategoryByName(ctx, name); err != nil {
		return store.LanguageCategory{}, err
	} else if cat != nil {
		return *cat, nil
	}

	cat, err := s.queries.GetCategoryByName(ctx, name)
	if err != nil {
		if store.IsNotFound(err) {
			return store.LanguageCategory{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, name)
		}
		return store.LanguageCategory{}, err
	}
	return cat, nil
}

// PackageID returns the package recorded on items created through the
// admin API.
func (s *Service) PackageID() int64 {
	return s.packageID
}
