// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/olegiv/ocms-language/internal/cache"
	"github.com/olegiv/ocms-language/internal/category"
	"github.com/olegiv/ocms-language/internal/config"
	"github.com/olegiv/ocms-language/internal/language"
	"github.com/olegiv/ocms-language/internal/logging"
	"github.com/olegiv/ocms-language/internal/store"
)

// app holds the wired components shared by every command.
type app struct {
	cfg         *config.Config
	logger      *slog.Logger
	db          *sql.DB
	queries     *store.Queries
	cache       *cache.Manager
	shared      cache.Cacher
	languages   *language.Service
	permissions *category.PermissionHandler
	options     *category.OptionEditor
}

// newApp loads the configuration, opens and migrates the database and
// wires the language service.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.Env)
	slog.SetDefault(logger)

	dialect, err := store.ParseDialect(cfg.DBDriver)
	if err != nil {
		return nil, err
	}

	if dialect == store.DialectSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o750); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := store.Open(dialect, cfg.DBSource())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := store.MigrateDialect(db, dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	if cfg.DoSeed {
		if err := store.Seed(ctx, db, dialect); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("seeding database: %w", err)
		}
	}

	shared, err := cache.NewCache(cache.CacheConfig{
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		DefaultTTL:       cfg.CacheTTLDuration(),
		CleanupInterval:  cache.DefaultCacheConfig().CleanupInterval,
		FallbackToMemory: cfg.RedisFallback,
	}, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	codec, err := language.CodecFor(cfg.LanguageFileFormat)
	if err != nil {
		_ = db.Close()
		_ = shared.Close()
		return nil, err
	}

	queries := store.NewWithDialect(db, dialect)
	manager := cache.NewManager(queries, shared, cfg.CacheTTLDuration(), logger)

	svc := language.NewService(language.Options{
		DB:           db,
		Queries:      queries,
		Registry:     manager.Languages,
		Codec:        codec,
		LanguageDir:  cfg.LanguageDir(),
		TemplateDirs: cfg.TemplateDirs(),
		PackageID:    cfg.PackageID,
		Logger:       logger,
	})

	permissions := category.NewPermissionHandler(manager.ACL, logger)
	permissions.Subscribe(svc.Hooks())

	return &app{
		cfg:         cfg,
		logger:      logger,
		db:          db,
		queries:     queries,
		cache:       manager,
		shared:      shared,
		languages:   svc,
		permissions: permissions,
		options:     category.NewOptionEditor(db, queries, svc.Hooks(), logger),
	}, nil
}

// Close releases the cache and the database.
func (a *app) Close() {
	if err := a.cache.Close(); err != nil {
		a.logger.Error("closing cache", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("closing database", "error", err)
	}
}

// languageByCode returns the editor of an installed language.
func (a *app) languageByCode(ctx context.Context, code string) (*language.Editor, error) {
	lang, err := a.languages.LanguageByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if lang == nil {
		return nil, fmt.Errorf("%w: %s", language.ErrLanguageNotFound, code)
	}
	return a.languages.Editor(*lang), nil
}
