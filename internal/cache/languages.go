// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/olegiv/ocms-language/internal/store"
)

// LanguageCache provides cached access to languages and language categories.
// Everything is loaded at once on first use and served from memory until
// Invalidate is called.
type LanguageCache struct {
	queries *store.Queries
	mu      sync.RWMutex
	loaded  bool

	languages      []store.Language
	byID           map[int64]store.Language
	byCode         map[string]store.Language
	defaultLang    *store.Language
	categories     []store.LanguageCategory
	categoryByID   map[int64]store.LanguageCategory
	categoryByName map[string]store.LanguageCategory

	hits   atomic.Int64
	misses atomic.Int64
	loads  atomic.Int64
}

// NewLanguageCache creates a new language cache.
func NewLanguageCache(queries *store.Queries) *LanguageCache {
	return &LanguageCache{queries: queries}
}

// Languages returns all languages.
func (c *LanguageCache) Languages(ctx context.Context) ([]store.Language, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]store.Language, len(c.languages))
	copy(result, c.languages)
	c.hits.Add(1)
	return result, nil
}

// LanguageByID returns a language, or nil if it does not exist.
func (c *LanguageCache) LanguageByID(ctx context.Context, id int64) (*store.Language, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return lookup(c, c.byID, id), nil
}

// LanguageByCode returns a language by its code, or nil if it does not exist.
func (c *LanguageCache) LanguageByCode(ctx context.Context, code string) (*store.Language, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return lookup(c, c.byCode, code), nil
}

// Default returns the default language, or nil if none is marked.
func (c *LanguageCache) Default(ctx context.Context) (*store.Language, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.defaultLang == nil {
		c.misses.Add(1)
		return nil, nil
	}
	lang := *c.defaultLang
	c.hits.Add(1)
	return &lang, nil
}

// Categories returns all language categories ordered by name.
func (c *LanguageCache) Categories(ctx context.Context) ([]store.LanguageCategory, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]store.LanguageCategory, len(c.categories))
	copy(result, c.categories)
	c.hits.Add(1)
	return result, nil
}

// CategoryByID returns a category, or nil if it does not exist.
func (c *LanguageCache) CategoryByID(ctx context.Context, id int64) (*store.LanguageCategory, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return lookup(c, c.categoryByID, id), nil
}

// CategoryByName returns a category by name, or nil if it does not exist.
func (c *LanguageCache) CategoryByName(ctx context.Context, name string) (*store.LanguageCategory, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return lookup(c, c.categoryByName, name), nil
}

// lookup must be called with the read lock held.
func lookup[K comparable, V any](c *LanguageCache, m map[K]V, key K) *V {
	v, ok := m[key]
	if !ok {
		c.misses.Add(1)
		return nil
	}
	c.hits.Add(1)
	return &v
}

func (c *LanguageCache) ensureLoaded(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}
	return c.loadAll(ctx)
}

// loadAll loads all languages and categories from the database.
func (c *LanguageCache) loadAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.loaded {
		return nil
	}

	languages, err := c.queries.ListLanguages(ctx)
	if err != nil {
		return err
	}
	categories, err := c.queries.ListCategories(ctx)
	if err != nil {
		return err
	}

	c.languages = languages
	c.byID = make(map[int64]store.Language, len(languages))
	c.byCode = make(map[string]store.Language, len(languages))
	c.defaultLang = nil
	for _, lang := range languages {
		c.byID[lang.ID] = lang
		c.byCode[lang.LanguageCode] = lang
		if lang.IsDefault {
			langCopy := lang
			c.defaultLang = &langCopy
		}
	}

	c.categories = categories
	c.categoryByID = make(map[int64]store.LanguageCategory, len(categories))
	c.categoryByName = make(map[string]store.LanguageCategory, len(categories))
	for _, cat := range categories {
		c.categoryByID[cat.ID] = cat
		c.categoryByName[cat.Name] = cat
	}

	c.loaded = true
	c.loads.Add(1)
	return nil
}

// Invalidate clears the cache, forcing a reload on next access.
func (c *LanguageCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.languages = nil
	c.byID = nil
	c.byCode = nil
	c.defaultLang = nil
	c.categories = nil
	c.categoryByID = nil
	c.categoryByName = nil
}

// Loads returns how many times the cache was loaded from the database.
func (c *LanguageCache) Loads() int64 {
	return c.loads.Load()
}

// Stats returns cache statistics.
func (c *LanguageCache) Stats() Stats {
	c.mu.RLock()
	items := len(c.languages) + len(c.categories)
	c.mu.RUnlock()

	hits, misses := c.hits.Load(), c.misses.Load()
	return Stats{
		Name:    "languages",
		Hits:    hits,
		Misses:  misses,
		Sets:    c.loads.Load(),
		Items:   items,
		HitRate: hitRate(hits, misses),
	}
}

// ResetStats resets the cache statistics.
func (c *LanguageCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
}

// Preload loads everything into the cache.
func (c *LanguageCache) Preload(ctx context.Context) error {
	return c.loadAll(ctx)
}
