// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package hooks provides the post-commit notification registry. Components
// that mutate language data emit a hook after their writes succeed;
// components owning derived state (compiled files, caches) subscribe.
package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Hook names.
const (
	// LanguageItemsChanged carries an ItemsChanged payload.
	LanguageItemsChanged = "language.items_changed"
	// LanguageDeleted carries a LanguageDeletedEvent payload.
	LanguageDeleted = "language.deleted"
	// LanguageReset carries no payload; every compiled language file is stale.
	LanguageReset = "language.reset"
	// CategoryACLReset carries no payload.
	CategoryACLReset = "category.acl_reset"
)

// ItemsChanged is emitted after language items were written.
// An empty Category means every category of the language is affected.
// Compiled templates of the language are always stale afterwards; the
// compiled language files are kept when SkipFiles is set.
type ItemsChanged struct {
	LanguageID int64
	Category   string
	SkipFiles  bool
}

// LanguageDeletedEvent is emitted after a language row was removed.
type LanguageDeletedEvent struct {
	LanguageID int64
}

// Func is a function that can be registered as a hook handler.
// It receives a context and data, and returns modified data and an error.
// If the hook returns an error, subsequent hooks are not called.
type Func func(ctx context.Context, data any) (any, error)

// Handler wraps a Func with metadata.
type Handler struct {
	Name     string // Name of the handler for debugging
	Owner    string // Component that registered the handler
	Priority int    // Lower priority runs first (default: 0)
	Fn       Func
}

// Registry manages hook registration and execution.
type Registry struct {
	hooks  map[string][]Handler
	logger *slog.Logger
	mu     sync.RWMutex
}

// NewRegistry creates a new hook registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		hooks:  make(map[string][]Handler),
		logger: logger,
	}
}

// Register adds a handler for the given hook name.
func (r *Registry) Register(hookName string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.hooks[hookName]
	handlers := make([]Handler, 0, len(existing)+1)
	handlers = append(append(handlers, existing...), handler)
	sort.SliceStable(handlers, func(i, j int) bool {
		return handlers[i].Priority < handlers[j].Priority
	})
	r.hooks[hookName] = handlers

	r.logger.Debug("hook registered",
		"hook", hookName,
		"handler", handler.Name,
		"owner", handler.Owner,
		"priority", handler.Priority,
	)
}

// RegisterFunc registers a notification handler that does not modify data.
func (r *Registry) RegisterFunc(hookName, handlerName, owner string, fn func(ctx context.Context, data any) error) {
	r.Register(hookName, Handler{
		Name:  handlerName,
		Owner: owner,
		Fn: func(ctx context.Context, data any) (any, error) {
			return data, fn(ctx, data)
		},
	})
}

// Call executes all handlers for the given hook name in priority order.
// The data is passed through each handler, allowing modification.
// If any handler returns an error, execution stops and the error is returned.
func (r *Registry) Call(ctx context.Context, hookName string, data any) (any, error) {
	r.mu.RLock()
	handlers := r.hooks[hookName]
	r.mu.RUnlock()

	if len(handlers) == 0 {
		return data, nil
	}

	r.logger.Debug("calling hooks", "hook", hookName, "handlers", len(handlers))

	current := data
	for _, handler := range handlers {
		result, err := handler.Fn(ctx, current)
		if err != nil {
			r.logger.Error("hook handler error",
				"hook", hookName,
				"handler", handler.Name,
				"owner", handler.Owner,
				"error", err,
			)
			return nil, fmt.Errorf("hook %s handler %s: %w", hookName, handler.Name, err)
		}
		current = result
	}

	return current, nil
}

// CallNoResult executes hooks without expecting a modified result.
func (r *Registry) CallNoResult(ctx context.Context, hookName string, data any) error {
	_, err := r.Call(ctx, hookName, data)
	return err
}

// HandlerCount returns the number of handlers registered for a hook.
func (r *Registry) HandlerCount(hookName string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks[hookName])
}

// Info describes a registered hook.
type Info struct {
	Name     string   `json:"name"`
	Handlers []string `json:"handlers"`
}

// List returns every hook with its handler names, sorted by hook name.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.hooks))
	for name, handlers := range r.hooks {
		names := make([]string, len(handlers))
		for i, h := range handlers {
			names[i] = h.Owner + "/" + h.Name
		}
		infos = append(infos, Info{Name: name, Handlers: names})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
