// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/ocms-language/internal/cache"
	"github.com/olegiv/ocms-language/internal/category"
	"github.com/olegiv/ocms-language/internal/language"
	"github.com/olegiv/ocms-language/internal/middleware"
)

// RouterConfig holds everything the HTTP API is built from.
type RouterConfig struct {
	Languages      *language.Service
	Permissions    *category.PermissionHandler
	Options        *category.OptionEditor
	Cache          *cache.Manager
	Health         *HealthHandler
	AdminToken     string
	RateLimit      float64
	RateBurst      int
	IsDevelopment  bool
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter builds the HTTP API.
func NewRouter(cfg RouterConfig) http.Handler {
	languagesHandler := NewLanguagesHandler(cfg.Languages, cfg.Logger)
	permissionsHandler := NewPermissionsHandler(cfg.Permissions, cfg.Options, cfg.Languages.Hooks(), cfg.Logger)
	cacheHandler := NewCacheHandler(cfg.Cache, cfg.Logger)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5)) // Gzip compression with level 5
	r.Use(chimw.StripSlashes)
	r.Use(chimw.GetHead) // Handle HEAD requests for uptime monitoring
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment)))

	r.Get(RouteHealth, cfg.Health.Health)
	r.Get(RouteHealthLive, cfg.Health.Liveness)
	r.Get(RouteHealthReady, cfg.Health.Readiness)

	r.Route(RouteAdmin, func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimit, cfg.RateBurst, cfg.Logger))
		r.Use(middleware.AdminToken(cfg.AdminToken, cfg.Logger))

		r.Route(RouteLanguages, func(r chi.Router) {
			r.Get(RouteRoot, languagesHandler.List)
			r.Post(RouteRoot, languagesHandler.Create)
			r.With(middleware.Language(cfg.Languages, cfg.Logger)).Get(RouteSuffixPreferred, languagesHandler.Preferred)
			r.Get(RouteSuffixSearch, languagesHandler.Search)
			r.Post(RouteSuffixSearch, languagesHandler.Search)
			r.Post(RouteSuffixImport, languagesHandler.Import)
			r.Post(RouteSuffixReset, languagesHandler.Reset)

			r.Delete(RouteParamID, languagesHandler.Delete)
			r.Get(RouteParamID+RouteSuffixExport, languagesHandler.Export)
			r.Post(RouteParamID+RouteSuffixDefault, languagesHandler.SetDefault)
			r.Get(RouteParamID+RouteSuffixItems, languagesHandler.Items)
			r.Get(RouteParamID+RouteSuffixItems+RouteParamItem, languagesHandler.Item)
			r.Post(RouteParamID+RouteSuffixItems, languagesHandler.UpdateItems)
			r.Post(RouteParamID+RouteSuffixRebuild, languagesHandler.Rebuild)
		})

		r.Put(RouteCategoryOptions, permissionsHandler.Save)
		r.Get(RouteCategoryPermissions, permissionsHandler.Get)
		r.Post(RoutePermissionsReset, permissionsHandler.Reset)

		r.Get(RouteCache, cacheHandler.Stats)
		r.Post(RouteCache+RouteSuffixClear, cacheHandler.Clear)
	})

	return r
}
