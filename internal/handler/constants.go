// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteParamItem is the language item name parameter pattern.
	RouteParamItem = "/{item}"

	// RouteHealth is the health check route.
	RouteHealth = "/health"
	// RouteHealthLive is the liveness check route.
	RouteHealthLive = "/health/live"
	// RouteHealthReady is the readiness check route.
	RouteHealthReady = "/health/ready"

	// RouteAdmin is the prefix of every authenticated route.
	RouteAdmin = "/admin"
	// RouteLanguages is the language collection route.
	RouteLanguages = "/languages"
	// RouteCache is the cache route.
	RouteCache = "/cache"
	// RouteCategoryOptions is the route of the stored options of a category.
	RouteCategoryOptions = "/categories/{category}/permissions"
	// RouteCategoryPermissions is the permission lookup route.
	RouteCategoryPermissions = "/categories/{category}/permissions/{user}"
	// RoutePermissionsReset resets the permission cache.
	RoutePermissionsReset = "/categories/permissions/reset"

	// RouteSuffixSearch is the suffix for search routes.
	RouteSuffixSearch = "/search"
	// RouteSuffixImport is the suffix for import routes.
	RouteSuffixImport = "/import"
	// RouteSuffixExport is the suffix for export routes.
	RouteSuffixExport = "/export"
	// RouteSuffixDefault is the suffix for set-default routes.
	RouteSuffixDefault = "/default"
	// RouteSuffixItems is the suffix for item routes.
	RouteSuffixItems = "/items"
	// RouteSuffixRebuild is the suffix for language file rebuild routes.
	RouteSuffixRebuild = "/rebuild"
	// RouteSuffixReset is the suffix for reset routes.
	RouteSuffixReset = "/reset"
	// RouteSuffixPreferred is the suffix for the negotiated language route.
	RouteSuffixPreferred = "/preferred"
	// RouteSuffixClear is the suffix for cache clear routes.
	RouteSuffixClear = "/clear"
)
