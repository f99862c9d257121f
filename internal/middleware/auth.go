// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication and
// request context handling of the admin API.
package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// APIError represents a JSON error response for the API.
type APIError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// WriteAPIError writes a JSON error response.
func WriteAPIError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	apiErr := APIError{}
	apiErr.Error.Code = code
	apiErr.Error.Message = message

	_ = json.NewEncoder(w).Encode(apiErr)
}

// AdminToken creates middleware that requires "Authorization: Bearer <token>".
// An empty token disables the check; it is meant for development only.
func AdminToken(token string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			logger.Warn("admin API running without OCMS_ADMIN_TOKEN")
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := bearerToken(r); !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="ocms-language"`)
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Missing bearer token")
				return
			}
			if !HasAdminToken(r, token) {
				logger.Warn("invalid admin token", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// HasAdminToken reports whether the request carries the admin bearer token.
// It is false when no token is configured.
func HasAdminToken(r *http.Request, token string) bool {
	if token == "" {
		return false
	}
	presented, ok := bearerToken(r)
	return ok && subtle.ConstantTimeCompare([]byte(presented), []byte(token)) == 1
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	return strings.TrimSpace(token), true
}
