// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/olegiv/ocms-language/internal/store"
)

// ContextKeyLanguage is the context key of the request language.
const ContextKeyLanguage ContextKey = "language"

// LanguageCookieName is the cookie name for language preference.
const LanguageCookieName = "ocms_lang"

// LanguageResolver finds installed languages.
type LanguageResolver interface {
	LanguageByCode(ctx context.Context, code string) (*store.Language, error)
	PreferredLanguage(ctx context.Context, acceptLanguage string) (*store.Language, error)
}

// Language creates middleware that detects the request language.
// Priority order:
// 1. Query parameter ?lang=XX (explicit language switch, updates cookie)
// 2. Cookie preference
// 3. Accept-Language header, falling back to the default language
//
// Requests proceed without a language when none is installed.
func Language(resolver LanguageResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if code := r.URL.Query().Get("lang"); code != "" {
				if lang := lookup(ctx, resolver, code, logger); lang != nil {
					SetLanguageCookie(w, lang.LanguageCode)
					next.ServeHTTP(w, r.WithContext(WithLanguage(ctx, *lang)))
					return
				}
			}

			if cookie, err := r.Cookie(LanguageCookieName); err == nil {
				if lang := lookup(ctx, resolver, cookie.Value, logger); lang != nil {
					next.ServeHTTP(w, r.WithContext(WithLanguage(ctx, *lang)))
					return
				}
			}

			lang, err := resolver.PreferredLanguage(ctx, r.Header.Get("Accept-Language"))
			if err != nil {
				logger.Debug("no request language", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithLanguage(ctx, *lang)))
		})
	}
}

func lookup(ctx context.Context, resolver LanguageResolver, code string, logger *slog.Logger) *store.Language {
	lang, err := resolver.LanguageByCode(ctx, code)
	if err != nil {
		logger.Error("failed to look up language", "error", err, "code", code)
		return nil
	}
	return lang
}

// WithLanguage stores lang in ctx.
func WithLanguage(ctx context.Context, lang store.Language) context.Context {
	return context.WithValue(ctx, ContextKeyLanguage, lang)
}

// GetLanguage retrieves the current language from the request context.
// Returns nil if no language is in context.
func GetLanguage(r *http.Request) *store.Language {
	lang, ok := r.Context().Value(ContextKeyLanguage).(store.Language)
	if !ok {
		return nil
	}
	return &lang
}

// SetLanguageCookie sets the language preference cookie.
func SetLanguageCookie(w http.ResponseWriter, langCode string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    langCode,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60, // 1 year
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
