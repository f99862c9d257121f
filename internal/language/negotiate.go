// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package language

import (
	"context"
	"fmt"

	textlang "golang.org/x/text/language"

	"github.com/olegiv/ocms-language/internal/store"
)

// PreferredLanguage picks the installed language that best matches an
// Accept-Language header. The default language wins when nothing matches
// or the header is empty or malformed.
func (s *Service) PreferredLanguage(ctx context.Context, acceptLanguage string) (*store.Language, error) {
	languages, err := s.registry.Languages(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing languages: %w", err)
	}
	def, err := s.registry.Default(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading default language: %w", err)
	}
	if len(languages) == 0 {
		return nil, ErrLanguageNotFound
	}

	// The default language goes first so the matcher falls back to it.
	var (
		tags       []textlang.Tag
		candidates []store.Language
	)
	add := func(lang store.Language) {
		tag, err := textlang.Parse(lang.LanguageCode)
		if err != nil {
			return
		}
		tags = append(tags, tag)
		candidates = append(candidates, lang)
	}
	if def != nil {
		add(*def)
	}
	for _, lang := range languages {
		if def == nil || lang.ID != def.ID {
			add(lang)
		}
	}

	fallback := languages[0]
	if def != nil {
		fallback = *def
	}
	if len(tags) == 0 || acceptLanguage == "" {
		return &fallback, nil
	}

	requested, _, err := textlang.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(requested) == 0 {
		return &fallback, nil
	}

	_, idx, confidence := textlang.NewMatcher(tags).Match(requested...)
	if confidence == textlang.No {
		return &fallback, nil
	}
	match := candidates[idx]
	return &match, nil
}
