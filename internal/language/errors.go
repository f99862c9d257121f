// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package language

import "errors"

var (
	// ErrMissingAttribute is returned when a language document lacks a
	// mandatory root attribute. The attribute name is wrapped in the error.
	ErrMissingAttribute = errors.New("missing attribute in language file")

	// ErrLanguageNotFound is returned when a language does not exist.
	ErrLanguageNotFound = errors.New("language not found")

	// ErrCategoryNotFound is returned when a language category does not exist.
	ErrCategoryNotFound = errors.New("language category not found")

	// ErrItemNotFound is returned when a language item does not exist.
	ErrItemNotFound = errors.New("language item not found")

	// ErrInvalidLanguageCode is returned for codes that are not BCP 47 tags.
	ErrInvalidLanguageCode = errors.New("invalid language code")

	// ErrEmptySearch is returned when a search has no query.
	ErrEmptySearch = errors.New("empty search query")

	// ErrInvalidPattern is returned for regular expressions that do not compile.
	ErrInvalidPattern = errors.New("invalid search pattern")
)
