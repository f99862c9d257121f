// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-language/internal/language"
)

// parseIDParamJSON parses an ID from the URL and writes a JSON error if it
// is invalid. Returns the ID and true on success, or 0 and false on error
// (response already sent).
func parseIDParamJSON(w http.ResponseWriter, r *http.Request, paramName string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, paramName), 10, 64)
	if err != nil || id <= 0 {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s", paramName))
		return 0, false
	}
	return id, true
}

// writeServiceError maps errors of the language service onto JSON error
// responses. Unexpected errors are logged and reported as 500.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, logMsg string, err error, args ...any) {
	switch {
	case errors.Is(err, language.ErrLanguageNotFound),
		errors.Is(err, language.ErrCategoryNotFound),
		errors.Is(err, language.ErrItemNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, language.ErrMissingAttribute),
		errors.Is(err, language.ErrInvalidLanguageCode),
		errors.Is(err, language.ErrEmptySearch),
		errors.Is(err, language.ErrInvalidPattern):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error(logMsg, append(args, "error", err)...)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// requireEditorJSON loads the editor of the language in the {id} URL
// parameter. Returns nil if there was an error (JSON response already sent).
func (h *LanguagesHandler) requireEditorJSON(w http.ResponseWriter, r *http.Request) *language.Editor {
	id, ok := parseIDParamJSON(w, r, "id")
	if !ok {
		return nil
	}
	editor, err := h.svc.EditorByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, "failed to get language", err, "language_id", id)
		return nil
	}
	return editor
}
