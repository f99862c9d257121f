// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-language/internal/language"
	"github.com/olegiv/ocms-language/internal/middleware"
	"github.com/olegiv/ocms-language/internal/store"
	"github.com/olegiv/ocms-language/internal/util"
)

const maxImportUploadBytes int64 = 32 << 20 // 32 MB

// LanguagesHandler handles the language admin API.
type LanguagesHandler struct {
	svc    *language.Service
	logger *slog.Logger
}

// NewLanguagesHandler creates a new LanguagesHandler.
func NewLanguagesHandler(svc *language.Service, logger *slog.Logger) *LanguagesHandler {
	return &LanguagesHandler{svc: svc, logger: logger}
}

// List handles GET /admin/languages.
func (h *LanguagesHandler) List(w http.ResponseWriter, r *http.Request) {
	languages, err := h.svc.Languages(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "failed to list languages", err)
		return
	}
	if languages == nil {
		languages = []store.Language{}
	}
	writeJSONSuccess(w, map[string]any{"languages": languages})
}

// createLanguageRequest is the body of POST /admin/languages.
type createLanguageRequest struct {
	LanguageCode string `json:"language_code"`
	CountryCode  string `json:"country_code"`
	LanguageName string `json:"language_name"`
	CopyFrom     int64  `json:"copy_from,omitempty"`
}

// Create handles POST /admin/languages. With copy_from the items of that
// language are copied into the new one.
func (h *LanguagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	ctx := r.Context()
	existing, err := h.svc.LanguageByCode(ctx, req.LanguageCode)
	if err != nil {
		writeServiceError(w, h.logger, "failed to look up language", err)
		return
	}
	if existing != nil {
		writeJSONError(w, http.StatusConflict, "Language code already exists")
		return
	}

	var source *language.Editor
	if req.CopyFrom > 0 {
		if source, err = h.svc.EditorByID(ctx, req.CopyFrom); err != nil {
			writeServiceError(w, h.logger, "failed to get source language", err, "language_id", req.CopyFrom)
			return
		}
	}

	editor, err := h.svc.Create(ctx, language.CreateParams{
		LanguageCode: req.LanguageCode,
		CountryCode:  req.CountryCode,
		LanguageName: req.LanguageName,
	})
	if err != nil {
		writeServiceError(w, h.logger, "failed to create language", err, "code", req.LanguageCode)
		return
	}

	if source != nil {
		if err := source.Copy(ctx, editor.Language()); err != nil {
			writeServiceError(w, h.logger, "failed to copy language", err, "from", req.CopyFrom)
			return
		}
	}

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "language": editor.Language()})
}

// Delete handles DELETE /admin/languages/{id}.
func (h *LanguagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	editor := h.requireEditorJSON(w, r)
	if editor == nil {
		return
	}
	if editor.Language().IsDefault {
		writeJSONError(w, http.StatusBadRequest, "Cannot delete the default language")
		return
	}
	if err := editor.Delete(r.Context()); err != nil {
		writeServiceError(w, h.logger, "failed to delete language", err, "language_id", editor.Language().ID)
		return
	}
	writeJSONSuccess(w, nil)
}

// SetDefault handles POST /admin/languages/{id}/default.
func (h *LanguagesHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	editor := h.requireEditorJSON(w, r)
	if editor == nil {
		return
	}
	if err := editor.SetAsDefault(r.Context()); err != nil {
		writeServiceError(w, h.logger, "failed to set default language", err, "language_id", editor.Language().ID)
		return
	}
	writeJSONSuccess(w, map[string]any{"language": editor.Language()})
}

// Export handles GET /admin/languages/{id}/export?package=1,2&custom=1.
func (h *LanguagesHandler) Export(w http.ResponseWriter, r *http.Request) {
	editor := h.requireEditorJSON(w, r)
	if editor == nil {
		return
	}

	packageIDs, err := util.ParseInt64List(r.URL.Query().Get("package"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid package list")
		return
	}
	custom := r.URL.Query().Get("custom") == "1"

	// Buffer so that a failing export still gets a JSON error.
	var buf bytes.Buffer
	if err := editor.Export(r.Context(), &buf, packageIDs, custom); err != nil {
		writeServiceError(w, h.logger, "export failed", err, "language_id", editor.Language().ID)
		return
	}

	filename := fmt.Sprintf("language-%s.xml", editor.Language().LanguageCode)
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

// Import handles POST /admin/languages/import?package=N with a language
// file as the request body.
func (h *LanguagesHandler) Import(w http.ResponseWriter, r *http.Request) {
	packageID := util.ParseNullInt64Positive(r.URL.Query().Get("package")).Int64

	doc, err := language.ParseDocument(http.MaxBytesReader(w, r.Body, maxImportUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "Language file too large")
			return
		}
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	editor, result, err := h.svc.ImportFromXML(r.Context(), doc, packageID)
	if err != nil {
		writeServiceError(w, h.logger, "import failed", err)
		return
	}

	writeJSONSuccess(w, map[string]any{
		"language": editor.Language(),
		"result":   result,
	})
}

// Search handles GET (preview) and POST (replace) /admin/languages/search.
// Parameters: q, replace, language, regex=1, names=1. A replacement is only
// applied on POST.
func (h *LanguagesHandler) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	opts := language.SearchOptions{
		Query:       r.Form.Get("q"),
		LanguageID:  util.ParseNullInt64Positive(r.Form.Get("language")).Int64,
		UseRegex:    r.Form.Get("regex") == "1",
		SearchNames: r.Form.Get("names") == "1",
	}
	if r.Method == http.MethodPost && r.Form.Has("replace") {
		replace := r.Form.Get("replace")
		opts.Replace = &replace
	}

	results, err := h.svc.Search(r.Context(), opts)
	if err != nil {
		writeServiceError(w, h.logger, "search failed", err, "query", opts.Query)
		return
	}
	if results == nil {
		results = []language.SearchResult{}
	}
	writeJSONSuccess(w, map[string]any{
		"results":  results,
		"replaced": opts.Replace != nil,
	})
}

// updateItemsRequest is the body of POST /admin/languages/{id}/items.
type updateItemsRequest struct {
	Category  string            `json:"category"`
	Items     map[string]string `json:"items"`
	UseCustom []string          `json:"use_custom"`
}

// Items handles GET /admin/languages/{id}/items.
func (h *LanguagesHandler) Items(w http.ResponseWriter, r *http.Request) {
	editor := h.requireEditorJSON(w, r)
	if editor == nil {
		return
	}

	items, err := editor.Items(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "failed to list items", err, "language_id", editor.Language().ID)
		return
	}
	if items == nil {
		items = []store.LanguageItem{}
	}
	writeJSONSuccess(w, map[string]any{"items": items})
}

// Item handles GET /admin/languages/{id}/items/{item}. The response carries
// the effective value next to the stored columns.
func (h *LanguagesHandler) Item(w http.ResponseWriter, r *http.Request) {
	editor := h.requireEditorJSON(w, r)
	if editor == nil {
		return
	}

	name := chi.URLParam(r, "item")
	item, err := editor.Item(r.Context(), name)
	if err != nil {
		writeServiceError(w, h.logger, "failed to get item", err, "language_id", editor.Language().ID, "item", name)
		return
	}
	writeJSONSuccess(w, map[string]any{
		"item":  item,
		"value": item.EffectiveValue(),
	})
}

// UpdateItems handles POST /admin/languages/{id}/items.
func (h *LanguagesHandler) UpdateItems(w http.ResponseWriter, r *http.Request) {
	editor := h.requireEditorJSON(w, r)
	if editor == nil {
		return
	}

	var req updateItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	ctx := r.Context()
	category, err := h.svc.CategoryByName(ctx, req.Category)
	if err != nil {
		writeServiceError(w, h.logger, "failed to get category", err, "category", req.Category)
		return
	}

	useCustom := make(map[string]bool, len(req.UseCustom))
	for _, name := range req.UseCustom {
		useCustom[name] = true
	}

	if err := editor.UpdateItems(ctx, req.Items, category, h.svc.PackageID(), useCustom); err != nil {
		writeServiceError(w, h.logger, "failed to update items", err, "language_id", editor.Language().ID)
		return
	}
	writeJSONSuccess(w, map[string]any{"items": len(req.Items)})
}

// Rebuild handles POST /admin/languages/{id}/rebuild: compiles the files
// of every category.
func (h *LanguagesHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	editor := h.requireEditorJSON(w, r)
	if editor == nil {
		return
	}
	written, err := editor.WriteAllLanguageFiles(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "rebuild failed", err, "language_id", editor.Language().ID)
		return
	}
	writeJSONSuccess(w, map[string]any{"files": written})
}

// Reset handles POST /admin/languages/reset: deletes every compiled file.
func (h *LanguagesHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.UpdateAll(r.Context()); err != nil {
		writeServiceError(w, h.logger, "reset failed", err)
		return
	}
	h.svc.ResetCache()
	writeJSONSuccess(w, nil)
}

// Preferred handles GET /admin/languages/preferred: reports the language
// the Language middleware picked for the request.
func (h *LanguagesHandler) Preferred(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	if lang == nil {
		writeJSONError(w, http.StatusNotFound, language.ErrLanguageNotFound.Error())
		return
	}
	writeJSONSuccess(w, map[string]any{"language": lang})
}
