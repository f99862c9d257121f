// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/olegiv/ocms-language/internal/store"
	"github.com/olegiv/ocms-language/internal/testutil"
)

const germanXML = `<?xml version="1.0" encoding="UTF-8"?>
<language xmlns="http://www.woltlab.com" languagecode="de" languagename="Deutsch" countrycode="de">
	<category name="wcf.global">
		<item name="wcf.global.hello"><![CDATA[Hallo]]></item>
		<item name="wcf.global.bye"><![CDATA[Tschüss]]></item>
	</category>
	<category name="wcf.acp">
		<item name="wcf.acp.welcome"><![CDATA[Willkommen {$username}]]></item>
	</category>
</language>`

// importGerman imports germanXML and returns the new language.
func importGerman(t *testing.T, s *testServer) store.Language {
	t.Helper()

	w := s.do(t, http.MethodPost, "/admin/languages/import?package=1", strings.NewReader(germanXML))
	assertJSONResponse(t, w, http.StatusOK, true)

	lang, err := s.queries.GetLanguageByCode(context.Background(), "de")
	if err != nil {
		t.Fatalf("GetLanguageByCode: %v", err)
	}
	return lang
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, header := range []string{"", "Bearer wrong"} {
		req := httptest.NewRequest(http.MethodGet, "/admin/languages", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		s.handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Authorization %q: status = %d, want %d", header, w.Code, http.StatusUnauthorized)
		}
	}
}

func TestLanguagesHandler_List(t *testing.T) {
	s := newTestServer(t)
	testutil.CreateLanguage(t, s.queries, "en", true)

	w := s.do(t, http.MethodGet, "/admin/languages", nil)
	assertJSONResponse(t, w, http.StatusOK, true)

	var resp struct {
		Languages []store.Language `json:"languages"`
	}
	decode(t, w, &resp)
	if len(resp.Languages) != 1 || resp.Languages[0].LanguageCode != "en" || !resp.Languages[0].IsDefault {
		t.Errorf("languages = %+v", resp.Languages)
	}
}

func TestLanguagesHandler_Create(t *testing.T) {
	s := newTestServer(t)
	en := testutil.CreateLanguage(t, s.queries, "en", true)
	global := testutil.CreateCategory(t, s.queries, "wcf.global")
	testutil.CreateItem(t, s.queries, en.ID, global.ID, "wcf.global.hello", "Hello")

	body := fmt.Sprintf(`{"language_code":"de","country_code":"de","language_name":"Deutsch","copy_from":%d}`, en.ID)
	w := s.do(t, http.MethodPost, "/admin/languages", strings.NewReader(body))
	resp := assertJSONResponse(t, w, http.StatusCreated, true)

	created, ok := resp["language"].(map[string]any)
	if !ok || created["language_code"] != "de" {
		t.Fatalf("language = %v", resp["language"])
	}

	de, err := s.queries.GetLanguageByCode(context.Background(), "de")
	if err != nil {
		t.Fatalf("GetLanguageByCode: %v", err)
	}
	item, err := s.queries.GetItem(context.Background(), de.ID, "wcf.global.hello")
	if err != nil {
		t.Fatalf("copied item missing: %v", err)
	}
	if item.Value != "Hello" {
		t.Errorf("copied value = %q, want %q", item.Value, "Hello")
	}
}

func TestLanguagesHandler_CreateErrors(t *testing.T) {
	s := newTestServer(t)
	testutil.CreateLanguage(t, s.queries, "en", true)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"duplicate code", `{"language_code":"en","country_code":"gb","language_name":"English"}`, http.StatusConflict},
		{"invalid code", `{"language_code":"not a code!","country_code":"x","language_name":"x"}`, http.StatusBadRequest},
		{"invalid json", `{`, http.StatusBadRequest},
		{"unknown source", `{"language_code":"fr","country_code":"fr","language_name":"Français","copy_from":99}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/admin/languages", strings.NewReader(tt.body))
			assertJSONResponse(t, w, tt.want, false)
		})
	}
}

func TestLanguagesHandler_ImportExport(t *testing.T) {
	s := newTestServer(t)
	testutil.CreateLanguage(t, s.queries, "en", true)

	w := s.do(t, http.MethodPost, "/admin/languages/import?package=1", strings.NewReader(germanXML))
	resp := assertJSONResponse(t, w, http.StatusOK, true)

	result, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatalf("result = %v", resp["result"])
	}
	if result["items"] != float64(3) || result["categories"] != float64(2) {
		t.Errorf("result = %v", result)
	}

	de, err := s.queries.GetLanguageByCode(context.Background(), "de")
	if err != nil {
		t.Fatalf("GetLanguageByCode: %v", err)
	}

	w = s.do(t, http.MethodGet, fmt.Sprintf("/admin/languages/%d/export", de.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d, body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "language-de.xml") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	body := w.Body.String()
	for _, want := range []string{`languagecode="de"`, `languagename="Deutsch"`, "Willkommen {$username}", `name="wcf.acp"`} {
		if !strings.Contains(body, want) {
			t.Errorf("export missing %q:\n%s", want, body)
		}
	}
}

func TestLanguagesHandler_ImportErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing language code", `<language languagename="Deutsch" countrycode="de"></language>`},
		{"not xml", `not xml at all`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/admin/languages/import", strings.NewReader(tt.body))
			assertJSONResponse(t, w, http.StatusBadRequest, false)
		})
	}

	languages, err := s.queries.ListLanguages(context.Background())
	if err != nil {
		t.Fatalf("ListLanguages: %v", err)
	}
	if len(languages) != 0 {
		t.Errorf("failed imports created %d languages", len(languages))
	}
}

func TestLanguagesHandler_ExportInvalidParams(t *testing.T) {
	s := newTestServer(t)
	en := testutil.CreateLanguage(t, s.queries, "en", true)

	w := s.do(t, http.MethodGet, "/admin/languages/abc/export", nil)
	assertJSONResponse(t, w, http.StatusBadRequest, false)

	w = s.do(t, http.MethodGet, "/admin/languages/42/export", nil)
	assertJSONResponse(t, w, http.StatusNotFound, false)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/admin/languages/%d/export?package=x", en.ID), nil)
	assertJSONResponse(t, w, http.StatusBadRequest, false)
}

func TestLanguagesHandler_Search(t *testing.T) {
	s := newTestServer(t)
	testutil.CreateLanguage(t, s.queries, "en", true)
	de := importGerman(t, s)

	w := s.do(t, http.MethodGet, "/admin/languages/search?q=hallo", nil)
	resp := assertJSONResponse(t, w, http.StatusOK, true)
	if resp["replaced"] != false {
		t.Errorf("replaced = %v, want false", resp["replaced"])
	}
	results, _ := resp["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("results = %v", resp["results"])
	}

	// GET never replaces, even with a replacement.
	w = s.do(t, http.MethodGet, "/admin/languages/search?q=hallo&replace=Servus", nil)
	assertJSONResponse(t, w, http.StatusOK, true)
	item, err := s.queries.GetItem(context.Background(), de.ID, "wcf.global.hello")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item.UseCustomValue {
		t.Fatal("preview must not modify items")
	}

	form := url.Values{"q": {"hallo"}, "replace": {"Servus"}, "language": {fmt.Sprint(de.ID)}}
	w = s.do(t, http.MethodPost, "/admin/languages/search", strings.NewReader(form.Encode()),
		"Content-Type", "application/x-www-form-urlencoded")
	resp = assertJSONResponse(t, w, http.StatusOK, true)
	if resp["replaced"] != true {
		t.Errorf("replaced = %v, want true", resp["replaced"])
	}

	item, err = s.queries.GetItem(context.Background(), de.ID, "wcf.global.hello")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got := item.EffectiveValue(); got != "Servus" {
		t.Errorf("effective value = %q, want %q", got, "Servus")
	}
}

func TestLanguagesHandler_SearchErrors(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/admin/languages/search", nil)
	assertJSONResponse(t, w, http.StatusBadRequest, false)

	w = s.do(t, http.MethodGet, "/admin/languages/search?regex=1&q="+url.QueryEscape("(unclosed"), nil)
	assertJSONResponse(t, w, http.StatusBadRequest, false)
}

func TestLanguagesHandler_UpdateItems(t *testing.T) {
	s := newTestServer(t)
	en := testutil.CreateLanguage(t, s.queries, "en", true)
	testutil.CreateCategory(t, s.queries, "wcf.global")

	body := `{"category":"wcf.global","items":{"wcf.global.new":"New value"},"use_custom":[]}`
	w := s.do(t, http.MethodPost, fmt.Sprintf("/admin/languages/%d/items", en.ID), strings.NewReader(body))
	resp := assertJSONResponse(t, w, http.StatusOK, true)
	if resp["items"] != float64(1) {
		t.Errorf("items = %v", resp["items"])
	}

	item, err := s.queries.GetItem(context.Background(), en.ID, "wcf.global.new")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item.Value != "New value" || item.OriginIsSystem {
		t.Errorf("item = %+v", item)
	}

	body = `{"category":"wcf.unknown","items":{"wcf.unknown.x":"x"}}`
	w = s.do(t, http.MethodPost, fmt.Sprintf("/admin/languages/%d/items", en.ID), strings.NewReader(body))
	assertJSONResponse(t, w, http.StatusNotFound, false)
}

func TestLanguagesHandler_SetDefaultAndDelete(t *testing.T) {
	s := newTestServer(t)
	en := testutil.CreateLanguage(t, s.queries, "en", true)
	de := importGerman(t, s)

	w := s.do(t, http.MethodDelete, fmt.Sprintf("/admin/languages/%d", en.ID), nil)
	assertJSONResponse(t, w, http.StatusBadRequest, false)

	w = s.do(t, http.MethodPost, fmt.Sprintf("/admin/languages/%d/default", de.ID), nil)
	assertJSONResponse(t, w, http.StatusOK, true)

	got, err := s.queries.GetLanguage(context.Background(), de.ID)
	if err != nil {
		t.Fatalf("GetLanguage: %v", err)
	}
	if !got.IsDefault {
		t.Error("de should be the default language")
	}

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/admin/languages/%d", en.ID), nil)
	assertJSONResponse(t, w, http.StatusOK, true)

	if _, err := s.queries.GetLanguage(context.Background(), en.ID); !store.IsNotFound(err) {
		t.Errorf("GetLanguage after delete: err = %v, want not found", err)
	}

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/admin/languages/%d", en.ID), nil)
	assertJSONResponse(t, w, http.StatusNotFound, false)
}

func TestLanguagesHandler_RebuildAndReset(t *testing.T) {
	s := newTestServer(t)
	de := importGerman(t, s)

	w := s.do(t, http.MethodPost, fmt.Sprintf("/admin/languages/%d/rebuild", de.ID), nil)
	resp := assertJSONResponse(t, w, http.StatusOK, true)
	if resp["files"] != float64(2) {
		t.Errorf("files = %v, want 2", resp["files"])
	}

	entries, err := os.ReadDir(s.languageDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("language dir has %d files, want 2", len(entries))
	}

	w = s.do(t, http.MethodPost, "/admin/languages/reset", nil)
	assertJSONResponse(t, w, http.StatusOK, true)

	entries, err = os.ReadDir(s.languageDir)
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("language dir has %d files after reset, want 0", len(entries))
	}
}

func TestLanguagesHandler_Preferred(t *testing.T) {
	s := newTestServer(t)
	testutil.CreateLanguage(t, s.queries, "en", true)
	importGerman(t, s)

	tests := []struct {
		name    string
		target  string
		headers []string
		want    string
	}{
		{"accept language", "/admin/languages/preferred", []string{"Accept-Language", "de-AT,de;q=0.9"}, "de"},
		{"default", "/admin/languages/preferred", []string{"Accept-Language", "ja"}, "en"},
		{"query parameter", "/admin/languages/preferred?lang=de", nil, "de"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, tt.target, nil, tt.headers...)
			resp := assertJSONResponse(t, w, http.StatusOK, true)
			lang, _ := resp["language"].(map[string]any)
			if lang["language_code"] != tt.want {
				t.Errorf("language = %v, want %s", resp["language"], tt.want)
			}
		})
	}
}

func TestLanguagesHandler_PreferredWithoutLanguages(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/admin/languages/preferred", nil)
	assertJSONResponse(t, w, http.StatusNotFound, false)
}

func TestLanguagesHandler_Items(t *testing.T) {
	s := newTestServer(t)
	de := importGerman(t, s)
	base := fmt.Sprintf("/admin/languages/%d/items", de.ID)

	w := s.do(t, http.MethodGet, base, nil)
	assertJSONResponse(t, w, http.StatusOK, true)

	var list struct {
		Items []store.LanguageItem `json:"items"`
	}
	decode(t, w, &list)
	if len(list.Items) != 3 {
		t.Errorf("items = %d, want 3", len(list.Items))
	}

	w = s.do(t, http.MethodGet, base+"/wcf.global.hello", nil)
	resp := assertJSONResponse(t, w, http.StatusOK, true)
	if resp["value"] != "Hallo" {
		t.Errorf("value = %v, want Hallo", resp["value"])
	}

	w = s.do(t, http.MethodGet, base+"/wcf.global.missing", nil)
	assertJSONResponse(t, w, http.StatusNotFound, false)
}
