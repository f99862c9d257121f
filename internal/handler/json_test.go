// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// assertJSONResponse checks status, content type and the success flag of
// an API response and returns the decoded body.
func assertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantSuccess bool) map[string]any {
	t.Helper()

	if w.Code != wantStatus {
		t.Errorf("status = %d, want %d (body %s)", w.Code, wantStatus, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", w.Body.String(), err)
	}
	if success, ok := resp["success"].(bool); !ok || success != wantSuccess {
		t.Errorf("success = %v, want %v", resp["success"], wantSuccess)
	}
	return resp
}

func TestWriteJSONSuccess_MergesPayload(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSONSuccess(w, map[string]any{
		"success": false,
		"files":   3,
	})

	resp := assertJSONResponse(t, w, http.StatusOK, true)
	if resp["files"] != float64(3) {
		t.Errorf("files = %v, want 3", resp["files"])
	}

	w = httptest.NewRecorder()
	writeJSONSuccess(w, nil)
	if resp := assertJSONResponse(t, w, http.StatusOK, true); len(resp) != 1 {
		t.Errorf("empty success body = %v, want only the success flag", resp)
	}
}

func TestWriteJSONError_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSONError(w, http.StatusConflict, "Language already exists")

	resp := assertJSONResponse(t, w, http.StatusConflict, false)
	if resp["error"] != "Language already exists" {
		t.Errorf("error = %v", resp["error"])
	}
	if len(resp) != 2 {
		t.Errorf("error body = %v, want success and error only", resp)
	}
}

func TestAdminAPI_ErrorEnvelope(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		target string
		status int
	}{
		{"unknown language", http.MethodGet, "/admin/languages/999/export", http.StatusNotFound},
		{"invalid id", http.MethodPost, "/admin/languages/abc/default", http.StatusBadRequest},
		{"empty search", http.MethodGet, "/admin/languages/search", http.StatusBadRequest},
		{"invalid groups", http.MethodGet, "/admin/categories/1/permissions/1?groups=x", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.target, nil)
			resp := assertJSONResponse(t, w, tt.status, false)
			if msg, _ := resp["error"].(string); msg == "" {
				t.Errorf("error message missing in %v", resp)
			}
		})
	}
}
