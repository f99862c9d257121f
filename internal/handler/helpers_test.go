// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/olegiv/ocms-language/internal/cache"
	"github.com/olegiv/ocms-language/internal/category"
	"github.com/olegiv/ocms-language/internal/language"
	"github.com/olegiv/ocms-language/internal/store"
	"github.com/olegiv/ocms-language/internal/testutil"
)

const testAdminToken = "s3cret"

// testServer is the full HTTP API on top of a temporary database.
type testServer struct {
	handler     http.Handler
	db          *sql.DB
	queries     *store.Queries
	svc         *language.Service
	cache       *cache.Manager
	languageDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.TestDB(t)
	q := store.New(db)
	logger := testutil.TestLoggerSilent()

	shared := cache.NewSimpleMemoryCache(time.Hour)
	manager := cache.NewManager(q, shared, time.Hour, logger)
	t.Cleanup(func() { _ = manager.Close() })

	installDir := t.TempDir()
	languageDir := filepath.Join(installDir, "language")
	svc := language.NewService(language.Options{
		DB:          db,
		Queries:     q,
		Registry:    manager.Languages,
		Codec:       language.JSONCodec{},
		LanguageDir: languageDir,
		TemplateDirs: []string{
			filepath.Join(installDir, "templates", "compiled"),
		},
		PackageID: 1,
		Logger:    logger,
	})

	permissions := category.NewPermissionHandler(manager.ACL, logger)
	permissions.Subscribe(svc.Hooks())

	h := NewRouter(RouterConfig{
		Languages:      svc,
		Permissions:    permissions,
		Options:        category.NewOptionEditor(db, q, svc.Hooks(), logger),
		Cache:          manager,
		Health:         NewHealthHandler(db, shared, languageDir, testAdminToken, "test"),
		AdminToken:     testAdminToken,
		IsDevelopment:  true,
		RequestTimeout: 10 * time.Second,
		Logger:         logger,
	})

	return &testServer{
		handler:     h,
		db:          db,
		queries:     q,
		svc:         svc,
		cache:       manager,
		languageDir: languageDir,
	}
}

// do sends an authenticated request through the router.
func (s *testServer) do(t *testing.T, method, target string, body io.Reader, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

// decode unmarshals the JSON body of a response.
func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", w.Body.String(), err)
	}
}
