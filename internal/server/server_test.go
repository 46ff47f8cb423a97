package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/zaidfarekh/flowmatch/internal/db"
	"github.com/zaidfarekh/flowmatch/internal/errclass"
	"github.com/zaidfarekh/flowmatch/internal/knowledge"
	"github.com/zaidfarekh/flowmatch/internal/matching"
	"github.com/zaidfarekh/flowmatch/internal/session"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()

	store, err := knowledge.Load("")
	if err != nil {
		t.Fatalf("loading knowledge: %v", err)
	}

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	scorer := matching.NewScorer(store.MatchingConfig(), store.Catalog(), "export-vendor", 0.65)
	sessions := session.NewStore(database, nil, 30*time.Minute)

	return New(cfg, store, scorer, errclass.New(0.65), sessions)
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, Config{Port: 0, GuidanceThreshold: 0.65})

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, Config{Port: 0, AllowAll: true, GuidanceThreshold: 0.65})

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestFeatureRoutesMounted(t *testing.T) {
	srv := newTestServer(t, Config{Port: 0, GuidanceThreshold: 0.65})

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{"GET", "/api/flows", ""},
		{"GET", "/api/flows/export-vendor/document", ""},
		{"POST", "/api/match", `{"description": "export vendors"}`},
		{"POST", "/api/validate", `{"operation": "ExportVendors", "payload": "{}"}`},
		{"POST", "/api/categorize", `{"message": "Session expired"}`},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("expected 200, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestSessionHistoryRoute(t *testing.T) {
	srv := newTestServer(t, Config{Port: 0, GuidanceThreshold: 0.65})

	req := httptest.NewRequest("GET", "/api/sessions/no-such-session/history", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown session, got %d", w.Code)
	}
}
