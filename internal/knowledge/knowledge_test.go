package knowledge

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestLoadDefaults(t *testing.T) {
	store, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(store.Catalog()) == 0 {
		t.Fatal("expected built-in flow signatures")
	}

	names := map[string]bool{}
	for _, sig := range store.Catalog() {
		if sig.Name == "" {
			t.Error("signature with empty name")
		}
		if names[sig.Name] {
			t.Errorf("duplicate signature name %q", sig.Name)
		}
		names[sig.Name] = true
	}
	if !names["export-vendor"] {
		t.Error("expected export-vendor in the default catalog")
	}

	if _, ok := store.FlowDocument("export-vendor"); !ok {
		t.Error("expected a default document for export-vendor")
	}
	if _, ok := store.FlowDocument("EXPORT-VENDOR"); !ok {
		t.Error("document lookup should be case-insensitive")
	}
	if _, ok := store.FlowDocument("no-such-flow"); ok {
		t.Error("unexpected document for unknown flow")
	}
}

func TestLoadMissingDirIsNotAnError(t *testing.T) {
	store, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("Load with missing dir: %v", err)
	}
	if len(store.Catalog()) == 0 {
		t.Fatal("defaults should stand when the knowledge dir is missing")
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	flows := `flows:
  - name: custom-flow
    actions: [Export, export, " EXPORT "]
    entities: [widget]
    keywords: [custom widget]
`
	if err := os.WriteFile(filepath.Join(dir, "flows.yaml"), []byte(flows), 0644); err != nil {
		t.Fatal(err)
	}
	docDir := filepath.Join(dir, "documents")
	if err := os.MkdirAll(docDir, 0755); err != nil {
		t.Fatal(err)
	}
	doc := `flow: custom-flow
validation_rules:
  - "widgetId: required, max 10 characters"
`
	if err := os.WriteFile(filepath.Join(docDir, "custom-flow.yaml"), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	store, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	catalog := store.Catalog()
	if len(catalog) != 1 || catalog[0].Name != "custom-flow" {
		t.Fatalf("override catalog = %+v, want single custom-flow", catalog)
	}
	if len(catalog[0].Actions) != 1 {
		t.Errorf("actions = %v, want case-insensitive dedup to one entry", catalog[0].Actions)
	}
	if _, ok := store.FlowDocument("custom-flow"); !ok {
		t.Error("expected override document for custom-flow")
	}
	// Default documents remain available alongside overrides.
	if _, ok := store.FlowDocument("export-vendor"); !ok {
		t.Error("default documents should survive an override load")
	}
}

func TestNormalizeEntityAliasInvariant(t *testing.T) {
	store, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	mc := store.MatchingConfig()
	for _, e := range mc.EntityWords {
		if _, ok := mc.Aliases[e]; !ok {
			t.Errorf("entity word %q missing identity alias", e)
		}
	}
	if mc.Aliases["supplier"] != "vendor" {
		t.Errorf("aliases[supplier] = %q, want vendor", mc.Aliases["supplier"])
	}
}

func TestHTTPFlowRoutes(t *testing.T) {
	store, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r := chi.NewRouter()
	RegisterRoutes(r, store)

	t.Run("list flows", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/flows", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("get document", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/flows/export-vendor/document", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("missing document", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/flows/nope/document", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}
