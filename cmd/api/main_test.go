package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestMountDocs_ServesErrorSchema(t *testing.T) {
	r := chi.NewRouter()
	mountDocs(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", http.NoBody))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var doc struct {
		Paths       map[string]map[string]json.RawMessage `json:"paths"`
		Definitions map[string]struct {
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"definitions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("doc.json is not valid JSON: %v", err)
	}
	for _, path := range []string{"/products", "/products/{id}"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("missing path %s", path)
		}
	}
	schema, ok := doc.Definitions["errhttp.ErrorResponse"]
	if !ok {
		t.Fatal("missing errhttp.ErrorResponse definition")
	}
	for _, field := range []string{"status", "error", "message"} {
		if _, ok := schema.Properties[field]; !ok {
			t.Errorf("error schema lacks %q", field)
		}
	}
}

func TestErrorOptions_IncludeProductSentinels(t *testing.T) {
	if len(errorOptions()) < 2 {
		t.Fatal("expected the reporter plus product sentinel mappings")
	}
}
