package api_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/catalog/pkg/errhttp"
	"github.com/ghuser/catalog/pkg/httpx"
	"github.com/ghuser/catalog/pkg/logger"
	"github.com/ghuser/catalog/services/product/application/api"
	"github.com/ghuser/catalog/services/product/application/handlers"
	appsvcs "github.com/ghuser/catalog/services/product/application/services"
	productdomain "github.com/ghuser/catalog/services/product/domain"
	"github.com/ghuser/catalog/services/product/infrastructure/persistence/memory"
)

type testServer struct {
	handler http.Handler
	repo    *memory.ProductRepository
	logs    *bytes.Buffer
}

// newTestServer assembles the router the same way cmd/api does, on an
// in-memory repository.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	var logs bytes.Buffer
	log := logger.NewWithWriter(&logs, "debug")
	errs := errhttp.New(log, api.ErrorOptions()...)

	repo := memory.NewProductRepository()
	svcs := &appsvcs.Services{Product: appsvcs.NewProductService(repo, nil, log)}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        "catalog-test",
			IsDevelopment:      true,
			CORSAllowedOrigins: "*",
			MaxBodyBytes:       1024,
			NotFound:           errs.NotFoundHandler,
			MethodNotAllowed:   errs.MethodNotAllowedHandler,
		},
		httpx.Middlewares{Recovery: errs.Recoverer},
	)
	r.Route("/api", func(r chi.Router) {
		api.Routes(r, svcs, errs)
	})

	return &testServer{handler: r, repo: repo, logs: &logs}
}

func (s *testServer) do(t *testing.T, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader = http.NoBody
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *testServer) create(t *testing.T, body string) handlers.ProductResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/products", "application/json", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var p handlers.ProductResponse
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("create: decode: %v", err)
	}
	return p
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) errhttp.ErrorResponse {
	t.Helper()
	var raw map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("error body is not JSON: %v (%q)", err, w.Body.String())
	}
	for _, key := range []string{"status", "error", "message"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("error body lacks %q: %s", key, w.Body.String())
		}
	}
	if len(raw) != 3 {
		t.Fatalf("error body has extra fields: %s", w.Body.String())
	}
	var body errhttp.ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Status != w.Code {
		t.Fatalf("body status %d does not match response status %d", body.Status, w.Code)
	}
	return body
}

func TestErrorResponses(t *testing.T) {
	s := newTestServer(t)
	existing := s.create(t, `{"name":"Tea Pot","price_cents":2500,"category":"kitchen"}`)
	item := "/api/products/" + existing.ID.String()
	missing := "/api/products/7d9f7a4e-0000-4000-8000-000000000000"

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		body        string
		wantStatus  int
		wantError   string
		wantMessage string
	}{
		{"malformed json", http.MethodPost, "/api/products", "application/json", `{"name":`,
			400, "Bad Request", "Invalid JSON"},
		{"top-level array", http.MethodPost, "/api/products", "application/json", `[1]`,
			400, "Bad Request", "Invalid JSON"},
		{"top-level string", http.MethodPut, item, "application/json", `"x"`,
			400, "Bad Request", "Invalid JSON"},
		{"trailing bracket", http.MethodPost, "/api/products", "application/json", `{"name":"Mug","price_cents":100}]`,
			400, "Bad Request", "Invalid JSON"},
		{"trailing brace", http.MethodPut, item, "application/json", `{"name":"Mug","price_cents":100}}`,
			400, "Bad Request", "Invalid JSON"},
		{"empty body", http.MethodPost, "/api/products", "", "",
			400, "Bad Request", "Request body is empty"},
		{"unknown field", http.MethodPost, "/api/products", "application/json", `{"name":"x","price_cents":1,"colour":"red"}`,
			400, "Bad Request", `Unknown field "colour"`},
		{"body too large", http.MethodPost, "/api/products", "application/json", `{"name":"` + strings.Repeat("x", 2048) + `"}`,
			400, "Bad Request", "request body too large"},
		{"invalid uuid", http.MethodGet, "/api/products/not-a-uuid", "", "",
			400, "Bad Request", "id must be a valid UUID"},
		{"invalid limit", http.MethodGet, "/api/products?limit=500", "", "",
			400, "Bad Request", "limit must be an integer between 1 and 100"},
		{"struct validation", http.MethodPost, "/api/products", "application/json", `{"name":"Cup","price_cents":-1}`,
			400, "Bad Request", "price_cents: Must be greater than or equal to 0"},
		{"missing fields", http.MethodPost, "/api/products", "application/json", `{}`,
			400, "Bad Request", "name: This field is required; price_cents: This field is required"},
		{"wrong type", http.MethodPost, "/api/products", "application/json", `{"name":"Cup","price_cents":"free"}`,
			400, "Bad Request", "price_cents: Must be of type int64"},
		{"domain validation", http.MethodPost, "/api/products", "application/json", `{"name":"Tea  Cup","price_cents":1}`,
			400, "Bad Request", "invalid product: name must not contain consecutive spaces"},
		{"duplicate name", http.MethodPost, "/api/products", "application/json", `{"name":"tea pot","price_cents":1}`,
			400, "Bad Request", "product already exists"},
		{"product not found", http.MethodGet, missing, "", "",
			404, "Not Found", "product not found"},
		{"delete not found", http.MethodDelete, missing, "", "",
			404, "Not Found", "product not found"},
		{"unknown route", http.MethodGet, "/api/orders", "", "",
			404, "Not Found", "The requested URL was not found on the server. If you entered the URL manually please check your spelling and try again."},
		{"method not allowed", http.MethodPatch, item, "application/json", `{}`,
			405, "Method not Allowed", "The method is not allowed for the requested URL."},
		{"collection method not allowed", http.MethodDelete, "/api/products", "", "",
			405, "Method not Allowed", "The method is not allowed for the requested URL."},
		{"unsupported media type", http.MethodPost, "/api/products", "text/plain", `name=Cup`,
			415, "Unsupported media type", "Content-Type must be application/json"},
		{"unsupported media type on put", http.MethodPut, item, "application/xml", `<product/>`,
			415, "Unsupported media type", "Content-Type must be application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, tt.contentType, tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
				t.Fatalf("expected JSON content type, got %q", ct)
			}
			body := errorBody(t, w)
			if body.Error != tt.wantError || body.Message != tt.wantMessage {
				t.Fatalf("unexpected body %+v", body)
			}
		})
	}

	if strings.Contains(s.logs.String(), `"level":"ERROR"`) {
		t.Fatalf("client errors must not be logged as failures: %s", s.logs.String())
	}
}

func TestInternalFailure_IsSanitized(t *testing.T) {
	s := newTestServer(t)
	p := s.create(t, `{"name":"Lamp","price_cents":100}`)
	s.repo.Err = errors.New("pq: connection to 10.0.0.7 refused")

	w := s.do(t, http.MethodGet, "/api/products/"+p.ID.String(), "", "")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	want := `{"status":500,"error":"Internal Server Error","message":"Internal Server Error"}`
	if got := strings.TrimSpace(w.Body.String()); got != want {
		t.Fatalf("body: got %s, want %s", got, want)
	}

	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(s.logs.String()), "\n") {
		var m map[string]any
		if json.Unmarshal([]byte(line), &m) == nil && m["level"] == "ERROR" {
			records = append(records, m)
		}
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one error record, got %d", len(records))
	}
	if !strings.Contains(records[0]["error"].(string), "10.0.0.7") {
		t.Fatalf("expected the cause in the log record, got %v", records[0])
	}
}

func TestCRUD(t *testing.T) {
	s := newTestServer(t)

	created := s.create(t, `{"name":" Desk Lamp ","description":"brass","category":"lighting","price_cents":4500}`)
	if created.Name != "Desk Lamp" || !created.Available || created.PriceCents != 4500 {
		t.Fatalf("unexpected created product %+v", created)
	}
	path := "/api/products/" + created.ID.String()

	w := s.do(t, http.MethodGet, path, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}

	w = s.do(t, http.MethodPut, path, "application/json; charset=utf-8",
		`{"name":"Desk Lamp","category":"lighting","price_cents":3900,"available":false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("put: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated handlers.ProductResponse
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatal(err)
	}
	if updated.PriceCents != 3900 || updated.Available || updated.Description != "" {
		t.Fatalf("unexpected updated product %+v", updated)
	}

	s.create(t, `{"name":"Garden Hose","category":"garden","price_cents":2000}`)
	w = s.do(t, http.MethodGet, "/api/products?category=lighting&limit=10", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var page handlers.ListProductsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || len(page.Items) != 1 || page.Limit != 10 {
		t.Fatalf("unexpected page %+v", page)
	}

	w = s.do(t, http.MethodDelete, path, "", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	w = s.do(t, http.MethodGet, path, "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", w.Code)
	}
}

func TestErrorOptions(t *testing.T) {
	tr := errhttp.New(nil, api.ErrorOptions()...)
	tests := []struct {
		err  error
		want errhttp.Kind
	}{
		{productdomain.ErrProductNotFound, errhttp.KindNotFound},
		{fmt.Errorf("get product: %w", productdomain.ErrProductNotFound), errhttp.KindNotFound},
		{productdomain.ErrProductAlreadyExists, errhttp.KindValidationFailure},
		{fmt.Errorf("%w: %w", productdomain.ErrInvalidProduct, errors.New("price must not be negative")), errhttp.KindValidationFailure},
		{errors.New("unrelated"), errhttp.KindInternal},
	}
	for _, tt := range tests {
		if got := tr.FromError(tt.err).Kind; got != tt.want {
			t.Errorf("FromError(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
