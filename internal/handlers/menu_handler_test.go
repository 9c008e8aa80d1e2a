package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Lixing-Zhang/restaurant-menu/internal/repository"
	"github.com/Lixing-Zhang/restaurant-menu/internal/service"
	"github.com/Lixing-Zhang/restaurant-menu/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
)

func newTestRouter() chi.Router {
	log := logger.New("error")
	svc := service.NewMenuService(repository.NewInMemoryMenuRepository(), log, nil)
	handler := NewMenuHandler(svc, log)

	r := chi.NewRouter()
	r.Get("/health", NewHealthHandler(svc, log).ServeHTTP)
	r.Get("/menu", handler.ShowMenu)
	r.Get("/api/product", handler.ListProducts)
	r.Post("/api/product", handler.AddProduct)
	r.Delete("/api/product", handler.RemoveProducts)
	r.Get("/api/product/search", handler.SearchProducts)
	r.Post("/api/product/sort", handler.SortProducts)
	r.Get("/api/product/export.xlsx", handler.ExportProducts)
	return r
}

func listProducts(t *testing.T, r http.Handler) []ProductResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/product", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var products []ProductResponse
	if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return products
}

func TestListProducts(t *testing.T) {
	r := newTestRouter()

	products := listProducts(t, r)

	if len(products) != 5 {
		t.Fatalf("expected 5 products, got %d", len(products))
	}

	first := products[0]
	if first.Description != "Arroz de Marisco" {
		t.Errorf("expected product 'Arroz de Marisco', got %s", first.Description)
	}
	if first.Category != "P" || first.CategoryLabel != "Prato Principal" {
		t.Errorf("unexpected category %s (%s)", first.Category, first.CategoryLabel)
	}
	if first.Price.String() != "15.00" {
		t.Errorf("expected price 15.00, got %s", first.Price)
	}
}

func TestListProducts_NotModified(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/product", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected an ETag header")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/product", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotModified {
		t.Errorf("expected status 304, got %d", w.Code)
	}
}

func TestListProducts_IfNoneMatchForms(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/product", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	etag := w.Header().Get("ETag")

	testCases := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"weak validator", "W/" + etag, http.StatusNotModified},
		{"list", `"other", ` + etag, http.StatusNotModified},
		{"wildcard", "*", http.StatusNotModified},
		{"stale", `"other"`, http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/product", nil)
			req.Header.Set("If-None-Match", tc.header)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Errorf("expected status %d, got %d", tc.wantStatus, w.Code)
			}
		})
	}
}

func TestAddProduct(t *testing.T) {
	testCases := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
		wantCount   int
	}{
		{"json new product", "application/json", `{"description":"Bacalhau","category":"P","price":14.5}`, http.StatusCreated, 6},
		{"json price as string", "application/json", `{"description":"Café","category":"b","price":"0.70"}`, http.StatusCreated, 6},
		{"json existing product", "application/json", `{"description":"Água","category":"B","price":1.5}`, http.StatusCreated, 5},
		{"plain text", "text/plain; charset=utf-8", "Sopa|E|2.2", http.StatusCreated, 6},
		{"plain text wrong fields", "text/plain", "Sopa|E", http.StatusBadRequest, 5},
		{"json unknown category", "application/json", `{"description":"Sopa","category":"Z","price":2}`, http.StatusBadRequest, 5},
		{"json missing price", "application/json", `{"description":"Sopa","category":"E"}`, http.StatusBadRequest, 5},
		{"json negative price", "application/json", `{"description":"Sopa","category":"E","price":-2}`, http.StatusBadRequest, 5},
		{"invalid json", "application/json", `{"description":`, http.StatusBadRequest, 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter()

			req := httptest.NewRequest(http.MethodPost, "/api/product", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", tc.contentType)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d (%s)", tc.wantStatus, w.Code, w.Body.String())
			}

			if got := len(listProducts(t, r)); got != tc.wantCount {
				t.Errorf("expected %d products, got %d", tc.wantCount, got)
			}
		})
	}
}

func TestAddProduct_BodyTooLarge(t *testing.T) {
	r := newTestRouter()

	body := "Bolo|S|1." + strings.Repeat("5", 5000)
	req := httptest.NewRequest(http.MethodPost, "/api/product", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d (%s)", w.Code, w.Body.String())
	}

	for _, p := range listProducts(t, r) {
		if p.Description == "Bolo" {
			t.Fatalf("oversized request must not add a product, got %+v", p)
		}
	}
}

func TestAddProduct_UpdatesPrice(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/product", strings.NewReader(`{"description":"Água","category":"B","price":1.5}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req)

	products := listProducts(t, r)
	if products[4].Description != "Água" || products[4].Price.String() != "1.50" {
		t.Errorf("expected Água at 1.50, got %+v", products[4])
	}
}

func TestRemoveProducts(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodDelete, "/api/product?pattern=arroz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response RemoveResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Removed != 2 {
		t.Errorf("expected 2 removed, got %d", response.Removed)
	}

	products := listProducts(t, r)
	expected := []string{"Choco Frito", "Pão", "Água"}
	for i, name := range expected {
		if products[i].Description != name {
			t.Errorf("position %d: expected %s, got %s", i, name, products[i].Description)
		}
	}
}

func TestRemoveProducts_MissingPattern(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodDelete, "/api/product", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
	if got := len(listProducts(t, r)); got != 5 {
		t.Errorf("expected 5 products, got %d", got)
	}
}

func TestSearchProducts(t *testing.T) {
	r := newTestRouter()

	testCases := []struct {
		query      string
		wantStatus int
		want       []string
	}{
		{"arroz", http.StatusOK, []string{"Arroz de Marisco", "Arroz Doce"}},
		{"PÃO", http.StatusOK, []string{"Pão"}},
		{"pizza", http.StatusOK, []string{}},
		{"(", http.StatusBadRequest, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/product/search?q="+url.QueryEscape(tc.query), nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, w.Code)
			}
			if tc.wantStatus != http.StatusOK {
				return
			}

			var matches []MatchResponse
			if err := json.NewDecoder(w.Body).Decode(&matches); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(matches) != len(tc.want) {
				t.Fatalf("expected %d matches, got %d", len(tc.want), len(matches))
			}
			for i, name := range tc.want {
				if matches[i].Description != name {
					t.Errorf("match %d: expected %s, got %s", i, name, matches[i].Description)
				}
			}
		})
	}
}

func TestSortProducts(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/product/sort?by=price", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	products := listProducts(t, r)
	if products[0].Description != "Pão" || products[4].Description != "Arroz de Marisco" {
		t.Errorf("unexpected order after sort: %+v", products)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/product/sort?by=colour", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for unknown field, got %d", w.Code)
	}
}

func TestShowMenu(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected html content type, got %s", ct)
	}

	body := w.Body.String()
	for _, want := range []string{"<table>", "<th>Descrição</th>", "<td>Arroz Doce</td>", "<td>2.50</td>"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestShowMenu_Empty(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodDelete, "/api/product?pattern=.", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/menu", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	body := w.Body.String()
	if strings.Contains(body, "<table>") {
		t.Error("expected no table for an empty menu")
	}
	if !strings.Contains(body, "Ementa vazia") {
		t.Error("expected empty menu message")
	}
}

func TestExportProducts(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/product/export.xlsx", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment") {
		t.Errorf("expected attachment, got %s", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	if len(rows) != 6 {
		t.Errorf("expected 6 rows, got %d", len(rows))
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != "healthy" || response.Products != 5 {
		t.Errorf("unexpected health response: %+v", response)
	}
}
