package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/Lixing-Zhang/restaurant-menu/internal/catalog"
	"github.com/Lixing-Zhang/restaurant-menu/internal/export"
	"github.com/Lixing-Zhang/restaurant-menu/internal/models"
	"github.com/Lixing-Zhang/restaurant-menu/internal/service"
	"github.com/Lixing-Zhang/restaurant-menu/pkg/logger"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 4 << 10

// MenuHandler handles menu-related HTTP requests
type MenuHandler struct {
	service *service.MenuService
	logger  *slog.Logger
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(service *service.MenuService, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger,
	}
}

// ProductRequest is the JSON body of POST /api/product.
// Price may be sent as a number or a string.
type ProductRequest struct {
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Price       *decimal.Decimal `json:"price"`
}

// ProductResponse is a product as returned by the API
type ProductResponse struct {
	Description   string      `json:"description"`
	Category      string      `json:"category"`
	CategoryLabel string      `json:"categoryLabel"`
	Price         json.Number `json:"price"`
}

// MatchResponse is a search result
type MatchResponse struct {
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
}

// RemoveResponse reports how many products a DELETE removed
type RemoveResponse struct {
	Removed int `json:"removed"`
}

func newProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		Description:   p.Description,
		Category:      p.Category.String(),
		CategoryLabel: p.Category.Label(),
		Price:         json.Number(p.FormattedPrice()),
	}
}

func newProductResponses(products []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, newProductResponse(p))
	}
	return out
}

// ListProducts handles GET /api/product
// The menu revision is sent as ETag; a matching If-None-Match yields 304.
func (h *MenuHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx, h.logger)

	revision, err := h.service.Revision(ctx)
	if err != nil {
		WriteServiceError(w, err, log)
		return
	}

	etag := fmt.Sprintf("%q", revision)
	w.Header().Set("ETag", etag)
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	products, err := h.service.ListProducts(ctx)
	if err != nil {
		WriteServiceError(w, err, log)
		return
	}

	WriteJSON(w, http.StatusOK, newProductResponses(products), log)
}

// AddProduct handles POST /api/product
// Accepts a JSON ProductRequest or a text/plain "description|type|price" body.
func (h *MenuHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx, h.logger)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warn("request body too large", "limit", tooLarge.Limit)
			WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large", log)
			return
		}
		log.Warn("failed to read request body", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", log)
		return
	}

	var product models.Product
	if isPlainText(r) {
		product, err = h.service.AddProduct(ctx, strings.TrimSpace(string(body)))
	} else {
		var req ProductRequest
		if err := json.Unmarshal(body, &req); err != nil {
			log.Warn("failed to decode product request", "error", err)
			WriteError(w, http.StatusBadRequest, "Invalid request body", log)
			return
		}
		product, err = h.saveRequest(r, req)
	}

	if err != nil {
		WriteServiceError(w, err, log)
		return
	}

	WriteJSON(w, http.StatusCreated, newProductResponse(product), log)
}

func (h *MenuHandler) saveRequest(r *http.Request, req ProductRequest) (models.Product, error) {
	category, err := models.ParseCategory(req.Category)
	if err != nil {
		return models.Product{}, err
	}
	if req.Price == nil {
		return models.Product{}, fmt.Errorf("%w: price is required", models.ErrMalformedInput)
	}

	return h.service.SaveProduct(r.Context(), models.Product{
		Description: req.Description,
		Category:    category,
		Price:       *req.Price,
	})
}

// RemoveProducts handles DELETE /api/product?pattern=
func (h *MenuHandler) RemoveProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx, h.logger)

	removed, err := h.service.RemoveProducts(ctx, r.URL.Query().Get("pattern"))
	if err != nil {
		WriteServiceError(w, err, log)
		return
	}

	WriteJSON(w, http.StatusOK, RemoveResponse{Removed: removed}, log)
}

// SearchProducts handles GET /api/product/search?q=
func (h *MenuHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx, h.logger)

	matches, err := h.service.SearchProducts(ctx, r.URL.Query().Get("q"))
	if err != nil {
		WriteServiceError(w, err, log)
		return
	}

	WriteJSON(w, http.StatusOK, newMatchResponses(matches), log)
}

func newMatchResponses(matches []catalog.Match) []MatchResponse {
	out := make([]MatchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, MatchResponse{
			Description: m.Description,
			Price:       json.Number(m.Price.StringFixed(2)),
		})
	}
	return out
}

// SortProducts handles POST /api/product/sort?by=
func (h *MenuHandler) SortProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx, h.logger)

	products, err := h.service.SortProducts(ctx, r.URL.Query().Get("by"))
	if err != nil {
		WriteServiceError(w, err, log)
		return
	}

	WriteJSON(w, http.StatusOK, newProductResponses(products), log)
}

// ExportProducts handles GET /api/product/export.xlsx
func (h *MenuHandler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx, h.logger)

	products, err := h.service.ListProducts(ctx)
	if err != nil {
		WriteServiceError(w, err, log)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, products); err != nil {
		WriteServiceError(w, err, log)
		return
	}

	fileName := fmt.Sprintf("ementa_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error("failed to write export", "error", err)
	}
}

var menuPage = template.Must(template.New("menu").Parse(`<!DOCTYPE html>
<html lang="pt">
<head><meta charset="utf-8"><title>Ementa</title></head>
<body>
<h1>Ementa</h1>
<div id="products">{{if .Table}}{{.Table}}{{else}}<p>Ementa vazia</p>{{end}}</div>
</body>
</html>
`))

// ShowMenu handles GET /menu and renders the menu table as a page
func (h *MenuHandler) ShowMenu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx, h.logger)

	table, err := h.service.Table(ctx)
	if err != nil {
		WriteServiceError(w, err, log)
		return
	}

	var buf bytes.Buffer
	// ToTable escapes product text, so the table is trusted markup here
	if err := menuPage.Execute(&buf, struct{ Table template.HTML }{template.HTML(table)}); err != nil {
		log.Error("failed to render menu page", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", log)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// etagMatches reports whether an If-None-Match header selects etag.
// Weak validators compare equal to their strong form.
func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

func isPlainText(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "text/plain"
}
