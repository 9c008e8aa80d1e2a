package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Lixing-Zhang/restaurant-menu/internal/catalog"
	"github.com/Lixing-Zhang/restaurant-menu/internal/metrics"
	"github.com/Lixing-Zhang/restaurant-menu/internal/models"
	"github.com/Lixing-Zhang/restaurant-menu/internal/repository"
	"github.com/Lixing-Zhang/restaurant-menu/pkg/logger"
)

// MenuService turns raw user input into menu operations
type MenuService struct {
	repo    repository.MenuRepository
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewMenuService creates a new menu service. m may be nil.
func NewMenuService(repo repository.MenuRepository, log *slog.Logger, m *metrics.Metrics) *MenuService {
	if log == nil {
		log = slog.Default()
	}
	return &MenuService{
		repo:    repo,
		log:     log,
		metrics: m,
	}
}

// ListProducts returns the menu in order
func (s *MenuService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.List(ctx)
}

// AddProduct parses "description|type|price" and adds the product
func (s *MenuService) AddProduct(ctx context.Context, raw string) (models.Product, error) {
	p, err := models.ParseProduct(raw)
	if err != nil {
		s.finish(ctx, "add", err, "input", raw)
		return models.Product{}, err
	}
	return s.SaveProduct(ctx, p)
}

// SaveProduct validates p and adds it, or updates its price
func (s *MenuService) SaveProduct(ctx context.Context, p models.Product) (models.Product, error) {
	checked, err := models.NewProduct(p.Description, p.Category, p.Price)
	if err == nil {
		err = s.repo.Upsert(ctx, checked)
	}
	s.finish(ctx, "add", err, "description", p.Description, "category", p.Category.String())
	if err != nil {
		return models.Product{}, err
	}
	return checked, nil
}

// AddProducts adds products in order; later duplicates override earlier prices
func (s *MenuService) AddProducts(ctx context.Context, products ...models.Product) error {
	valid := make([]models.Product, 0, len(products))
	for i, p := range products {
		checked, err := models.NewProduct(p.Description, p.Category, p.Price)
		if err != nil {
			err = fmt.Errorf("product %d: %w", i+1, err)
			s.finish(ctx, "add_many", err)
			return err
		}
		valid = append(valid, checked)
	}

	err := s.repo.Upsert(ctx, valid...)
	s.finish(ctx, "add_many", err, "count", len(valid))
	return err
}

// RemoveProducts removes the products whose description matches pattern.
// A blank pattern is rejected since it would empty the menu.
func (s *MenuService) RemoveProducts(ctx context.Context, pattern string) (int, error) {
	if strings.TrimSpace(pattern) == "" {
		err := fmt.Errorf("%w: a pattern is required to remove products", models.ErrMalformedInput)
		s.finish(ctx, "remove", err)
		return 0, err
	}

	re, err := catalog.CompilePattern(pattern)
	if err != nil {
		s.finish(ctx, "remove", err, "pattern", pattern)
		return 0, err
	}

	removed, err := s.repo.Remove(ctx, re)
	s.finish(ctx, "remove", err, "pattern", pattern, "removed", removed)
	return removed, err
}

// SearchProducts returns description and price of the matching products
func (s *MenuService) SearchProducts(ctx context.Context, pattern string) ([]catalog.Match, error) {
	re, err := catalog.CompilePattern(pattern)
	if err != nil {
		s.finish(ctx, "search", err, "pattern", pattern)
		return nil, err
	}

	matches, err := s.repo.Search(ctx, re)
	s.finish(ctx, "search", err, "pattern", pattern, "matches", len(matches))
	return matches, err
}

// SortProducts sorts the menu ascending on field
func (s *MenuService) SortProducts(ctx context.Context, field string) ([]models.Product, error) {
	products, err := s.repo.SortBy(ctx, field)
	s.finish(ctx, "sort", err, "field", field)
	return products, err
}

// Table renders the menu as an HTML table, "" when it is empty
func (s *MenuService) Table(ctx context.Context) (string, error) {
	return s.repo.Table(ctx)
}

// Revision identifies the current menu state
func (s *MenuService) Revision(ctx context.Context) (string, error) {
	return s.repo.Revision(ctx)
}

// finish logs and counts an operation
func (s *MenuService) finish(ctx context.Context, operation string, err error, args ...any) {
	log := logger.FromContext(ctx, s.log).With("operation", operation)

	switch {
	case err == nil:
		s.metrics.Observe(operation, metrics.ResultOK)
		log.Debug("menu operation completed", args...)
		if s.metrics == nil {
			return
		}
		if products, listErr := s.repo.List(ctx); listErr == nil {
			s.metrics.SetProducts(len(products))
		}
	case errors.Is(err, models.ErrMalformedInput):
		s.metrics.Observe(operation, metrics.ResultMalformed)
		log.Warn("malformed menu input", append(args, "error", err)...)
	default:
		s.metrics.Observe(operation, metrics.ResultError)
		log.Error("menu operation failed", append(args, "error", err)...)
	}
}
