package repository

import (
	"context"
	"regexp"
	"sync"

	"github.com/Lixing-Zhang/restaurant-menu/internal/catalog"
	"github.com/Lixing-Zhang/restaurant-menu/internal/models"
	"github.com/google/uuid"
)

// MenuRepository defines the interface for menu data access
type MenuRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	Upsert(ctx context.Context, products ...models.Product) error
	Remove(ctx context.Context, pattern *regexp.Regexp) (int, error)
	Search(ctx context.Context, pattern *regexp.Regexp) ([]catalog.Match, error)
	SortBy(ctx context.Context, field string) ([]models.Product, error)
	Table(ctx context.Context) (string, error)
	Revision(ctx context.Context) (string, error)
}

// InMemoryMenuRepository implements MenuRepository on top of a single
// catalog. All access goes through mu.
type InMemoryMenuRepository struct {
	mu       sync.RWMutex
	menu     *catalog.Catalog
	revision string
}

// NewInMemoryMenuRepository creates a repository seeded with the default menu
func NewInMemoryMenuRepository() *InMemoryMenuRepository {
	return NewInMemoryMenuRepositoryFrom(catalog.Default())
}

// NewInMemoryMenuRepositoryFrom creates a repository owning menu.
// The caller must not use menu afterwards.
func NewInMemoryMenuRepositoryFrom(menu *catalog.Catalog) *InMemoryMenuRepository {
	if menu == nil {
		menu = catalog.New()
	}
	return &InMemoryMenuRepository{
		menu:     menu,
		revision: uuid.NewString(),
	}
}

// List returns all products in menu order
func (r *InMemoryMenuRepository) List(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.menu.Products(), nil
}

// Upsert adds products, updating the price of existing ones
func (r *InMemoryMenuRepository) Upsert(ctx context.Context, products ...models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.menu.AddProducts(products...)
	r.revision = uuid.NewString()
	return nil
}

// Remove deletes the products matching pattern and returns how many were removed
func (r *InMemoryMenuRepository) Remove(ctx context.Context, pattern *regexp.Regexp) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := r.menu.Len()
	removed := before - r.menu.Remove(pattern).Len()
	if removed > 0 {
		r.revision = uuid.NewString()
	}
	return removed, nil
}

// Search returns the products matching pattern
func (r *InMemoryMenuRepository) Search(ctx context.Context, pattern *regexp.Regexp) ([]catalog.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.menu.Search(pattern), nil
}

// SortBy reorders the menu on field and returns the new order
func (r *InMemoryMenuRepository) SortBy(ctx context.Context, field string) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.menu.SortBy(field); err != nil {
		return nil, err
	}
	r.revision = uuid.NewString()
	return r.menu.Products(), nil
}

// Table renders the menu as an HTML table
func (r *InMemoryMenuRepository) Table(ctx context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.menu.ToTable(), nil
}

// Revision identifies the current state of the menu. It changes on every
// modification.
func (r *InMemoryMenuRepository) Revision(ctx context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.revision, nil
}
