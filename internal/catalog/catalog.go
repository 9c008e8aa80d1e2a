// Package catalog implements the restaurant menu: an ordered collection of
// products, unique by description and category.
//
// A Catalog is not safe for concurrent use. Callers that share one between
// goroutines must serialise access (see repository.InMemoryMenuRepository).
package catalog

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/Lixing-Zhang/restaurant-menu/internal/models"
	"github.com/shopspring/decimal"
)

// Catalog is an ordered list of products
type Catalog struct {
	products []models.Product
}

// Match is a search result
type Match struct {
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{}
}

// Add inserts p, or updates the price of the product with the same
// description and category. An invalid product (zero, blank description,
// unknown category or negative price) is ignored.
func (c *Catalog) Add(p models.Product) *Catalog {
	if !p.Valid() {
		return c
	}

	if i := c.indexOf(p); i >= 0 {
		c.products[i].Price = p.Price
		return c
	}

	c.products = append(c.products, p)
	return c
}

// AddProducts adds each product in order
func (c *Catalog) AddProducts(products ...models.Product) *Catalog {
	for _, p := range products {
		c.Add(p)
	}
	return c
}

// Remove deletes every product whose description matches pattern
func (c *Catalog) Remove(pattern *regexp.Regexp) *Catalog {
	if pattern == nil {
		return c
	}

	c.products = slices.DeleteFunc(c.products, func(p models.Product) bool {
		return pattern.MatchString(p.Description)
	})
	return c
}

// Search returns description and price of the products matching pattern,
// in menu order.
func (c *Catalog) Search(pattern *regexp.Regexp) []Match {
	matches := make([]Match, 0)
	if pattern == nil {
		return matches
	}

	for _, p := range c.products {
		if pattern.MatchString(p.Description) {
			matches = append(matches, Match{Description: p.Description, Price: p.Price})
		}
	}
	return matches
}

// Sort orders the products with cmp. Products comparing equal keep their
// relative order.
func (c *Catalog) Sort(cmp func(a, b models.Product) int) *Catalog {
	if cmp == nil {
		return c
	}
	slices.SortStableFunc(c.products, cmp)
	return c
}

// SortBy sorts ascending on one of the fields "description", "category" or "price"
func (c *Catalog) SortBy(field string) (*Catalog, error) {
	cmp, err := Comparator(field)
	if err != nil {
		return c, err
	}
	return c.Sort(cmp), nil
}

// Products returns a copy of the products in menu order
func (c *Catalog) Products() []models.Product {
	return slices.Clone(c.products)
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}

// ToTable renders the menu as an HTML table. An empty menu renders as "".
func (c *Catalog) ToTable() string {
	if len(c.products) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("<table><thead>")
	b.WriteString(models.TableHeader)
	b.WriteString("</thead><tbody>")
	for _, p := range c.products {
		b.WriteString(p.TableRow())
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

func (c *Catalog) indexOf(p models.Product) int {
	return slices.IndexFunc(c.products, p.SameKey)
}

// CompilePattern compiles a case-insensitive, unanchored description pattern
func CompilePattern(text string) (*regexp.Regexp, error) {
	pattern, err := regexp.Compile("(?i)" + text)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid pattern %q: %v", models.ErrMalformedInput, text, err)
	}
	return pattern, nil
}
