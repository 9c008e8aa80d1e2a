package models

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformedInput is returned when raw input cannot be turned into a
// product, pattern or sort field. The menu is never modified when it is returned.
var ErrMalformedInput = errors.New("malformed input")

// InputFormat is the text format accepted by ParseProduct
const InputFormat = "<descrição>|<tipo: E-Entrada/B-Bebida/P-Prato Principal/S-Sobremesa>|<preço>"

// Product represents one entry of the restaurant menu.
// Description and Category together identify the product.
type Product struct {
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	Price       decimal.Decimal `json:"price"`
}

// NewProduct builds a validated product
func NewProduct(description string, category Category, price decimal.Decimal) (Product, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Product{}, fmt.Errorf("%w: description is required", ErrMalformedInput)
	}
	if !category.Valid() {
		return Product{}, fmt.Errorf("%w: unknown product type %q", ErrMalformedInput, string(category))
	}
	if price.IsNegative() {
		return Product{}, fmt.Errorf("%w: price must not be negative, got %s", ErrMalformedInput, price.String())
	}

	return Product{
		Description: description,
		Category:    category,
		Price:       price,
	}, nil
}

// ParsePrice parses a price typed by a user. Both "1.5" and "1,5" are accepted.
func ParsePrice(text string) (decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	if !strings.Contains(text, ".") {
		text = strings.Replace(text, ",", ".", 1)
	}

	price, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid price %q", ErrMalformedInput, text)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: price must not be negative, got %q", ErrMalformedInput, text)
	}
	return price, nil
}

// ParseProduct parses "description|type|price"
func ParseProduct(raw string) (Product, error) {
	values := strings.Split(raw, "|")
	if len(values) != 3 {
		return Product{}, fmt.Errorf("%w: expected 3 fields separated by '|', got %d", ErrMalformedInput, len(values))
	}

	category, err := ParseCategory(values[1])
	if err != nil {
		return Product{}, err
	}

	price, err := ParsePrice(values[2])
	if err != nil {
		return Product{}, err
	}

	return NewProduct(values[0], category, price)
}

// IsZero reports whether p is the absent product
func (p Product) IsZero() bool {
	return p.Description == "" && p.Category == "" && p.Price.IsZero()
}

// Valid reports whether p could have been built by NewProduct
func (p Product) Valid() bool {
	return strings.TrimSpace(p.Description) != "" && p.Category.Valid() && !p.Price.IsNegative()
}

// SameKey reports whether p and other share description and category
func (p Product) SameKey(other Product) bool {
	return p.Description == other.Description && p.Category == other.Category
}

// FormattedPrice returns the price with exactly two decimal places
func (p Product) FormattedPrice() string {
	return p.Price.StringFixed(2)
}

// TableRow renders the product as an HTML table row
func (p Product) TableRow() string {
	return fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%s</td></tr>",
		html.EscapeString(p.Description),
		html.EscapeString(p.Category.Label()),
		p.FormattedPrice(),
	)
}

// Column labels used by every rendering of the menu
const (
	LabelDescription = "Descrição"
	LabelCategory    = "Tipo"
	LabelPrice       = "Preço"
	CurrencySymbol   = "€"
)

// TableHeader is the header row matching TableRow
var TableHeader = fmt.Sprintf("<tr><th>%s</th><th>%s</th><th>%s (%s)</th></tr>",
	LabelDescription, LabelCategory, LabelPrice, CurrencySymbol)
