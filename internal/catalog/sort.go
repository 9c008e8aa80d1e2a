package catalog

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Lixing-Zhang/restaurant-menu/internal/models"
)

// Sortable field names
const (
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldPrice       = "price"
)

var comparators = map[string]func(a, b models.Product) int{
	FieldDescription: func(a, b models.Product) int {
		return strings.Compare(a.Description, b.Description)
	},
	FieldCategory: func(a, b models.Product) int {
		return strings.Compare(string(a.Category), string(b.Category))
	},
	FieldPrice: func(a, b models.Product) int {
		return a.Price.Cmp(b.Price)
	},
}

// Comparator returns the ascending comparator for a product field
func Comparator(field string) (func(a, b models.Product) int, error) {
	cmp, ok := comparators[strings.ToLower(strings.TrimSpace(field))]
	if !ok {
		return nil, fmt.Errorf("%w: cannot sort by %q (use one of %s)",
			models.ErrMalformedInput, field, strings.Join(Fields(), ", "))
	}
	return cmp, nil
}

// Fields lists the sortable field names
func Fields() []string {
	return slices.Sorted(maps.Keys(comparators))
}
