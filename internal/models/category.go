package models

import (
	"fmt"
	"strings"
)

// Category is the type of a menu product, stored as its one-letter tag
type Category string

const (
	CategoryStarter    Category = "E"
	CategoryBeverage   Category = "B"
	CategoryMainCourse Category = "P"
	CategoryDessert    Category = "S"
)

var categoryLabels = map[Category]string{
	CategoryStarter:    "Entrada",
	CategoryBeverage:   "Bebida",
	CategoryMainCourse: "Prato Principal",
	CategoryDessert:    "Sobremesa",
}

// Categories returns every category in declaration order
func Categories() []Category {
	return []Category{CategoryStarter, CategoryBeverage, CategoryMainCourse, CategoryDessert}
}

// ParseCategory converts a tag such as "P" or " s " into a Category
func ParseCategory(tag string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(tag)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown product type %q", ErrMalformedInput, tag)
	}
	return c, nil
}

// Valid reports whether c is one of the four known tags
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display label, e.g. "Prato Principal"
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

func (c Category) String() string {
	return string(c)
}
