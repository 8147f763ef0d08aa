package models

import "strings"

// Category buckets a bottle for filtering and decides how its stock is tracked.
type Category string

const (
	CategoryRed       Category = "Red"
	CategoryWhite     Category = "White"
	CategoryRose      Category = "Rose"
	CategoryFortified Category = "Fortified"
	CategoryBeer      Category = "Beer"
	CategoryCider     Category = "Cider"
	CategoryWhiskies  Category = "Whiskies"
	CategoryOther     Category = "Other"
)

var categories = []Category{
	CategoryRed,
	CategoryWhite,
	CategoryRose,
	CategoryFortified,
	CategoryBeer,
	CategoryCider,
	CategoryWhiskies,
	CategoryOther,
}

// vintageTracked is the fixed set of categories whose stock is kept as a
// per-year breakdown. Every write path consults it through VintageTracked.
var vintageTracked = map[Category]struct{}{
	CategoryRed:   {},
	CategoryWhite: {},
	CategoryRose:  {},
}

func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// VintageTracked reports whether stock for this category is broken down by
// vintage year. For everything else stock_level is the single source of truth.
func (c Category) VintageTracked() bool {
	_, ok := vintageTracked[c]
	return ok
}

// ParseCategory maps user input onto a known category, case-insensitively.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, known := range categories {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}

func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}
