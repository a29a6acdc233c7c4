package domain

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// AllCategories is the category selector sentinel that disables the
// category filter.
const AllCategories = "All"

// SortMode selects the ordering of the visible product list.
type SortMode string

const (
	SortFeatured  SortMode = "featured"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
	SortNameAsc   SortMode = "name-asc"
)

// ParseSortMode maps a raw selector value to a SortMode. Unknown values
// fall back to catalog order.
func ParseSortMode(raw string) SortMode {
	switch mode := SortMode(strings.TrimSpace(raw)); mode {
	case SortPriceAsc, SortPriceDesc, SortNameAsc:
		return mode
	default:
		return SortFeatured
	}
}

// Criteria is the active category, search, price and sort selection.
type Criteria struct {
	Category string
	Search   string
	MinPrice float64
	MaxPrice float64
	Sort     SortMode
}

// DefaultCriteria passes every product through in catalog order.
func DefaultCriteria() Criteria {
	return Criteria{
		Category: AllCategories,
		MinPrice: 0,
		MaxPrice: math.Inf(1),
		Sort:     SortFeatured,
	}
}

// ParsePriceBound parses a raw price input. Empty or malformed input means
// the bound is unset and yields fallback.
func ParsePriceBound(raw string, fallback float64) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return fallback
	}
	return v
}

// Apply derives the visible product list from catalog. It never reorders
// or mutates catalog.
func Apply(catalog []*Product, c Criteria) []*Product {
	term := strings.ToLower(c.Search)

	out := make([]*Product, 0, len(catalog))
	for _, p := range catalog {
		if p.Price < c.MinPrice || p.Price > c.MaxPrice {
			continue
		}
		if c.Category != AllCategories && p.Category != c.Category {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		out = append(out, p)
	}

	switch c.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b *Product) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b *Product) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case SortNameAsc:
		// Collators keep scratch buffers and are not safe to share.
		col := collate.New(language.English)
		slices.SortStableFunc(out, func(a, b *Product) int {
			return col.CompareString(a.Name, b.Name)
		})
	}

	return out
}

// Categories lists the category selector options: AllCategories followed by
// each distinct catalog category in first-seen order.
func Categories(catalog []*Product) []string {
	if len(catalog) == 0 {
		return []string{}
	}
	out := []string{AllCategories}
	seen := make(map[string]struct{})
	for _, p := range catalog {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
