// Package catalog derives the storefront and admin views of the catalog
// from raw product and category collections.
//
// Every function here is a pure transform: inputs are never mutated and
// the same inputs always produce the same output.
package catalog

import (
	"net/url"
	"slices"
	"strings"

	"github.com/niksmo/misslily/internal/core/domain"
)

const AllCategories = "all"

type PriceSort string

const (
	SortNone PriceSort = "none"
	SortAsc  PriceSort = "asc"
	SortDesc PriceSort = "desc"
)

type Filters struct {
	Category     string
	Search       string
	DiscountOnly bool
	PriceSort    PriceSort
}

func DefaultFilters() Filters {
	return Filters{Category: AllCategories, PriceSort: SortNone}
}

// ParseFilters reads filter state from query parameters.
//
// Unknown values fall back to the defaults.
func ParseFilters(q url.Values) Filters {
	f := DefaultFilters()

	if c := strings.TrimSpace(q.Get("category")); c != "" {
		f.Category = c
	}

	f.Search = q.Get("search")

	switch strings.ToLower(q.Get("discount")) {
	case "discounted", "true", "1":
		f.DiscountOnly = true
	}

	switch strings.ToLower(q.Get("sort")) {
	case "asc", "low-to-high":
		f.PriceSort = SortAsc
	case "desc", "high-to-low":
		f.PriceSort = SortDesc
	}

	return f
}

// Filter returns the visible products matching f.
//
// Inactive products are always dropped first. With [SortNone] the incoming
// order is kept; price sorting is stable.
func Filter(products []domain.Product, f Filters) []domain.Product {
	term := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		if f.Category != "" && f.Category != AllCategories &&
			p.CategoryID != f.Category {
			continue
		}
		if term != "" && !matches(p, term) {
			continue
		}
		if f.DiscountOnly && !p.Discount.IsPositive() {
			continue
		}
		out = append(out, p)
	}

	switch f.PriceSort {
	case SortAsc:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortDesc:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return b.Price.Cmp(a.Price)
		})
	}

	return out
}

func matches(p domain.Product, term string) bool {
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}
