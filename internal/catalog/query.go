// Package catalog implements the query and statistics engine of the product
// catalog. Every function operates on an immutable snapshot of the product
// collection and never mutates its input, so results are pure functions of
// their arguments and safe for concurrent use.
package catalog

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
)

// FilterByCategory returns the products whose category equals the given one.
// The match is exact and case-sensitive.
func FilterByCategory(products []model.Product, category string) []model.Product {
	out := make([]model.Product, 0)
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// SearchByName returns the products whose name contains the keyword,
// case-insensitively. An empty keyword matches everything.
func SearchByName(products []model.Product, keyword string) []model.Product {
	keyword = strings.ToLower(keyword)
	out := make([]model.Product, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), keyword) {
			out = append(out, p)
		}
	}
	return out
}

// Page is one page of a paginated result set. Number is 0-indexed.
type Page struct {
	Items      []model.Product
	Number     int
	Size       int
	TotalItems int
	TotalPages int
}

// SearchByNamePaged runs SearchByName and slices the matches into pages.
// A non-positive size or a negative page number is rejected; a page number
// past the last page yields an empty page with the totals still filled in.
func SearchByNamePaged(products []model.Product, keyword string, page, size int) (Page, error) {
	if size <= 0 {
		return Page{}, apperr.ErrInvalidPageSize
	}
	if page < 0 {
		return Page{}, apperr.ErrInvalidPageNumber
	}

	matches := SearchByName(products, keyword)
	total := len(matches)
	totalPages := (total + size - 1) / size

	start := page * size
	end := min(start+size, total)
	items := make([]model.Product, 0)
	if start < total {
		items = append(items, matches[start:end]...)
	}

	return Page{
		Items:      items,
		Number:     page,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// FilterByPriceRange returns the products whose price lies in [minPrice,
// maxPrice], bounds inclusive. An inverted range yields an empty result.
func FilterByPriceRange(products []model.Product, minPrice, maxPrice decimal.Decimal) []model.Product {
	out := make([]model.Product, 0)
	for _, p := range products {
		if p.Price.GreaterThanOrEqual(minPrice) && p.Price.LessThanOrEqual(maxPrice) {
			out = append(out, p)
		}
	}
	return out
}

// Criteria is a set of optional filters combined with logical AND.
// A nil pointer (or an empty Name/Category string) means no filter on that
// field, so the zero Criteria matches every product.
type Criteria struct {
	Name     *string
	Category *string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

func (c Criteria) matches(p model.Product) bool {
	if c.Name != nil && *c.Name != "" &&
		!strings.Contains(strings.ToLower(p.Name), strings.ToLower(*c.Name)) {
		return false
	}
	if c.Category != nil && *c.Category != "" && p.Category != *c.Category {
		return false
	}
	if c.MinPrice != nil && p.Price.LessThan(*c.MinPrice) {
		return false
	}
	if c.MaxPrice != nil && p.Price.GreaterThan(*c.MaxPrice) {
		return false
	}
	return true
}

// Search returns the products matching every present criterion. Name matches
// as a case-insensitive substring, category as an exact string, price bounds
// are inclusive.
func Search(products []model.Product, criteria Criteria) []model.Product {
	out := make([]model.Product, 0)
	for _, p := range products {
		if criteria.matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the distinct category values present in the snapshot,
// in ascending lexicographic order.
func Categories(products []model.Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	slices.Sort(out)
	return out
}
