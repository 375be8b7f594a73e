package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
)

// SortField enumerates the product fields a listing can be sorted by.
type SortField string

const (
	SortFieldName      SortField = "name"
	SortFieldCategory  SortField = "category"
	SortFieldPrice     SortField = "price"
	SortFieldQuantity  SortField = "quantity"
	SortFieldCode      SortField = "code"
	SortFieldCreatedAt SortField = "created_at"
)

// Validate reports whether the sort field is one of the supported values.
func (f SortField) Validate() error {
	switch f {
	case SortFieldName, SortFieldCategory, SortFieldPrice,
		SortFieldQuantity, SortFieldCode, SortFieldCreatedAt:
		return nil
	default:
		return apperr.ErrInvalidSortField
	}
}

// ParseSortField parses a sort field from its string form.
func ParseSortField(s string) (SortField, error) {
	f := SortField(strings.ToLower(s))
	if err := f.Validate(); err != nil {
		return "", err
	}
	return f, nil
}

// SortDirection is either ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

func (d SortDirection) Validate() error {
	switch d {
	case SortAsc, SortDesc:
		return nil
	default:
		return apperr.ErrInvalidSortDirection
	}
}

// ParseSortDirection parses a sort direction from its string form.
// The empty string defaults to ascending.
func ParseSortDirection(s string) (SortDirection, error) {
	if s == "" {
		return SortAsc, nil
	}
	d := SortDirection(strings.ToLower(s))
	if err := d.Validate(); err != nil {
		return "", err
	}
	return d, nil
}

// SortProducts returns a sorted copy of products. The sort is stable: records
// with equal keys keep their relative order from the input, in both
// directions, so repeated listings paginate reproducibly.
func SortProducts(products []model.Product, field SortField, direction SortDirection) ([]model.Product, error) {
	if err := field.Validate(); err != nil {
		return nil, err
	}
	if err := direction.Validate(); err != nil {
		return nil, err
	}

	compare := compareFunc(field)
	if direction == SortDesc {
		asc := compare
		compare = func(a, b model.Product) int { return -asc(a, b) }
	}

	out := slices.Clone(products)
	slices.SortStableFunc(out, compare)
	return out, nil
}

func compareFunc(field SortField) func(a, b model.Product) int {
	switch field {
	case SortFieldName:
		return func(a, b model.Product) int { return strings.Compare(a.Name, b.Name) }
	case SortFieldCategory:
		return func(a, b model.Product) int { return strings.Compare(a.Category, b.Category) }
	case SortFieldPrice:
		return func(a, b model.Product) int { return a.Price.Cmp(b.Price) }
	case SortFieldQuantity:
		return func(a, b model.Product) int { return cmp.Compare(a.Quantity, b.Quantity) }
	case SortFieldCode:
		return func(a, b model.Product) int { return strings.Compare(a.Code, b.Code) }
	case SortFieldCreatedAt:
		return func(a, b model.Product) int { return a.CreatedAt.Compare(b.CreatedAt) }
	default:
		// unreachable, Validate runs first
		return func(a, b model.Product) int { return 0 }
	}
}
