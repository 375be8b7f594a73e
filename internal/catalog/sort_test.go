package catalog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
)

func TestParseSortField(t *testing.T) {
	t.Run("Should accept supported fields", func(t *testing.T) {
		for _, s := range []string{"name", "category", "price", "quantity", "code", "created_at"} {
			f, err := catalog.ParseSortField(s)
			require.NoError(t, err)
			assert.Equal(t, catalog.SortField(s), f)
		}
	})

	t.Run("Should be case-insensitive", func(t *testing.T) {
		f, err := catalog.ParseSortField("Price")
		require.NoError(t, err)
		assert.Equal(t, catalog.SortFieldPrice, f)
	})

	t.Run("Should reject unknown field", func(t *testing.T) {
		_, err := catalog.ParseSortField("weight")
		assert.ErrorIs(t, err, apperr.ErrInvalidSortField)
	})
}

func TestParseSortDirection(t *testing.T) {
	d, err := catalog.ParseSortDirection("")
	require.NoError(t, err)
	assert.Equal(t, catalog.SortAsc, d)

	d, err = catalog.ParseSortDirection("DESC")
	require.NoError(t, err)
	assert.Equal(t, catalog.SortDesc, d)

	_, err = catalog.ParseSortDirection("sideways")
	assert.ErrorIs(t, err, apperr.ErrInvalidSortDirection)
}

func TestSortProducts(t *testing.T) {
	products := []model.Product{
		newProduct(t, "Hammer", "Tools", "25.50", 5, "C1", 0),
		newProduct(t, "Wrench", "Tools", "10.00", 3, "C2", time.Minute),
		newProduct(t, "Pliers", "Tools", "25.50", 8, "C3", 2*time.Minute),
		newProduct(t, "Chisel", "Tools", "10.00", 1, "C4", 3*time.Minute),
	}

	t.Run("Should sort ascending by price", func(t *testing.T) {
		got, err := catalog.SortProducts(products, catalog.SortFieldPrice, catalog.SortAsc)
		require.NoError(t, err)
		assert.Equal(t, []string{"C2", "C4", "C1", "C3"}, codes(got))
	})

	t.Run("Should keep insertion order for equal keys ascending", func(t *testing.T) {
		got, err := catalog.SortProducts(products, catalog.SortFieldPrice, catalog.SortAsc)
		require.NoError(t, err)
		// 10.00 group: C2 before C4, 25.50 group: C1 before C3
		assert.Equal(t, []string{"C2", "C4", "C1", "C3"}, codes(got))
	})

	t.Run("Should keep insertion order for equal keys descending", func(t *testing.T) {
		got, err := catalog.SortProducts(products, catalog.SortFieldPrice, catalog.SortDesc)
		require.NoError(t, err)
		// groups swap, order inside each group does not
		assert.Equal(t, []string{"C1", "C3", "C2", "C4"}, codes(got))
	})

	t.Run("Should sort by name", func(t *testing.T) {
		got, err := catalog.SortProducts(products, catalog.SortFieldName, catalog.SortAsc)
		require.NoError(t, err)
		assert.Equal(t, []string{"C4", "C1", "C3", "C2"}, codes(got))
	})

	t.Run("Should sort by created_at descending", func(t *testing.T) {
		got, err := catalog.SortProducts(products, catalog.SortFieldCreatedAt, catalog.SortDesc)
		require.NoError(t, err)
		assert.Equal(t, []string{"C4", "C3", "C2", "C1"}, codes(got))
	})

	t.Run("Should not mutate input", func(t *testing.T) {
		before := codes(products)
		_, err := catalog.SortProducts(products, catalog.SortFieldName, catalog.SortDesc)
		require.NoError(t, err)
		assert.Equal(t, before, codes(products))
	})

	t.Run("Should reject unsupported field", func(t *testing.T) {
		_, err := catalog.SortProducts(products, catalog.SortField("weight"), catalog.SortAsc)
		assert.ErrorIs(t, err, apperr.ErrInvalidSortField)
	})
}
