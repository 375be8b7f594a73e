package catalog

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-catalog/internal/model"
)

// CountByCategory returns how many products belong to the given category,
// 0 when the category is absent.
func CountByCategory(products []model.Product, category string) int {
	count := 0
	for _, p := range products {
		if p.Category == category {
			count++
		}
	}
	return count
}

// TotalInventoryValue returns the sum of price*quantity over all products.
// The accumulation stays in exact decimal arithmetic; an empty snapshot
// yields exactly zero.
func TotalInventoryValue(products []model.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	return total
}

// AveragePrice returns the arithmetic mean of all product prices, exactly
// zero for an empty snapshot rather than an error or a missing value.
func AveragePrice(products []model.Product) decimal.Decimal {
	if len(products) == 0 {
		return decimal.Zero
	}

	sum := decimal.Zero
	for _, p := range products {
		sum = sum.Add(p.Price)
	}
	return sum.Div(decimal.NewFromInt(int64(len(products))))
}

// LowStock returns the products with quantity strictly below threshold,
// in snapshot order. A threshold of zero or less yields an empty result
// since quantities are never negative.
func LowStock(products []model.Product, threshold int) []model.Product {
	out := make([]model.Product, 0)
	for _, p := range products {
		if p.Quantity < threshold {
			out = append(out, p)
		}
	}
	return out
}

// Recent returns the n products with the largest CreatedAt, newest first.
// Equal timestamps are broken by most-recent snapshot position first, so the
// result is deterministic when several records share a creation time.
func Recent(products []model.Product, n int) []model.Product {
	if n <= 0 {
		return []model.Product{}
	}

	idx := make([]int, len(products))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		pa, pb := products[idx[a]], products[idx[b]]
		if !pa.CreatedAt.Equal(pb.CreatedAt) {
			return pa.CreatedAt.After(pb.CreatedAt)
		}
		return idx[a] > idx[b]
	})

	n = min(n, len(products))
	out := make([]model.Product, 0, n)
	for _, i := range idx[:n] {
		out = append(out, products[i])
	}
	return out
}

// RoundMoney rounds a currency amount to 2 fractional digits, half up.
// Callers present rounded values only at the boundary; aggregation itself
// never rounds.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
