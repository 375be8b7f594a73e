package http

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/service"
)

type productRequest struct {
	Name     string          `json:"name" validate:"required,max=255"`
	Category string          `json:"category" validate:"required,max=255"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" validate:"gte=0"`
	Code     string          `json:"code" validate:"required,max=64,productcode"`
}

func (req productRequest) toParams() service.ProductParams {
	return service.ProductParams{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
		Code:     req.Code,
	}
}

type productResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Code      string          `json:"code"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func newProductResponse(p model.Product) productResponse {
	return productResponse{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		Quantity:  p.Quantity,
		Code:      p.Code,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func newProductResponses(products []model.Product) []productResponse {
	items := make([]productResponse, 0, len(products))
	for _, p := range products {
		items = append(items, newProductResponse(p))
	}
	return items
}

type productsResponse struct {
	Items []productResponse `json:"items"`
}

type pagedProductsResponse struct {
	Items      []productResponse `json:"items"`
	Page       int               `json:"page"`
	Size       int               `json:"size"`
	TotalItems int               `json:"total_items"`
	TotalPages int               `json:"total_pages"`
}

func newPagedProductsResponse(page catalog.Page) pagedProductsResponse {
	return pagedProductsResponse{
		Items:      newProductResponses(page.Items),
		Page:       page.Number,
		Size:       page.Size,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	}
}

type categoriesResponse struct {
	Items []string `json:"items"`
}

type dashboardResponse struct {
	TotalProducts       int               `json:"total_products"`
	Categories          []string          `json:"categories"`
	ProductsByCategory  map[string]int    `json:"products_by_category"`
	TotalInventoryValue string            `json:"total_inventory_value"`
	AveragePrice        string            `json:"average_price"`
	LowStockThreshold   int               `json:"low_stock_threshold"`
	LowStockProducts    []productResponse `json:"low_stock_products"`
	RecentProducts      []productResponse `json:"recent_products"`
}

func newDashboardResponse(summary service.DashboardSummary) dashboardResponse {
	return dashboardResponse{
		TotalProducts:       summary.TotalProducts,
		Categories:          summary.Categories,
		ProductsByCategory:  summary.ProductsByCategory,
		TotalInventoryValue: catalog.RoundMoney(summary.TotalInventoryValue).StringFixed(2),
		AveragePrice:        catalog.RoundMoney(summary.AveragePrice).StringFixed(2),
		LowStockThreshold:   summary.LowStockThreshold,
		LowStockProducts:    newProductResponses(summary.LowStockProducts),
		RecentProducts:      newProductResponses(summary.RecentProducts),
	}
}
