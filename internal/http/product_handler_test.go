package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
	"github.com/tuanvumaihuynh/product-catalog/internal/config"
	catalhttp "github.com/tuanvumaihuynh/product-catalog/internal/http"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/service"
	"github.com/tuanvumaihuynh/product-catalog/internal/service/mocks"
)

type healthyChecker struct{}

func (healthyChecker) IsHealthy(_ context.Context) (bool, error) {
	return true, nil
}

func newTestRouter(t *testing.T) (chi.Router, *mocks.MockCatalogService) {
	t.Helper()

	catalogSvc := &mocks.MockCatalogService{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := catalhttp.New(config.HTTP{}, logger, prometheus.NewRegistry(), catalogSvc, healthyChecker{})
	require.NoError(t, err)

	r := chi.NewRouter()
	svc.RegisterHandlers(r)

	return r, catalogSvc
}

func testProduct(t *testing.T) model.Product {
	t.Helper()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return model.Product{
		ID:        uuid.MustParse("01977b2c-0000-7000-8000-000000000001"),
		Name:      "Hammer",
		Category:  "Tools",
		Price:     decimal.RequireFromString("10.00"),
		Quantity:  5,
		Code:      "C1",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func doRequest(t *testing.T, r chi.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func TestCreateProduct(t *testing.T) {
	t.Run("Should create product successfully", func(t *testing.T) {
		r, catalogSvc := newTestRouter(t)
		product := testProduct(t)

		catalogSvc.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p service.ProductParams) bool {
			return p.Name == "Hammer" &&
				p.Category == "Tools" &&
				p.Price.Equal(decimal.RequireFromString("10.00")) &&
				p.Quantity == 5 &&
				p.Code == "C1"
		})).Return(product, nil)

		resp := doRequest(t, r, http.MethodPost, "/api/v1/products",
			`{"name":"Hammer","category":"Tools","price":"10.00","quantity":5,"code":"C1"}`)

		assert.Equal(t, http.StatusCreated, resp.Code)
		body := decodeBody(t, resp)
		assert.Equal(t, "Hammer", body["name"])
		assert.Equal(t, "10.00", body["price"])
		catalogSvc.AssertExpectations(t)
	})

	t.Run("Should reject payload with missing fields", func(t *testing.T) {
		r, catalogSvc := newTestRouter(t)

		resp := doRequest(t, r, http.MethodPost, "/api/v1/products",
			`{"category":"Tools","price":"10.00","quantity":5}`)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		body := decodeBody(t, resp)
		assert.Equal(t, "VALIDATION_FAILED", body["code"])
		assert.NotEmpty(t, body["details"])
		catalogSvc.AssertNotCalled(t, "CreateProduct")
	})

	t.Run("Should reject malformed product code", func(t *testing.T) {
		r, catalogSvc := newTestRouter(t)

		resp := doRequest(t, r, http.MethodPost, "/api/v1/products",
			`{"name":"Hammer","category":"Tools","price":"10.00","quantity":5,"code":"-bad"}`)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		catalogSvc.AssertNotCalled(t, "CreateProduct")
	})

	t.Run("Should map duplicate code to conflict", func(t *testing.T) {
		r, catalogSvc := newTestRouter(t)

		catalogSvc.On("CreateProduct", mock.Anything, mock.Anything).
			Return(model.Product{}, apperr.ErrDuplicateProductCode)

		resp := doRequest(t, r, http.MethodPost, "/api/v1/products",
			`{"name":"Hammer","category":"Tools","price":"10.00","quantity":5,"code":"C1"}`)

		assert.Equal(t, http.StatusConflict, resp.Code)
		body := decodeBody(t, resp)
		assert.Equal(t, "DUPLICATE_PRODUCT_CODE", body["code"])
	})
}

func TestGetProduct(t *testing.T) {
	t.Run("Should get product successfully", func(t *testing.T) {
		r, catalogSvc := newTestRouter(t)
		product := testProduct(t)

		catalogSvc.On("GetProduct", mock.Anything, product.ID).Return(product, nil)

		resp := doRequest(t, r, http.MethodGet, "/api/v1/products/"+product.ID.String(), "")

		assert.Equal(t, http.StatusOK, resp.Code)
		body := decodeBody(t, resp)
		assert.Equal(t, product.ID.String(), body["id"])
	})

	t.Run("Should return not found for unknown id", func(t *testing.T) {
		r, catalogSvc := newTestRouter(t)
		id := uuid.New()

		catalogSvc.On("GetProduct", mock.Anything, id).
			Return(model.Product{}, apperr.ErrProductNotFound)

		resp := doRequest(t, r, http.MethodGet, "/api/v1/products/"+id.String(), "")

		assert.Equal(t, http.StatusNotFound, resp.Code)
		body := decodeBody(t, resp)
		assert.Equal(t, "PRODUCT_NOT_FOUND", body["code"])
	})

	t.Run("Should reject malformed id", func(t *testing.T) {
		r, catalogSvc := newTestRouter(t)

		resp := doRequest(t, r, http.MethodGet, "/api/v1/products/not-a-uuid", "")

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		catalogSvc.AssertNotCalled(t, "GetProduct")
	})
}

func TestUpdateProduct(t *testing.T) {
	t.Run("Should update product successfully", func(t *testing.T) {
		r, catalogSvc := newTestRouter(t)
		product := testProduct(t)
		product.Quantity = 9

		catalogSvc.On("UpdateProduct", mock.Anything, product.ID, mock.Anything).Return(product, nil)

		resp := doRequest(t, r, http.MethodPut, "/api/v1/products/"+product.ID.String(),
			`{"name":"Hammer","category":"Tools","price":"10.00","quantity":9,"code":"C1"}`)

		assert.Equal(t, http.StatusOK, resp.Code)
		body := decodeBody(t, resp)
		assert.Equal(t, float64(9), body["quantity"])
	})
}

func TestDeleteProduct(t *testing.T) {
	t.Run("Should delete product successfully", func(t *testing.T) {
		r, catalogSvc := newTestRouter(t)
		id := uuid.New()

		catalogSvc.On("DeleteProduct", mock.Anything, id).Return(nil)

		resp := doRequest(t, r, http.MethodDelete, "/api/v1/products/"+id.String(), "")

		assert.Equal(t, http.StatusNoContent, resp.Code)
		assert.Empty(t, resp.Body.Bytes())
	})

	t.Run("Should return not found when deleting missing id", func(t *testing.T) {
		r, catalogSvc := newTestRouter(t)
		id := uuid.New()

		catalogSvc.On("DeleteProduct", mock.Anything, id).Return(apperr.ErrProductNotFound)

		resp := doRequest(t, r, http.MethodDelete, "/api/v1/products/"+id.String(), "")

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestListProducts(t *testing.T) {
	t.Run("Should list products with filter and sort", func(t *testing.T) {
		r, catalogSvc := newTestRouter(t)
		product := testProduct(t)

		catalogSvc.On("ListProducts", mock.Anything, mock.MatchedBy(func(p service.ListProductsParams) bool {
			return p.Category != nil && *p.Category == "Tools" &&
				p.SortField != nil && *p.SortField == catalog.SortFieldPrice &&
				p.SortDir == catalog.SortDesc
		})).Return([]model.Product{product}, nil)

		resp := doRequest(t, r, http.MethodGet,
			"/api/v1/products?category=Tools&sort_by=price&sort_dir=desc", "")

		assert.Equal(t, http.StatusOK, resp.Code)
		body := decodeBody(t, resp)
		assert.Len(t, body["items"], 1)
	})

	t.Run("Should reject unsupported sort field", func(t *testing.T) {
		r, catalogSvc := newTestRouter(t)

		resp := doRequest(t, r, http.MethodGet, "/api/v1/products?sort_by=color", "")

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		body := decodeBody(t, resp)
		assert.Equal(t, "INVALID_SORT_FIELD", body["code"])
		catalogSvc.AssertNotCalled(t, "ListProducts")
	})
}

func TestSearchProducts(t *testing.T) {
	t.Run("Should search with default paging", func(t *testing.T) {
		r, catalogSvc := newTestRouter(t)
		product := testProduct(t)

		catalogSvc.On("SearchProductsPaged", mock.Anything, "ham", 0, 10).
			Return(catalog.Page{
				Items:      []model.Product{product},
				Number:     0,
				Size:       10,
				TotalItems: 1,
				TotalPages: 1,
			}, nil)

		resp := doRequest(t, r, http.MethodGet, "/api/v1/products/search?keyword=ham", "")

		assert.Equal(t, http.StatusOK, resp.Code)
		body := decodeBody(t, resp)
		assert.Equal(t, float64(1), body["total_items"])
		assert.Equal(t, float64(1), body["total_pages"])
	})

	t.Run("Should reject non-numeric page", func(t *testing.T) {
		r, catalogSvc := newTestRouter(t)

		resp := doRequest(t, r, http.MethodGet, "/api/v1/products/search?keyword=ham&page=x", "")

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		catalogSvc.AssertNotCalled(t, "SearchProductsPaged")
	})

	t.Run("Should map invalid page size", func(t *testing.T) {
		r, catalogSvc := newTestRouter(t)

		catalogSvc.On("SearchProductsPaged", mock.Anything, "ham", 0, -1).
			Return(catalog.Page{}, apperr.ErrInvalidPageSize)

		resp := doRequest(t, r, http.MethodGet, "/api/v1/products/search?keyword=ham&size=-1", "")

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		body := decodeBody(t, resp)
		assert.Equal(t, "INVALID_PAGE_SIZE", body["code"])
	})
}

func TestAdvancedSearch(t *testing.T) {
	t.Run("Should combine provided criteria", func(t *testing.T) {
		r, catalogSvc := newTestRouter(t)
		product := testProduct(t)

		catalogSvc.On("AdvancedSearch", mock.Anything, mock.MatchedBy(func(c catalog.Criteria) bool {
			return c.Name != nil && *c.Name == "ham" &&
				c.Category == nil &&
				c.MinPrice != nil && c.MinPrice.Equal(decimal.RequireFromString("5.00")) &&
				c.MaxPrice != nil && c.MaxPrice.Equal(decimal.RequireFromString("20.00"))
		})).Return([]model.Product{product}, nil)

		resp := doRequest(t, r, http.MethodGet,
			"/api/v1/products/advanced-search?name=ham&min_price=5.00&max_price=20.00", "")

		assert.Equal(t, http.StatusOK, resp.Code)
		body := decodeBody(t, resp)
		assert.Len(t, body["items"], 1)
	})

	t.Run("Should reject malformed price", func(t *testing.T) {
		r, catalogSvc := newTestRouter(t)

		resp := doRequest(t, r, http.MethodGet, "/api/v1/products/advanced-search?min_price=abc", "")

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		body := decodeBody(t, resp)
		assert.Equal(t, "INVALID_PRICE", body["code"])
		catalogSvc.AssertNotCalled(t, "AdvancedSearch")
	})
}

func TestListCategories(t *testing.T) {
	r, catalogSvc := newTestRouter(t)

	catalogSvc.On("ListCategories", mock.Anything).Return([]string{"Electronics", "Tools"}, nil)

	resp := doRequest(t, r, http.MethodGet, "/api/v1/categories", "")

	assert.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, []any{"Electronics", "Tools"}, body["items"])
}

func TestDashboard(t *testing.T) {
	t.Run("Should render summary with fixed point money", func(t *testing.T) {
		r, catalogSvc := newTestRouter(t)
		product := testProduct(t)

		catalogSvc.On("Dashboard", mock.Anything, 10, 5).Return(service.DashboardSummary{
			TotalProducts:       3,
			Categories:          []string{"Electronics", "Tools"},
			ProductsByCategory:  map[string]int{"Electronics": 1, "Tools": 2},
			TotalInventoryValue: decimal.RequireFromString("126.50"),
			AveragePrice:        decimal.RequireFromString("45.163333333333333"),
			LowStockThreshold:   10,
			LowStockProducts:    []model.Product{product},
			RecentProducts:      []model.Product{product},
		}, nil)

		resp := doRequest(t, r, http.MethodGet, "/api/v1/dashboard", "")

		assert.Equal(t, http.StatusOK, resp.Code)
		body := decodeBody(t, resp)
		assert.Equal(t, "126.50", body["total_inventory_value"])
		assert.Equal(t, "45.16", body["average_price"])
		assert.Equal(t, float64(3), body["total_products"])
	})

	t.Run("Should pass custom threshold and limit", func(t *testing.T) {
		r, catalogSvc := newTestRouter(t)

		catalogSvc.On("Dashboard", mock.Anything, 4, 2).Return(service.DashboardSummary{
			ProductsByCategory: map[string]int{},
		}, nil)

		resp := doRequest(t, r, http.MethodGet,
			"/api/v1/dashboard?low_stock_threshold=4&recent_limit=2", "")

		assert.Equal(t, http.StatusOK, resp.Code)
		catalogSvc.AssertExpectations(t)
	})
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := doRequest(t, r, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, "ok", body["status"])
}
