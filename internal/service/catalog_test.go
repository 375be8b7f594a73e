package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
	"github.com/tuanvumaihuynh/product-catalog/internal/event"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/repository"
	"github.com/tuanvumaihuynh/product-catalog/internal/repository/mocks"
	"github.com/tuanvumaihuynh/product-catalog/internal/service"
	"github.com/tuanvumaihuynh/product-catalog/pkg/ptr"
	"github.com/tuanvumaihuynh/product-catalog/pkg/zerror"
)

func newService(t *testing.T) (service.CatalogService, *mocks.MockProductRepository, *mocks.MockOutboxMsgRepository) {
	t.Helper()

	productRepo := new(mocks.MockProductRepository)
	outboxRepo := new(mocks.MockOutboxMsgRepository)
	svc := service.NewCatalogService(&mocks.FakeDB{}, productRepo, outboxRepo)

	return svc, productRepo, outboxRepo
}

func validParams() service.ProductParams {
	return service.ProductParams{
		Name:     "Hammer",
		Category: "Tools",
		Price:    decimal.RequireFromString("10.00"),
		Quantity: 5,
		Code:     "C1",
	}
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()

	var zErr zerror.ZError
	require.True(t, errors.As(err, &zErr), "expected a coded error, got %v", err)
	assert.Equal(t, code, zErr.Code())
}

func outboxMsgForTopic(topic string) any {
	return mock.MatchedBy(func(params repository.CreateOutboxMsgParams) bool {
		return params.Topic == topic
	})
}

func TestCatalogService_CreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create product and write outbox message", func(t *testing.T) {
		svc, productRepo, outboxRepo := newService(t)

		productRepo.On("CreateProduct", ctx, mock.MatchedBy(func(p model.Product) bool {
			return p.ID != uuid.Nil &&
				p.Name == "Hammer" &&
				p.Category == "Tools" &&
				p.Price.Equal(decimal.RequireFromString("10.00")) &&
				p.Quantity == 5 &&
				p.Code == "C1" &&
				!p.CreatedAt.IsZero()
		})).Return(nil).Once()
		outboxRepo.On("CreateOutboxMsg", ctx, outboxMsgForTopic(event.TopicProductCreated)).
			Return(nil).Once()

		product, err := svc.CreateProduct(ctx, validParams())
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, product.ID)
		assert.Equal(t, "Hammer", product.Name)
		assert.Equal(t, product.CreatedAt, product.UpdatedAt)

		productRepo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("Should propagate duplicate code error", func(t *testing.T) {
		svc, productRepo, outboxRepo := newService(t)

		productRepo.On("CreateProduct", ctx, mock.Anything).
			Return(apperr.ErrDuplicateProductCode).Once()

		_, err := svc.CreateProduct(ctx, validParams())
		assertErrorCode(t, err, apperr.DuplicateProductCodeCode)

		outboxRepo.AssertNotCalled(t, "CreateOutboxMsg", mock.Anything, mock.Anything)
	})

	t.Run("Should reject negative price without touching the store", func(t *testing.T) {
		svc, productRepo, _ := newService(t)

		params := validParams()
		params.Price = decimal.RequireFromString("-1.00")

		_, err := svc.CreateProduct(ctx, params)
		assertErrorCode(t, err, apperr.InvalidPriceCode)

		productRepo.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("Should reject price with more than 2 fractional digits", func(t *testing.T) {
		svc, _, _ := newService(t)

		params := validParams()
		params.Price = decimal.RequireFromString("9.999")

		_, err := svc.CreateProduct(ctx, params)
		assertErrorCode(t, err, apperr.InvalidPriceCode)
	})
}

func TestCatalogService_UpdateProduct(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	id := uuid.New()

	existing := &model.Product{
		ID:        id,
		Name:      "Hammer",
		Category:  "Tools",
		Price:     decimal.RequireFromString("10.00"),
		Quantity:  5,
		Code:      "C1",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	t.Run("Should preserve id and created_at", func(t *testing.T) {
		svc, productRepo, outboxRepo := newService(t)

		productRepo.On("GetProductByID", ctx, id).Return(existing, nil).Once()
		productRepo.On("UpdateProduct", ctx, mock.MatchedBy(func(p model.Product) bool {
			return p.ID == id &&
				p.CreatedAt.Equal(createdAt) &&
				p.Name == "Sledgehammer" &&
				p.UpdatedAt.After(createdAt)
		})).Return(nil).Once()
		outboxRepo.On("CreateOutboxMsg", ctx, outboxMsgForTopic(event.TopicProductUpdated)).
			Return(nil).Once()

		params := validParams()
		params.Name = "Sledgehammer"

		product, err := svc.UpdateProduct(ctx, id, params)
		require.NoError(t, err)

		assert.Equal(t, id, product.ID)
		assert.True(t, product.CreatedAt.Equal(createdAt))

		productRepo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("Should return not found for missing id", func(t *testing.T) {
		svc, productRepo, _ := newService(t)

		productRepo.On("GetProductByID", ctx, id).Return(nil, nil).Once()

		_, err := svc.UpdateProduct(ctx, id, validParams())
		assertErrorCode(t, err, apperr.ProductNotFoundCode)

		productRepo.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything)
	})

	t.Run("Should propagate duplicate code error", func(t *testing.T) {
		svc, productRepo, _ := newService(t)

		productRepo.On("GetProductByID", ctx, id).Return(existing, nil).Once()
		productRepo.On("UpdateProduct", ctx, mock.Anything).
			Return(apperr.ErrDuplicateProductCode).Once()

		_, err := svc.UpdateProduct(ctx, id, validParams())
		assertErrorCode(t, err, apperr.DuplicateProductCodeCode)
	})
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	existing := &model.Product{
		ID:   id,
		Code: "C1",
	}

	t.Run("Should delete and write outbox message", func(t *testing.T) {
		svc, productRepo, outboxRepo := newService(t)

		productRepo.On("GetProductByID", ctx, id).Return(existing, nil).Once()
		productRepo.On("DeleteProduct", ctx, id).Return(nil).Once()
		outboxRepo.On("CreateOutboxMsg", ctx, outboxMsgForTopic(event.TopicProductDeleted)).
			Return(nil).Once()

		err := svc.DeleteProduct(ctx, id)
		require.NoError(t, err)

		productRepo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("Should return not found for missing id", func(t *testing.T) {
		svc, productRepo, _ := newService(t)

		productRepo.On("GetProductByID", ctx, id).Return(nil, nil).Once()

		err := svc.DeleteProduct(ctx, id)
		assertErrorCode(t, err, apperr.ProductNotFoundCode)

		productRepo.AssertNotCalled(t, "DeleteProduct", mock.Anything, mock.Anything)
	})
}

func TestCatalogService_GetProduct(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("Should return stored product", func(t *testing.T) {
		svc, productRepo, _ := newService(t)

		stored := &model.Product{ID: id, Name: "Hammer"}
		productRepo.On("GetProductByID", ctx, id).Return(stored, nil).Once()

		product, err := svc.GetProduct(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, *stored, product)
	})

	t.Run("Should return not found when absent", func(t *testing.T) {
		svc, productRepo, _ := newService(t)

		productRepo.On("GetProductByID", ctx, id).Return(nil, nil).Once()

		_, err := svc.GetProduct(ctx, id)
		assertErrorCode(t, err, apperr.ProductNotFoundCode)
	})
}

func snapshotFixture() []model.Product {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []model.Product{
		{ID: uuid.New(), Name: "Hammer", Category: "Tools", Price: decimal.RequireFromString("10.00"), Quantity: 5, Code: "C1", CreatedAt: base},
		{ID: uuid.New(), Name: "Wrench Set", Category: "Tools", Price: decimal.RequireFromString("25.50"), Quantity: 3, Code: "C2", CreatedAt: base.Add(time.Minute)},
		{ID: uuid.New(), Name: "Soldering Iron", Category: "Electronics", Price: decimal.RequireFromString("99.99"), Quantity: 0, Code: "C3", CreatedAt: base.Add(2 * time.Minute)},
	}
}

func TestCatalogService_ListProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("Should filter by category and sort", func(t *testing.T) {
		svc, productRepo, _ := newService(t)
		productRepo.On("ListAllProducts", ctx).Return(snapshotFixture(), nil).Once()

		products, err := svc.ListProducts(ctx, service.ListProductsParams{
			Category:  ptr.New("Tools"),
			SortField: ptr.New(catalog.SortFieldPrice),
			SortDir:   catalog.SortDesc,
		})
		require.NoError(t, err)

		require.Len(t, products, 2)
		assert.Equal(t, "C2", products[0].Code)
		assert.Equal(t, "C1", products[1].Code)
	})

	t.Run("Should reject unsupported sort field", func(t *testing.T) {
		svc, productRepo, _ := newService(t)
		productRepo.On("ListAllProducts", ctx).Return(snapshotFixture(), nil).Once()

		_, err := svc.ListProducts(ctx, service.ListProductsParams{
			SortField: ptr.New(catalog.SortField("weight")),
		})
		assertErrorCode(t, err, apperr.InvalidSortFieldCode)
	})

	t.Run("Should return snapshot order without filters", func(t *testing.T) {
		svc, productRepo, _ := newService(t)
		productRepo.On("ListAllProducts", ctx).Return(snapshotFixture(), nil).Once()

		products, err := svc.ListProducts(ctx, service.ListProductsParams{})
		require.NoError(t, err)
		assert.Len(t, products, 3)
	})
}

func TestCatalogService_SearchProductsPaged(t *testing.T) {
	ctx := context.Background()
	svc, productRepo, _ := newService(t)

	productRepo.On("ListAllProducts", ctx).Return(snapshotFixture(), nil).Once()

	page, err := svc.SearchProductsPaged(ctx, "e", 0, 2)
	require.NoError(t, err)

	// all three fixture names contain "e", so size 2 splits them over 2 pages
	assert.Equal(t, 3, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 2)
}

func TestCatalogService_Dashboard(t *testing.T) {
	ctx := context.Background()
	svc, productRepo, _ := newService(t)

	productRepo.On("ListAllProducts", ctx).Return(snapshotFixture(), nil).Once()

	summary, err := svc.Dashboard(ctx, 4, 2)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalProducts)
	assert.Equal(t, []string{"Electronics", "Tools"}, summary.Categories)
	assert.Equal(t, map[string]int{"Electronics": 1, "Tools": 2}, summary.ProductsByCategory)
	assert.True(t, summary.TotalInventoryValue.Equal(decimal.RequireFromString("126.50")),
		"expected 126.50, got %s", summary.TotalInventoryValue)
	assert.Equal(t, "45.16", catalog.RoundMoney(summary.AveragePrice).StringFixed(2))

	require.Len(t, summary.LowStockProducts, 2)
	assert.Equal(t, "C2", summary.LowStockProducts[0].Code)
	assert.Equal(t, "C3", summary.LowStockProducts[1].Code)

	require.Len(t, summary.RecentProducts, 2)
	assert.Equal(t, "C3", summary.RecentProducts[0].Code)
	assert.Equal(t, "C2", summary.RecentProducts[1].Code)
}
