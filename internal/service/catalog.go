package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
	"github.com/tuanvumaihuynh/product-catalog/internal/event"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/repository"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/product-catalog/pkg/outbox"
	"github.com/tuanvumaihuynh/product-catalog/pkg/ptr"
)

type ProductParams struct {
	Name     string
	Category string
	Price    decimal.Decimal
	Quantity int
	Code     string
}

type ListProductsParams struct {
	Category  *string
	SortField *catalog.SortField
	SortDir   catalog.SortDirection
}

type DashboardSummary struct {
	TotalProducts       int
	Categories          []string
	ProductsByCategory  map[string]int
	TotalInventoryValue decimal.Decimal
	AveragePrice        decimal.Decimal
	LowStockThreshold   int
	LowStockProducts    []model.Product
	RecentProducts      []model.Product
}

type CatalogService interface {
	CreateProduct(ctx context.Context, params ProductParams) (model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, params ProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error)
	SearchProducts(ctx context.Context, keyword string) ([]model.Product, error)
	SearchProductsPaged(ctx context.Context, keyword string, page, size int) (catalog.Page, error)
	AdvancedSearch(ctx context.Context, criteria catalog.Criteria) ([]model.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	Dashboard(ctx context.Context, lowStockThreshold, recentLimit int) (DashboardSummary, error)
}

type catalogService struct {
	db            db.DB
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewCatalogService(
	db db.DB,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) CatalogService {
	return &catalogService{
		db:            db,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, params ProductParams) (model.Product, error) {
	if err := validateParams(params); err != nil {
		return model.Product{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := time.Now().UTC()
	product := model.Product{
		ID:        id,
		Name:      params.Name,
		Category:  params.Category,
		Price:     params.Price,
		Quantity:  params.Quantity,
		Code:      params.Code,
		CreatedAt: now,
		UpdatedAt: now,
	}

	evBytes, err := json.Marshal(event.ProductCreatedEvent{
		ProductID: product.ID.String(),
		Name:      product.Name,
		Category:  product.Category,
		Price:     product.Price,
		Quantity:  product.Quantity,
		Code:      product.Code,
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("marshal event: %w", err)
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.productRepo.
			WithDB(db).
			CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("product repository create product: %w", err)
		}

		if err := s.outboxMsgRepo.
			WithDB(db).
			CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
				Topic:        event.TopicProductCreated,
				Headers:      outbox.BuildHeaders(ctx),
				Payload:      evBytes,
				PartitionKey: ptr.New(product.ID.String()),
			}); err != nil {
			return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
		}

		return nil
	}); err != nil {
		return model.Product{}, err
	}

	return product, nil
}

// UpdateProduct replaces every field of an existing product except ID and
// CreatedAt, which stay as they were assigned at creation.
func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, params ProductParams) (model.Product, error) {
	if err := validateParams(params); err != nil {
		return model.Product{}, err
	}

	var product model.Product
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		existing, err := s.productRepo.WithDB(db).GetProductByID(ctx, id)
		if err != nil {
			return fmt.Errorf("product repository get product: %w", err)
		}
		if existing == nil {
			return apperr.ErrProductNotFound
		}

		product = model.Product{
			ID:        existing.ID,
			Name:      params.Name,
			Category:  params.Category,
			Price:     params.Price,
			Quantity:  params.Quantity,
			Code:      params.Code,
			CreatedAt: existing.CreatedAt,
			UpdatedAt: time.Now().UTC(),
		}

		if err := s.productRepo.WithDB(db).UpdateProduct(ctx, product); err != nil {
			return fmt.Errorf("product repository update product: %w", err)
		}

		evBytes, err := json.Marshal(event.ProductUpdatedEvent{
			ProductID: product.ID.String(),
			Name:      product.Name,
			Category:  product.Category,
			Price:     product.Price,
			Quantity:  product.Quantity,
			Code:      product.Code,
		})
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}

		if err := s.outboxMsgRepo.
			WithDB(db).
			CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
				Topic:        event.TopicProductUpdated,
				Headers:      outbox.BuildHeaders(ctx),
				Payload:      evBytes,
				PartitionKey: ptr.New(product.ID.String()),
			}); err != nil {
			return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
		}

		return nil
	}); err != nil {
		return model.Product{}, err
	}

	return product, nil
}

// DeleteProduct removes a product. Deleting an id that does not exist
// returns apperr.ErrProductNotFound rather than silently succeeding.
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.db.WithTx(ctx, func(db db.DB) error {
		existing, err := s.productRepo.WithDB(db).GetProductByID(ctx, id)
		if err != nil {
			return fmt.Errorf("product repository get product: %w", err)
		}
		if existing == nil {
			return apperr.ErrProductNotFound
		}

		if err := s.productRepo.WithDB(db).DeleteProduct(ctx, id); err != nil {
			return fmt.Errorf("product repository delete product: %w", err)
		}

		evBytes, err := json.Marshal(event.ProductDeletedEvent{
			ProductID: existing.ID.String(),
			Code:      existing.Code,
		})
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}

		if err := s.outboxMsgRepo.
			WithDB(db).
			CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
				Topic:        event.TopicProductDeleted,
				Headers:      outbox.BuildHeaders(ctx),
				Payload:      evBytes,
				PartitionKey: ptr.New(existing.ID.String()),
			}); err != nil {
			return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
		}

		return nil
	})
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository get product: %w", err)
	}
	if product == nil {
		return model.Product{}, apperr.ErrProductNotFound
	}

	return *product, nil
}

func (s *catalogService) ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error) {
	products, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if params.Category != nil && *params.Category != "" {
		products = catalog.FilterByCategory(products, *params.Category)
	}

	if params.SortField != nil {
		dir := params.SortDir
		if dir == "" {
			dir = catalog.SortAsc
		}
		products, err = catalog.SortProducts(products, *params.SortField, dir)
		if err != nil {
			return nil, err
		}
	}

	return products, nil
}

func (s *catalogService) SearchProducts(ctx context.Context, keyword string) ([]model.Product, error) {
	products, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return catalog.SearchByName(products, keyword), nil
}

func (s *catalogService) SearchProductsPaged(ctx context.Context, keyword string, page, size int) (catalog.Page, error) {
	products, err := s.snapshot(ctx)
	if err != nil {
		return catalog.Page{}, err
	}

	return catalog.SearchByNamePaged(products, keyword, page, size)
}

func (s *catalogService) AdvancedSearch(ctx context.Context, criteria catalog.Criteria) ([]model.Product, error) {
	products, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return catalog.Search(products, criteria), nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]string, error) {
	products, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return catalog.Categories(products), nil
}

// Dashboard computes every aggregate over one snapshot, so the numbers it
// reports are mutually consistent even while writes are happening.
func (s *catalogService) Dashboard(ctx context.Context, lowStockThreshold, recentLimit int) (DashboardSummary, error) {
	products, err := s.snapshot(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}

	categories := catalog.Categories(products)
	byCategory := make(map[string]int, len(categories))
	for _, category := range categories {
		byCategory[category] = catalog.CountByCategory(products, category)
	}

	return DashboardSummary{
		TotalProducts:       len(products),
		Categories:          categories,
		ProductsByCategory:  byCategory,
		TotalInventoryValue: catalog.TotalInventoryValue(products),
		AveragePrice:        catalog.AveragePrice(products),
		LowStockThreshold:   lowStockThreshold,
		LowStockProducts:    catalog.LowStock(products, lowStockThreshold),
		RecentProducts:      catalog.Recent(products, recentLimit),
	}, nil
}

func (s *catalogService) snapshot(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.ListAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("product repository list all products: %w", err)
	}
	return products, nil
}

func validateParams(params ProductParams) error {
	if params.Price.IsNegative() || params.Price.Exponent() < -2 {
		return apperr.ErrInvalidPrice
	}
	if params.Quantity < 0 {
		return apperr.ValidationErr
	}
	return nil
}
