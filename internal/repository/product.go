package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/model"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
)

const uniqueViolationCode = "23505"

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	CreateProduct(ctx context.Context, product model.Product) error
	UpdateProduct(ctx context.Context, product model.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListAllProducts(ctx context.Context) ([]model.Product, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) error {
	price, err := decimalToNumeric(product.Price)
	if err != nil {
		return fmt.Errorf("convert price: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO products (id, name, category, price, quantity, code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, product.ID, product.Name, product.Category, price,
		product.Quantity, product.Code, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.ErrDuplicateProductCode.WrapParent(err)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// UpdateProduct replaces every mutable field. The statement never touches
// id or created_at, which keeps both immutable by construction.
func (r productRepository) UpdateProduct(ctx context.Context, product model.Product) error {
	price, err := decimalToNumeric(product.Price)
	if err != nil {
		return fmt.Errorf("convert price: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = $2, category = $3, price = $4, quantity = $5, code = $6, updated_at = $7
		WHERE id = $1
	`, product.ID, product.Name, product.Category, price,
		product.Quantity, product.Code, product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.ErrDuplicateProductCode.WrapParent(err)
		}
		return fmt.Errorf("update product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.ErrProductNotFound
	}

	return nil
}

func (r productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.ErrProductNotFound
	}

	return nil
}

// GetProductByID returns (nil, nil) when no product has the given id.
func (r productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, category, price, quantity, code, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id)

	product, err := scanProduct(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}

	return &product, nil
}

// ListAllProducts returns the whole collection in insertion order
// (created_at, then id; ids are UUIDv7 so the tiebreak follows creation).
func (r productRepository) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, category, price, quantity, code, created_at, updated_at
		FROM products
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

func scanProduct(scan func(dest ...any) error) (model.Product, error) {
	var (
		product model.Product
		price   pgtype.Numeric
	)
	if err := scan(
		&product.ID, &product.Name, &product.Category, &price,
		&product.Quantity, &product.Code, &product.CreatedAt, &product.UpdatedAt,
	); err != nil {
		return model.Product{}, err
	}

	d, err := numericToDecimal(price)
	if err != nil {
		return model.Product{}, fmt.Errorf("convert price: %w", err)
	}
	product.Price = d

	return product, nil
}

func decimalToNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, fmt.Errorf("scan decimal %q: %w", d.String(), err)
	}
	return n, nil
}

func numericToDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid || n.NaN || n.Int == nil {
		return decimal.Decimal{}, fmt.Errorf("numeric value is not a finite number")
	}
	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
