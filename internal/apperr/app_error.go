package apperr

import "github.com/tuanvumaihuynh/product-catalog/pkg/zerror"

const (
	ValidationErrorCode      = "VALIDATION_FAILED"
	ProductNotFoundCode      = "PRODUCT_NOT_FOUND"
	DuplicateProductCodeCode = "DUPLICATE_PRODUCT_CODE"
	InvalidSortFieldCode     = "INVALID_SORT_FIELD"
	InvalidSortDirectionCode = "INVALID_SORT_DIRECTION"
	InvalidPageSizeCode      = "INVALID_PAGE_SIZE"
	InvalidPageNumberCode    = "INVALID_PAGE_NUMBER"
	InvalidPriceCode         = "INVALID_PRICE"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	// ErrProductNotFound is returned when a referenced product id does not exist.
	// Deleting a missing id also returns this error rather than silently
	// succeeding, so callers can always tell whether a mutation took effect.
	ErrProductNotFound = zerror.NewNotFound(ProductNotFoundCode, "product not found")

	// ErrDuplicateProductCode is returned when a create or update would give
	// two products the same code.
	ErrDuplicateProductCode = zerror.NewConflict(DuplicateProductCodeCode, "product code already exists")

	ErrInvalidSortField     = zerror.NewBadRequest(InvalidSortFieldCode, "unsupported sort field")
	ErrInvalidSortDirection = zerror.NewBadRequest(InvalidSortDirectionCode, "sort direction must be asc or desc")
	ErrInvalidPageSize      = zerror.NewBadRequest(InvalidPageSizeCode, "page size must be positive")
	ErrInvalidPageNumber    = zerror.NewBadRequest(InvalidPageNumberCode, "page number must not be negative")
	ErrInvalidPrice         = zerror.NewBadRequest(InvalidPriceCode, "price must be a non-negative decimal with at most 2 fractional digits")
)
