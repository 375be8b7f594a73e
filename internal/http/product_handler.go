package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/catalog"
	"github.com/tuanvumaihuynh/product-catalog/internal/service"
	"github.com/tuanvumaihuynh/product-catalog/pkg/ptr"
)

const (
	defaultSearchPageSize = 10
)

func (s *Service) createProduct(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeProductRequest(w, r)
	if !ok {
		return
	}

	product, err := s.catalogSvc.CreateProduct(r.Context(), req.toParams())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusCreated, newProductResponse(product))
}

func (s *Service) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := s.productIDParam(w, r)
	if !ok {
		return
	}

	product, err := s.catalogSvc.GetProduct(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusOK, newProductResponse(product))
}

func (s *Service) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := s.productIDParam(w, r)
	if !ok {
		return
	}

	req, ok := s.decodeProductRequest(w, r)
	if !ok {
		return
	}

	product, err := s.catalogSvc.UpdateProduct(r.Context(), id, req.toParams())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusOK, newProductResponse(product))
}

func (s *Service) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := s.productIDParam(w, r)
	if !ok {
		return
	}

	if err := s.catalogSvc.DeleteProduct(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusNoContent, nil)
}

func (s *Service) listProducts(w http.ResponseWriter, r *http.Request) {
	params := service.ListProductsParams{}

	if category := r.URL.Query().Get("category"); category != "" {
		params.Category = ptr.New(category)
	}

	if sortBy := r.URL.Query().Get("sort_by"); sortBy != "" {
		field, err := catalog.ParseSortField(sortBy)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		params.SortField = ptr.New(field)
	}

	sortDir, err := catalog.ParseSortDirection(r.URL.Query().Get("sort_dir"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	params.SortDir = sortDir

	products, err := s.catalogSvc.ListProducts(r.Context(), params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusOK, productsResponse{Items: newProductResponses(products)})
}

func (s *Service) searchProducts(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")

	page, ok := s.intQueryParam(w, r, "page", 0)
	if !ok {
		return
	}
	size, ok := s.intQueryParam(w, r, "size", defaultSearchPageSize)
	if !ok {
		return
	}

	result, err := s.catalogSvc.SearchProductsPaged(r.Context(), keyword, page, size)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusOK, newPagedProductsResponse(result))
}

func (s *Service) advancedSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := catalog.Criteria{}

	if name := q.Get("name"); name != "" {
		criteria.Name = ptr.New(name)
	}
	if category := q.Get("category"); category != "" {
		criteria.Category = ptr.New(category)
	}

	minPrice, ok := s.priceQueryParam(w, r, "min_price")
	if !ok {
		return
	}
	criteria.MinPrice = minPrice

	maxPrice, ok := s.priceQueryParam(w, r, "max_price")
	if !ok {
		return
	}
	criteria.MaxPrice = maxPrice

	products, err := s.catalogSvc.AdvancedSearch(r.Context(), criteria)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusOK, productsResponse{Items: newProductResponses(products)})
}

func (s *Service) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalogSvc.ListCategories(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusOK, categoriesResponse{Items: categories})
}

func (s *Service) decodeProductRequest(w http.ResponseWriter, r *http.Request) (productRequest, bool) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, apperr.ValidationErr.WrapParent(err))
		return productRequest{}, false
	}

	if err := s.validator.Validate(req); err != nil {
		s.respondError(w, r, err)
		return productRequest{}, false
	}

	return req, true
}

func (s *Service) productIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		s.respondError(w, r, apperr.ValidationErr.WrapParent(err))
		return uuid.Nil, false
	}
	return id, true
}

func (s *Service) intQueryParam(w http.ResponseWriter, r *http.Request, name string, defaultValue int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		s.respondError(w, r, apperr.ValidationErr.WrapParent(err))
		return 0, false
	}
	return value, true
}

func (s *Service) priceQueryParam(w http.ResponseWriter, r *http.Request, name string) (*decimal.Decimal, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		s.respondError(w, r, apperr.ErrInvalidPrice.WrapParent(err))
		return nil, false
	}
	return &value, true
}
