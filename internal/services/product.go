package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/furstore/fur-store-backend/internal/cache"
	appErrors "github.com/furstore/fur-store-backend/internal/errors"
	"github.com/furstore/fur-store-backend/internal/metrics"
	"github.com/furstore/fur-store-backend/internal/models"
	repository "github.com/furstore/fur-store-backend/internal/repositories"
	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
)

type ProductService interface {
	ListProducts(ctx context.Context, filter *models.ListProductsRequest) ([]models.ProductSummary, error)
	GetProductByID(ctx context.Context, id int64, minPrice, maxPrice *decimal.Decimal) (*models.Product, error)
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error)
}

type productService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cache        cache.Cache
	sanitizer    *bluemonday.Policy
}

func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository, productCache cache.Cache) ProductService {
	return &productService{
		repo:         repo,
		categoryRepo: categoryRepo,
		cache:        productCache,
		sanitizer:    bluemonday.StrictPolicy(),
	}
}

// ListProducts applies the conjunctive filter and returns lightweight
// summaries. No pagination or ordering is guaranteed.
func (s *productService) ListProducts(ctx context.Context, filter *models.ListProductsRequest) ([]models.ProductSummary, error) {

	products, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch products").WithError(err)
	}

	summaries := make([]models.ProductSummary, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, p.Summary())
	}

	return summaries, nil
}

// GetProductByID returns the product, rejecting it with a range violation
// when its price falls outside a caller-supplied bound.
func (s *productService) GetProductByID(ctx context.Context, id int64, minPrice, maxPrice *decimal.Decimal) (*models.Product, error) {

	product, err := s.lookupProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if minPrice != nil && product.Price.LessThan(*minPrice) {
		return nil, appErrors.RangeViolationError("Product price is below the specified minimum")
	}

	if maxPrice != nil && product.Price.GreaterThan(*maxPrice) {
		return nil, appErrors.RangeViolationError("Product price is above the specified maximum")
	}

	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	if req.Price.IsNegative() {
		return nil, appErrors.ValidationError("Price must not be negative")
	}

	if _, err := s.categoryRepo.GetCategoryByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Category not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch category").WithError(err)
	}

	product := &models.Product{
		CategoryID:      req.CategoryID,
		Name:            s.sanitizer.Sanitize(req.Name),
		Description:     s.sanitizer.Sanitize(req.Description),
		Image:           req.Image,
		Price:           req.Price,
		Characteristics: req.Characteristics,
	}

	if product.Characteristics == nil {
		product.Characteristics = models.Characteristics{}
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, appErrors.DatabaseError("Failed to create product").WithError(err)
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.lookupProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetCategoryByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.NotFoundError("Category not found").WithError(err)
			}
			return nil, appErrors.DatabaseError("Failed to fetch category").WithError(err)
		}
		product.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		product.Name = s.sanitizer.Sanitize(*req.Name)
	}
	if req.Description != nil {
		product.Description = s.sanitizer.Sanitize(*req.Description)
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, appErrors.ValidationError("Price must not be negative")
		}
		product.Price = *req.Price
	}
	if req.Characteristics != nil {
		product.Characteristics = req.Characteristics
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to update product").WithError(err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, cache.ProductKey(id)); err != nil {
			slog.Warn("Failed to invalidate product cache",
				slog.Int64("productId", id),
				slog.String("error", err.Error()))
		}
	}

	return product, nil
}

// lookupProduct consults the cache before the database and backfills it on
// a miss. Cache failures degrade to a plain database read.
func (s *productService) lookupProduct(ctx context.Context, id int64) (*models.Product, error) {

	if s.cache != nil {
		cached := &models.Product{}

		hit, err := s.cache.Get(ctx, cache.ProductKey(id), cached)
		if err != nil {
			slog.Warn("Product cache read failed",
				slog.Int64("productId", id),
				slog.String("error", err.Error()))
		} else if hit {
			metrics.CacheLookup(true)
			return cached, nil
		}
		metrics.CacheLookup(false)
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.ProductKey(id), product, 0); err != nil {
			slog.Warn("Product cache write failed",
				slog.Int64("productId", id),
				slog.String("error", err.Error()))
		}
	}

	return product, nil
}
