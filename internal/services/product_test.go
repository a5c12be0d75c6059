package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/furstore/fur-store-backend/internal/cache"
	appErrors "github.com/furstore/fur-store-backend/internal/errors"
	"github.com/furstore/fur-store-backend/internal/models"
	repoMocks "github.com/furstore/fur-store-backend/internal/repositories/mocks"
	service "github.com/furstore/fur-store-backend/internal/services"
	svcMocks "github.com/furstore/fur-store-backend/internal/services/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupProductServiceTest() (service.ProductService, *repoMocks.ProductRepository, *repoMocks.CategoryRepository, *svcMocks.Cache) {
	productRepo := new(repoMocks.ProductRepository)
	categoryRepo := new(repoMocks.CategoryRepository)
	productCache := new(svcMocks.Cache)

	return service.NewProductService(productRepo, categoryRepo, productCache), productRepo, categoryRepo, productCache
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)

	return &d
}

func TestGetProductByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Price Within Bounds", func(t *testing.T) {
		// Arrange
		productService, productRepo, _, productCache := setupProductServiceTest()
		product := &models.Product{ID: 1, Name: "Mink coat", Price: decimal.RequireFromString("499.99")}

		productCache.On("Get", ctx, cache.ProductKey(1), mock.Anything).Return(false, nil).Once()
		productRepo.On("GetProductByID", ctx, int64(1)).Return(product, nil).Once()
		productCache.On("Set", ctx, cache.ProductKey(1), product, mock.Anything).Return(nil).Once()

		// Act
		result, err := productService.GetProductByID(ctx, 1, decimalPtr("100"), decimalPtr("500"))

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, product, result)
		productRepo.AssertExpectations(t)
		productCache.AssertExpectations(t)
	})

	t.Run("Failure - Price Below Minimum", func(t *testing.T) {
		// Arrange
		productService, productRepo, _, productCache := setupProductServiceTest()
		product := &models.Product{ID: 1, Price: decimal.RequireFromString("49.99")}

		productCache.On("Get", ctx, cache.ProductKey(1), mock.Anything).Return(false, nil).Once()
		productRepo.On("GetProductByID", ctx, int64(1)).Return(product, nil).Once()
		productCache.On("Set", ctx, cache.ProductKey(1), product, mock.Anything).Return(nil).Once()

		// Act
		result, err := productService.GetProductByID(ctx, 1, decimalPtr("100"), nil)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, result)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeRangeViolation, appErr.Code)
		assert.Equal(t, 400, appErr.StatusCode)
	})

	t.Run("Failure - Price Above Maximum", func(t *testing.T) {
		// Arrange
		productService, productRepo, _, productCache := setupProductServiceTest()
		product := &models.Product{ID: 1, Price: decimal.RequireFromString("999.00")}

		productCache.On("Get", ctx, cache.ProductKey(1), mock.Anything).Return(false, nil).Once()
		productRepo.On("GetProductByID", ctx, int64(1)).Return(product, nil).Once()
		productCache.On("Set", ctx, cache.ProductKey(1), product, mock.Anything).Return(nil).Once()

		// Act
		result, err := productService.GetProductByID(ctx, 1, nil, decimalPtr("500"))

		// Assert
		assert.Error(t, err)
		assert.Nil(t, result)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeRangeViolation, appErr.Code)
	})

	t.Run("Success - Cache Hit Skips Database", func(t *testing.T) {
		// Arrange
		productService, productRepo, _, productCache := setupProductServiceTest()

		productCache.On("Get", ctx, cache.ProductKey(1), mock.Anything).Return(true, nil).Once()

		// Act
		_, err := productService.GetProductByID(ctx, 1, nil, nil)

		// Assert
		assert.NoError(t, err)
		productRepo.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything)
		productCache.AssertExpectations(t)
	})

	t.Run("Success - Cache Failure Degrades To Database", func(t *testing.T) {
		// Arrange
		productService, productRepo, _, productCache := setupProductServiceTest()
		product := &models.Product{ID: 1, Price: decimal.RequireFromString("10.00")}

		productCache.On("Get", ctx, cache.ProductKey(1), mock.Anything).Return(false, errors.New("redis down")).Once()
		productRepo.On("GetProductByID", ctx, int64(1)).Return(product, nil).Once()
		productCache.On("Set", ctx, cache.ProductKey(1), product, mock.Anything).Return(errors.New("redis down")).Once()

		// Act
		result, err := productService.GetProductByID(ctx, 1, nil, nil)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, product, result)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		// Arrange
		productService, productRepo, _, productCache := setupProductServiceTest()

		productCache.On("Get", ctx, cache.ProductKey(42), mock.Anything).Return(false, nil).Once()
		productRepo.On("GetProductByID", ctx, int64(42)).Return(nil, sql.ErrNoRows).Once()

		// Act
		result, err := productService.GetProductByID(ctx, 42, nil, nil)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, result)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Summaries Returned", func(t *testing.T) {
		// Arrange
		productService, productRepo, _, _ := setupProductServiceTest()
		products := []*models.Product{
			{ID: 1, Name: "Collar", Price: decimal.RequireFromString("19.99")},
			{ID: 2, Name: "Leash", Price: decimal.RequireFromString("24.99")},
		}
		filter := &models.ListProductsRequest{}
		productRepo.On("ListProducts", ctx, filter).Return(products, nil).Once()

		// Act
		summaries, err := productService.ListProducts(ctx, filter)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, summaries, 2)
		assert.Equal(t, int64(1), summaries[0].ID)
		productRepo.AssertExpectations(t)
	})

	t.Run("Success - No Matches Yields Empty List", func(t *testing.T) {
		// Arrange
		productService, productRepo, _, _ := setupProductServiceTest()
		filter := &models.ListProductsRequest{MinPrice: decimalPtr("10000")}
		productRepo.On("ListProducts", ctx, filter).Return([]*models.Product{}, nil).Once()

		// Act
		summaries, err := productService.ListProducts(ctx, filter)

		// Assert
		assert.NoError(t, err)
		assert.NotNil(t, summaries)
		assert.Empty(t, summaries)
	})
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Name Sanitized And Characteristics Defaulted", func(t *testing.T) {
		// Arrange
		productService, productRepo, categoryRepo, _ := setupProductServiceTest()
		categoryRepo.On("GetCategoryByID", ctx, int64(2)).Return(&models.Category{ID: 2}, nil).Once()
		productRepo.On("CreateProduct", ctx, mock.AnythingOfType("*models.Product")).
			Run(func(args mock.Arguments) {
				p := args.Get(1).(*models.Product)
				assert.Equal(t, "Fox scarf", p.Name)
				assert.NotNil(t, p.Characteristics)
			}).Return(nil).Once()

		// Act
		product, err := productService.CreateProduct(ctx, &models.CreateProductRequest{
			CategoryID: 2,
			Name:       "<script>alert(1)</script>Fox scarf",
			Price:      decimal.RequireFromString("79.99"),
		})

		// Assert
		assert.NoError(t, err)
		assert.NotNil(t, product)
		productRepo.AssertExpectations(t)
	})

	t.Run("Failure - Negative Price", func(t *testing.T) {
		// Arrange
		productService, productRepo, _, _ := setupProductServiceTest()

		// Act
		product, err := productService.CreateProduct(ctx, &models.CreateProductRequest{
			CategoryID: 2,
			Name:       "Fox scarf",
			Price:      decimal.RequireFromString("-1"),
		})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, product)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
		productRepo.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Category Missing", func(t *testing.T) {
		// Arrange
		productService, _, categoryRepo, _ := setupProductServiceTest()
		categoryRepo.On("GetCategoryByID", ctx, int64(99)).Return(nil, sql.ErrNoRows).Once()

		// Act
		product, err := productService.CreateProduct(ctx, &models.CreateProductRequest{
			CategoryID: 99,
			Name:       "Fox scarf",
			Price:      decimal.RequireFromString("79.99"),
		})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, product)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Partial Update Invalidates Cache", func(t *testing.T) {
		// Arrange
		productService, productRepo, _, productCache := setupProductServiceTest()
		existing := &models.Product{ID: 1, Name: "Collar", Price: decimal.RequireFromString("19.99")}
		newName := "Studded collar"

		productCache.On("Get", ctx, cache.ProductKey(1), mock.Anything).Return(false, nil).Once()
		productRepo.On("GetProductByID", ctx, int64(1)).Return(existing, nil).Once()
		productCache.On("Set", ctx, cache.ProductKey(1), existing, mock.Anything).Return(nil).Once()
		productRepo.On("UpdateProduct", ctx, mock.AnythingOfType("*models.Product")).
			Run(func(args mock.Arguments) {
				p := args.Get(1).(*models.Product)
				assert.Equal(t, "Studded collar", p.Name)
				assert.Equal(t, "19.99", p.Price.StringFixed(2))
			}).Return(nil).Once()
		productCache.On("Delete", ctx, cache.ProductKey(1)).Return(nil).Once()

		// Act
		product, err := productService.UpdateProduct(ctx, 1, &models.UpdateProductRequest{Name: &newName})

		// Assert
		assert.NoError(t, err)
		assert.NotNil(t, product)
		productCache.AssertExpectations(t)
	})
}
