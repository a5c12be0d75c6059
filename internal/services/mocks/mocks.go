// Package mocks provides testify mock implementations of the service
// interfaces for handler-level tests, plus mocks for the cache and email
// collaborators used by the services themselves.
package mocks

import (
	"context"
	"time"

	"github.com/furstore/fur-store-backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type CartService struct {
	mock.Mock
}

func (m *CartService) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID)
	if cart := args.Get(0); cart != nil {
		return cart.(*models.Cart), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID)
	if cart := args.Get(0); cart != nil {
		return cart.(*models.Cart), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CartService) AddProduct(ctx context.Context, userID uuid.UUID, req *models.AddProductRequest) (*models.Cart, error) {
	args := m.Called(ctx, userID, req)
	if cart := args.Get(0); cart != nil {
		return cart.(*models.Cart), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CartService) SetItemQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error) {
	args := m.Called(ctx, userID, req)
	if cart := args.Get(0); cart != nil {
		return cart.(*models.Cart), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CartService) RemoveProduct(ctx context.Context, userID uuid.UUID, productID int64) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type ProductService struct {
	mock.Mock
}

func (m *ProductService) ListProducts(ctx context.Context, filter *models.ListProductsRequest) ([]models.ProductSummary, error) {
	args := m.Called(ctx, filter)
	if products := args.Get(0); products != nil {
		return products.([]models.ProductSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductService) GetProductByID(ctx context.Context, id int64, minPrice, maxPrice *decimal.Decimal) (*models.Product, error) {
	args := m.Called(ctx, id, minPrice, maxPrice)
	if product := args.Get(0); product != nil {
		return product.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, req)
	if product := args.Get(0); product != nil {
		return product.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductService) UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, id, req)
	if product := args.Get(0); product != nil {
		return product.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

type CategoryService struct {
	mock.Mock
}

func (m *CategoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if categories := args.Get(0); categories != nil {
		return categories.([]*models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryService) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if category := args.Get(0); category != nil {
		return category.(*models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	args := m.Called(ctx, req)
	if category := args.Get(0); category != nil {
		return category.(*models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryService) UpdateCategory(ctx context.Context, id int64, req *models.UpdateCategoryRequest) (*models.Category, error) {
	args := m.Called(ctx, id, req)
	if category := args.Get(0); category != nil {
		return category.(*models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type OrderService struct {
	mock.Mock
}

func (m *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, userID)
	if order := args.Get(0); order != nil {
		return order.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *OrderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if order := args.Get(0); order != nil {
		return order.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *OrderService) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {
	args := m.Called(ctx, userID, page, size)
	if orders := args.Get(0); orders != nil {
		return orders.([]models.Order), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

type UserService struct {
	mock.Mock
}

func (m *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*models.LoginResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) SendOrderConfirmation(ctx context.Context, userID uuid.UUID, order *models.Order) error {
	args := m.Called(ctx, userID, order)
	return args.Error(0)
}

type EmailService struct {
	mock.Mock
}

func (m *EmailService) Send(ctx context.Context, req *models.EmailNotificationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

type Cache struct {
	mock.Mock
}

func (m *Cache) Get(ctx context.Context, key string, value any) (bool, error) {
	args := m.Called(ctx, key, value)
	return args.Bool(0), args.Error(1)
}

func (m *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *Cache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *Cache) Close() error {
	args := m.Called()
	return args.Error(0)
}
