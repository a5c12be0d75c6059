// Package mocks provides testify mock implementations of the repository
// interfaces for service-level tests.
package mocks

import (
	"context"
	"time"

	"github.com/furstore/fur-store-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID)
	if cart := args.Get(0); cart != nil {
		return cart.(*models.Cart), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CartRepository) GetCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID)
	if cart := args.Get(0); cart != nil {
		return cart.(*models.Cart), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CartRepository) AddItem(ctx context.Context, cartID uuid.UUID, productID int64, quantity int) (int, error) {
	args := m.Called(ctx, cartID, productID, quantity)
	return args.Int(0), args.Error(1)
}

func (m *CartRepository) UpdateItemQuantity(ctx context.Context, cartID uuid.UUID, productID int64, quantity int) error {
	args := m.Called(ctx, cartID, productID, quantity)
	return args.Error(0)
}

func (m *CartRepository) RemoveItem(ctx context.Context, cartID uuid.UUID, productID int64) error {
	args := m.Called(ctx, cartID, productID)
	return args.Error(0)
}

func (m *CartRepository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	if product := args.Get(0); product != nil {
		return product.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductRepository) ListProducts(ctx context.Context, filter *models.ListProductsRequest) ([]*models.Product, error) {
	args := m.Called(ctx, filter)
	if products := args.Get(0); products != nil {
		return products.([]*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

type CategoryRepository struct {
	mock.Mock
}

func (m *CategoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *CategoryRepository) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if category := args.Get(0); category != nil {
		return category.(*models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if categories := args.Get(0); categories != nil {
		return categories.([]*models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *CategoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CategoryRepository) GetAncestorIDs(ctx context.Context, id int64) ([]int64, error) {
	args := m.Called(ctx, id)
	if ids := args.Get(0); ids != nil {
		return ids.([]int64), args.Error(1)
	}
	return nil, args.Error(1)
}

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) CreateFromCart(ctx context.Context, userID, cartID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, userID, cartID)
	if order := args.Get(0); order != nil {
		return order.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *OrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if order := args.Get(0); order != nil {
		return order.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *OrderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {
	args := m.Called(ctx, userID, page, size)
	if orders := args.Get(0); orders != nil {
		return orders.([]models.Order), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *NotificationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus, errMsg string, sentAt *time.Time) error {
	args := m.Called(ctx, id, status, errMsg, sentAt)
	return args.Error(0)
}

type RateLimitRepository struct {
	mock.Mock
}

func (m *RateLimitRepository) CheckLoginRateLimit(ctx context.Context, username string) (bool, int, int, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Int(1), args.Int(2), args.Error(3)
}
