package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	appErrors "github.com/furstore/fur-store-backend/internal/errors"
	"github.com/furstore/fur-store-backend/internal/metrics"
	"github.com/furstore/fur-store-backend/internal/models"
	repository "github.com/furstore/fur-store-backend/internal/repositories"
	"github.com/google/uuid"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID) (*models.Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
}

type orderService struct {
	orderRepo     repository.OrderRepository
	cartRepo      repository.CartRepository
	notifications NotificationService
}

func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, notifications NotificationService) OrderService {
	return &orderService{orderRepo: orderRepo, cartRepo: cartRepo, notifications: notifications}
}

// PlaceOrder converts the user's current cart into an immutable order and
// empties the cart in one transaction. A missing cart is a not-found; an
// empty cart is rejected rather than producing an order with zero items.
func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID) (*models.Order, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Cart not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	order, err := s.orderRepo.CreateFromCart(ctx, userID, cart.ID)
	if err != nil {
		if errors.Is(err, repository.ErrEmptyCart) {
			return nil, appErrors.ValidationError("Cannot place an order with an empty cart").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to place order").WithError(err)
	}

	metrics.OrderPlaced()

	// Best effort: a failed confirmation email never fails the order.
	if s.notifications != nil {
		if err := s.notifications.SendOrderConfirmation(ctx, userID, order); err != nil {
			slog.Warn("Failed to send order confirmation",
				slog.String("orderId", order.ID.String()),
				slog.String("error", err.Error()))
		}
	}

	return order, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	return order, nil
}

func (s *orderService) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 100 {
		size = 10
	}

	orders, total, err := s.orderRepo.ListOrdersByUser(ctx, userID, page, size)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}
