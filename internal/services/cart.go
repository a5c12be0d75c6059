package service

import (
	"context"
	"database/sql"
	"errors"

	appErrors "github.com/furstore/fur-store-backend/internal/errors"
	"github.com/furstore/fur-store-backend/internal/models"
	repository "github.com/furstore/fur-store-backend/internal/repositories"
	"github.com/google/uuid"
)

type CartService interface {
	GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddProduct(ctx context.Context, userID uuid.UUID, req *models.AddProductRequest) (*models.Cart, error)
	SetItemQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error)
	RemoveProduct(ctx context.Context, userID uuid.UUID, productID int64) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

// GetOrCreateCart never fails for a valid user: it returns the existing cart
// or lazily creates an empty one.
func (s *cartService) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	cart, err := s.cartRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to create cart").WithError(err)
	}

	return cart, nil
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Cart not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	return cart, nil
}

// AddProduct increments the line for the product by the requested quantity,
// creating the line when absent. The quantity defaults to 1 when omitted.
func (s *cartService) AddProduct(ctx context.Context, userID uuid.UUID, req *models.AddProductRequest) (*models.Cart, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Cart not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if _, err := s.productRepo.GetProductByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	if _, err := s.cartRepo.AddItem(ctx, cart.ID, req.ProductID, quantity); err != nil {
		return nil, appErrors.DatabaseError("Failed to add product to cart").WithError(err)
	}

	return s.GetCart(ctx, userID)
}

// SetItemQuantity overwrites an existing line's quantity exactly. It only
// updates existing lines; adding new ones is AddProduct's job.
func (s *cartService) SetItemQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Cart not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	err = s.cartRepo.UpdateItemQuantity(ctx, cart.ID, req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Cart item not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to update cart item").WithError(err)
	}

	return s.GetCart(ctx, userID)
}

func (s *cartService) RemoveProduct(ctx context.Context, userID uuid.UUID, productID int64) error {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Cart not found").WithError(err)
		}
		return appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	err = s.cartRepo.RemoveItem(ctx, cart.ID, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Cart item not found").WithError(err)
		}
		return appErrors.DatabaseError("Failed to remove cart item").WithError(err)
	}

	return nil
}

// ClearCart removes every line of the user's cart. Clearing an already
// empty cart succeeds; a missing cart is still a not-found.
func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Cart not found").WithError(err)
		}
		return appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if err := s.cartRepo.ClearItems(ctx, cart.ID); err != nil {
		return appErrors.DatabaseError("Failed to clear cart").WithError(err)
	}

	return nil
}
