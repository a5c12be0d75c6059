package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one (cart, product) line. Product carries the current catalog
// record, not a frozen copy: cart views always show live product data.
type CartItem struct {
	ProductID int64    `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

// Cart is a user's single mutable cart. At most one exists per user,
// created lazily on first access.
type Cart struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type AddProductRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	// Quantity defaults to 1 when omitted.
	Quantity int `json:"quantity" validate:"omitempty,min=1"`
}

type UpdateQuantityRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

type RemoveProductRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
}
