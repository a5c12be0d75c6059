package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is a point-in-time snapshot of a cart line taken at checkout.
// Quantity is frozen; Product is the live catalog record for display.
type OrderItem struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Order is the immutable record of a checkout. It has no update path.
type Order struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	Items     []OrderItem `json:"items"`
	CreatedAt time.Time   `json:"created_at"`
}
