package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID              int64           `json:"id"`
	CategoryID      int64           `json:"category_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Image           string          `json:"image"`
	Price           decimal.Decimal `json:"price"`
	Characteristics Characteristics `json:"characteristics"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Category        *Category       `json:"category,omitempty"`
}

// ProductSummary is the lightweight shape returned by the list endpoint.
type ProductSummary struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Image           string          `json:"image"`
	Price           decimal.Decimal `json:"price"`
	Characteristics Characteristics `json:"characteristics"`
}

func (p *Product) Summary() ProductSummary {
	return ProductSummary{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Image:           p.Image,
		Price:           p.Price,
		Characteristics: p.Characteristics,
	}
}

// ListProductsRequest carries the conjunctive catalog filter: every supplied
// bound narrows the result set, absent bounds impose no constraint.
type ListProductsRequest struct {
	CategoryID *int64           `json:"category_id,omitempty"`
	MinPrice   *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice   *decimal.Decimal `json:"max_price,omitempty"`
}

type CreateProductRequest struct {
	CategoryID      int64           `json:"category_id" validate:"required"`
	Name            string          `json:"name" validate:"required,min=1,max=255"`
	Description     string          `json:"description"`
	Image           string          `json:"image"`
	Price           decimal.Decimal `json:"price" validate:"required"`
	Characteristics Characteristics `json:"characteristics"`
}

type UpdateProductRequest struct {
	CategoryID      *int64           `json:"category_id,omitempty"`
	Name            *string          `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description     *string          `json:"description,omitempty"`
	Image           *string          `json:"image,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Characteristics Characteristics  `json:"characteristics,omitempty"`
}
