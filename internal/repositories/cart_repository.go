package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/furstore/fur-store-backend/internal/models"
	"github.com/furstore/fur-store-backend/internal/utils"
	"github.com/google/uuid"
)

type CartRepository interface {
	GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	GetCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, cartID uuid.UUID, productID int64, quantity int) (int, error)
	UpdateItemQuantity(ctx context.Context, cartID uuid.UUID, productID int64, quantity int) error
	RemoveItem(ctx context.Context, cartID uuid.UUID, productID int64) error
	ClearItems(ctx context.Context, cartID uuid.UUID) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

// GetOrCreateCart returns the user's cart, inserting an empty one if none
// exists yet. The upsert keeps concurrent first-access requests from racing
// on the one-cart-per-user constraint.
func (r *cartRepository) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET updated_at = carts.updated_at
		RETURNING id, user_id, created_at, updated_at
	`

	cart := &models.Cart{}

	err := r.DB.QueryRowContext(dbCtx, query, uuid.New(), userID).
		Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create cart: %w", err)
	}

	items, err := r.loadItems(dbCtx, cart.ID)
	if err != nil {
		return nil, err
	}

	cart.Items = items

	return cart, nil
}

// GetCartByUserID returns sql.ErrNoRows when the user has no cart yet,
// which is distinct from an existing cart with zero items.
func (r *cartRepository) GetCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`

	cart := &models.Cart{}

	err := r.DB.QueryRowContext(dbCtx, query, userID).
		Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	items, err := r.loadItems(dbCtx, cart.ID)
	if err != nil {
		return nil, err
	}

	cart.Items = items

	return cart, nil
}

// AddItem increments the (cart, product) line by quantity, creating it when
// absent. A single upsert so two concurrent adds never lose an increment.
// Returns the resulting line quantity.
func (r *cartRepository) AddItem(ctx context.Context, cartID uuid.UUID, productID int64, quantity int) (int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING quantity
	`

	var newQuantity int

	err := r.DB.QueryRowContext(dbCtx, query, cartID, productID, quantity).Scan(&newQuantity)
	if err != nil {
		return 0, fmt.Errorf("failed to add cart item: %w", err)
	}

	return newQuantity, nil
}

// UpdateItemQuantity overwrites an existing line's quantity exactly. It never
// creates a line: sql.ErrNoRows signals a missing (cart, product) pair.
func (r *cartRepository) UpdateItemQuantity(ctx context.Context, cartID uuid.UUID, productID int64, quantity int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE cart_items
		SET quantity = $1
		WHERE cart_id = $2 AND product_id = $3
	`

	result, err := r.DB.ExecContext(dbCtx, query, quantity, cartID, productID)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, cartID uuid.UUID, productID int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	result, err := r.DB.ExecContext(dbCtx, query, cartID, productID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	deletedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deletedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ClearItems deletes every line of the cart. Clearing an already empty cart
// succeeds.
func (r *cartRepository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `DELETE FROM cart_items WHERE cart_id = $1`

	if _, err := r.DB.ExecContext(dbCtx, query, cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

// loadItems fetches the cart's lines with the current product record joined
// in. The product data is live, not a checkout snapshot.
func (r *cartRepository) loadItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {

	query := `
		SELECT ci.product_id, ci.quantity,
		       p.id, p.category_id, p.name, p.description, p.image, p.price, p.characteristics, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at, ci.product_id
	`

	rows, err := r.DB.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}

	defer rows.Close()

	items := []models.CartItem{}

	for rows.Next() {
		var item models.CartItem
		product := &models.Product{}

		err := rows.Scan(&item.ProductID, &item.Quantity,
			&product.ID, &product.CategoryID, &product.Name, &product.Description, &product.Image,
			&product.Price, &product.Characteristics, &product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		item.Product = product
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
