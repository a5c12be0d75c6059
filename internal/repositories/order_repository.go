package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/furstore/fur-store-backend/internal/models"
	"github.com/furstore/fur-store-backend/internal/utils"
	"github.com/google/uuid"
)

// ErrEmptyCart is returned by CreateFromCart when the cart holds no lines.
var ErrEmptyCart = errors.New("cart has no items")

type OrderRepository interface {
	CreateFromCart(ctx context.Context, userID, cartID uuid.UUID) (*models.Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

// CreateFromCart converts the cart's current lines into an immutable order
// and empties the cart, all inside one transaction: either the order with
// every item exists and the cart is empty, or nothing changed.
func (r *orderRepository) CreateFromCart(ctx context.Context, userID, cartID uuid.UUID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		// no-op once the transaction is committed
		_ = tx.Rollback()
	}()

	// Lock the cart lines so a concurrent mutation of the same cart cannot
	// interleave between the snapshot and the delete below.
	itemsQuery := `
		SELECT ci.product_id, ci.quantity,
		       p.id, p.category_id, p.name, p.description, p.image, p.price, p.characteristics, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at, ci.product_id
		FOR UPDATE OF ci
	`

	rows, err := tx.QueryContext(dbCtx, itemsQuery, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart items: %w", err)
	}

	var items []models.OrderItem

	for rows.Next() {
		var item models.OrderItem
		product := &models.Product{}

		err := rows.Scan(&item.ProductID, &item.Quantity,
			&product.ID, &product.CategoryID, &product.Name, &product.Description, &product.Image,
			&product.Price, &product.Characteristics, &product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		item.ID = uuid.New()
		item.Product = product
		items = append(items, item)
	}

	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := &models.Order{
		ID:     uuid.New(),
		UserID: userID,
	}

	orderQuery := `
		INSERT INTO orders (id, user_id, created_at)
		VALUES ($1, $2, NOW())
		RETURNING created_at
	`

	if err := tx.QueryRowContext(dbCtx, orderQuery, order.ID, order.UserID).Scan(&order.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`

	for i := range items {
		items[i].OrderID = order.ID

		err := tx.QueryRowContext(dbCtx, itemQuery,
			items[i].ID, order.ID, items[i].ProductID, items[i].Quantity).Scan(&items[i].CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if _, err := tx.ExecContext(dbCtx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	order.Items = items

	return order, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{ID: id}

	query := `
		SELECT user_id, created_at
		FROM orders
		WHERE id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&order.UserID, &order.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	items, err := r.loadItems(dbCtx, id)
	if err != nil {
		return nil, err
	}

	order.Items = items

	return order, nil
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM orders WHERE user_id = $1`

	if err := r.DB.QueryRowContext(dbCtx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT id, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.DB.QueryContext(dbCtx, query, userID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {
		order := models.Order{UserID: userID}

		if err := rows.Scan(&order.ID, &order.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {
		items, err := r.loadItems(dbCtx, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}

		orders[i].Items = items
	}

	return orders, total, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {

	query := `
		SELECT oi.id, oi.product_id, oi.quantity, oi.created_at,
		       p.id, p.category_id, p.name, p.description, p.image, p.price, p.characteristics, p.created_at, p.updated_at
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = $1
		ORDER BY oi.created_at
	`

	rows, err := r.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}

	defer rows.Close()

	items := []models.OrderItem{}

	for rows.Next() {
		var item models.OrderItem
		product := &models.Product{}

		err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.CreatedAt,
			&product.ID, &product.CategoryID, &product.Name, &product.Description, &product.Image,
			&product.Price, &product.Characteristics, &product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		item.OrderID = orderID
		item.Product = product
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
