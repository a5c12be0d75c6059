package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/furstore/fur-store-backend/internal/models"
	"github.com/furstore/fur-store-backend/internal/utils"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	ListProducts(ctx context.Context, filter *models.ListProductsRequest) ([]*models.Product, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO products (category_id, name, description, image, price, characteristics, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		product.CategoryID, product.Name, product.Description, product.Image, product.Price, product.Characteristics).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product := &models.Product{}
	category := &models.Category{}

	query := `
		SELECT p.id, p.category_id, p.name, p.description, p.image, p.price, p.characteristics, p.created_at, p.updated_at,
		       c.id, c.name, c.parent_id
		FROM products p
		JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(
		&product.ID, &product.CategoryID, &product.Name, &product.Description, &product.Image,
		&product.Price, &product.Characteristics, &product.CreatedAt, &product.UpdatedAt,
		&category.ID, &category.Name, &category.ParentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	product.Category = category

	return product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET category_id = $1, name = $2, description = $3, image = $4, price = $5, characteristics = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query,
		product.CategoryID, product.Name, product.Description, product.Image,
		product.Price, product.Characteristics, product.ID).Scan(&product.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

// ListProducts applies the conjunctive filter: each supplied bound narrows
// the result set, absent bounds impose no constraint.
func (r *productRepository) ListProducts(ctx context.Context, filter *models.ListProductsRequest) ([]*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, category_id, name, description, image, price, characteristics, created_at, updated_at
		FROM products
	`

	var conditions []string
	var args []any

	if filter != nil {
		if filter.CategoryID != nil {
			args = append(args, *filter.CategoryID)
			conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
		}

		if filter.MinPrice != nil {
			args = append(args, *filter.MinPrice)
			conditions = append(conditions, fmt.Sprintf("price >= $%d", len(args)))
		}

		if filter.MaxPrice != nil {
			args = append(args, *filter.MaxPrice)
			conditions = append(conditions, fmt.Sprintf("price <= $%d", len(args)))
		}
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY id"

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	defer rows.Close()

	var products []*models.Product

	for rows.Next() {
		product := &models.Product{}

		err := rows.Scan(&product.ID, &product.CategoryID, &product.Name, &product.Description,
			&product.Image, &product.Price, &product.Characteristics, &product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}
