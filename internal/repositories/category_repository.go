package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/furstore/fur-store-backend/internal/models"
	"github.com/furstore/fur-store-backend/internal/utils"
)

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	GetAncestorIDs(ctx context.Context, id int64) ([]int64, error)
}

type categoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepo(db *sql.DB) CategoryRepository {
	return &categoryRepository{DB: db}
}

func (r *categoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO categories (name, parent_id, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, category.Name, category.ParentID).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *categoryRepository) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	category := &models.Category{}

	query := `
		SELECT id, name, parent_id, created_at, updated_at
		FROM categories
		WHERE id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&category.ID, &category.Name, &category.ParentID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return category, nil
}

// ListCategories returns the flat list; clients reconstruct the tree from
// the parent references.
func (r *categoryRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, name, parent_id, created_at, updated_at
		FROM categories
		ORDER BY id
	`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	defer rows.Close()

	var categories []*models.Category

	for rows.Next() {
		category := &models.Category{}

		err := rows.Scan(&category.ID, &category.Name, &category.ParentID, &category.CreatedAt, &category.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}

		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *categoryRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE categories
		SET name = $1, parent_id = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, category.Name, category.ParentID, category.ID).
		Scan(&category.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("failed to update category: %w", err)
	}

	return nil
}

// DeleteCategory removes the category; the schema cascades the delete to its
// subtree and its products.
func (r *categoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
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

// GetAncestorIDs walks the parent chain of the given category upwards,
// including the category itself. Used for cycle rejection on parent writes.
func (r *categoryRepository) GetAncestorIDs(ctx context.Context, id int64) ([]int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		WITH RECURSIVE ancestors AS (
			SELECT id, parent_id FROM categories WHERE id = $1
			UNION ALL
			SELECT c.id, c.parent_id
			FROM categories c
			JOIN ancestors a ON c.id = a.parent_id
		)
		SELECT id FROM ancestors
	`

	rows, err := r.DB.QueryContext(dbCtx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to walk category ancestors: %w", err)
	}

	defer rows.Close()

	var ids []int64

	for rows.Next() {
		var ancestorID int64

		if err := rows.Scan(&ancestorID); err != nil {
			return nil, fmt.Errorf("failed to scan ancestor id: %w", err)
		}

		ids = append(ids, ancestorID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
