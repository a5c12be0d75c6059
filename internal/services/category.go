package service

import (
	"context"
	"database/sql"
	"errors"
	"slices"

	appErrors "github.com/furstore/fur-store-backend/internal/errors"
	"github.com/furstore/fur-store-backend/internal/models"
	repository "github.com/furstore/fur-store-backend/internal/repositories"
	"github.com/microcosm-cc/bluemonday"
)

type CategoryService interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, req *models.UpdateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type categoryService struct {
	repo      repository.CategoryRepository
	sanitizer *bluemonday.Policy
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo, sanitizer: bluemonday.StrictPolicy()}
}

func (s *categoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	return categories, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {

	category, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Category not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch category").WithError(err)
	}

	return category, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {

	if req.ParentID != nil {
		if _, err := s.repo.GetCategoryByID(ctx, *req.ParentID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.NotFoundError("Parent category not found").WithError(err)
			}
			return nil, appErrors.DatabaseError("Failed to fetch parent category").WithError(err)
		}
	}

	category := &models.Category{
		Name:     s.sanitizer.Sanitize(req.Name),
		ParentID: req.ParentID,
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, appErrors.DatabaseError("Failed to create category").WithError(err)
	}

	return category, nil
}

// UpdateCategory rewrites name and parent. The store cannot guarantee tree
// acyclicity, so a parent change walks the proposed parent's ancestor chain
// and rejects the write when the category itself appears in it.
func (s *categoryService) UpdateCategory(ctx context.Context, id int64, req *models.UpdateCategoryRequest) (*models.Category, error) {

	category, err := s.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = s.sanitizer.Sanitize(*req.Name)
	}

	if req.ClearParent && req.ParentID != nil {
		return nil, appErrors.ValidationError("clear_parent cannot be combined with parent_id")
	}

	if req.ClearParent {
		category.ParentID = nil
	}

	if req.ParentID != nil {

		if *req.ParentID == id {
			return nil, appErrors.ValidationError("Category cannot be its own parent")
		}

		ancestors, err := s.repo.GetAncestorIDs(ctx, *req.ParentID)
		if err != nil {
			return nil, appErrors.DatabaseError("Failed to inspect category tree").WithError(err)
		}

		if len(ancestors) == 0 {
			return nil, appErrors.NotFoundError("Parent category not found")
		}

		if slices.Contains(ancestors, id) {
			return nil, appErrors.ValidationError("Parent assignment would create a category cycle")
		}

		category.ParentID = req.ParentID
	}

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Category not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to update category").WithError(err)
	}

	return category, nil
}

// DeleteCategory cascades to the subtree and to the category's products.
func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {

	err := s.repo.DeleteCategory(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Category not found").WithError(err)
		}
		return appErrors.DatabaseError("Failed to delete category").WithError(err)
	}

	return nil
}
