package handlers

import (
	"log/slog"
	"net/http"

	"github.com/furstore/fur-store-backend/internal/api/middleware"
	"github.com/furstore/fur-store-backend/internal/errors"
	"github.com/furstore/fur-store-backend/internal/models"
	service "github.com/furstore/fur-store-backend/internal/services"
	"github.com/furstore/fur-store-backend/internal/utils"
	"github.com/furstore/fur-store-backend/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CategoryHandler struct {
	categoryService service.CategoryService
	validator       *validator.Validate
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, validator: validator.New()}
}

// ListCategories godoc
//	@Summary	List all categories
//	@Tags		Categories
//	@Produce	json
//	@Success	200	{array}	models.Category
//	@Router		/categories [get]
func (h *CategoryHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		categories, err := h.categoryService.ListCategories(r.Context())
		if err != nil {
			logger.Error("Failed to list categories", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, categories)
	}
}

// GetCategory godoc
//	@Summary	Get a category by id
//	@Tags		Categories
//	@Produce	json
//	@Param		id	path		int	true	"Category ID"
//	@Success	200	{object}	models.Category
//	@Failure	404	{object}	response.ErrorResponse
//	@Router		/category/{id} [get]
func (h *CategoryHandler) GetCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		category, err := h.categoryService.GetCategoryByID(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get category", slog.Int64("categoryId", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, category)
	}
}

// CreateCategory godoc
//	@Summary	Create a category
//	@Tags		Categories
//	@Accept		json
//	@Produce	json
//	@Param		category	body		models.CreateCategoryRequest	true	"Category data"
//	@Success	201			{object}	models.Category
//	@Failure	400			{object}	response.ErrorResponse
//	@Failure	401			{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/category [post]
func (h *CategoryHandler) CreateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		if _, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims); !ok {
			logger.Warn("Unauthorized category creation attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.CreateCategoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid category input")
			return
		}

		category, err := h.categoryService.CreateCategory(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create category", slog.String("name", req.Name), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Category created", slog.Int64("categoryId", category.ID))
		response.Success(w, http.StatusCreated, category)
	}
}

// UpdateCategory godoc
//	@Summary		Update a category
//	@Description	Renames the category, moves it under a new parent, or detaches it back to a root via clear_parent. Moves that would create a cycle are rejected.
//	@Tags			Categories
//	@Accept			json
//	@Produce		json
//	@Param			id			path		int								true	"Category ID"
//	@Param			category	body		models.UpdateCategoryRequest	true	"Fields to update"
//	@Success		200			{object}	models.Category
//	@Failure		400			{object}	response.ErrorResponse	"Cycle or self-parent"
//	@Failure		401			{object}	response.ErrorResponse
//	@Failure		404			{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/category/{id} [put]
func (h *CategoryHandler) UpdateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		if _, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims); !ok {
			logger.Warn("Unauthorized category update attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateCategoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid category update input")
			return
		}

		category, err := h.categoryService.UpdateCategory(r.Context(), id, &req)
		if err != nil {
			logger.Warn("Failed to update category", slog.Int64("categoryId", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Category updated", slog.Int64("categoryId", id))
		response.Success(w, http.StatusOK, category)
	}
}

// DeleteCategory godoc
//	@Summary	Delete a category
//	@Tags		Categories
//	@Param		id	path	int	true	"Category ID"
//	@Success	204
//	@Failure	401	{object}	response.ErrorResponse
//	@Failure	404	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/category/{id} [delete]
func (h *CategoryHandler) DeleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		if _, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims); !ok {
			logger.Warn("Unauthorized category delete attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.categoryService.DeleteCategory(r.Context(), id); err != nil {
			logger.Warn("Failed to delete category", slog.Int64("categoryId", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Category deleted", slog.Int64("categoryId", id))
		response.NoContent(w)
	}
}
