package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/furstore/fur-store-backend/internal/api/handlers"
	appErrors "github.com/furstore/fur-store-backend/internal/errors"
	"github.com/furstore/fur-store-backend/internal/models"
	"github.com/furstore/fur-store-backend/internal/services/mocks"
	"github.com/furstore/fur-store-backend/internal/testutils"
	"github.com/furstore/fur-store-backend/internal/utils/response"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCategoryHandler_ListCategories(t *testing.T) {

	t.Run("Success - Public Listing", func(t *testing.T) {
		// Arrange
		categoryService := new(mocks.CategoryService)
		handler := handlers.NewCategoryHandler(categoryService)

		categories := []*models.Category{
			{ID: 1, Name: "Coats"},
			{ID: 2, Name: "Scarves"},
		}
		categoryService.On("ListCategories", mock.Anything).Return(categories, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/categories", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.ListCategories().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var respBody response.APIResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &respBody))
		assert.True(t, respBody.Success)
		categoryService.AssertExpectations(t)
	})
}

func TestCategoryHandler_GetCategory(t *testing.T) {

	t.Run("Failure - Unknown Category Is 404", func(t *testing.T) {
		// Arrange
		categoryService := new(mocks.CategoryService)
		handler := handlers.NewCategoryHandler(categoryService)

		categoryService.On("GetCategoryByID", mock.Anything, int64(99)).
			Return(nil, appErrors.NotFoundError("Category not found")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/category/99", nil,
			map[string]string{"id": "99"})
		rr := httptest.NewRecorder()

		// Act
		handler.GetCategory().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Failure - Invalid ID Is 400", func(t *testing.T) {
		// Arrange
		categoryService := new(mocks.CategoryService)
		handler := handlers.NewCategoryHandler(categoryService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/category/abc", nil,
			map[string]string{"id": "abc"})
		rr := httptest.NewRecorder()

		// Act
		handler.GetCategory().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		categoryService.AssertNotCalled(t, "GetCategoryByID", mock.Anything, mock.Anything)
	})
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	userID := uuid.New()

	t.Run("Success - Returns 201", func(t *testing.T) {
		// Arrange
		categoryService := new(mocks.CategoryService)
		handler := handlers.NewCategoryHandler(categoryService)

		created := &models.Category{ID: 3, Name: "Hats"}
		categoryService.On("CreateCategory", mock.Anything, mock.MatchedBy(func(r *models.CreateCategoryRequest) bool {
			return r.Name == "Hats"
		})).Return(created, nil).Once()

		body := strings.NewReader(`{"name": "Hats"}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/category", body, userID, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.CreateCategory().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		categoryService.AssertExpectations(t)
	})

	t.Run("Failure - Unauthenticated Is 401", func(t *testing.T) {
		// Arrange
		categoryService := new(mocks.CategoryService)
		handler := handlers.NewCategoryHandler(categoryService)

		body := strings.NewReader(`{"name": "Hats"}`)
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/category", body, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.CreateCategory().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		categoryService.AssertNotCalled(t, "CreateCategory", mock.Anything, mock.Anything)
	})
}

func TestCategoryHandler_UpdateCategory(t *testing.T) {
	userID := uuid.New()

	t.Run("Failure - Cycle Rejection Surfaces As 400", func(t *testing.T) {
		// Arrange
		categoryService := new(mocks.CategoryService)
		handler := handlers.NewCategoryHandler(categoryService)

		categoryService.On("UpdateCategory", mock.Anything, int64(1), mock.Anything).
			Return(nil, appErrors.ValidationError("Parent assignment would create a category cycle")).Once()

		body := strings.NewReader(`{"parent_id": 3}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/api/v1/category/1", body, userID,
			map[string]string{"id": "1"})
		rr := httptest.NewRecorder()

		// Act
		handler.UpdateCategory().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var respBody response.APIResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &respBody))
		assert.Equal(t, "Parent assignment would create a category cycle", respBody.Error.Message)
	})
}

func TestCategoryHandler_DeleteCategory(t *testing.T) {
	userID := uuid.New()

	t.Run("Success - Returns 204", func(t *testing.T) {
		// Arrange
		categoryService := new(mocks.CategoryService)
		handler := handlers.NewCategoryHandler(categoryService)

		categoryService.On("DeleteCategory", mock.Anything, int64(5)).Return(nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/category/5", nil, userID,
			map[string]string{"id": "5"})
		rr := httptest.NewRecorder()

		// Act
		handler.DeleteCategory().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.Bytes())
		categoryService.AssertExpectations(t)
	})
}
