package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/furstore/fur-store-backend/internal/models"
	repository "github.com/furstore/fur-store-backend/internal/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productColumns = []string{
	"id", "category_id", "name", "description", "image", "price", "characteristics", "created_at", "updated_at",
}

func TestProductRepository(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewProductRepo(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("CreateProduct_Success", func(t *testing.T) {
		// Arrange
		product := &models.Product{
			CategoryID:      2,
			Name:            "Mink coat",
			Description:     "Warm",
			Image:           "mink.jpg",
			Price:           decimal.RequireFromString("499.99"),
			Characteristics: models.Characteristics{},
		}

		mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO products (category_id, name, description, image, price, characteristics, created_at, updated_at)`)).
			WithArgs(product.CategoryID, product.Name, product.Description, product.Image, product.Price, product.Characteristics).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

		// Act
		err := repo.CreateProduct(ctx, product)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(11), product.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetProductByID_JoinsCategory", func(t *testing.T) {
		// Arrange
		columns := append(append([]string{}, productColumns...), "c_id", "c_name", "c_parent_id")

		mock.ExpectQuery(regexp.QuoteMeta(`JOIN categories c ON p.category_id = c.id`)).
			WithArgs(int64(11)).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(int64(11), int64(2), "Mink coat", "Warm", "mink.jpg", "499.99", []byte(`{"color":"brown","weight":1.2,"hooded":true}`), now, now,
					int64(2), "Coats", nil))

		// Act
		product, err := repo.GetProductByID(ctx, 11)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Mink coat", product.Name)
		require.NotNil(t, product.Category)
		assert.Equal(t, "Coats", product.Category.Name)
		assert.Equal(t, "499.99", product.Price.StringFixed(2))
		assert.Len(t, product.Characteristics, 3)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetProductByID_NotFound", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(regexp.QuoteMeta(`JOIN categories c ON p.category_id = c.id`)).
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		// Act
		product, err := repo.GetProductByID(ctx, 99)

		// Assert
		assert.Nil(t, product)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListProducts_NoFilter", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(`SELECT id, category_id, name, description, image, price, characteristics, created_at, updated_at\s+FROM products\s+ORDER BY id`).
			WillReturnRows(sqlmock.NewRows(productColumns).
				AddRow(int64(1), int64(2), "Collar", "", "", "19.99", []byte(`{}`), now, now))

		// Act
		products, err := repo.ListProducts(ctx, nil)

		// Assert
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListProducts_ConjunctiveFilter", func(t *testing.T) {
		// Arrange
		categoryID := int64(2)
		minPrice := decimal.RequireFromString("10")
		maxPrice := decimal.RequireFromString("100")
		filter := &models.ListProductsRequest{
			CategoryID: &categoryID,
			MinPrice:   &minPrice,
			MaxPrice:   &maxPrice,
		}

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE category_id = $1 AND price >= $2 AND price <= $3`)).
			WithArgs(categoryID, minPrice, maxPrice).
			WillReturnRows(sqlmock.NewRows(productColumns).
				AddRow(int64(1), categoryID, "Collar", "", "", "19.99", []byte(`{}`), now, now))

		// Act
		products, err := repo.ListProducts(ctx, filter)

		// Assert
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Collar", products[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListProducts_NoMatches", func(t *testing.T) {
		// Arrange
		minPrice := decimal.RequireFromString("10000")
		filter := &models.ListProductsRequest{MinPrice: &minPrice}

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE price >= $1`)).
			WithArgs(minPrice).
			WillReturnRows(sqlmock.NewRows(productColumns))

		// Act
		products, err := repo.ListProducts(ctx, filter)

		// Assert
		require.NoError(t, err)
		assert.Empty(t, products)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UpdateProduct_NotFound", func(t *testing.T) {
		// Arrange
		product := &models.Product{ID: 99, CategoryID: 2, Price: decimal.RequireFromString("10")}

		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE products`)).
			WithArgs(product.CategoryID, product.Name, product.Description, product.Image, product.Price, product.Characteristics, product.ID).
			WillReturnError(sql.ErrNoRows)

		// Act
		err := repo.UpdateProduct(ctx, product)

		// Assert
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
