package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/furstore/fur-store-backend/internal/config"
	"github.com/furstore/fur-store-backend/internal/models"
	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_Get(t *testing.T) {

	t.Run("Success - Hit Unmarshals Into Value", func(t *testing.T) {
		// Arrange
		client, mock := redismock.NewClientMock()
		c := NewRedisCache(client, &config.CacheConfig{DefaultTTL: time.Minute})

		product := models.Product{ID: 7, Name: "Fox scarf", Price: decimal.RequireFromString("79.99")}
		data, err := json.Marshal(product)
		require.NoError(t, err)
		mock.ExpectGet(ProductKey(7)).SetVal(string(data))

		// Act
		var got models.Product
		found, err := c.Get(context.Background(), ProductKey(7), &got)

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "Fox scarf", got.Name)
		assert.True(t, got.Price.Equal(product.Price))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Miss Is Not An Error", func(t *testing.T) {
		// Arrange
		client, mock := redismock.NewClientMock()
		c := NewRedisCache(client, &config.CacheConfig{DefaultTTL: time.Minute})

		mock.ExpectGet(ProductKey(404)).RedisNil()

		// Act
		var got models.Product
		found, err := c.Get(context.Background(), ProductKey(404), &got)

		// Assert
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Failure - Corrupt Payload", func(t *testing.T) {
		// Arrange
		client, mock := redismock.NewClientMock()
		c := NewRedisCache(client, &config.CacheConfig{DefaultTTL: time.Minute})

		mock.ExpectGet(ProductKey(7)).SetVal("{not json")

		// Act
		var got models.Product
		found, err := c.Get(context.Background(), ProductKey(7), &got)

		// Assert
		assert.Error(t, err)
		assert.False(t, found)
	})
}

func TestRedisCache_Set(t *testing.T) {

	t.Run("Success - Explicit TTL", func(t *testing.T) {
		// Arrange
		client, mock := redismock.NewClientMock()
		c := NewRedisCache(client, &config.CacheConfig{DefaultTTL: time.Minute})

		product := models.Product{ID: 7, Name: "Fox scarf"}
		data, err := json.Marshal(product)
		require.NoError(t, err)
		mock.ExpectSet(ProductKey(7), data, 30*time.Second).SetVal("OK")

		// Act
		err = c.Set(context.Background(), ProductKey(7), product, 30*time.Second)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Zero TTL Falls Back To Default", func(t *testing.T) {
		// Arrange
		client, mock := redismock.NewClientMock()
		c := NewRedisCache(client, &config.CacheConfig{DefaultTTL: 5 * time.Minute})

		product := models.Product{ID: 7, Name: "Fox scarf"}
		data, err := json.Marshal(product)
		require.NoError(t, err)
		mock.ExpectSet(ProductKey(7), data, 5*time.Minute).SetVal("OK")

		// Act
		err = c.Set(context.Background(), ProductKey(7), product, 0)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCache_Delete(t *testing.T) {

	t.Run("Success", func(t *testing.T) {
		// Arrange
		client, mock := redismock.NewClientMock()
		c := NewRedisCache(client, &config.CacheConfig{DefaultTTL: time.Minute})

		mock.ExpectDel(ProductKey(7)).SetVal(1)

		// Act
		err := c.Delete(context.Background(), ProductKey(7))

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
