package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/furstore/fur-store-backend/internal/api/middleware"
	"github.com/furstore/fur-store-backend/internal/config"
	"github.com/redis/go-redis/v9"
)

type RateLimitRepository interface {
	CheckLoginRateLimit(ctx context.Context, username string) (bool, int, int, error)
}

type redisRepository struct {
	client *redis.Client
	cfg    *config.Config
}

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {

	opt, err := redis.ParseURL(cfg.RedisConnect.GetDSN())
	if err != nil {
		slog.Error("Failed to parse Redis URL", slog.Any("error", err))
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.DB = cfg.RedisConnect.DB

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("Failed to connect to Redis", slog.Any("error", err))
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

func NewRateLimitRepo(client *redis.Client, cfg *config.Config) RateLimitRepository {
	return &redisRepository{client: client, cfg: cfg}
}

// CheckLoginRateLimit counts login attempts per username inside a fixed
// window. Returns isAllowed, attempts left and seconds to wait.
func (r *redisRepository) CheckLoginRateLimit(ctx context.Context, username string) (bool, int, int, error) {

	logger := middleware.LoggerFromContext(ctx)

	key := "login_attempts:" + username

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, 0, fmt.Errorf("failed to increment login attempts: %w", err)
	}

	if count == 1 {
		if err := r.client.Expire(ctx, key, r.cfg.RateConfig.WindowSize).Err(); err != nil {
			return false, 0, 0, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	if count > r.cfg.RateConfig.MaxAttempts {
		ttl, err := r.client.TTL(ctx, key).Result()
		if err != nil {
			return false, 0, 0, fmt.Errorf("failed to read rate limit window: %w", err)
		}

		logger.Warn("Login rate limit exceeded",
			slog.String("username", username),
			slog.Int64("attempts", count))

		return false, 0, int(ttl.Seconds()), nil
	}

	return true, int(r.cfg.RateConfig.MaxAttempts - count), 0, nil
}
