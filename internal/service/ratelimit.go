package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CheckAndSetRateLimit atomically claims a per-user action slot for the
// given window. A nil client disables limiting (tests, dev without Redis).
func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, userID, action string, limit time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("affiliates:rate_limit:%s:%s", userID, action)

	wasSet, err := rdb.SetNX(ctx, key, "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func ClearRateLimit(ctx context.Context, rdb *redis.Client, userID, action string) error {
	if rdb == nil {
		return nil
	}
	key := fmt.Sprintf("affiliates:rate_limit:%s:%s", userID, action)
	_, err := rdb.Del(ctx, key).Result()
	return err
}
