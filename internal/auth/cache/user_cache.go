package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chopsqd/identity-service/internal/auth/domain"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "user:"

// RedisUserCache mirrors user records in redis under both the id key and the
// email key, so lookups by either hit the same cached value.
type RedisUserCache struct {
	client *redis.Client
}

func NewRedisUserCache(client *redis.Client) *RedisUserCache {
	return &RedisUserCache{client: client}
}

type cachedUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Roles        []string  `json:"roles"`
	Provider     string    `json:"provider"`
	IsBlocked    bool      `json:"isBlocked"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (c *RedisUserCache) Get(ctx context.Context, key string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get %q: %w", key, err)
	}

	var cu cachedUser
	if err := json.Unmarshal(raw, &cu); err != nil {
		return nil, fmt.Errorf("cache entry %q corrupt: %w", key, err)
	}

	return &domain.User{
		ID:           cu.ID,
		Email:        cu.Email,
		PasswordHash: cu.PasswordHash,
		Roles:        cu.Roles,
		Provider:     cu.Provider,
		IsBlocked:    cu.IsBlocked,
		CreatedAt:    cu.CreatedAt,
		UpdatedAt:    cu.UpdatedAt,
	}, nil
}

func (c *RedisUserCache) Set(ctx context.Context, user *domain.User, ttl time.Duration) error {
	raw, err := json.Marshal(cachedUser{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Roles:        user.Roles,
		Provider:     user.Provider,
		IsBlocked:    user.IsBlocked,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("cache marshal user %s: %w", user.ID, err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, keyPrefix+user.ID, raw, ttl)
	pipe.Set(ctx, keyPrefix+user.Email, raw, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set user %s: %w", user.ID, err)
	}

	return nil
}

func (c *RedisUserCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, 0, len(keys))
	for _, k := range keys {
		prefixed = append(prefixed, keyPrefix+k)
	}

	if err := c.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}

	return nil
}
