package domain

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/chopsqd/identity-service/internal/auth/domain UserRepository,TokenRepository,UserCache

import (
	"context"
	"time"
)

// UserRepository is the system of record for users. Lookups return (nil, nil)
// when no row matches.
type UserRepository interface {
	GetByIDOrEmail(ctx context.Context, idOrEmail string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpsertProviderByEmail(ctx context.Context, email, provider string) (*User, error)
	Delete(ctx context.Context, id string) (*User, error)
}

// TokenRepository owns refresh-token records keyed by token value, with at most
// one live row per (user, device).
type TokenRepository interface {
	Upsert(ctx context.Context, token *RefreshToken) error
	// Consume atomically deletes the row for the given value and returns it,
	// or (nil, nil) when no row was removed.
	Consume(ctx context.Context, value string) (*RefreshToken, error)
}

// UserCache mirrors users under both their id and email keys. Implementations
// are best-effort: callers treat errors as cache misses.
type UserCache interface {
	Get(ctx context.Context, key string) (*User, error)
	Set(ctx context.Context, user *User, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}
