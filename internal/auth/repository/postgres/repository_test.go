package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/chopsqd/identity-service/internal/auth/domain"
	repo "github.com/chopsqd/identity-service/internal/auth/repository/postgres"
	autherror "github.com/chopsqd/identity-service/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "email", "password_hash", "roles", "provider", "is_blocked", "created_at", "updated_at"}

// TestGetByIDOrEmail covers the combined id-or-email lookup.
func TestGetByIDOrEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()
	email := "test@example.com"

	t.Run("success by email", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email").
			WithArgs(email).
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow("user-123", email, "hash", []string{"USER"}, "NONE", false, time.Now(), time.Now()))

		user, err := r.GetByIDOrEmail(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, "user-123", user.ID)
		assert.Equal(t, email, user.Email)
		assert.Equal(t, []string{"USER"}, user.Roles)
	})

	t.Run("not found returns nil without error", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email").
			WithArgs(email).
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByIDOrEmail(ctx, email)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email").
			WithArgs(email).
			WillReturnError(fmt.Errorf("db error"))

		_, err := r.GetByIDOrEmail(ctx, email)
		assert.Error(t, err)
	})
}

// TestCreate covers user insertion and the unique-email conflict mapping.
func TestCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	now := time.Now()
	user := &domain.User{
		ID:           "user-123",
		Email:        "new@example.com",
		PasswordHash: "new-hash",
		Roles:        []string{"USER"},
		Provider:     "NONE",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.PasswordHash, user.Roles, user.Provider,
				user.IsBlocked, user.CreatedAt, user.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := r.Create(ctx, user)
		assert.NoError(t, err)
	})

	t.Run("duplicate email maps to conflict", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.PasswordHash, user.Roles, user.Provider,
				user.IsBlocked, user.CreatedAt, user.UpdatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := r.Create(ctx, user)
		assert.ErrorIs(t, err, autherror.ErrEmailAlreadyInUse)
	})
}

// TestUpsertProviderByEmail covers the provider create-or-update path.
func TestUpsertProviderByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()
	email := "oauth@example.com"

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), email, []string{"USER"}, "GOOGLE").
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow("user-456", email, "", []string{"USER"}, "GOOGLE", false, time.Now(), time.Now()))

		user, err := r.UpsertProviderByEmail(ctx, email, "GOOGLE")
		require.NoError(t, err)
		assert.Equal(t, "GOOGLE", user.Provider)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("storage error", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), email, []string{"USER"}, "YANDEX").
			WillReturnError(fmt.Errorf("db unavailable"))

		_, err := r.UpsertProviderByEmail(ctx, email, "YANDEX")
		assert.Error(t, err)
	})
}

// TestDelete covers user deletion.
func TestDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("success returns deleted user", func(t *testing.T) {
		mock.ExpectQuery("DELETE FROM users").
			WithArgs("user-123").
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow("user-123", "gone@example.com", "hash", []string{"USER"}, "NONE", false, time.Now(), time.Now()))

		user, err := r.Delete(ctx, "user-123")
		require.NoError(t, err)
		assert.Equal(t, "gone@example.com", user.Email)
	})

	t.Run("missing user returns nil", func(t *testing.T) {
		mock.ExpectQuery("DELETE FROM users").
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		user, err := r.Delete(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

// TestTokenUpsert covers refresh-token rotation by (user, device).
func TestTokenUpsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	rt := &domain.RefreshToken{
		Token:     "opaque-value",
		UserID:    "user-123",
		Device:    "curl/8.0",
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO refresh_tokens").
			WithArgs(rt.Token, rt.UserID, rt.Device, rt.ExpiresAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := r.Upsert(ctx, rt)
		assert.NoError(t, err)
	})

	t.Run("storage error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO refresh_tokens").
			WithArgs(rt.Token, rt.UserID, rt.Device, rt.ExpiresAt).
			WillReturnError(fmt.Errorf("db error"))

		err := r.Upsert(ctx, rt)
		assert.Error(t, err)
	})
}

// TestConsume covers the atomic delete-returning used by refresh and logout.
func TestConsume(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()
	tokenColumns := []string{"token", "user_id", "device", "expires_at"}

	t.Run("live token is returned and removed", func(t *testing.T) {
		exp := time.Now().Add(time.Hour)
		mock.ExpectQuery("DELETE FROM refresh_tokens").
			WithArgs("opaque-value").
			WillReturnRows(pgxmock.NewRows(tokenColumns).
				AddRow("opaque-value", "user-123", "curl/8.0", exp))

		rt, err := r.Consume(ctx, "opaque-value")
		require.NoError(t, err)
		assert.Equal(t, "user-123", rt.UserID)
		assert.Equal(t, exp, rt.ExpiresAt)
	})

	t.Run("absent token returns nil", func(t *testing.T) {
		mock.ExpectQuery("DELETE FROM refresh_tokens").
			WithArgs("already-used").
			WillReturnError(pgx.ErrNoRows)

		rt, err := r.Consume(ctx, "already-used")
		require.NoError(t, err)
		assert.Nil(t, rt)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("DELETE FROM refresh_tokens").
			WithArgs("opaque-value").
			WillReturnError(fmt.Errorf("db error"))

		_, err := r.Consume(ctx, "opaque-value")
		assert.Error(t, err)
	})
}
