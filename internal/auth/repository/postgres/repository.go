package postgres

import (
	"context"
	"errors"
	"fmt"

	autherror "github.com/chopsqd/identity-service/internal/errors"

	"github.com/chopsqd/identity-service/internal/auth/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository uses, so tests can
// substitute pgxmock.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, COALESCE(password_hash, ''), roles, provider, is_blocked, created_at, updated_at`

func (r *PostgresRepository) GetByIDOrEmail(ctx context.Context, idOrEmail string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id::text = $1 OR email = $1
		LIMIT 1;
	`
	row := r.db.QueryRow(ctx, query, idOrEmail)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %q: %w", idOrEmail, err)
	}

	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (id, email, password_hash, roles, provider, is_blocked, created_at, updated_at)
        VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8)
    `, user.ID, user.Email, user.PasswordHash, user.Roles, user.Provider, user.IsBlocked,
		user.CreatedAt, user.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return autherror.ErrEmailAlreadyInUse
	}

	return err
}

func (r *PostgresRepository) UpsertProviderByEmail(ctx context.Context, email, provider string) (*domain.User, error) {
	query := `
		INSERT INTO users (id, email, roles, provider, is_blocked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, false, now(), now())
		ON CONFLICT (email)
		DO UPDATE SET
			provider = EXCLUDED.provider,
			updated_at = now()
		RETURNING ` + userColumns + `;
	`
	row := r.db.QueryRow(ctx, query, uuid.NewString(), email, []string{"USER"}, provider)

	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user %q: %w", email, err)
	}

	return user, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (*domain.User, error) {
	query := `
		DELETE FROM users
		WHERE id = $1
		RETURNING ` + userColumns + `;
	`
	row := r.db.QueryRow(ctx, query, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to delete user %q: %w", id, err)
	}

	return user, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, rt *domain.RefreshToken) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO refresh_tokens (token, user_id, device, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, device)
		DO UPDATE SET
			token = EXCLUDED.token,
			expires_at = EXCLUDED.expires_at
	`, rt.Token, rt.UserID, rt.Device, rt.ExpiresAt)

	return err
}

// Consume relies on DELETE being a single conditional statement: of two
// concurrent calls with the same value, exactly one gets the row back.
func (r *PostgresRepository) Consume(ctx context.Context, value string) (*domain.RefreshToken, error) {
	query := `
		DELETE FROM refresh_tokens
		WHERE token = $1
		RETURNING token, user_id, device, expires_at;
	`
	row := r.db.QueryRow(ctx, query, value)

	var rt domain.RefreshToken
	err := row.Scan(&rt.Token, &rt.UserID, &rt.Device, &rt.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to consume refresh token: %w", err)
	}

	return &rt, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Roles, &user.Provider,
		&user.IsBlocked, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
