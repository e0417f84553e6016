package service

import (
	"context"
	"time"

	"github.com/chopsqd/identity-service/internal/auth/domain"
	"github.com/chopsqd/identity-service/internal/auth/dto"
	autherror "github.com/chopsqd/identity-service/internal/errors"
	"go.uber.org/zap"
)

// AuthService composes the user directory, the token store and the token
// issuer into the register / login / provider-login / refresh / logout
// contract.
type AuthService struct {
	users  *UserService
	tokens domain.TokenRepository
	issuer TokenGenerator
	log    *zap.Logger
}

func NewAuthService(users *UserService, tokens domain.TokenRepository, issuer TokenGenerator, log *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		issuer: issuer,
		log:    log,
	}
}

// Register creates a password-authenticated user. It does not issue tokens:
// registration and first login are distinct events.
func (s *AuthService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	if input.Password != input.PasswordRepeat {
		return nil, autherror.ErrPasswordsDoNotMatch
	}

	// Bypass the cache: a TTL-stale miss must not let a duplicate through.
	existingUser, err := s.users.FindOne(ctx, input.Email, true)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	return s.users.Create(ctx, input.Email, input.Password)
}

func (s *AuthService) Login(ctx context.Context, input dto.LoginInput) (*domain.TokenPair, error) {
	user, err := s.users.FindOne(ctx, input.Email, false)
	if err != nil {
		return nil, err
	}

	if user == nil || !VerifyPassword(input.Password, user.PasswordHash) {
		return nil, autherror.ErrInvalidCredentials
	}

	if user.IsBlocked {
		return nil, autherror.ErrUserBlocked
	}

	return s.issuer.GenerateTokenPair(ctx, user, input.Device)
}

// ProviderAuth signs a user in on the word of an external identity provider.
// The account is created on first sight; the provider tag is last-write-wins.
func (s *AuthService) ProviderAuth(ctx context.Context, email, device, provider string) (*domain.TokenPair, error) {
	user, err := s.users.UpsertProvider(ctx, email, provider)
	if err != nil {
		s.log.Error("provider upsert failed", zap.String("provider", provider), zap.Error(err))
		return nil, autherror.ErrProviderAuthFailed
	}

	if user.IsBlocked {
		return nil, autherror.ErrUserBlocked
	}

	return s.issuer.GenerateTokenPair(ctx, user, device)
}

// Refresh consumes the presented token and mints a new pair. Consumption is a
// single atomic delete, so of two concurrent calls with the same value exactly
// one proceeds past the nil check.
func (s *AuthService) Refresh(ctx context.Context, input dto.RefreshInput) (*domain.TokenPair, error) {
	token, err := s.tokens.Consume(ctx, input.RefreshToken)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, autherror.ErrInvalidRefreshToken
	}

	if token.Expired(time.Now()) {
		// Already deleted by the consume above; just refuse it.
		return nil, autherror.ErrRefreshTokenExpired
	}

	// The user may have changed since the token was minted; force a
	// repository read.
	user, err := s.users.FindOne(ctx, token.UserID, true)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	if user.IsBlocked {
		return nil, autherror.ErrUserBlocked
	}

	return s.issuer.GenerateTokenPair(ctx, user, input.Device)
}

// Logout drops the presented token. Deleting an absent token is not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	_, err := s.tokens.Consume(ctx, refreshToken)
	return err
}
