package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/chopsqd/identity-service/internal/auth/service TokenGenerator

import (
	"context"
	"fmt"
	"time"

	"github.com/chopsqd/identity-service/internal/auth/domain"
	"github.com/chopsqd/identity-service/pkg/constant"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenGenerator interface {
	GenerateTokenPair(ctx context.Context, user *domain.User, device string) (*domain.TokenPair, error)
	VerifyAccessToken(tokenString string) (*JWTCustomClaims, error)
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
}

type TokenService struct {
	SigningSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	tokens domain.TokenRepository
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID string   `json:"id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}

func NewTokenService(signingSecret string, accessTTL, refreshTTL time.Duration, tokens domain.TokenRepository) *TokenService {
	return &TokenService{
		SigningSecret:   signingSecret,
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: refreshTTL,
		tokens:          tokens,
	}
}

// GenerateTokenPair is the single issuance event: a signed access token plus a
// rotated refresh-token record for (user, device).
func (ts *TokenService) GenerateTokenPair(ctx context.Context, user *domain.User, device string) (*domain.TokenPair, error) {
	accessToken, err := ts.issueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := ts.rotateRefreshToken(ctx, user.ID, device)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  constant.BearerPrefix + accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (ts *TokenService) issueAccessToken(user *domain.User) (string, error) {
	now := time.Now()

	claims := JWTCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		Roles:  user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.SigningSecret))
}

// rotateRefreshToken assigns a fresh opaque value and pushes the expiry
// forward. The (user_id, device) upsert guarantees at most one live token per
// device without a lookup-then-write race.
func (ts *TokenService) rotateRefreshToken(ctx context.Context, userID, device string) (*domain.RefreshToken, error) {
	rt := &domain.RefreshToken{
		Token:     uuid.NewString(),
		UserID:    userID,
		Device:    device,
		ExpiresAt: time.Now().Add(ts.RefreshTokenTTL),
	}

	if err := ts.tokens.Upsert(ctx, rt); err != nil {
		return nil, err
	}

	return rt, nil
}

func (ts *TokenService) GetAccessTokenTTL() time.Duration {
	return ts.AccessTokenTTL
}

func (ts *TokenService) GetRefreshTokenTTL() time.Duration {
	return ts.RefreshTokenTTL
}

// VerifyAccessToken parses and validates the given access token string.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ts.SigningSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
