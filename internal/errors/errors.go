package errors

import (
	"errors"
)

var (
	ErrEmailAlreadyInUse    = errors.New("email already in use")
	ErrPasswordsDoNotMatch  = errors.New("passwords do not match")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserBlocked          = errors.New("user is blocked")
	ErrInvalidRefreshToken  = errors.New("refresh token invalid or already used")
	ErrRefreshTokenExpired  = errors.New("refresh token expired")
	ErrUserNotFound         = errors.New("user not found")
	ErrForbidden            = errors.New("operation not permitted")
	ErrProviderAuthFailed   = errors.New("provider authentication failed")
	ErrUnknownProvider      = errors.New("unknown provider")
	ErrMissingRefreshCookie = errors.New("refresh token cookie missing")
)
