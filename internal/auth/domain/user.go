package domain

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string // empty for provider-only accounts
	Roles        []string
	Provider     string
	IsBlocked    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type RefreshToken struct {
	Token     string
	UserID    string
	Device    string
	ExpiresAt time.Time
}

func (rt *RefreshToken) Expired(now time.Time) bool {
	return now.After(rt.ExpiresAt)
}

type TokenPair struct {
	AccessToken  string
	RefreshToken *RefreshToken
}
