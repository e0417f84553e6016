package dto

import (
	"time"

	"github.com/chopsqd/identity-service/internal/auth/domain"
)

// UserOutput is the sanitized shape returned to clients. Password hash,
// provider tag and blocked flag never leave the service.
type UserOutput struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewUserOutput(user *domain.User) UserOutput {
	return UserOutput{
		ID:        user.ID,
		Email:     user.Email,
		Roles:     user.Roles,
		UpdatedAt: user.UpdatedAt,
	}
}
