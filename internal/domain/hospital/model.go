package hospital

import (
	"time"

	"github.com/google/uuid"
)

// Hospital is a tenant account. All predictions are scoped to one hospital.
type Hospital struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Name             string    `json:"name"`
	Location         string    `json:"location"`
	ICUTotalCapacity int       `json:"icu_total_capacity"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// RegisterRequest is the payload for creating a hospital account.
type RegisterRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	Name             string `json:"name"`
	Location         string `json:"location"`
	ICUTotalCapacity int    `json:"icu_total_capacity"`
}

// LoginRequest is the payload for obtaining an access token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
