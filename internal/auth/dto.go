package auth

import (
	"github.com/giftconnect/giftconnect-backend/internal/users"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the self-service signup payload. Role defaults to HR.
type RegisterRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Password string  `json:"password" validate:"required,min=6,max=128"`
	Email    string  `json:"email" validate:"required,email"`
	Name     string  `json:"name" validate:"required,max=100"`
	Company  *string `json:"company,omitempty" validate:"omitempty,max=100"`
	Role     string  `json:"role,omitempty"`
}

// RefreshRequest carries the refresh token paired with the bearer token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// TokenPair is returned by refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	User         *users.UserDTO `json:"user"`
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
}
