package auth

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/giftconnect/giftconnect-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   int64
	Username string
	Role     enums.UserRole
	// JTI doubles as the session key; a fresh one is generated when empty.
	JTI string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID   int64          `json:"uid"`
	Username string         `json:"username"`
	Role     enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Payload rebuilds the minting payload from parsed claims, keeping the jti.
func (c *AccessTokenClaims) Payload() AccessTokenPayload {
	return AccessTokenPayload{
		UserID:   c.UserID,
		Username: c.Username,
		Role:     c.Role,
		JTI:      c.ID,
	}
}

// Subject renders the user id the way it is stored in the sub claim.
func subject(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
