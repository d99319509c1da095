package types

import "github.com/giftconnect/giftconnect-backend/pkg/enums"

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	UserID int64
	Role   enums.UserRole
}

// IsAdmin reports whether the caller holds the ADMIN role.
func (a Actor) IsAdmin() bool {
	return a.Role.IsAdmin()
}

// Owns reports whether the caller is the owner identified by ownerID.
func (a Actor) Owns(ownerID int64) bool {
	return a.UserID > 0 && a.UserID == ownerID
}
