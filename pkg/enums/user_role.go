package enums

import "fmt"

// UserRole represents the platform-wide role attached to every account.
type UserRole string

const (
	UserRoleHR     UserRole = "HR"
	UserRoleVendor UserRole = "VENDOR"
	UserRoleAdmin  UserRole = "ADMIN"
)

var validUserRoles = []UserRole{
	UserRoleHR,
	UserRoleVendor,
	UserRoleAdmin,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// Allows reports whether an actor holding r may act as required.
// ADMIN satisfies every role requirement.
func (r UserRole) Allows(required UserRole) bool {
	if !r.IsValid() {
		return false
	}
	return r == required || r == UserRoleAdmin
}

// IsAdmin reports whether the role is ADMIN.
func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
