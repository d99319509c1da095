package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRoleAllows(t *testing.T) {
	cases := []struct {
		actor    UserRole
		required UserRole
		want     bool
	}{
		{UserRoleHR, UserRoleHR, true},
		{UserRoleHR, UserRoleVendor, false},
		{UserRoleVendor, UserRoleVendor, true},
		{UserRoleVendor, UserRoleHR, false},
		{UserRoleAdmin, UserRoleHR, true},
		{UserRoleAdmin, UserRoleVendor, true},
		{UserRoleAdmin, UserRoleAdmin, true},
		{UserRoleHR, UserRoleAdmin, false},
		{UserRole("GUEST"), UserRoleHR, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, tc.actor.Allows(tc.required), "%s allows %s", tc.actor, tc.required)
	}
}

func TestParseUserRole(t *testing.T) {
	role, err := ParseUserRole("VENDOR")
	require.NoError(t, err)
	assert.Equal(t, UserRoleVendor, role)

	_, err = ParseUserRole("vendor")
	assert.Error(t, err, "roles are case-sensitive")
}

func TestParseGiftCategory(t *testing.T) {
	for _, c := range GiftCategories() {
		parsed, err := ParseGiftCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
	assert.Len(t, GiftCategories(), 8)

	_, err := ParseGiftCategory("Jewelry")
	assert.Error(t, err)
}

func TestParseRequestStatus(t *testing.T) {
	status, err := ParseRequestStatus("Completed")
	require.NoError(t, err)
	assert.Equal(t, RequestStatusCompleted, status)
	assert.True(t, status.IsValid())

	_, err = ParseRequestStatus("Shipped")
	assert.Error(t, err)
	assert.False(t, RequestStatus("Shipped").IsValid())
}
