package users

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftconnect/giftconnect-backend/internal/storage"
	"github.com/giftconnect/giftconnect-backend/pkg/db/models"
	"github.com/giftconnect/giftconnect-backend/pkg/enums"
	pkgerrors "github.com/giftconnect/giftconnect-backend/pkg/errors"
)

func seedVendor(t *testing.T, store *storage.MemStorage) *models.User {
	t.Helper()
	company := "Mugs Inc"
	user, err := store.CreateUser(context.Background(), models.User{
		Username:     "mugs",
		PasswordHash: "$argon2id$secret",
		Email:        "mugs@example.com",
		Name:         "Mugs Vendor",
		Company:      &company,
		Role:         enums.UserRoleVendor,
	})
	require.NoError(t, err)
	return user
}

func TestProfileOmitsPrivateFields(t *testing.T) {
	store := storage.NewMemStorage()
	vendor := seedVendor(t, store)
	svc, err := NewService(store)
	require.NoError(t, err)

	profile, err := svc.Profile(context.Background(), vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mugs Vendor", profile.Name)
	require.NotNil(t, profile.Company)
	assert.Equal(t, "Mugs Inc", *profile.Company)

	raw, err := json.Marshal(profile)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "mugs@example.com")
}

func TestCurrentOmitsPassword(t *testing.T) {
	store := storage.NewMemStorage()
	vendor := seedVendor(t, store)
	svc, err := NewService(store)
	require.NoError(t, err)

	user, err := svc.Current(context.Background(), vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, "mugs@example.com", user.Email)

	raw, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "argon2id")
}

func TestProfileNotFound(t *testing.T) {
	svc, err := NewService(storage.NewMemStorage())
	require.NoError(t, err)

	_, err = svc.Profile(context.Background(), 99)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "User not found", pkgerrors.As(err).Message())
}

func TestFromModelsStripsEveryHash(t *testing.T) {
	out := FromModels([]models.User{
		{ID: 1, Username: "a", PasswordHash: "h1", Role: enums.UserRoleHR},
		{ID: 2, Username: "b", PasswordHash: "h2", Role: enums.UserRoleAdmin},
	})
	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "h1")
	assert.NotContains(t, string(raw), "h2")
	assert.Len(t, out, 2)
}
