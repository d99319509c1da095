package gifts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftconnect/giftconnect-backend/internal/storage"
	"github.com/giftconnect/giftconnect-backend/pkg/db/models"
	"github.com/giftconnect/giftconnect-backend/pkg/enums"
	pkgerrors "github.com/giftconnect/giftconnect-backend/pkg/errors"
	"github.com/giftconnect/giftconnect-backend/pkg/types"
)

var (
	vendorA = types.Actor{UserID: 10, Role: enums.UserRoleVendor}
	vendorB = types.Actor{UserID: 11, Role: enums.UserRoleVendor}
	admin   = types.Actor{UserID: 1, Role: enums.UserRoleAdmin}
)

func ptr[T any](v T) *T { return &v }

func newTestService(t *testing.T) (Service, *storage.MemStorage) {
	t.Helper()
	store := storage.NewMemStorage()
	svc, err := NewService(store, nil)
	require.NoError(t, err)
	return svc, store
}

func createGift(t *testing.T, svc Service, actor types.Actor, name string, price int64, category enums.GiftCategory) GiftDTO {
	t.Helper()
	gift, err := svc.Create(context.Background(), actor, CreateGiftInput{
		Name:        name,
		Description: name + " for the team",
		Price:       ptr(price),
		Category:    string(category),
		ImageURL:    "https://img.example.com/" + name,
	})
	require.NoError(t, err)
	return gift
}

func TestNewServiceRequiresStore(t *testing.T) {
	_, err := NewService(nil, nil)
	require.Error(t, err)
}

func TestCreateForcesOwnershipAndPending(t *testing.T) {
	svc, _ := newTestService(t)
	gift, err := svc.Create(context.Background(), vendorA, CreateGiftInput{
		Name: "  Mug ", Description: "Ceramic", Price: ptr(int64(1299)),
		Category: "Drinkware", ImageURL: "https://img/mug", EcoFriendly: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, vendorA.UserID, gift.VendorID)
	assert.False(t, gift.Approved)
	assert.Equal(t, "Mug", gift.Name)
	assert.True(t, gift.EcoFriendly)
	assert.False(t, gift.Brandable)
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), vendorA, CreateGiftInput{
		Name: "Thing", Description: "x", Price: ptr(int64(1)), Category: "Toys", ImageURL: "u",
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCreateAndUpdateRejectBlankText(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, vendorA, CreateGiftInput{
		Name: "   ", Description: "\t", Price: ptr(int64(100)), Category: string(enums.GiftCategoryOffice), ImageURL: "u",
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, map[string]any{"name": "is required", "description": "is required"}, pkgerrors.As(err).Details())

	gifts, err := store.GetGiftsByVendor(ctx, vendorA.UserID)
	require.NoError(t, err)
	assert.Empty(t, gifts)

	gift := createGift(t, svc, vendorA, "Stapler", 800, enums.GiftCategoryOffice)
	_, err = svc.Update(ctx, vendorA, gift.ID, UpdateGiftInput{ImageURL: ptr("  ")})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, map[string]any{"imageUrl": "is required"}, pkgerrors.As(err).Details())

	stored, err := store.GetGift(ctx, gift.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ImageURL)
}

func TestListFilters(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	mug := createGift(t, svc, vendorA, "Bamboo Mug", 1500, enums.GiftCategoryDrinkware)
	tee := createGift(t, svc, vendorB, "Logo Tee", 2500, enums.GiftCategoryApparel)
	bottle := createGift(t, svc, vendorA, "Bottle", 4000, enums.GiftCategoryDrinkware)
	_, err := store.ApproveGift(ctx, mug.ID, true)
	require.NoError(t, err)
	_, err = store.ApproveGift(ctx, tee.ID, true)
	require.NoError(t, err)
	_, err = store.UpdateGift(ctx, tee.ID, modelsPatchBrandable())
	require.NoError(t, err)

	all, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	approved, err := svc.List(ctx, ListFilter{Approved: ptr(true)})
	require.NoError(t, err)
	assert.Len(t, approved, 2)

	pending, err := svc.List(ctx, ListFilter{Approved: ptr(false)})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, bottle.ID, pending[0].ID)

	drinkware, err := svc.List(ctx, ListFilter{Category: "Drinkware"})
	require.NoError(t, err)
	assert.Len(t, drinkware, 2)

	brandable, err := svc.List(ctx, ListFilter{Brandable: true})
	require.NoError(t, err)
	require.Len(t, brandable, 1)
	assert.Equal(t, tee.ID, brandable[0].ID)

	search, err := svc.List(ctx, ListFilter{Search: "BAMBOO"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, mug.ID, search[0].ID)

	byDescription, err := svc.List(ctx, ListFilter{Search: "for the team"})
	require.NoError(t, err)
	assert.Len(t, byDescription, 3)

	priced, err := svc.List(ctx, ListFilter{MinPrice: ptr(int64(2000)), MaxPrice: ptr(int64(3000))})
	require.NoError(t, err)
	require.Len(t, priced, 1)
	assert.Equal(t, tee.ID, priced[0].ID)

	_, err = svc.List(ctx, ListFilter{MinPrice: ptr(int64(10)), MaxPrice: ptr(int64(5))})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestGetMissingGift(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Get(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "Gift not found", pkgerrors.As(err).Message())
}

func TestListForVendorOnlyReturnsOwnGifts(t *testing.T) {
	svc, _ := newTestService(t)
	createGift(t, svc, vendorA, "A", 100, enums.GiftCategoryTravel)
	createGift(t, svc, vendorB, "B", 100, enums.GiftCategoryTravel)
	createGift(t, svc, admin, "C", 100, enums.GiftCategoryTravel)

	mine, err := svc.ListForVendor(context.Background(), vendorA)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "A", mine[0].Name)

	adminOwn, err := svc.ListForVendor(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, adminOwn, 1)
	assert.Equal(t, "C", adminOwn[0].Name)
}

func TestUpdateRules(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	gift := createGift(t, svc, vendorA, "Mug", 1000, enums.GiftCategoryDrinkware)

	t.Run("not found", func(t *testing.T) {
		_, err := svc.Update(ctx, vendorA, 999, UpdateGiftInput{Name: ptr("x")})
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	})

	t.Run("other vendor forbidden", func(t *testing.T) {
		_, err := svc.Update(ctx, vendorB, gift.ID, UpdateGiftInput{Name: ptr("x")})
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
		assert.Equal(t, "You don't have permission to edit this gift", pkgerrors.As(err).Message())
	})

	t.Run("owner cannot self approve or move vendor", func(t *testing.T) {
		updated, err := svc.Update(ctx, vendorA, gift.ID, UpdateGiftInput{
			Price: ptr(int64(1200)), Approved: ptr(true), VendorID: ptr(vendorB.UserID),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1200), updated.Price)
		assert.False(t, updated.Approved)
		assert.Equal(t, vendorA.UserID, updated.VendorID)
	})

	t.Run("owner edit resets approval", func(t *testing.T) {
		_, err := store.ApproveGift(ctx, gift.ID, true)
		require.NoError(t, err)
		updated, err := svc.Update(ctx, vendorA, gift.ID, UpdateGiftInput{Description: ptr("new copy")})
		require.NoError(t, err)
		assert.False(t, updated.Approved)
		assert.Equal(t, "new copy", updated.Description)
	})

	t.Run("admin edit keeps approval and may set it", func(t *testing.T) {
		_, err := store.ApproveGift(ctx, gift.ID, true)
		require.NoError(t, err)
		updated, err := svc.Update(ctx, admin, gift.ID, UpdateGiftInput{Name: ptr("Admin Mug")})
		require.NoError(t, err)
		assert.True(t, updated.Approved)

		updated, err = svc.Update(ctx, admin, gift.ID, UpdateGiftInput{Approved: ptr(false)})
		require.NoError(t, err)
		assert.False(t, updated.Approved)
	})

	t.Run("invalid category", func(t *testing.T) {
		_, err := svc.Update(ctx, vendorA, gift.ID, UpdateGiftInput{Category: ptr("Toys")})
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	})
}

func TestDeleteRules(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	gift := createGift(t, svc, vendorA, "Mug", 1000, enums.GiftCategoryDrinkware)
	other := createGift(t, svc, vendorA, "Cap", 1000, enums.GiftCategoryApparel)

	err := svc.Delete(ctx, vendorB, gift.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	assert.Equal(t, "You don't have permission to delete this gift", pkgerrors.As(err).Message())

	require.NoError(t, svc.Delete(ctx, vendorA, gift.ID))
	require.NoError(t, svc.Delete(ctx, admin, other.ID))

	err = svc.Delete(ctx, vendorA, gift.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func modelsPatchBrandable() models.GiftPatch {
	return models.GiftPatch{Brandable: ptr(true)}
}
