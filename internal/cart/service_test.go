package cart

import (
	"context"
	"errors"
	"math"
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
	hrUser  = types.Actor{UserID: 20, Role: enums.UserRoleHR}
	hrOther = types.Actor{UserID: 21, Role: enums.UserRoleHR}
	admin   = types.Actor{UserID: 1, Role: enums.UserRoleAdmin}
)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	svc      Service
	store    *storage.MemStorage
	approved *models.Gift
	pending  *models.Gift
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemStorage()
	svc, err := NewService(store, nil)
	require.NoError(t, err)

	approved, err := store.CreateGift(ctx, models.Gift{Name: "Mug", Description: "d", Price: 3500, VendorID: 5, Category: enums.GiftCategoryDrinkware, ImageURL: "u"})
	require.NoError(t, err)
	approved, err = store.ApproveGift(ctx, approved.ID, true)
	require.NoError(t, err)
	pending, err := store.CreateGift(ctx, models.Gift{Name: "Tee", Description: "d", Price: 4500, VendorID: 5, Category: enums.GiftCategoryApparel, ImageURL: "u"})
	require.NoError(t, err)

	return fixture{svc: svc, store: store, approved: approved, pending: pending}
}

func TestAddDefaultsQuantityAndMerges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Add(ctx, hrUser, AddItemInput{GiftID: f.approved.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Quantity)
	assert.Equal(t, "Mug", first.Gift.Name)

	second, err := f.svc.Add(ctx, hrUser, AddItemInput{GiftID: f.approved.ID, Quantity: ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 4, second.Quantity)

	items, err := f.svc.List(ctx, hrUser)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestAddRejectsMissingAndUnapprovedGifts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, hrUser, AddItemInput{GiftID: 999})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "Gift not found", pkgerrors.As(err).Message())

	_, err = f.svc.Add(ctx, hrUser, AddItemInput{GiftID: f.pending.ID})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, "This gift is not available for purchase", pkgerrors.As(err).Message())

	_, err = f.svc.Add(ctx, hrUser, AddItemInput{GiftID: f.approved.ID, Quantity: ptr(0)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestAddCapsMergedQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, bad := range []int{math.MaxInt, storage.MaxCartQuantity + 1, -5} {
		_, err := f.svc.Add(ctx, hrUser, AddItemInput{GiftID: f.approved.ID, Quantity: ptr(bad)})
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "quantity %d", bad)
		assert.Equal(t, "Invalid quantity", pkgerrors.As(err).Message())
	}

	full, err := f.svc.Add(ctx, hrUser, AddItemInput{GiftID: f.approved.ID, Quantity: ptr(storage.MaxCartQuantity)})
	require.NoError(t, err)

	_, err = f.svc.Add(ctx, hrUser, AddItemInput{GiftID: f.approved.ID, Quantity: ptr(1)})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, "Invalid quantity", pkgerrors.As(err).Message())

	_, err = f.svc.UpdateQuantity(ctx, hrUser, full.ID, UpdateItemInput{Quantity: ptr(math.MaxInt)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	items, err := f.svc.List(ctx, hrUser)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, storage.MaxCartQuantity, items[0].Quantity)
}

func TestListSkipsVanishedGifts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Add(ctx, hrUser, AddItemInput{GiftID: f.approved.ID})
	require.NoError(t, err)

	_, err = f.store.DeleteGift(ctx, f.approved.ID)
	require.NoError(t, err)

	items, err := f.svc.List(ctx, hrUser)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpdateQuantityRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item, err := f.svc.Add(ctx, hrUser, AddItemInput{GiftID: f.approved.ID})
	require.NoError(t, err)

	_, err = f.svc.UpdateQuantity(ctx, hrUser, 999, UpdateItemInput{Quantity: ptr(2)})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "Cart item not found", pkgerrors.As(err).Message())

	_, err = f.svc.UpdateQuantity(ctx, hrOther, item.ID, UpdateItemInput{Quantity: ptr(2)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	_, err = f.svc.UpdateQuantity(ctx, admin, item.ID, UpdateItemInput{Quantity: ptr(2)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden), "admins get no ownership override")

	for _, bad := range []*int{nil, ptr(0), ptr(-1)} {
		_, err = f.svc.UpdateQuantity(ctx, hrUser, item.ID, UpdateItemInput{Quantity: bad})
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
		assert.Equal(t, "Invalid quantity", pkgerrors.As(err).Message())
	}

	updated, err := f.svc.UpdateQuantity(ctx, hrUser, item.ID, UpdateItemInput{Quantity: ptr(6)})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Quantity)
	assert.Equal(t, f.approved.ID, updated.Gift.ID)
}

func TestRemoveRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item, err := f.svc.Add(ctx, hrUser, AddItemInput{GiftID: f.approved.ID})
	require.NoError(t, err)

	err = f.svc.Remove(ctx, hrOther, item.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	assert.Equal(t, "You don't have permission to remove this cart item", pkgerrors.As(err).Message())

	require.NoError(t, f.svc.Remove(ctx, hrUser, item.ID))

	err = f.svc.Remove(ctx, hrUser, item.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

type failingStore struct {
	*storage.MemStorage
}

func (failingStore) GetCartItems(context.Context, int64) ([]models.CartItem, error) {
	return nil, errors.New("disk on fire")
}

func TestListSurfacesStorageFailureAsInternal(t *testing.T) {
	svc, err := NewService(failingStore{MemStorage: storage.NewMemStorage()}, nil)
	require.NoError(t, err)
	_, err = svc.List(context.Background(), hrUser)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
}
