package giftrequests

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftconnect/giftconnect-backend/internal/storage"
	"github.com/giftconnect/giftconnect-backend/pkg/db/models"
	"github.com/giftconnect/giftconnect-backend/pkg/enums"
	pkgerrors "github.com/giftconnect/giftconnect-backend/pkg/errors"
	"github.com/giftconnect/giftconnect-backend/pkg/logger"
	"github.com/giftconnect/giftconnect-backend/pkg/types"
)

var (
	hrUser = types.Actor{UserID: 20, Role: enums.UserRoleHR}
	hrPeer = types.Actor{UserID: 21, Role: enums.UserRoleHR}
	vendor = types.Actor{UserID: 5, Role: enums.UserRoleVendor}
	admin  = types.Actor{UserID: 1, Role: enums.UserRoleAdmin}
)

func ptr[T any](v T) *T { return &v }

func approvedGift(t *testing.T, store *storage.MemStorage, name string, price int64) *models.Gift {
	t.Helper()
	ctx := context.Background()
	gift, err := store.CreateGift(ctx, models.Gift{Name: name, Description: "d", Price: price, VendorID: vendor.UserID, Category: enums.GiftCategoryOffice, ImageURL: "u"})
	require.NoError(t, err)
	gift, err = store.ApproveGift(ctx, gift.ID, true)
	require.NoError(t, err)
	return gift
}

func TestCreateSnapshotsCartAndClearsIt(t *testing.T) {
	store := storage.NewMemStorage()
	buf := &bytes.Buffer{}
	svc, err := NewService(ServiceParams{Store: store, Logger: logger.New(logger.Options{ServiceName: "test", Output: buf})})
	require.NoError(t, err)
	ctx := context.Background()

	pen := approvedGift(t, store, "Pen", 3500)
	pad := approvedGift(t, store, "Pad", 4500)
	_, err = store.AddToCart(ctx, models.CartItem{UserID: hrUser.UserID, GiftID: pen.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = store.AddToCart(ctx, models.CartItem{UserID: hrUser.UserID, GiftID: pad.ID, Quantity: 1})
	require.NoError(t, err)

	req, err := svc.Create(ctx, hrUser, CreateInput{Notes: ptr(" for onboarding ")})
	require.NoError(t, err)
	assert.Equal(t, int64(11500), req.TotalPrice)
	assert.Equal(t, enums.RequestStatusPending, req.Status)
	assert.Equal(t, "for onboarding", req.Notes)
	require.Len(t, req.Items, 2)
	assert.Equal(t, models.GiftRequestItem{GiftID: pen.ID, Quantity: 2, Price: 3500, Name: "Pen"}, req.Items[0])
	assert.Contains(t, buf.String(), "gift_request.created")

	cart, err := store.GetCartItems(ctx, hrUser.UserID)
	require.NoError(t, err)
	assert.Empty(t, cart)

	// snapshot is decoupled from later catalog edits
	_, err = store.UpdateGift(ctx, pen.ID, models.GiftPatch{Name: ptr("Renamed"), Price: ptr(int64(9900))})
	require.NoError(t, err)
	_, err = store.UpdateGift(ctx, pad.ID, models.GiftPatch{Price: ptr(int64(1))})
	require.NoError(t, err)

	listed, err := svc.List(ctx, hrUser)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Pen", listed[0].Items[0].Name)
	assert.Equal(t, int64(3500), listed[0].Items[0].Price)
	assert.Equal(t, int64(4500), listed[0].Items[1].Price)
	assert.Equal(t, int64(11500), listed[0].TotalPrice)

	stored, err := store.GetGiftRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(11500), stored.TotalPrice)
}

func TestCreateRejectsEmptyCart(t *testing.T) {
	store := storage.NewMemStorage()
	svc, err := NewService(ServiceParams{Store: store})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), hrUser, CreateInput{})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, "Your cart is empty", pkgerrors.As(err).Message())

	reqs, err := store.GetGiftRequests(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestCreateDefaultsNotesToEmpty(t *testing.T) {
	store := storage.NewMemStorage()
	svc, err := NewService(ServiceParams{Store: store})
	require.NoError(t, err)
	ctx := context.Background()
	gift := approvedGift(t, store, "Cap", 900)
	_, err = store.AddToCart(ctx, models.CartItem{UserID: hrUser.UserID, GiftID: gift.ID, Quantity: 1})
	require.NoError(t, err)

	req, err := svc.Create(ctx, hrUser, CreateInput{})
	require.NoError(t, err)
	assert.Equal(t, "", req.Notes)
	assert.Equal(t, int64(900), req.TotalPrice)
}

type vanishingGiftStore struct {
	*storage.MemStorage
}

func (s vanishingGiftStore) WithTx(ctx context.Context, fn func(tx storage.Storage) error) error {
	return s.MemStorage.WithTx(ctx, func(tx storage.Storage) error {
		return fn(vanishingTx{Storage: tx})
	})
}

type vanishingTx struct {
	storage.Storage
}

func (vanishingTx) GetGift(context.Context, int64) (*models.Gift, error) {
	return nil, storage.ErrNotFound
}

func TestCreateFailsWhenGiftVanishedAndKeepsCart(t *testing.T) {
	mem := storage.NewMemStorage()
	svc, err := NewService(ServiceParams{Store: vanishingGiftStore{MemStorage: mem}})
	require.NoError(t, err)
	ctx := context.Background()
	gift := approvedGift(t, mem, "Cap", 900)
	_, err = mem.AddToCart(ctx, models.CartItem{UserID: hrUser.UserID, GiftID: gift.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.Create(ctx, hrUser, CreateInput{})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	cart, err := mem.GetCartItems(ctx, hrUser.UserID)
	require.NoError(t, err)
	assert.Len(t, cart, 1)
}

func TestListVisibilityByRole(t *testing.T) {
	store := storage.NewMemStorage()
	svc, err := NewService(ServiceParams{Store: store})
	require.NoError(t, err)
	ctx := context.Background()

	for _, userID := range []int64{hrUser.UserID, hrPeer.UserID} {
		_, err := store.CreateGiftRequest(ctx, models.GiftRequest{UserID: userID, Items: []byte("[]")})
		require.NoError(t, err)
	}

	own, err := svc.List(ctx, hrUser)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, hrUser.UserID, own[0].UserID)

	all, err := svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.List(ctx, vendor)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}
