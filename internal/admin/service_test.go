package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftconnect/giftconnect-backend/internal/storage"
	"github.com/giftconnect/giftconnect-backend/pkg/db/models"
	"github.com/giftconnect/giftconnect-backend/pkg/enums"
	pkgerrors "github.com/giftconnect/giftconnect-backend/pkg/errors"
	"github.com/giftconnect/giftconnect-backend/pkg/logger"
	"github.com/giftconnect/giftconnect-backend/pkg/metrics"
	"github.com/giftconnect/giftconnect-backend/pkg/types"
)

var adminActor = types.Actor{UserID: 1, Role: enums.UserRoleAdmin}

type fixture struct {
	store *storage.MemStorage
	svc   Service
	logs  *bytes.Buffer
	reg   *prometheus.Registry
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := storage.NewMemStorage()
	logs := &bytes.Buffer{}
	reg := prometheus.NewRegistry()
	svc, err := NewService(ServiceParams{
		Store:   store,
		Logger:  logger.New(logger.Options{ServiceName: "test", Output: logs}),
		Metrics: metrics.NewMarketplaceMetrics(reg),
	})
	require.NoError(t, err)
	return fixture{store: store, svc: svc, logs: logs, reg: reg}
}

func (f fixture) gift(t *testing.T, name string) *models.Gift {
	t.Helper()
	g, err := f.store.CreateGift(context.Background(), models.Gift{
		Name: name, Description: "d", Price: 1200, VendorID: 7,
		Category: enums.GiftCategoryWellness, ImageURL: "u",
	})
	require.NoError(t, err)
	return g
}

func TestNewServiceRequiresStore(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}

func TestPendingGiftsOnlyUnapproved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.gift(t, "A")
	f.gift(t, "B")
	_, err := f.svc.ApproveGift(ctx, adminActor, a.ID, ApproveGiftInput{Approved: true})
	require.NoError(t, err)

	pending, err := f.svc.PendingGifts(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "B", pending[0].Name)
}

func TestApproveGift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g := f.gift(t, "Mug")

	t.Run("rejects non boolean", func(t *testing.T) {
		for _, value := range []any{nil, "true", 1.0} {
			_, err := f.svc.ApproveGift(ctx, adminActor, g.ID, ApproveGiftInput{Approved: value})
			require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
			assert.Equal(t, "Invalid approved status", pkgerrors.As(err).Message())
		}
	})

	t.Run("missing gift", func(t *testing.T) {
		_, err := f.svc.ApproveGift(ctx, adminActor, 999, ApproveGiftInput{Approved: true})
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
		assert.Equal(t, "Gift not found", pkgerrors.As(err).Message())
	})

	t.Run("idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			dto, err := f.svc.ApproveGift(ctx, adminActor, g.ID, ApproveGiftInput{Approved: true})
			require.NoError(t, err)
			assert.True(t, dto.Approved)
		}
		assert.Contains(t, f.logs.String(), "admin.gift_approval")
		count, err := testutil.GatherAndCount(f.reg, "giftconnect_gift_approvals_total")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestListUsersStripsPasswords(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.CreateUser(context.Background(), models.User{Username: "hr", PasswordHash: "secret-hash", Email: "hr@x.com", Name: "HR", Role: enums.UserRoleHR})
	require.NoError(t, err)

	list, err := f.svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	raw, err := json.Marshal(list)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-hash")
}

func TestChangeRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, err := f.store.CreateUser(ctx, models.User{Username: "v", PasswordHash: "h", Email: "v@x.com", Name: "V", Role: enums.UserRoleHR})
	require.NoError(t, err)

	_, err = f.svc.ChangeRole(ctx, adminActor, user.ID, ChangeRoleInput{Role: "SUPERUSER"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, "Invalid role", pkgerrors.As(err).Message())

	_, err = f.svc.ChangeRole(ctx, adminActor, 404, ChangeRoleInput{Role: "VENDOR"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "User not found", pkgerrors.As(err).Message())

	updated, err := f.svc.ChangeRole(ctx, adminActor, user.ID, ChangeRoleInput{Role: "VENDOR"})
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleVendor, updated.Role)
}

func TestStatsUsesCamelCaseKeys(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g := f.gift(t, "A")
	f.gift(t, "B")
	_, err := f.svc.ApproveGift(ctx, adminActor, g.ID, ApproveGiftInput{Approved: true})
	require.NoError(t, err)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatsDTO{TotalGifts: 2, TotalApprovedGifts: 1}, stats)

	raw, err := json.Marshal(stats)
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalUsers":0,"totalGifts":2,"totalApprovedGifts":1,"totalRequests":0}`, string(raw))
}

func TestUpdateRequestStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req, err := f.store.CreateGiftRequest(ctx, models.GiftRequest{UserID: 3, Items: []byte("[]")})
	require.NoError(t, err)

	_, err = f.svc.UpdateRequestStatus(ctx, adminActor, req.ID, UpdateStatusInput{Status: "Shipped"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, "Invalid status", pkgerrors.As(err).Message())

	_, err = f.svc.UpdateRequestStatus(ctx, adminActor, 999, UpdateStatusInput{Status: "Approved"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "Gift request not found", pkgerrors.As(err).Message())

	dto, err := f.svc.UpdateRequestStatus(ctx, adminActor, req.ID, UpdateStatusInput{Status: "Completed"})
	require.NoError(t, err)
	assert.Equal(t, enums.RequestStatusCompleted, dto.Status)

	// completed requests can be moved back
	dto, err = f.svc.UpdateRequestStatus(ctx, adminActor, req.ID, UpdateStatusInput{Status: "Pending"})
	require.NoError(t, err)
	assert.Equal(t, enums.RequestStatusPending, dto.Status)
}
