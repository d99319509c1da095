package giftrequests

import (
	"context"
	"errors"
	"strings"

	"github.com/giftconnect/giftconnect-backend/internal/storage"
	"github.com/giftconnect/giftconnect-backend/pkg/db/models"
	"github.com/giftconnect/giftconnect-backend/pkg/enums"
	pkgerrors "github.com/giftconnect/giftconnect-backend/pkg/errors"
	"github.com/giftconnect/giftconnect-backend/pkg/logger"
	"github.com/giftconnect/giftconnect-backend/pkg/metrics"
	"github.com/giftconnect/giftconnect-backend/pkg/money"
	"github.com/giftconnect/giftconnect-backend/pkg/types"
)

// Service turns carts into gift requests and lists them.
type Service interface {
	Create(ctx context.Context, actor types.Actor, input CreateInput) (GiftRequestDTO, error)
	List(ctx context.Context, actor types.Actor) ([]GiftRequestDTO, error)
}

// ServiceParams groups dependencies for the gift request service.
type ServiceParams struct {
	Store   storage.Storage
	Logger  *logger.Logger
	Metrics *metrics.MarketplaceMetrics
}

type service struct {
	store   storage.Storage
	logg    *logger.Logger
	metrics *metrics.MarketplaceMetrics
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage is required")
	}
	return &service{store: params.Store, logg: params.Logger, metrics: params.Metrics}, nil
}

// Create snapshots the caller's cart into a Pending request and empties the
// cart. Both writes commit together or not at all.
func (s *service) Create(ctx context.Context, actor types.Actor, input CreateInput) (GiftRequestDTO, error) {
	notes := ""
	if input.Notes != nil {
		notes = strings.TrimSpace(*input.Notes)
	}

	var created *models.GiftRequest
	err := s.store.WithTx(ctx, func(tx storage.Storage) error {
		cartItems, err := tx.GetCartItems(ctx, actor.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}
		if len(cartItems) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "Your cart is empty")
		}

		snapshot, total, err := snapshotCart(ctx, tx, cartItems)
		if err != nil {
			return err
		}

		req := models.GiftRequest{
			UserID:     actor.UserID,
			TotalPrice: total,
			Status:     enums.RequestStatusPending,
			Notes:      &notes,
		}
		if err := req.SetItems(snapshot); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode snapshot")
		}

		created, err = tx.CreateGiftRequest(ctx, req)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create gift request")
		}
		if _, err := tx.ClearCart(ctx, actor.UserID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		return GiftRequestDTO{}, err
	}

	dto, err := FromModel(*created)
	if err != nil {
		return GiftRequestDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode gift request")
	}

	s.metrics.GiftRequestCreated(money.Dollars(dto.TotalPrice).InexactFloat64())
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"gift_request_id": dto.ID,
			"items":           len(dto.Items),
			"total":           money.Format(dto.TotalPrice),
		})
		s.logg.Info(logCtx, "gift_request.created")
	}
	return dto, nil
}

func snapshotCart(ctx context.Context, tx storage.Storage, cartItems []models.CartItem) ([]models.GiftRequestItem, int64, error) {
	snapshot := make([]models.GiftRequestItem, 0, len(cartItems))
	lines := make([]money.Line, 0, len(cartItems))
	for _, item := range cartItems {
		gift, err := tx.GetGift(ctx, item.GiftID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, 0, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Gift not found")
			}
			return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load gift")
		}
		snapshot = append(snapshot, models.GiftRequestItem{
			GiftID:   gift.ID,
			Quantity: item.Quantity,
			Price:    gift.Price,
			Name:     gift.Name,
		})
		lines = append(lines, money.Line{UnitCents: gift.Price, Quantity: item.Quantity})
	}
	total, err := money.Sum(lines)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "cart total is too large")
	}
	return snapshot, total, nil
}

// List returns the caller's own requests for HR and every request for admins.
func (s *service) List(ctx context.Context, actor types.Actor) ([]GiftRequestDTO, error) {
	var filter *int64
	switch actor.Role {
	case enums.UserRoleAdmin:
	case enums.UserRoleHR:
		filter = &actor.UserID
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Forbidden")
	}

	reqs, err := s.store.GetGiftRequests(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list gift requests")
	}
	return FromModels(reqs)
}

// FromModels decodes a batch of stored requests.
func FromModels(reqs []models.GiftRequest) ([]GiftRequestDTO, error) {
	out := make([]GiftRequestDTO, 0, len(reqs))
	for _, r := range reqs {
		dto, err := FromModel(r)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode gift request")
		}
		out = append(out, dto)
	}
	return out, nil
}
