package admin

import (
	"context"
	"errors"

	"github.com/giftconnect/giftconnect-backend/internal/giftrequests"
	"github.com/giftconnect/giftconnect-backend/internal/gifts"
	"github.com/giftconnect/giftconnect-backend/internal/storage"
	"github.com/giftconnect/giftconnect-backend/internal/users"
	"github.com/giftconnect/giftconnect-backend/pkg/enums"
	pkgerrors "github.com/giftconnect/giftconnect-backend/pkg/errors"
	"github.com/giftconnect/giftconnect-backend/pkg/logger"
	"github.com/giftconnect/giftconnect-backend/pkg/metrics"
	"github.com/giftconnect/giftconnect-backend/pkg/types"
)

// Service groups the moderation operations reserved for administrators.
// Callers must already have passed the admin guard.
type Service interface {
	PendingGifts(ctx context.Context) ([]gifts.GiftDTO, error)
	ApproveGift(ctx context.Context, actor types.Actor, id int64, input ApproveGiftInput) (gifts.GiftDTO, error)
	ListUsers(ctx context.Context) ([]users.UserDTO, error)
	ChangeRole(ctx context.Context, actor types.Actor, id int64, input ChangeRoleInput) (*users.UserDTO, error)
	Stats(ctx context.Context) (StatsDTO, error)
	UpdateRequestStatus(ctx context.Context, actor types.Actor, id int64, input UpdateStatusInput) (giftrequests.GiftRequestDTO, error)
}

// ServiceParams groups the admin service dependencies.
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

func (s *service) PendingGifts(ctx context.Context) ([]gifts.GiftDTO, error) {
	approved := false
	list, err := s.store.GetAllGifts(ctx, &approved)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list pending gifts")
	}
	return gifts.FromModels(list), nil
}

// ApproveGift sets the approval flag. Repeating the same value is a no-op
// that still succeeds.
func (s *service) ApproveGift(ctx context.Context, actor types.Actor, id int64, input ApproveGiftInput) (gifts.GiftDTO, error) {
	approved, ok := input.Approved.(bool)
	if !ok {
		return gifts.GiftDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "Invalid approved status")
	}
	gift, err := s.store.ApproveGift(ctx, id, approved)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return gifts.GiftDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Gift not found")
		}
		return gifts.GiftDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "approve gift")
	}

	s.metrics.GiftApproval(approved)
	s.audit(ctx, actor, "admin.gift_approval", map[string]any{"gift_id": id, "approved": approved})
	return gifts.FromModel(*gift), nil
}

func (s *service) ListUsers(ctx context.Context) ([]users.UserDTO, error) {
	list, err := s.store.GetAllUsers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	return users.FromModels(list), nil
}

func (s *service) ChangeRole(ctx context.Context, actor types.Actor, id int64, input ChangeRoleInput) (*users.UserDTO, error) {
	raw, _ := input.Role.(string)
	role, err := enums.ParseUserRole(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid role")
	}
	user, err := s.store.UpdateUserRole(ctx, id, role)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "User not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user role")
	}

	s.audit(ctx, actor, "admin.role_changed", map[string]any{"target_user_id": id, "role": string(role)})
	return users.FromModel(user), nil
}

func (s *service) Stats(ctx context.Context) (StatsDTO, error) {
	stats, err := s.store.GetStats(ctx)
	if err != nil {
		return StatsDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load stats")
	}
	return statsFromStorage(stats), nil
}

// UpdateRequestStatus moves a request to any of the four known statuses.
// Transitions are not ordered; an admin may reopen a completed request.
func (s *service) UpdateRequestStatus(ctx context.Context, actor types.Actor, id int64, input UpdateStatusInput) (giftrequests.GiftRequestDTO, error) {
	raw, _ := input.Status.(string)
	status, err := enums.ParseRequestStatus(raw)
	if err != nil {
		return giftrequests.GiftRequestDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid status")
	}
	req, err := s.store.UpdateGiftRequestStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return giftrequests.GiftRequestDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Gift request not found")
		}
		return giftrequests.GiftRequestDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update gift request status")
	}

	dto, err := giftrequests.FromModel(*req)
	if err != nil {
		return giftrequests.GiftRequestDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode gift request")
	}
	s.metrics.GiftRequestStatus(string(status))
	s.audit(ctx, actor, "admin.gift_request_status", map[string]any{"gift_request_id": id, "status": string(status)})
	return dto, nil
}

func (s *service) audit(ctx context.Context, actor types.Actor, msg string, fields map[string]any) {
	if s.logg == nil {
		return
	}
	fields["admin_id"] = actor.UserID
	s.logg.Info(s.logg.WithFields(ctx, fields), msg)
}
