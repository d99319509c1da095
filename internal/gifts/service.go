package gifts

import (
	"context"
	"errors"
	"strings"

	"github.com/giftconnect/giftconnect-backend/internal/storage"
	"github.com/giftconnect/giftconnect-backend/pkg/db/models"
	"github.com/giftconnect/giftconnect-backend/pkg/enums"
	pkgerrors "github.com/giftconnect/giftconnect-backend/pkg/errors"
	"github.com/giftconnect/giftconnect-backend/pkg/metrics"
	"github.com/giftconnect/giftconnect-backend/pkg/types"
)

const (
	msgGiftNotFound  = "Gift not found"
	msgEditForbidden = "You don't have permission to edit this gift"
)

// Service exposes the catalog and vendor gift management rules.
type Service interface {
	List(ctx context.Context, filter ListFilter) ([]GiftDTO, error)
	Get(ctx context.Context, id int64) (GiftDTO, error)
	ListForVendor(ctx context.Context, actor types.Actor) ([]GiftDTO, error)
	Create(ctx context.Context, actor types.Actor, input CreateGiftInput) (GiftDTO, error)
	Update(ctx context.Context, actor types.Actor, id int64, input UpdateGiftInput) (GiftDTO, error)
	Delete(ctx context.Context, actor types.Actor, id int64) error
}

type service struct {
	store   storage.GiftStore
	metrics *metrics.MarketplaceMetrics
}

// NewService builds the gift service. m may be nil.
func NewService(store storage.GiftStore, m *metrics.MarketplaceMetrics) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gift store is required")
	}
	return &service{store: store, metrics: m}, nil
}

// List returns the catalog after applying every filter in memory.
func (s *service) List(ctx context.Context, filter ListFilter) ([]GiftDTO, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minPrice must not exceed maxPrice")
	}
	all, err := s.store.GetAllGifts(ctx, filter.Approved)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list gifts")
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]GiftDTO, 0, len(all))
	for _, g := range all {
		if filter.Category != "" && string(g.Category) != filter.Category {
			continue
		}
		if filter.Brandable && !g.Brandable {
			continue
		}
		if filter.EcoFriendly && !g.EcoFriendly {
			continue
		}
		if filter.MinPrice != nil && g.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && g.Price > *filter.MaxPrice {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(g.Name), search) &&
			!strings.Contains(strings.ToLower(g.Description), search) {
			continue
		}
		out = append(out, FromModel(g))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id int64) (GiftDTO, error) {
	gift, err := s.load(ctx, id)
	if err != nil {
		return GiftDTO{}, err
	}
	return FromModel(*gift), nil
}

// ListForVendor returns the caller's own gifts, admins included.
func (s *service) ListForVendor(ctx context.Context, actor types.Actor) ([]GiftDTO, error) {
	items, err := s.store.GetGiftsByVendor(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list vendor gifts")
	}
	return FromModels(items), nil
}

// Create stores a new gift owned by the caller. New gifts always await approval.
func (s *service) Create(ctx context.Context, actor types.Actor, input CreateGiftInput) (GiftDTO, error) {
	category, err := enums.ParseGiftCategory(input.Category)
	if err != nil {
		return GiftDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category").
			WithDetails(map[string]any{"category": enums.GiftCategories()})
	}
	if input.Price == nil || *input.Price < 0 {
		return GiftDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than or equal to 0")
	}

	gift := models.Gift{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       *input.Price,
		VendorID:    actor.UserID,
		Category:    category,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		Brandable:   input.Brandable != nil && *input.Brandable,
		EcoFriendly: input.EcoFriendly != nil && *input.EcoFriendly,
	}
	if err := requireText(map[string]*string{
		"name":        &gift.Name,
		"description": &gift.Description,
		"imageUrl":    &gift.ImageURL,
	}); err != nil {
		return GiftDTO{}, err
	}
	created, err := s.store.CreateGift(ctx, gift)
	if err != nil {
		return GiftDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create gift")
	}
	s.metrics.GiftCreated()
	return FromModel(*created), nil
}

// Update applies a partial edit. Only the owner or an admin may edit; a
// non-admin edit of an approved gift sends it back for review.
func (s *service) Update(ctx context.Context, actor types.Actor, id int64, input UpdateGiftInput) (GiftDTO, error) {
	gift, err := s.load(ctx, id)
	if err != nil {
		return GiftDTO{}, err
	}
	if !actor.Owns(gift.VendorID) && !actor.IsAdmin() {
		return GiftDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, msgEditForbidden)
	}

	patch, err := input.patch()
	if err != nil {
		return GiftDTO{}, err
	}
	switch {
	case actor.IsAdmin():
		patch.Approved = input.Approved
	case gift.Approved:
		reset := false
		patch.Approved = &reset
	}

	updated, err := s.store.UpdateGift(ctx, id, patch)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return GiftDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msgGiftNotFound)
		}
		return GiftDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update gift")
	}
	return FromModel(*updated), nil
}

func (s *service) Delete(ctx context.Context, actor types.Actor, id int64) error {
	gift, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Owns(gift.VendorID) && !actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "You don't have permission to delete this gift")
	}
	deleted, err := s.store.DeleteGift(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete gift")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, msgGiftNotFound)
	}
	return nil
}

func (s *service) load(ctx context.Context, id int64) (*models.Gift, error) {
	gift, err := s.store.GetGift(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msgGiftNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load gift")
	}
	return gift, nil
}

func (in UpdateGiftInput) patch() (models.GiftPatch, error) {
	patch := models.GiftPatch{
		Name:        trimmed(in.Name),
		Description: trimmed(in.Description),
		Price:       in.Price,
		ImageURL:    trimmed(in.ImageURL),
		Brandable:   in.Brandable,
		EcoFriendly: in.EcoFriendly,
	}
	if err := requireText(map[string]*string{
		"name":        patch.Name,
		"description": patch.Description,
		"imageUrl":    patch.ImageURL,
	}); err != nil {
		return models.GiftPatch{}, err
	}
	if in.Category != nil {
		category, err := enums.ParseGiftCategory(*in.Category)
		if err != nil {
			return models.GiftPatch{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category").
				WithDetails(map[string]any{"category": enums.GiftCategories()})
		}
		patch.Category = &category
	}
	return patch, nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}

// requireText rejects present fields that are blank once trimmed. Nil
// entries are absent from a partial edit and pass.
func requireText(fields map[string]*string) error {
	details := map[string]any{}
	for name, value := range fields {
		if value != nil && *value == "" {
			details[name] = "is required"
		}
	}
	if len(details) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "Validation error").WithDetails(details)
}
