package cart

import (
	"context"
	"errors"

	"github.com/giftconnect/giftconnect-backend/internal/storage"
	"github.com/giftconnect/giftconnect-backend/pkg/db/models"
	pkgerrors "github.com/giftconnect/giftconnect-backend/pkg/errors"
	"github.com/giftconnect/giftconnect-backend/pkg/metrics"
	"github.com/giftconnect/giftconnect-backend/pkg/types"
)

// Store is the storage surface the cart needs.
type Store interface {
	storage.CartStore
	storage.GiftStore
}

// Service exposes the cart rules. Ownership is strict: admins pass the role
// guard but cannot touch another user's rows.
type Service interface {
	List(ctx context.Context, actor types.Actor) ([]CartItemDTO, error)
	Add(ctx context.Context, actor types.Actor, input AddItemInput) (CartItemDTO, error)
	UpdateQuantity(ctx context.Context, actor types.Actor, id int64, input UpdateItemInput) (CartItemDTO, error)
	Remove(ctx context.Context, actor types.Actor, id int64) error
}

type service struct {
	store   Store
	metrics *metrics.MarketplaceMetrics
}

func NewService(store Store, m *metrics.MarketplaceMetrics) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}
	return &service{store: store, metrics: m}, nil
}

// List returns the caller's rows with their gifts. Rows whose gift no longer
// exists are skipped.
func (s *service) List(ctx context.Context, actor types.Actor) ([]CartItemDTO, error) {
	items, err := s.store.GetCartItems(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart")
	}
	out := make([]CartItemDTO, 0, len(items))
	for _, item := range items {
		gift, err := s.store.GetGift(ctx, item.GiftID)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart gift")
		}
		out = append(out, toDTO(item, *gift))
	}
	return out, nil
}

func (s *service) Add(ctx context.Context, actor types.Actor, input AddItemInput) (CartItemDTO, error) {
	quantity := 1
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	if !validQuantity(quantity) {
		return CartItemDTO{}, errInvalidQuantity()
	}

	gift, err := s.store.GetGift(ctx, input.GiftID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return CartItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Gift not found")
		}
		return CartItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load gift")
	}
	if !gift.Approved {
		return CartItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "This gift is not available for purchase")
	}

	existing, err := s.store.GetCartItems(ctx, actor.UserID)
	if err != nil {
		return CartItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart")
	}
	for _, row := range existing {
		if row.GiftID == gift.ID && row.Quantity > storage.MaxCartQuantity-quantity {
			return CartItemDTO{}, errInvalidQuantity()
		}
	}

	item, err := s.store.AddToCart(ctx, models.CartItem{
		UserID:   actor.UserID,
		GiftID:   gift.ID,
		Quantity: quantity,
	})
	if errors.Is(err, storage.ErrQuantityLimit) {
		return CartItemDTO{}, errInvalidQuantity()
	}
	if err != nil {
		return CartItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add to cart")
	}
	s.metrics.CartAdd()
	return toDTO(*item, *gift), nil
}

func (s *service) UpdateQuantity(ctx context.Context, actor types.Actor, id int64, input UpdateItemInput) (CartItemDTO, error) {
	if _, err := s.owned(ctx, actor, id, "You don't have permission to modify this cart item"); err != nil {
		return CartItemDTO{}, err
	}
	if input.Quantity == nil || !validQuantity(*input.Quantity) {
		return CartItemDTO{}, errInvalidQuantity()
	}

	item, err := s.store.UpdateCartItem(ctx, id, *input.Quantity)
	if errors.Is(err, storage.ErrQuantityLimit) {
		return CartItemDTO{}, errInvalidQuantity()
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return CartItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Cart item not found")
		}
		return CartItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
	}
	gift, err := s.store.GetGift(ctx, item.GiftID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return CartItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Gift not found")
		}
		return CartItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load gift")
	}
	return toDTO(*item, *gift), nil
}

func (s *service) Remove(ctx context.Context, actor types.Actor, id int64) error {
	if _, err := s.owned(ctx, actor, id, "You don't have permission to remove this cart item"); err != nil {
		return err
	}
	removed, err := s.store.RemoveFromCart(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Cart item not found")
	}
	return nil
}

func (s *service) owned(ctx context.Context, actor types.Actor, id int64, forbidden string) (*models.CartItem, error) {
	item, err := s.store.GetCartItem(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
	}
	if !actor.Owns(item.UserID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, forbidden)
	}
	return item, nil
}

func validQuantity(quantity int) bool {
	return quantity >= 1 && quantity <= storage.MaxCartQuantity
}

func errInvalidQuantity() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "Invalid quantity")
}
