package cart

import (
	"github.com/giftconnect/giftconnect-backend/internal/gifts"
	"github.com/giftconnect/giftconnect-backend/pkg/db/models"
)

// CartItemDTO is a cart row enriched with the live gift.
type CartItemDTO struct {
	ID       int64         `json:"id"`
	UserID   int64         `json:"userId"`
	GiftID   int64         `json:"giftId"`
	Quantity int           `json:"quantity"`
	Gift     gifts.GiftDTO `json:"gift"`
}

func toDTO(item models.CartItem, gift models.Gift) CartItemDTO {
	return CartItemDTO{
		ID:       item.ID,
		UserID:   item.UserID,
		GiftID:   item.GiftID,
		Quantity: item.Quantity,
		Gift:     gifts.FromModel(gift),
	}
}

// AddItemInput adds a gift to the caller's cart. Quantity defaults to 1.
type AddItemInput struct {
	GiftID   int64 `json:"giftId" validate:"required,gt=0"`
	Quantity *int  `json:"quantity" validate:"omitempty,min=1,max=10000"`
}

// UpdateItemInput sets the quantity of an existing row. Range checks happen
// in the service so every bad value reports "Invalid quantity".
type UpdateItemInput struct {
	Quantity *int `json:"quantity"`
}
