package gifts

import (
	"time"

	"github.com/giftconnect/giftconnect-backend/pkg/db/models"
	"github.com/giftconnect/giftconnect-backend/pkg/enums"
)

// GiftDTO is the public JSON shape of a gift. Price is in cents.
type GiftDTO struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       int64              `json:"price"`
	VendorID    int64              `json:"vendorId"`
	Category    enums.GiftCategory `json:"category"`
	ImageURL    string             `json:"imageUrl"`
	Brandable   bool               `json:"brandable"`
	EcoFriendly bool               `json:"ecoFriendly"`
	Approved    bool               `json:"approved"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// FromModel maps a stored gift to its DTO.
func FromModel(g models.Gift) GiftDTO {
	return GiftDTO{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Price:       g.Price,
		VendorID:    g.VendorID,
		Category:    g.Category,
		ImageURL:    g.ImageURL,
		Brandable:   g.Brandable,
		EcoFriendly: g.EcoFriendly,
		Approved:    g.Approved,
		CreatedAt:   g.CreatedAt,
	}
}

// FromModels converts a batch of stored gifts.
func FromModels(items []models.Gift) []GiftDTO {
	out := make([]GiftDTO, 0, len(items))
	for _, g := range items {
		out = append(out, FromModel(g))
	}
	return out
}

// CreateGiftInput is the vendor submission payload.
type CreateGiftInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Price       *int64 `json:"price" validate:"required,gte=0"`
	Category    string `json:"category" validate:"required"`
	ImageURL    string `json:"imageUrl" validate:"required"`
	Brandable   *bool  `json:"brandable"`
	EcoFriendly *bool  `json:"ecoFriendly"`
}

// UpdateGiftInput is a partial edit. VendorID is accepted and ignored; Approved
// only takes effect for admins.
type UpdateGiftInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Price       *int64  `json:"price" validate:"omitempty,gte=0"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,min=1"`
	Brandable   *bool   `json:"brandable"`
	EcoFriendly *bool   `json:"ecoFriendly"`
	Approved    *bool   `json:"approved"`
	VendorID    *int64  `json:"vendorId"`
}

// ListFilter narrows the public catalog.
type ListFilter struct {
	// Approved is nil for "no filter".
	Approved    *bool
	Category    string
	Brandable   bool
	EcoFriendly bool
	Search      string
	MinPrice    *int64
	MaxPrice    *int64
}
