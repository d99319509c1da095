package giftrequests

import (
	"time"

	"github.com/giftconnect/giftconnect-backend/pkg/db/models"
	"github.com/giftconnect/giftconnect-backend/pkg/enums"
)

// GiftRequestDTO is the JSON shape of a submitted request. Items are the
// snapshot taken at submission and never follow later gift edits.
type GiftRequestDTO struct {
	ID         int64                    `json:"id"`
	UserID     int64                    `json:"userId"`
	Items      []models.GiftRequestItem `json:"items"`
	TotalPrice int64                    `json:"totalPrice"`
	Status     enums.RequestStatus      `json:"status"`
	Notes      string                   `json:"notes"`
	CreatedAt  time.Time                `json:"createdAt"`
	UpdatedAt  time.Time                `json:"updatedAt"`
}

// FromModel decodes the stored snapshot into a DTO.
func FromModel(r models.GiftRequest) (GiftRequestDTO, error) {
	items, err := r.DecodeItems()
	if err != nil {
		return GiftRequestDTO{}, err
	}
	dto := GiftRequestDTO{
		ID:         r.ID,
		UserID:     r.UserID,
		Items:      items,
		TotalPrice: r.TotalPrice,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.Notes != nil {
		dto.Notes = *r.Notes
	}
	return dto, nil
}

// CreateInput is the submission body.
type CreateInput struct {
	Notes *string `json:"notes" validate:"omitempty,max=2000"`
}
