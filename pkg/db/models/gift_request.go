package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/giftconnect/giftconnect-backend/pkg/enums"
)

// GiftRequestItem is the price snapshot of one cart row taken at submission.
type GiftRequestItem struct {
	GiftID   int64  `json:"giftId"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
	Name     string `json:"name"`
}

// GiftRequest is an HR user's submitted cart awaiting admin review.
type GiftRequest struct {
	ID         int64               `gorm:"primaryKey;autoIncrement"`
	UserID     int64               `gorm:"column:user_id;not null;index"`
	Items      datatypes.JSON      `gorm:"not null"`
	TotalPrice int64               `gorm:"column:total_price;not null"`
	Status     enums.RequestStatus `gorm:"type:text;not null"`
	Notes      *string             `gorm:"type:text"`
	CreatedAt  time.Time           `gorm:"column:created_at"`
	UpdatedAt  time.Time           `gorm:"column:updated_at"`
}

// SetItems encodes the snapshot into the JSON column.
func (r *GiftRequest) SetItems(items []GiftRequestItem) error {
	if items == nil {
		items = []GiftRequestItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode gift request items: %w", err)
	}
	r.Items = datatypes.JSON(raw)
	return nil
}

// DecodeItems returns the stored snapshot.
func (r *GiftRequest) DecodeItems() ([]GiftRequestItem, error) {
	if len(r.Items) == 0 {
		return []GiftRequestItem{}, nil
	}
	var items []GiftRequestItem
	if err := json.Unmarshal(r.Items, &items); err != nil {
		return nil, fmt.Errorf("decode gift request items: %w", err)
	}
	return items, nil
}
