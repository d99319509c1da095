package models

import (
	"time"

	"github.com/giftconnect/giftconnect-backend/pkg/enums"
)

// Gift is a vendor-submitted catalog item. Price is stored in cents.
type Gift struct {
	ID          int64              `gorm:"primaryKey;autoIncrement"`
	Name        string             `gorm:"type:text;not null"`
	Description string             `gorm:"type:text;not null"`
	Price       int64              `gorm:"not null"`
	VendorID    int64              `gorm:"column:vendor_id;not null;index"`
	Category    enums.GiftCategory `gorm:"type:text;not null"`
	ImageURL    string             `gorm:"column:image_url;type:text;not null"`
	Brandable   bool               `gorm:"not null;default:false"`
	EcoFriendly bool               `gorm:"column:eco_friendly;not null;default:false"`
	Approved    bool               `gorm:"not null;default:false;index"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
}

// GiftPatch carries the mutable gift fields; nil members are left untouched.
type GiftPatch struct {
	Name        *string
	Description *string
	Price       *int64
	Category    *enums.GiftCategory
	ImageURL    *string
	Brandable   *bool
	EcoFriendly *bool
	Approved    *bool
}

// Apply merges the non-nil patch fields into g.
func (p GiftPatch) Apply(g *Gift) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.Price != nil {
		g.Price = *p.Price
	}
	if p.Category != nil {
		g.Category = *p.Category
	}
	if p.ImageURL != nil {
		g.ImageURL = *p.ImageURL
	}
	if p.Brandable != nil {
		g.Brandable = *p.Brandable
	}
	if p.EcoFriendly != nil {
		g.EcoFriendly = *p.EcoFriendly
	}
	if p.Approved != nil {
		g.Approved = *p.Approved
	}
}

// Columns returns the column/value pairs touched by the patch.
func (p GiftPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Price != nil {
		cols["price"] = *p.Price
	}
	if p.Category != nil {
		cols["category"] = *p.Category
	}
	if p.ImageURL != nil {
		cols["image_url"] = *p.ImageURL
	}
	if p.Brandable != nil {
		cols["brandable"] = *p.Brandable
	}
	if p.EcoFriendly != nil {
		cols["eco_friendly"] = *p.EcoFriendly
	}
	if p.Approved != nil {
		cols["approved"] = *p.Approved
	}
	return cols
}
