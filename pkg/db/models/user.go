package models

import "github.com/giftconnect/giftconnect-backend/pkg/enums"

// User represents a marketplace account. PasswordHash must never be serialized.
type User struct {
	ID           int64          `gorm:"primaryKey;autoIncrement"`
	Username     string         `gorm:"type:text;not null"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Email        string         `gorm:"type:text;not null"`
	Name         string         `gorm:"type:text;not null"`
	Company      *string        `gorm:"type:text"`
	Role         enums.UserRole `gorm:"type:text;not null"`
}
