package models

// CartItem is one (user, gift) row of an HR user's cart.
type CartItem struct {
	ID       int64 `gorm:"primaryKey;autoIncrement"`
	UserID   int64 `gorm:"column:user_id;not null;uniqueIndex:idx_cart_items_user_gift"`
	GiftID   int64 `gorm:"column:gift_id;not null;uniqueIndex:idx_cart_items_user_gift"`
	Quantity int   `gorm:"not null;default:1"`
}
