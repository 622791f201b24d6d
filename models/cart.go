package models

import "time"

// CartItem is a transient row. Checkout deletes the user's cart items
// after snapshotting them into order items.
type CartItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	UserID    uint    `gorm:"uniqueIndex:idx_cart_user_product" json:"-"`
	ProductID uint    `gorm:"uniqueIndex:idx_cart_user_product" json:"-"`
	Product   Product `json:"product"`
	Quantity  uint    `gorm:"default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
