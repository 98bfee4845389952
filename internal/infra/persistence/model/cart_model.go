package model

import "time"

// CartItemModel mirrors the 'cart_items' table. One row per (user, product).
type CartItemModel struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int  `gorm:"not null"`
	CreatedAt time.Time

	Product *ProductModel `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (CartItemModel) TableName() string {
	return "cart_items"
}
