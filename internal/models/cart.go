package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product a user intends to buy. A user holds at most one
// line per product.
type CartLine struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_product"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_product"`
	Product   Product   `json:"product" gorm:"foreignKey:ProductID"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1;check:quantity > 0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Total requires Product to be loaded.
func (l *CartLine) Total() decimal.Decimal {
	return l.Product.LineTotal(l.Quantity)
}
