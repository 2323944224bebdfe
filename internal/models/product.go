package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the store.
type Product struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	CategoryID    string          `json:"category_id" gorm:"type:varchar(36);index;not null" validate:"required"`
	Category      *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Name          string          `json:"name" gorm:"type:varchar(150);not null" validate:"required,min=2,max=150"`
	Image         string          `json:"image,omitempty" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	Quantity      int             `json:"quantity" gorm:"not null;default:0;check:quantity >= 0" validate:"gte=0"`
	OriginalPrice decimal.Decimal `json:"original_price" gorm:"type:decimal(10,2);not null"`
	SellingPrice  decimal.Decimal `json:"selling_price" gorm:"type:decimal(10,2);not null"`
	Description   string          `json:"description" gorm:"type:text;not null" validate:"required,max=300"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// LineTotal is the selling price multiplied by qty.
func (p *Product) LineTotal(qty int) decimal.Decimal {
	return p.SellingPrice.Mul(decimal.NewFromInt(int64(qty)))
}

// IsOffer reports whether the product sells at half its original price or less.
func (p *Product) IsOffer() bool {
	if !p.OriginalPrice.IsPositive() {
		return false
	}
	return p.SellingPrice.LessThanOrEqual(p.OriginalPrice.Mul(decimal.NewFromFloat(0.5)))
}
