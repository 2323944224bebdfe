package models

import "time"

// Review is customer feedback attached to exactly one delivered order.
type Review struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;index"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);not null;index"`
	OrderID   string    `json:"order_id" gorm:"type:varchar(36);not null;uniqueIndex"`
	Rating    int       `json:"rating" gorm:"not null;default:5" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment" gorm:"type:text;not null" validate:"required,max=500"`
	CreatedAt time.Time `json:"created_at"`
}
