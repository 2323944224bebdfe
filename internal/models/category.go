package models

import "time"

// Category groups products on the storefront.
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(200);not null" validate:"required,max=200"`
	Description string    `json:"description" gorm:"type:text;not null" validate:"required,max=200"`
	Image       string    `json:"image,omitempty" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	Active      bool      `json:"active" gorm:"not null;default:false"`
	Products    []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
