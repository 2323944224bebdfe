package models

import "time"

// User represents a customer or administrator of the store.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string    `json:"-" gorm:"type:varchar(255)"`
	FirstName string    `json:"first_name" gorm:"type:varchar(150)"`
	LastName  string    `json:"last_name" gorm:"type:varchar(150)"`
	IsAdmin   bool      `json:"is_admin" gorm:"not null;default:false"`
	Profile   *Profile  `json:"profile,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile holds optional personal details. Every user has exactly one.
type Profile struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string    `json:"user_id" gorm:"type:varchar(36);uniqueIndex;not null"`
	Phone      string    `json:"phone,omitempty" gorm:"type:varchar(15)" validate:"omitempty,max=15"`
	ProfilePic string    `json:"profile_pic,omitempty" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	Bio        string    `json:"bio,omitempty" gorm:"type:text" validate:"omitempty,max=500"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AllModels is the migration set, parents before children.
func AllModels() []any {
	return []any{
		&User{},
		&Profile{},
		&Category{},
		&Product{},
		&CartLine{},
		&Order{},
		&Review{},
	}
}
