package repositories

import (
	"context"
	"fmt"

	"foodspot/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create stores the user and its profile together.
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, profile *models.Profile) error
	Delete(ctx context.Context, id string) error
}

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user and its empty profile in one transaction.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Profile == nil {
		user.Profile = &models.Profile{}
	}
	if user.Profile.ID == "" {
		user.Profile.ID = uuid.New().String()
	}
	user.Profile.UserID = user.ID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Create(user).Error; err != nil {
			return err
		}
		return tx.Create(user.Profile).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username", username)
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email", email)
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id", id)
}

func (r *GORMUserRepository) first(ctx context.Context, column, value string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, column+" = ?", value).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("user with %s %s: %w", column, value, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by %s %s: %w", column, value, err)
	}
	return &user, nil
}

// Update saves the account fields of an existing user.
func (r *GORMUserRepository) Update(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{ID: user.ID}).
		Select("Email", "Password", "FirstName", "LastName", "UpdatedAt").
		Updates(user)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s for update: %w", user.ID, ErrNotFound)
	}
	return nil
}

// UpdateProfile saves the editable profile fields, matched by user.
func (r *GORMUserRepository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	res := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", profile.UserID).
		Select("Phone", "ProfilePic", "Bio", "UpdatedAt").
		Updates(profile)
	if res.Error != nil {
		return fmt.Errorf("failed to update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("profile of user %s for update: %w", profile.UserID, ErrNotFound)
	}
	return nil
}

// Delete removes the user and everything the user owns.
func (r *GORMUserRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := []struct {
			model any
			cond  string
		}{
			{&models.Review{}, "user_id = ?"},
			{&models.Order{}, "customer_id = ?"},
			{&models.CartLine{}, "user_id = ?"},
			{&models.Profile{}, "user_id = ?"},
		}
		for _, o := range owned {
			if err := tx.Delete(o.model, o.cond, id).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}
