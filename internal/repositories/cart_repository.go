package repositories

import (
	"context"
	"fmt"

	"foodspot/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartRepository defines the interface for cart line data access. Every
// method is scoped to the owning user.
type CartRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.CartLine, error)
	GetByID(ctx context.Context, userID, lineID string) (*models.CartLine, error)
	GetByProduct(ctx context.Context, userID, productID string) (*models.CartLine, error)
	Create(ctx context.Context, line *models.CartLine) error
	UpdateQuantity(ctx context.Context, userID, lineID string, qty int) error
	Delete(ctx context.Context, userID, lineID string) error
	ClearByUser(ctx context.Context, userID string) (int64, error)
}

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// ListByUser returns the user's lines with their products, oldest first.
func (r *GORMCartRepository) ListByUser(ctx context.Context, userID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart of user %s: %w", userID, err)
	}
	return lines, nil
}

func (r *GORMCartRepository) GetByID(ctx context.Context, userID, lineID string) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).Preload("Product").
		First(&line, "id = ? AND user_id = ?", lineID, userID).Error
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("cart line %s: %w", lineID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart line %s: %w", lineID, err)
	}
	return &line, nil
}

func (r *GORMCartRepository) GetByProduct(ctx context.Context, userID, productID string) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).Preload("Product").
		First(&line, "user_id = ? AND product_id = ?", userID, productID).Error
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("cart line for product %s: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart line for product %s: %w", productID, err)
	}
	return &line, nil
}

// Create inserts a new line. Product associations are never upserted.
func (r *GORMCartRepository) Create(ctx context.Context, line *models.CartLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit("Product").Create(line).Error; err != nil {
		return fmt.Errorf("failed to create cart line: %w", err)
	}
	return nil
}

func (r *GORMCartRepository) UpdateQuantity(ctx context.Context, userID, lineID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("cart line quantity must be positive, got %d", qty)
	}
	res := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ? AND user_id = ?", lineID, userID).
		Update("quantity", qty)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart line %s: %w", lineID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart line %s for update: %w", lineID, ErrNotFound)
	}
	return nil
}

// Delete removes the line; deleting a missing line is not an error.
func (r *GORMCartRepository) Delete(ctx context.Context, userID, lineID string) error {
	err := r.db.WithContext(ctx).
		Delete(&models.CartLine{}, "id = ? AND user_id = ?", lineID, userID).Error
	if err != nil {
		return fmt.Errorf("failed to delete cart line %s: %w", lineID, err)
	}
	return nil
}

// ClearByUser deletes every line of the user and reports how many went.
func (r *GORMCartRepository) ClearByUser(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.CartLine{}, "user_id = ?", userID)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear cart of user %s: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}
