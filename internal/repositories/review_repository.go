package repositories

import (
	"context"
	"fmt"

	"foodspot/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ExistsForOrder(ctx context.Context, orderID string) (bool, error)
	ListByProduct(ctx context.Context, productID string) ([]models.Review, error)
}

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{db: db}
}

// Create stores the review. The unique index on order_id rejects a second
// review for the same order.
func (r *GORMReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *GORMReviewRepository) ExistsForOrder(ctx context.Context, orderID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Review{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to look up review of order %s: %w", orderID, err)
	}
	return count > 0, nil
}

func (r *GORMReviewRepository) ListByProduct(ctx context.Context, productID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews of product %s: %w", productID, err)
	}
	return reviews, nil
}
