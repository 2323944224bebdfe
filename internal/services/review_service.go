package services

import (
	"context"
	"fmt"
	"strings"

	"foodspot/internal/models"
	"foodspot/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// ReviewService attaches customer feedback to delivered orders.
type ReviewService struct {
	orders   repositories.OrderRepository
	reviews  repositories.ReviewRepository
	validate *validator.Validate
}

// NewReviewService creates a new ReviewService.
func NewReviewService(orders repositories.OrderRepository, reviews repositories.ReviewRepository) *ReviewService {
	return &ReviewService{
		orders:   orders,
		reviews:  reviews,
		validate: validator.New(),
	}
}

// AddReview records a rating and comment for one of the user's delivered
// orders. Each order takes at most one review.
func (s *ReviewService) AddReview(ctx context.Context, userID, orderID string, rating int, comment string) (*models.Review, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != userID {
		return nil, fmt.Errorf("order with ID %s: %w", orderID, ErrNotFound)
	}
	if !order.IsDelivered() {
		return nil, ErrOrderNotDelivered
	}

	exists, err := s.reviews.ExistsForOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	review := &models.Review{
		UserID:    userID,
		ProductID: order.ProductID,
		OrderID:   order.ID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.validate.Struct(review); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReview, err)
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListForProduct returns the reviews left on a product.
func (s *ReviewService) ListForProduct(ctx context.Context, productID string) ([]models.Review, error) {
	return s.reviews.ListByProduct(ctx, productID)
}
