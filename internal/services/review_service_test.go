package services_test

import (
	"context"
	"strings"
	"testing"

	"foodspot/internal/models"
	"foodspot/internal/repositories"
	"foodspot/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrder(t *testing.T, repos *repositories.Repositories, customerID, productID string, status models.OrderStatus) *models.Order {
	t.Helper()
	order := &models.Order{
		ProductID:  productID,
		CustomerID: customerID,
		Quantity:   1,
		Price:      decimal.NewFromInt(100),
		Status:     status,
		TrackingNo: "foodspot-TEST",
	}
	require.NoError(t, repos.Orders.Create(context.Background(), order))
	return order
}

func TestReviewService_AddReview(t *testing.T) {
	ctx := context.Background()
	db, repos := newTestDB(t)
	service := services.NewReviewService(repos.Orders, repos.Reviews)

	user := seedUser(t, repos, "asha")
	p := seedProduct(t, repos, seedCategory(t, repos).ID, "Biryani", 5, 250)

	pending := seedOrder(t, repos, user.ID, p.ID, models.OrderStatusPending)
	_, err := service.AddReview(ctx, user.ID, pending.ID, 5, "tasty")
	assert.ErrorIs(t, err, services.ErrOrderNotDelivered)

	delivered := seedOrder(t, repos, user.ID, p.ID, models.OrderStatusDelivered)
	// Status comparison ignores case.
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", delivered.ID).Update("status", "DELIVERED").Error)

	_, err = service.AddReview(ctx, user.ID, delivered.ID, 0, "tasty")
	assert.ErrorIs(t, err, services.ErrInvalidReview)
	_, err = service.AddReview(ctx, user.ID, delivered.ID, 6, "tasty")
	assert.ErrorIs(t, err, services.ErrInvalidReview)
	_, err = service.AddReview(ctx, user.ID, delivered.ID, 4, "   ")
	assert.ErrorIs(t, err, services.ErrInvalidReview)
	_, err = service.AddReview(ctx, user.ID, delivered.ID, 4, strings.Repeat("a", 501))
	assert.ErrorIs(t, err, services.ErrInvalidReview)

	review, err := service.AddReview(ctx, user.ID, delivered.ID, 4, " Great rice ")
	require.NoError(t, err)
	assert.Equal(t, p.ID, review.ProductID)
	assert.Equal(t, user.ID, review.UserID)
	assert.Equal(t, delivered.ID, review.OrderID)
	assert.Equal(t, "Great rice", review.Comment)

	_, err = service.AddReview(ctx, user.ID, delivered.ID, 5, "again")
	assert.ErrorIs(t, err, services.ErrDuplicateReview)

	reviews, err := service.ListForProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

func TestReviewService_AddReview_ForeignOrder(t *testing.T) {
	ctx := context.Background()
	_, repos := newTestDB(t)
	service := services.NewReviewService(repos.Orders, repos.Reviews)

	owner := seedUser(t, repos, "asha")
	other := seedUser(t, repos, "ravi")
	p := seedProduct(t, repos, seedCategory(t, repos).ID, "Biryani", 5, 250)
	order := seedOrder(t, repos, owner.ID, p.ID, models.OrderStatusDelivered)

	_, err := service.AddReview(ctx, other.ID, order.ID, 5, "not mine")
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = service.AddReview(ctx, owner.ID, "missing", 5, "nothing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
