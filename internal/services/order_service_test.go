package services_test

import (
	"context"
	"testing"
	"time"

	"foodspot/internal/models"
	"foodspot/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOrderService(t *testing.T) {
	ctx := context.Background()
	db, repos := newTestDB(t)
	service := services.NewOrderService(repos.Orders, zap.NewNop())

	asha := seedUser(t, repos, "asha")
	ravi := seedUser(t, repos, "ravi")
	p := seedProduct(t, repos, seedCategory(t, repos).ID, "Pulao", 9, 90)

	older := seedOrder(t, repos, asha.ID, p.ID, models.OrderStatusDelivered)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", older.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)
	newer := seedOrder(t, repos, asha.ID, p.ID, models.OrderStatusPending)
	seedOrder(t, repos, ravi.ID, p.ID, models.OrderStatusPending)

	t.Run("ListForUser newest first", func(t *testing.T) {
		orders, err := service.ListForUser(ctx, asha.ID)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, newer.ID, orders[0].ID)
		assert.Equal(t, older.ID, orders[1].ID)
		require.NotNil(t, orders[0].Product)
		assert.Equal(t, "Pulao", orders[0].Product.Name)
	})

	t.Run("GetByTrackingNo hides other customers", func(t *testing.T) {
		orders, err := service.GetByTrackingNo(ctx, asha.ID, "foodspot-TEST")
		require.NoError(t, err)
		assert.Len(t, orders, 2)

		_, err = service.GetByTrackingNo(ctx, asha.ID, "unknown")
		assert.ErrorIs(t, err, services.ErrNotFound)
	})

	t.Run("List filters by status", func(t *testing.T) {
		all, err := service.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 3)

		pending, err := service.List(ctx, "pending")
		require.NoError(t, err)
		assert.Len(t, pending, 2)

		_, err = service.List(ctx, "shipped")
		assert.ErrorIs(t, err, services.ErrInvalidStatus)
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		updated, err := service.UpdateStatus(ctx, newer.ID, "out for delivery")
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusOutForDelivery, updated.Status)

		_, err = service.UpdateStatus(ctx, newer.ID, "lost")
		assert.ErrorIs(t, err, services.ErrInvalidStatus)

		_, err = service.UpdateStatus(ctx, "missing", "Delivered")
		assert.ErrorIs(t, err, services.ErrNotFound)
	})
}
