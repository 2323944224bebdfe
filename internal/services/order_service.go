package services

import (
	"context"
	"fmt"

	"foodspot/internal/models"
	"foodspot/internal/repositories"

	"go.uber.org/zap"
)

// OrderService exposes order history to customers and status management to
// administrators.
type OrderService struct {
	orders repositories.OrderRepository
	lg     *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(orders repositories.OrderRepository, lg *zap.Logger) *OrderService {
	return &OrderService{orders: orders, lg: lg}
}

// ListForUser returns the user's orders, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.ListByCustomer(ctx, userID)
}

// GetByTrackingNo returns the lines of one checkout. Lines of other
// customers are never returned.
func (s *OrderService) GetByTrackingNo(ctx context.Context, userID, trackingNo string) ([]models.Order, error) {
	orders, err := s.orders.ListByTrackingNo(ctx, trackingNo)
	if err != nil {
		return nil, err
	}
	own := orders[:0]
	for _, o := range orders {
		if o.CustomerID == userID {
			own = append(own, o)
		}
	}
	if len(own) == 0 {
		return nil, fmt.Errorf("orders with tracking number %s: %w", trackingNo, ErrNotFound)
	}
	return own, nil
}

// List returns every order, optionally restricted to one status.
func (s *OrderService) List(ctx context.Context, status string) ([]models.Order, error) {
	var filter repositories.OrderFilter
	if status != "" {
		st, ok := models.ParseOrderStatus(status)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
		}
		filter.Status = st
	}
	return s.orders.List(ctx, filter)
}

// UpdateStatus moves an order to another status.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	st, ok := models.ParseOrderStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := s.orders.UpdateStatus(ctx, orderID, st); err != nil {
		return nil, err
	}
	s.lg.Info("order status updated", zap.String("order_id", orderID), zap.String("status", string(st)))
	return s.orders.GetByID(ctx, orderID)
}
