package repositories

import (
	"context"
	"fmt"

	"foodspot/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderFilter narrows administrative order listings.
type OrderFilter struct {
	Status     models.OrderStatus
	CustomerID string
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error)
	ListByTrackingNo(ctx context.Context, trackingNo string) ([]models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	TrackingNoExists(ctx context.Context, trackingNo string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
}

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// Create adds a new order.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit("Product").Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID returns an order by its ID.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Product").First(&order, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// ListByCustomer returns the customer's orders, newest first.
func (r *GORMOrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	return r.List(ctx, OrderFilter{CustomerID: customerID})
}

func (r *GORMOrderRepository) ListByTrackingNo(ctx context.Context, trackingNo string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Product").
		Where("tracking_no = ?", trackingNo).
		Order("created_at, id").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders with tracking number %s: %w", trackingNo, err)
	}
	return orders, nil
}

// List returns orders matching filter, newest first.
func (r *GORMOrderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	q := r.db.WithContext(ctx).Preload("Product")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	var orders []models.Order
	if err := q.Order("created_at DESC, id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) TrackingNoExists(ctx context.Context, trackingNo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("tracking_no = ?", trackingNo).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up tracking number %s: %w", trackingNo, err)
	}
	return count > 0, nil
}

// UpdateStatus updates the status of an order.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s for status update: %w", id, ErrNotFound)
	}
	return nil
}
