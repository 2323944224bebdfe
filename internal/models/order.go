package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the delivery state of an order line.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "Pending"
	OrderStatusOutForDelivery OrderStatus = "Out for Delivery"
	OrderStatusDelivered      OrderStatus = "Delivered"
	OrderStatusCancelled      OrderStatus = "Cancelled"
)

// OrderStatuses lists every accepted status.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ParseOrderStatus matches s case-insensitively against the known statuses.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range OrderStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

// Order is one purchased product line. All lines placed by a single checkout
// share the same TrackingNo. Only Status changes after creation.
type Order struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID  string          `json:"product_id" gorm:"type:varchar(36);not null;index"`
	Product    *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	CustomerID string          `json:"customer_id" gorm:"type:varchar(36);not null;index"`
	Quantity   int             `json:"quantity" gorm:"not null;default:1"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Status     OrderStatus     `json:"status" gorm:"type:varchar(20);not null;index"`
	Address    *string         `json:"address,omitempty" gorm:"type:text"`
	TrackingNo string          `json:"tracking_no" gorm:"type:varchar(150);not null;index"`

	// Payment gateway correlation, filled in by the payment integration.
	PaymentOrderID   *string `json:"payment_order_id,omitempty" gorm:"type:varchar(200)"`
	PaymentID        *string `json:"payment_id,omitempty" gorm:"type:varchar(200)"`
	PaymentSignature *string `json:"-" gorm:"type:varchar(200)"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsDelivered compares the status case-insensitively.
func (o *Order) IsDelivered() bool {
	return strings.EqualFold(string(o.Status), string(OrderStatusDelivered))
}
