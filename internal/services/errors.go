package services

import (
	"errors"
	"fmt"

	"foodspot/internal/repositories"
)

// ErrNotFound is the repository sentinel, re-exported so callers need not
// import repositories to match it.
var ErrNotFound = repositories.ErrNotFound

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrOrderNotDelivered  = errors.New("only delivered orders can be reviewed")
	ErrDuplicateReview    = errors.New("order has already been reviewed")
	ErrInvalidReview      = errors.New("invalid review")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidInput       = errors.New("invalid input")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
)

// InsufficientStockError reports the first product that cannot cover the
// requested quantity.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}
