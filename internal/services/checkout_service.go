package services

import (
	"context"
	"errors"
	"fmt"

	"foodspot/internal/models"
	"foodspot/internal/notifier"
	"foodspot/internal/repositories"
	"foodspot/internal/tracking"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckoutGuard serializes checkouts per key. A false acquired means another
// checkout holds the key.
type CheckoutGuard interface {
	Acquire(ctx context.Context, key string) (release func(context.Context) error, acquired bool, err error)
}

// CheckoutResult describes the orders placed by one checkout.
type CheckoutResult struct {
	TrackingNo string          `json:"tracking_no"`
	Orders     []models.Order  `json:"orders"`
	Total      decimal.Decimal `json:"total"`
}

// CheckoutOption configures a CheckoutService.
type CheckoutOption func(*CheckoutService)

// WithCheckoutGuard rejects concurrent checkouts by the same user.
func WithCheckoutGuard(g CheckoutGuard) CheckoutOption {
	return func(s *CheckoutService) { s.guard = g }
}

// WithSender sets the From address of confirmation messages.
func WithSender(from string) CheckoutOption {
	return func(s *CheckoutService) { s.from = from }
}

// WithCurrency sets the symbol printed before amounts in confirmations.
func WithCurrency(symbol string) CheckoutOption {
	return func(s *CheckoutService) { s.currency = symbol }
}

// CheckoutService turns a cart, or a single product, into orders.
type CheckoutService struct {
	tx       repositories.Transactor
	tracking tracking.Generator
	notifier notifier.Notifier
	guard    CheckoutGuard
	lg       *zap.Logger
	from     string
	currency string
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(tx repositories.Transactor, gen tracking.Generator, n notifier.Notifier, lg *zap.Logger, opts ...CheckoutOption) *CheckoutService {
	s := &CheckoutService{
		tx:       tx,
		tracking: gen,
		notifier: n,
		lg:       lg,
		currency: "₹",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type lineItem struct {
	productID string
	qty       int
}

// Checkout places one Pending order per cart line under a shared tracking
// number, decrements stock and empties the cart. Either all of it happens or
// none of it does.
func (s *CheckoutService) Checkout(ctx context.Context, userID string) (*CheckoutResult, error) {
	release, err := s.acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	var (
		result   *CheckoutResult
		customer *models.User
	)
	err = s.tx.WithinTransaction(ctx, func(repos *repositories.Repositories) error {
		lines, err := repos.Carts.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}
		if customer, err = repos.Users.GetByID(ctx, userID); err != nil {
			return err
		}

		items := make([]lineItem, 0, len(lines))
		for _, l := range lines {
			items = append(items, lineItem{productID: l.ProductID, qty: l.Quantity})
		}
		if result, err = s.place(ctx, repos, userID, items); err != nil {
			return err
		}

		if _, err := repos.Carts.ClearByUser(ctx, userID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("checkout failed: %w", err)
	}

	s.lg.Info("checkout completed",
		zap.String("user_id", userID),
		zap.String("tracking_no", result.TrackingNo),
		zap.Int("orders", len(result.Orders)),
		zap.String("total", result.Total.StringFixed(2)),
	)

	s.notify(ctx, customer, result.TrackingNo, fmt.Sprintf(
		"Hi %s,\n\nYour order has been placed successfully.\nOrder ID: %s\nTotal Amount: %s%s\n\n"+
			"Thank you for ordering with us!\n\nUse 'My Orders' to track status.",
		customer.Username, result.TrackingNo, s.currency, result.Total.StringFixed(2)))

	return result, nil
}

// BuyNow orders qty units of a single product without touching the cart.
// A qty below one is treated as one.
func (s *CheckoutService) BuyNow(ctx context.Context, userID, productID string, qty int) (*CheckoutResult, error) {
	if qty < 1 {
		qty = 1
	}

	release, err := s.acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	var (
		result   *CheckoutResult
		customer *models.User
	)
	err = s.tx.WithinTransaction(ctx, func(repos *repositories.Repositories) error {
		var err error
		if customer, err = repos.Users.GetByID(ctx, userID); err != nil {
			return err
		}
		result, err = s.place(ctx, repos, userID, []lineItem{{productID: productID, qty: qty}})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("buy now failed: %w", err)
	}

	order := result.Orders[0]
	s.lg.Info("buy now completed",
		zap.String("user_id", userID),
		zap.String("tracking_no", result.TrackingNo),
		zap.String("product_id", productID),
		zap.Int("quantity", qty),
	)

	s.notify(ctx, customer, result.TrackingNo, fmt.Sprintf(
		"Hi %s,\n\nYour order for %dx %s has been placed successfully.\nOrder ID: %s\nTotal Amount: %s%s\n\n"+
			"Thank you for ordering with us!",
		customer.Username, qty, order.Product.Name, result.TrackingNo, s.currency, result.Total.StringFixed(2)))

	return result, nil
}

// place validates every item against current stock before writing anything,
// then decrements stock and creates the orders. It must run inside a
// transaction so that a late failure undoes the earlier writes.
func (s *CheckoutService) place(ctx context.Context, repos *repositories.Repositories, userID string, items []lineItem) (*CheckoutResult, error) {
	products := make([]*models.Product, len(items))
	for i, item := range items {
		p, err := repos.Products.GetByID(ctx, item.productID)
		if err != nil {
			return nil, err
		}
		if p.Quantity < item.qty {
			return nil, &InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   item.qty,
				Available:   p.Quantity,
			}
		}
		products[i] = p
	}

	trackingNo, err := s.tracking.Generate(ctx, repos.Orders)
	if err != nil {
		return nil, err
	}

	result := &CheckoutResult{
		TrackingNo: trackingNo,
		Orders:     make([]models.Order, 0, len(items)),
		Total:      decimal.Zero,
	}
	for i, item := range items {
		p := products[i]
		ok, err := repos.Products.DecrementStock(ctx, p.ID, item.qty)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Another checkout took the stock after validation.
			available := 0
			if fresh, err := repos.Products.GetByID(ctx, p.ID); err == nil {
				available = fresh.Quantity
			}
			return nil, &InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   item.qty,
				Available:   available,
			}
		}
		p.Quantity -= item.qty

		order := models.Order{
			ProductID:  p.ID,
			CustomerID: userID,
			Quantity:   item.qty,
			Price:      p.LineTotal(item.qty),
			Status:     models.OrderStatusPending,
			TrackingNo: trackingNo,
		}
		if err := repos.Orders.Create(ctx, &order); err != nil {
			return nil, err
		}
		order.Product = p

		result.Orders = append(result.Orders, order)
		result.Total = result.Total.Add(order.Price)
	}
	return result, nil
}

func (s *CheckoutService) acquire(ctx context.Context, userID string) (func(), error) {
	if s.guard == nil {
		return func() {}, nil
	}
	release, ok, err := s.guard.Acquire(ctx, userID)
	if err != nil {
		// The guard only deduplicates; the transaction stays correct without it.
		s.lg.Warn("checkout guard unavailable", zap.String("user_id", userID), zap.Error(err))
		return func() {}, nil
	}
	if !ok {
		return nil, ErrCheckoutInProgress
	}
	return func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.lg.Warn("failed to release checkout guard", zap.String("user_id", userID), zap.Error(err))
		}
	}, nil
}

func (s *CheckoutService) notify(ctx context.Context, customer *models.User, trackingNo, body string) {
	msg := notifier.Message{
		From:    s.from,
		To:      customer.Email,
		Subject: "Order Placed Successfully - " + trackingNo,
		Body:    body,
	}
	if err := s.notifier.Notify(ctx, msg); err != nil {
		s.lg.Warn("order confirmation not sent",
			zap.String("tracking_no", trackingNo),
			zap.String("to", customer.Email),
			zap.Error(err),
		)
	}
}

// IsInsufficientStock unwraps err into an InsufficientStockError.
func IsInsufficientStock(err error) (*InsufficientStockError, bool) {
	var stockErr *InsufficientStockError
	if errors.As(err, &stockErr) {
		return stockErr, true
	}
	return nil, false
}
