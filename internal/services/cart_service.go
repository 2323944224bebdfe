package services

import (
	"context"
	"errors"
	"fmt"

	"foodspot/internal/models"
	"foodspot/internal/repositories"

	"github.com/shopspring/decimal"
)

// CartView is the user's cart with its grand total.
type CartView struct {
	Lines []models.CartLine `json:"lines"`
	Total decimal.Decimal   `json:"total"`
}

// CartService handles the shopping cart. Every operation is scoped to the
// owning user; a line of another user is reported as not found.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// View returns the user's lines and their total.
func (s *CartService) View(ctx context.Context, userID string) (*CartView, error) {
	lines, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for i := range lines {
		total = total.Add(lines[i].Total())
	}
	if lines == nil {
		lines = []models.CartLine{}
	}
	return &CartView{Lines: lines, Total: total}, nil
}

// Add puts qty units of a product in the cart, merging with an existing
// line. The resulting line quantity may not exceed the stock.
func (s *CartService) Add(ctx context.Context, userID, productID string, qty int) (*models.CartLine, error) {
	if qty < 1 {
		qty = 1
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Quantity < qty {
		return nil, stockError(product, qty)
	}

	line, err := s.carts.GetByProduct(ctx, userID, productID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		line = &models.CartLine{UserID: userID, ProductID: productID, Quantity: qty}
		if err := s.carts.Create(ctx, line); err != nil {
			return nil, err
		}
		line.Product = *product
		return line, nil
	case err != nil:
		return nil, err
	}

	want := line.Quantity + qty
	if product.Quantity < want {
		return nil, stockError(product, want)
	}
	if err := s.carts.UpdateQuantity(ctx, userID, line.ID, want); err != nil {
		return nil, err
	}
	line.Quantity = want
	line.Product = *product
	return line, nil
}

// Increase adds one unit while stock allows. When it does not, the line is
// returned unchanged together with an InsufficientStockError.
func (s *CartService) Increase(ctx context.Context, userID, lineID string) (*models.CartLine, error) {
	line, err := s.carts.GetByID(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}
	if line.Product.Quantity <= line.Quantity {
		return line, stockError(&line.Product, line.Quantity+1)
	}
	if err := s.carts.UpdateQuantity(ctx, userID, lineID, line.Quantity+1); err != nil {
		return nil, err
	}
	line.Quantity++
	return line, nil
}

// Decrease removes one unit. A line holding a single unit is deleted and
// nil is returned.
func (s *CartService) Decrease(ctx context.Context, userID, lineID string) (*models.CartLine, error) {
	line, err := s.carts.GetByID(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}
	if line.Quantity <= 1 {
		if err := s.carts.Delete(ctx, userID, lineID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err := s.carts.UpdateQuantity(ctx, userID, lineID, line.Quantity-1); err != nil {
		return nil, err
	}
	line.Quantity--
	return line, nil
}

// Delete removes the line. Removing a line that is already gone succeeds.
func (s *CartService) Delete(ctx context.Context, userID, lineID string) error {
	if err := s.carts.Delete(ctx, userID, lineID); err != nil {
		return fmt.Errorf("failed to remove cart line: %w", err)
	}
	return nil
}

func stockError(p *models.Product, requested int) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID:   p.ID,
		ProductName: p.Name,
		Requested:   requested,
		Available:   p.Quantity,
	}
}
