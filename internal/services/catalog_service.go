package services

import (
	"context"
	"fmt"
	"strings"

	"foodspot/internal/models"
	"foodspot/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// ProductDetail is a product with the feedback left on it.
type ProductDetail struct {
	models.Product
	Reviews []models.Review `json:"reviews"`
}

// CatalogService handles business logic related to categories and products.
type CatalogService struct {
	categories repositories.CategoryRepository
	products   repositories.ProductRepository
	reviews    repositories.ReviewRepository
	validate   *validator.Validate
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(categories repositories.CategoryRepository, products repositories.ProductRepository, reviews repositories.ReviewRepository) *CatalogService {
	return &CatalogService{
		categories: categories,
		products:   products,
		reviews:    reviews,
		validate:   validator.New(),
	}
}

// ListCategories retrieves all categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.GetAll(ctx)
}

// GetCategory retrieves a category together with its products.
func (s *CatalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	return s.categories.GetByID(ctx, id)
}

// CreateCategory creates a new category.
func (s *CatalogService) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := s.validate.Struct(category); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.categories.Create(ctx, category)
}

// ListProducts retrieves all products.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.products.GetAll(ctx)
}

// GetProduct retrieves a single product by its ID with its reviews.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*ProductDetail, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return &ProductDetail{Product: *product, Reviews: reviews}, nil
}

// Search matches product names case-insensitively. An empty query matches
// nothing.
func (s *CatalogService) Search(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Product{}, nil
	}
	return s.products.Search(ctx, query)
}

// Offers lists products selling at half their original price or less.
func (s *CatalogService) Offers(ctx context.Context) ([]models.Product, error) {
	return s.products.ListOffers(ctx)
}

// CreateProduct validates and creates a new product in an existing category.
func (s *CatalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.validateProduct(ctx, product); err != nil {
		return err
	}
	return s.products.Create(ctx, product)
}

// UpdateProduct validates and updates an existing product.
func (s *CatalogService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := s.validateProduct(ctx, product); err != nil {
		return err
	}
	return s.products.Update(ctx, product)
}

// DeleteProduct deletes a product by its ID.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}

func (s *CatalogService) validateProduct(ctx context.Context, product *models.Product) error {
	if err := s.validate.Struct(product); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if product.SellingPrice.IsNegative() || product.OriginalPrice.IsNegative() {
		return fmt.Errorf("%w: prices must not be negative", ErrInvalidInput)
	}
	if _, err := s.categories.GetByID(ctx, product.CategoryID); err != nil {
		return fmt.Errorf("category %s: %w", product.CategoryID, err)
	}
	return nil
}
