package repositories

import (
	"context"
	"fmt"
	"strings"

	"foodspot/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	ListOffers(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	// DecrementStock subtracts qty only while the product still holds at
	// least qty units. It reports false when the guard did not match.
	DecrementStock(ctx context.Context, id string, qty int) (bool, error)
}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("name").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// ListByCategory returns the products of one category.
func (r *GORMProductRepository) ListByCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("category_id = ?", categoryID).Order("name").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products of category %s: %w", categoryID, err)
	}
	return products, nil
}

// Search matches products whose name contains query, ignoring case.
func (r *GORMProductRepository) Search(ctx context.Context, query string) ([]models.Product, error) {
	var products []models.Product
	pattern := "%" + strings.ToLower(query) + "%"
	if err := r.db.WithContext(ctx).Where("LOWER(name) LIKE ?", pattern).Order("name").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products for %q: %w", query, err)
	}
	return products, nil
}

// ListOffers returns products selling at half their original price or less.
func (r *GORMProductRepository) ListOffers(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("original_price > 0 AND selling_price <= original_price * 0.5").
		Order("name").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return products, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update overwrites the editable columns of an existing product, zero values included.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{ID: product.ID}).
		Select("CategoryID", "Name", "Image", "Quantity", "OriginalPrice", "SellingPrice", "Description", "UpdatedAt").
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s for update: %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a product by its ID together with the cart lines holding it.
// Orders keep their product reference as history.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.CartLine{}, "product_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %s for deletion: %w", id, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// DecrementStock implements ProductRepository with a single conditional
// UPDATE so that concurrent writers can never push quantity below zero.
func (r *GORMProductRepository) DecrementStock(ctx context.Context, id string, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", id, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, fmt.Errorf("failed to decrement stock of product %s: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}
