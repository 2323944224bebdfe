package repositories

import (
	"context"
	"fmt"

	"foodspot/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
}

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

// GetAll returns every category ordered by name.
func (r *GORMCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}
	return categories, nil
}

// GetByID returns a category together with its products.
func (r *GORMCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		First(&category, "id = ?", id).Error
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("category with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category by ID %s: %w", id, err)
	}
	return &category, nil
}

// Create creates a new category in the database.
func (r *GORMCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}
