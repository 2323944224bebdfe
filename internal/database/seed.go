package database

import (
	"context"
	"fmt"

	"foodspot/internal/models"
	"foodspot/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type seedProduct struct {
	name        string
	description string
	quantity    int
	original    int64
	selling     int64
}

var seedCatalog = []struct {
	category models.Category
	products []seedProduct
}{
	{
		category: models.Category{Name: "Starters", Description: "Small plates to begin with", Active: true},
		products: []seedProduct{
			{"Paneer Tikka", "Char-grilled cottage cheese with peppers", 20, 280, 240},
			{"Veg Samosa", "Crisp pastry filled with spiced potato", 50, 60, 30},
		},
	},
	{
		category: models.Category{Name: "Mains", Description: "Curries, rice and breads", Active: true},
		products: []seedProduct{
			{"Chicken Biryani", "Basmati rice layered with spiced chicken", 15, 320, 299},
			{"Dal Makhani", "Slow-cooked black lentils", 25, 220, 99},
		},
	},
	{
		category: models.Category{Name: "Desserts", Description: "Something sweet", Active: true},
		products: []seedProduct{
			{"Gulab Jamun", "Milk dumplings in rose syrup", 40, 90, 80},
		},
	},
}

// Seed fills an empty catalog with demo categories and products. A catalog
// that already holds categories is left untouched.
func Seed(ctx context.Context, repos *repositories.Repositories, lg *zap.Logger) error {
	existing, err := repos.Categories.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		lg.Info("catalog already seeded", zap.Int("categories", len(existing)))
		return nil
	}

	for _, entry := range seedCatalog {
		category := entry.category
		if err := repos.Categories.Create(ctx, &category); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", category.Name, err)
		}
		for _, p := range entry.products {
			product := models.Product{
				CategoryID:    category.ID,
				Name:          p.name,
				Description:   p.description,
				Quantity:      p.quantity,
				OriginalPrice: decimal.NewFromInt(p.original),
				SellingPrice:  decimal.NewFromInt(p.selling),
			}
			if err := repos.Products.Create(ctx, &product); err != nil {
				return fmt.Errorf("failed to seed product %s: %w", p.name, err)
			}
			lg.Debug("seeded product", zap.String("name", product.Name), zap.String("id", product.ID))
		}
	}
	return nil
}
