package services_test

import (
	"context"
	"fmt"
	"testing"

	"foodspot/internal/config"
	"foodspot/internal/database"
	"foodspot/internal/models"
	"foodspot/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) (*gorm.DB, *repositories.Repositories) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(config.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db, repositories.NewGORMRepositories(db)
}

func seedUser(t *testing.T, repos *repositories.Repositories, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return user
}

func seedCategory(t *testing.T, repos *repositories.Repositories) *models.Category {
	t.Helper()
	category := &models.Category{Name: "Mains", Description: "Main course", Active: true}
	require.NoError(t, repos.Categories.Create(context.Background(), category))
	return category
}

func seedProduct(t *testing.T, repos *repositories.Repositories, categoryID, name string, stock int, price int64) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID:    categoryID,
		Name:          name,
		Description:   name + " description",
		Quantity:      stock,
		OriginalPrice: decimal.NewFromInt(price),
		SellingPrice:  decimal.NewFromInt(price),
	}
	require.NoError(t, repos.Products.Create(context.Background(), product))
	return product
}

// putInCart writes a line directly, bypassing the stock checks of CartService.
func putInCart(t *testing.T, repos *repositories.Repositories, userID, productID string, qty int) *models.CartLine {
	t.Helper()
	line := &models.CartLine{UserID: userID, ProductID: productID, Quantity: qty}
	require.NoError(t, repos.Carts.Create(context.Background(), line))
	return line
}

func stockOf(t *testing.T, repos *repositories.Repositories, productID string) int {
	t.Helper()
	p, err := repos.Products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	return p.Quantity
}
