package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"foodspot/internal/app"
	"foodspot/internal/config"
	"foodspot/internal/database"
	"foodspot/internal/models"
	"foodspot/internal/notifier"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type outbox struct {
	mu   sync.Mutex
	msgs []notifier.Message
}

func (o *outbox) Notify(_ context.Context, msg notifier.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.msgs = append(o.msgs, msg)
	return nil
}

func (o *outbox) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.msgs)
}

type testEnv struct {
	app  *fiber.App
	db   *gorm.DB
	mail *outbox
}

// setupApp sets up a Fiber app for testing with in-memory SQLite and all handlers/services.
func setupApp(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(config.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	cfg := &config.Config{
		JWTSecret:        "test_jwt_secret",
		JWTTTL:           time.Hour,
		PasswordResetTTL: time.Hour,
		PasswordResetURL: "http://localhost/reset",
		MailFrom:         "admin@foodspot.com",
		Currency:         "₹",
		TrackingPrefix:   "foodspot",
	}
	mail := &outbox{}
	deps := app.Deps{DB: db, Notifier: mail, Config: cfg, Logger: zap.NewNop()}
	return &testEnv{app: app.New(deps, app.NewServices(deps)), db: db, mail: mail}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	} else if len(raw) > 0 && raw[0] == '[' {
		var items []any
		require.NoError(t, json.Unmarshal(raw, &items))
		out["items"] = items
	}
	return resp.StatusCode, out
}

// registerAndLogin creates an account and returns a session token.
func (e *testEnv) registerAndLogin(t *testing.T, username string, admin bool) string {
	t.Helper()
	status, _ := e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, status)

	if admin {
		require.NoError(t, e.db.Model(&models.User{}).Where("username = ?", username).Update("is_admin", true).Error)
	}

	status, body := e.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAuthRegisterAndLogin(t *testing.T) {
	env := setupApp(t)

	userToRegister := map[string]string{
		"username": "testuser",
		"email":    "test@example.com",
		"password": "password123",
	}
	status, body := env.do(t, http.MethodPost, "/api/v1/auth/register", "", userToRegister)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "User registered successfully", body["message"])
	user, _ := body["user"].(map[string]any)
	assert.NotContains(t, user, "password")
	assert.NotNil(t, user["profile"], "profile is created with the user")

	// Test Duplicate Registration (username)
	status, _ = env.do(t, http.MethodPost, "/api/v1/auth/register", "", userToRegister)
	assert.Equal(t, http.StatusConflict, status)

	// Test validation
	status, body = env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", body["message"])

	// Test Login by username and by e-mail
	for _, id := range []string{"testuser", "test@example.com"} {
		status, body = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"username": id,
			"password": "password123",
		})
		assert.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, body["token"])
	}

	status, _ = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "testuser",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCatalogAdminAndPublicEndpoints(t *testing.T) {
	env := setupApp(t)
	adminToken := env.registerAndLogin(t, "admin", true)
	customerToken := env.registerAndLogin(t, "customer", false)

	category := map[string]any{"name": "Starters", "description": "Small plates", "active": true}
	status, _ := env.do(t, http.MethodPost, "/api/v1/admin/categories", customerToken, category)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = env.do(t, http.MethodPost, "/api/v1/admin/categories", "", category)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := env.do(t, http.MethodPost, "/api/v1/admin/categories", adminToken, category)
	require.Equal(t, http.StatusCreated, status)
	categoryID := body["id"].(string)

	newProduct := map[string]any{
		"category_id":    categoryID,
		"name":           "Paneer Tikka",
		"description":    "Grilled cottage cheese",
		"quantity":       10,
		"original_price": "300",
		"selling_price":  "140",
	}
	status, body = env.do(t, http.MethodPost, "/api/v1/admin/products", adminToken, newProduct)
	require.Equal(t, http.StatusCreated, status)
	productID := body["id"].(string)

	// Public reads need no token.
	status, body = env.do(t, http.MethodGet, "/api/v1/products/"+productID, "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Paneer Tikka", body["name"])

	status, body = env.do(t, http.MethodGet, "/api/v1/categories/"+categoryID, "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["products"], 1)

	status, body = env.do(t, http.MethodGet, "/api/v1/search?q=PANEER", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["results"], 1)

	status, body = env.do(t, http.MethodGet, "/api/v1/offers", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 1)

	newProduct["name"] = "Paneer Tikka Special"
	status, body = env.do(t, http.MethodPut, "/api/v1/admin/products/"+productID, adminToken, newProduct)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Paneer Tikka Special", body["name"])

	status, body = env.do(t, http.MethodDelete, "/api/v1/admin/products/"+productID, adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body["message"], "deleted successfully")

	status, _ = env.do(t, http.MethodGet, "/api/v1/products/"+productID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func seedProduct(t *testing.T, db *gorm.DB, name string, stock int, price string) string {
	t.Helper()
	category := models.Category{ID: uuid.NewString(), Name: "Mains", Description: "Main course"}
	require.NoError(t, db.Create(&category).Error)

	product := models.Product{
		ID:            uuid.NewString(),
		CategoryID:    category.ID,
		Name:          name,
		Description:   name + " description",
		Quantity:      stock,
		OriginalPrice: decimal.RequireFromString(price),
		SellingPrice:  decimal.RequireFromString(price),
	}
	require.NoError(t, db.Omit("Category").Create(&product).Error)
	return product.ID
}

func TestCartCheckoutAndReviewFlow(t *testing.T) {
	env := setupApp(t)
	adminToken := env.registerAndLogin(t, "admin", true)
	token := env.registerAndLogin(t, "asha", false)

	a := seedProduct(t, env.db, "Product A", 5, "100")
	b := seedProduct(t, env.db, "Product B", 1, "50")

	status, _ := env.do(t, http.MethodPost, "/api/v1/checkout", token, nil)
	assert.Equal(t, http.StatusBadRequest, status, "empty cart")

	status, body := env.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]any{"product_id": a, "quantity": 2})
	require.Equal(t, http.StatusCreated, status)
	status, body = env.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]any{"product_id": b, "quantity": 1})
	require.Equal(t, http.StatusCreated, status)
	lineB := body["line"].(map[string]any)["id"].(string)

	// B has no stock left to add another unit: warning, not failure.
	status, body = env.do(t, http.MethodPost, "/api/v1/cart/items/"+lineB+"/increase", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Only 1 units available.", body["warning"])

	status, body = env.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]any{"product_id": b, "quantity": 1})
	assert.Equal(t, http.StatusConflict, status)
	assert.EqualValues(t, 1, body["available"])

	status, body = env.do(t, http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["lines"], 2)
	assert.Equal(t, "250", body["total"])

	status, body = env.do(t, http.MethodPost, "/api/v1/checkout", token, nil)
	require.Equal(t, http.StatusCreated, status)
	trackingNo := body["tracking_no"].(string)
	assert.NotEmpty(t, trackingNo)
	assert.Equal(t, "250", body["total"])
	assert.Equal(t, 1, env.mail.count())

	status, body = env.do(t, http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["lines"])

	status, body = env.do(t, http.MethodGet, "/api/v1/orders/"+trackingNo, token, nil)
	require.Equal(t, http.StatusOK, status)
	orders := body["orders"].([]any)
	require.Len(t, orders, 2)
	orderID := orders[0].(map[string]any)["id"].(string)

	// Buy-now beyond the remaining stock of A (3 left).
	status, _ = env.do(t, http.MethodPost, "/api/v1/buy/"+a+"?qty=4", token, nil)
	assert.Equal(t, http.StatusConflict, status)
	status, _ = env.do(t, http.MethodPost, "/api/v1/buy/"+a, token, map[string]int{"quantity": 3})
	assert.Equal(t, http.StatusCreated, status)

	status, _ = env.do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/review", token, map[string]any{"rating": 5, "comment": "Lovely"})
	assert.Equal(t, http.StatusConflict, status, "order not delivered yet")

	status, _ = env.do(t, http.MethodPatch, "/api/v1/admin/orders/"+orderID+"/status", adminToken, map[string]string{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, status)
	status, body = env.do(t, http.MethodPatch, "/api/v1/admin/orders/"+orderID+"/status", adminToken, map[string]string{"status": "delivered"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Delivered", body["status"])

	status, _ = env.do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/review", token, map[string]any{"rating": 9, "comment": "Lovely"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	status, _ = env.do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/review", token, map[string]any{"rating": 5, "comment": "Lovely"})
	assert.Equal(t, http.StatusCreated, status)
	status, _ = env.do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/review", token, map[string]any{"rating": 4, "comment": "Again"})
	assert.Equal(t, http.StatusConflict, status)

	status, body = env.do(t, http.MethodGet, "/api/v1/admin/orders?status=Delivered", adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 1)

	status, body = env.do(t, http.MethodGet, "/api/v1/orders", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 3)
}

func TestProfileAndAccount(t *testing.T) {
	env := setupApp(t)
	token := env.registerAndLogin(t, "ravi", false)

	status, body := env.do(t, http.MethodPut, "/api/v1/profile", token, map[string]string{
		"first_name": "Ravi",
		"bio":        "Spice enthusiast",
	})
	require.Equal(t, http.StatusOK, status)

	status, body = env.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ravi", body["first_name"])
	assert.Equal(t, "Spice enthusiast", body["profile"].(map[string]any)["bio"])

	status, _ = env.do(t, http.MethodDelete, "/api/v1/account", token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = env.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "ravi",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestProtectedEndpointsWithoutAuth(t *testing.T) {
	env := setupApp(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodPost, "/api/v1/checkout"},
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodGet, "/api/v1/profile"},
		{http.MethodGet, "/api/v1/admin/orders"},
	} {
		status, _ := env.do(t, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, "%s %s", route.method, route.path)
	}

	status, body := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}
