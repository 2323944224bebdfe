package handlers

import (
	"foodspot/internal/models"
	"foodspot/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogHandler handles HTTP requests for categories and products.
type CatalogHandler struct {
	service *services.CatalogService
	lg      *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService, lg *zap.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, lg: lg}
}

// RegisterRoutes registers the public catalog routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/categories", h.HandleListCategories)
	router.Get("/categories/:id", h.HandleGetCategory)
	router.Get("/products", h.HandleListProducts)
	router.Get("/products/:id", h.HandleGetProduct)
	router.Get("/search", h.HandleSearch)
	router.Get("/offers", h.HandleOffers)
}

// RegisterAdminRoutes registers catalog management routes. The router is
// expected to be restricted to administrators.
func (h *CatalogHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Post("/categories", h.HandleCreateCategory)
	router.Post("/products", h.HandleCreateProduct)
	router.Put("/products/:id", h.HandleUpdateProduct)
	router.Delete("/products/:id", h.HandleDeleteProduct)
}

// HandleListCategories retrieves all categories.
func (h *CatalogHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, h.lg, err, "retrieve categories")
	}
	return c.JSON(categories)
}

// HandleGetCategory retrieves a category with its products.
func (h *CatalogHandler) HandleGetCategory(c *fiber.Ctx) error {
	category, err := h.service.GetCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.lg, err, "retrieve category")
	}
	return c.JSON(category)
}

// HandleListProducts retrieves all products.
func (h *CatalogHandler) HandleListProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext())
	if err != nil {
		return respondError(c, h.lg, err, "retrieve products")
	}
	return c.JSON(products)
}

// HandleGetProduct retrieves a single product by its ID.
func (h *CatalogHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.lg, err, "retrieve product")
	}
	return c.JSON(product)
}

// HandleSearch matches products by name.
func (h *CatalogHandler) HandleSearch(c *fiber.Ctx) error {
	products, err := h.service.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, h.lg, err, "search products")
	}
	return c.JSON(fiber.Map{
		"query":   c.Query("q"),
		"results": products,
	})
}

// HandleOffers lists discounted products.
func (h *CatalogHandler) HandleOffers(c *fiber.Ctx) error {
	products, err := h.service.Offers(c.UserContext())
	if err != nil {
		return respondError(c, h.lg, err, "retrieve offers")
	}
	return c.JSON(products)
}

// HandleCreateCategory creates a category.
func (h *CatalogHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return badBody(c, err)
	}
	category.ID = ""
	category.Products = nil

	if err := h.service.CreateCategory(c.UserContext(), &category); err != nil {
		return respondError(c, h.lg, err, "create category")
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// productRequest is the editable part of a product.
type productRequest struct {
	CategoryID    string          `json:"category_id"`
	Name          string          `json:"name"`
	Image         string          `json:"image"`
	Quantity      int             `json:"quantity"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Description   string          `json:"description"`
}

func (r productRequest) toModel(id string) *models.Product {
	return &models.Product{
		ID:            id,
		CategoryID:    r.CategoryID,
		Name:          r.Name,
		Image:         r.Image,
		Quantity:      r.Quantity,
		OriginalPrice: r.OriginalPrice,
		SellingPrice:  r.SellingPrice,
		Description:   r.Description,
	}
}

// HandleCreateProduct creates a new product.
func (h *CatalogHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	product := req.toModel("")
	if err := h.service.CreateProduct(c.UserContext(), product); err != nil {
		return respondError(c, h.lg, err, "create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces the editable fields of a product.
func (h *CatalogHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	product := req.toModel(c.Params("id"))
	if err := h.service.UpdateProduct(c.UserContext(), product); err != nil {
		return respondError(c, h.lg, err, "update product")
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *CatalogHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	if err := h.service.DeleteProduct(c.UserContext(), productID); err != nil {
		return respondError(c, h.lg, err, "delete product")
	}
	return c.JSON(fiber.Map{
		"message": "Product " + productID + " deleted successfully",
	})
}
