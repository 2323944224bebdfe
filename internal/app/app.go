// Package app assembles the services and the Fiber application.
package app

import (
	"context"
	"time"

	"foodspot/internal/config"
	"foodspot/internal/handlers"
	"foodspot/internal/middleware"
	"foodspot/internal/notifier"
	"foodspot/internal/repositories"
	"foodspot/internal/services"
	"foodspot/internal/tracking"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the external resources the application is built from. Guard and
// Tracking are optional.
type Deps struct {
	DB       *gorm.DB
	Notifier notifier.Notifier
	Guard    services.CheckoutGuard
	Tracking tracking.Generator
	Config   *config.Config
	Logger   *zap.Logger
	// Checks run by /health in addition to the database ping.
	Checks map[string]func(context.Context) error
}

// Services bundles every service built by NewServices.
type Services struct {
	Auth     *services.AuthService
	Catalog  *services.CatalogService
	Cart     *services.CartService
	Checkout *services.CheckoutService
	Orders   *services.OrderService
	Reviews  *services.ReviewService
}

// NewServices wires repositories and services on d.DB.
func NewServices(d Deps) *Services {
	repos := repositories.NewGORMRepositories(d.DB)
	cfg := d.Config

	gen := d.Tracking
	if gen == nil {
		gen = tracking.UUIDGenerator{Prefix: cfg.TrackingPrefix}
	}
	opts := []services.CheckoutOption{
		services.WithSender(cfg.MailFrom),
		services.WithCurrency(cfg.Currency),
	}
	if d.Guard != nil {
		opts = append(opts, services.WithCheckoutGuard(d.Guard))
	}

	return &Services{
		Auth: services.NewAuthService(repos.Users, d.Notifier, d.Logger, services.AuthConfig{
			JWTSecret:        cfg.JWTSecret,
			TokenTTL:         cfg.JWTTTL,
			PasswordResetTTL: cfg.PasswordResetTTL,
			PasswordResetURL: cfg.PasswordResetURL,
			MailFrom:         cfg.MailFrom,
		}),
		Catalog:  services.NewCatalogService(repos.Categories, repos.Products, repos.Reviews),
		Cart:     services.NewCartService(repos.Carts, repos.Products),
		Checkout: services.NewCheckoutService(repositories.NewGORMTransactor(d.DB), gen, d.Notifier, d.Logger, opts...),
		Orders:   services.NewOrderService(repos.Orders, d.Logger),
		Reviews:  services.NewReviewService(repos.Orders, repos.Reviews),
	}
}

// New builds the Fiber application with every route registered.
func New(d Deps, svc *Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "foodspot",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	authHandler := handlers.NewAuthHandler(svc.Auth, d.Logger)
	catalogHandler := handlers.NewCatalogHandler(svc.Catalog, d.Logger)
	cartHandler := handlers.NewCartHandler(svc.Cart, d.Logger)
	orderHandler := handlers.NewOrderHandler(svc.Checkout, svc.Orders, svc.Reviews, d.Logger)
	profileHandler := handlers.NewProfileHandler(svc.Auth, d.Logger)

	apiV1 := app.Group("/api/v1")

	// Public routes
	authHandler.RegisterRoutes(apiV1)
	catalogHandler.RegisterRoutes(apiV1)

	// Admin routes are registered before the customer group so that the
	// admin prefix is matched first.
	admin := apiV1.Group("/admin", middleware.AuthRequired(svc.Auth, d.Logger), middleware.AdminRequired())
	catalogHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)

	protected := apiV1.Group("", middleware.AuthRequired(svc.Auth, d.Logger))
	cartHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)
	profileHandler.RegisterRoutes(protected)

	app.Get("/health", healthHandler(d))

	return app
}

func healthHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		status := fiber.StatusOK
		checks := fiber.Map{}

		database := "connected"
		if sqlDB, err := d.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			database = "unavailable"
			status = fiber.StatusServiceUnavailable
		}
		checks["database"] = database

		for name, check := range d.Checks {
			if err := check(ctx); err != nil {
				checks[name] = "unavailable"
				status = fiber.StatusServiceUnavailable
				continue
			}
			checks[name] = "connected"
		}

		state := "healthy"
		if status != fiber.StatusOK {
			state = "degraded"
		}
		return c.Status(status).JSON(fiber.Map{
			"status": state,
			"time":   time.Now().Format(time.RFC3339),
			"checks": checks,
		})
	}
}
