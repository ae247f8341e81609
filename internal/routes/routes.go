package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/souqly/internal/config"
	"github.com/example/souqly/internal/database"
	"github.com/example/souqly/internal/handlers"
	"github.com/example/souqly/internal/middleware"
	"github.com/example/souqly/internal/models"
	"github.com/example/souqly/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	telegramService := services.NewTelegramService(cfg.TelegramAPIURL, cfg.TelegramBotToken, cfg.TelegramAdminChat)
	orderService := services.NewOrderService(db, services.StatusPolicy{Strict: cfg.StrictTransitions}, telegramService, cfg.VATRate, cfg.Currency)
	homepageService := services.NewHomepageService(db, cfg.HomepageRetries)

	authHandler := handlers.NewAuthHandler(db, cfg)
	profileHandler := handlers.NewProfileHandler(db)
	catalogHandler := handlers.NewCatalogHandler(db)
	productHandler := handlers.NewProductHandler(db)
	orderHandler := handlers.NewOrderHandler(orderService)
	adminHandler := handlers.NewAdminHandler(db, orderService)
	homepageHandler := handlers.NewHomepageHandler(homepageService)
	settingsHandler := handlers.NewSettingsHandler(db)
	healthHandler := handlers.NewHealthHandler(func() error { return database.Ping(db) })

	authenticated := middleware.AuthMiddleware(cfg.JWTSecret)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	contentEditors := middleware.RequireRoles(models.RoleAdmin, models.RoleEditor)

	api := app.Group("/api")
	api.Get("/health", healthHandler.Health)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	profile := api.Group("/profile", authenticated)
	profile.Get("/", profileHandler.GetProfile)
	profile.Put("/", profileHandler.UpdateProfile)
	profile.Put("/password", profileHandler.ChangePassword)

	// Catalog routes
	categories := api.Group("/categories")
	categories.Get("/", catalogHandler.ListCategories)
	categories.Get("/:id", catalogHandler.GetCategory)
	categories.Post("/", authenticated, adminOnly, catalogHandler.CreateCategory)
	categories.Put("/:id", authenticated, adminOnly, catalogHandler.UpdateCategory)
	categories.Delete("/:id", authenticated, adminOnly, catalogHandler.DeleteCategory)

	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/:id", productHandler.GetProduct)
	products.Post("/", authenticated, adminOnly, productHandler.CreateProduct)
	products.Put("/:id", authenticated, adminOnly, productHandler.UpdateProduct)
	products.Delete("/:id", authenticated, adminOnly, productHandler.DeleteProduct)

	// Orders. Static segments are registered before /:id.
	orders := api.Group("/orders", authenticated)
	orders.Get("/admin/all", adminOnly, adminHandler.ListAllOrders)
	orders.Get("/admin/stats", adminOnly, orderHandler.AdminStats)
	orders.Get("/my-orders", orderHandler.MyOrders)
	orders.Get("/my-orders/stats", orderHandler.MyStats)
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/", orderHandler.ListOrders)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Get("/:id/next-statuses", adminOnly, orderHandler.NextStatuses)
	orders.Patch("/:id/status", adminOnly, orderHandler.UpdateStatus)
	orders.Patch("/:id/payment-status", adminOnly, orderHandler.UpdatePaymentStatus)

	// Homepage editor
	homepage := api.Group("/homepage")
	homepage.Get("/", homepageHandler.GetHomepage)
	homepage.Get("/featured-deals", settingsHandler.GetFeaturedDeals)
	homepage.Get("/exclusive-offers", settingsHandler.GetExclusiveOffers)

	homepage.Put("/", authenticated, contentEditors, homepageHandler.ReplaceHomepage)
	homepage.Put("/featured-deals", authenticated, contentEditors, settingsHandler.UpdateFeaturedDeals)
	homepage.Put("/exclusive-offers", authenticated, contentEditors, settingsHandler.UpdateExclusiveOffers)
	homepage.Post("/sections", authenticated, contentEditors, homepageHandler.AddSection)
	homepage.Post("/sections/reorder", authenticated, contentEditors, homepageHandler.ReorderSections)
	homepage.Put("/sections/:id", authenticated, contentEditors, homepageHandler.UpdateSection)
	homepage.Delete("/sections/:id", authenticated, contentEditors, homepageHandler.DeleteSection)
	homepage.Post("/sections/:id/duplicate", authenticated, contentEditors, homepageHandler.DuplicateSection)
	homepage.Post("/sections/:id/toggle", authenticated, contentEditors, homepageHandler.ToggleSection)

	// Store settings
	settings := api.Group("/settings")
	settings.Get("/payment/methods", settingsHandler.PaymentMethods)
	settings.Get("/shipping", settingsHandler.GetShipping)
	settings.Get("/payment", authenticated, adminOnly, settingsHandler.GetPayment)
	settings.Put("/payment", authenticated, adminOnly, settingsHandler.UpdatePayment)
	settings.Put("/shipping", authenticated, adminOnly, settingsHandler.UpdateShipping)

	// Back-office
	admin := api.Group("/admin", authenticated, adminOnly)
	admin.Get("/dashboard", adminHandler.DashboardStats)
	admin.Get("/products", productHandler.ListProducts)
	admin.Get("/users", adminHandler.ListAllUsers)
	admin.Patch("/users/:id/role", adminHandler.UpdateUserRole)
}
