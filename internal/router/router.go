package router

import (
	"foodtruck_backend/internal/config"
	"foodtruck_backend/internal/events"
	"foodtruck_backend/internal/handlers"
	"foodtruck_backend/internal/middleware"
	"foodtruck_backend/internal/payments"
	"foodtruck_backend/internal/repositories"
	"foodtruck_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Dependencies are the backends chosen at startup.
type Dependencies struct {
	Config    *config.Config
	Store     repositories.DocumentStore
	Blobs     repositories.BlobStore
	Provider  payments.Provider
	Publisher events.OrderPublisher
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, deps Dependencies) {
	// Initialize Repositories
	orderRepo := repositories.NewOrderRepository(deps.Store)
	bookingRepo := repositories.NewBookingRepository(deps.Store)
	contentRepo := repositories.NewContentRepository(deps.Store)

	// Initialize Services
	resolver := services.NewPriceResolver(contentRepo)
	orderService := services.NewOrderService(orderRepo, contentRepo, resolver, deps.Provider, deps.Publisher, deps.Config.ProviderTimeout)
	webhookService := services.NewWebhookService(deps.Provider, orderService)
	prepQueueService := services.NewPrepQueueService(orderService)
	bookingService := services.NewBookingService(bookingRepo)
	contentService := services.NewContentService(contentRepo, deps.Blobs)
	imageService := services.NewImageService(deps.Blobs)
	backupService := services.NewBackupService(contentRepo, bookingRepo, deps.Blobs)
	authService := services.NewAuthService(deps.Config.Admin)

	// Initialize Handlers
	orderHandler := handlers.NewOrderHandler(orderService, prepQueueService)
	webhookHandler := handlers.NewWebhookHandler(webhookService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	contentHandler := handlers.NewContentHandler(contentService)
	imageHandler := handlers.NewImageHandler(imageService)
	backupHandler := handlers.NewBackupHandler(backupService)
	authHandler := handlers.NewAuthHandler(authService)

	api := engine.Group("/api")

	SetupCheckoutRoutes(api, orderHandler, webhookHandler)
	SetupPublicContentRoutes(api, contentHandler, imageHandler)
	SetupPublicBookingRoutes(api, bookingHandler)
	api.POST("/admin/session", authHandler.CreateSession)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuthMiddleware(authService))
	{
		SetupPosRoutes(admin, orderHandler)
		SetupOrderAdminRoutes(admin, orderHandler)
		SetupBookingAdminRoutes(admin, bookingHandler)
		SetupContentAdminRoutes(admin, contentHandler)
		SetupImageAdminRoutes(admin, imageHandler)
		SetupBackupRoutes(admin, backupHandler, imageHandler)
	}
}
