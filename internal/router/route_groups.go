package router

import (
	"foodtruck_backend/internal/handlers"
	"foodtruck_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupCheckoutRoutes sets up customer checkout and provider callbacks.
func SetupCheckoutRoutes(api *gin.RouterGroup, orderHandler *handlers.OrderHandler, webhookHandler *handlers.WebhookHandler) {
	api.POST("/checkout", orderHandler.Checkout)
	api.GET("/orders", orderHandler.GetOrderBySession)
	api.GET("/payment-config", orderHandler.GetPaymentConfig)

	webhooks := api.Group("/webhooks")
	{
		webhooks.POST("/provider", webhookHandler.Receive)
		// Older Stripe dashboards still point here.
		webhooks.POST("/stripe", webhookHandler.Receive)
	}
}

// SetupPublicContentRoutes sets up the read-only site content.
func SetupPublicContentRoutes(api *gin.RouterGroup, contentHandler *handlers.ContentHandler, imageHandler *handlers.ImageHandler) {
	for _, key := range models.EditableContentKeys {
		api.GET("/"+key, contentHandler.Get(key))
	}
	api.GET("/manifest", contentHandler.Manifest)
	api.GET("/images/*path", imageHandler.Serve)
}

func SetupPublicBookingRoutes(api *gin.RouterGroup, bookingHandler *handlers.BookingHandler) {
	api.POST("/bookings", bookingHandler.CreateBooking)
}

// SetupPosRoutes sets up the in-person sale endpoints.
func SetupPosRoutes(admin *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	admin.POST("/pos-order", orderHandler.CreatePosOrder)
	admin.POST("/pos-payment-intent", orderHandler.CreatePosPaymentIntent)
	admin.POST("/pos-checkout-link", orderHandler.CreatePosCheckoutLink)
	admin.POST("/pos-terminal-intent", orderHandler.CreateTerminalIntent)
	admin.GET("/pos-terminal-status", orderHandler.GetTerminalStatus)
	admin.POST("/pos-terminal-cancel", orderHandler.CancelTerminalPayment)
	admin.POST("/terminal-connection-token", orderHandler.CreateConnectionToken)
}

// SetupOrderAdminRoutes sets up order management and the kitchen display.
func SetupOrderAdminRoutes(admin *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	admin.GET("/orders", orderHandler.GetOrders)
	admin.POST("/orders", orderHandler.UpdateOrder)
	admin.GET("/prep-queue", orderHandler.GetPrepQueue)
}

func SetupBookingAdminRoutes(admin *gin.RouterGroup, bookingHandler *handlers.BookingHandler) {
	admin.GET("/bookings", bookingHandler.GetBookings)
	admin.POST("/bookings", bookingHandler.UpdateBooking)
}

// SetupContentAdminRoutes sets up editing of each content document.
func SetupContentAdminRoutes(admin *gin.RouterGroup, contentHandler *handlers.ContentHandler) {
	for _, key := range models.EditableContentKeys {
		admin.GET("/"+key, contentHandler.Get(key))
		admin.POST("/"+key, contentHandler.Put(key))
	}
	admin.DELETE("/"+models.ContentFavicon, contentHandler.DeleteFavicon)
}

func SetupImageAdminRoutes(admin *gin.RouterGroup, imageHandler *handlers.ImageHandler) {
	admin.GET("/images", imageHandler.List)
	admin.POST("/images", imageHandler.Upload)
	admin.DELETE("/images", imageHandler.Delete)
}

// SetupBackupRoutes sets up export and restore of all site content.
func SetupBackupRoutes(admin *gin.RouterGroup, backupHandler *handlers.BackupHandler, imageHandler *handlers.ImageHandler) {
	admin.GET("/backup", backupHandler.Export)
	admin.POST("/restore", backupHandler.Restore)
	admin.POST("/restore-image", imageHandler.Restore)
}
