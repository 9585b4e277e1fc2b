package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/pos-checkout/internal/api/handlers"
	"github.com/jafarshop/pos-checkout/internal/api/middleware"
	"github.com/jafarshop/pos-checkout/internal/checkout"
	"github.com/jafarshop/pos-checkout/internal/config"
	"github.com/jafarshop/pos-checkout/internal/receipt"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, manager *checkout.Manager, presenter *receipt.Presenter, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	v1.Use(middleware.BearerPassThrough())
	{
		v1.POST("/checkouts", handlers.HandleSubmitCheckout(manager, logger))
		v1.GET("/checkouts/:id", handlers.HandleGetCheckout(manager, logger))
		v1.POST("/checkouts/:id/gateway-result", handlers.HandleGatewayResult(manager, logger))
		v1.POST("/checkouts/:id/gateway-validation", handlers.HandleGatewayValidation(manager, logger))
		v1.POST("/checkouts/:id/cancel", handlers.HandleCancelCheckout(manager, logger))
		v1.GET("/checkouts/:id/receipt", handlers.HandleGetReceipt(manager, presenter, logger))
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
