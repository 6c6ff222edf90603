package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, handlers *Handlers) {
	// API v1 routes
	v1 := r.Group("/api")
	{
		// Health check (handle both GET and HEAD)
		v1.GET("/health", handlers.HealthCheck)
		v1.HEAD("/health", handlers.HealthCheck)

		// Catalog snapshot
		v1.GET("/catalog", handlers.GetCatalog)
		v1.GET("/products/:id", handlers.GetProduct)
		v1.GET("/products/:id/history", handlers.GetProductHistory)

		// Stats
		v1.GET("/stats", handlers.GetStats)

		// Admin operations (WARNING: No authentication - add auth middleware before production)
		v1.POST("/admin/update", handlers.TriggerUpdate)
		v1.POST("/admin/reconcile", handlers.TriggerReconcile)
		v1.GET("/admin/scrape-one", handlers.ScrapeOne)
	}
}
