package routes

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"jsoncompare/internal/auth"
	"jsoncompare/internal/config"
	"jsoncompare/internal/handlers"
)

func SetupRoutes(api *echo.Group, cfg *config.Config) {
	// Public routes
	api.GET("/health", handlers.HealthCheck)

	// Everything else is rate limited, and authenticated when a secret is set
	protected := api.Group("", auth.RateLimitMiddleware(auth.NewRateLimiter(cfg.RateLimit)))
	if cfg.JWTSecret != "" {
		protected.Use(auth.JWTMiddleware(cfg.JWTSecret))
	} else {
		slog.Warn("JWT_SECRET is not set, API authentication is disabled")
	}

	protected.POST("/compare", handlers.CompareDocuments)

	documents := protected.Group("/documents")
	documents.POST("", handlers.StoreDocument)
	documents.GET("", handlers.ListDocuments)
	documents.GET("/:id", handlers.GetDocument)
	documents.DELETE("/:id", handlers.DeleteDocument)

	comparisons := protected.Group("/comparisons")
	comparisons.POST("", handlers.CreateComparison)
	comparisons.GET("/:id", handlers.GetComparison)
	comparisons.GET("/:id/mismatches", handlers.GetComparisonMismatches)

	// Job routes
	jobs := protected.Group("/jobs")
	jobs.GET("/:id", handlers.GetJobStatus)
}
