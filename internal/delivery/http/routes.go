package http

import (
	"github.com/gin-gonic/gin"
	"github.com/stylist/engine/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint, exempt from rate limiting
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		recommendations := v1.Group("/recommendations")
		{
			recommendations.POST("", handler.GetRecommendations)
			recommendations.POST("/similar", handler.GetSimilarItems)
			recommendations.POST("/outfit", handler.CompleteOutfit)
		}

		v1.POST("/profile", handler.BuildProfile)
	}

	return router
}
