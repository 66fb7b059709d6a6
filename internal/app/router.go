package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"trufi/internal/handler"
	"trufi/internal/metrics"
	"trufi/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	EstimateHandler *handler.EstimateHandler
	FareHandler     *handler.FareHandler
	GeocodeHandler  *handler.GeocodeHandler
	LineHandler     *handler.LineHandler
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
	Collector       *metrics.Collector
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Catalog edits are retried by flaky mobile clients; the idempotency
	// layer needs Redis.
	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus exposition.
	if deps.Collector != nil {
		router.GET("/metrics", gin.WrapH(deps.Collector.Handler()))
	}

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Route estimates and recommendations.
		routes := v1.Group("/routes")
		{
			routes.POST("/estimate", deps.EstimateHandler.EstimateRoute)
		}
		v1.POST("/recommendations", deps.EstimateHandler.Recommend)

		// General fare quotes.
		fares := v1.Group("/fares")
		{
			fares.POST("/quote", deps.FareHandler.Quote)
		}

		// Geocoding proxy.
		v1.GET("/geocode", deps.GeocodeHandler.Search)

		// Line catalog editing.
		lines := v1.Group("/lines")
		{
			lines.POST("", deps.LineHandler.CreateLine)
			lines.GET("", deps.LineHandler.GetAll)
			lines.GET("/:id", deps.LineHandler.GetLine)
			lines.PATCH("/:id", deps.LineHandler.UpdateLine)
			lines.POST("/:id/stops", deps.LineHandler.AddStop)
			lines.PUT("/:id/stops/:index", deps.LineHandler.RenameStop)
			lines.DELETE("/:id/stops/:index", deps.LineHandler.RemoveStop)
		}
	}

	return router
}
