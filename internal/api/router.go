package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/probmap/layers-backend-go/internal/config"
	"github.com/probmap/layers-backend-go/internal/handler"
	"github.com/probmap/layers-backend-go/internal/middleware"
)

// SetupRouter wires the HTTP surface: health check, middleware chain
// and the /api/v1 resource groups.
func SetupRouter(cfg *config.Config, layers *handler.LayerHandler, entities *handler.EntityHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(cfg.RateLimit, cfg.RateLimitWindow))

	// CORS for the map frontend
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Layers Backend API is running",
		})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTSecret))
	{
		layerGroup := api.Group("/layers")
		{
			layerGroup.POST("", layers.Import)
			layerGroup.GET("", layers.List)
			layerGroup.DELETE("", layers.Clear)
			layerGroup.GET("/:id", layers.Get)
			layerGroup.DELETE("/:id", layers.Delete)
			layerGroup.GET("/:id/overlay", layers.Overlay)
			layerGroup.GET("/:id/stats", layers.Stats)
			layerGroup.PUT("/:id/render-mode", layers.SetRenderMode)
			layerGroup.PUT("/:id/value-range", layers.SetValueRange)
			layerGroup.PUT("/:id/hue", layers.SetHue)
			layerGroup.PUT("/:id/opacity", layers.SetOpacity)
			layerGroup.PUT("/:id/radius", layers.SetRadius)
			layerGroup.PUT("/:id/visible", layers.SetVisible)
			layerGroup.PUT("/:id/position", layers.Reorder)
		}

		// hide-all is global view state, not a property of one layer, so
		// it lives outside the /layers/:id tree.
		api.PUT("/hide-all", layers.HideAll)

		entityGroup := api.Group("/entities")
		{
			entityGroup.POST("", entities.Create)
			entityGroup.GET("", entities.List)
			entityGroup.DELETE("", entities.Clear)
			entityGroup.GET("/:id", entities.Get)
			entityGroup.DELETE("/:id", entities.Delete)
			entityGroup.POST("/:id/click", entities.Click)
			entityGroup.GET("/:id/measure", entities.Measure)
			entityGroup.PUT("/:id/color", entities.SetColor)
			entityGroup.PUT("/:id/location-type", entities.SetClassification)
			entityGroup.PUT("/:id/uncertainty", entities.SetUncertainty)
		}

		assignment := api.Group("/type-assignment")
		{
			assignment.POST("", entities.Arm)
			assignment.GET("", entities.Armed)
			assignment.DELETE("", entities.Disarm)
		}

		typeGroup := api.Group("/location-types")
		{
			typeGroup.GET("", entities.ListTypes)
			typeGroup.POST("", entities.CreateType)
			typeGroup.PUT("/:name", entities.UpdateType)
			typeGroup.DELETE("/:name", entities.DeleteType)
			typeGroup.PUT("/:name/rename", entities.RenameType)
		}
	}

	return r
}
