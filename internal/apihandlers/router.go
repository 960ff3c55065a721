package apihandlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter creates the gin engine with middleware and routes.
// A nil or empty origins list allows every origin.
func NewRouter(h *APIHandler, origins []string) *gin.Engine {
	router := gin.New()

	router.Use(RequestID())
	router.Use(Logger())
	router.Use(Recovery())
	router.Use(corsMiddleware(origins))

	router.GET("/", h.RootHandler)
	router.GET("/health", h.HealthHandler)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/classify", h.ClassifyHandler)
		v1.GET("/categories", h.ListCategoriesHandler)
	}

	router.NoRoute(func(c *gin.Context) {
		NotFound(c, "route not found: "+c.Request.URL.Path)
	})

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
