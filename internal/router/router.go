package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/campushq/studentdesk-backend/internal/config"
	"github.com/campushq/studentdesk-backend/internal/handler"
	"github.com/campushq/studentdesk-backend/internal/middleware"
	"github.com/campushq/studentdesk-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Student *handler.StudentHandler
	Blob    *handler.BlobHandler
}

// SetupRouter configures the Gin engine with CORS, request IDs, response
// compression, and the API routes.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response carries one.
	router.Use(response.RequestIDMiddleware())

	// Compress list/detail JSON for clients that accept brotli.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/students", handlers.Student.CreateStudent)
		api.GET("/students", handlers.Student.ListStudents)
		api.GET("/students/:email", handlers.Student.GetStudent)
		api.PUT("/students/:email", handlers.Student.UpdateStudent)
		api.DELETE("/students/:email", handlers.Student.DeleteStudent)

		api.POST("/blob-sas", handlers.Blob.CreateUploadTarget)
	}

	return router
}
