package http

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go.ngs.io/seawater/internal/usecase"
)

// RouterConfig configures SetupRouter.
type RouterConfig struct {
	// AllowedOrigins for CORS. Empty allows all origins.
	AllowedOrigins []string
	// Logger receives access and error logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// SetupRouter creates and configures the Gin router.
func SetupRouter(physicsUC *usecase.PhysicsUseCase, cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(logger))

	// Setup CORS middleware.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.ExposeHeaders = []string{RequestIDHeader}
	router.Use(cors.New(corsConfig))

	handler := NewHandler(physicsUC, logger)

	// API v1 routes.
	v1 := router.Group("/v1")
	v1.GET("/constants", handler.GetConstants)
	v1.GET("/properties", handler.GetProperties)

	convert := v1.Group("/convert")
	convert.GET("/depth", handler.GetConvertDepth)
	convert.GET("/pressure", handler.GetConvertPressure)

	v1.GET("/profiles", handler.ListProfiles)
	v1.GET("/profiles/:id", handler.GetProfile)
	v1.GET("/locate", handler.LocateProfile)
	v1.GET("/stations", handler.ListStations)

	v1.GET("/depth", handler.GetDepth)
	v1.POST("/depth", handler.PostDepth)
	v1.GET("/soundpath", handler.GetSoundPath)
	v1.POST("/soundpath", handler.PostSoundPath)

	// Health check.
	router.GET("/health", handler.HealthCheck)

	return router
}
