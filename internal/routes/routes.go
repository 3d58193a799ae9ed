package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"renthub_backend/internal/handlers"
	"renthub_backend/pkg/contextkeys"
)

// RegisterRoutes registers all HTTP routes.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	ginRouter.GET("/health", healthCheck)

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.ItemHandler.RegisterRoutes(api)
		appHandlers.ReservationHandler.RegisterRoutes(api)
		appHandlers.ReviewHandler.RegisterRoutes(api)
	}
}

func healthCheck(c *gin.Context) {
	dbVal, ok := c.Get(string(contextkeys.DBContextKey))
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": "not configured"})
		return
	}

	gormDB, ok := dbVal.(*gorm.DB)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": "not configured"})
		return
	}

	sqlDB, err := gormDB.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
