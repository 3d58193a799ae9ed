package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"

	"renthub_backend/database"
	"renthub_backend/internal/config"
	"renthub_backend/internal/events"
	"renthub_backend/internal/handlers"
	"renthub_backend/internal/logger"
	"renthub_backend/internal/middleware"
	"renthub_backend/internal/routes"
	"renthub_backend/internal/services"
	"renthub_backend/internal/validator"
	"renthub_backend/internal/workers"

	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	bus := events.NewBus()

	ginRouter := SetupRouter(cfg, gormDB, sqlDB, bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := workers.NewReservationWorker(gormDB, bus, cfg.PendingTTL(), cfg.WorkerInterval())
	worker.Start(ctx)
	logger.Info("Reservation worker started",
		"pending_ttl", cfg.PendingTTL().String(),
		"interval", cfg.WorkerInterval().String(),
	)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, sqlDB *sql.DB, bus *events.Bus) *gin.Engine {
	serviceContainer := services.NewServiceContainer(gormDB, sqlDB, bus)

	v := validator.New()
	base := handlers.NewBaseHandler(v)
	appHandlers := &handlers.AppHandlers{
		AuthHandler:        handlers.NewAuthHandler(base, serviceContainer.AuthService),
		ItemHandler:        handlers.NewItemHandler(base, serviceContainer.ItemService),
		ReservationHandler: handlers.NewReservationHandler(base, serviceContainer.BookingService, serviceContainer.ReservationService),
		ReviewHandler:      handlers.NewReviewHandler(base, serviceContainer.ReviewService),
	}

	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

func initializeGinRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(middleware.DBMiddleware(gormDB))
	return ginRouter
}
