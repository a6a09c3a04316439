package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/northstar/dispatch-backend/internal/config"
	"github.com/northstar/dispatch-backend/internal/database"
	"github.com/northstar/dispatch-backend/internal/handlers"
	"github.com/northstar/dispatch-backend/internal/logger"
	"github.com/northstar/dispatch-backend/internal/middleware"
	"github.com/northstar/dispatch-backend/internal/services"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.Server)

	log.Info("Starting NorthStar dispatch backend")
	log.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Set Gin mode
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	log.WithField("driver", cfg.Database.Driver).Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Initialize repositories
	routeRepository := database.NewRouteRepository(db)
	driverRepository := database.NewDriverRepository(db)

	// Initialize services
	routeService := services.NewRouteService(routeRepository, driverRepository, cfg.Share, log)
	driverService := services.NewDriverService(driverRepository, log)
	shareService := services.NewShareService(routeService, routeRepository, log)
	estimator := services.NewRouteEstimator(log)
	sweeper := services.NewExpirySweeper(routeRepository, log)
	sweepLog := services.NewSweepLog(cfg.Cleanup.LogDir)

	// Scheduled cleanup is optional; /api/cleanup and the CLI work without it
	var cronService *services.CronService
	if cfg.Cleanup.Schedule != "" {
		cronService = services.NewCronService(sweeper, sweepLog, cfg.Cleanup.Schedule, log)
		if err := cronService.Start(); err != nil {
			log.Fatalf("Failed to start cron service: %v", err)
		}
	}

	if cfg.Cleanup.SecretKey == "" {
		log.Warn("CLEANUP_SECRET_KEY is not set, /api/cleanup will refuse all requests")
	}

	// Initialize handlers
	routeHandler := handlers.NewRouteHandler(routeService, estimator, log)
	driverHandler := handlers.NewDriverHandler(driverService, log)
	shareHandler := handlers.NewShareHandler(shareService, log)
	cleanupHandler := handlers.NewCleanupHandler(sweeper, sweepLog, cronService, log)

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", handlers.HealthCheck(db, version))

	api := router.Group("/api")
	{
		api.Any("/routes", routeHandler.Handle())
		api.Any("/drivers", driverHandler.Handle())
		api.Any("/share", shareHandler.Handle())

		cleanup := api.Group("/cleanup")
		cleanup.Use(middleware.CleanupKey(cfg.Cleanup.SecretKey, log))
		{
			cleanup.GET("", cleanupHandler.Run)
			cleanup.POST("", cleanupHandler.Run)
			cleanup.GET("/status", cleanupHandler.Status)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if cronService != nil {
		log.Info("Stopping cron service...")
		cronService.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited successfully")
}
