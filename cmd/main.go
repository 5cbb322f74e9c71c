package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sports-auction/internal/auth"
	"sports-auction/internal/config"
	"sports-auction/internal/database"
	"sports-auction/internal/handlers"
	"sports-auction/internal/jobs"
	"sports-auction/internal/lock"
	"sports-auction/internal/logger"
	"sports-auction/internal/repository"
	"sports-auction/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Default().Fatal("Failed to load configuration", zap.Error(err))
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		logger.Default().Fatal("Failed to build logger", zap.Error(err))
	}
	defer log.Sync()

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg, log); err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.AutoMigrate(database.GetDB()); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Per-entity locks are shared through redis when several instances run
	var locker lock.Locker = lock.NewLocal()
	if cfg.Redis.Addr != "" {
		client, err := lock.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr))
		}
		defer client.Close()
		locker = lock.NewRedis(client, cfg.Redis.LockTTL, log)
		log.Info("Using redis entity locks", zap.String("addr", cfg.Redis.Addr))
	}

	// Initialize repository and services
	repo := repository.NewRepository(database.GetDB())
	core := services.NewCore(repo, locker, log, cfg.App.BidRetryAttempts)

	auctionService := services.NewAuctionService(core)
	lifecycleService := services.NewLifecycleService(core)
	biddingService := services.NewBiddingService(core)
	settlementService := services.NewSettlementService(core)
	teamService := services.NewTeamService(core)
	playerService := services.NewPlayerService(core)
	registrationService := services.NewRegistrationService(core)
	auditService := services.NewAuditService(repo)

	// Initialize handlers
	h := &handlers.Handlers{
		Auction:      handlers.NewAuctionHandler(auctionService, auditService),
		Live:         handlers.NewLiveHandler(lifecycleService, biddingService),
		Settlement:   handlers.NewSettlementHandler(settlementService),
		Team:         handlers.NewTeamHandler(teamService),
		Player:       handlers.NewPlayerHandler(playerService),
		Registration: handlers.NewRegistrationHandler(registrationService),
	}

	// Start ledger reconcile job
	if cfg.Jobs.ReconcileInterval > 0 {
		reconcileJob := jobs.NewReconcileJob(auctionService, settlementService, cfg.Jobs.ReconcileInterval, log)
		go reconcileJob.Start()
		defer reconcileJob.Stop()
	}

	// Set up Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(logger.Recovery(log), logger.RequestLogger(log))

	// CORS middleware
	if len(cfg.Server.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	h.Register(router)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
