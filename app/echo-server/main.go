package main

import (
	"adPulse/app/echo-server/router"
	"adPulse/business/ads"
	"adPulse/business/allocator"
	"adPulse/business/campaigns"
	"adPulse/business/pools"
	"adPulse/business/similarity"
	userService "adPulse/business/user"
	"adPulse/internal/middleware"
	"adPulse/internal/repository/notification"
	"adPulse/internal/repository/patternindex"
	psqlRepo "adPulse/internal/repository/postgres"
	redisRepo "adPulse/internal/repository/redis"
	"adPulse/internal/rest"
	"adPulse/internal/scheduler"
	"adPulse/pkg/config"
	"adPulse/pkg/database"
	redisdb "adPulse/pkg/database/redis"
	"adPulse/pkg/logger"
	"adPulse/pkg/metrics"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting AdPulse", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}

	logger.Info("Redis connected successfully")

	// Init notification from mailjet
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	patternIndexRepo := patternindex.NewPatternIndexRepository(
		patternindex.PatternIndexConfig{
			BaseUrl:           cfg.PatternIndex.BaseUrl,
			BasicAuthUsername: cfg.PatternIndex.BasicAuthUsername,
			BasicAuthPassword: cfg.PatternIndex.BasicAuthPassword,
		},
	)

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	adRepo := psqlRepo.NewAdRepository(db)
	snapshotRepo := psqlRepo.NewSnapshotRepository(db)
	poolRepo := psqlRepo.NewPoolRepository(db)
	campaignRepo := psqlRepo.NewCampaignRepository(db)
	runRepo := psqlRepo.NewAllocationRunRepository(db)
	allocCfgRepo := psqlRepo.NewAllocatorConfigRepository(db)
	patternRepo := psqlRepo.NewWinningPatternRepository(db)

	tokenRepo := redisRepo.NewTokenRepository(redisClient)
	simCache := redisRepo.NewSimilarityCache(redisClient)

	// Init service
	userSvc := userService.NewUserService(userRepo, validate, mailjetEmail, tokenRepo, cfg.App.AppEmailVerificationKey, cfg.App.AppDeploymentUrl)
	adsService := ads.NewAdsService(adRepo, snapshotRepo, validate)
	poolService := pools.NewPoolService(poolRepo, poolRepo)
	campaignService := campaigns.NewCampaignService(campaignRepo)
	similarityService := similarity.NewSimilarityService(patternRepo, adRepo, simCache, patternIndexRepo)

	defaultCfg := allocator.DefaultConfig()
	if cfg.Allocator.DefaultsFile != "" {
		defaultCfg, err = allocator.LoadDefaultsFile(cfg.Allocator.DefaultsFile, defaultCfg)
		if err != nil {
			logger.Fatal("Failed to load allocator defaults file", "error", err)
		}
		logger.Info("Loaded allocator defaults", "file", cfg.Allocator.DefaultsFile)
	}

	allocatorService := allocator.NewAllocatorService(
		snapshotRepo,
		poolRepo,
		runRepo,
		similarityService,
		allocCfgRepo,
		poolService,
		defaultCfg,
	)

	metrics.Init()

	// Init handler
	userHandler := rest.NewUserHandler(userSvc)
	adsHandler := rest.NewAdsHandler(adsService)
	poolHandler := rest.NewPoolHandler(poolService)
	campaignHandler := rest.NewCampaignHandler(campaignService)
	allocationHandler := rest.NewAllocationHandler(allocatorService)
	allocationAdminHandler := rest.NewAllocationAdminHandler(allocCfgRepo, allocatorService)
	patternHandler := rest.NewPatternHandler(similarityService)
	webhookController := rest.NewPatternWebhookController(similarityService, cfg.PatternIndex.WebhookVerificationToken)
	healthHandler := rest.NewHealthHandler(db, redisClient, cfg.App.Version)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Auth middleware
	authRequired := middleware.AuthMiddlewareWithRedis(userSvc)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired, adminOnly)
	router.SetupCampaignRoutes(api, campaignHandler, authRequired, adminOnly)
	router.SetupPoolRoutes(api, poolHandler, authRequired, adminOnly)
	router.SetAdsRoutes(api, adsHandler, authRequired, adminOnly)
	router.SetAllocationRoutes(api, allocationHandler, authRequired)
	router.SetAllocationAdminRoutes(api, allocationAdminHandler, authRequired, adminOnly)
	router.SetPatternAdminRoutes(api, patternHandler, authRequired, adminOnly)
	router.SetWebhookHandler(api, webhookController)

	e.GET("/health", healthHandler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Periodic allocation refresh
	schedCtx, cancelSched := context.WithCancel(context.Background())
	defer cancelSched()

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.NewScheduler(schedCtx, allocatorService, mailjetEmail, cfg.Scheduler.DigestEmail, cfg.Scheduler.DigestName)
		if err := sched.Register(cfg.Scheduler.RefreshSpec); err != nil {
			logger.Fatal("Failed to register refresh task", "error", err)
		}
		sched.Start()
		logger.Info("Allocation refresh scheduled", "spec", cfg.Scheduler.RefreshSpec)
	}

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}
	cancelSched()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if err := redisdb.CloseRedisClient(redisClient); err != nil {
		logger.Error("Redis close error", "error", err)
	}

	logger.Info("Server stopped")
}
