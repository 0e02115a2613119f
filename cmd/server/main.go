package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/miss-blue/JeepNiBackend/configs"
	"github.com/miss-blue/JeepNiBackend/internal/application/services"
	"github.com/miss-blue/JeepNiBackend/internal/core/ports"
	"github.com/miss-blue/JeepNiBackend/internal/infrastructure/db"
	"github.com/miss-blue/JeepNiBackend/internal/infrastructure/email"
	"github.com/miss-blue/JeepNiBackend/internal/infrastructure/health"
	"github.com/miss-blue/JeepNiBackend/internal/infrastructure/httpserver"
	"github.com/miss-blue/JeepNiBackend/internal/infrastructure/push"
	"github.com/miss-blue/JeepNiBackend/internal/infrastructure/redis"
	"github.com/miss-blue/JeepNiBackend/internal/infrastructure/repositories"
	"github.com/miss-blue/JeepNiBackend/internal/infrastructure/semaphore"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting JeepNi backend...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Generic Redis cache for read-heavy entities
	redisCache := redis.NewRedisCache(redisClient, "jeepni")

	// Initialize repository implementations
	baseStopRepo := repositories.NewStopRepository(database, logger)
	baseModelRepo := repositories.NewModelMetricsRepository(database, logger)
	predictionRepo := repositories.NewPredictionRepository(database, logger)
	subscriberRepo := repositories.NewSubscriberRepository(database, logger)

	// Decorate with caching (choose TTLs)
	stopRepo := repositories.NewCachingStopRepository(baseStopRepo, redisCache, 30*time.Minute)
	modelRepo := repositories.NewCachingModelMetricsRepository(baseModelRepo, redisCache, 10*time.Minute)

	// Optional low-balance alert channel; the gateway runs fine without it.
	var alertService ports.AlertService
	if cfg.Alert.SendGridAPIKey != "" && cfg.Alert.ToEmail != "" {
		alertService, err = email.NewAlertService(&email.AlertConfig{
			SendGridAPIKey: cfg.Alert.SendGridAPIKey,
			FromEmail:      cfg.Alert.FromEmail,
			ToEmail:        cfg.Alert.ToEmail,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize alert service:", err)
		}
	} else {
		logger.Warn("Low balance alerts disabled - SendGrid not configured")
	}

	// Upstream SMS provider client
	semaphoreClient := semaphore.NewClient(&semaphore.Config{
		APIKey:      cfg.Semaphore.APIKey,
		MessagesURL: cfg.Semaphore.MessagesURL,
		AccountURL:  cfg.Semaphore.AccountURL,
		Timeout:     cfg.Semaphore.Timeout,
	}, logger)

	// Resilient gateway core: cache, coalescer, service facade
	balanceCache := services.NewBalanceCache(nil)
	coordinator := services.NewFetchCoordinator(balanceCache)
	smsService := services.NewSMSService(semaphoreClient, balanceCache, coordinator, alertService, &services.SMSServiceConfig{
		APIKey:              cfg.Semaphore.APIKey,
		SenderName:          cfg.Semaphore.SenderName,
		BalanceCacheTTL:     cfg.Semaphore.BalanceCacheTTL,
		LowBalanceThreshold: cfg.Alert.LowBalanceThreshold,
		AlertMinInterval:    cfg.Alert.MinInterval,
	}, logger, nil)

	pushService := push.NewWebhookService(&push.WebhookConfig{
		WebhookURL: cfg.Push.WebhookURL,
		Timeout:    cfg.Push.Timeout,
	}, logger)

	predictionService := services.NewPredictionService(predictionRepo, stopRepo, subscriberRepo, pushService, logger)
	subscriberService := services.NewSubscriberService(subscriberRepo, logger)
	stopService := services.NewStopService(stopRepo)
	modelService := services.NewModelMetricsService(modelRepo)

	rateLimiter := services.NewSlidingWindowRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, nil)

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database), health.NewRedisHealthChecker(redisClient)}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
	}

	deps := httpserver.ServerDeps{
		SMSService:         smsService,
		PredictionService:  predictionService,
		SubscriberService:  subscriberService,
		StopService:        stopService,
		ModelMetricsSvc:    modelService,
		RateLimiterService: rateLimiter,
		HealthCheckers:     hcSlice,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
