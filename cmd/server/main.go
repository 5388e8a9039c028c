package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/glambooking/glambooking-api/configs"
	"github.com/glambooking/glambooking-api/internal/application/cache"
	"github.com/glambooking/glambooking-api/internal/application/services"
	"github.com/glambooking/glambooking-api/internal/core/ports"
	"github.com/glambooking/glambooking-api/internal/infrastructure/db"
	"github.com/glambooking/glambooking-api/internal/infrastructure/email"
	"github.com/glambooking/glambooking-api/internal/infrastructure/health"
	"github.com/glambooking/glambooking-api/internal/infrastructure/httpserver"
	"github.com/glambooking/glambooking-api/internal/infrastructure/memstore"
	"github.com/glambooking/glambooking-api/internal/infrastructure/redis"
	"github.com/glambooking/glambooking-api/internal/infrastructure/repositories"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := newLogger(&cfg.Log)
	logger.Info("Starting GlamBooking API...")

	database, err := db.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	version, err := database.Migrate(cfg.Database.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to run migrations:", err)
	}
	logger.WithField("schema_version", version).Info("Database schema up to date")

	// Cache store and rate limit counters share the backend choice
	var (
		store         ports.KVStore
		rateLimitRepo ports.RateLimitRepository
	)
	switch cfg.Cache.Backend {
	case "memory":
		mem := memstore.New()
		defer mem.Close()
		memCounters := repositories.NewRateLimitMemoryRepository()
		defer memCounters.Close()
		store, rateLimitRepo = mem, memCounters
		logger.Warn("Using in-process cache; entries are not shared between replicas")
	default:
		redisClient, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to configure Redis:", err)
		}
		defer redisClient.Close()
		if err := redis.Ping(redisClient); err != nil {
			logger.WithError(err).Warn("Redis unreachable at startup; reads will fall through to the database")
		} else {
			logger.Info("Connected to Redis successfully")
		}
		store = redis.NewStore(redisClient)
		rateLimitRepo = repositories.NewRateLimitRedisRepository(redisClient)
	}

	appCache := cache.New(store, &cache.Config{
		DefaultTTL:         cfg.Cache.DefaultTTL,
		OpTimeout:          cfg.Cache.OpTimeout,
		BreakerMaxRequests: cfg.Cache.BreakerMaxRequests,
		BreakerInterval:    cfg.Cache.BreakerInterval,
		BreakerTimeout:     cfg.Cache.BreakerTimeout,
		BreakerFailures:    cfg.Cache.BreakerFailures,
	}, logger)
	invalidator := cache.NewInvalidator(appCache)

	// Repositories
	salonRepo := repositories.NewSalonRepository(database, logger)
	serviceRepo := repositories.NewServiceRepository(database, logger)
	clientRepo := repositories.NewClientRepository(database, logger)
	bookingRepo := repositories.NewBookingRepository(database, logger)
	statsRepo := repositories.NewStatsRepository(database, logger)
	subscriptionRepo := repositories.NewSubscriptionRepository(database, logger)

	emailService := email.NewEmailService(&cfg.Email, logger)

	// Services
	authService := services.NewAuthService(&cfg.Auth, logger)
	salonService := services.NewSalonService(salonRepo, serviceRepo, subscriptionRepo, appCache, invalidator, logger)
	catalogService := services.NewCatalogService(serviceRepo, appCache, invalidator, logger)
	clientService := services.NewClientService(clientRepo, appCache, invalidator, logger)
	bookingService := services.NewBookingService(services.BookingDeps{
		Bookings:    bookingRepo,
		Clients:     clientRepo,
		Services:    serviceRepo,
		Salons:      salonRepo,
		Email:       emailService,
		Cache:       appCache,
		Invalidator: invalidator,
		Logger:      logger,
	})
	dashboardService := services.NewDashboardService(statsRepo, bookingRepo, appCache, logger)
	billingService := services.NewBillingService(subscriptionRepo, salonRepo, appCache, invalidator, logger)
	rateLimiterService := services.NewRateLimiterService(rateLimitRepo, &cfg.RateLimit, logger)

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database), health.NewCacheHealthChecker(store)}

	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		TLSCertFile:    cfg.Server.TLSCertFile,
		TLSKeyFile:     cfg.Server.TLSKeyFile,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Environment:    cfg.Server.Environment,
	}

	deps := httpserver.ServerDeps{
		AuthService:        authService,
		SalonService:       salonService,
		CatalogService:     catalogService,
		ClientService:      clientService,
		BookingService:     bookingService,
		DashboardService:   dashboardService,
		BillingService:     billingService,
		RateLimiterService: rateLimiterService,
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}

func newLogger(cfg *config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}
	return logger
}
