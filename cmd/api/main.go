package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/ruangkita/reservation-service/internal/adapters/cache"
	"github.com/ruangkita/reservation-service/internal/adapters/database"
	"github.com/ruangkita/reservation-service/internal/adapters/events"
	"github.com/ruangkita/reservation-service/internal/adapters/storage"
	"github.com/ruangkita/reservation-service/internal/api/handlers"
	"github.com/ruangkita/reservation-service/internal/api/middleware"
	"github.com/ruangkita/reservation-service/internal/api/routes"
	"github.com/ruangkita/reservation-service/internal/application/services"
	"github.com/ruangkita/reservation-service/internal/domain/providers"
	"github.com/ruangkita/reservation-service/internal/infrastructure/clients/postgres"
	"github.com/ruangkita/reservation-service/internal/infrastructure/clients/redis"
	"github.com/ruangkita/reservation-service/internal/infrastructure/observability"
	"github.com/ruangkita/reservation-service/pkg/auth"
	"github.com/ruangkita/reservation-service/pkg/config"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// sqlx handle over the same pool for the named-query adapters
	sqlxDB := sqlx.NewDb(pgClient.DB(), "postgres")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - caching and live updates degrade gracefully
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for real-time updates
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	// Initialize image storage
	diskStorage, err := storage.NewDiskStorage(cfg.Storage.Dir, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}

	// Initialize adapters
	facilityAdapter := database.NewFacilityAdapter(pgClient)
	reservationAdapter := database.NewReservationAdapter(pgClient)
	userAdapter := database.NewUserAdapter(sqlxDB)
	credentialAdapter := database.NewCredentialAdapter(sqlxDB)

	// Initialize services
	jwtUtil := auth.NewJWTUtil(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLHours)
	authService := services.NewAuthService(userAdapter, credentialAdapter, jwtUtil)

	var cacheInvalidation *services.CacheInvalidationService
	if cacheProvider != nil {
		cacheInvalidation = services.NewCacheInvalidationService(cacheProvider)
	}

	facilityService := services.NewFacilityService(facilityAdapter, diskStorage, cacheInvalidation)
	reservationService := services.NewReservationService(reservationAdapter, facilityAdapter, eventBus)
	alertService := services.NewAlertService(sqlxDB)

	// Status watcher diffs reservation snapshots and fans alerts out to
	// per-user channels; without Redis there is nothing to watch
	var statusWatch *services.StatusWatchService
	if eventBus != nil {
		statusWatch = services.NewStatusWatchService(reservationAdapter, eventBus, alertService, metrics)
		if err := statusWatch.Start(); err != nil {
			log.Printf("Warning: Failed to start status watch service: %v", err)
		} else {
			log.Println("Status watch service started successfully")
		}
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	facilityHandler := handlers.NewFacilityHandler(facilityService)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	alertHandler := handlers.NewAlertHandler(alertService)
	uploadHandler := handlers.NewUploadHandler(diskStorage)
	sseHandler := handlers.NewSSEHandler(eventBus)

	authMiddleware := middleware.NewAuthMiddleware(jwtUtil)

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Println("Cache middleware initialized successfully")
	}

	// Set up router
	router := routes.NewRouter(
		authHandler,
		facilityHandler,
		reservationHandler,
		alertHandler,
		uploadHandler,
		sseHandler,
		authMiddleware,
		cacheMiddleware,
		metrics,
		cfg.Storage.Dir,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: SSE connections stay open indefinitely
		IdleTimeout: 60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Stop status watcher before the bus goes away
	if statusWatch != nil {
		statusWatch.Stop()
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	log.Println("Server stopped")
}
