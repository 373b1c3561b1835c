package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"crm-backend/internal/analytics"
	"crm-backend/internal/auth"
	"crm-backend/internal/cache"
	"crm-backend/internal/events"
	"crm-backend/internal/handlers"
	"crm-backend/internal/middleware"
	"crm-backend/internal/services"
	"crm-backend/internal/storage"
	"crm-backend/internal/workers"
)

func main() {
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is required")
	}

	logger, err := buildLogger()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Database connection (with retries)
	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("postgres", buildDSN())
		if err == nil {
			break
		}
		logger.Warn("db connection attempt failed", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("connected to database")

	// NATS connection
	bus, err := events.Connect(logger)
	if err != nil {
		logger.Fatal("failed to connect to NATS", zap.Error(err))
	}
	defer bus.Close()

	// Redis cache
	redisClient, err := cache.NewRedisClient()
	if err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Storage and reference data
	store := storage.NewStorage(db)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := store.SeedStatuses(ctx); err != nil {
		logger.Fatal("failed to seed statuses", zap.Error(err))
	}

	// Services
	reports := analytics.NewService(store)
	mailClient := services.NewMailClient(logger)
	publisher := events.NewPublisher(bus.JS(), logger)

	// Activity feed consumer
	activityConsumer := events.NewActivityConsumer(bus.JS(), store, logger)
	if err := activityConsumer.Start(ctx); err != nil {
		logger.Fatal("failed to start activity consumer", zap.Error(err))
	}

	// Report cache warmer
	workers.StartReportWarmer(ctx, store, reports, redisClient, logger)

	// HTTP handlers
	authHandler := auth.NewHandler(store, logger)
	h := handlers.New(store, reports, mailClient, publisher, redisClient, logger, publicBaseURL())

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
	}))
	r.Use(middleware.RequestLogger(logger))
	h.RegisterRoutes(r, authHandler)

	server := &http.Server{
		Addr:    getEnv("HTTP_ADDR", ":8080"),
		Handler: r,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		_ = activityConsumer.Stop()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("server starting", zap.String("addr", server.Addr))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func buildLogger() (*zap.Logger, error) {
	if getEnv("APP_ENV", "production") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func buildDSN() string {
	return "host=" + getEnv("DB_HOST", "localhost") +
		" user=" + getEnv("DB_USER", "crm_user") +
		" password=" + getEnv("DB_PASSWORD", "crm_pass") +
		" dbname=" + getEnv("DB_NAME", "crm") +
		" sslmode=disable"
}

func publicBaseURL() string {
	return getEnv("PUBLIC_BASE_URL", "http://localhost:8080")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
