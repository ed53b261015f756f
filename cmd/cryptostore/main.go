package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cryptostore/internal/app/payments"
	"cryptostore/internal/config"
	pages_http "cryptostore/internal/handler/http/pages"
	payments_http "cryptostore/internal/handler/http/payments"
	"cryptostore/internal/infrastructure/database"
	kafka_infra "cryptostore/internal/infrastructure/kafka"
	"cryptostore/internal/outbox"
	"cryptostore/internal/pricing"
	"cryptostore/internal/repository/outbox_repo"
	payments_postgres "cryptostore/internal/repository/payments_repo/postgres"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.TimeKey = "timestamp"

	appLogger, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create zap logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()
	appLogger.Info("Cryptostore starting...")

	dbConfig := database.DBConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.Name,
		SSLMode:  cfg.DBConfig.SSLMode,
	}

	var db *sql.DB
	maxRetries := 10
	retryDelay := 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = database.NewPostgresDB(dbConfig)
		if err == nil {
			appLogger.Info("Connected to PostgreSQL database")
			break
		}
		appLogger.Warn("Failed to connect to database, retrying",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Error(err))
		time.Sleep(retryDelay)
	}
	if db == nil {
		appLogger.Fatal("Could not connect to database after multiple retries", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("Error closing database connection", zap.Error(err))
		}
	}()

	appLogger.Info("Running database migrations...")
	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.GetDBMigrationConnectionString())
	if err != nil {
		appLogger.Fatal("Failed to create migrate instance", zap.Error(err))
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		appLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}
	appLogger.Info("Database migrations completed")

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		appLogger.Fatal("Failed to load coin catalog", zap.Error(err))
	}
	priceStore := pricing.NewStore(catalog)

	fetcher := pricing.NewCoinGecko(cfg.QuoteBaseURL, cfg.QuoteAPIKey, cfg.QuoteTimeout)
	refresher := pricing.NewRefresher(priceStore, fetcher, cfg.RefreshInterval,
		appLogger.With(zap.String("component", "PriceRefresher")))

	outboxRepository := outbox_repo.NewOutboxRepository()
	paymentRepository := payments_postgres.NewPaymentRepository(db, outboxRepository)

	paymentService := payments.NewPaymentService(
		priceStore,
		paymentRepository,
		appLogger.With(zap.String("component", "PaymentService")),
	)
	appLogger.Info("Payment service initialized",
		zap.Int("catalog_coins", len(catalog)))

	kafkaProducer := kafka_infra.NewProducer(
		cfg.GetKafkaBrokers(),
		cfg.KafkaPaymentsTopic,
		appLogger.With(zap.String("component", "KafkaProducer")),
	)
	defer func() {
		if err := kafkaProducer.Close(); err != nil {
			appLogger.Error("Error closing Kafka producer", zap.Error(err))
		}
	}()

	outboxProcessor := outbox.NewProcessor(
		db,
		outboxRepository,
		kafkaProducer,
		cfg.OutboxPollInterval,
		cfg.OutboxPollTimeout,
		appLogger.With(zap.String("component", "OutboxProcessor")),
	)

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Handle("/metrics", promhttp.Handler())
	payments_http.RegisterRoutes(router, paymentService, priceStore, cfg.AdminToken,
		appLogger.With(zap.String("component", "HTTPHandler")))
	if err := pages_http.RegisterRoutes(router, paymentService, priceStore, cfg.AdminToken,
		appLogger.With(zap.String("component", "HTTPHandler"))); err != nil {
		appLogger.Fatal("Failed to register page routes", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: router,
	}

	ctxMain, cancelMain := context.WithCancel(context.Background())

	// First refresh happens inside Start, before the server accepts traffic.
	refresher.Start(ctxMain)
	outboxProcessor.Start(ctxMain)

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	appLogger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server graceful shutdown failed", zap.Error(err))
	}

	cancelMain()
	refresher.Stop()
	outboxProcessor.Stop()

	appLogger.Info("Cryptostore shut down.")
}
