package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/journey-scanner/internal/config"
	httpDelivery "github.com/journey-scanner/internal/delivery/http"
	"github.com/journey-scanner/internal/delivery/http/handler"
	"github.com/journey-scanner/internal/domain/repository"
	"github.com/journey-scanner/internal/fare"
	"github.com/journey-scanner/internal/infrastructure/gemini"
	"github.com/journey-scanner/internal/parser"
	"github.com/journey-scanner/internal/pkg/logger"
	"github.com/journey-scanner/internal/repository/cache"
	"github.com/journey-scanner/internal/repository/postgres"
	redisRepo "github.com/journey-scanner/internal/repository/redis"
	"github.com/journey-scanner/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Journey Scanner API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.Bool("extraction_enabled", cfg.Extraction.Enabled),
	)

	// 3. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 4. Connect to PostgreSQL (receipt archive, optional)
	var receiptRepo repository.ReceiptRepository
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Warn("Receipt archive unavailable, continuing without it", zap.Error(err))
	} else {
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close PostgreSQL connection", zap.Error(err))
			}
		}()
		receiptRepo = postgres.NewReceiptRepository(db, log)
	}

	// 5. Health check
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Health(ctx); err != nil {
		cancel()
		log.Fatal("Redis health check failed", zap.Error(err))
	}
	cancel()

	// 6. Initialize repositories
	sessionRepo := cache.NewSessionRepository(redisClient.Client(), cfg.Session.TTL, log)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	var extractionRepo repository.ExtractionRepository
	if cfg.Extraction.Enabled && cfg.Extraction.APIKey != "" {
		geminiClient, err := gemini.NewClient(context.Background(),
			cfg.Extraction.APIKey, cfg.Extraction.Model, cfg.FareRates())
		if err != nil {
			log.Warn("Extraction unavailable, journeys will use text parsing only", zap.Error(err))
		} else {
			defer geminiClient.Close()
			extractionRepo = geminiClient
		}
	}

	log.Info("Repositories initialized")

	// 7. Initialize use cases
	engine := fare.NewEngine(cfg.FareRates())
	textParser := parser.NewParser(log)

	journeyUC := usecase.NewJourneyUseCase(sessionRepo, extractionRepo, textParser, engine, log)
	scanUC := usecase.NewScanUseCase(sessionRepo, streamRepo, log)

	// 8. Initialize handlers and HTTP server
	journeyHandler := handler.NewJourneyHandler(journeyUC, log)
	scanHandler := handler.NewScanHandler(scanUC, log)
	receiptHandler := handler.NewReceiptHandler(journeyUC, scanUC, receiptRepo, log)

	server := httpDelivery.NewServer(cfg, log, journeyHandler, scanHandler, receiptHandler)

	// 9. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}
