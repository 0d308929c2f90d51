package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"invoice-rag/internal/api"
	"invoice-rag/internal/api/handlers"
	"invoice-rag/internal/cache"
	"invoice-rag/internal/repository"
	"invoice-rag/internal/service"
	"invoice-rag/pkg/auth"
	"invoice-rag/pkg/config"
	"invoice-rag/pkg/logger"
	"invoice-rag/pkg/postgres"

	"go.uber.org/zap"
)

// @title Invoice RAG API
// @version 1.0
// @description Extracts structured fields from gas and electricity invoices.

// @host localhost:8000
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.File); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting invoice-rag service")

	ctx := context.Background()

	// Optional persistence
	var (
		documents   service.DocumentStore
		extractions service.ExtractionStore
	)
	if cfg.Database.Enabled() {
		db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := postgres.Migrate(ctx, db); err != nil {
			appLogger.Fatal("Failed to migrate database", zap.Error(err))
		}

		documents = repository.NewDocumentRepository(db, appLogger)
		extractions = repository.NewExtractionRepository(db, appLogger)
	} else {
		appLogger.Warn("DB_HOST is not set, extractions will not be stored")
	}

	// Optional query cache
	var queryCache service.QueryCache
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()

		queryCache = cache.NewQueryCache(rdb, cfg.Redis.TTL)
	}

	// Initialize services
	parser, err := service.NewParser(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize parser", zap.Error(err))
	}

	embedder, err := service.NewOpenAIEmbedder(&cfg.OpenAI, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize embedder", zap.Error(err))
	}

	generator, err := service.NewGenerator(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize generator", zap.Error(err))
	}
	if closer, ok := generator.(io.Closer); ok {
		defer closer.Close()
	}

	ragService := service.NewRAGService(embedder, generator, cfg.RAG.TopK, appLogger)
	extractionService := service.NewExtractionService(
		parser, embedder, ragService, documents, extractions, queryCache,
		service.ExtractionConfig{
			ChunkSize:       cfg.RAG.ChunkSize,
			ChunkOverlap:    cfg.RAG.ChunkOverlap,
			ExternalTimeout: cfg.RAG.ExternalTimeout,
		},
		appLogger,
	)
	exportService := service.NewExportService(extractions, appLogger)

	var jwtManager *auth.JWTManager
	if cfg.JWT.SecretKey != "" {
		jwtManager = auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)
	}

	// Initialize handlers
	invoiceHandler := handlers.NewInvoiceHandler(extractionService, exportService, appLogger)

	// Setup router
	app := api.SetupRouter(invoiceHandler, jwtManager, cfg.Server, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
}
