package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"invoice-rag/internal/service"
	"invoice-rag/pkg/config"
	"invoice-rag/pkg/logger"

	"go.uber.org/zap"
)

// Runs parse, index and the invoice prompt once for a single PDF and
// prints the model answer.
func main() {
	fields := flag.Bool("fields", false, "print normalized invoice fields instead of the raw answer")
	query := flag.String("query", "", "custom query (default: invoice extraction prompt)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [file.pdf]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	filePath := "47 2018-11.pdf"
	if flag.NArg() > 0 {
		filePath = flag.Arg(0)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.File); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()

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
		parser, embedder, ragService, nil, nil, nil,
		service.ExtractionConfig{
			ChunkSize:       cfg.RAG.ChunkSize,
			ChunkOverlap:    cfg.RAG.ChunkOverlap,
			ExternalTimeout: cfg.RAG.ExternalTimeout,
		},
		appLogger,
	)

	if _, err := extractionService.Process(ctx, filePath); err != nil {
		appLogger.Fatal("Failed to process invoice", zap.Error(err), zap.String("file", filePath))
	}

	if *fields {
		result, err := extractionService.Extract(ctx)
		if err != nil {
			appLogger.Fatal("Failed to extract invoice fields", zap.Error(err))
		}
		out, err := json.MarshalIndent(result.Extraction.Fields, "", "   ")
		if err != nil {
			appLogger.Fatal("Failed to encode fields", zap.Error(err))
		}
		fmt.Println(string(out))
		for _, p := range result.Problems {
			logger.Warn("Field failed validation", zap.String("problem", p))
		}
		return
	}

	response, _, err := extractionService.Query(ctx, *query)
	if err != nil {
		appLogger.Fatal("Query failed", zap.Error(err))
	}
	fmt.Println(response)
}
