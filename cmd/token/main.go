package main

import (
	"flag"
	"fmt"
	"log"

	"invoice-rag/pkg/auth"
	"invoice-rag/pkg/config"
	"invoice-rag/pkg/logger"

	"go.uber.org/zap"
)

// Issues a bearer token for the API using JWT_SECRET_KEY.
func main() {
	subject := flag.String("subject", "invoice-client", "token subject")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.File); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.JWT.SecretKey == "" {
		logger.Fatal("JWT_SECRET_KEY is not set")
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)
	token, err := jwtManager.GenerateToken(*subject)
	if err != nil {
		logger.Fatal("Failed to generate token", zap.Error(err))
	}

	logger.Info("Token issued",
		zap.String("subject", *subject),
		zap.Duration("expires_in", jwtManager.GetTokenDuration()),
	)
	fmt.Println(token)
}
