package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"glowbook/internal/config"
	"glowbook/internal/database"
	"glowbook/internal/pkg/logger"
	"glowbook/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.IsProdLike(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.DatabaseURL == "" {
		zl.Fatal("DATABASE_URL is required")
	}
	db, err := database.Connect(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("db connect failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	tokens, err := repository.NewRefreshTokenRepository(db).DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		zl.Fatal("cleanup refresh_tokens failed", zap.Error(err))
	}
	codes, err := repository.NewVerificationCodeRepository(db).DeleteExpired(ctx)
	if err != nil {
		zl.Fatal("cleanup verification_codes failed", zap.Error(err))
	}

	zl.Info("auth cleanup completed", zap.Int64("refresh_tokens", tokens), zap.Int64("verification_codes", codes))
}
