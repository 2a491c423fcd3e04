package main

import (
	"fmt"
	"os"

	_ "restoredoc/docs"
	"restoredoc/internal/adapter/http/routes"
	"restoredoc/internal/config"
	"restoredoc/internal/infrastructure/logging"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

// @title           RestoreDoc API
// @version         1.0
// @description     Restoration estimates for water, fire and mold damage: photo analysis, floor pricing, versioned adjustments and payments.

// @contact.name   API Support

// @host localhost:8080

// @BasePath  /v1

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := routes.Run(cfg, logger); err != nil {
		logger.Fatal("api stopped", zap.Error(err))
	}
}
