package main

import (
	"fmt"

	"sports-auction/internal/config"
	"sports-auction/internal/database"
	"sports-auction/internal/logger"

	"go.uber.org/zap"
)

// Applies the schema without starting the API server.
func main() {
	log := logger.Default()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	// Connect to database
	db, err := database.Open(cfg.Database, cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	log.Info("Applying schema", zap.String("driver", cfg.Database.Driver), zap.Int("tables", len(database.Models())))
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("Failed to apply migration", zap.Error(err))
	}

	for _, model := range database.Models() {
		fmt.Printf("migrated %T\n", model)
	}
}
