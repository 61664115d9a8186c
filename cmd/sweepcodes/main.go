// Command sweepcodes deletes expired, unconsumed connection codes. Run it
// periodically from cron; expired codes are also rejected at consumption
// time, so the sweep is housekeeping rather than a correctness requirement.
package main

import (
	"fmt"
	"os"

	"jodtang/internal/database"
	"jodtang/internal/logger"
	"jodtang/internal/services"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Sweep error: %v", err)
	}
}

func run() error {
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	connectionService := services.NewConnectionService(dbManager.DB())
	count, err := connectionService.SweepExpired()
	if err != nil {
		return fmt.Errorf("failed to sweep expired codes: %w", err)
	}

	logger.Get().Infow("swept expired connection codes", "deleted", count)
	return nil
}
