package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/unclebandit/jobseeker-backend/internal/config"
	"github.com/unclebandit/jobseeker-backend/internal/db"
	"github.com/unclebandit/jobseeker-backend/internal/logger"
)

// Applies the schema, then any seed files named on the command line:
//
//	seeder seed/campaigns.sql seed/scraper_configs.sql
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	log, err := logger.New(cfg.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	ctx := context.Background()
	conn, err := db.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	if err := db.Migrate(ctx, conn); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	log.Info("Schema applied")

	for _, file := range os.Args[1:] {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Fatal("Failed to read seed file", zap.String("file", file), zap.Error(err))
		}
		if _, err := conn.ExecContext(ctx, string(content)); err != nil {
			log.Fatal("Failed to execute seed file", zap.String("file", file), zap.Error(err))
		}
		log.Info("Seeded", zap.String("file", file))
	}
}
