package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"quiz-trail/internal/config"
	"quiz-trail/internal/database"
	"quiz-trail/internal/logger"

	"go.uber.org/zap"
)

const usage = "usage: migrate [up|down]"

func main() {
	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}
	if direction != "up" && direction != "down" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	db, err := database.Open(cfg)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	if direction == "down" {
		err = database.RollbackMigrations(ctx, db, cfg.DB.Driver)
	} else {
		err = database.RunMigrations(ctx, db, cfg.DB.Driver)
	}
	if err != nil {
		l.Fatal("Migration failed", zap.String("direction", direction), zap.Error(err))
	}
	l.Info("Migration finished", zap.String("direction", direction), zap.String("driver", cfg.DB.Driver))
}
