package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/badgeworks/affiliates/internal/bootstrap"
	"github.com/badgeworks/affiliates/internal/config"
	"github.com/badgeworks/affiliates/internal/server"
	"github.com/badgeworks/affiliates/pkg/database"
	"github.com/badgeworks/affiliates/pkg/storage"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedDemoData(db); err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	srv := server.New(cfg, db, rdb, imageStorage)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go srv.Worker().Run(ctx)

	if err := srv.Run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
