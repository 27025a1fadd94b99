package app

import (
	"context"
	"log"

	"connectApp/internal/activity"
	"connectApp/internal/config"
	"connectApp/internal/database"
	"connectApp/internal/repository"
	"connectApp/internal/service"
	"connectApp/internal/storage"
)

func App(ctx context.Context, cfg *config.Config) (*database.DB, *activity.AsyncLogger, *service.Service) {
	// connection MongoDB
	db, err := database.ConnectDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}

	// connection MinIO
	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		log.Fatalf("Не удалось инициализировать MinIO: %v", err)
	}

	// enabling dependencies
	repo := repository.NewRepository(db)

	logger := activity.NewAsyncLogger(repo.Activity, cfg.ActivityQueueSize)

	services := service.NewService(repo, cfg, minioClient, logger)

	return db, logger, services
}
