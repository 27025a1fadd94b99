package database

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"connectApp/internal/config"
)

type MethodsDB interface {
	CloseDB(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Users() *mongo.Collection
	Posts() *mongo.Collection
	ActivityLogs() *mongo.Collection
}

type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

func ConnectDB(ctx context.Context, cfg *config.Config) (*DB, error) {
	log.Printf("Подключаемся к MongoDB: database=%s", cfg.Mongo.Database)

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ошибка при проверке подключения к MongoDB: %w", err)
	}

	log.Println("Успешное подключение к MongoDB")

	return &DB{
		client:   client,
		database: client.Database(cfg.Mongo.Database),
	}, nil
}

func (db *DB) CloseDB(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

func (db *DB) HealthCheck(ctx context.Context) error {
	if db == nil || db.client == nil {
		return fmt.Errorf("подключение к БД не инициализировано")
	}
	return db.client.Ping(ctx, readpref.Primary())
}

func (db *DB) Users() *mongo.Collection {
	return db.database.Collection("users")
}

func (db *DB) Posts() *mongo.Collection {
	return db.database.Collection("posts")
}

func (db *DB) ActivityLogs() *mongo.Collection {
	return db.database.Collection("activity_logs")
}
