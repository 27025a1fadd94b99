package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"connectApp/internal/database"
	"connectApp/internal/models"
)

type ActivityRepositoryImpl struct {
	logs *mongo.Collection
}

func NewActivityRepository(db *database.DB) *ActivityRepositoryImpl {
	return &ActivityRepositoryImpl{logs: db.ActivityLogs()}
}

func (r *ActivityRepositoryImpl) Insert(ctx context.Context, entry models.ActivityLog) error {
	_, err := r.logs.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("ошибка при записи в журнал активности: %w", err)
	}
	return nil
}
