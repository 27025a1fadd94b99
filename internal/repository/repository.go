package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"connectApp/internal/database"
	"connectApp/internal/models"
)

var (
	ErrUserNotFound = errors.New("пользователь не найден")
	ErrPostNotFound = errors.New("пост не найден")
)

type UserRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AppendPost(ctx context.Context, id primitive.ObjectID, postID string) error
	RemovePost(ctx context.Context, id primitive.ObjectID, postID string) error
	AddFollowing(ctx context.Context, id primitive.ObjectID, targetID string) error
	RemoveFollowing(ctx context.Context, id primitive.ObjectID, targetID string) error
	AddFollower(ctx context.Context, id primitive.ObjectID, followerID string) error
	RemoveFollower(ctx context.Context, id primitive.ObjectID, followerID string) error
	Search(ctx context.Context, query string) ([]models.User, error)
}

type PostRepository interface {
	Insert(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error)
	GetByOwner(ctx context.Context, ownerID string) ([]models.Post, error)
	GetByOwners(ctx context.Context, ownerIDs []models.UserID) ([]models.Post, error)
	UpdateDescription(ctx context.Context, id primitive.ObjectID, description string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	AddLike(ctx context.Context, id primitive.ObjectID, userID string) error
	RemoveLike(ctx context.Context, id primitive.ObjectID, userID string) error
	AppendComment(ctx context.Context, id primitive.ObjectID, comment models.Comment) (bool, error)
}

type ActivityRepository interface {
	Insert(ctx context.Context, entry models.ActivityLog) error
}

type Repository struct {
	User     UserRepository
	Post     PostRepository
	Activity ActivityRepository
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{
		User:     NewUserRepository(db),
		Post:     NewPostRepository(db),
		Activity: NewActivityRepository(db),
	}
}
