package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"connectApp/internal/database"
	"connectApp/internal/models"
)

type UserRepositoryImpl struct {
	users *mongo.Collection
}

func NewUserRepository(db *database.DB) *UserRepositoryImpl {
	return &UserRepositoryImpl{users: db.Users()}
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User

	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	return &user, nil
}

func (r *UserRepositoryImpl) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении пользователей: %w", err)
	}

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("ошибка при чтении пользователей: %w", err)
	}

	return users, nil
}

func (r *UserRepositoryImpl) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	if len(fields) == 0 {
		return nil
	}

	result, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("ошибка при обновлении пользователя: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("ошибка при удалении пользователя: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *UserRepositoryImpl) AppendPost(ctx context.Context, id primitive.ObjectID, postID string) error {
	_, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"posts": postID}})
	if err != nil {
		return fmt.Errorf("ошибка при добавлении поста в список пользователя: %w", err)
	}
	return nil
}

func (r *UserRepositoryImpl) RemovePost(ctx context.Context, id primitive.ObjectID, postID string) error {
	_, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{"posts": postID}})
	if err != nil {
		return fmt.Errorf("ошибка при удалении поста из списка пользователя: %w", err)
	}
	return nil
}

func (r *UserRepositoryImpl) AddFollowing(ctx context.Context, id primitive.ObjectID, targetID string) error {
	_, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$addToSet": bson.M{"following": targetID}})
	if err != nil {
		return fmt.Errorf("ошибка при добавлении подписки: %w", err)
	}
	return nil
}

func (r *UserRepositoryImpl) RemoveFollowing(ctx context.Context, id primitive.ObjectID, targetID string) error {
	_, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{"following": targetID}})
	if err != nil {
		return fmt.Errorf("ошибка при удалении подписки: %w", err)
	}
	return nil
}

func (r *UserRepositoryImpl) AddFollower(ctx context.Context, id primitive.ObjectID, followerID string) error {
	_, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$addToSet": bson.M{"followers": followerID}})
	if err != nil {
		return fmt.Errorf("ошибка при добавлении подписчика: %w", err)
	}
	return nil
}

func (r *UserRepositoryImpl) RemoveFollower(ctx context.Context, id primitive.ObjectID, followerID string) error {
	_, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{"followers": followerID}})
	if err != nil {
		return fmt.Errorf("ошибка при удалении подписчика: %w", err)
	}
	return nil
}

// Search ищет пользователей по подстроке в username или email без учёта регистра
func (r *UserRepositoryImpl) Search(ctx context.Context, query string) ([]models.User, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}

	filter := bson.M{"$or": bson.A{
		bson.M{"username": pattern},
		bson.M{"email": pattern},
	}}

	cursor, err := r.users.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("ошибка при поиске пользователей: %w", err)
	}

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("ошибка при чтении результатов поиска: %w", err)
	}

	return users, nil
}
