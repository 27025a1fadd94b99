package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"connectApp/internal/database"
	"connectApp/internal/models"
)

type PostRepositoryImpl struct {
	posts *mongo.Collection
}

func NewPostRepository(db *database.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{posts: db.Posts()}
}

// сортировка по времени создания, новые первыми
var sortByCreatedDesc = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

// ownerFilter сопоставляет поле user и с hex-строкой, и с нативным
// ObjectID: старые документы хранят владельца в обоих видах
func ownerFilter(ownerID string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(ownerID); err == nil {
		return bson.M{"$or": bson.A{
			bson.M{"user": ownerID},
			bson.M{"user": oid},
		}}
	}
	return bson.M{"user": ownerID}
}

func (r *PostRepositoryImpl) Insert(ctx context.Context, post *models.Post) error {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}

	_, err := r.posts.InsertOne(ctx, post)
	if err != nil {
		return fmt.Errorf("ошибка при создании поста: %w", err)
	}

	return nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post

	err := r.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("ошибка при получении поста: %w", err)
	}

	return &post, nil
}

func (r *PostRepositoryImpl) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	if len(ids) == 0 {
		return []models.Post{}, nil
	}

	cursor, err := r.posts.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, sortByCreatedDesc)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении постов: %w", err)
	}

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("ошибка при чтении постов: %w", err)
	}

	return posts, nil
}

func (r *PostRepositoryImpl) GetByOwner(ctx context.Context, ownerID string) ([]models.Post, error) {
	cursor, err := r.posts.Find(ctx, ownerFilter(ownerID), sortByCreatedDesc)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении постов пользователя: %w", err)
	}

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("ошибка при чтении постов пользователя: %w", err)
	}

	return posts, nil
}

func (r *PostRepositoryImpl) GetByOwners(ctx context.Context, ownerIDs []models.UserID) ([]models.Post, error) {
	if len(ownerIDs) == 0 {
		return []models.Post{}, nil
	}

	owners := make([]string, 0, len(ownerIDs))
	for _, id := range ownerIDs {
		owners = append(owners, id.String())
	}

	cursor, err := r.posts.Find(ctx, bson.M{"user": bson.M{"$in": owners}}, sortByCreatedDesc)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении ленты: %w", err)
	}

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("ошибка при чтении ленты: %w", err)
	}

	return posts, nil
}

func (r *PostRepositoryImpl) UpdateDescription(ctx context.Context, id primitive.ObjectID, description string) error {
	result, err := r.posts.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"description": description}})
	if err != nil {
		return fmt.Errorf("ошибка при обновлении поста: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrPostNotFound
	}

	return nil
}

func (r *PostRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("ошибка при удалении поста: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrPostNotFound
	}

	return nil
}

// DeleteByOwner удаляет все посты пользователя по строковому совпадению владельца
func (r *PostRepositoryImpl) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	result, err := r.posts.DeleteMany(ctx, bson.M{"user": ownerID})
	if err != nil {
		return 0, fmt.Errorf("ошибка при каскадном удалении постов: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *PostRepositoryImpl) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	count, err := r.posts.CountDocuments(ctx, bson.M{"user": ownerID})
	if err != nil {
		return 0, fmt.Errorf("ошибка при подсчёте постов: %w", err)
	}
	return count, nil
}

func (r *PostRepositoryImpl) AddLike(ctx context.Context, id primitive.ObjectID, userID string) error {
	_, err := r.posts.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$addToSet": bson.M{"likes": userID}})
	if err != nil {
		return fmt.Errorf("ошибка при добавлении лайка: %w", err)
	}
	return nil
}

func (r *PostRepositoryImpl) RemoveLike(ctx context.Context, id primitive.ObjectID, userID string) error {
	_, err := r.posts.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{"likes": userID}})
	if err != nil {
		return fmt.Errorf("ошибка при удалении лайка: %w", err)
	}
	return nil
}

// AppendComment добавляет комментарий и обновляет updated_at одним запросом.
// Возвращает false, если документ не был изменён (пост отсутствует).
func (r *PostRepositoryImpl) AppendComment(ctx context.Context, id primitive.ObjectID, comment models.Comment) (bool, error) {
	result, err := r.posts.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return false, fmt.Errorf("ошибка при добавлении комментария: %w", err)
	}

	return result.ModifiedCount > 0, nil
}
