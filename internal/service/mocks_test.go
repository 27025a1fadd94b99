package service

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"connectApp/internal/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) AppendPost(ctx context.Context, id primitive.ObjectID, postID string) error {
	args := m.Called(ctx, id, postID)
	return args.Error(0)
}

func (m *MockUserRepository) RemovePost(ctx context.Context, id primitive.ObjectID, postID string) error {
	args := m.Called(ctx, id, postID)
	return args.Error(0)
}

func (m *MockUserRepository) AddFollowing(ctx context.Context, id primitive.ObjectID, targetID string) error {
	args := m.Called(ctx, id, targetID)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveFollowing(ctx context.Context, id primitive.ObjectID, targetID string) error {
	args := m.Called(ctx, id, targetID)
	return args.Error(0)
}

func (m *MockUserRepository) AddFollower(ctx context.Context, id primitive.ObjectID, followerID string) error {
	args := m.Called(ctx, id, followerID)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveFollower(ctx context.Context, id primitive.ObjectID, followerID string) error {
	args := m.Called(ctx, id, followerID)
	return args.Error(0)
}

func (m *MockUserRepository) Search(ctx context.Context, query string) ([]models.User, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Insert(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByOwner(ctx context.Context, ownerID string) ([]models.Post, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByOwners(ctx context.Context, ownerIDs []models.UserID) ([]models.Post, error) {
	args := m.Called(ctx, ownerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) UpdateDescription(ctx context.Context, id primitive.ObjectID, description string) error {
	args := m.Called(ctx, id, description)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) AddLike(ctx context.Context, id primitive.ObjectID, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockPostRepository) RemoveLike(ctx context.Context, id primitive.ObjectID, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockPostRepository) AppendComment(ctx context.Context, id primitive.ObjectID, comment models.Comment) (bool, error) {
	args := m.Called(ctx, id, comment)
	return args.Bool(0), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveFile(ctx context.Context, fileName string, file io.Reader, size int64) (string, error) {
	args := m.Called(ctx, fileName, file, size)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) DeleteFile(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

// noopLogger собирает события журнала в память
type noopLogger struct {
	entries []string
}

func (l *noopLogger) Log(userID, action, details string) {
	l.entries = append(l.entries, action)
}
