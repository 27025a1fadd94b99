package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"connectApp/internal/activity"
	"connectApp/internal/config"
	"connectApp/internal/repository"
	"connectApp/internal/storage"
)

type UserService interface {
	GetUser(ctx context.Context, userID string) (*UserProfile, error)
	UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (*UserProfile, error)
	DeleteUser(ctx context.Context, userID string) error
	FollowUser(ctx context.Context, userID, targetID string) error
	UnfollowUser(ctx context.Context, userID, targetID string) error
	SearchUsers(ctx context.Context, query string) ([]SearchResult, error)
}

// UpdateUserRequest - частичное обновление профиля: nil-поля не трогаются
type UpdateUserRequest struct {
	Username *string
	Email    *string
	Picture  *UploadFile
}

type userService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	storage  storage.Storage
	activity activity.Logger
	cfg      *config.Config
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository, storage storage.Storage, logger activity.Logger, cfg *config.Config) UserService {
	return &userService{
		userRepo: userRepo,
		postRepo: postRepo,
		storage:  storage,
		activity: logger,
		cfg:      cfg,
	}
}

func parseUserID(userID string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: некорректный идентификатор пользователя", ErrInvalidArgument)
	}
	return oid, nil
}

func (s *userService) GetUser(ctx context.Context, userID string) (*UserProfile, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	// пост может ссылаться на владельца и строкой, и ObjectID,
	// репозиторий сопоставляет оба вида
	posts, err := s.postRepo.GetByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.activity.Log(userID, "getUser",
		fmt.Sprintf("User %s with %d posts retrieved.", userID, len(posts)))

	return &UserProfile{User: *user, Posts: posts}, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (*UserProfile, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, oid); err != nil {
		return nil, err
	}

	fields := bson.M{}
	if req.Username != nil {
		fields["username"] = *req.Username
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}

	if req.Picture != nil {
		ref, err := s.storage.SaveFile(ctx, req.Picture.FileName, req.Picture.Reader, req.Picture.Size)
		if err != nil {
			// ошибка хранилища не валит обновление, поле просто пропускается
			log.Printf("Не удалось загрузить аватар пользователя %s: %v", userID, err)
		} else if ref != "" {
			fields["profilePicture"] = ref
		}
	}

	if err := s.userRepo.UpdateFields(ctx, oid, fields); err != nil {
		return nil, err
	}

	s.activity.Log(userID, "updateUser", fmt.Sprintf("User %s updated.", userID))

	user, err := s.userRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	return &UserProfile{User: *user}, nil
}

// DeleteUser удаляет пользователя и каскадно все его посты. Ссылки на
// него в чужих followers/following/likes/mentions не вычищаются.
func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	oid, err := parseUserID(userID)
	if err != nil {
		return err
	}

	if _, err := s.userRepo.GetByID(ctx, oid); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, oid); err != nil {
		return err
	}

	deleted, err := s.postRepo.DeleteByOwner(ctx, userID)
	if err != nil {
		// пользователь уже удалён, осиротевшие посты остаются
		log.Printf("Каскадное удаление постов пользователя %s не удалось: %v", userID, err)
	}

	s.activity.Log(userID, "deleteUser",
		fmt.Sprintf("User %s deleted with %d posts.", userID, deleted))

	return nil
}

// FollowUser выполняет два независимых обновления. Между ними нет
// транзакции: сбой посередине оставляет связь несимметричной.
func (s *userService) FollowUser(ctx context.Context, userID, targetID string) error {
	if targetID == "" {
		return fmt.Errorf("%w: follow_id обязателен", ErrInvalidArgument)
	}

	selfOID, err := parseUserID(userID)
	if err != nil {
		return err
	}
	targetOID, err := parseUserID(targetID)
	if err != nil {
		return err
	}

	if err := s.userRepo.AddFollowing(ctx, selfOID, targetID); err != nil {
		return err
	}
	if err := s.userRepo.AddFollower(ctx, targetOID, userID); err != nil {
		return err
	}

	return nil
}

func (s *userService) UnfollowUser(ctx context.Context, userID, targetID string) error {
	if targetID == "" {
		return fmt.Errorf("%w: unfollow_id обязателен", ErrInvalidArgument)
	}

	selfOID, err := parseUserID(userID)
	if err != nil {
		return err
	}
	targetOID, err := parseUserID(targetID)
	if err != nil {
		return err
	}

	if err := s.userRepo.RemoveFollowing(ctx, selfOID, targetID); err != nil {
		return err
	}
	if err := s.userRepo.RemoveFollower(ctx, targetOID, userID); err != nil {
		return err
	}

	return nil
}

func (s *userService) SearchUsers(ctx context.Context, query string) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: параметр поиска q обязателен", ErrInvalidArgument)
	}

	users, err := s.userRepo.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(users))
	for _, user := range users {
		// живой подсчёт, а не кэшированный счётчик
		count, err := s.postRepo.CountByOwner(ctx, user.ID.Hex())
		if err != nil {
			return nil, err
		}

		results = append(results, SearchResult{
			User:          user,
			PostCount:     count,
			FollowerCount: len(user.Followers),
		})
	}

	return results, nil
}
