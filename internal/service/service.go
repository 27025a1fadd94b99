package service

import (
	"errors"
	"io"

	"connectApp/internal/activity"
	"connectApp/internal/config"
	"connectApp/internal/models"
	"connectApp/internal/repository"
	"connectApp/internal/storage"
)

var (
	ErrInvalidArgument = errors.New("некорректный запрос")
	ErrForbidden       = errors.New("доступ запрещен")
)

// UploadFile - файл из multipart-формы, передаваемый в блоб-хранилище
type UploadFile struct {
	FileName string
	Reader   io.Reader
	Size     int64
}

// UserProfile - профиль пользователя вместе с его постами
type UserProfile struct {
	User  models.User
	Posts []models.Post
}

// PostDetail - пост с подгруженными пользователями: владельцем,
// лайкнувшими, упомянутыми и авторами комментариев. Отсутствующие в
// базе пользователи опускаются (nil для владельца и авторов
// комментариев, пропуск для лайков и упоминаний).
type PostDetail struct {
	Post         models.Post
	Owner        *models.User
	Likers       []models.User
	Mentions     []models.User
	CommentUsers []*models.User
}

type SearchResult struct {
	User          models.User
	PostCount     int64
	FollowerCount int
}

type Service struct {
	User UserService
	Post PostService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage, logger activity.Logger) *Service {
	return &Service{
		User: NewUserService(rep.User, rep.Post, storage, logger, cfg),
		Post: NewPostService(rep.Post, rep.User, storage, logger, cfg),
	}
}
