package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"connectApp/internal/activity"
	"connectApp/internal/config"
	"connectApp/internal/models"
	"connectApp/internal/repository"
	"connectApp/internal/storage"
)

type PostService interface {
	CreatePost(ctx context.Context, userID string, req CreatePostRequest) (*models.Post, error)
	GetPost(ctx context.Context, postID string) (*PostDetail, error)
	GetMultiplePosts(ctx context.Context, userID string, postIDs []string) ([]models.Post, error)
	UpdatePost(ctx context.Context, postID string, description *string) (*models.Post, error)
	DeletePost(ctx context.Context, userID, postID string) error
	LikePost(ctx context.Context, userID, postID string) (*models.Post, error)
	UnlikePost(ctx context.Context, userID, postID string) (*models.Post, error)
	CommentOnPost(ctx context.Context, userID, postID, text string) (*PostDetail, error)
	GetFeedPosts(ctx context.Context, userID string) ([]models.Post, error)
}

type CreatePostRequest struct {
	Description string
	Mentions    []string
	Location    *models.Location
	Media       *UploadFile
}

type postService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	storage  storage.Storage
	activity activity.Logger
	cfg      *config.Config
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, storage storage.Storage, logger activity.Logger, cfg *config.Config) PostService {
	return &postService{
		postRepo: postRepo,
		userRepo: userRepo,
		storage:  storage,
		activity: logger,
		cfg:      cfg,
	}
}

func parsePostID(postID string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: некорректный идентификатор поста", ErrInvalidArgument)
	}
	return oid, nil
}

func (s *postService) CreatePost(ctx context.Context, userID string, req CreatePostRequest) (*models.Post, error) {
	ownerOID, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	media := ""
	if req.Media != nil {
		media, err = s.storage.SaveFile(ctx, req.Media.FileName, req.Media.Reader, req.Media.Size)
		if err != nil {
			return nil, err
		}
	}

	mentions := make([]models.UserID, 0, len(req.Mentions))
	for _, m := range req.Mentions {
		if m = strings.TrimSpace(m); m != "" {
			mentions = append(mentions, models.UserID(m))
		}
	}

	post := &models.Post{
		User:        models.UserID(userID),
		Description: req.Description,
		Media:       media,
		Mentions:    mentions,
		Likes:       []models.UserID{},
		Comments:    []models.Comment{},
		Location:    req.Location,
	}

	if err := s.postRepo.Insert(ctx, post); err != nil {
		return nil, err
	}

	// вторая запись best-effort: при сбое пост остаётся без ссылки
	// в списке владельца
	if err := s.userRepo.AppendPost(ctx, ownerOID, post.ID.Hex()); err != nil {
		log.Printf("Пост %s создан, но не добавлен в список пользователя %s: %v",
			post.ID.Hex(), userID, err)
	}

	s.activity.Log(userID, "createPost", fmt.Sprintf("User %s created a post.", userID))

	return post, nil
}

func (s *postService) GetPost(ctx context.Context, postID string) (*PostDetail, error) {
	oid, err := parsePostID(postID)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	detail := &PostDetail{Post: *post}

	if ownerOID, err := post.User.ObjectID(); err == nil {
		owner, err := s.userRepo.GetByID(ctx, ownerOID)
		if err == nil {
			detail.Owner = owner
		}
	}

	detail.Likers, err = s.lookupUsers(ctx, post.Likes)
	if err != nil {
		return nil, err
	}

	detail.Mentions, err = s.lookupUsers(ctx, post.Mentions)
	if err != nil {
		return nil, err
	}

	// авторы комментариев: не найденные остаются nil, комментарий не пропадает
	commentIDs := make([]models.UserID, 0, len(post.Comments))
	for _, c := range post.Comments {
		commentIDs = append(commentIDs, c.User)
	}
	commentUsers, err := s.lookupUsers(ctx, commentIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.User, len(commentUsers))
	for i := range commentUsers {
		byID[commentUsers[i].ID.Hex()] = &commentUsers[i]
	}

	detail.CommentUsers = make([]*models.User, len(post.Comments))
	for i, c := range post.Comments {
		detail.CommentUsers[i] = byID[c.User.String()]
	}

	return detail, nil
}

// lookupUsers возвращает найденных пользователей; битые и отсутствующие
// идентификаторы молча выпадают из результата
func (s *postService) lookupUsers(ctx context.Context, ids []models.UserID) ([]models.User, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := id.ObjectID(); err == nil {
			oids = append(oids, oid)
		}
	}

	return s.userRepo.GetByIDs(ctx, oids)
}

// GetMultiplePosts возвращает посты в порядке убывания created_at,
// заданном хранилищем, а не в порядке входного списка
func (s *postService) GetMultiplePosts(ctx context.Context, userID string, postIDs []string) ([]models.Post, error) {
	if _, err := parseUserID(userID); err != nil {
		return nil, err
	}

	oids := make([]primitive.ObjectID, 0, len(postIDs))
	var malformed []string
	for _, id := range postIDs {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			malformed = append(malformed, id)
			continue
		}
		oids = append(oids, oid)
	}
	if len(malformed) > 0 {
		return nil, fmt.Errorf("%w: некорректные идентификаторы постов: %s",
			ErrInvalidArgument, strings.Join(malformed, ", "))
	}

	posts, err := s.postRepo.GetByIDs(ctx, oids)
	if err != nil {
		return nil, err
	}

	s.activity.Log(userID, "getMultiplePosts", fmt.Sprintf("Fetched posts: %v", postIDs))

	return posts, nil
}

func (s *postService) UpdatePost(ctx context.Context, postID string, description *string) (*models.Post, error) {
	oid, err := parsePostID(postID)
	if err != nil {
		return nil, err
	}

	if _, err := s.postRepo.GetByID(ctx, oid); err != nil {
		return nil, err
	}

	// через этот метод меняется только description
	if description == nil {
		return nil, fmt.Errorf("%w: поле description обязательно", ErrInvalidArgument)
	}

	if err := s.postRepo.UpdateDescription(ctx, oid, *description); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, oid)
}

func (s *postService) DeletePost(ctx context.Context, userID, postID string) error {
	oid, err := parsePostID(postID)
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(ctx, oid)
	if err != nil {
		return err
	}

	// строковое сравнение владельца
	if post.User.String() != userID {
		return ErrForbidden
	}

	if err := s.postRepo.Delete(ctx, oid); err != nil {
		return err
	}

	if ownerOID, err := parseUserID(userID); err == nil {
		if err := s.userRepo.RemovePost(ctx, ownerOID, postID); err != nil {
			log.Printf("Пост %s удалён, но не убран из списка пользователя %s: %v",
				postID, userID, err)
		}
	}

	s.activity.Log(userID, "deletePost", fmt.Sprintf("Post %s deleted.", postID))

	return nil
}

// LikePost идемпотентен: повторный лайк ничего не меняет и не логируется
func (s *postService) LikePost(ctx context.Context, userID, postID string) (*models.Post, error) {
	oid, err := parsePostID(postID)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	if !containsUserID(post.Likes, userID) {
		if err := s.postRepo.AddLike(ctx, oid, userID); err != nil {
			return nil, err
		}
		s.activity.Log(userID, "likedPost", fmt.Sprintf("%s liked post %s", userID, postID))
	}

	return s.postRepo.GetByID(ctx, oid)
}

func (s *postService) UnlikePost(ctx context.Context, userID, postID string) (*models.Post, error) {
	oid, err := parsePostID(postID)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	if containsUserID(post.Likes, userID) {
		if err := s.postRepo.RemoveLike(ctx, oid, userID); err != nil {
			return nil, err
		}
		s.activity.Log(userID, "unlikedPost", fmt.Sprintf("%s unliked post %s", userID, postID))
	}

	return s.postRepo.GetByID(ctx, oid)
}

func (s *postService) CommentOnPost(ctx context.Context, userID, postID, text string) (*PostDetail, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: текст комментария обязателен", ErrInvalidArgument)
	}

	oid, err := parsePostID(postID)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		User:      models.UserID(userID),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	modified, err := s.postRepo.AppendComment(ctx, oid, comment)
	if err != nil {
		return nil, err
	}
	if !modified {
		return nil, repository.ErrPostNotFound
	}

	s.activity.Log(userID, "commentOnPost", fmt.Sprintf("%s commented on %s", userID, postID))

	return s.GetPost(ctx, postID)
}

func (s *postService) GetFeedPosts(ctx context.Context, userID string) ([]models.Post, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	// без пагинации и ограничения размера
	posts, err := s.postRepo.GetByOwners(ctx, user.Following)
	if err != nil {
		return nil, err
	}

	s.activity.Log(userID, "getFeedPosts", fmt.Sprintf("User %s retrieved feed.", userID))

	return posts, nil
}

func containsUserID(ids []models.UserID, userID string) bool {
	for _, id := range ids {
		if id.String() == userID {
			return true
		}
	}
	return false
}
