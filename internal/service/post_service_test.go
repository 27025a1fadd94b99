package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"connectApp/internal/config"
	"connectApp/internal/models"
	"connectApp/internal/repository"
)

func newPostService(postRepo *MockPostRepository, userRepo *MockUserRepository) (PostService, *noopLogger) {
	logger := &noopLogger{}
	return NewPostService(postRepo, userRepo, new(MockStorage), logger, &config.Config{}), logger
}

func TestLikePost_Idempotent(t *testing.T) {
	ownerID := primitive.NewObjectID()
	postID := primitive.NewObjectID()
	likerID := primitive.NewObjectID().Hex()

	tests := []struct {
		name          string
		likes         []models.UserID
		expectAddLike bool
		expectLogged  bool
	}{
		{
			name:          "первый лайк добавляется и логируется",
			likes:         []models.UserID{},
			expectAddLike: true,
			expectLogged:  true,
		},
		{
			name:          "повторный лайк - no-op без записи в журнал",
			likes:         []models.UserID{models.UserID(likerID)},
			expectAddLike: false,
			expectLogged:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postRepo := new(MockPostRepository)
			userRepo := new(MockUserRepository)

			post := &models.Post{
				ID:    postID,
				User:  models.UserID(ownerID.Hex()),
				Likes: tt.likes,
			}
			postRepo.On("GetByID", mock.Anything, postID).Return(post, nil)
			if tt.expectAddLike {
				postRepo.On("AddLike", mock.Anything, postID, likerID).Return(nil)
			}

			svc, logger := newPostService(postRepo, userRepo)

			result, err := svc.LikePost(context.Background(), likerID, postID.Hex())
			require.NoError(t, err)
			require.NotNil(t, result)

			postRepo.AssertExpectations(t)
			postRepo.AssertNumberOfCalls(t, "AddLike", boolToCalls(tt.expectAddLike))
			if tt.expectLogged {
				assert.Contains(t, logger.entries, "likedPost")
			} else {
				assert.Empty(t, logger.entries)
			}
		})
	}
}

func TestUnlikePost_NotLikedIsNoop(t *testing.T) {
	postID := primitive.NewObjectID()
	userID := primitive.NewObjectID().Hex()

	postRepo := new(MockPostRepository)
	userRepo := new(MockUserRepository)

	post := &models.Post{ID: postID, Likes: []models.UserID{}}
	postRepo.On("GetByID", mock.Anything, postID).Return(post, nil)

	svc, logger := newPostService(postRepo, userRepo)

	result, err := svc.UnlikePost(context.Background(), userID, postID.Hex())
	require.NoError(t, err)
	assert.Empty(t, result.Likes)

	postRepo.AssertNotCalled(t, "RemoveLike", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, logger.entries)
}

func TestLikePost_PostNotFound(t *testing.T) {
	postID := primitive.NewObjectID()

	postRepo := new(MockPostRepository)
	postRepo.On("GetByID", mock.Anything, postID).Return(nil, repository.ErrPostNotFound)

	svc, _ := newPostService(postRepo, new(MockUserRepository))

	_, err := svc.LikePost(context.Background(), primitive.NewObjectID().Hex(), postID.Hex())
	assert.ErrorIs(t, err, repository.ErrPostNotFound)
}

func TestCommentOnPost_Validation(t *testing.T) {
	svc, _ := newPostService(new(MockPostRepository), new(MockUserRepository))

	tests := []string{"", "   ", "\t\n"}
	for _, text := range tests {
		_, err := svc.CommentOnPost(context.Background(), primitive.NewObjectID().Hex(),
			primitive.NewObjectID().Hex(), text)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestCommentOnPost_AppendsTrimmedComment(t *testing.T) {
	postID := primitive.NewObjectID()
	userID := primitive.NewObjectID().Hex()

	postRepo := new(MockPostRepository)
	userRepo := new(MockUserRepository)

	postRepo.On("AppendComment", mock.Anything, postID, mock.MatchedBy(func(c models.Comment) bool {
		return c.Text == "nice" && c.User.String() == userID && !c.CreatedAt.IsZero()
	})).Return(true, nil)

	// повторная выборка для гидратации ответа
	updated := &models.Post{
		ID:   postID,
		User: models.UserID(userID),
		Comments: []models.Comment{
			{User: models.UserID(userID), Text: "nice", CreatedAt: time.Now()},
		},
	}
	postRepo.On("GetByID", mock.Anything, postID).Return(updated, nil)
	userRepo.On("GetByID", mock.Anything, mock.Anything).Return(&models.User{}, nil)
	userRepo.On("GetByIDs", mock.Anything, mock.Anything).Return([]models.User{}, nil)

	svc, logger := newPostService(postRepo, userRepo)

	detail, err := svc.CommentOnPost(context.Background(), userID, postID.Hex(), "  nice  ")
	require.NoError(t, err)
	require.Len(t, detail.Post.Comments, 1)
	assert.Equal(t, "nice", detail.Post.Comments[0].Text)
	assert.Contains(t, logger.entries, "commentOnPost")
}

func TestCommentOnPost_NothingModifiedIsNotFound(t *testing.T) {
	postID := primitive.NewObjectID()

	postRepo := new(MockPostRepository)
	postRepo.On("AppendComment", mock.Anything, postID, mock.Anything).Return(false, nil)

	svc, _ := newPostService(postRepo, new(MockUserRepository))

	_, err := svc.CommentOnPost(context.Background(), primitive.NewObjectID().Hex(),
		postID.Hex(), "text")
	assert.ErrorIs(t, err, repository.ErrPostNotFound)
}

func TestDeletePost_ForbiddenForNonOwner(t *testing.T) {
	ownerID := primitive.NewObjectID().Hex()
	strangerID := primitive.NewObjectID().Hex()
	postID := primitive.NewObjectID()

	postRepo := new(MockPostRepository)
	postRepo.On("GetByID", mock.Anything, postID).
		Return(&models.Post{ID: postID, User: models.UserID(ownerID)}, nil)

	svc, _ := newPostService(postRepo, new(MockUserRepository))

	err := svc.DeletePost(context.Background(), strangerID, postID.Hex())
	assert.ErrorIs(t, err, ErrForbidden)
	postRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeletePost_RemovesPostAndOwnerReference(t *testing.T) {
	ownerOID := primitive.NewObjectID()
	ownerID := ownerOID.Hex()
	postID := primitive.NewObjectID()

	postRepo := new(MockPostRepository)
	userRepo := new(MockUserRepository)

	postRepo.On("GetByID", mock.Anything, postID).
		Return(&models.Post{ID: postID, User: models.UserID(ownerID)}, nil)
	postRepo.On("Delete", mock.Anything, postID).Return(nil)
	userRepo.On("RemovePost", mock.Anything, ownerOID, postID.Hex()).Return(nil)

	svc, logger := newPostService(postRepo, userRepo)

	err := svc.DeletePost(context.Background(), ownerID, postID.Hex())
	require.NoError(t, err)

	postRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
	assert.Contains(t, logger.entries, "deletePost")
}

func TestCreatePost_AppendFailureKeepsPost(t *testing.T) {
	ownerOID := primitive.NewObjectID()
	ownerID := ownerOID.Hex()

	postRepo := new(MockPostRepository)
	userRepo := new(MockUserRepository)

	postRepo.On("Insert", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
		return p.User.String() == ownerID && len(p.Likes) == 0 && len(p.Comments) == 0
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Post).ID = primitive.NewObjectID()
	}).Return(nil)

	// вторая запись падает - пост остаётся, ошибки нет
	userRepo.On("AppendPost", mock.Anything, ownerOID, mock.Anything).
		Return(errors.New("нет соединения"))

	svc, logger := newPostService(postRepo, userRepo)

	post, err := svc.CreatePost(context.Background(), ownerID, CreatePostRequest{
		Description: "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Description)
	assert.False(t, post.ID.IsZero())
	assert.Contains(t, logger.entries, "createPost")
}

func TestGetMultiplePosts_ReportsMalformedIDs(t *testing.T) {
	userID := primitive.NewObjectID().Hex()
	goodID := primitive.NewObjectID().Hex()

	svc, _ := newPostService(new(MockPostRepository), new(MockUserRepository))

	_, err := svc.GetMultiplePosts(context.Background(), userID,
		[]string{goodID, "abc", "xyz"})
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "abc")
	assert.Contains(t, err.Error(), "xyz")
}

func TestGetMultiplePosts_BatchFetch(t *testing.T) {
	userID := primitive.NewObjectID().Hex()
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	postRepo := new(MockPostRepository)
	// хранилище отдаёт в порядке убывания created_at, не в порядке запроса
	postRepo.On("GetByIDs", mock.Anything, []primitive.ObjectID{first, second}).
		Return([]models.Post{{ID: second}, {ID: first}}, nil)

	svc, _ := newPostService(postRepo, new(MockUserRepository))

	posts, err := svc.GetMultiplePosts(context.Background(), userID,
		[]string{first.Hex(), second.Hex()})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second, posts[0].ID)
}

func TestGetPost_HydrationDropsMissingUsers(t *testing.T) {
	postID := primitive.NewObjectID()
	ownerOID := primitive.NewObjectID()
	likerOID := primitive.NewObjectID()
	ghostLiker := primitive.NewObjectID()
	commenterOID := primitive.NewObjectID()

	post := &models.Post{
		ID:       postID,
		User:     models.UserID(ownerOID.Hex()),
		Likes:    []models.UserID{models.UserID(likerOID.Hex()), models.UserID(ghostLiker.Hex())},
		Mentions: []models.UserID{},
		Comments: []models.Comment{
			{User: models.UserID(commenterOID.Hex()), Text: "привет"},
			{User: models.UserID(primitive.NewObjectID().Hex()), Text: "orphan"},
		},
	}

	postRepo := new(MockPostRepository)
	userRepo := new(MockUserRepository)

	postRepo.On("GetByID", mock.Anything, postID).Return(post, nil)
	userRepo.On("GetByID", mock.Anything, ownerOID).Return(&models.User{ID: ownerOID}, nil)
	// из двух лайкнувших в базе остался один
	userRepo.On("GetByIDs", mock.Anything, []primitive.ObjectID{likerOID, ghostLiker}).
		Return([]models.User{{ID: likerOID}}, nil)
	userRepo.On("GetByIDs", mock.Anything, []primitive.ObjectID{}).
		Return([]models.User{}, nil)
	userRepo.On("GetByIDs", mock.Anything, mock.MatchedBy(func(ids []primitive.ObjectID) bool {
		return len(ids) == 2 && ids[0] == commenterOID
	})).Return([]models.User{{ID: commenterOID}}, nil)

	svc, _ := newPostService(postRepo, userRepo)

	detail, err := svc.GetPost(context.Background(), postID.Hex())
	require.NoError(t, err)

	require.NotNil(t, detail.Owner)
	assert.Equal(t, ownerOID, detail.Owner.ID)
	require.Len(t, detail.Likers, 1)
	assert.Equal(t, likerOID, detail.Likers[0].ID)

	// автор второго комментария не найден - поле остаётся пустым
	require.Len(t, detail.CommentUsers, 2)
	require.NotNil(t, detail.CommentUsers[0])
	assert.Equal(t, commenterOID, detail.CommentUsers[0].ID)
	assert.Nil(t, detail.CommentUsers[1])
}

func TestGetFeedPosts(t *testing.T) {
	userOID := primitive.NewObjectID()
	followedID := models.UserID(primitive.NewObjectID().Hex())

	postRepo := new(MockPostRepository)
	userRepo := new(MockUserRepository)

	userRepo.On("GetByID", mock.Anything, userOID).
		Return(&models.User{ID: userOID, Following: []models.UserID{followedID}}, nil)
	postRepo.On("GetByOwners", mock.Anything, []models.UserID{followedID}).
		Return([]models.Post{{Description: "из ленты"}}, nil)

	svc, logger := newPostService(postRepo, userRepo)

	posts, err := svc.GetFeedPosts(context.Background(), userOID.Hex())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Contains(t, logger.entries, "getFeedPosts")
}

func TestGetFeedPosts_UserNotFound(t *testing.T) {
	userOID := primitive.NewObjectID()

	userRepo := new(MockUserRepository)
	userRepo.On("GetByID", mock.Anything, userOID).Return(nil, repository.ErrUserNotFound)

	svc, _ := newPostService(new(MockPostRepository), userRepo)

	_, err := svc.GetFeedPosts(context.Background(), userOID.Hex())
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUpdatePost_DescriptionRequired(t *testing.T) {
	postID := primitive.NewObjectID()

	postRepo := new(MockPostRepository)
	postRepo.On("GetByID", mock.Anything, postID).
		Return(&models.Post{ID: postID}, nil)

	svc, _ := newPostService(postRepo, new(MockUserRepository))

	_, err := svc.UpdatePost(context.Background(), postID.Hex(), nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	postRepo.AssertNotCalled(t, "UpdateDescription", mock.Anything, mock.Anything, mock.Anything)
}

func boolToCalls(b bool) int {
	if b {
		return 1
	}
	return 0
}
