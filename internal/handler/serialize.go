package handlers

import (
	"time"

	"connectApp/internal/models"
	"connectApp/internal/service"
)

const defaultProfilePicture = "/default.jpg"

type UserResponse struct {
	ID             string         `json:"_id"`
	Name           string         `json:"name"`
	Username       string         `json:"username"`
	Email          string         `json:"email"`
	ProfilePicture string         `json:"profilePicture"`
	Bio            string         `json:"bio"`
	Followers      []string       `json:"followers"`
	Following      []string       `json:"following"`
	Posts          []string       `json:"posts"`
	PostsData      []PostResponse `json:"postsData,omitempty"`
}

type CommentResponse struct {
	User      string        `json:"user"`
	Text      string        `json:"text"`
	CreatedAt string        `json:"createdAt"`
	UserData  *UserResponse `json:"userData,omitempty"`
}

type PostResponse struct {
	ID           string            `json:"_id"`
	User         string            `json:"user"`
	Description  string            `json:"description"`
	Media        string            `json:"media"`
	Mentions     []string          `json:"mentions"`
	Likes        []string          `json:"likes"`
	Comments     []CommentResponse `json:"comments"`
	Location     *models.Location  `json:"location,omitempty"`
	CreatedAt    string            `json:"created_at"`
	UpdatedAt    string            `json:"updated_at"`
	UserData     *UserResponse     `json:"userData,omitempty"`
	LikesData    []UserResponse    `json:"likesData,omitempty"`
	MentionsData []UserResponse    `json:"mentionsData,omitempty"`
}

type SearchUserResponse struct {
	ID             string `json:"_id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture"`
	PostCount      int64  `json:"postCount"`
	FollowerCount  int    `json:"followerCount"`
}

// isoTime приводит время к ISO-8601 в UTC; нулевое время - пустая строка
func isoTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func userIDStrings(ids []models.UserID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func serializeUser(user models.User) UserResponse {
	picture := user.ProfilePicture
	if picture == "" {
		picture = defaultProfilePicture
	}

	posts := user.Posts
	if posts == nil {
		posts = []string{}
	}

	return UserResponse{
		ID:             user.ID.Hex(),
		Name:           user.Name,
		Username:       user.Username,
		Email:          user.Email,
		ProfilePicture: picture,
		Bio:            user.Bio,
		Followers:      userIDStrings(user.Followers),
		Following:      userIDStrings(user.Following),
		Posts:          posts,
	}
}

func serializeUserProfile(profile *service.UserProfile) UserResponse {
	response := serializeUser(profile.User)

	if profile.Posts != nil {
		response.PostsData = serializePosts(profile.Posts)
	}

	return response
}

func serializePost(post models.Post) PostResponse {
	comments := make([]CommentResponse, 0, len(post.Comments))
	for _, c := range post.Comments {
		comments = append(comments, CommentResponse{
			User:      c.User.String(),
			Text:      c.Text,
			CreatedAt: isoTime(c.CreatedAt),
		})
	}

	return PostResponse{
		ID:          post.ID.Hex(),
		User:        post.User.String(),
		Description: post.Description,
		Media:       post.Media,
		Mentions:    userIDStrings(post.Mentions),
		Likes:       userIDStrings(post.Likes),
		Comments:    comments,
		Location:    post.Location,
		CreatedAt:   isoTime(post.CreatedAt),
		UpdatedAt:   isoTime(post.UpdatedAt),
	}
}

func serializePosts(posts []models.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		out = append(out, serializePost(post))
	}
	return out
}

// serializePostDetail дополняет пост полными объектами владельца,
// лайкнувших, упомянутых и авторов комментариев
func serializePostDetail(detail *service.PostDetail) PostResponse {
	response := serializePost(detail.Post)

	if detail.Owner != nil {
		owner := serializeUser(*detail.Owner)
		response.UserData = &owner
	}

	response.LikesData = make([]UserResponse, 0, len(detail.Likers))
	for _, liker := range detail.Likers {
		response.LikesData = append(response.LikesData, serializeUser(liker))
	}

	response.MentionsData = make([]UserResponse, 0, len(detail.Mentions))
	for _, mention := range detail.Mentions {
		response.MentionsData = append(response.MentionsData, serializeUser(mention))
	}

	for i := range response.Comments {
		if i < len(detail.CommentUsers) && detail.CommentUsers[i] != nil {
			user := serializeUser(*detail.CommentUsers[i])
			response.Comments[i].UserData = &user
		}
	}

	return response
}

func serializeSearchResults(results []service.SearchResult) []SearchUserResponse {
	out := make([]SearchUserResponse, 0, len(results))
	for _, result := range results {
		picture := result.User.ProfilePicture
		if picture == "" {
			picture = defaultProfilePicture
		}

		out = append(out, SearchUserResponse{
			ID:             result.User.ID.Hex(),
			Username:       result.User.Username,
			Email:          result.User.Email,
			ProfilePicture: picture,
			PostCount:      result.PostCount,
			FollowerCount:  result.FollowerCount,
		})
	}
	return out
}
