package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Username       string             `bson:"username" json:"username"`
	Email          string             `bson:"email" json:"email"`
	PasswordHash   string             `bson:"password,omitempty" json:"-"`
	ProfilePicture string             `bson:"profilePicture,omitempty" json:"profilePicture"`
	Bio            string             `bson:"bio,omitempty" json:"bio"`
	Followers      []UserID           `bson:"followers" json:"followers"`
	Following      []UserID           `bson:"following" json:"following"`
	Posts          []string           `bson:"posts" json:"posts"`
}

type Post struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User        UserID             `bson:"user" json:"user"`
	Description string             `bson:"description" json:"description"`
	Media       string             `bson:"media" json:"media"`
	Mentions    []UserID           `bson:"mentions" json:"mentions"`
	Likes       []UserID           `bson:"likes" json:"likes"`
	Comments    []Comment          `bson:"comments" json:"comments"`
	Location    *Location          `bson:"location,omitempty" json:"location,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Comment встроен в документ поста; после записи не редактируется и не удаляется
type Comment struct {
	User      UserID    `bson:"user" json:"user"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type Location struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

type ActivityLog struct {
	UserID    string    `bson:"userId" json:"userId"`
	Action    string    `bson:"action" json:"action"`
	Details   string    `bson:"details" json:"details"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}
