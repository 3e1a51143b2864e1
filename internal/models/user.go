package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User mirrors the externally managed users collection. Only the public
// profile fields are ever read by this service.
type User struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id"`
	Username   string             `json:"username" bson:"username"`
	Email      string             `json:"-" bson:"email"`
	FullName   string             `json:"fullName" bson:"fullName"`
	Avatar     string             `json:"avatar" bson:"avatar"`
	CoverImage string             `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
}

// UserSummary is the owner shape embedded in comments, videos and lists.
type UserSummary struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id"`
	Username string             `json:"username" bson:"username"`
	FullName string             `json:"fullName" bson:"fullName"`
	Avatar   string             `json:"avatar" bson:"avatar"`
}

// ChannelProfile is the owner shape of a single video, including the
// number of users subscribed to that owner.
type ChannelProfile struct {
	ID               primitive.ObjectID `json:"_id" bson:"_id"`
	Username         string             `json:"username" bson:"username"`
	FullName         string             `json:"fullName" bson:"fullName"`
	Avatar           string             `json:"avatar" bson:"avatar"`
	CoverImage       string             `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	SubscribersCount int                `json:"subscribersCount" bson:"subscribersCount"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Avatar:   u.Avatar,
	}
}
