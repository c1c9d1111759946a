// Package models - model người dùng (User) thuộc domain auth.
package models

import (
	"videotube/internal/asset"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User là người dùng, đồng thời là channel mà người khác đăng ký.
// Password và RefreshToken không bao giờ được serialize ra JSON.
type User struct {
	ID           primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Username     string               `json:"username" bson:"username" index:"unique"`
	Email        string               `json:"email" bson:"email" index:"unique"`
	FullName     string               `json:"fullName" bson:"fullName"`
	Avatar       asset.Ref            `json:"avatar" bson:"avatar"`
	CoverImage   *asset.Ref           `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	Password     string               `json:"-" bson:"password"`
	RefreshToken string               `json:"-" bson:"refreshToken,omitempty"`
	WatchHistory []primitive.ObjectID `json:"watchHistory" bson:"watchHistory"`
	CreatedAt    int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt    int64                `json:"updatedAt" bson:"updatedAt"`
}

// PublicProfile là thông tin rút gọn của user khi nhúng vào video/history
type PublicProfile struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id"`
	Username string             `json:"username" bson:"username"`
	FullName string             `json:"fullName,omitempty" bson:"fullName,omitempty"`
	Avatar   string             `json:"avatar" bson:"avatar"`
}
