// Package engagementmodels - like video và đăng ký kênh.
package engagementmodels

import "go.mongodb.org/mongo-driver/bson/primitive"

// Like là lượt thích của một user cho một video. Mỗi cặp (video, likedBy) chỉ có một bản ghi.
type Like struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Video     primitive.ObjectID `json:"video" bson:"video" index:"compound:video_liked_by_unique"`
	LikedBy   primitive.ObjectID `json:"likedBy" bson:"likedBy" index:"single;compound:video_liked_by_unique"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
