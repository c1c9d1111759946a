// Package models - Video và các dạng đọc (feed item, detail) của domain video.
package models

import (
	"videotube/internal/asset"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Video là video đã publish lên hệ thống.
// Owner không đổi sau khi tạo; Duration và VideoFile chỉ set một lần lúc publish.
type Video struct {
	ID primitive.ObjectID `json:"_id" bson:"_id,omitempty"`

	// ===== NỘI DUNG =====
	Title       string  `json:"title" bson:"title" index:"text,weight:10"` // Tiêu đề (full-text search)
	Description string  `json:"description" bson:"description" index:"text"` // Mô tả (full-text search)
	Duration    float64 `json:"duration" bson:"duration" index:"single"`      // Thời lượng (giây)

	// ===== ASSETS =====
	VideoFile asset.Ref `json:"videoFile" bson:"videoFile"`
	Thumbnail asset.Ref `json:"thumbnail" bson:"thumbnail"` // Thay thế nguyên khối khi update

	// ===== OWNER & TRẠNG THÁI =====
	Owner       primitive.ObjectID `json:"owner" bson:"owner" index:"single"`
	Views       int64              `json:"views" bson:"views" index:"single,order:-1"`
	IsPublished bool               `json:"isPublished" bson:"isPublished" index:"compound:published_created"`

	// ===== TIMESTAMPS =====
	CreatedAt int64 `json:"createdAt" bson:"createdAt" index:"compound:published_created,order:-1"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// OwnerDetails thông tin owner nhúng trong feed
type OwnerDetails struct {
	Username string `json:"username" bson:"username"`
	Avatar   string `json:"avatar" bson:"avatar"`
}

// VideoFeedItem là một dòng trong feed: video + ownerDetails
type VideoFeedItem struct {
	Video        `bson:",inline"`
	OwnerDetails *OwnerDetails `json:"ownerDetails" bson:"ownerDetails,omitempty"`
}

// DetailOwner owner của video kèm số subscriber và trạng thái đăng ký của người xem
type DetailOwner struct {
	ID               primitive.ObjectID `json:"_id" bson:"_id"`
	Username         string             `json:"username" bson:"username"`
	Avatar           string             `json:"avatar" bson:"avatar"`
	SubscribersCount int64              `json:"subscribersCount" bson:"subscribersCount"`
	IsSubscribed     bool               `json:"isSubscribed" bson:"isSubscribed"`
}

// VideoDetail là video khi xem chi tiết
type VideoDetail struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	VideoFile   string             `json:"videoFile" bson:"videoFile"`
	Thumbnail   string             `json:"thumbnail" bson:"thumbnail"`
	Duration    float64            `json:"duration" bson:"duration"`
	Views       int64              `json:"views" bson:"views"`
	IsPublished bool               `json:"isPublished" bson:"isPublished"`
	Owner       *DetailOwner       `json:"owner" bson:"owner"`
	LikesCount  int64              `json:"likesCount" bson:"likesCount"`
	IsLiked     bool               `json:"isLiked" bson:"isLiked"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}

// VisibleTo là filter video theo _id mà viewer được thấy:
// đã publish, hoặc chưa publish nhưng viewer là owner. viewer nil = khách.
func VisibleTo(id primitive.ObjectID, viewer *primitive.ObjectID) bson.D {
	if viewer == nil {
		return bson.D{{Key: "_id", Value: id}, {Key: "isPublished", Value: true}}
	}
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "isPublished", Value: true}},
			bson.D{{Key: "owner", Value: *viewer}},
		}},
	}
}
