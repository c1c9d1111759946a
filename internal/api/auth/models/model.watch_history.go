package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// WatchedVideo là một video trong lịch sử xem, kèm thông tin owner
type WatchedVideo struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Title     string             `json:"title" bson:"title"`
	Thumbnail string             `json:"thumbnail" bson:"thumbnail"`
	Duration  float64            `json:"duration" bson:"duration"`
	Views     int64              `json:"views" bson:"views"`
	Owner     PublicProfile      `json:"owner" bson:"owner"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
}
