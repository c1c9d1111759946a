package engagementmodels

import "go.mongodb.org/mongo-driver/bson/primitive"

// Subscription: subscriber đăng ký channel (channel cũng là một user)
type Subscription struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Subscriber primitive.ObjectID `json:"subscriber" bson:"subscriber" index:"compound:subscriber_channel_unique"`
	Channel    primitive.ObjectID `json:"channel" bson:"channel" index:"single;compound:subscriber_channel_unique"`
	CreatedAt  int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt  int64              `json:"updatedAt" bson:"updatedAt"`
}
