package engagementsvc

import (
	"context"
	"fmt"

	basesvc "videotube/internal/api/base/service"
	engagementmodels "videotube/internal/api/engagement/models"
	"videotube/internal/common"
	"videotube/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EdgeRepository lưu quan hệ "from → to" duy nhất: (likedBy → video), (subscriber → channel)
type EdgeRepository interface {
	// Find trả về ID của edge, common.ErrNotFound nếu chưa có
	Find(ctx context.Context, from, to primitive.ObjectID) (primitive.ObjectID, error)
	// Insert tạo edge, trả lỗi Conflict nếu đã tồn tại (unique index)
	Insert(ctx context.Context, from, to primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// CountTo đếm số edge trỏ tới "to"
	CountTo(ctx context.Context, to primitive.ObjectID) (int64, error)
}

// DocumentCounter dùng để kiểm tra video / channel có tồn tại
type DocumentCounter interface {
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

// EdgeRepositoryMongo triển khai EdgeRepository trên một collection
type EdgeRepositoryMongo[T any] struct {
	*basesvc.BaseServiceMongoImpl[T]
	fromField string
	toField   string
	build     func(from, to primitive.ObjectID) T
}

// Find tìm edge theo cặp (from, to)
func (r *EdgeRepositoryMongo[T]) Find(ctx context.Context, from, to primitive.ObjectID) (primitive.ObjectID, error) {
	var doc struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	err := r.Collection().FindOne(ctx, bson.M{r.fromField: from, r.toField: to}).Decode(&doc)
	if err != nil {
		return primitive.NilObjectID, common.ConvertMongoError(err)
	}
	return doc.ID, nil
}

// Insert tạo edge mới
func (r *EdgeRepositoryMongo[T]) Insert(ctx context.Context, from, to primitive.ObjectID) error {
	_, err := r.InsertOne(ctx, r.build(from, to))
	return err
}

// Delete xóa edge theo ID
func (r *EdgeRepositoryMongo[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.DeleteById(ctx, id)
}

// CountTo đếm edge trỏ tới "to"
func (r *EdgeRepositoryMongo[T]) CountTo(ctx context.Context, to primitive.ObjectID) (int64, error) {
	return r.CountDocuments(ctx, bson.M{r.toField: to})
}

// NewLikeRepository tạo repository likes (likedBy → video)
func NewLikeRepository() (*EdgeRepositoryMongo[engagementmodels.Like], error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Likes)
	if !exist {
		return nil, fmt.Errorf("failed to get likes collection: %w", common.ErrNotFound)
	}
	return &EdgeRepositoryMongo[engagementmodels.Like]{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[engagementmodels.Like](coll),
		fromField:            "likedBy",
		toField:              "video",
		build: func(from, to primitive.ObjectID) engagementmodels.Like {
			return engagementmodels.Like{LikedBy: from, Video: to}
		},
	}, nil
}

// NewSubscriptionRepository tạo repository subscriptions (subscriber → channel)
func NewSubscriptionRepository() (*EdgeRepositoryMongo[engagementmodels.Subscription], error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Subscriptions)
	if !exist {
		return nil, fmt.Errorf("failed to get subscriptions collection: %w", common.ErrNotFound)
	}
	return &EdgeRepositoryMongo[engagementmodels.Subscription]{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[engagementmodels.Subscription](coll),
		fromField:            "subscriber",
		toField:              "channel",
		build: func(from, to primitive.ObjectID) engagementmodels.Subscription {
			return engagementmodels.Subscription{Subscriber: from, Channel: to}
		},
	}, nil
}

// NewCollectionCounter trả về counter trên collection đã đăng ký (videos, users)
func NewCollectionCounter(name string) (*basesvc.BaseServiceMongoImpl[bson.M], error) {
	coll, exist := global.RegistryCollections.Get(name)
	if !exist {
		return nil, fmt.Errorf("failed to get %s collection: %w", name, common.ErrNotFound)
	}
	return basesvc.NewBaseServiceMongo[bson.M](coll), nil
}

// exists kiểm tra document có _id = id
func exists(ctx context.Context, counter DocumentCounter, id primitive.ObjectID) (bool, error) {
	n, err := counter.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
