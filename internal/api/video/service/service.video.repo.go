package videosvc

import (
	"context"
	"fmt"

	authmodels "videotube/internal/api/auth/models"
	basemodels "videotube/internal/api/base/models"
	basesvc "videotube/internal/api/base/service"
	"videotube/internal/api/video/models"
	"videotube/internal/common"
	"videotube/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// VideoRepository là phần lưu trữ video mà VideoService cần
type VideoRepository interface {
	InsertOne(ctx context.Context, video models.Video) (models.Video, error)
	FindOneById(ctx context.Context, id primitive.ObjectID) (models.Video, error)
	UpdateById(ctx context.Context, id primitive.ObjectID, update *basesvc.UpdateData) (models.Video, error)
	DeleteById(ctx context.Context, id primitive.ObjectID) error

	// FindFeed chạy pipeline feed có phân trang
	FindFeed(ctx context.Context, filter FeedFilter, page, limit int64) (*basemodels.PaginateResult[models.VideoFeedItem], error)
	// FindDetail trả về chi tiết video nếu viewer được phép xem, common.ErrNotFound nếu không
	FindDetail(ctx context.Context, id primitive.ObjectID, viewer *primitive.ObjectID) (*models.VideoDetail, error)
	// IncrementViews +1 view cho video mà viewer được phép xem, common.ErrNotFound nếu không
	IncrementViews(ctx context.Context, id primitive.ObjectID, viewer *primitive.ObjectID) error
	// TogglePublished lật isPublished nguyên tử, trả về giá trị mới
	TogglePublished(ctx context.Context, id primitive.ObjectID) (bool, error)
	// DeleteLikes xóa toàn bộ like của video
	DeleteLikes(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// WatchHistoryRepository thao tác lên watchHistory của users
type WatchHistoryRepository interface {
	// AppendWatchHistory push videoID vào cuối history (không dedup), trả về history sau khi push
	AppendWatchHistory(ctx context.Context, userID, videoID primitive.ObjectID) ([]primitive.ObjectID, error)
	// PullFromAllWatchHistories gỡ videoID khỏi history của mọi user
	PullFromAllWatchHistories(ctx context.Context, videoID primitive.ObjectID) (int64, error)
}

// ====================================
// MONGODB
// ====================================

// VideoRepositoryMongo triển khai VideoRepository trên collection videos
type VideoRepositoryMongo struct {
	*basesvc.BaseServiceMongoImpl[models.Video]
	likes *mongo.Collection
	colls DetailCollections
}

// NewVideoRepository tạo repository từ các collection đã đăng ký
func NewVideoRepository() (*VideoRepositoryMongo, error) {
	names := global.MongoDB_ColNames
	videoCollection, exist := global.RegistryCollections.Get(names.Videos)
	if !exist {
		return nil, fmt.Errorf("failed to get videos collection: %w", common.ErrNotFound)
	}
	likeCollection, exist := global.RegistryCollections.Get(names.Likes)
	if !exist {
		return nil, fmt.Errorf("failed to get likes collection: %w", common.ErrNotFound)
	}

	return &VideoRepositoryMongo{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Video](videoCollection),
		likes:                likeCollection,
		colls: DetailCollections{
			Users:         names.Users,
			Likes:         names.Likes,
			Subscriptions: names.Subscriptions,
		},
	}, nil
}

// FindFeed chạy FeedPipeline + $facet phân trang
func (r *VideoRepositoryMongo) FindFeed(ctx context.Context, filter FeedFilter, page, limit int64) (*basemodels.PaginateResult[models.VideoFeedItem], error) {
	return basesvc.AggregateWithPagination[models.VideoFeedItem](ctx, r.Collection(), FeedPipeline(filter, r.colls.Users), page, limit)
}

// FindDetail chạy DetailPipeline
func (r *VideoRepositoryMongo) FindDetail(ctx context.Context, id primitive.ObjectID, viewer *primitive.ObjectID) (*models.VideoDetail, error) {
	rows, err := basesvc.Aggregate[models.VideoDetail](ctx, r.Collection(), DetailPipeline(id, viewer, r.colls))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, common.NotFound("Không tìm thấy video")
	}
	return &rows[0], nil
}

// IncrementViews $inc views nếu video khớp điều kiện hiển thị
func (r *VideoRepositoryMongo) IncrementViews(ctx context.Context, id primitive.ObjectID, viewer *primitive.ObjectID) error {
	result, err := r.Collection().UpdateOne(ctx, models.VisibleTo(id, viewer), bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if result.MatchedCount == 0 {
		return common.NotFound("Không tìm thấy video")
	}
	return nil
}

// TogglePublished lật isPublished bằng pipeline update
func (r *VideoRepositoryMongo) TogglePublished(ctx context.Context, id primitive.ObjectID) (bool, error) {
	video, err := r.FindOneAndUpdate(ctx, bson.M{"_id": id}, togglePublishedUpdate())
	if err != nil {
		return false, err
	}
	return video.IsPublished, nil
}

// DeleteLikes xóa like của video
func (r *VideoRepositoryMongo) DeleteLikes(ctx context.Context, id primitive.ObjectID) (int64, error) {
	result, err := r.likes.DeleteMany(ctx, bson.M{"video": id})
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return result.DeletedCount, nil
}

// WatchHistoryRepositoryMongo triển khai WatchHistoryRepository trên collection users
type WatchHistoryRepositoryMongo struct {
	*basesvc.BaseServiceMongoImpl[authmodels.User]
}

// NewWatchHistoryRepository tạo repository watchHistory
func NewWatchHistoryRepository() (*WatchHistoryRepositoryMongo, error) {
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %w", common.ErrNotFound)
	}
	return &WatchHistoryRepositoryMongo{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[authmodels.User](userCollection),
	}, nil
}

// AppendWatchHistory $push videoID vào watchHistory
func (r *WatchHistoryRepositoryMongo) AppendWatchHistory(ctx context.Context, userID, videoID primitive.ObjectID) ([]primitive.ObjectID, error) {
	user, err := r.UpdateById(ctx, userID, &basesvc.UpdateData{
		Push: map[string]interface{}{"watchHistory": videoID},
	})
	if err != nil {
		return nil, err
	}
	if user.WatchHistory == nil {
		return []primitive.ObjectID{}, nil
	}
	return user.WatchHistory, nil
}

// PullFromAllWatchHistories $pull videoID khỏi watchHistory của mọi user chứa nó
func (r *WatchHistoryRepositoryMongo) PullFromAllWatchHistories(ctx context.Context, videoID primitive.ObjectID) (int64, error) {
	return r.UpdateMany(ctx,
		bson.M{"watchHistory": videoID},
		bson.M{"$pull": bson.M{"watchHistory": videoID}},
	)
}
