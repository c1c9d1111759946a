package authsvc

import (
	"context"
	"fmt"

	models "videotube/internal/api/auth/models"
	basesvc "videotube/internal/api/base/service"
	"videotube/internal/common"
	"videotube/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository là phần lưu trữ user mà UserService cần
type UserRepository interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	// FindByLogin tìm theo username hoặc email (đã lowercase), rỗng thì bỏ qua điều kiện đó
	FindByLogin(ctx context.Context, username, email string) (models.User, error)
	// SetRefreshToken lưu refresh token hiện hành, token rỗng thì xóa
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
	WatchHistory(ctx context.Context, id primitive.ObjectID) ([]models.WatchedVideo, error)
}

// UserRepositoryMongo triển khai UserRepository trên collection users
type UserRepositoryMongo struct {
	*basesvc.BaseServiceMongoImpl[models.User]
	videosCollection string
}

// NewUserRepository tạo repository từ collection đã đăng ký
func NewUserRepository() (*UserRepositoryMongo, error) {
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %w", common.ErrNotFound)
	}
	return &UserRepositoryMongo{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.User](userCollection),
		videosCollection:     global.MongoDB_ColNames.Videos,
	}, nil
}

// Create thêm user mới
func (r *UserRepositoryMongo) Create(ctx context.Context, user models.User) (models.User, error) {
	return r.InsertOne(ctx, user)
}

// FindByID tìm user theo ID
func (r *UserRepositoryMongo) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return r.FindOneById(ctx, id)
}

// FindByLogin tìm user theo username hoặc email
func (r *UserRepositoryMongo) FindByLogin(ctx context.Context, username, email string) (models.User, error) {
	or := bson.A{}
	if username != "" {
		or = append(or, bson.M{"username": username})
	}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if len(or) == 0 {
		return models.User{}, common.ErrNotFound
	}
	return r.FindOne(ctx, bson.M{"$or": or}, nil)
}

// SetRefreshToken cập nhật hoặc xóa refresh token
func (r *UserRepositoryMongo) SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	update := &basesvc.UpdateData{}
	if token == "" {
		update.Unset = map[string]interface{}{"refreshToken": ""}
	} else {
		update.Set = map[string]interface{}{"refreshToken": token}
	}
	_, err := r.UpdateById(ctx, id, update)
	return err
}

// WatchHistory trả về các video trong lịch sử xem kèm owner
func (r *UserRepositoryMongo) WatchHistory(ctx context.Context, id primitive.ObjectID) ([]models.WatchedVideo, error) {
	pipeline := WatchHistoryPipeline(id, r.videosCollection, r.Collection().Name())
	rows, err := basesvc.Aggregate[struct {
		WatchHistory []models.WatchedVideo `bson:"watchHistory"`
	}](ctx, r.Collection(), pipeline)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, common.NotFound("Không tìm thấy người dùng")
	}
	if rows[0].WatchHistory == nil {
		return []models.WatchedVideo{}, nil
	}
	return rows[0].WatchHistory, nil
}

// WatchHistoryPipeline join watchHistory sang videos, mỗi video join owner
func WatchHistoryPipeline(userID primitive.ObjectID, videosColl, usersColl string) mongo.Pipeline {
	ownerLookup := bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: usersColl},
		{Key: "localField", Value: "owner"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "owner"},
		{Key: "pipeline", Value: bson.A{
			bson.D{{Key: "$project", Value: bson.D{
				{Key: "username", Value: 1},
				{Key: "fullName", Value: 1},
				{Key: "avatar", Value: "$avatar.url"},
			}}},
		}},
	}}}

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: userID}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: videosColl},
			{Key: "localField", Value: "watchHistory"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "watchHistory"},
			{Key: "pipeline", Value: bson.A{
				ownerLookup,
				bson.D{{Key: "$addFields", Value: bson.D{
					{Key: "owner", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$owner", 0}}}},
				}}},
				bson.D{{Key: "$project", Value: bson.D{
					{Key: "title", Value: 1},
					{Key: "thumbnail", Value: "$thumbnail.url"},
					{Key: "duration", Value: 1},
					{Key: "views", Value: 1},
					{Key: "owner", Value: 1},
					{Key: "createdAt", Value: 1},
				}}},
			}},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "watchHistory", Value: 1}}}},
	}
}
