package videosvc

import (
	"strings"

	videodto "videotube/internal/api/video/dto"
	"videotube/internal/api/video/models"
	basemodels "videotube/internal/api/base/models"
	"videotube/internal/common"
	"videotube/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MaxFeedLimit số video tối đa mỗi trang
const MaxFeedLimit = 100

// Các field được phép sort
var sortFields = map[string]bool{
	"views":     true,
	"createdAt": true,
	"duration":  true,
}

// FeedFilter là điều kiện feed đã được validate
type FeedFilter struct {
	Query     string              // Full-text query (đã NFC + trim), rỗng = không search
	Owner     *primitive.ObjectID // Lọc theo owner
	SortField string              // views | createdAt | duration
	SortDir   int                 // 1 hoặc -1
}

// ParseFeedQuery validate query của feed và trả về filter + page/limit đã chuẩn hóa
func ParseFeedQuery(q videodto.ListVideosQuery) (FeedFilter, int64, int64, error) {
	filter := FeedFilter{
		Query:     utility.NormalizeText(q.Query),
		SortField: "createdAt",
		SortDir:   -1,
	}

	var page, limit int64
	if q.Page != nil {
		if page = *q.Page; page < 1 {
			return filter, 0, 0, common.InvalidArgument("page phải là số nguyên dương")
		}
	}
	if q.Limit != nil {
		if limit = *q.Limit; limit < 1 {
			return filter, 0, 0, common.InvalidArgument("limit phải là số nguyên dương")
		}
	}
	page, limit = basemodels.NormalizePage(page, limit, MaxFeedLimit)
	if _, ok := basemodels.SkipFor(page, limit); !ok {
		return filter, 0, 0, common.InvalidArgument("page quá lớn: %d", page)
	}

	if userID := strings.TrimSpace(q.UserID); userID != "" {
		owner, err := utility.ParseObjectID("userId", userID)
		if err != nil {
			return filter, 0, 0, err
		}
		filter.Owner = &owner
	}

	if sortBy := strings.TrimSpace(q.SortBy); sortBy != "" {
		if !sortFields[sortBy] {
			return filter, 0, 0, common.InvalidArgument("sortBy không hợp lệ: %q (views, createdAt, duration)", sortBy)
		}
		filter.SortField = sortBy
	}

	switch strings.ToLower(strings.TrimSpace(q.SortType)) {
	case "":
	case "asc":
		filter.SortDir = 1
	case "desc":
		filter.SortDir = -1
	default:
		return filter, 0, 0, common.InvalidArgument("sortType không hợp lệ: %q (asc, desc)", q.SortType)
	}

	return filter, page, limit, nil
}

// FeedPipeline dựng pipeline feed (chưa phân trang).
// $text bắt buộc là stage đầu tiên nên match full-text đứng trước mọi stage khác.
func FeedPipeline(f FeedFilter, usersColl string) mongo.Pipeline {
	pipeline := mongo.Pipeline{}

	if f.Query != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.D{
			{Key: "$text", Value: bson.D{{Key: "$search", Value: f.Query}}},
		}}})
	}
	if f.Owner != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.D{{Key: "owner", Value: *f.Owner}}}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.D{{Key: "isPublished", Value: true}}}})

	dir := f.SortDir
	if dir != 1 {
		dir = -1
	}
	field := f.SortField
	if !sortFields[field] {
		field = "createdAt"
	}
	// _id làm tie-breaker để phân trang ổn định khi nhiều video cùng giá trị
	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{
		{Key: field, Value: dir},
		{Key: "_id", Value: dir},
	}}})

	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersColl},
			{Key: "localField", Value: "owner"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "ownerDetails"},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$project", Value: bson.D{
					{Key: "_id", Value: 0},
					{Key: "username", Value: 1},
					{Key: "avatar", Value: "$avatar.url"},
				}}},
			}},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$ownerDetails"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	)
	return pipeline
}

// memberOf trả về biểu thức "viewer có trong mảng path không".
// Không có viewer thì là literal false, không test membership.
func memberOf(viewer *primitive.ObjectID, path string) interface{} {
	if viewer == nil {
		return bson.D{{Key: "$literal", Value: false}}
	}
	return bson.D{{Key: "$in", Value: bson.A{*viewer, path}}}
}

// DetailCollections tên các collection mà pipeline chi tiết join tới
type DetailCollections struct {
	Users         string
	Likes         string
	Subscriptions string
}

// DetailPipeline dựng pipeline chi tiết video: likesCount, isLiked, owner kèm subscribersCount/isSubscribed
func DetailPipeline(id primitive.ObjectID, viewer *primitive.ObjectID, colls DetailCollections) mongo.Pipeline {
	ownerPipeline := bson.A{
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: colls.Subscriptions},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "channel"},
			{Key: "as", Value: "subscribers"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "subscribersCount", Value: bson.D{{Key: "$size", Value: "$subscribers"}}},
			{Key: "isSubscribed", Value: memberOf(viewer, "$subscribers.subscriber")},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "username", Value: 1},
			{Key: "avatar", Value: "$avatar.url"},
			{Key: "subscribersCount", Value: 1},
			{Key: "isSubscribed", Value: 1},
		}}},
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: models.VisibleTo(id, viewer)}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: colls.Likes},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "video"},
			{Key: "as", Value: "likes"},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: colls.Users},
			{Key: "localField", Value: "owner"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
			{Key: "pipeline", Value: ownerPipeline},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "likesCount", Value: bson.D{{Key: "$size", Value: "$likes"}}},
			{Key: "owner", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$owner", 0}}}},
			{Key: "isLiked", Value: memberOf(viewer, "$likes.likedBy")},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "title", Value: 1},
			{Key: "description", Value: 1},
			{Key: "videoFile", Value: "$videoFile.url"},
			{Key: "thumbnail", Value: "$thumbnail.url"},
			{Key: "duration", Value: 1},
			{Key: "views", Value: 1},
			{Key: "isPublished", Value: 1},
			{Key: "owner", Value: 1},
			{Key: "likesCount", Value: 1},
			{Key: "isLiked", Value: 1},
			{Key: "createdAt", Value: 1},
			{Key: "updatedAt", Value: 1},
		}}},
	}
}

// togglePublishedUpdate là pipeline update lật isPublished nguyên tử
func togglePublishedUpdate() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "isPublished", Value: bson.D{{Key: "$not", Value: bson.A{"$isPublished"}}}},
			{Key: "updatedAt", Value: bson.D{{Key: "$toLong", Value: "$$NOW"}}}, // unix millis
		}}},
	}
}
