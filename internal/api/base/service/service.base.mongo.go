// package basesvc cung cấp các service cơ bản cho việc tương tác với MongoDB
package basesvc

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "videotube/internal/api/base/models"
	"videotube/internal/common"
	"videotube/internal/utility"
)

// UpdateData định nghĩa kiểu dữ liệu cho partial update
type UpdateData struct {
	Set      map[string]interface{} `bson:"$set,omitempty"`      // Các trường cần update
	Unset    map[string]interface{} `bson:"$unset,omitempty"`    // Các trường cần xóa
	Inc      map[string]interface{} `bson:"$inc,omitempty"`      // Các trường số cần cộng dồn
	Push     map[string]interface{} `bson:"$push,omitempty"`     // Các trường cần thêm vào array
	Pull     map[string]interface{} `bson:"$pull,omitempty"`     // Các phần tử cần gỡ khỏi array
	AddToSet map[string]interface{} `bson:"$addToSet,omitempty"` // Các trường cần thêm vào set
}

// touch gắn updatedAt vào $set
func (u *UpdateData) touch() *UpdateData {
	if u.Set == nil {
		u.Set = map[string]interface{}{}
	}
	u.Set["updatedAt"] = time.Now().UnixMilli()
	return u
}

// ====================================
// INTERFACE VÀ STRUCT
// ====================================

// BaseServiceMongo định nghĩa interface chứa các phương thức cơ bản cho việc tương tác với MongoDB
type BaseServiceMongo[Model any] interface {
	InsertOne(ctx context.Context, data Model) (Model, error)
	FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (Model, error)
	Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]Model, error)
	FindOneById(ctx context.Context, id primitive.ObjectID) (Model, error)
	UpdateById(ctx context.Context, id primitive.ObjectID, update *UpdateData) (Model, error)
	UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (Model, error)
	DeleteById(ctx context.Context, id primitive.ObjectID) error
	DeleteMany(ctx context.Context, filter interface{}) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

// BaseServiceMongoImpl triển khai BaseServiceMongo trên một collection
type BaseServiceMongoImpl[T any] struct {
	collection *mongo.Collection
}

// NewBaseServiceMongo tạo mới một BaseServiceMongoImpl
func NewBaseServiceMongo[T any](collection *mongo.Collection) *BaseServiceMongoImpl[T] {
	return &BaseServiceMongoImpl[T]{
		collection: collection,
	}
}

// Collection trả về collection MongoDB (dùng khi cần aggregate trực tiếp)
func (s *BaseServiceMongoImpl[T]) Collection() *mongo.Collection {
	return s.collection
}

// ====================================
// NHÓM 1: CÁC HÀM CHUẨN MONGODB DRIVER
// ====================================

// InsertOne tạo mới một bản ghi, gắn createdAt/updatedAt rồi đọc lại bản ghi vừa tạo
func (s *BaseServiceMongoImpl[T]) InsertOne(ctx context.Context, data T) (T, error) {
	var zero T

	dataMap, err := utility.ToMap(data)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}

	// Sparse index chỉ bỏ qua null/không tồn tại, không bỏ qua chuỗi rỗng
	utility.DropEmptyStrings(dataMap)

	now := time.Now().UnixMilli()
	dataMap["createdAt"] = now
	dataMap["updatedAt"] = now

	result, err := s.collection.InsertOne(ctx, dataMap)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}

	var created T
	if err := s.collection.FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&created); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, common.Internal(err, "Không đọc lại được bản ghi vừa tạo")
		}
		return zero, common.ConvertMongoError(err)
	}
	return created, nil
}

// FindOne tìm một document theo điều kiện lọc
func (s *BaseServiceMongoImpl[T]) FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (T, error) {
	var result T

	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.FindOne()
	}

	if err := s.collection.FindOne(ctx, filter, opts).Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return result, common.ErrNotFound
		}
		return result, common.ConvertMongoError(err)
	}
	return result, nil
}

// Find tìm tất cả bản ghi theo điều kiện lọc
func (s *BaseServiceMongoImpl[T]) Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.D{}
	}

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}

// UpdateMany cập nhật nhiều document, trả về số document bị sửa
func (s *BaseServiceMongoImpl[T]) UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	result, err := s.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return result.ModifiedCount, nil
}

// FindOneAndUpdate cập nhật và trả về document sau khi cập nhật.
// update có thể là document ($set, $inc, ...) hoặc pipeline (mongo.Pipeline).
func (s *BaseServiceMongoImpl[T]) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (T, error) {
	var result T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	if err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return result, common.ErrNotFound
		}
		return result, common.ConvertMongoError(err)
	}
	return result, nil
}

// DeleteMany xóa nhiều document
func (s *BaseServiceMongoImpl[T]) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	result, err := s.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return result.DeletedCount, nil
}

// CountDocuments đếm số lượng document
func (s *BaseServiceMongoImpl[T]) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return count, nil
}

// ====================================
// NHÓM 2: CÁC HÀM TIỆN ÍCH MỞ RỘNG
// ====================================

// FindOneById tìm một document theo ObjectId
func (s *BaseServiceMongoImpl[T]) FindOneById(ctx context.Context, id primitive.ObjectID) (T, error) {
	return s.FindOne(ctx, bson.M{"_id": id}, nil)
}

// UpdateById cập nhật document theo ID (tự gắn updatedAt), trả về document sau cập nhật.
// Không có document nào khớp thì trả về common.ErrNotFound.
func (s *BaseServiceMongoImpl[T]) UpdateById(ctx context.Context, id primitive.ObjectID, update *UpdateData) (T, error) {
	if update == nil {
		update = &UpdateData{}
	}
	return s.FindOneAndUpdate(ctx, bson.M{"_id": id}, update.touch())
}

// DeleteById xóa document theo ID, trả về common.ErrNotFound nếu không tồn tại
func (s *BaseServiceMongoImpl[T]) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if result.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

// ====================================
// NHÓM 3: AGGREGATION
// ====================================

// Aggregate chạy pipeline và decode kết quả sang R
func Aggregate[R any](ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) ([]R, error) {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	results := []R{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}

// facetResult là kết quả của stage $facet dùng cho phân trang
type facetResult[R any] struct {
	Items    []R `bson:"items"`
	Metadata []struct {
		Total int64 `bson:"total"`
	} `bson:"metadata"`
}

// AggregateWithPagination chạy pipeline rồi phân trang bằng một stage $facet
// (đếm tổng và lấy trang trong cùng một round-trip).
func AggregateWithPagination[R any](ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, page, limit int64) (*basemodels.PaginateResult[R], error) {
	page, limit = basemodels.NormalizePage(page, limit, 0)

	paged := append(mongo.Pipeline{}, pipeline...)
	paged = append(paged, PaginationFacet(page, limit))

	results, err := Aggregate[facetResult[R]](ctx, coll, paged)
	if err != nil {
		return nil, err
	}

	var items []R
	var total int64
	if len(results) > 0 {
		items = results[0].Items
		if len(results[0].Metadata) > 0 {
			total = results[0].Metadata[0].Total
		}
	}
	return basemodels.NewPaginateResult(items, page, limit, total), nil
}

// PaginationFacet tạo stage $facet {metadata: [$count], items: [$skip, $limit]}
// Skip tràn int64 được chặn ở math.MaxInt64 (trang rỗng), không bao giờ âm.
func PaginationFacet(page, limit int64) bson.D {
	skip, _ := basemodels.SkipFor(page, limit)
	return bson.D{{Key: "$facet", Value: bson.D{
		{Key: "metadata", Value: bson.A{bson.D{{Key: "$count", Value: "total"}}}},
		{Key: "items", Value: bson.A{
			bson.D{{Key: "$skip", Value: skip}},
			bson.D{{Key: "$limit", Value: limit}},
		}},
	}}}
}
