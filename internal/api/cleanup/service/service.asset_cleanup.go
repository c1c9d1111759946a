// Package cleanupsvc - service hàng đợi xóa asset (collection asset_cleanup_queue).
package cleanupsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	cleanupmodels "videotube/internal/api/cleanup/models"
	basesvc "videotube/internal/api/base/service"
	"videotube/internal/asset"
	"videotube/internal/common"
	"videotube/internal/global"
	"videotube/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// claimLease: item đã claim mà worker chết giữa chừng sẽ được claim lại sau khoảng này
	claimLease = 5 * time.Minute

	baseBackoff = 30 * time.Second
	maxBackoff  = time.Hour

	defaultMaxRetries = 8
)

// RetryBackoff thời gian chờ trước lần thử thứ retry (1-based): 30s, 1m, 2m, ... tối đa 1h
func RetryBackoff(retry int) time.Duration {
	if retry < 1 {
		retry = 1
	}
	d := baseBackoff
	for i := 1; i < retry; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

// AssetCleanupService quản lý hàng đợi xóa asset
type AssetCleanupService struct {
	*basesvc.BaseServiceMongoImpl[cleanupmodels.AssetCleanupItem]
	maxRetries int
	now        func() time.Time
}

// NewAssetCleanupService tạo service từ collection đã đăng ký trong registry
func NewAssetCleanupService(maxRetries int) (*AssetCleanupService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.AssetCleanup)
	if !exist {
		return nil, fmt.Errorf("failed to get asset_cleanup_queue collection: %w", common.ErrNotFound)
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &AssetCleanupService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[cleanupmodels.AssetCleanupItem](coll),
		maxRetries:           maxRetries,
		now:                  time.Now,
	}, nil
}

// Enqueue thêm asset cần xóa, worker sẽ xử lý ngay ở lần chạy tới
func (s *AssetCleanupService) Enqueue(ctx context.Context, publicID string, kind asset.Kind, reason string) error {
	if publicID == "" {
		return nil
	}
	item, err := s.InsertOne(ctx, cleanupmodels.AssetCleanupItem{
		PublicID:    publicID,
		Kind:        string(kind),
		Reason:      reason,
		Status:      cleanupmodels.StatusPending,
		MaxRetries:  s.maxRetries,
		NextRetryAt: s.now().UnixMilli(),
	})
	if err != nil {
		return err
	}

	logger.WithModule("cleanup").WithFields(map[string]interface{}{
		"id":        item.ID.Hex(),
		"public_id": publicID,
		"kind":      kind,
		"reason":    reason,
	}).Info("📦 [CLEANUP] Asset queued for deletion")
	return nil
}

// ClaimDue claim tối đa limit item đến hạn. Mỗi item được claim nguyên tử (FindOneAndUpdate)
// nên nhiều instance worker chạy song song không xử lý trùng.
func (s *AssetCleanupService) ClaimDue(ctx context.Context, limit int) ([]cleanupmodels.AssetCleanupItem, error) {
	if limit <= 0 {
		return nil, nil
	}

	now := s.now()
	filter := bson.M{
		"status":      bson.M{"$in": bson.A{cleanupmodels.StatusPending, cleanupmodels.StatusProcessing}},
		"nextRetryAt": bson.M{"$lte": now.UnixMilli()},
	}
	update := bson.M{"$set": bson.M{
		"status":      cleanupmodels.StatusProcessing,
		"nextRetryAt": now.Add(claimLease).UnixMilli(),
		"updatedAt":   now.UnixMilli(),
	}}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "nextRetryAt", Value: 1}}).
		SetReturnDocument(options.After)

	items := make([]cleanupmodels.AssetCleanupItem, 0, limit)
	for len(items) < limit {
		var item cleanupmodels.AssetCleanupItem
		err := s.Collection().FindOneAndUpdate(ctx, filter, update, opts).Decode(&item)
		if errors.Is(err, mongo.ErrNoDocuments) {
			break
		}
		if err != nil {
			return items, common.ConvertMongoError(err)
		}
		items = append(items, item)
	}
	return items, nil
}

// MarkDone đánh dấu item đã xóa xong
func (s *AssetCleanupService) MarkDone(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.UpdateById(ctx, id, &basesvc.UpdateData{
		Set:   map[string]interface{}{"status": cleanupmodels.StatusDone},
		Unset: map[string]interface{}{"lastError": ""},
	})
	return err
}

// MarkRetry ghi nhận lần xóa thất bại: hẹn lần sau theo backoff, hết lượt thì chuyển failed
func (s *AssetCleanupService) MarkRetry(ctx context.Context, item cleanupmodels.AssetCleanupItem, cause error) error {
	retry := item.RetryCount + 1
	set := map[string]interface{}{
		"retryCount": retry,
		"lastError":  errString(cause),
	}

	maxRetries := item.MaxRetries
	if maxRetries <= 0 {
		maxRetries = s.maxRetries
	}
	if retry >= maxRetries {
		set["status"] = cleanupmodels.StatusFailed
	} else {
		set["status"] = cleanupmodels.StatusPending
		set["nextRetryAt"] = s.now().Add(RetryBackoff(retry)).UnixMilli()
	}

	_, err := s.UpdateById(ctx, item.ID, &basesvc.UpdateData{Set: set})
	return err
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
