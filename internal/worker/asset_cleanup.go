package worker

import (
	"context"
	"fmt"
	"time"

	cleanupmodels "videotube/internal/api/cleanup/models"
	"videotube/internal/asset"
	"videotube/internal/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CleanupQueue là phần hàng đợi mà worker cần (cleanupsvc.AssetCleanupService)
type CleanupQueue interface {
	ClaimDue(ctx context.Context, limit int) ([]cleanupmodels.AssetCleanupItem, error)
	MarkDone(ctx context.Context, id primitive.ObjectID) error
	MarkRetry(ctx context.Context, item cleanupmodels.AssetCleanupItem, cause error) error
}

// AssetCleanupWorker định kỳ xóa các asset mồ côi trong hàng đợi khỏi asset store
type AssetCleanupWorker struct {
	queue    CleanupQueue
	store    asset.Store
	interval time.Duration
	batch    int
}

// NewAssetCleanupWorker tạo mới AssetCleanupWorker.
// interval < 5s thì dùng 1 phút, batch <= 0 thì dùng 20.
func NewAssetCleanupWorker(queue CleanupQueue, store asset.Store, interval time.Duration, batch int) *AssetCleanupWorker {
	if interval < 5*time.Second {
		interval = time.Minute
	}
	if batch <= 0 {
		batch = 20
	}
	return &AssetCleanupWorker{
		queue:    queue,
		store:    store,
		interval: interval,
		batch:    batch,
	}
}

// Start chạy worker tới khi ctx bị hủy
func (w *AssetCleanupWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval": w.interval.String(),
		"batch":    w.batch,
	}).Info("🔄 [ASSET_CLEANUP] Starting Asset Cleanup Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("🔄 [ASSET_CLEANUP] Asset Cleanup Worker stopped")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// tick chạy một lượt, panic không làm dừng worker
func (w *AssetCleanupWorker) tick(ctx context.Context) {
	log := logger.GetAppLogger()
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(map[string]interface{}{
				"panic": r,
			}).Error("🔄 [ASSET_CLEANUP] Panic khi dọn asset, sẽ tiếp tục ở lần chạy tiếp theo")
		}
	}()

	deleted, retried, err := w.RunOnce(ctx)
	if err != nil {
		log.WithError(err).Error("🔄 [ASSET_CLEANUP] Failed to process cleanup queue")
		return
	}
	if deleted > 0 || retried > 0 {
		log.WithFields(map[string]interface{}{
			"deleted": deleted,
			"retried": retried,
		}).Info("🔄 [ASSET_CLEANUP] Processed cleanup queue")
	}
}

// RunOnce claim một batch và xóa từng asset. Trả về số asset đã xóa và số item phải thử lại.
func (w *AssetCleanupWorker) RunOnce(ctx context.Context) (deleted, retried int, err error) {
	items, err := w.queue.ClaimDue(ctx, w.batch)
	if err != nil {
		return 0, 0, fmt.Errorf("claim due items: %w", err)
	}

	for _, item := range items {
		if ctx.Err() != nil {
			return deleted, retried, ctx.Err()
		}

		delErr := w.store.Delete(ctx, item.PublicID, asset.Kind(item.Kind))
		if delErr == nil {
			if err := w.queue.MarkDone(ctx, item.ID); err != nil {
				return deleted, retried, fmt.Errorf("mark %s done: %w", item.ID.Hex(), err)
			}
			deleted++
			continue
		}

		logger.WithModule("cleanup").WithError(delErr).WithFields(map[string]interface{}{
			"public_id":   item.PublicID,
			"retry_count": item.RetryCount + 1,
		}).Warn("🔄 [ASSET_CLEANUP] Asset delete failed, scheduling retry")
		if err := w.queue.MarkRetry(ctx, item, delErr); err != nil {
			return deleted, retried, fmt.Errorf("mark %s retry: %w", item.ID.Hex(), err)
		}
		retried++
	}
	return deleted, retried, nil
}
