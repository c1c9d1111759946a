// Package videosvc - feed, publish, xem chi tiết (đếm view + lịch sử xem), cập nhật, xóa
// và bật/tắt publish video.
package videosvc

import (
	"context"
	"errors"

	basemodels "videotube/internal/api/base/models"
	basesvc "videotube/internal/api/base/service"
	videodto "videotube/internal/api/video/dto"
	"videotube/internal/api/video/models"
	"videotube/internal/asset"
	"videotube/internal/common"
	"videotube/internal/logger"
	"videotube/internal/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// OrphanQueue nhận các asset không xóa được để worker xóa lại sau
type OrphanQueue interface {
	Enqueue(ctx context.Context, publicID string, kind asset.Kind, reason string) error
}

// PublishInput dữ liệu publish: title/description + đường dẫn file tạm đã lưu
type PublishInput struct {
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
}

// UpdateInput dữ liệu update; chuỗi rỗng (sau trim) coi như không gửi
type UpdateInput struct {
	Title         string
	Description   string
	ThumbnailPath string
}

// VideoService là service nghiệp vụ video
type VideoService struct {
	videos  VideoRepository
	history WatchHistoryRepository
	assets  asset.Store
	orphans OrphanQueue
}

// NewVideoService tạo mới VideoService
func NewVideoService(videos VideoRepository, history WatchHistoryRepository, assets asset.Store, orphans OrphanQueue) *VideoService {
	return &VideoService{
		videos:  videos,
		history: history,
		assets:  assets,
		orphans: orphans,
	}
}

func (s *VideoService) log() *logrus.Entry {
	return logger.WithModule("video")
}

// ListVideos trả về feed video đã publish, có search / lọc owner / sort / phân trang. Không có side effect.
func (s *VideoService) ListVideos(ctx context.Context, q videodto.ListVideosQuery) (*basemodels.PaginateResult[models.VideoFeedItem], error) {
	filter, page, limit, err := ParseFeedQuery(q)
	if err != nil {
		return nil, err
	}
	return s.videos.FindFeed(ctx, filter, page, limit)
}

// PublishVideo upload video + thumbnail rồi tạo record của caller.
// Bước sau lỗi thì các asset đã upload được xóa (hoặc đưa vào hàng đợi nếu xóa lỗi).
func (s *VideoService) PublishVideo(ctx context.Context, caller primitive.ObjectID, in PublishInput) (*models.Video, error) {
	title := utility.NormalizeText(in.Title)
	description := utility.NormalizeText(in.Description)
	if title == "" || description == "" {
		return nil, common.InvalidArgument("Title và description là bắt buộc")
	}
	if in.VideoPath == "" {
		return nil, common.InvalidArgument("Thiếu file video")
	}
	if in.ThumbnailPath == "" {
		return nil, common.InvalidArgument("Thiếu thumbnail")
	}

	videoFile, err := s.assets.Upload(ctx, in.VideoPath, asset.KindVideo)
	if err != nil {
		return nil, common.Upstream(err, "Upload video thất bại")
	}

	thumbnail, err := s.assets.Upload(ctx, in.ThumbnailPath, asset.KindImage)
	if err != nil {
		s.discard(ctx, "publish: thumbnail upload failed", asset.KindVideo, videoFile.Ref())
		return nil, common.Upstream(err, "Upload thumbnail thất bại")
	}

	created, err := s.videos.InsertOne(ctx, models.Video{
		Title:       title,
		Description: description,
		Duration:    videoFile.Duration,
		VideoFile:   videoFile.Ref(),
		Thumbnail:   thumbnail.Ref(),
		Owner:       caller,
		Views:       0,
		IsPublished: true,
	})
	if err != nil {
		s.discard(ctx, "publish: insert failed", asset.KindVideo, videoFile.Ref())
		s.discard(ctx, "publish: insert failed", asset.KindImage, thumbnail.Ref())
		return nil, err
	}

	s.log().WithFields(logrus.Fields{
		"video_id": created.ID.Hex(),
		"owner":    caller.Hex(),
		"duration": created.Duration,
	}).Info("Video published")
	return &created, nil
}

// GetVideoByID trả về chi tiết video, +1 view và thêm vào lịch sử xem của caller (nếu có).
// Aggregate chi tiết chạy trước: lỗi bất kỳ (NotFound, driver) thì không tăng view, không ghi history.
func (s *VideoService) GetVideoByID(ctx context.Context, id primitive.ObjectID, caller *primitive.ObjectID) (*videodto.GetVideoResult, error) {
	detail, err := s.videos.FindDetail(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	// Video có thể vừa bị xóa / ẩn giữa hai lệnh: IncrementViews trả NotFound
	if err := s.videos.IncrementViews(ctx, id, caller); err != nil {
		return nil, err
	}
	detail.Views++

	history := []primitive.ObjectID{}
	if caller != nil {
		history, err = s.history.AppendWatchHistory(ctx, *caller, id)
		if err != nil {
			return nil, err
		}
	}

	return &videodto.GetVideoResult{Video: detail, WatchHistory: history}, nil
}

// UpdateVideo cập nhật title / description / thumbnail.
// Thứ tự: upload thumbnail mới → ghi record → ghi thành công thì xóa thumbnail cũ, ghi lỗi thì xóa thumbnail mới.
func (s *VideoService) UpdateVideo(ctx context.Context, caller, id primitive.ObjectID, in UpdateInput) (*models.Video, error) {
	title := utility.NormalizeText(in.Title)
	description := utility.NormalizeText(in.Description)
	if title == "" && description == "" && in.ThumbnailPath == "" {
		return nil, common.InvalidArgument("Cần ít nhất một trong title, description, thumbnail")
	}

	video, err := s.ownedVideo(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	set := map[string]interface{}{}
	if title != "" {
		set["title"] = title
	}
	if description != "" {
		set["description"] = description
	}

	var newThumb *asset.UploadResult
	if in.ThumbnailPath != "" {
		newThumb, err = s.assets.Upload(ctx, in.ThumbnailPath, asset.KindImage)
		if err != nil {
			return nil, common.Upstream(err, "Upload thumbnail thất bại")
		}
		set["thumbnail"] = newThumb.Ref()
	}

	updated, err := s.videos.UpdateById(ctx, id, &basesvc.UpdateData{Set: set})
	if err != nil {
		if newThumb != nil {
			s.discard(ctx, "update: write failed", asset.KindImage, newThumb.Ref())
		}
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Internal(err, "Cập nhật video thất bại")
		}
		return nil, err
	}

	if newThumb != nil {
		s.discard(ctx, "update: thumbnail replaced", asset.KindImage, video.Thumbnail)
	}
	return &updated, nil
}

// DeleteVideo xóa video: gỡ khỏi mọi watchHistory → xóa record → xóa likes → xóa 2 asset song song.
// Sau khi record đã xóa, lỗi ở các bước sau chỉ được log / đưa vào hàng đợi, request vẫn thành công.
func (s *VideoService) DeleteVideo(ctx context.Context, caller, id primitive.ObjectID) error {
	video, err := s.ownedVideo(ctx, caller, id)
	if err != nil {
		return err
	}

	pulled, err := s.history.PullFromAllWatchHistories(ctx, id)
	if err != nil {
		return err
	}

	if err := s.videos.DeleteById(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NotFound("Không tìm thấy video")
		}
		return err
	}

	log := s.log().WithField("video_id", id.Hex())
	likes, err := s.videos.DeleteLikes(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to delete likes of deleted video")
	}

	var g errgroup.Group
	for _, item := range []struct {
		kind asset.Kind
		ref  asset.Ref
	}{
		{asset.KindVideo, video.VideoFile},
		{asset.KindImage, video.Thumbnail},
	} {
		item := item
		g.Go(func() error {
			return s.discard(ctx, "delete: video removed", item.kind, item.ref)
		})
	}
	if err := g.Wait(); err != nil {
		log.WithError(err).Warn("Some assets of deleted video were queued for cleanup")
	}

	log.WithFields(logrus.Fields{
		"histories_pruned": pulled,
		"likes_deleted":    likes,
	}).Info("Video deleted")
	return nil
}

// TogglePublishStatus lật trạng thái publish, trả về giá trị mới
func (s *VideoService) TogglePublishStatus(ctx context.Context, caller, id primitive.ObjectID) (*videodto.TogglePublishResult, error) {
	if _, err := s.ownedVideo(ctx, caller, id); err != nil {
		return nil, err
	}
	published, err := s.videos.TogglePublished(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound("Không tìm thấy video")
		}
		return nil, err
	}
	return &videodto.TogglePublishResult{IsPublished: published}, nil
}

// ownedVideo tải video và kiểm tra caller là owner
func (s *VideoService) ownedVideo(ctx context.Context, caller, id primitive.ObjectID) (*models.Video, error) {
	video, err := s.videos.FindOneById(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound("Không tìm thấy video")
		}
		return nil, err
	}
	if video.Owner.Hex() != caller.Hex() {
		return nil, common.Forbidden("Bạn không phải chủ sở hữu video này")
	}
	return &video, nil
}

// discard xóa asset; lỗi thì đưa vào hàng đợi cleanup. Trả về lỗi xóa gốc (nếu có) để caller log.
func (s *VideoService) discard(ctx context.Context, reason string, kind asset.Kind, ref asset.Ref) error {
	if ref.PublicID == "" {
		return nil
	}
	// Asset phải được dọn kể cả khi client đã hủy request
	ctx = context.WithoutCancel(ctx)

	err := s.assets.Delete(ctx, ref.PublicID, kind)
	if err == nil {
		return nil
	}

	log := s.log().WithError(err).WithFields(logrus.Fields{
		"public_id": ref.PublicID,
		"reason":    reason,
	})
	if s.orphans == nil {
		log.Error("Failed to delete asset")
		return err
	}
	if qErr := s.orphans.Enqueue(ctx, ref.PublicID, kind, reason); qErr != nil {
		log.WithField("queue_error", qErr.Error()).Error("Failed to delete or queue asset")
		return err
	}
	log.Warn("Asset delete failed, queued for retry")
	return err
}
