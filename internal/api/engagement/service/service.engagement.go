// Package engagementsvc - toggle like video, toggle đăng ký kênh, đếm subscriber.
package engagementsvc

import (
	"context"
	"errors"

	engagementdto "videotube/internal/api/engagement/dto"
	videomodels "videotube/internal/api/video/models"
	"videotube/internal/common"
	"videotube/internal/logger"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EngagementService xử lý like và subscription
type EngagementService struct {
	likes         EdgeRepository
	subscriptions EdgeRepository
	videos        DocumentCounter
	users         DocumentCounter
}

// NewEngagementService tạo EngagementService
func NewEngagementService(likes, subscriptions EdgeRepository, videos, users DocumentCounter) *EngagementService {
	return &EngagementService{
		likes:         likes,
		subscriptions: subscriptions,
		videos:        videos,
		users:         users,
	}
}

// ToggleVideoLike like nếu caller chưa like video, ngược lại bỏ like
func (s *EngagementService) ToggleVideoLike(ctx context.Context, caller, videoID primitive.ObjectID) (*engagementdto.ToggleLikeResult, error) {
	// Video chưa publish của người khác coi như không tồn tại
	n, err := s.videos.CountDocuments(ctx, videomodels.VisibleTo(videoID, &caller))
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, common.NotFound("Không tìm thấy video")
	}

	liked, err := toggle(ctx, s.likes, caller, videoID)
	if err != nil {
		return nil, err
	}
	logger.WithModule("engagement").WithFields(logrus.Fields{
		"video_id": videoID.Hex(),
		"user_id":  caller.Hex(),
		"liked":    liked,
	}).Debug("Video like toggled")
	return &engagementdto.ToggleLikeResult{IsLiked: liked}, nil
}

// ToggleSubscription đăng ký / hủy đăng ký channel
func (s *EngagementService) ToggleSubscription(ctx context.Context, caller, channelID primitive.ObjectID) (*engagementdto.ToggleSubscriptionResult, error) {
	if caller == channelID {
		return nil, common.InvalidArgument("Không thể tự đăng ký kênh của mình")
	}
	ok, err := exists(ctx, s.users, channelID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.NotFound("Không tìm thấy kênh")
	}

	subscribed, err := toggle(ctx, s.subscriptions, caller, channelID)
	if err != nil {
		return nil, err
	}
	return &engagementdto.ToggleSubscriptionResult{IsSubscribed: subscribed}, nil
}

// GetSubscriberCount đếm số người đăng ký channel
func (s *EngagementService) GetSubscriberCount(ctx context.Context, channelID primitive.ObjectID) (*engagementdto.SubscriberCountResult, error) {
	ok, err := exists(ctx, s.users, channelID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.NotFound("Không tìm thấy kênh")
	}
	count, err := s.subscriptions.CountTo(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return &engagementdto.SubscriberCountResult{SubscribersCount: count}, nil
}

// toggle: có edge thì xóa (trả false), chưa có thì tạo (trả true).
// Hai request song song cùng tạo: request thua nhận duplicate key và coi như đã tạo.
func toggle(ctx context.Context, edges EdgeRepository, from, to primitive.ObjectID) (bool, error) {
	id, err := edges.Find(ctx, from, to)
	switch {
	case err == nil:
		if err := edges.Delete(ctx, id); err != nil && !errors.Is(err, common.ErrNotFound) {
			return false, err
		}
		return false, nil
	case errors.Is(err, common.ErrNotFound):
		if err := edges.Insert(ctx, from, to); err != nil && !errors.Is(err, common.ErrDuplicate) {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}
