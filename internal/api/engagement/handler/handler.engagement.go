// Package engagementhdl - Handler like video và đăng ký kênh.
package engagementhdl

import (
	basehdl "videotube/internal/api/base/handler"
	engagementsvc "videotube/internal/api/engagement/service"
	"videotube/internal/common"
	"videotube/internal/utility"

	"github.com/gofiber/fiber/v3"
)

// EngagementHandler xử lý /likes và /subscriptions
type EngagementHandler struct {
	*basehdl.BaseHandler
	EngagementService *engagementsvc.EngagementService
}

// NewEngagementHandler tạo EngagementHandler
func NewEngagementHandler(svc *engagementsvc.EngagementService) *EngagementHandler {
	return &EngagementHandler{
		BaseHandler:       basehdl.NewBaseHandler(),
		EngagementService: svc,
	}
}

// HandleToggleVideoLike xử lý POST /likes/toggle/v/:videoId
func (h *EngagementHandler) HandleToggleVideoLike(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.RequireUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		videoID, err := utility.ParseObjectID("videoId", c.Params("videoId"))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		result, err := h.EngagementService.ToggleVideoLike(c.Context(), caller, videoID)
		h.HandleResponseStatus(c, common.StatusOK, "Cập nhật like thành công", result, err)
		return nil
	})
}

// HandleToggleSubscription xử lý POST /subscriptions/c/:channelId
func (h *EngagementHandler) HandleToggleSubscription(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.RequireUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		channelID, err := utility.ParseObjectID("channelId", c.Params("channelId"))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		result, err := h.EngagementService.ToggleSubscription(c.Context(), caller, channelID)
		h.HandleResponseStatus(c, common.StatusOK, "Cập nhật đăng ký thành công", result, err)
		return nil
	})
}

// HandleSubscriberCount xử lý GET /subscriptions/c/:channelId/count
func (h *EngagementHandler) HandleSubscriberCount(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		channelID, err := utility.ParseObjectID("channelId", c.Params("channelId"))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		result, err := h.EngagementService.GetSubscriberCount(c.Context(), channelID)
		h.HandleResponse(c, result, err)
		return nil
	})
}
