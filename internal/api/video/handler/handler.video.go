// Package videohdl - Handler feed, publish, xem, sửa, xóa và bật/tắt publish video.
package videohdl

import (
	basehdl "videotube/internal/api/base/handler"
	videodto "videotube/internal/api/video/dto"
	videosvc "videotube/internal/api/video/service"
	"videotube/internal/common"
	"videotube/internal/logger"
	"videotube/internal/utility"

	"github.com/gofiber/fiber/v3"
)

// Tên field multipart
const (
	FormVideoFile = "videoFile"
	FormThumbnail = "thumbnail"
)

// VideoHandler xử lý các route /videos
type VideoHandler struct {
	*basehdl.BaseHandler
	VideoService *videosvc.VideoService
	uploadTmpDir string
}

// NewVideoHandler tạo VideoHandler. uploadTmpDir là nơi lưu file multipart trước khi đẩy lên asset store.
func NewVideoHandler(svc *videosvc.VideoService, uploadTmpDir string) *VideoHandler {
	return &VideoHandler{
		BaseHandler:  basehdl.NewBaseHandler(),
		VideoService: svc,
		uploadTmpDir: uploadTmpDir,
	}
}

// HandleListVideos xử lý GET /videos
func (h *VideoHandler) HandleListVideos(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var query videodto.ListVideosQuery
		if err := c.Bind().Query(&query); err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat,
				"Query không hợp lệ: page/limit phải là số nguyên", common.StatusBadRequest, nil))
			return nil
		}
		if err := h.ValidateInput(&query); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		result, err := h.VideoService.ListVideos(c.Context(), query)
		h.HandleResponseStatus(c, common.StatusOK, "Lấy danh sách video thành công", result, err)
		return nil
	})
}

// HandlePublishVideo xử lý POST /videos (multipart: title, description, videoFile, thumbnail)
func (h *VideoHandler) HandlePublishVideo(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.RequireUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		input := videodto.PublishVideoInput{
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		videoFile, err := h.SaveFormFile(c, FormVideoFile, h.uploadTmpDir)
		defer basehdl.RemoveTempFiles(videoFile)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		thumbnail, err := h.SaveFormFile(c, FormThumbnail, h.uploadTmpDir)
		defer basehdl.RemoveTempFiles(thumbnail)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		in := videosvc.PublishInput{Title: input.Title, Description: input.Description}
		if videoFile != nil {
			in.VideoPath = videoFile.Path
		}
		if thumbnail != nil {
			in.ThumbnailPath = thumbnail.Path
		}

		video, err := h.VideoService.PublishVideo(c.Context(), caller, in)
		if err == nil {
			logger.LogAction("publish", "video", video.ID.Hex(), c, nil)
		}
		h.HandleResponseStatus(c, common.StatusOK, "Đăng video thành công", video, err)
		return nil
	})
}

// HandleGetVideoByID xử lý GET /videos/:videoId (đăng nhập là tùy chọn)
func (h *VideoHandler) HandleGetVideoByID(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := utility.ParseObjectID("videoId", c.Params("videoId"))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		result, err := h.VideoService.GetVideoByID(c.Context(), id, h.CurrentUserID(c))
		h.HandleResponseStatus(c, common.StatusOK, "Lấy video thành công", result, err)
		return nil
	})
}

// HandleUpdateVideo xử lý PATCH /videos/:videoId (multipart: title?, description?, thumbnail?)
func (h *VideoHandler) HandleUpdateVideo(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.RequireUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		id, err := utility.ParseObjectID("videoId", c.Params("videoId"))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		input := videodto.UpdateVideoInput{
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		thumbnail, err := h.SaveFormFile(c, FormThumbnail, h.uploadTmpDir)
		defer basehdl.RemoveTempFiles(thumbnail)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		in := videosvc.UpdateInput{Title: input.Title, Description: input.Description}
		if thumbnail != nil {
			in.ThumbnailPath = thumbnail.Path
		}

		video, err := h.VideoService.UpdateVideo(c.Context(), caller, id, in)
		h.HandleResponseStatus(c, common.StatusOK, "Cập nhật video thành công", video, err)
		return nil
	})
}

// HandleDeleteVideo xử lý DELETE /videos/:videoId
func (h *VideoHandler) HandleDeleteVideo(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.RequireUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		id, err := utility.ParseObjectID("videoId", c.Params("videoId"))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err = h.VideoService.DeleteVideo(c.Context(), caller, id)
		if err == nil {
			logger.LogAction("delete", "video", id.Hex(), c, nil)
		}
		h.HandleResponseStatus(c, common.StatusOK, "Xóa video thành công", fiber.Map{}, err)
		return nil
	})
}

// HandleTogglePublish xử lý PATCH /videos/toggle/publish/:videoId
func (h *VideoHandler) HandleTogglePublish(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		caller, err := h.RequireUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		id, err := utility.ParseObjectID("videoId", c.Params("videoId"))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		result, err := h.VideoService.TogglePublishStatus(c.Context(), caller, id)
		h.HandleResponseStatus(c, common.StatusOK, "Cập nhật trạng thái publish thành công", result, err)
		return nil
	})
}
