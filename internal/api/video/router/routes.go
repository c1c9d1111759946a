// Package router đăng ký các route thuộc domain video.
package router

import (
	videohdl "videotube/internal/api/video/handler"
	apirouter "videotube/internal/api/router"

	"github.com/gofiber/fiber/v3"
)

// Register trả về hàm đăng ký route /videos với handler đã được khởi tạo
func Register(h *videohdl.VideoHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		auth := []fiber.Handler{r.Auth.AuthMiddleware()}
		optional := []fiber.Handler{r.Auth.OptionalAuth()}

		// GET /videos: feed public. Query: page, limit, query, sortBy, sortType, userId
		apirouter.RegisterRouteWithMiddleware(v1, "/videos", "GET", "", nil, h.HandleListVideos)
		// POST /videos: publish (multipart)
		apirouter.RegisterRouteWithMiddleware(v1, "/videos", "POST", "", auth, h.HandlePublishVideo)

		// PATCH /videos/toggle/publish/:videoId: đăng ký trước /:videoId
		apirouter.RegisterRouteWithMiddleware(v1, "/videos", "PATCH", "/toggle/publish/:videoId", auth, h.HandleTogglePublish)

		apirouter.RegisterRouteWithMiddleware(v1, "/videos", "GET", "/:videoId", optional, h.HandleGetVideoByID)
		apirouter.RegisterRouteWithMiddleware(v1, "/videos", "PATCH", "/:videoId", auth, h.HandleUpdateVideo)
		apirouter.RegisterRouteWithMiddleware(v1, "/videos", "DELETE", "/:videoId", auth, h.HandleDeleteVideo)
		return nil
	}
}
