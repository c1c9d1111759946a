// Package router đăng ký các route thuộc domain engagement: /likes, /subscriptions.
package router

import (
	engagementhdl "videotube/internal/api/engagement/handler"
	apirouter "videotube/internal/api/router"

	"github.com/gofiber/fiber/v3"
)

// Register trả về hàm đăng ký route like / subscription
func Register(h *engagementhdl.EngagementHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		auth := []fiber.Handler{r.Auth.AuthMiddleware()}

		apirouter.RegisterRouteWithMiddleware(v1, "/likes", "POST", "/toggle/v/:videoId", auth, h.HandleToggleVideoLike)

		apirouter.RegisterRouteWithMiddleware(v1, "/subscriptions", "POST", "/c/:channelId", auth, h.HandleToggleSubscription)
		apirouter.RegisterRouteWithMiddleware(v1, "/subscriptions", "GET", "/c/:channelId/count", nil, h.HandleSubscriberCount)
		return nil
	}
}
