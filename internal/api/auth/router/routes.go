// Package router đăng ký các route thuộc domain auth: /users.
package router

import (
	authhdl "videotube/internal/api/auth/handler"
	apirouter "videotube/internal/api/router"

	"github.com/gofiber/fiber/v3"
)

// Register trả về hàm đăng ký route /users
func Register(h *authhdl.UserHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		auth := []fiber.Handler{r.Auth.AuthMiddleware()}

		// Public
		apirouter.RegisterRouteWithMiddleware(v1, "/users", "POST", "/register", nil, h.HandleRegister)
		apirouter.RegisterRouteWithMiddleware(v1, "/users", "POST", "/login", nil, h.HandleLogin)
		apirouter.RegisterRouteWithMiddleware(v1, "/users", "POST", "/refresh-token", nil, h.HandleRefreshToken)

		// Cần đăng nhập
		apirouter.RegisterRouteWithMiddleware(v1, "/users", "POST", "/logout", auth, h.HandleLogout)
		apirouter.RegisterRouteWithMiddleware(v1, "/users", "GET", "/current-user", auth, h.HandleCurrentUser)
		apirouter.RegisterRouteWithMiddleware(v1, "/users", "GET", "/history", auth, h.HandleWatchHistory)
		return nil
	}
}
