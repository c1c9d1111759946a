package router

import (
	"fmt"

	basehdl "videotube/internal/api/base/handler"
	"videotube/internal/api/middleware"
	"videotube/internal/utility"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/static"
)

// ============================================================================
// ĐĂNG KÝ ROUTE CÓ MIDDLEWARE
// ============================================================================
//
// Không dùng group.Use(mw) cho middleware riêng của một route: Use khớp theo prefix
// và mọi method, nên GET /videos (public) sẽ bị dính auth của POST /videos.
//
// Luôn đăng ký qua RegisterRouteWithMiddleware, middleware chạy trước handler
// và chỉ áp dụng cho đúng method + path đó.
//
// ============================================================================

// RoutePrefix chứa các prefix cơ bản cho API
type RoutePrefix struct {
	Base string // Prefix cơ bản (/api)
	V1   string // Prefix cho API version 1 (/api/v1)
}

// NewRoutePrefix tạo mới một instance của RoutePrefix với các giá trị mặc định
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

// Router quản lý việc định tuyến cho API
type Router struct {
	app  *fiber.App
	Auth *middleware.AuthManager // Dùng chung cho các domain router
}

// NewRouter tạo mới một instance của Router
func NewRouter(app *fiber.App, auth *middleware.AuthManager) *Router {
	return &Router{
		app:  app,
		Auth: auth,
	}
}

// RegisterFunc là hàm đăng ký route của một domain (auth, video, engagement...)
type RegisterFunc func(v1 fiber.Router, r *Router) error

var allowedMethods = []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete}

// RegisterRouteWithMiddleware đăng ký route với chuỗi middleware chạy trước handler.
//
// Ví dụ sử dụng:
//
//	RegisterRouteWithMiddleware(v1, "/videos", "POST", "", []fiber.Handler{r.Auth.AuthMiddleware()}, h.HandlePublish)
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	chain := make([]any, 0, len(middlewares)+1)
	for _, mw := range middlewares {
		chain = append(chain, mw)
	}
	chain = append(chain, handler)

	full := prefix + path
	if full == "" {
		full = "/"
	}

	if !utility.Contains(allowedMethods, method) {
		panic(fmt.Sprintf("router: unsupported method %q for %s", method, full))
	}
	router.Add([]string{method}, full, chain[0], chain[1:]...)
}

// SetupRoutes thiết lập tất cả các routes cho ứng dụng.
// mediaDir khác rỗng thì phục vụ asset local ở /media.
func SetupRoutes(app *fiber.App, auth *middleware.AuthManager, mediaDir string, domains ...RegisterFunc) error {
	prefix := NewRoutePrefix()
	r := NewRouter(app, auth)

	systemHandler := basehdl.NewSystemHandler()
	app.Get("/health", systemHandler.HandleHealth)

	if mediaDir != "" {
		app.Get("/media*", static.New(mediaDir))
	}

	v1 := app.Group(prefix.V1)
	v1.Get("/health", systemHandler.HandleHealth)

	for _, register := range domains {
		if err := register(v1, r); err != nil {
			return fmt.Errorf("failed to register routes: %w", err)
		}
	}
	return nil
}
