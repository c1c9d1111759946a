package basehdl

import (
	"context"
	"time"

	"videotube/internal/common"
	"videotube/internal/global"

	"github.com/gofiber/fiber/v3"
)

// SystemHandler xử lý các route liên quan đến system operations
type SystemHandler struct {
	*BaseHandler
}

// NewSystemHandler tạo một instance mới của SystemHandler
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{BaseHandler: NewBaseHandler()}
}

// HandleHealth kiểm tra tình trạng API và kết nối MongoDB
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	services := fiber.Map{"api": "ok"}
	healthData := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"services":  services,
	}

	switch {
	case global.MongoDB_Session == nil:
		healthData["status"] = "degraded"
		services["database"] = "not_initialized"
	default:
		if err := global.MongoDB_Session.Ping(ctx, nil); err != nil {
			healthData["status"] = "degraded"
			services["database"] = "error"
			healthData["database_error"] = err.Error()
			return JSONResponse(c, common.StatusServiceUnavailable, fiber.Map{
				"statusCode": common.StatusServiceUnavailable,
				"message":    "Hệ thống đang gặp sự cố",
				"data":       healthData,
				"success":    false,
			})
		}
		services["database"] = "ok"
	}

	return JSONResponse(c, common.StatusOK, SuccessBody(common.StatusOK, healthData, common.MsgSuccess))
}
