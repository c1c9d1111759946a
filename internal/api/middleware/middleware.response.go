package middleware

import (
	basehdl "videotube/internal/api/base/handler"

	"github.com/gofiber/fiber/v3"
)

// HandleErrorResponse trả lỗi cho client theo envelope chung.
// Tách riêng để middleware không phụ thuộc vào domain handler.
func HandleErrorResponse(c fiber.Ctx, err error) error {
	status, body := basehdl.ErrorBody(err)
	return basehdl.JSONResponse(c, status, body)
}
