package basehdl

import (
	"errors"
	"fmt"
	"runtime/debug"

	"videotube/internal/common"
	"videotube/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// JSONResponse trả về JSON response với Content-Type: application/json; charset=utf-8
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// ErrorBody dựng body lỗi thống nhất {statusCode, message, code, success:false}
func ErrorBody(err error) (int, fiber.Map) {
	var customErr *common.Error
	if errors.As(err, &customErr) {
		status := customErr.StatusCode
		if status == 0 {
			status = common.StatusInternalServerError
		}
		body := fiber.Map{
			"statusCode": status,
			"message":    customErr.Message,
			"code":       customErr.Code.Code,
			"success":    false,
		}
		// Details là error gốc (driver, asset store) thì không lộ ra client
		if customErr.Details != nil {
			if _, isErr := customErr.Details.(error); !isErr {
				body["details"] = customErr.Details
			}
		}
		return status, body
	}

	return common.StatusInternalServerError, fiber.Map{
		"statusCode": common.StatusInternalServerError,
		"message":    common.MsgInternalError,
		"code":       common.ErrCodeInternalServer.Code,
		"success":    false,
	}
}

// SuccessBody dựng body thành công {statusCode, data, message, success:true}
func SuccessBody(status int, data interface{}, message string) fiber.Map {
	return fiber.Map{
		"statusCode": status,
		"data":       data,
		"message":    message,
		"success":    true,
	}
}

// SafeHandler bọc handler với recover để server luôn trả response cho client, kể cả khi panic.
func (h *BaseHandler) SafeHandler(c fiber.Ctx, handler func() error) error {
	defer func() {
		if r := recover(); r != nil {
			logger.WithRequest(c).WithFields(map[string]interface{}{
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("Handler panic recovered")

			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeInternalServer,
				fmt.Sprintf("Lỗi hệ thống không mong muốn: %v", r),
				common.StatusInternalServerError,
				nil,
			))
		}
	}()
	return handler()
}

// HandleResponse chuẩn hóa response trả về cho client (200 khi thành công).
func (h *BaseHandler) HandleResponse(c fiber.Ctx, data interface{}, err error) {
	h.HandleResponseStatus(c, common.StatusOK, common.MsgSuccess, data, err)
}

// HandleResponseStatus như HandleResponse nhưng cho phép chọn status/message khi thành công.
// Lỗi 5xx được ghi vào error logger kèm lỗi gốc.
func (h *BaseHandler) HandleResponseStatus(c fiber.Ctx, status int, message string, data interface{}, err error) {
	if err != nil {
		code, body := ErrorBody(err)
		entry := logger.WithRequest(c).WithError(err).WithField("status", code)
		if code >= common.StatusInternalServerError {
			if cause := errors.Unwrap(err); cause != nil {
				entry = entry.WithField("cause", cause.Error())
			}
			entry.Error("Request failed")
		} else {
			entry.Debug("Request rejected")
		}
		_ = JSONResponse(c, code, body)
		return
	}

	_ = JSONResponse(c, status, SuccessBody(status, data, message))
}
