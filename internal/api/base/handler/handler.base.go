// Package basehdl chứa phần dùng chung cho các Fiber handler: parse/validate input,
// lấy user hiện tại và chuẩn hóa response.
package basehdl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"videotube/internal/common"
	"videotube/internal/global"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Locals keys do auth middleware gắn vào context
const (
	LocalUserID = "user_id"
	LocalUser   = "user"
)

// BaseHandler được embed vào các domain handler
type BaseHandler struct{}

// NewBaseHandler tạo mới một BaseHandler
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// FieldError mô tả một field không hợp lệ
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// ValidateInput validate struct bằng global.Validate, lỗi trả về kèm danh sách field sai
func (h *BaseHandler) ValidateInput(input interface{}) error {
	if global.Validate == nil {
		global.InitValidator()
	}
	err := global.Validate.Struct(input)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			details = append(details, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
		}
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, details)
	}
	return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, nil)
}

// ParseRequestBody parse JSON body (UseNumber) rồi validate
func (h *BaseHandler) ParseRequestBody(c fiber.Ctx, input interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat,
			fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON: %v", err),
			common.StatusBadRequest, nil)
	}
	return h.ValidateInput(input)
}

// CurrentUserID lấy user ID đã xác thực, nil nếu request ẩn danh
func (h *BaseHandler) CurrentUserID(c fiber.Ctx) *primitive.ObjectID {
	raw, ok := c.Locals(LocalUserID).(string)
	if !ok || raw == "" {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil
	}
	return &id
}

// RequireUserID như CurrentUserID nhưng trả lỗi 401 nếu chưa đăng nhập
func (h *BaseHandler) RequireUserID(c fiber.Ctx) (primitive.ObjectID, error) {
	id := h.CurrentUserID(c)
	if id == nil {
		return primitive.NilObjectID, common.ErrTokenMissing
	}
	return *id, nil
}
