package common

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP Status Code Constants
const (
	// Success Codes (2xx)
	StatusOK      = 200 // Thành công
	StatusCreated = 201 // Tạo mới thành công

	// Client Error Codes (4xx)
	StatusBadRequest      = 400 // Yêu cầu không hợp lệ
	StatusUnauthorized    = 401 // Chưa xác thực
	StatusForbidden       = 403 // Không có quyền truy cập
	StatusNotFound        = 404 // Không tìm thấy tài nguyên
	StatusConflict        = 409 // Xung đột dữ liệu
	StatusTooManyRequests = 429 // Quá nhiều yêu cầu

	// Server Error Codes (5xx)
	StatusInternalServerError = 500 // Lỗi server
	StatusBadGateway          = 502 // Dịch vụ bên ngoài lỗi (asset store)
	StatusServiceUnavailable  = 503 // Dịch vụ không khả dụng
)

// Response Messages
const (
	// Success Messages
	MsgSuccess = "Thao tác thành công"
	MsgCreated = "Tạo mới thành công"

	// Error Messages
	MsgBadRequest      = "Yêu cầu không hợp lệ"
	MsgUnauthorized    = "Vui lòng đăng nhập"
	MsgForbidden       = "Không có quyền truy cập"
	MsgNotFound        = "Không tìm thấy tài nguyên"
	MsgConflict        = "Xung đột dữ liệu"
	MsgTooManyRequests = "Quá nhiều yêu cầu, vui lòng thử lại sau"
	MsgInternalError   = "Lỗi hệ thống"
	MsgUpstreamFailure = "Lỗi dịch vụ lưu trữ media"

	// Validation Messages
	MsgValidationError = "Dữ liệu không hợp lệ"
	MsgInvalidID       = "ID không hợp lệ"
)

// ErrorCode định nghĩa mã lỗi chi tiết
type ErrorCode struct {
	Code        string // Mã lỗi (ví dụ: AUTH_001)
	Category    string // Phân loại lỗi (ví dụ: Authentication)
	Description string // Mô tả chi tiết
}

// Định nghĩa các mã lỗi theo hệ thống phân cấp
var (
	// System Errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{Code: "SYS_001", Category: "System", Description: "Lỗi hệ thống nội bộ"}

	// Authentication Errors (AUTH_xxx)
	ErrCodeAuthToken       = ErrorCode{Code: "AUTH_001", Category: "Authentication", Description: "Lỗi liên quan đến token"}
	ErrCodeAuthCredentials = ErrorCode{Code: "AUTH_002", Category: "Authentication", Description: "Lỗi thông tin đăng nhập"}
	ErrCodeAuthOwnership   = ErrorCode{Code: "AUTH_003", Category: "Authorization", Description: "Không phải chủ sở hữu tài nguyên"}

	// Validation Errors (VAL_xxx)
	ErrCodeValidationInput  = ErrorCode{Code: "VAL_001", Category: "Validation", Description: "Lỗi dữ liệu đầu vào"}
	ErrCodeValidationFormat = ErrorCode{Code: "VAL_002", Category: "Validation", Description: "Lỗi định dạng dữ liệu"}

	// Database Errors (DB_xxx)
	ErrCodeDatabaseConnection = ErrorCode{Code: "DB_001", Category: "Database", Description: "Lỗi kết nối cơ sở dữ liệu"}
	ErrCodeDatabaseQuery      = ErrorCode{Code: "DB_002", Category: "Database", Description: "Lỗi truy vấn dữ liệu"}
	ErrCodeDatabaseNotFound   = ErrorCode{Code: "DB_003", Category: "Database", Description: "Không tìm thấy dữ liệu"}
	ErrCodeDatabaseDuplicate  = ErrorCode{Code: "DB_004", Category: "Database", Description: "Dữ liệu đã tồn tại"}

	// External Errors (EXT_xxx)
	ErrCodeUpstream = ErrorCode{Code: "EXT_001", Category: "External", Description: "Lỗi từ asset store"}

	// Business Logic Errors (BIZ_xxx)
	ErrCodeBusinessOperation = ErrorCode{Code: "BIZ_002", Category: "Business", Description: "Lỗi thao tác nghiệp vụ"}
)

// Error định nghĩa cấu trúc lỗi chi tiết
type Error struct {
	Code       ErrorCode // Mã lỗi chi tiết
	Message    string    // Thông báo lỗi
	StatusCode int       // HTTP status code
	Details    any       // Thông tin chi tiết thêm về lỗi
}

// Error trả về message của lỗi
func (e *Error) Error() string {
	return e.Message
}

// Is so khớp theo mã lỗi, nên common.ErrNotFound khớp mọi lỗi "không tìm thấy"
// dù message khác nhau (hỗ trợ errors.Is)
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code.Code == t.Code.Code
}

// Unwrap trả về lỗi gốc nếu Details là error
func (e *Error) Unwrap() error {
	if inner, ok := e.Details.(error); ok {
		return inner
	}
	return nil
}

// NewError tạo một error mới với đầy đủ thông tin
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Các hàm tạo lỗi theo loại, dùng trong service layer

// InvalidArgument - 400
func InvalidArgument(format string, args ...any) error {
	return NewError(ErrCodeValidationInput, fmt.Sprintf(format, args...), StatusBadRequest, nil)
}

// Forbidden - 403
func Forbidden(format string, args ...any) error {
	return NewError(ErrCodeAuthOwnership, fmt.Sprintf(format, args...), StatusForbidden, nil)
}

// NotFound - 404
func NotFound(format string, args ...any) error {
	return NewError(ErrCodeDatabaseNotFound, fmt.Sprintf(format, args...), StatusNotFound, nil)
}

// Conflict - 409
func Conflict(format string, args ...any) error {
	return NewError(ErrCodeDatabaseDuplicate, fmt.Sprintf(format, args...), StatusConflict, nil)
}

// Upstream - 502, bọc lỗi từ asset store
func Upstream(cause error, format string, args ...any) error {
	return NewError(ErrCodeUpstream, fmt.Sprintf(format, args...), StatusBadGateway, cause)
}

// Internal - 500
func Internal(cause error, format string, args ...any) error {
	return NewError(ErrCodeInternalServer, fmt.Sprintf(format, args...), StatusInternalServerError, cause)
}

// Custom errors
var (
	// Authentication Errors
	ErrInvalidCredentials = NewError(ErrCodeAuthCredentials, "Thông tin đăng nhập không chính xác", StatusUnauthorized, nil)
	ErrTokenExpired       = NewError(ErrCodeAuthToken, "Phiên đăng nhập đã hết hạn", StatusUnauthorized, nil)
	ErrTokenInvalid       = NewError(ErrCodeAuthToken, "Token không hợp lệ", StatusUnauthorized, nil)
	ErrTokenMissing       = NewError(ErrCodeAuthToken, "Thiếu token xác thực", StatusUnauthorized, nil)
	ErrForbidden          = NewError(ErrCodeAuthOwnership, MsgForbidden, StatusForbidden, nil)

	// Validation Errors
	ErrInvalidInput  = NewError(ErrCodeValidationInput, "Dữ liệu đầu vào không hợp lệ", StatusBadRequest, nil)
	ErrInvalidFormat = NewError(ErrCodeValidationFormat, "Định dạng dữ liệu không hợp lệ", StatusBadRequest, nil)
	ErrRequiredField = NewError(ErrCodeValidationInput, "Thiếu thông tin bắt buộc", StatusBadRequest, nil)
	ErrInvalidID     = NewError(ErrCodeValidationFormat, MsgInvalidID, StatusBadRequest, nil)

	// Database Errors
	ErrNotFound   = NewError(ErrCodeDatabaseNotFound, "Không tìm thấy dữ liệu", StatusNotFound, nil)
	ErrDuplicate  = NewError(ErrCodeDatabaseDuplicate, "Dữ liệu đã tồn tại", StatusConflict, nil)
	ErrConnection = NewError(ErrCodeDatabaseConnection, "Lỗi kết nối cơ sở dữ liệu", StatusServiceUnavailable, nil)

	// External
	ErrUpstream = NewError(ErrCodeUpstream, MsgUpstreamFailure, StatusBadGateway, nil)

	// System
	ErrInternal = NewError(ErrCodeInternalServer, MsgInternalError, StatusInternalServerError, nil)
)

// MongoDB Error Messages
const (
	MsgMongoNetwork   = "Lỗi mạng khi kết nối MongoDB"
	MsgMongoTimeout   = "Kết nối MongoDB bị timeout"
	MsgMongoQuery     = "Lỗi truy vấn MongoDB"
	MsgMongoDuplicate = "Dữ liệu trùng lặp trong MongoDB"
)

// ConvertMongoError chuyển đổi lỗi MongoDB sang lỗi hệ thống
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	// Đã là lỗi hệ thống thì giữ nguyên
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}

	// Kiểm tra các lỗi MongoDB cụ thể
	if mongo.IsDuplicateKeyError(err) {
		return NewError(ErrCodeDatabaseDuplicate, MsgMongoDuplicate, StatusConflict, err)
	}
	if mongo.IsTimeout(err) {
		return NewError(ErrCodeDatabaseConnection, MsgMongoTimeout, StatusServiceUnavailable, err)
	}
	if mongo.IsNetworkError(err) {
		return NewError(ErrCodeDatabaseConnection, MsgMongoNetwork, StatusServiceUnavailable, err)
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return NewError(ErrCodeDatabaseQuery, MsgMongoQuery, StatusInternalServerError, err)
	}

	// Nếu không tìm thấy lỗi cụ thể, trả về lỗi hệ thống chung
	return NewError(ErrCodeDatabaseQuery, "Lỗi tương tác với cơ sở dữ liệu", StatusInternalServerError, err)
}

// StatusOf trả về HTTP status và mã lỗi tương ứng với err
func StatusOf(err error) (int, ErrorCode) {
	var appErr *Error
	if errors.As(err, &appErr) {
		status := appErr.StatusCode
		if status == 0 {
			status = StatusInternalServerError
		}
		return status, appErr.Code
	}
	return StatusInternalServerError, ErrCodeInternalServer
}
