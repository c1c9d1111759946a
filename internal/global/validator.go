package global

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9_.]{3,30}$`)

// InitValidator khởi tạo và đăng ký các custom validator
func InitValidator() {
	Validate = NewValidator()
}

// NewValidator tạo validator với đầy đủ custom rules (dùng riêng trong test)
func NewValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("no_xss", validateNoXSS)
	_ = v.RegisterValidation("strong_password", validateStrongPassword)
	_ = v.RegisterValidation("username", validateUsername)
	_ = v.RegisterValidation("objectid", validateObjectID)
	_ = v.RegisterValidation("notblank", validateNotBlank)
	return v
}

// validateNoXSS kiểm tra XSS
func validateNoXSS(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())
	dangerousPatterns := []string{
		"<script",
		"javascript:",
		"onerror=",
		"onload=",
		"onclick=",
		"document.cookie",
		"<iframe",
		"<object",
		"<embed",
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return false
		}
	}
	return true
}

// validateStrongPassword: tối thiểu 8 ký tự, có chữ và số
func validateStrongPassword(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if len(value) < 8 {
		return false
	}

	var hasLetter, hasNumber bool
	for _, char := range value {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}
	return hasLetter && hasNumber
}

// validateUsername: chữ thường, số, "_" và ".", dài 3-30
func validateUsername(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

// validateObjectID: chuỗi hex ObjectID hợp lệ (chuỗi rỗng để omitempty xử lý)
func validateObjectID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return primitive.IsValidObjectID(value)
}

// validateNotBlank: không rỗng sau khi trim
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
