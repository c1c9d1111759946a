package authdto

import (
	"videotube/internal/api/auth/models"
	"videotube/internal/utility"
)

// RegisterInput đầu vào đăng ký (multipart form, file avatar/coverImage xử lý riêng)
type RegisterInput struct {
	Username string `json:"username" form:"username" validate:"required,username"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	FullName string `json:"fullName" form:"fullName" validate:"required,notblank,max=100,no_xss"`
	Password string `json:"password" form:"password" validate:"required,strong_password"`
}

// LoginInput đăng nhập bằng username hoặc email
type LoginInput struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email" validate:"required_without=Username,omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenInput đầu vào làm mới token. Có thể gửi qua body hoặc cookie refreshToken
type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken"`
}

// LoginResult kết quả đăng nhập / refresh
type LoginResult struct {
	User *models.User `json:"user"`
	utility.TokenPair
}
