package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	models "videotube/internal/api/auth/models"
	authsvc "videotube/internal/api/auth/service"
	basehdl "videotube/internal/api/base/handler"
	"videotube/internal/common"
	"videotube/internal/logger"
	"videotube/internal/utility"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Locals do AuthMiddleware gắn thêm (ngoài user_id / user)
const (
	LocalTokenID     = "token_jti"
	LocalTokenExpiry = "token_exp"
)

// AccessTokenCookie tên cookie chứa access token (client web)
const AccessTokenCookie = "accessToken"

// UserLoader tải user theo ID
type UserLoader interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

// AuthManager xác thực access token và nạp user hiện tại
type AuthManager struct {
	users        UserLoader
	denylist     authsvc.TokenDenylist
	accessSecret string
}

// NewAuthManager tạo AuthManager
func NewAuthManager(users UserLoader, denylist authsvc.TokenDenylist, accessSecret string) *AuthManager {
	return &AuthManager{
		users:        users,
		denylist:     denylist,
		accessSecret: accessSecret,
	}
}

// extractToken lấy token từ header "Authorization: Bearer <token>" hoặc cookie accessToken
func extractToken(c fiber.Ctx) (string, error) {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", common.ErrTokenInvalid
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookie := c.Cookies(AccessTokenCookie); cookie != "" {
		return cookie, nil
	}
	return "", common.ErrTokenMissing
}

// authenticate kiểm tra token và gắn user vào context
func (am *AuthManager) authenticate(c fiber.Ctx) error {
	token, err := extractToken(c)
	if err != nil {
		return err
	}

	claims, err := utility.ParseToken(am.accessSecret, token, utility.TokenTypeAccess)
	if err != nil {
		return err
	}

	ctx := c.Context()
	if am.denylist != nil {
		revoked, err := am.denylist.IsRevoked(ctx, claims.Id)
		if err != nil {
			// Denylist lỗi thì từ chối request thay vì cho token đã logout đi qua
			return common.Internal(err, "Không kiểm tra được trạng thái token")
		}
		if revoked {
			return common.ErrTokenInvalid
		}
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return common.ErrTokenInvalid
	}
	user, err := am.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrTokenInvalid
		}
		return err
	}

	c.Locals(basehdl.LocalUserID, user.ID.Hex())
	c.Locals(basehdl.LocalUser, user)
	c.Locals(LocalTokenID, claims.Id)
	c.Locals(LocalTokenExpiry, time.Unix(claims.ExpiresAt, 0))
	return nil
}

// AuthMiddleware bắt buộc đăng nhập
func (am *AuthManager) AuthMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if err := am.authenticate(c); err != nil {
			logger.WithRequest(c).WithFields(logrus.Fields{
				"error": err.Error(),
			}).Warn("❌ [AUTH] Request rejected")
			return HandleErrorResponse(c, err)
		}
		return c.Next()
	}
}

// OptionalAuth gắn user nếu có token hợp lệ, không bao giờ từ chối request
func (am *AuthManager) OptionalAuth() fiber.Handler {
	return func(c fiber.Ctx) error {
		if err := am.authenticate(c); err != nil && !errors.Is(err, common.ErrTokenMissing) {
			logger.WithRequest(c).WithField("error", err.Error()).Debug("[AUTH] Ignoring invalid optional token")
		}
		return c.Next()
	}
}
