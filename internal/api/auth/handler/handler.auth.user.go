// Package authhdl - Handler đăng ký, đăng nhập, làm mới token, đăng xuất, profile và lịch sử xem.
package authhdl

import (
	"strings"
	"time"

	authdto "videotube/internal/api/auth/dto"
	authsvc "videotube/internal/api/auth/service"
	basehdl "videotube/internal/api/base/handler"
	"videotube/internal/api/middleware"
	"videotube/internal/common"
	"videotube/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// RefreshTokenCookie tên cookie chứa refresh token
const RefreshTokenCookie = "refreshToken"

// UserHandler xử lý các route /users
type UserHandler struct {
	*basehdl.BaseHandler
	UserService  *authsvc.UserService
	uploadTmpDir string
	secureCookie bool
}

// NewUserHandler tạo UserHandler. secureCookie nên bật khi chạy HTTPS.
func NewUserHandler(svc *authsvc.UserService, uploadTmpDir string, secureCookie bool) *UserHandler {
	return &UserHandler{
		BaseHandler:  basehdl.NewBaseHandler(),
		UserService:  svc,
		uploadTmpDir: uploadTmpDir,
		secureCookie: secureCookie,
	}
}

// setTokenCookies gắn access/refresh token vào cookie httpOnly
func (h *UserHandler) setTokenCookies(c fiber.Ctx, result *authdto.LoginResult) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    result.AccessToken,
		Expires:  time.UnixMilli(result.AccessExpiresAt),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     RefreshTokenCookie,
		Value:    result.RefreshToken,
		Expires:  time.UnixMilli(result.RefreshExpiresAt),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// HandleRegister xử lý POST /users/register (multipart: username, email, fullName, password, avatar, coverImage?)
func (h *UserHandler) HandleRegister(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		input := authdto.RegisterInput{
			Username: strings.ToLower(strings.TrimSpace(c.FormValue("username"))),
			Email:    strings.ToLower(strings.TrimSpace(c.FormValue("email"))),
			FullName: c.FormValue("fullName"),
			Password: c.FormValue("password"),
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		avatar, err := h.SaveFormFile(c, "avatar", h.uploadTmpDir)
		defer basehdl.RemoveTempFiles(avatar)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		cover, err := h.SaveFormFile(c, "coverImage", h.uploadTmpDir)
		defer basehdl.RemoveTempFiles(cover)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var avatarPath, coverPath string
		if avatar != nil {
			avatarPath = avatar.Path
		}
		if cover != nil {
			coverPath = cover.Path
		}

		user, err := h.UserService.Register(c.Context(), &input, avatarPath, coverPath)
		if err == nil {
			logger.LogAuth("register", user.ID.Hex(), c)
		}
		h.HandleResponseStatus(c, common.StatusCreated, "Đăng ký thành công", user, err)
		return nil
	})
}

// HandleLogin xử lý POST /users/login
func (h *UserHandler) HandleLogin(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.LoginInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		result, err := h.UserService.Login(c.Context(), &input)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		h.setTokenCookies(c, result)
		logger.LogAuth("login", result.User.ID.Hex(), c)
		h.HandleResponseStatus(c, common.StatusOK, "Đăng nhập thành công", result, nil)
		return nil
	})
}

// HandleRefreshToken xử lý POST /users/refresh-token (body refreshToken hoặc cookie)
func (h *UserHandler) HandleRefreshToken(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.RefreshTokenInput
		if len(c.Body()) > 0 {
			if err := h.ParseRequestBody(c, &input); err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
		}
		if input.RefreshToken == "" {
			input.RefreshToken = c.Cookies(RefreshTokenCookie)
		}

		result, err := h.UserService.RefreshToken(c.Context(), input.RefreshToken)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		h.setTokenCookies(c, result)
		h.HandleResponseStatus(c, common.StatusOK, "Làm mới token thành công", result, nil)
		return nil
	})
}

// HandleLogout xử lý POST /users/logout
func (h *UserHandler) HandleLogout(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.RequireUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		jti, _ := c.Locals(middleware.LocalTokenID).(string)
		expiresAt, _ := c.Locals(middleware.LocalTokenExpiry).(time.Time)

		if err := h.UserService.Logout(c.Context(), userID, jti, expiresAt); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		c.ClearCookie(middleware.AccessTokenCookie, RefreshTokenCookie)
		logger.LogAuth("logout", userID.Hex(), c)
		h.HandleResponseStatus(c, common.StatusOK, "Đăng xuất thành công", fiber.Map{}, nil)
		return nil
	})
}

// HandleCurrentUser xử lý GET /users/current-user
func (h *UserHandler) HandleCurrentUser(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.RequireUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		user, err := h.UserService.GetCurrentUser(c.Context(), userID)
		h.HandleResponseStatus(c, common.StatusOK, "Lấy thông tin user thành công", user, err)
		return nil
	})
}

// HandleWatchHistory xử lý GET /users/history
func (h *UserHandler) HandleWatchHistory(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.RequireUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		history, err := h.UserService.GetWatchHistory(c.Context(), userID)
		h.HandleResponseStatus(c, common.StatusOK, "Lấy lịch sử xem thành công", history, err)
		return nil
	})
}
