package main

import (
	"errors"
	"strings"
	"time"

	"videotube/config"
	basehdl "videotube/internal/api/base/handler"
	"videotube/internal/api/middleware"
	"videotube/internal/api/router"
	"videotube/internal/common"
	"videotube/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
)

// fiberErrorCode map HTTP status của *fiber.Error sang mã lỗi hệ thống
func fiberErrorCode(status int) common.ErrorCode {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusUnsupportedMediaType:
		return common.ErrCodeValidationInput
	case fiber.StatusUnauthorized:
		return common.ErrCodeAuthToken
	case fiber.StatusForbidden:
		return common.ErrCodeAuthOwnership
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return common.ErrCodeDatabaseNotFound
	case fiber.StatusConflict:
		return common.ErrCodeDatabaseDuplicate
	case fiber.StatusTooManyRequests:
		return common.ErrCodeBusinessOperation
	}
	return common.ErrCodeInternalServer
}

// errorHandler trả mọi lỗi lọt ra khỏi handler (404 route, body quá lớn, ...) theo envelope chung
func errorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		err = common.NewError(fiberErrorCode(fe.Code), fe.Message, fe.Code, nil)
	}

	status, body := basehdl.ErrorBody(err)
	entry := logger.WithRequest(c).WithError(err).WithField("status", status)
	if status >= fiber.StatusInternalServerError {
		entry.Error("Request error")
	} else {
		entry.Debug("Request error")
	}
	return basehdl.JSONResponse(c, status, body)
}

// splitOrigins tách CORS_ORIGINS ("*" hoặc danh sách phân cách bởi dấu phẩy)
func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "*" {
		return []string{"*"}
	}
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// InitFiberApp khởi tạo ứng dụng Fiber với các middleware cần thiết và đăng ký routes
func InitFiberApp(cfg *config.Configuration, auth *middleware.AuthManager, mediaDir string, domains ...router.RegisterFunc) (*fiber.App, error) {
	bodyLimit := cfg.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 200
	}

	app := fiber.New(fiber.Config{
		// =========================================
		// 1. CẤU HÌNH CƠ BẢN
		// =========================================
		AppName:       cfg.AppName,
		ServerHeader:  cfg.AppName,
		StrictRouting: false, // /videos và /videos/ là như nhau
		CaseSensitive: true,
		UnescapePath:  true,

		// =========================================
		// 2. CẤU HÌNH PERFORMANCE
		// =========================================
		BodyLimit:       bodyLimit * 1024 * 1024, // Upload video multipart
		Concurrency:     256 * 1024,
		ReadBufferSize:  8192,
		WriteBufferSize: 4096,

		// =========================================
		// 3. CẤU HÌNH TIMEOUT
		// =========================================
		ReadTimeout:  5 * time.Minute, // File video lớn
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,

		ErrorHandler: errorHandler,
	})

	// =========================================
	// MIDDLEWARE STACK
	// =========================================

	// 1. Request ID - trace một request qua log
	app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}))

	// 2. CORS - đặt sớm để preflight không đi qua rate limit
	app.Use(cors.New(cors.Config{
		AllowOrigins:     splitOrigins(cfg.CORS_Origins),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-Requested-With"},
		AllowCredentials: cfg.CORS_AllowCredentials,
		ExposeHeaders:    []string{"Content-Length", "Content-Range", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	// 3. Security headers
	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if cfg.EnableTLS {
			c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		return c.Next()
	})

	// 4. Rate limit theo IP (RATE_LIMIT_MAX = 0 thì tắt)
	log := logger.GetAppLogger()
	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit_Max,
			Expiration: time.Duration(cfg.RateLimit_Window) * time.Second,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return basehdl.JSONResponse(c, fiber.StatusTooManyRequests, fiber.Map{
					"statusCode": fiber.StatusTooManyRequests,
					"message":    "Quá nhiều yêu cầu, vui lòng thử lại sau",
					"code":       common.ErrCodeBusinessOperation.Code,
					"success":    false,
				})
			},
			Next: func(c fiber.Ctx) bool {
				return c.Path() == "/health" || c.Path() == "/api/v1/health" || c.Method() == fiber.MethodOptions
			},
		}))
		log.Infof("Rate limiting enabled: %d requests per %d seconds", cfg.RateLimit_Max, cfg.RateLimit_Window)
	} else {
		log.Info("Rate limiting disabled")
	}

	// 5. Recover - panic ngoài SafeHandler vẫn trả về envelope 500
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			logger.WithRequest(c).WithField("panic", e).Error("Panic recovered")
		},
	}))

	if err := router.SetupRoutes(app, auth, mediaDir, domains...); err != nil {
		return nil, err
	}
	return app, nil
}
