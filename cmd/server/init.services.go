package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"videotube/config"
	authhdl "videotube/internal/api/auth/handler"
	authrouter "videotube/internal/api/auth/router"
	authsvc "videotube/internal/api/auth/service"
	cleanupsvc "videotube/internal/api/cleanup/service"
	engagementhdl "videotube/internal/api/engagement/handler"
	engagementrouter "videotube/internal/api/engagement/router"
	engagementsvc "videotube/internal/api/engagement/service"
	"videotube/internal/api/middleware"
	videohdl "videotube/internal/api/video/handler"
	videorouter "videotube/internal/api/video/router"
	videosvc "videotube/internal/api/video/service"
	"videotube/internal/asset"
	"videotube/internal/global"
	"videotube/internal/logger"
	"videotube/internal/utility"
	"videotube/internal/worker"

	"github.com/gofiber/fiber/v3"
)

// denylistWithClose là denylist có thể đóng khi shutdown (Redis client / goroutine dọn cache)
type denylistWithClose interface {
	authsvc.TokenDenylist
	io.Closer
}

// application gom các thành phần đã khởi tạo của lệnh serve
type application struct {
	app      *fiber.App
	worker   *worker.AssetCleanupWorker
	denylist denylistWithClose
}

// initDenylist dùng Redis khi có REDIS_ADDR, còn lại dùng cache trong bộ nhớ (chỉ đúng với một instance)
func initDenylist(ctx context.Context, cfg *config.Configuration) (denylistWithClose, error) {
	log := logger.GetAppLogger()
	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR not set, using in-memory token denylist")
		return authsvc.NewMemoryDenylist(), nil
	}
	d, err := authsvc.NewRedisDenylist(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	log.WithField("addr", cfg.RedisAddr).Info("Using Redis token denylist")
	return d, nil
}

// InitApplication dựng repository, service, handler, router và worker
func InitApplication(ctx context.Context, cfg *config.Configuration) (*application, error) {
	store, err := asset.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize asset store: %w", err)
	}

	// Repositories
	users, err := authsvc.NewUserRepository()
	if err != nil {
		return nil, err
	}
	videos, err := videosvc.NewVideoRepository()
	if err != nil {
		return nil, err
	}
	history, err := videosvc.NewWatchHistoryRepository()
	if err != nil {
		return nil, err
	}
	likes, err := engagementsvc.NewLikeRepository()
	if err != nil {
		return nil, err
	}
	subscriptions, err := engagementsvc.NewSubscriptionRepository()
	if err != nil {
		return nil, err
	}
	videoCounter, err := engagementsvc.NewCollectionCounter(global.MongoDB_ColNames.Videos)
	if err != nil {
		return nil, err
	}
	userCounter, err := engagementsvc.NewCollectionCounter(global.MongoDB_ColNames.Users)
	if err != nil {
		return nil, err
	}
	cleanup, err := cleanupsvc.NewAssetCleanupService(cfg.CleanupMaxRetries)
	if err != nil {
		return nil, err
	}

	denylist, err := initDenylist(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token denylist: %w", err)
	}

	// Services
	userService := authsvc.NewUserService(users, store, cleanup, denylist, utility.TokenSettings{
		AccessSecret:  cfg.JwtAccessSecret,
		RefreshSecret: cfg.JwtRefreshSecret,
		AccessTTL:     cfg.AccessTTL(),
		RefreshTTL:    cfg.RefreshTTL(),
	})
	videoService := videosvc.NewVideoService(videos, history, store, cleanup)
	engagementService := engagementsvc.NewEngagementService(likes, subscriptions, videoCounter, userCounter)

	// Handlers + routes
	auth := middleware.NewAuthManager(users, denylist, cfg.JwtAccessSecret)
	mediaDir := ""
	if b := strings.ToLower(cfg.AssetBackend); b == "" || b == asset.BackendLocal {
		mediaDir = cfg.AssetLocalDir
	}

	app, err := InitFiberApp(cfg, auth, mediaDir,
		authrouter.Register(authhdl.NewUserHandler(userService, cfg.UploadTmpDir, cfg.EnableTLS)),
		videorouter.Register(videohdl.NewVideoHandler(videoService, cfg.UploadTmpDir)),
		engagementrouter.Register(engagementhdl.NewEngagementHandler(engagementService)),
	)
	if err != nil {
		_ = denylist.Close()
		return nil, err
	}

	cleanupWorker := worker.NewAssetCleanupWorker(cleanup, store,
		time.Duration(cfg.CleanupIntervalSec)*time.Second, cfg.CleanupBatch)

	return &application{app: app, worker: cleanupWorker, denylist: denylist}, nil
}
