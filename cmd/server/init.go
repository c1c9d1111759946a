package main

import (
	"context"
	"fmt"
	"time"

	"videotube/config"
	"videotube/internal/database"
	"videotube/internal/global"
	"videotube/internal/logger"
)

// initLogger khởi tạo và cấu hình logger cho toàn bộ ứng dụng
func initLogger() error {
	// Logger tự đọc LOG_* từ environment variables
	if err := logger.Init(nil); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
	return nil
}

// InitGlobal khởi tạo các biến toàn cục
func InitGlobal() error {
	initColNames()  // Khởi tạo tên các collection trong database
	initValidator() // Khởi tạo validator
	if err := initConfig(); err != nil {
		return err
	}
	return initDatabase_MongoDB()
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.MongoDB_ColNames.Users = "users"
	global.MongoDB_ColNames.Videos = "videos"
	global.MongoDB_ColNames.Likes = "likes"
	global.MongoDB_ColNames.Subscriptions = "subscriptions"
	global.MongoDB_ColNames.AssetCleanup = "asset_cleanup_queue"

	logger.GetAppLogger().Info("Initialized collection names")
}

// Hàm khởi tạo validator (đăng ký custom validators: no_xss, username, strong_password, ...)
func initValidator() {
	global.InitValidator()
	logger.GetAppLogger().Info("Initialized validator")
}

// Hàm khởi tạo cấu hình server
func initConfig() error {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		return fmt.Errorf("failed to initialize config: config is nil")
	}
	logger.GetAppLogger().Info("Initialized server config")
	return nil
}

// Hàm khởi tạo kết nối database và đảm bảo các collection tồn tại
func initDatabase_MongoDB() error {
	client, err := database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	global.MongoDB_Session = client
	logger.GetAppLogger().Info("Connected to MongoDB")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := client.Database(global.MongoDB_ServerConfig.MongoDB_DBName)
	if err := database.EnsureCollections(ctx, db, global.CollectionNames()); err != nil {
		return err
	}
	logger.GetAppLogger().Info("Ensured database and collections")
	return nil
}
