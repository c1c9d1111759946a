package main

import (
	"context"
	"fmt"

	authmodels "videotube/internal/api/auth/models"
	cleanupmodels "videotube/internal/api/cleanup/models"
	engagementmodels "videotube/internal/api/engagement/models"
	videomodels "videotube/internal/api/video/models"
	"videotube/internal/database"
	"videotube/internal/global"
	"videotube/internal/logger"
)

// indexModels ánh xạ collection -> model mang struct tag `index`
func indexModels() map[string]interface{} {
	n := global.MongoDB_ColNames
	return map[string]interface{}{
		n.Users:         authmodels.User{},
		n.Videos:        videomodels.Video{},
		n.Likes:         engagementmodels.Like{},
		n.Subscriptions: engagementmodels.Subscription{},
		n.AssetCleanup:  cleanupmodels.AssetCleanupItem{},
	}
}

// InitIndexes đồng bộ index cho toàn bộ collection.
// Text index của videos và unique index của likes/subscriptions là bắt buộc cho feed và toggle.
func InitIndexes(ctx context.Context) error {
	log := logger.GetAppLogger()
	log.Info("🔄 [INIT] Syncing MongoDB indexes...")

	models := indexModels()
	for _, name := range global.CollectionNames() {
		coll, err := global.RegistryCollections.MustGet(name)
		if err != nil {
			return err
		}
		model, ok := models[name]
		if !ok {
			continue
		}
		if err := database.CreateIndexes(ctx, coll, model); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", name, err)
		}
	}

	log.Info("✅ [INIT] MongoDB indexes are in sync")
	return nil
}
