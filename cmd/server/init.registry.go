package main

import (
	"videotube/config"
	"videotube/internal/global"
	"videotube/internal/logger"

	"go.mongodb.org/mongo-driver/mongo"
)

// InitRegistry đăng ký các collection vào registry để repository lấy ra theo tên
func InitRegistry() error {
	if err := InitCollections(global.MongoDB_Session, global.MongoDB_ServerConfig); err != nil {
		return err
	}
	logger.GetAppLogger().Info("Initialized collection registry")
	return nil
}

// InitCollections khởi tạo và đăng ký các collections MongoDB
func InitCollections(client *mongo.Client, cfg *config.Configuration) error {
	log := logger.GetAppLogger()
	db := client.Database(cfg.MongoDB_DBName)

	for _, name := range global.CollectionNames() {
		registered, err := global.RegistryCollections.Register(name, db.Collection(name))
		if err != nil {
			log.Errorf("Failed to register collection %s: %v", name, err)
			return err
		}

		if registered {
			log.Debugf("Collection %s registered successfully", name)
		} else {
			log.Warnf("Collection %s already registered", name)
		}
	}
	return nil
}
