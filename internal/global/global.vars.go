package global

import (
	"videotube/config"
	"videotube/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName chứa tên các collection trong MongoDB
type MongoDB_CollectionName struct {
	Users         string // Người dùng (kiêm channel)
	Videos        string // Video
	Likes         string // Lượt thích video
	Subscriptions string // Đăng ký kênh
	AssetCleanup  string // Hàng đợi xóa asset mồ côi
}

// Các biến toàn cục
var Validate *validator.Validate                     // Validator cho DTO
var MongoDB_Session *mongo.Client                    // Phiên kết nối MongoDB
var MongoDB_ServerConfig *config.Configuration       // Cấu hình server
var MongoDB_ColNames MongoDB_CollectionName          // Tên các collection
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry collections

// CollectionNames trả về tên tất cả collections đã cấu hình
func CollectionNames() []string {
	n := MongoDB_ColNames
	return []string{n.Users, n.Videos, n.Likes, n.Subscriptions, n.AssetCleanup}
}
