package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
type Configuration struct {
	Address string `env:"ADDRESS" envDefault:"8080"` // Cổng server
	AppName string `env:"APP_NAME" envDefault:"VideoTube API"`

	// JWT: access token ngắn hạn, refresh token dài hạn
	JwtAccessSecret   string `env:"JWT_ACCESS_SECRET,required"`
	JwtRefreshSecret  string `env:"JWT_REFRESH_SECRET,required"`
	JwtAccessTTLMin   int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
	JwtRefreshTTLHour int    `env:"JWT_REFRESH_TTL_HOURS" envDefault:"240"`

	// MongoDB
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"` // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME" envDefault:"videotube"`

	// CORS / rate limit
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window (0 = disable rate limit)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting
	BodyLimitMB           int    `env:"BODY_LIMIT_MB" envDefault:"200"`            // Upload video cần body lớn

	// TLS/HTTPS Configuration
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"` // Bật HTTPS
	TLSCertFile string `env:"TLS_CERT_FILE"`                 // Đường dẫn đến file certificate (.crt hoặc .pem)
	TLSKeyFile  string `env:"TLS_KEY_FILE"`                  // Đường dẫn đến file private key (.key)

	// Asset store: "local" hoặc "s3"
	AssetBackend       string `env:"ASSET_BACKEND" envDefault:"local"`
	AssetLocalDir      string `env:"ASSET_LOCAL_DIR" envDefault:"./media"`
	AssetPublicBaseURL string `env:"ASSET_PUBLIC_BASE_URL" envDefault:"http://localhost:8080/media"`
	S3Bucket           string `env:"S3_BUCKET"`
	S3Region           string `env:"S3_REGION" envDefault:"ap-southeast-1"`
	S3Endpoint         string `env:"S3_ENDPOINT"`          // Để trống = AWS, set khi dùng MinIO
	S3PublicBaseURL    string `env:"S3_PUBLIC_BASE_URL"`   // CDN / MinIO public URL, để trống = URL virtual-hosted của bucket
	UploadTmpDir       string `env:"UPLOAD_TMP_DIR" envDefault:"./public/temp"`

	// Redis cho token denylist (để trống = dùng cache trong bộ nhớ)
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Worker dọn asset mồ côi
	CleanupIntervalSec int `env:"CLEANUP_INTERVAL_SECONDS" envDefault:"60"`
	CleanupBatch       int `env:"CLEANUP_BATCH" envDefault:"20"`
	CleanupMaxRetries  int `env:"CLEANUP_MAX_RETRIES" envDefault:"8"`
}

// AccessTTL thời hạn access token
func (c *Configuration) AccessTTL() time.Duration {
	return time.Duration(c.JwtAccessTTLMin) * time.Minute
}

// RefreshTTL thời hạn refresh token
func (c *Configuration) RefreshTTL() time.Duration {
	return time.Duration(c.JwtRefreshTTLHour) * time.Hour
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Đi lên dần cho tới khi gặp config/env
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", goEnv))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig đọc cấu hình từ file env (nếu có) rồi từ environment variables.
// Trả về nil nếu thiếu biến bắt buộc.
func NewConfig() *Configuration {
	// File env là tùy chọn: trong container thường chỉ có environment variables
	if envPath := getEnvPath(); envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
