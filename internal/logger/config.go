package logger

import (
	"os"
	"strings"

	"github.com/caarlos0/env"
)

// LogConfig chứa cấu hình cho hệ thống logging
type LogConfig struct {
	// Log Level: trace, debug, info, warn, error, fatal
	Level string `env:"LOG_LEVEL"`

	// Log Format: json, text
	Format string `env:"LOG_FORMAT"`

	// Log Output: file, stdout, both
	Output string `env:"LOG_OUTPUT" envDefault:"both"`

	// Log Rotation
	MaxSize    int  `env:"LOG_MAX_SIZE" envDefault:"100"`   // MB
	MaxBackups int  `env:"LOG_MAX_BACKUPS" envDefault:"7"`  // Số file cũ giữ lại
	MaxAge     int  `env:"LOG_MAX_AGE" envDefault:"7"`      // Số ngày giữ lại
	Compress   bool `env:"LOG_COMPRESS" envDefault:"true"`  // Nén file cũ
	BufferSize int  `env:"LOG_BUFFER_SIZE" envDefault:"1000"` // Số entries tối đa chờ ghi

	// Log Paths
	LogPath   string `env:"LOG_PATH" envDefault:"./logs"`
	AppFile   string `env:"LOG_APP_FILE" envDefault:"app.log"`
	AuditFile string `env:"LOG_AUDIT_FILE" envDefault:"audit.log"`
	ErrorFile string `env:"LOG_ERROR_FILE" envDefault:"error.log"`

	// Filters, phân cách bởi dấu phẩy, rỗng hoặc "*" = tất cả
	FilterModules   string `env:"LOG_FILTER_MODULES"`
	FilterEndpoints string `env:"LOG_FILTER_ENDPOINTS"`
	FilterMethods   string `env:"LOG_FILTER_METHODS"`
	FilterLogTypes  string `env:"LOG_FILTER_TYPES"`
}

// DefaultConfig trả về cấu hình mặc định, override bởi environment variables
func DefaultConfig() *LogConfig {
	cfg := &LogConfig{}
	if err := env.Parse(cfg); err != nil {
		cfg = &LogConfig{Output: "both", MaxSize: 100, MaxBackups: 7, MaxAge: 7, Compress: true,
			BufferSize: 1000, LogPath: "./logs", AppFile: "app.log", AuditFile: "audit.log", ErrorFile: "error.log"}
	}

	// Điều chỉnh theo môi trường nếu chưa set
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}
	if cfg.Level == "" {
		if goEnv == "development" {
			cfg.Level = "debug"
		} else {
			cfg.Level = "info"
		}
	}
	if cfg.Format == "" {
		if goEnv == "development" {
			cfg.Format = "text"
		} else {
			cfg.Format = "json"
		}
	}

	cfg.Level = strings.ToLower(cfg.Level)
	cfg.Format = strings.ToLower(cfg.Format)
	cfg.Output = strings.ToLower(cfg.Output)
	return cfg
}
