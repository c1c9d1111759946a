package authsvc

import (
	"context"
	"fmt"
	"time"

	"videotube/internal/utility"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist lưu jti của access token đã logout cho tới khi token hết hạn
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// ====================================
// IN-MEMORY (một instance)
// ====================================

// MemoryDenylist dùng utility.Cache, chỉ đúng khi chạy một instance
type MemoryDenylist struct {
	cache *utility.Cache
}

// NewMemoryDenylist tạo denylist trong bộ nhớ
func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{cache: utility.NewCache(15*time.Minute, time.Minute)}
}

// Revoke thêm jti vào denylist
func (d *MemoryDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	d.cache.SetWithTTL(jti, true, ttl)
	return nil
}

// IsRevoked kiểm tra jti đã bị thu hồi chưa
func (d *MemoryDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, found := d.cache.Get(jti)
	return found, nil
}

// Close dừng goroutine dọn cache
func (d *MemoryDenylist) Close() error {
	d.cache.Stop()
	return nil
}

// ====================================
// REDIS (nhiều instance)
// ====================================

const denylistKeyPrefix = "videotube:denylist:"

// RedisDenylist lưu jti trong Redis với TTL
type RedisDenylist struct {
	client redis.UniversalClient
}

// NewRedisDenylist kết nối Redis và ping thử
func NewRedisDenylist(ctx context.Context, addr, password string, db int) (*RedisDenylist, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        []string{addr},
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		MaxRetries:   2,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisDenylist{client: client}, nil
}

// Revoke SET key với TTL bằng thời gian sống còn lại của token
func (d *RedisDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denylistKeyPrefix+jti, 1, ttl).Err()
}

// IsRevoked kiểm tra key còn tồn tại không
func (d *RedisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close đóng kết nối Redis
func (d *RedisDenylist) Close() error {
	return d.client.Close()
}
