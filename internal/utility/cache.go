package utility

import (
	"sync"
	"time"
)

type cacheItem struct {
	value     interface{}
	expiresAt time.Time
}

// Cache là cache trong bộ nhớ, mỗi item có thời gian sống riêng
type Cache struct {
	items    map[string]cacheItem
	mu       sync.RWMutex
	ttl      time.Duration
	cleanup  time.Duration
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewCache tạo một instance mới của Cache.
// ttl: thời gian sống mặc định, cleanup: chu kỳ dọn item hết hạn
func NewCache(ttl, cleanup time.Duration) *Cache {
	cache := &Cache{
		items:    make(map[string]cacheItem),
		ttl:      ttl,
		cleanup:  cleanup,
		stopChan: make(chan struct{}),
	}
	if cleanup > 0 {
		go cache.cleanupLoop()
	}
	return cache
}

// Set lưu giá trị với ttl mặc định
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL lưu giá trị với ttl riêng
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheItem{value: value, expiresAt: time.Now().Add(ttl)}
}

// Get lấy giá trị từ cache, item hết hạn coi như không tồn tại
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, exists := c.items[key]
	if !exists || time.Now().After(item.expiresAt) {
		return nil, false
	}
	return item.value, true
}

// Stop dừng goroutine dọn dẹp
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

// cleanupLoop dọn dẹp cache định kỳ
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for k, item := range c.items {
				if now.After(item.expiresAt) {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		case <-c.stopChan:
			return
		}
	}
}
