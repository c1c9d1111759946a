package logger

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// FilterHook lọc log entries theo module, endpoint, method và level.
// Entry bị lọc được đánh dấu "_filtered", AsyncHook sẽ bỏ qua.
type FilterHook struct {
	allowedModules   map[string]bool
	allowedEndpoints map[string]bool
	allowedMethods   map[string]bool
	allowedLogTypes  map[string]bool

	mu sync.RWMutex
}

// NewFilterHook tạo một filter hook mới với cấu hình
func NewFilterHook(cfg *LogConfig) *FilterHook {
	hook := &FilterHook{}
	hook.UpdateFilters(cfg)
	return hook
}

// UpdateFilters cập nhật filters từ config mới (có thể gọi runtime)
func (h *FilterHook) UpdateFilters(cfg *LogConfig) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.allowedModules = parseFilter(cfg.FilterModules)
	h.allowedEndpoints = parseFilter(cfg.FilterEndpoints)
	h.allowedMethods = parseFilter(cfg.FilterMethods)
	h.allowedLogTypes = parseFilter(cfg.FilterLogTypes)
}

// parseFilter parse "a,b,c" thành set lowercase. nil = cho phép tất cả
func parseFilter(filterStr string) map[string]bool {
	filterStr = strings.TrimSpace(filterStr)
	if filterStr == "" || filterStr == "*" {
		return nil
	}

	result := make(map[string]bool)
	for _, v := range strings.Split(filterStr, ",") {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			result[v] = true
		}
	}
	return result
}

// Levels trả về các log levels mà hook này xử lý
func (h *FilterHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire đánh dấu entry nếu không khớp filter.
// Entry thiếu field tương ứng (module, path, method) thì không bị lọc theo field đó.
func (h *FilterHook) Fire(entry *logrus.Entry) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.allowedLogTypes != nil && !h.allowedLogTypes[entry.Level.String()] {
		entry.Data[filteredKey] = true
		return nil
	}

	if module, ok := entry.Data["module"].(string); ok && h.allowedModules != nil {
		if !h.allowedModules[strings.ToLower(module)] {
			entry.Data[filteredKey] = true
			return nil
		}
	}

	endpoint, ok := entry.Data["endpoint"].(string)
	if !ok {
		endpoint, ok = entry.Data["path"].(string)
	}
	if ok && h.allowedEndpoints != nil {
		matched := false
		endpoint = strings.ToLower(endpoint)
		for prefix := range h.allowedEndpoints {
			if strings.HasPrefix(endpoint, prefix) {
				matched = true
				break
			}
		}
		if !matched {
			entry.Data[filteredKey] = true
			return nil
		}
	}

	if method, ok := entry.Data["method"].(string); ok && h.allowedMethods != nil {
		if !h.allowedMethods[strings.ToLower(method)] {
			entry.Data[filteredKey] = true
		}
	}

	return nil
}
