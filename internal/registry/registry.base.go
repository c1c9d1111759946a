// Package registry quản lý các instance dùng chung (collection MongoDB, client, ...)
// theo tên, an toàn khi dùng đồng thời.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"videotube/internal/common"
)

// Registry là generic registry thread-safe.
//
// Example:
//
//	colls := NewRegistry[*mongo.Collection]()
//	colls.Register("videos", db.Collection("videos"))
//	if coll, ok := colls.Get("videos"); ok {
//	    ...
//	}
type Registry[T any] struct {
	items map[string]T
	mu    sync.RWMutex
}

// NewRegistry tạo và trả về một registry mới.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		items: make(map[string]T),
	}
}

// Register đăng ký item. Item trùng tên bị ghi đè.
//
// Returns:
//   - isNew: true nếu là item mới, false nếu ghi đè item cũ
//   - err: lỗi nếu name rỗng
func (r *Registry[T]) Register(name string, item T) (isNew bool, err error) {
	if name == "" {
		return false, fmt.Errorf("name cannot be empty: %w", common.ErrRequiredField)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.items[name]
	r.items[name] = item
	return !exists, nil
}

// Get lấy item theo tên.
func (r *Registry[T]) Get(name string) (item T, exists bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists = r.items[name]
	return item, exists
}

// MustGet lấy item theo tên, trả về common.ErrNotFound nếu chưa đăng ký.
func (r *Registry[T]) MustGet(name string) (T, error) {
	item, ok := r.Get(name)
	if !ok {
		return item, fmt.Errorf("registry item %q: %w", name, common.ErrNotFound)
	}
	return item, nil
}

// Names trả về danh sách tên đã đăng ký, sắp xếp tăng dần.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear xóa một item. cleanup (nếu có) được gọi trước khi xóa; cleanup lỗi thì item được giữ lại.
func (r *Registry[T]) Clear(name string, cleanup func(T) error) (deleted bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.items[name]
	if !exists {
		return false, nil
	}
	if cleanup != nil {
		if err := cleanup(item); err != nil {
			return false, fmt.Errorf("failed to cleanup item %s: %w", name, err)
		}
	}
	delete(r.items, name)
	return true, nil
}
