package logger

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// filteredKey đánh dấu entry đã bị FilterHook loại bỏ
const filteredKey = "_filtered"

// AsyncHook ghi log bất đồng bộ qua buffered channel, tránh blocking request handling
type AsyncHook struct {
	writers []io.Writer
	entries chan *logrus.Entry
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
}

// NewAsyncHookWithWriters tạo một async hook mới với nhiều writers
// bufferSize: kích thước buffer cho log entries (mặc định 1000)
func NewAsyncHookWithWriters(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}

	hook := &AsyncHook{
		writers: writers,
		entries: make(chan *logrus.Entry, bufferSize),
	}

	hook.wg.Add(1)
	go hook.processEntries()

	return hook
}

// Levels trả về các log levels mà hook này xử lý
func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire không block: channel đầy thì bỏ entry
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	if filtered, _ := entry.Data[filteredKey].(bool); filtered {
		return nil
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		// Hook đã đóng, ghi trực tiếp (fallback)
		data, err := format(entry)
		if err != nil {
			return err
		}
		for _, writer := range h.writers {
			_, _ = writer.Write(data)
		}
		return nil
	}

	// Entry được dùng lại bởi logrus sau khi Fire trả về, phải copy
	dup := entry.Dup()
	dup.Level = entry.Level
	dup.Message = entry.Message
	dup.Caller = entry.Caller
	select {
	case h.entries <- dup:
	default:
	}
	return nil
}

// processEntries xử lý log entries trong một goroutine riêng
func (h *AsyncHook) processEntries() {
	defer h.wg.Done()

	for entry := range h.entries {
		data, err := format(entry)
		if err != nil {
			continue
		}
		for _, writer := range h.writers {
			_, _ = writer.Write(data)
		}
	}
}

func format(entry *logrus.Entry) ([]byte, error) {
	if entry.Logger != nil && entry.Logger.Formatter != nil {
		return entry.Logger.Formatter.Format(entry)
	}
	line, err := entry.String()
	if err != nil {
		return nil, err
	}
	return []byte(line), nil
}

// Close đóng hook và đợi tất cả entries được xử lý xong
func (h *AsyncHook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.entries)
	h.mu.Unlock()

	h.wg.Wait()
	return nil
}
