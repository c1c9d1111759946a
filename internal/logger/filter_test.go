package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func fire(h *FilterHook, level logrus.Level, data logrus.Fields) bool {
	entry := &logrus.Entry{Level: level, Data: data}
	_ = h.Fire(entry)
	_, filtered := entry.Data[filteredKey]
	return filtered
}

func TestParseFilter(t *testing.T) {
	assert.Nil(t, parseFilter(""))
	assert.Nil(t, parseFilter(" * "))
	assert.Equal(t, map[string]bool{"video": true, "auth": true}, parseFilter("Video, auth,"))
}

func TestFilterHook(t *testing.T) {
	h := NewFilterHook(&LogConfig{
		FilterModules:   "video",
		FilterEndpoints: "/api/v1/videos",
		FilterMethods:   "post",
		FilterLogTypes:  "error,warning",
	})

	assert.False(t, fire(h, logrus.ErrorLevel, logrus.Fields{"module": "video"}))
	assert.True(t, fire(h, logrus.InfoLevel, logrus.Fields{"module": "video"}), "level không nằm trong filter")
	assert.True(t, fire(h, logrus.ErrorLevel, logrus.Fields{"module": "asset_cleanup"}))
	assert.False(t, fire(h, logrus.ErrorLevel, logrus.Fields{"path": "/api/v1/videos/abc", "method": "POST"}))
	assert.True(t, fire(h, logrus.ErrorLevel, logrus.Fields{"path": "/api/v1/users/login"}))
	assert.True(t, fire(h, logrus.WarnLevel, logrus.Fields{"method": "GET"}))
	assert.False(t, fire(h, logrus.WarnLevel, logrus.Fields{}), "entry không có field thì không lọc theo field đó")

	h.UpdateFilters(&LogConfig{})
	assert.False(t, fire(h, logrus.InfoLevel, logrus.Fields{"module": "anything"}))
}
