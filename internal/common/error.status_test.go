package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestErrorConstructors(t *testing.T) {
	cause := errors.New("s3 timeout")
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid argument", InvalidArgument("title là bắt buộc"), StatusBadRequest, "VAL_001"},
		{"forbidden", Forbidden("không phải owner"), StatusForbidden, "AUTH_003"},
		{"not found", NotFound("video không tồn tại"), StatusNotFound, "DB_003"},
		{"conflict", Conflict("username đã tồn tại"), StatusConflict, "DB_004"},
		{"upstream", Upstream(cause, "upload thất bại"), StatusBadGateway, "EXT_001"},
		{"internal", Internal(cause, "lỗi"), StatusInternalServerError, "SYS_001"},
		{"plain error", errors.New("x"), StatusInternalServerError, "SYS_001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := StatusOf(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code.Code)
		})
	}
}

func TestErrorIsMatchesByCode(t *testing.T) {
	err := NotFound("video %s không tồn tại", "abc")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(fmt.Errorf("wrap: %w", err), ErrNotFound))
	assert.False(t, errors.Is(err, ErrDuplicate))
}

func TestErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Upstream(cause, "upload thất bại")
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, errors.Unwrap(InvalidArgument("x")))
}

func TestConvertMongoError(t *testing.T) {
	assert.Nil(t, ConvertMongoError(nil))
	assert.ErrorIs(t, ConvertMongoError(mongo.ErrNoDocuments), ErrNotFound)

	appErr := Forbidden("giữ nguyên")
	assert.Same(t, appErr, ConvertMongoError(appErr))

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	converted := ConvertMongoError(dup)
	require.ErrorIs(t, converted, ErrDuplicate)
	status, _ := StatusOf(converted)
	assert.Equal(t, StatusConflict, status)

	other := ConvertMongoError(errors.New("weird"))
	status, code := StatusOf(other)
	assert.Equal(t, StatusInternalServerError, status)
	assert.Equal(t, ErrCodeDatabaseQuery.Code, code.Code)
}
