package basehdl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"videotube/internal/common"
	"videotube/internal/logger"
	"videotube/internal/utility"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// TempFile là file multipart đã được lưu tạm ra đĩa
type TempFile struct {
	Path         string
	OriginalName string
	Size         int64
}

// SaveFormFile lưu field multipart vào tmpDir.
// Field không có trong form (hoặc request không phải multipart) thì trả về (nil, nil);
// body multipart hỏng thì trả VAL_002 kèm lỗi gốc.
// Caller chịu trách nhiệm gọi RemoveTempFiles khi xử lý xong.
func (h *BaseHandler) SaveFormFile(c fiber.Ctx, field, tmpDir string) (*TempFile, error) {
	fh, err := c.FormFile(field)
	switch {
	case errors.Is(err, fasthttp.ErrMissingFile), errors.Is(err, fasthttp.ErrNoMultipartForm):
		return nil, nil
	case err != nil:
		return nil, common.NewError(common.ErrCodeValidationFormat,
			fmt.Sprintf("Dữ liệu multipart không hợp lệ: %v", err), common.StatusBadRequest, nil)
	}
	if fh.Size == 0 {
		return nil, nil
	}

	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, common.Internal(err, "Không tạo được thư mục tạm cho upload")
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	dst := filepath.Join(tmpDir, uuid.NewString()+ext)
	if err := c.SaveFile(fh, dst); err != nil {
		return nil, common.Internal(err, "Không lưu được file upload %s", field)
	}
	logger.WithRequest(c).WithFields(map[string]interface{}{
		"field": field,
		"size":  utility.FormatBytes(uint64(fh.Size)),
	}).Debug("Saved multipart file to temp dir")
	return &TempFile{Path: dst, OriginalName: fh.Filename, Size: fh.Size}, nil
}

// RemoveTempFiles xóa các file tạm, bỏ qua file nil / đã bị xóa
func RemoveTempFiles(files ...*TempFile) {
	for _, f := range files {
		if f == nil {
			continue
		}
		if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.WithModule("upload").WithError(err).WithField("path", f.Path).Warn("Failed to remove temp upload")
		}
	}
}
