package utility

import (
	"fmt"

	"videotube/internal/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FormatBytes chuyển đổi số bytes thành chuỗi dễ đọc (KB, MB, GB)
func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// ParseObjectID chuyển chuỗi hex thành ObjectID, lỗi InvalidArgument nếu sai định dạng
// @params - tên field (để báo lỗi), chuỗi cần chuyển đổi
func ParseObjectID(field, id string) (primitive.ObjectID, error) {
	if !primitive.IsValidObjectID(id) {
		return primitive.NilObjectID, common.InvalidArgument("%s không hợp lệ: %q", field, id)
	}
	objectID, _ := primitive.ObjectIDFromHex(id)
	return objectID, nil
}
