// Package cleanupmodels - hàng đợi xóa asset mồ côi.
package cleanupmodels

import "go.mongodb.org/mongo-driver/bson/primitive"

// Trạng thái item trong hàng đợi
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusDone       = "done"
	StatusFailed     = "failed"
)

// AssetCleanupItem là một asset cần xóa khỏi asset store (compensation thất bại,
// thumbnail cũ sau update, asset của video đã xóa).
type AssetCleanupItem struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PublicID    string             `json:"publicId" bson:"publicId" index:"single"`
	Kind        string             `json:"kind" bson:"kind"`
	Reason      string             `json:"reason" bson:"reason"`
	Status      string             `json:"status" bson:"status" index:"compound:status_next_retry"`
	RetryCount  int                `json:"retryCount" bson:"retryCount"`
	MaxRetries  int                `json:"maxRetries" bson:"maxRetries"`
	LastError   string             `json:"lastError,omitempty" bson:"lastError,omitempty"`
	NextRetryAt int64              `json:"nextRetryAt" bson:"nextRetryAt" index:"compound:status_next_retry"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}
