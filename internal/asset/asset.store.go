// Package asset lưu trữ file media (video, thumbnail, avatar) và trả về URL public
// cùng publicId dùng để xóa về sau.
package asset

import (
	"context"
	"fmt"
	"strings"

	"videotube/config"
)

// Kind phân loại asset, quyết định thư mục/prefix lưu trữ
type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
)

// Valid kiểm tra kind có được hỗ trợ không
func (k Kind) Valid() bool {
	return k == KindVideo || k == KindImage
}

// prefix là thư mục/prefix key của kind: "videos", "images"
func (k Kind) prefix() string {
	return string(k) + "s"
}

// Ref là tham chiếu tới asset đã upload, được nhúng trong document MongoDB
type Ref struct {
	URL      string `json:"url" bson:"url"`
	PublicID string `json:"publicId" bson:"publicId"`
}

// IsZero true khi chưa có asset
func (r Ref) IsZero() bool {
	return r.URL == "" && r.PublicID == ""
}

// UploadResult kết quả upload. Duration (giây) chỉ có với video MP4/MOV
type UploadResult struct {
	URL      string
	PublicID string
	Duration float64
}

// Ref chuyển kết quả upload thành tham chiếu lưu trong DB
func (r *UploadResult) Ref() Ref {
	return Ref{URL: r.URL, PublicID: r.PublicID}
}

// Store là asset store: upload file local, xóa theo publicId.
// Delete phải idempotent: xóa asset không tồn tại không phải lỗi.
type Store interface {
	Upload(ctx context.Context, localPath string, kind Kind) (*UploadResult, error)
	Delete(ctx context.Context, publicID string, kind Kind) error
}

// Backend names
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// New tạo Store theo cấu hình ASSET_BACKEND
func New(ctx context.Context, cfg *config.Configuration) (Store, error) {
	switch strings.ToLower(cfg.AssetBackend) {
	case "", BackendLocal:
		return NewLocalStore(cfg.AssetLocalDir, cfg.AssetPublicBaseURL)
	case BackendS3:
		return NewS3Store(ctx, S3Options{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown asset backend %q", cfg.AssetBackend)
	}
}

// objectKey tạo key "<kind>s/<id><ext>"
func objectKey(kind Kind, id, ext string) string {
	return kind.prefix() + "/" + id + strings.ToLower(ext)
}

// probeDuration đọc duration nếu là video, lỗi probe không làm hỏng upload
func probeDuration(localPath string, kind Kind) float64 {
	if kind != KindVideo {
		return 0
	}
	d, err := ProbeMP4Duration(localPath)
	if err != nil {
		return 0
	}
	return d
}
