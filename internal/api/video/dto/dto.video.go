package videodto

import (
	"videotube/internal/api/video/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListVideosQuery query string của GET /videos
type ListVideosQuery struct {
	Page     *int64 `query:"page"`  // nil = mặc định 1
	Limit    *int64 `query:"limit"` // nil = mặc định 10
	Query    string `query:"query"`
	SortBy   string `query:"sortBy"`
	SortType string `query:"sortType"`
	UserID   string `query:"userId" validate:"omitempty,objectid"`
}

// PublishVideoInput form fields khi publish (file videoFile/thumbnail xử lý riêng)
type PublishVideoInput struct {
	Title       string `json:"title" form:"title" validate:"max=200,no_xss"`
	Description string `json:"description" form:"description" validate:"max=5000,no_xss"`
}

// UpdateVideoInput form fields khi update, đều tùy chọn
type UpdateVideoInput struct {
	Title       string `json:"title" form:"title" validate:"max=200,no_xss"`
	Description string `json:"description" form:"description" validate:"max=5000,no_xss"`
}

// GetVideoResult kết quả GET /videos/:videoId
type GetVideoResult struct {
	Video        *models.VideoDetail  `json:"video"`
	WatchHistory []primitive.ObjectID `json:"watchHistory"`
}

// TogglePublishResult kết quả toggle publish
type TogglePublishResult struct {
	IsPublished bool `json:"isPublished"`
}
