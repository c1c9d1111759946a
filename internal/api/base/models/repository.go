// Package models chứa các kiểu dùng chung cho layer repository/base (kết quả phân trang).
package models

import "math"

// PaginateResult đại diện cho kết quả phân trang
type PaginateResult[T any] struct {
	// Trang hiện tại
	Page int64 `json:"page" bson:"page"`
	// Số lượng mục trên mỗi trang
	Limit int64 `json:"limit" bson:"limit"`
	// Số lượng mục trong trang hiện tại
	ItemCount int64 `json:"itemCount" bson:"itemCount"`
	// Danh sách các mục
	Items []T `json:"items" bson:"items"`
	// Tổng số mục
	Total int64 `json:"total" bson:"total"`
	// Tổng số trang
	TotalPage   int64 `json:"totalPage" bson:"totalPage"`
	HasPrevPage bool  `json:"hasPrevPage" bson:"hasPrevPage"`
	HasNextPage bool  `json:"hasNextPage" bson:"hasNextPage"`
}

// NewPaginateResult tính các field phân trang từ items và tổng số
func NewPaginateResult[T any](items []T, page, limit, total int64) *PaginateResult[T] {
	if items == nil {
		items = []T{}
	}

	// total = 0 thì totalPage = 0, còn lại làm tròn lên
	var totalPage int64
	if total > 0 && limit > 0 {
		totalPage = (total + limit - 1) / limit
	}

	return &PaginateResult[T]{
		Page:        page,
		Limit:       limit,
		ItemCount:   int64(len(items)),
		Items:       items,
		Total:       total,
		TotalPage:   totalPage,
		HasPrevPage: page > 1,
		HasNextPage: page < totalPage,
	}
}

// NormalizePage đưa page/limit về giá trị hợp lệ: page >= 1, 1 <= limit <= maxLimit
func NormalizePage(page, limit, maxLimit int64) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// SkipFor trả về số document cần bỏ qua của trang page.
// ok = false khi (page-1)*limit vượt int64, skip khi đó bị chặn ở math.MaxInt64.
func SkipFor(page, limit int64) (skip int64, ok bool) {
	if page <= 1 || limit <= 0 {
		return 0, true
	}
	if page-1 > math.MaxInt64/limit {
		return math.MaxInt64, false
	}
	return (page - 1) * limit, true
}
