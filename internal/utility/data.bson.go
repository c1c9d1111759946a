package utility

import (
	"go.mongodb.org/mongo-driver/bson"
)

// ToMap chuyển struct thành map theo bson tag (dùng trước khi insert/update)
func ToMap(s interface{}) (map[string]interface{}, error) {
	data, err := bson.Marshal(s)
	if err != nil {
		return nil, err
	}

	var result map[string]interface{}
	if err := bson.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DropEmptyStrings xóa các field chuỗi rỗng để sparse unique index bỏ qua chúng
func DropEmptyStrings(m map[string]interface{}) map[string]interface{} {
	for key, value := range m {
		if str, ok := value.(string); ok && str == "" {
			delete(m, key)
		}
	}
	return m
}
