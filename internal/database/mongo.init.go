package database

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"videotube/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureCollections tạo các collection còn thiếu trong db
func EnsureCollections(ctx context.Context, db *mongo.Database, names []string) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	for _, name := range names {
		if have[name] {
			continue
		}
		logger.GetAppLogger().Infof("Collection %s chưa tồn tại, tạo mới.", name)
		if err := db.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}

	logger.GetAppLogger().Infof("Collections are ensured in database: %s", db.Name())
	return nil
}

// IndexSpec là một index suy ra từ struct tag `index`
type IndexSpec struct {
	Name    string
	Keys    bson.D
	Unique  bool
	Sparse  bool
	TTL     *int32
	Weights bson.D // chỉ dùng cho text index
}

// parseIndexTag tách tag thành các cấu hình: "single,order:-1;unique,sparse"
func parseIndexTag(tag string) []map[string]string {
	result := []map[string]string{}
	for _, part := range strings.Split(tag, ";") {
		entry := map[string]string{}
		for _, subPart := range strings.Split(part, ",") {
			subPart = strings.TrimSpace(subPart)
			if subPart == "" {
				continue
			}
			kv := strings.SplitN(subPart, ":", 2)
			if len(kv) == 2 {
				entry[kv[0]] = kv[1]
			} else {
				entry[kv[0]] = ""
			}
		}
		if len(entry) > 0 {
			result = append(result, entry)
		}
	}
	return result
}

// parseOrder: 1 (tăng dần) hoặc -1 (giảm dần)
func parseOrder(cfg map[string]string) int {
	if cfg["order"] == "-1" {
		return -1
	}
	return 1
}

// bsonName lấy tên field trong bson tag, bỏ phần ",omitempty"
func bsonName(field reflect.StructField) string {
	name := strings.Split(field.Tag.Get("bson"), ",")[0]
	if name == "-" {
		return ""
	}
	return name
}

// IndexSpecsFor đọc struct tag `index` của model và trả về danh sách index.
// Mọi field gắn "text" được gộp vào một text index duy nhất (MongoDB chỉ cho phép một text index mỗi collection).
func IndexSpecsFor(collectionName string, model interface{}) ([]IndexSpec, error) {
	modelType := reflect.TypeOf(model)
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	var specs []IndexSpec
	var textKeys, textWeights bson.D
	compound := map[string]*IndexSpec{}
	var compoundOrder []string

	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		tag, ok := field.Tag.Lookup("index")
		if !ok {
			continue
		}
		name := bsonName(field)
		if name == "" {
			continue
		}

		for _, cfg := range parseIndexTag(tag) {
			if _, ok := cfg["text"]; ok {
				weight := 1
				if w, err := strconv.Atoi(cfg["weight"]); err == nil && w > 0 {
					weight = w
				}
				textKeys = append(textKeys, bson.E{Key: name, Value: "text"})
				textWeights = append(textWeights, bson.E{Key: name, Value: weight})
			}

			if _, ok := cfg["single"]; ok {
				specs = append(specs, IndexSpec{
					Name: name + "_single",
					Keys: bson.D{{Key: name, Value: parseOrder(cfg)}},
				})
			}

			if _, ok := cfg["unique"]; ok {
				_, sparse := cfg["sparse"]
				specs = append(specs, IndexSpec{
					Name:   name + "_unique",
					Keys:   bson.D{{Key: name, Value: 1}},
					Unique: true,
					Sparse: sparse,
				})
			}

			if ttlValue, ok := cfg["ttl"]; ok {
				ttl, err := strconv.Atoi(ttlValue)
				if err != nil {
					return nil, fmt.Errorf("TTL không hợp lệ ở field %s: %w", name, err)
				}
				secs := int32(ttl)
				specs = append(specs, IndexSpec{
					Name: name + "_ttl",
					Keys: bson.D{{Key: name, Value: 1}},
					TTL:  &secs,
				})
			}

			if group, ok := cfg["compound"]; ok {
				spec, exists := compound[group]
				if !exists {
					spec = &IndexSpec{Name: group}
					compound[group] = spec
					compoundOrder = append(compoundOrder, group)
				}
				spec.Keys = append(spec.Keys, bson.E{Key: name, Value: parseOrder(cfg)})
				// Tên group chứa "_unique" thì index là unique
				if strings.Contains(group, "_unique") {
					spec.Unique = true
				}
				if _, sparse := cfg["sparse"]; sparse {
					spec.Sparse = true
				}
			}
		}
	}

	for _, group := range compoundOrder {
		specs = append(specs, *compound[group])
	}
	if len(textKeys) > 0 {
		specs = append(specs, IndexSpec{
			Name:    collectionName + "_text",
			Keys:    textKeys,
			Weights: textWeights,
		})
	}
	return specs, nil
}

func (s IndexSpec) options() *options.IndexOptions {
	opts := options.Index().SetName(s.Name)
	if s.Unique {
		opts.SetUnique(true)
	}
	if s.Sparse {
		opts.SetSparse(true)
	}
	if s.TTL != nil {
		opts.SetExpireAfterSeconds(*s.TTL)
	}
	if len(s.Weights) > 0 {
		opts.SetWeights(s.Weights)
	}
	return opts
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

// matches so sánh index đang có trong MongoDB với spec
func (s IndexSpec) matches(existing bson.M) bool {
	unique, _ := existing["unique"].(bool)
	if unique != s.Unique {
		return false
	}
	sparse, _ := existing["sparse"].(bool)
	if sparse != s.Sparse {
		return false
	}
	if s.TTL != nil {
		ttl, ok := toInt(existing["expireAfterSeconds"])
		if !ok || ttl != int(*s.TTL) {
			return false
		}
	}

	// Text index lưu key dạng {_fts, _ftsx}, so sánh bằng weights
	if len(s.Weights) > 0 {
		weights, ok := existing["weights"].(bson.M)
		if !ok || len(weights) != len(s.Weights) {
			return false
		}
		for _, w := range s.Weights {
			got, ok := toInt(weights[w.Key])
			if !ok || got != w.Value.(int) {
				return false
			}
		}
		return true
	}

	keys, ok := existing["key"].(bson.M)
	if !ok || len(keys) != len(s.Keys) {
		return false
	}
	for _, k := range s.Keys {
		got, ok := toInt(keys[k.Key])
		if !ok || got != k.Value.(int) {
			return false
		}
	}
	return true
}

// CreateIndexes đồng bộ index của collection theo struct tag của model.
// Index trùng tên nhưng khác cấu hình sẽ bị xóa rồi tạo lại.
func CreateIndexes(ctx context.Context, collection *mongo.Collection, model interface{}) error {
	log := logger.WithModule("database").WithField("collection", collection.Name())

	specs, err := IndexSpecsFor(collection.Name(), model)
	if err != nil {
		return err
	}

	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("không thể lấy danh sách index: %w", err)
	}
	var existingList []bson.M
	if err := cursor.All(ctx, &existingList); err != nil {
		return fmt.Errorf("không thể giải mã thông tin index: %w", err)
	}
	existing := map[string]bson.M{}
	for _, idx := range existingList {
		if name, ok := idx["name"].(string); ok {
			existing[name] = idx
		}
	}

	sort.SliceStable(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	for _, spec := range specs {
		if current, ok := existing[spec.Name]; ok {
			if spec.matches(current) {
				log.Debugf("Index %s đã tồn tại và đúng cấu hình, bỏ qua", spec.Name)
				continue
			}
			if _, err := collection.Indexes().DropOne(ctx, spec.Name); err != nil {
				return fmt.Errorf("không thể xóa index %s: %w", spec.Name, err)
			}
			log.Infof("Đã xóa index cũ: %s", spec.Name)
		}

		if _, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    spec.Keys,
			Options: spec.options(),
		}); err != nil {
			return fmt.Errorf("không thể tạo index %s: %w", spec.Name, err)
		}
		log.Infof("Đã tạo index: %s", spec.Name)
	}

	return nil
}
