package videosvc

import (
	"math"
	"testing"

	videodto "videotube/internal/api/video/dto"
	"videotube/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func stageName(stage bson.D) string {
	if len(stage) == 0 {
		return ""
	}
	return stage[0].Key
}

func stageValue(stage bson.D) bson.D {
	return stage[0].Value.(bson.D)
}

func i64(v int64) *int64 { return &v }

func TestParseFeedQuery(t *testing.T) {
	owner := primitive.NewObjectID()

	t.Run("mặc định", func(t *testing.T) {
		f, page, limit, err := ParseFeedQuery(videodto.ListVideosQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page)
		assert.Equal(t, int64(10), limit)
		assert.Equal(t, "createdAt", f.SortField)
		assert.Equal(t, -1, f.SortDir)
		assert.Nil(t, f.Owner)
		assert.Empty(t, f.Query)
	})

	t.Run("đầy đủ tham số", func(t *testing.T) {
		f, page, limit, err := ParseFeedQuery(videodto.ListVideosQuery{
			Page: i64(3), Limit: i64(500), Query: "  café ", SortBy: "views", SortType: "ASC", UserID: owner.Hex(),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page)
		assert.Equal(t, int64(MaxFeedLimit), limit)
		assert.Equal(t, "views", f.SortField)
		assert.Equal(t, 1, f.SortDir)
		require.NotNil(t, f.Owner)
		assert.Equal(t, owner, *f.Owner)
		assert.Equal(t, "café", f.Query)
	})

	tests := []struct {
		name string
		q    videodto.ListVideosQuery
	}{
		{"page âm", videodto.ListVideosQuery{Page: i64(-1)}},
		{"page = 0", videodto.ListVideosQuery{Page: i64(0)}},
		{"limit âm", videodto.ListVideosQuery{Limit: i64(-5)}},
		{"limit = 0", videodto.ListVideosQuery{Limit: i64(0)}},
		{"page tràn skip", videodto.ListVideosQuery{Page: i64(math.MaxInt64 / 10 * 2), Limit: i64(10)}},
		{"page lớn nhất", videodto.ListVideosQuery{Page: i64(math.MaxInt64)}},
		{"userId sai", videodto.ListVideosQuery{UserID: "abc"}},
		{"sortBy ngoài tập cho phép", videodto.ListVideosQuery{SortBy: "title"}},
		{"sortType sai", videodto.ListVideosQuery{SortType: "random"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := ParseFeedQuery(tt.q)
			assert.ErrorIs(t, err, common.ErrInvalidInput)
		})
	}
}

func TestFeedPipeline(t *testing.T) {
	t.Run("không filter", func(t *testing.T) {
		p := FeedPipeline(FeedFilter{SortField: "createdAt", SortDir: -1}, "users")
		require.Len(t, p, 4)
		assert.Equal(t, "$match", stageName(p[0]))
		assert.Equal(t, bson.D{{Key: "isPublished", Value: true}}, stageValue(p[0]))
		assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}, stageValue(p[1]))
		assert.Equal(t, "$lookup", stageName(p[2]))
		assert.Equal(t, "$unwind", stageName(p[3]))
	})

	t.Run("$text luôn đứng đầu", func(t *testing.T) {
		owner := primitive.NewObjectID()
		p := FeedPipeline(FeedFilter{Query: "go", Owner: &owner, SortField: "views", SortDir: 1}, "users")
		require.Len(t, p, 6)
		assert.Equal(t, bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: "go"}}}}, stageValue(p[0]))
		assert.Equal(t, bson.D{{Key: "owner", Value: owner}}, stageValue(p[1]))
		assert.Equal(t, bson.D{{Key: "isPublished", Value: true}}, stageValue(p[2]))
		assert.Equal(t, bson.D{{Key: "views", Value: 1}, {Key: "_id", Value: 1}}, stageValue(p[3]))
	})

	t.Run("field lạ rơi về createdAt", func(t *testing.T) {
		p := FeedPipeline(FeedFilter{SortField: "title"}, "users")
		assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}, stageValue(p[1]))
	})

	t.Run("lookup vào đúng collection", func(t *testing.T) {
		p := FeedPipeline(FeedFilter{}, "people")
		lookup := stageValue(p[2]).Map()
		assert.Equal(t, "people", lookup["from"])
		assert.Equal(t, "ownerDetails", lookup["as"])
	})
}

func TestDetailPipeline(t *testing.T) {
	id := primitive.NewObjectID()
	colls := DetailCollections{Users: "users", Likes: "likes", Subscriptions: "subscriptions"}

	t.Run("anonymous dùng literal false", func(t *testing.T) {
		p := DetailPipeline(id, nil, colls)
		require.Len(t, p, 5)
		assert.Equal(t, bson.D{{Key: "_id", Value: id}, {Key: "isPublished", Value: true}}, stageValue(p[0]))

		addFields := stageValue(p[3]).Map()
		assert.Equal(t, bson.D{{Key: "$literal", Value: false}}, addFields["isLiked"])

		ownerLookup := stageValue(p[2]).Map()
		ownerStages := ownerLookup["pipeline"].(bson.A)
		ownerFields := stageValue(ownerStages[1].(bson.D)).Map()
		assert.Equal(t, bson.D{{Key: "$literal", Value: false}}, ownerFields["isSubscribed"])
	})

	t.Run("có viewer thì test membership", func(t *testing.T) {
		viewer := primitive.NewObjectID()
		p := DetailPipeline(id, &viewer, colls)

		match := stageValue(p[0]).Map()
		assert.Equal(t, id, match["_id"])
		assert.Equal(t, bson.A{
			bson.D{{Key: "isPublished", Value: true}},
			bson.D{{Key: "owner", Value: viewer}},
		}, match["$or"])

		addFields := stageValue(p[3]).Map()
		assert.Equal(t, bson.D{{Key: "$in", Value: bson.A{viewer, "$likes.likedBy"}}}, addFields["isLiked"])
		assert.Equal(t, bson.D{{Key: "$size", Value: "$likes"}}, addFields["likesCount"])
	})
}

func TestTogglePublishedUpdate(t *testing.T) {
	p := togglePublishedUpdate()
	require.Len(t, p, 1)
	set := stageValue(p[0]).Map()
	assert.Equal(t, bson.D{{Key: "$not", Value: bson.A{"$isPublished"}}}, set["isPublished"])
}
