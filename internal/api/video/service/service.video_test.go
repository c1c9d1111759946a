package videosvc

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	basemodels "videotube/internal/api/base/models"
	basesvc "videotube/internal/api/base/service"
	videodto "videotube/internal/api/video/dto"
	"videotube/internal/api/video/models"
	"videotube/internal/asset"
	"videotube/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ====================================
// FAKES
// ====================================

// memStore giữ videos + watchHistory của users trong bộ nhớ, đóng vai cả hai repository
type memStore struct {
	mu        sync.Mutex
	videos    map[primitive.ObjectID]models.Video
	histories map[primitive.ObjectID][]primitive.ObjectID
	likes     map[primitive.ObjectID]int
	clock     int64
	insertErr error
	updateErr error
	detailErr error
}

func newMemStore() *memStore {
	return &memStore{
		videos:    map[primitive.ObjectID]models.Video{},
		histories: map[primitive.ObjectID][]primitive.ObjectID{},
		likes:     map[primitive.ObjectID]int{},
		clock:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
	}
}

func (m *memStore) InsertOne(_ context.Context, v models.Video) (models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return models.Video{}, m.insertErr
	}
	m.clock++
	v.ID = primitive.NewObjectID()
	v.CreatedAt, v.UpdatedAt = m.clock, m.clock
	m.videos[v.ID] = v
	return v, nil
}

func (m *memStore) FindOneById(_ context.Context, id primitive.ObjectID) (models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.videos[id]
	if !ok {
		return models.Video{}, common.ErrNotFound
	}
	return v, nil
}

func (m *memStore) UpdateById(_ context.Context, id primitive.ObjectID, update *basesvc.UpdateData) (models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return models.Video{}, m.updateErr
	}
	v, ok := m.videos[id]
	if !ok {
		return models.Video{}, common.ErrNotFound
	}
	for key, value := range update.Set {
		switch key {
		case "title":
			v.Title = value.(string)
		case "description":
			v.Description = value.(string)
		case "thumbnail":
			v.Thumbnail = value.(asset.Ref)
		}
	}
	m.videos[id] = v
	return v, nil
}

func (m *memStore) DeleteById(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.videos[id]; !ok {
		return common.ErrNotFound
	}
	delete(m.videos, id)
	return nil
}

func (m *memStore) visible(v models.Video, viewer *primitive.ObjectID) bool {
	return v.IsPublished || (viewer != nil && *viewer == v.Owner)
}

func (m *memStore) FindFeed(_ context.Context, f FeedFilter, page, limit int64) (*basemodels.PaginateResult[models.VideoFeedItem], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := []models.VideoFeedItem{}
	for _, v := range m.videos {
		if !v.IsPublished || (f.Owner != nil && *f.Owner != v.Owner) {
			continue
		}
		items = append(items, models.VideoFeedItem{Video: v})
	}
	key := func(v models.Video) float64 {
		switch f.SortField {
		case "views":
			return float64(v.Views)
		case "duration":
			return v.Duration
		}
		return float64(v.CreatedAt)
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := key(items[i].Video), key(items[j].Video)
		if a == b {
			return items[i].ID.Hex() < items[j].ID.Hex() == (f.SortDir > 0)
		}
		return a < b == (f.SortDir > 0)
	})
	total := int64(len(items))
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return basemodels.NewPaginateResult(items[start:end], page, limit, total), nil
}

func (m *memStore) FindDetail(_ context.Context, id primitive.ObjectID, viewer *primitive.ObjectID) (*models.VideoDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.detailErr != nil {
		return nil, m.detailErr
	}
	v, ok := m.videos[id]
	if !ok || !m.visible(v, viewer) {
		return nil, common.NotFound("Không tìm thấy video")
	}
	return &models.VideoDetail{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		VideoFile:   v.VideoFile.URL,
		Thumbnail:   v.Thumbnail.URL,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		LikesCount:  int64(m.likes[id]),
	}, nil
}

func (m *memStore) IncrementViews(_ context.Context, id primitive.ObjectID, viewer *primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.videos[id]
	if !ok || !m.visible(v, viewer) {
		return common.NotFound("Không tìm thấy video")
	}
	v.Views++
	m.videos[id] = v
	return nil
}

func (m *memStore) TogglePublished(_ context.Context, id primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.videos[id]
	if !ok {
		return false, common.ErrNotFound
	}
	v.IsPublished = !v.IsPublished
	m.videos[id] = v
	return v.IsPublished, nil
}

func (m *memStore) DeleteLikes(_ context.Context, id primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.likes[id]
	delete(m.likes, id)
	return int64(n), nil
}

func (m *memStore) AppendWatchHistory(_ context.Context, userID, videoID primitive.ObjectID) ([]primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histories[userID] = append(m.histories[userID], videoID)
	return append([]primitive.ObjectID{}, m.histories[userID]...), nil
}

func (m *memStore) PullFromAllWatchHistories(_ context.Context, videoID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var modified int64
	for user, history := range m.histories {
		kept := history[:0:0]
		for _, id := range history {
			if id != videoID {
				kept = append(kept, id)
			}
		}
		if len(kept) != len(history) {
			modified++
		}
		m.histories[user] = kept
	}
	return modified, nil
}

func (m *memStore) video(id primitive.ObjectID) (models.Video, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.videos[id]
	return v, ok
}

type fakeAssets struct {
	mu         sync.Mutex
	uploads    int
	failUpload map[int]bool // lần upload thứ n (1-based) bị lỗi
	failDelete bool
	deleted    []string
}

func (a *fakeAssets) Upload(_ context.Context, _ string, kind asset.Kind) (*asset.UploadResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.uploads++
	if a.failUpload[a.uploads] {
		return nil, errors.New("asset host down")
	}
	id := string(kind) + "s/" + primitive.NewObjectID().Hex()
	result := &asset.UploadResult{URL: "https://cdn.test/" + id, PublicID: id}
	if kind == asset.KindVideo {
		result.Duration = 12.5
	}
	return result, nil
}

func (a *fakeAssets) Delete(_ context.Context, publicID string, _ asset.Kind) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failDelete {
		return errors.New("asset host down")
	}
	a.deleted = append(a.deleted, publicID)
	return nil
}

type fakeOrphans struct {
	mu     sync.Mutex
	queued []string
}

func (q *fakeOrphans) Enqueue(_ context.Context, publicID string, _ asset.Kind, _ string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queued = append(q.queued, publicID)
	return nil
}

type fixture struct {
	store   *memStore
	assets  *fakeAssets
	orphans *fakeOrphans
	svc     *VideoService
}

func newFixture() *fixture {
	f := &fixture{
		store:   newMemStore(),
		assets:  &fakeAssets{failUpload: map[int]bool{}},
		orphans: &fakeOrphans{},
	}
	f.svc = NewVideoService(f.store, f.store, f.assets, f.orphans)
	return f
}

func (f *fixture) publish(t *testing.T, owner primitive.ObjectID, title string) *models.Video {
	t.Helper()
	v, err := f.svc.PublishVideo(context.Background(), owner, PublishInput{
		Title:         title,
		Description:   "D",
		VideoPath:     "/tmp/v.mp4",
		ThumbnailPath: "/tmp/t.png",
	})
	require.NoError(t, err)
	return v
}

// ====================================
// TESTS
// ====================================

func TestVideoLifecycleScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	v := f.publish(t, owner, "T")
	assert.Equal(t, "T", v.Title)
	assert.Equal(t, "D", v.Description)
	assert.True(t, v.IsPublished)
	assert.Equal(t, int64(0), v.Views)
	assert.Equal(t, owner, v.Owner)
	assert.Equal(t, 12.5, v.Duration)

	got, err := f.svc.GetVideoByID(ctx, v.ID, &owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Video.Views)
	assert.Equal(t, []primitive.ObjectID{v.ID}, got.WatchHistory)

	got, err = f.svc.GetVideoByID(ctx, v.ID, &owner)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Video.Views)
	assert.Equal(t, []primitive.ObjectID{v.ID, v.ID}, got.WatchHistory)

	// user khác cũng xem để kiểm tra việc gỡ khỏi mọi history
	_, err = f.svc.GetVideoByID(ctx, v.ID, &other)
	require.NoError(t, err)

	toggled, err := f.svc.TogglePublishStatus(ctx, owner, v.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsPublished)

	toggled, err = f.svc.TogglePublishStatus(ctx, owner, v.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsPublished)

	require.NoError(t, f.svc.DeleteVideo(ctx, owner, v.ID))
	_, exists := f.store.video(v.ID)
	assert.False(t, exists)
	for user, history := range f.store.histories {
		assert.NotContains(t, history, v.ID, "history of %s", user.Hex())
	}
	assert.ElementsMatch(t, []string{v.VideoFile.PublicID, v.Thumbnail.PublicID}, f.assets.deleted)

	_, err = f.svc.GetVideoByID(ctx, v.ID, &owner)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetVideoByID(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID()

	t.Run("N lần xem tăng N view và N entry history", func(t *testing.T) {
		f := newFixture()
		v := f.publish(t, owner, "T")
		viewer := primitive.NewObjectID()

		var last *videodto.GetVideoResult
		for i := 0; i < 5; i++ {
			var err error
			last, err = f.svc.GetVideoByID(ctx, v.ID, &viewer)
			require.NoError(t, err)
		}
		assert.Equal(t, int64(5), last.Video.Views)
		assert.Len(t, last.WatchHistory, 5)
	})

	t.Run("anonymous: tăng view, history rỗng", func(t *testing.T) {
		f := newFixture()
		v := f.publish(t, owner, "T")

		got, err := f.svc.GetVideoByID(ctx, v.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Video.Views)
		assert.NotNil(t, got.WatchHistory)
		assert.Empty(t, got.WatchHistory)
		assert.Empty(t, f.store.histories)
	})

	t.Run("không tồn tại thì NotFound và không có side effect", func(t *testing.T) {
		f := newFixture()
		viewer := primitive.NewObjectID()

		_, err := f.svc.GetVideoByID(ctx, primitive.NewObjectID(), &viewer)
		assert.ErrorIs(t, err, common.ErrNotFound)
		assert.Empty(t, f.store.histories[viewer])
	})

	t.Run("aggregate lỗi thì không tăng view, không ghi history", func(t *testing.T) {
		f := newFixture()
		v := f.publish(t, owner, "T")
		viewer := primitive.NewObjectID()
		f.store.detailErr = common.NewError(common.ErrCodeDatabaseQuery, "aggregate failed", common.StatusInternalServerError, nil)

		_, err := f.svc.GetVideoByID(ctx, v.ID, &viewer)
		require.Error(t, err)
		stored, _ := f.store.video(v.ID)
		assert.Equal(t, int64(0), stored.Views)
		assert.Empty(t, f.store.histories[viewer])

		f.store.detailErr = nil
		got, err := f.svc.GetVideoByID(ctx, v.ID, &viewer)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Video.Views)
	})

	t.Run("video chưa publish chỉ owner xem được", func(t *testing.T) {
		f := newFixture()
		v := f.publish(t, owner, "T")
		_, err := f.svc.TogglePublishStatus(ctx, owner, v.ID)
		require.NoError(t, err)

		stranger := primitive.NewObjectID()
		_, err = f.svc.GetVideoByID(ctx, v.ID, &stranger)
		assert.ErrorIs(t, err, common.ErrNotFound)
		_, err = f.svc.GetVideoByID(ctx, v.ID, nil)
		assert.ErrorIs(t, err, common.ErrNotFound)

		stored, _ := f.store.video(v.ID)
		assert.Equal(t, int64(0), stored.Views)

		got, err := f.svc.GetVideoByID(ctx, v.ID, &owner)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Video.Views)
	})
}

func TestPublishVideo(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID()
	valid := PublishInput{Title: "T", Description: "D", VideoPath: "/tmp/v.mp4", ThumbnailPath: "/tmp/t.png"}

	t.Run("thiếu field bắt buộc", func(t *testing.T) {
		cases := map[string]func(in *PublishInput){
			"blank title":       func(in *PublishInput) { in.Title = "   " },
			"blank description": func(in *PublishInput) { in.Description = "" },
			"no video file":     func(in *PublishInput) { in.VideoPath = "" },
			"no thumbnail":      func(in *PublishInput) { in.ThumbnailPath = "" },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				f := newFixture()
				in := valid
				mutate(&in)

				_, err := f.svc.PublishVideo(ctx, owner, in)
				assert.ErrorIs(t, err, common.ErrInvalidInput)
				assert.Zero(t, f.assets.uploads)
				assert.Empty(t, f.store.videos)
			})
		}
	})

	t.Run("upload video lỗi thì Upstream", func(t *testing.T) {
		f := newFixture()
		f.assets.failUpload[1] = true

		_, err := f.svc.PublishVideo(ctx, owner, valid)
		assert.ErrorIs(t, err, common.ErrUpstream)
		assert.Empty(t, f.store.videos)
	})

	t.Run("upload thumbnail lỗi thì xóa video đã upload", func(t *testing.T) {
		f := newFixture()
		f.assets.failUpload[2] = true

		_, err := f.svc.PublishVideo(ctx, owner, valid)
		assert.ErrorIs(t, err, common.ErrUpstream)
		assert.Len(t, f.assets.deleted, 1)
		assert.Empty(t, f.store.videos)
	})

	t.Run("insert lỗi thì xóa cả hai, xóa lỗi thì vào hàng đợi", func(t *testing.T) {
		f := newFixture()
		f.store.insertErr = common.ErrConnection
		f.assets.failDelete = true

		_, err := f.svc.PublishVideo(ctx, owner, valid)
		assert.ErrorIs(t, err, common.ErrConnection)
		assert.Len(t, f.orphans.queued, 2)
	})

	t.Run("title/description được trim", func(t *testing.T) {
		f := newFixture()
		in := valid
		in.Title = "  Hello  "
		v, err := f.svc.PublishVideo(ctx, owner, in)
		require.NoError(t, err)
		assert.Equal(t, "Hello", v.Title)
	})
}

func TestOwnershipGuards(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	f := newFixture()
	v := f.publish(t, owner, "T")
	before, _ := f.store.video(v.ID)

	_, err := f.svc.UpdateVideo(ctx, stranger, v.ID, UpdateInput{Title: "hacked", ThumbnailPath: "/tmp/t.png"})
	assert.ErrorIs(t, err, common.ErrForbidden)

	err = f.svc.DeleteVideo(ctx, stranger, v.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = f.svc.TogglePublishStatus(ctx, stranger, v.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)

	after, ok := f.store.video(v.ID)
	require.True(t, ok)
	assert.Equal(t, before, after)
	// 2 upload lúc publish, không có upload nào từ stranger
	assert.Equal(t, 2, f.assets.uploads)
	assert.Empty(t, f.assets.deleted)

	missing := primitive.NewObjectID()
	_, err = f.svc.UpdateVideo(ctx, owner, missing, UpdateInput{Title: "x"})
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteVideo(ctx, owner, missing), common.ErrNotFound)
	_, err = f.svc.TogglePublishStatus(ctx, owner, missing)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateVideo(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID()

	t.Run("không có field nào thì InvalidArgument", func(t *testing.T) {
		f := newFixture()
		v := f.publish(t, owner, "T")
		before, _ := f.store.video(v.ID)

		_, err := f.svc.UpdateVideo(ctx, owner, v.ID, UpdateInput{Title: "  ", Description: ""})
		assert.ErrorIs(t, err, common.ErrInvalidInput)

		after, _ := f.store.video(v.ID)
		assert.Equal(t, before, after)
	})

	t.Run("chỉ cập nhật field được gửi", func(t *testing.T) {
		f := newFixture()
		v := f.publish(t, owner, "T")

		updated, err := f.svc.UpdateVideo(ctx, owner, v.ID, UpdateInput{Title: "New"})
		require.NoError(t, err)
		assert.Equal(t, "New", updated.Title)
		assert.Equal(t, "D", updated.Description)
		assert.Equal(t, v.Thumbnail, updated.Thumbnail)
		assert.Empty(t, f.assets.deleted)
	})

	t.Run("thumbnail mới: ghi xong mới xóa thumbnail cũ", func(t *testing.T) {
		f := newFixture()
		v := f.publish(t, owner, "T")

		updated, err := f.svc.UpdateVideo(ctx, owner, v.ID, UpdateInput{ThumbnailPath: "/tmp/new.png"})
		require.NoError(t, err)
		assert.NotEqual(t, v.Thumbnail.PublicID, updated.Thumbnail.PublicID)
		assert.Equal(t, []string{v.Thumbnail.PublicID}, f.assets.deleted)
	})

	t.Run("ghi lỗi thì xóa thumbnail mới, giữ thumbnail cũ", func(t *testing.T) {
		f := newFixture()
		v := f.publish(t, owner, "T")
		f.store.updateErr = common.ErrConnection

		_, err := f.svc.UpdateVideo(ctx, owner, v.ID, UpdateInput{ThumbnailPath: "/tmp/new.png"})
		assert.ErrorIs(t, err, common.ErrConnection)
		require.Len(t, f.assets.deleted, 1)
		assert.NotEqual(t, v.Thumbnail.PublicID, f.assets.deleted[0])

		stored, _ := f.store.video(v.ID)
		assert.Equal(t, v.Thumbnail, stored.Thumbnail)
	})

	t.Run("upload thumbnail lỗi thì Upstream, record giữ nguyên", func(t *testing.T) {
		f := newFixture()
		v := f.publish(t, owner, "T")
		f.assets.failUpload[3] = true

		_, err := f.svc.UpdateVideo(ctx, owner, v.ID, UpdateInput{Title: "New", ThumbnailPath: "/tmp/new.png"})
		assert.ErrorIs(t, err, common.ErrUpstream)
		stored, _ := f.store.video(v.ID)
		assert.Equal(t, "T", stored.Title)
	})

	t.Run("record biến mất giữa chừng thì Internal", func(t *testing.T) {
		f := newFixture()
		v := f.publish(t, owner, "T")
		f.store.updateErr = common.ErrNotFound

		_, err := f.svc.UpdateVideo(ctx, owner, v.ID, UpdateInput{Title: "New"})
		assert.ErrorIs(t, err, common.ErrInternal)
	})
}

func TestDeleteVideo(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID()

	t.Run("xóa asset lỗi vẫn thành công, asset vào hàng đợi", func(t *testing.T) {
		f := newFixture()
		v := f.publish(t, owner, "T")
		f.store.likes[v.ID] = 3
		f.assets.failDelete = true

		require.NoError(t, f.svc.DeleteVideo(ctx, owner, v.ID))
		_, exists := f.store.video(v.ID)
		assert.False(t, exists)
		assert.Zero(t, f.store.likes[v.ID])
		assert.ElementsMatch(t, []string{v.VideoFile.PublicID, v.Thumbnail.PublicID}, f.orphans.queued)
	})

	t.Run("chỉ gỡ đúng video khỏi history", func(t *testing.T) {
		f := newFixture()
		a := f.publish(t, owner, "A")
		b := f.publish(t, owner, "B")
		viewer := primitive.NewObjectID()
		for _, id := range []primitive.ObjectID{a.ID, b.ID, a.ID} {
			_, err := f.svc.GetVideoByID(ctx, id, &viewer)
			require.NoError(t, err)
		}

		require.NoError(t, f.svc.DeleteVideo(ctx, owner, a.ID))
		assert.Equal(t, []primitive.ObjectID{b.ID}, f.store.histories[viewer])
	})
}

func TestListVideos(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID()
	f := newFixture()

	first := f.publish(t, owner, "first")
	second := f.publish(t, owner, "second")
	hidden := f.publish(t, owner, "hidden")
	_, err := f.svc.TogglePublishStatus(ctx, owner, hidden.ID)
	require.NoError(t, err)
	other := f.publish(t, primitive.NewObjectID(), "other")

	for i := 0; i < 3; i++ {
		_, err := f.svc.GetVideoByID(ctx, first.ID, nil)
		require.NoError(t, err)
	}

	t.Run("mặc định: chỉ published, createdAt giảm dần", func(t *testing.T) {
		page, err := f.svc.ListVideos(ctx, videodto.ListVideosQuery{})
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		assert.Equal(t, other.ID, page.Items[0].ID)
		assert.Equal(t, second.ID, page.Items[1].ID)
		assert.Equal(t, first.ID, page.Items[2].ID)
		for _, item := range page.Items {
			assert.True(t, item.IsPublished)
		}
	})

	t.Run("sort views asc", func(t *testing.T) {
		page, err := f.svc.ListVideos(ctx, videodto.ListVideosQuery{SortBy: "views", SortType: "asc"})
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		for i := 1; i < len(page.Items); i++ {
			assert.LessOrEqual(t, page.Items[i-1].Views, page.Items[i].Views)
		}
		assert.Equal(t, first.ID, page.Items[2].ID)
	})

	t.Run("lọc theo owner + phân trang", func(t *testing.T) {
		page, err := f.svc.ListVideos(ctx, videodto.ListVideosQuery{UserID: owner.Hex(), Limit: i64(1), Page: i64(2)})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
		assert.Equal(t, int64(2), page.TotalPage)
		require.Len(t, page.Items, 1)
		assert.Equal(t, first.ID, page.Items[0].ID)
		assert.True(t, page.HasPrevPage)
		assert.False(t, page.HasNextPage)
	})

	t.Run("query không hợp lệ", func(t *testing.T) {
		for _, q := range []videodto.ListVideosQuery{
			{UserID: "nope"},
			{SortBy: "title"},
			{SortType: "up"},
			{Page: i64(-1)},
			{Page: i64(0)},
		} {
			_, err := f.svc.ListVideos(ctx, q)
			assert.ErrorIs(t, err, common.ErrInvalidInput, "%+v", q)
		}
	})
}
