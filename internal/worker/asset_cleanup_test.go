package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	cleanupmodels "videotube/internal/api/cleanup/models"
	"videotube/internal/asset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeQueue struct {
	mu      sync.Mutex
	due     []cleanupmodels.AssetCleanupItem
	done    []primitive.ObjectID
	retries map[primitive.ObjectID]error
}

func (q *fakeQueue) ClaimDue(_ context.Context, limit int) ([]cleanupmodels.AssetCleanupItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if limit > len(q.due) {
		limit = len(q.due)
	}
	out := q.due[:limit]
	q.due = q.due[limit:]
	return out, nil
}

func (q *fakeQueue) MarkDone(_ context.Context, id primitive.ObjectID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.done = append(q.done, id)
	return nil
}

func (q *fakeQueue) MarkRetry(_ context.Context, item cleanupmodels.AssetCleanupItem, cause error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.retries == nil {
		q.retries = map[primitive.ObjectID]error{}
	}
	q.retries[item.ID] = cause
	return nil
}

type fakeStore struct {
	failing map[string]bool
	deleted []string
}

func (s *fakeStore) Upload(context.Context, string, asset.Kind) (*asset.UploadResult, error) {
	return nil, errors.New("not used")
}

func (s *fakeStore) Delete(_ context.Context, publicID string, _ asset.Kind) error {
	if s.failing[publicID] {
		return errors.New("upstream unavailable")
	}
	s.deleted = append(s.deleted, publicID)
	return nil
}

func item(publicID string) cleanupmodels.AssetCleanupItem {
	return cleanupmodels.AssetCleanupItem{
		ID:       primitive.NewObjectID(),
		PublicID: publicID,
		Kind:     string(asset.KindImage),
		Status:   cleanupmodels.StatusProcessing,
	}
}

func TestAssetCleanupWorker_RunOnce(t *testing.T) {
	ok1, ok2, bad := item("images/a.jpg"), item("images/b.jpg"), item("images/c.jpg")
	queue := &fakeQueue{due: []cleanupmodels.AssetCleanupItem{ok1, bad, ok2}}
	store := &fakeStore{failing: map[string]bool{"images/c.jpg": true}}

	w := NewAssetCleanupWorker(queue, store, 0, 10)
	deleted, retried, err := w.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, deleted)
	assert.Equal(t, 1, retried)
	assert.ElementsMatch(t, []primitive.ObjectID{ok1.ID, ok2.ID}, queue.done)
	assert.Contains(t, queue.retries, bad.ID)
	assert.Equal(t, []string{"images/a.jpg", "images/b.jpg"}, store.deleted)
}

func TestAssetCleanupWorker_RespectsBatch(t *testing.T) {
	queue := &fakeQueue{due: []cleanupmodels.AssetCleanupItem{item("images/1.jpg"), item("images/2.jpg"), item("images/3.jpg")}}
	w := NewAssetCleanupWorker(queue, &fakeStore{}, 0, 2)

	deleted, _, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.Len(t, queue.due, 1)
}

func TestAssetCleanupWorker_TickRecoversPanic(t *testing.T) {
	w := NewAssetCleanupWorker(&panicQueue{}, &fakeStore{}, 0, 1)
	assert.NotPanics(t, func() { w.tick(context.Background()) })
}

type panicQueue struct{ fakeQueue }

func (*panicQueue) ClaimDue(context.Context, int) ([]cleanupmodels.AssetCleanupItem, error) {
	panic("boom")
}
