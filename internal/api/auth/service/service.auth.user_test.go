package authsvc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	authdto "videotube/internal/api/auth/dto"
	models "videotube/internal/api/auth/models"
	"videotube/internal/asset"
	"videotube/internal/common"
	"videotube/internal/utility"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ====================================
// FAKES
// ====================================

type fakeUsers struct {
	mu        sync.Mutex
	byID      map[primitive.ObjectID]models.User
	createErr error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[primitive.ObjectID]models.User{}}
}

func (f *fakeUsers) Create(_ context.Context, user models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return models.User{}, f.createErr
	}
	user.ID = primitive.NewObjectID()
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return models.User{}, common.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) FindByLogin(_ context.Context, username, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			return u, nil
		}
	}
	return models.User{}, common.ErrNotFound
}

func (f *fakeUsers) SetRefreshToken(_ context.Context, id primitive.ObjectID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	u.RefreshToken = token
	f.byID[id] = u
	return nil
}

func (f *fakeUsers) WatchHistory(context.Context, primitive.ObjectID) ([]models.WatchedVideo, error) {
	return []models.WatchedVideo{}, nil
}

type fakeAssets struct {
	uploads    int
	failUpload map[int]bool // lần upload thứ n (1-based) bị lỗi
	failDelete bool
	deleted    []string
}

func (a *fakeAssets) Upload(_ context.Context, localPath string, kind asset.Kind) (*asset.UploadResult, error) {
	a.uploads++
	if a.failUpload[a.uploads] {
		return nil, errors.New("asset host down")
	}
	id := string(kind) + "s/" + primitive.NewObjectID().Hex()
	return &asset.UploadResult{URL: "https://cdn.test/" + id, PublicID: id}, nil
}

func (a *fakeAssets) Delete(_ context.Context, publicID string, _ asset.Kind) error {
	if a.failDelete {
		return errors.New("asset host down")
	}
	a.deleted = append(a.deleted, publicID)
	return nil
}

type fakeOrphans struct{ queued []string }

func (q *fakeOrphans) Enqueue(_ context.Context, publicID string, _ asset.Kind, _ string) error {
	q.queued = append(q.queued, publicID)
	return nil
}

func testTokens() utility.TokenSettings {
	return utility.TokenSettings{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	}
}

func newTestService() (*UserService, *fakeUsers, *fakeAssets, *fakeOrphans) {
	users := newFakeUsers()
	assets := &fakeAssets{failUpload: map[int]bool{}}
	orphans := &fakeOrphans{}
	svc := NewUserService(users, assets, orphans, NewMemoryDenylist(), testTokens())
	return svc, users, assets, orphans
}

func registerInput() *authdto.RegisterInput {
	return &authdto.RegisterInput{
		Username: "  Alice ",
		Email:    "Alice@Example.com",
		FullName: "Alice Nguyen",
		Password: "secret123",
	}
}

// ====================================
// REGISTER
// ====================================

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with lowercased identity and hashed password", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		user, err := svc.Register(ctx, registerInput(), "/tmp/avatar.png", "")
		require.NoError(t, err)

		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.NotEqual(t, "secret123", user.Password)
		assert.NoError(t, utility.VerifyPassword(user.Password, "secret123"))
		assert.NotEmpty(t, user.Avatar.URL)
		assert.Nil(t, user.CoverImage)
		assert.NotNil(t, user.WatchHistory)
	})

	t.Run("duplicate username is a conflict", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		_, err := svc.Register(ctx, registerInput(), "/tmp/a.png", "")
		require.NoError(t, err)

		in := registerInput()
		in.Email = "other@example.com"
		_, err = svc.Register(ctx, in, "/tmp/a.png", "")
		assert.ErrorIs(t, err, common.ErrDuplicate)
		status, _ := common.StatusOf(err)
		assert.Equal(t, common.StatusConflict, status)
	})

	t.Run("avatar is required", func(t *testing.T) {
		svc, _, assets, _ := newTestService()
		_, err := svc.Register(ctx, registerInput(), "", "")
		assert.ErrorIs(t, err, common.ErrInvalidInput)
		assert.Zero(t, assets.uploads)
	})

	t.Run("cover upload failure removes the avatar", func(t *testing.T) {
		svc, _, assets, _ := newTestService()
		assets.failUpload[2] = true
		_, err := svc.Register(ctx, registerInput(), "/tmp/a.png", "/tmp/c.png")
		assert.ErrorIs(t, err, common.ErrUpstream)
		assert.Len(t, assets.deleted, 1)
	})

	t.Run("insert failure queues assets that could not be deleted", func(t *testing.T) {
		svc, users, assets, orphans := newTestService()
		users.createErr = common.ErrConnection
		assets.failDelete = true
		_, err := svc.Register(ctx, registerInput(), "/tmp/a.png", "/tmp/c.png")
		assert.ErrorIs(t, err, common.ErrConnection)
		assert.Len(t, orphans.queued, 2)
	})
}

// ====================================
// LOGIN / REFRESH / LOGOUT
// ====================================

func TestLoginRefreshLogout(t *testing.T) {
	ctx := context.Background()
	svc, users, _, _ := newTestService()
	created, err := svc.Register(ctx, registerInput(), "/tmp/a.png", "")
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &authdto.LoginInput{Username: "alice", Password: "nope12345"})
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	})

	t.Run("unknown user looks like wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &authdto.LoginInput{Email: "ghost@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	})

	login, err := svc.Login(ctx, &authdto.LoginInput{Email: "ALICE@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, login.User.ID)
	stored, _ := users.FindByID(ctx, created.ID)
	assert.Equal(t, login.RefreshToken, stored.RefreshToken)

	refreshed, err := svc.RefreshToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	t.Run("rotated refresh token is rejected", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, login.RefreshToken)
		assert.ErrorIs(t, err, common.ErrTokenInvalid)
	})

	t.Run("access token cannot refresh", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, refreshed.AccessToken)
		assert.ErrorIs(t, err, common.ErrTokenInvalid)
	})

	require.NoError(t, svc.Logout(ctx, created.ID, refreshed.AccessTokenID, time.UnixMilli(refreshed.AccessExpiresAt)))

	revoked, err := svc.Denylist().IsRevoked(ctx, refreshed.AccessTokenID)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = svc.RefreshToken(ctx, refreshed.RefreshToken)
	assert.ErrorIs(t, err, common.ErrTokenInvalid)
}

func TestMemoryDenylist(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDenylist()
	defer d.Close()

	require.NoError(t, d.Revoke(ctx, "jti-1", time.Minute))
	require.NoError(t, d.Revoke(ctx, "jti-expired", 0))

	revoked, _ := d.IsRevoked(ctx, "jti-1")
	assert.True(t, revoked)
	revoked, _ = d.IsRevoked(ctx, "jti-expired")
	assert.False(t, revoked)
	revoked, _ = d.IsRevoked(ctx, "unknown")
	assert.False(t, revoked)
}

func TestWatchHistoryPipeline(t *testing.T) {
	id := primitive.NewObjectID()
	p := WatchHistoryPipeline(id, "videos", "users")
	require.Len(t, p, 3)
	assert.Equal(t, "$match", p[0][0].Key)
	assert.Equal(t, "$lookup", p[1][0].Key)
	assert.Equal(t, "$project", p[2][0].Key)
}
