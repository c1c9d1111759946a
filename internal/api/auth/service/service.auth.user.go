// Package authsvc - đăng ký, đăng nhập, refresh/logout token và lịch sử xem của user.
package authsvc

import (
	"context"
	"errors"
	"strings"
	"time"

	authdto "videotube/internal/api/auth/dto"
	models "videotube/internal/api/auth/models"
	"videotube/internal/asset"
	"videotube/internal/common"
	"videotube/internal/logger"
	"videotube/internal/utility"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrphanQueue nhận các asset không xóa được để worker xóa lại sau
type OrphanQueue interface {
	Enqueue(ctx context.Context, publicID string, kind asset.Kind, reason string) error
}

// UserService là cấu trúc chứa các phương thức liên quan đến người dùng
type UserService struct {
	users    UserRepository
	assets   asset.Store
	orphans  OrphanQueue
	denylist TokenDenylist
	tokens   utility.TokenSettings
	now      func() time.Time
}

// NewUserService tạo mới UserService
func NewUserService(users UserRepository, assets asset.Store, orphans OrphanQueue, denylist TokenDenylist, tokens utility.TokenSettings) *UserService {
	return &UserService{
		users:    users,
		assets:   assets,
		orphans:  orphans,
		denylist: denylist,
		tokens:   tokens,
		now:      time.Now,
	}
}

// Denylist trả về denylist dùng chung với auth middleware
func (s *UserService) Denylist() TokenDenylist {
	return s.denylist
}

// Tokens trả về cấu hình token (secret, TTL)
func (s *UserService) Tokens() utility.TokenSettings {
	return s.tokens
}

// Register tạo user mới. avatarPath bắt buộc, coverPath tùy chọn (file tạm do handler lưu).
func (s *UserService) Register(ctx context.Context, input *authdto.RegisterInput, avatarPath, coverPath string) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))
	fullName := utility.NormalizeText(input.FullName)
	if username == "" || email == "" || fullName == "" || input.Password == "" {
		return nil, common.InvalidArgument("Vui lòng nhập đầy đủ thông tin")
	}
	if avatarPath == "" {
		return nil, common.InvalidArgument("Avatar là bắt buộc")
	}

	if _, err := s.users.FindByLogin(ctx, username, email); err == nil {
		return nil, common.Conflict("Username hoặc email đã tồn tại")
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hashed, err := utility.HashPassword(input.Password)
	if err != nil {
		return nil, common.Internal(err, "Không thể mã hóa mật khẩu")
	}

	avatar, err := s.assets.Upload(ctx, avatarPath, asset.KindImage)
	if err != nil {
		return nil, common.Upstream(err, "Upload avatar thất bại")
	}
	uploaded := []asset.Ref{avatar.Ref()}

	user := models.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		Avatar:       avatar.Ref(),
		Password:     hashed,
		WatchHistory: []primitive.ObjectID{},
	}

	if coverPath != "" {
		cover, err := s.assets.Upload(ctx, coverPath, asset.KindImage)
		if err != nil {
			s.discard(ctx, "register: cover upload failed", uploaded...)
			return nil, common.Upstream(err, "Upload ảnh bìa thất bại")
		}
		ref := cover.Ref()
		user.CoverImage = &ref
		uploaded = append(uploaded, ref)
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		s.discard(ctx, "register: insert failed", uploaded...)
		return nil, err
	}

	logger.WithModule("auth").WithFields(map[string]interface{}{
		"user_id":  created.ID.Hex(),
		"username": created.Username,
	}).Info("User registered")
	return &created, nil
}

// Login kiểm tra username/email + password và cấp cặp token mới
func (s *UserService) Login(ctx context.Context, input *authdto.LoginInput) (*authdto.LoginResult, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.users.FindByLogin(ctx, username, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := utility.VerifyPassword(user.Password, input.Password); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	return s.issue(ctx, &user)
}

// RefreshToken xoay vòng cặp token. Refresh token phải khớp token đang lưu của user.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*authdto.LoginResult, error) {
	if refreshToken == "" {
		return nil, common.ErrTokenMissing
	}
	claims, err := utility.ParseToken(s.tokens.RefreshSecret, refreshToken, utility.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, common.ErrTokenInvalid
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrTokenInvalid
		}
		return nil, err
	}
	// Token đã bị xoay vòng hoặc đã logout
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, common.ErrTokenInvalid
	}

	return s.issue(ctx, &user)
}

// Logout xóa refresh token đã lưu và thu hồi access token hiện tại tới khi hết hạn
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID, accessJTI string, accessExpiresAt time.Time) error {
	if err := s.users.SetRefreshToken(ctx, userID, ""); err != nil {
		return err
	}
	if s.denylist != nil && accessJTI != "" {
		if err := s.denylist.Revoke(ctx, accessJTI, accessExpiresAt.Sub(s.now())); err != nil {
			return common.Internal(err, "Không thể thu hồi token")
		}
	}
	return nil
}

// GetCurrentUser lấy profile user
func (s *UserService) GetCurrentUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetWatchHistory lấy danh sách video đã xem kèm owner
func (s *UserService) GetWatchHistory(ctx context.Context, userID primitive.ObjectID) ([]models.WatchedVideo, error) {
	return s.users.WatchHistory(ctx, userID)
}

// issue tạo cặp token và lưu refresh token cho user
func (s *UserService) issue(ctx context.Context, user *models.User) (*authdto.LoginResult, error) {
	pair, err := utility.CreateTokenPair(s.tokens, user.ID.Hex(), s.now())
	if err != nil {
		return nil, common.Internal(err, "Không thể tạo token")
	}
	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, err
	}
	user.RefreshToken = pair.RefreshToken
	return &authdto.LoginResult{User: user, TokenPair: *pair}, nil
}

// discard xóa các asset vừa upload khi thao tác sau đó thất bại; xóa lỗi thì đưa vào hàng đợi
func (s *UserService) discard(ctx context.Context, reason string, refs ...asset.Ref) {
	for _, ref := range refs {
		if ref.PublicID == "" {
			continue
		}
		err := s.assets.Delete(ctx, ref.PublicID, asset.KindImage)
		if err == nil {
			continue
		}
		log := logger.WithModule("auth").WithError(err).WithField("public_id", ref.PublicID)
		if s.orphans == nil {
			log.Error("Failed to delete orphaned asset")
			continue
		}
		if qErr := s.orphans.Enqueue(ctx, ref.PublicID, asset.KindImage, reason); qErr != nil {
			log.WithField("queue_error", qErr.Error()).Error("Failed to delete or queue orphaned asset")
		}
	}
}
