package utility

import (
	"errors"
	"fmt"
	"time"

	"videotube/internal/common"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

// Loại token trong claim "typ"
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// JwtClaims chứa data được mã hóa trong JWT token.
type JwtClaims struct {
	UserID    string `json:"userId"`
	TokenType string `json:"typ"`
	jwt.StandardClaims
}

// TokenSettings là secret và thời hạn cho cặp token
type TokenSettings struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// TokenPair là kết quả đăng nhập / refresh
type TokenPair struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	AccessExpiresAt  int64  `json:"accessExpiresAt"`
	RefreshExpiresAt int64  `json:"refreshExpiresAt"`
	AccessTokenID    string `json:"-"`
}

// CreateTokenPair tạo access + refresh token cho user.
// Hàm thuần: không đọc global, thời gian truyền vào để test được.
func CreateTokenPair(settings TokenSettings, userID string, now time.Time) (*TokenPair, error) {
	if settings.AccessSecret == "" || settings.RefreshSecret == "" {
		return nil, errors.New("jwt secrets must not be empty")
	}

	accessID := uuid.NewString()
	accessExp := now.Add(settings.AccessTTL)
	access, err := sign(settings.AccessSecret, JwtClaims{
		UserID:    userID,
		TokenType: TokenTypeAccess,
		StandardClaims: jwt.StandardClaims{
			Id:        accessID,
			Subject:   userID,
			IssuedAt:  now.Unix(),
			ExpiresAt: accessExp.Unix(),
		},
	})
	if err != nil {
		return nil, err
	}

	refreshExp := now.Add(settings.RefreshTTL)
	refresh, err := sign(settings.RefreshSecret, JwtClaims{
		UserID:    userID,
		TokenType: TokenTypeRefresh,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  now.Unix(),
			ExpiresAt: refreshExp.Unix(),
		},
	})
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp.UnixMilli(),
		RefreshExpiresAt: refreshExp.UnixMilli(),
		AccessTokenID:    accessID,
	}, nil
}

func sign(secret string, claims JwtClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// ParseToken kiểm tra chữ ký, thời hạn và loại token.
// Lỗi trả về là common.ErrTokenExpired hoặc common.ErrTokenInvalid.
func ParseToken(secret, tokenString, wantType string) (*JwtClaims, error) {
	claims := &JwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}
	if !token.Valid || claims.TokenType != wantType || claims.UserID == "" {
		return nil, common.ErrTokenInvalid
	}
	return claims, nil
}
