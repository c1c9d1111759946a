package utility

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"videotube/internal/common"

	"golang.org/x/crypto/pbkdf2"
)

const (
	passwordHashIterations = 120000
	passwordHashSaltLength = 16
	passwordHashKeyLength  = 32
)

// HashPassword băm mật khẩu bằng PBKDF2-SHA256.
// Kết quả dạng "pbkdf2$sha256$<iterations>$<salt>$<key>" (base64 raw).
func HashPassword(password string) (string, error) {
	salt := make([]byte, passwordHashSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	derived := pbkdf2.Key([]byte(password), salt, passwordHashIterations, passwordHashKeyLength, sha256.New)
	return fmt.Sprintf("pbkdf2$sha256$%d$%s$%s",
		passwordHashIterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(derived),
	), nil
}

// VerifyPassword so sánh mật khẩu với hash đã lưu.
// Sai mật khẩu trả về common.ErrInvalidCredentials.
func VerifyPassword(encodedHash, candidate string) error {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 5 || parts[0] != "pbkdf2" || parts[1] != "sha256" {
		return fmt.Errorf("verify password: invalid hash format")
	}
	iterations, err := strconv.Atoi(parts[2])
	if err != nil || iterations <= 0 {
		return fmt.Errorf("verify password: invalid iteration count")
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return fmt.Errorf("verify password: decode salt: %w", err)
	}
	storedKey, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("verify password: decode hash: %w", err)
	}

	derived := pbkdf2.Key([]byte(candidate), salt, iterations, len(storedKey), sha256.New)
	if subtle.ConstantTimeCompare(derived, storedKey) != 1 {
		return common.ErrInvalidCredentials
	}
	return nil
}
