package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"videotube/internal/logger"

	"github.com/google/uuid"
)

// LocalStore lưu asset trên đĩa, phục vụ qua static middleware ở /media
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore tạo LocalStore, tạo sẵn thư mục root
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if root == "" {
		return nil, errors.New("asset local dir must not be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve asset dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create asset dir: %w", err)
	}
	return &LocalStore{root: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root thư mục gốc chứa asset
func (s *LocalStore) Root() string {
	return s.root
}

// Upload copy file vào <root>/<kind>s/<uuid><ext>
func (s *LocalStore) Upload(ctx context.Context, localPath string, kind Kind) (*UploadResult, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unsupported asset kind %q", kind)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open upload source: %w", err)
	}
	defer src.Close()

	key := objectKey(kind, uuid.NewString(), filepath.Ext(localPath))
	dstPath := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create asset dir: %w", err)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to copy asset: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to flush asset: %w", err)
	}

	logger.WithModule("asset").WithFields(map[string]interface{}{
		"backend":   BackendLocal,
		"public_id": key,
	}).Debug("Asset uploaded")

	return &UploadResult{
		URL:      s.baseURL + "/" + key,
		PublicID: key,
		Duration: probeDuration(dstPath, kind),
	}, nil
}

// Delete xóa file theo publicId; file không tồn tại coi như đã xóa
func (s *LocalStore) Delete(ctx context.Context, publicID string, kind Kind) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.resolve(publicID, kind)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete asset %s: %w", publicID, err)
	}
	return nil
}

// resolve chặn publicId thoát khỏi thư mục của kind (../)
func (s *LocalStore) resolve(publicID string, kind Kind) (string, error) {
	if publicID == "" {
		return "", errors.New("empty public id")
	}
	clean := filepath.Clean(filepath.FromSlash(publicID))
	kindDir := filepath.Join(s.root, kind.prefix())
	full := filepath.Join(s.root, clean)
	if !strings.HasPrefix(full, kindDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("public id %q is outside %s", publicID, kind.prefix())
	}
	return full, nil
}
