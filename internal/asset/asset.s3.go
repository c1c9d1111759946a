package asset

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"videotube/internal/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Options cấu hình S3Store
type S3Options struct {
	Bucket        string
	Region        string
	Endpoint      string // MinIO / S3-compatible, dùng path-style
	PublicBaseURL string
}

// S3Store lưu asset trên S3 (hoặc S3-compatible)
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3Store tạo S3Store, credentials lấy theo default chain của AWS SDK
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, errors.New("S3_BUCKET must be set for the s3 asset backend")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := strings.TrimRight(opts.PublicBaseURL, "/")
	if baseURL == "" {
		if opts.Endpoint != "" {
			baseURL = strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
		}
	}

	return &S3Store{client: client, bucket: opts.Bucket, baseURL: baseURL}, nil
}

// Upload PutObject file local lên bucket với key "<kind>s/<uuid><ext>"
func (s *S3Store) Upload(ctx context.Context, localPath string, kind Kind) (*UploadResult, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unsupported asset kind %q", kind)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open upload source: %w", err)
	}
	defer f.Close()

	ext := filepath.Ext(localPath)
	contentType := mime.TypeByExtension(strings.ToLower(ext))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := objectKey(kind, uuid.NewString(), ext)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	logger.WithModule("asset").WithFields(map[string]interface{}{
		"backend":   BackendS3,
		"bucket":    s.bucket,
		"public_id": key,
	}).Debug("Asset uploaded")

	return &UploadResult{
		URL:      s.baseURL + "/" + key,
		PublicID: key,
		Duration: probeDuration(localPath, kind),
	}, nil
}

// Delete DeleteObject theo key. S3 trả thành công cả khi key không tồn tại
func (s *S3Store) Delete(ctx context.Context, publicID string, kind Kind) error {
	if publicID == "" {
		return errors.New("empty public id")
	}
	if !strings.HasPrefix(publicID, kind.prefix()+"/") {
		return fmt.Errorf("public id %q is outside %s", publicID, kind.prefix())
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}
