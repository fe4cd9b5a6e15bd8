// Package imagestore stores uploaded pictures in an S3-compatible bucket.
package imagestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	sharedentity "marketplace_backend/internal/domain/entity"
	platformhttp "marketplace_backend/internal/platform/http"
)

// DefaultTimeout bounds each Store and Destroy call.
const DefaultTimeout = 15 * time.Second

// Config holds the bucket settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL overrides the scheme://host part of returned URLs (e.g. a CDN).
	PublicURL string
	// Prefix is prepended to every object key.
	Prefix  string
	Timeout time.Duration
}

// objectClient is the subset of *minio.Client used here.
type objectClient interface {
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error
}

// MinioStore implements the image store on MinIO / S3.
type MinioStore struct {
	client  objectClient
	bucket  string
	baseURL string
	prefix  string
	timeout time.Duration
	newKey  func() string
}

// NewMinioStore connects to the object store and makes sure the bucket exists.
func NewMinioStore(ctx context.Context, cfg Config) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Transport: platformhttp.NewTransport(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for %s: %w", cfg.Endpoint, err)
	}

	if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		exists, existsErr := client.BucketExists(ctx, cfg.Bucket)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("failed to make bucket %s: %w", cfg.Bucket, errors.Join(err, existsErr))
		}
	}

	baseURL := cfg.PublicURL
	if baseURL == "" {
		baseURL = client.EndpointURL().String()
	}
	slog.Info("image store ready", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)
	return newMinioStore(client, cfg.Bucket, baseURL, cfg.Prefix, cfg.Timeout), nil
}

func newMinioStore(client objectClient, bucket, baseURL, prefix string, timeout time.Duration) *MinioStore {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &MinioStore{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		prefix:  strings.Trim(prefix, "/"),
		timeout: timeout,
		newKey:  uuid.NewString,
	}
}

// Store uploads data under <prefix>/<folder>/<uuid><ext>. The object key is the public id.
func (s *MinioStore) Store(ctx context.Context, data []byte, folder string) (sharedentity.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	contentType := http.DetectContentType(data)
	key := path.Join(s.prefix, folder, s.newKey()+extensionFor(contentType))

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return sharedentity.Image{}, fmt.Errorf("failed to upload image %s: %w", key, err)
	}

	return sharedentity.Image{URL: s.baseURL + "/" + s.bucket + "/" + key, PublicID: key}, nil
}

// Destroy removes the object with the given public id.
func (s *MinioStore) Destroy(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.RemoveObject(ctx, s.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove image %s: %w", publicID, err)
	}
	return nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	default:
		return ""
	}
}
