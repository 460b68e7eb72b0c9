// Package objectstore adapts MinIO-compatible object storage to the upload
// pipeline's BlobStore port.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/drivelot/inventory-api/internal/core"
	apperrors "github.com/drivelot/inventory-api/internal/errors"
)

// Config holds connection settings for the spreadsheet upload bucket.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioStore implements core.BlobStore against a MinIO-compatible endpoint.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// New creates a MinioStore and verifies the bucket exists.
func New(ctx context.Context, cfg Config) (*MinioStore, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("object store endpoint and bucket are required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

// PresignedPut returns a time-limited URL the client PUTs the spreadsheet to.
// The server never proxies upload bytes.
func (s *MinioStore) PresignedPut(ctx context.Context, p core.PresignUploadParams) (*url.URL, error) {
	if p.Key == "" {
		return nil, errors.New("object key is required")
	}
	u, err := s.client.PresignedPutObject(ctx, s.bucket, p.Key, p.Expiry)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeUpload, "presign put for %q", p.Key)
	}
	return u, nil
}

// Get streams a stored object.
func (s *MinioStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeUpload, "get object %q", key)
	}
	return obj, nil
}

// Stat checks an object exists and returns its metadata. A missing object
// maps to a not-found error so callers can distinguish it from transport
// failures.
func (s *MinioStore) Stat(ctx context.Context, key string) (*core.BlobInfo, error) {
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return nil, apperrors.NotFound("uploaded file")
		}
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeUpload, "stat object %q", key)
	}
	return &core.BlobInfo{
		Key:          key,
		Size:         info.Size,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}, nil
}
