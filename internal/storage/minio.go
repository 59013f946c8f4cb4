package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/filedrop/filedrop/internal/conf"
	apperrors "github.com/filedrop/filedrop/internal/pkg/errors"
	"github.com/filedrop/filedrop/internal/pkg/logger"
)

// MinIOStore implements Store on a MinIO (or any S3-compatible) backend.
type MinIOStore struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

// NewMinIOStore creates the client and ensures the bucket exists. Bucket
// creation is idempotent and tolerates the already-exists race when two
// instances start at once.
func NewMinIOStore(cfg conf.MinIOConfig, log *logger.Logger) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	s := &MinIOStore{
		client: client,
		bucket: cfg.Bucket,
		logger: log.Named("storage.minio"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("minio store initialized",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket),
		zap.Bool("use_ssl", cfg.UseSSL),
	)

	return s, nil
}

func (s *MinIOStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err != nil {
		// Another instance may have created it between the check and here.
		code := minio.ToErrorResponse(err).Code
		if code == "BucketAlreadyOwnedByYou" || code == "BucketAlreadyExists" {
			return nil
		}
		return fmt.Errorf("create bucket %q: %w", s.bucket, err)
	}

	s.logger.Info("bucket created", zap.String("bucket", s.bucket))
	return nil
}

// Upload issues a single atomic put with declared length and content type.
func (s *MinIOStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrStorageFailed, "put object %q", key)
	}
	return nil
}

// Read returns the backend's native streaming handle. GetObject is lazy,
// so a Stat forces the missing-key case to surface here instead of on the
// caller's first read.
func (s *MinIOStore) Read(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrStorageFailed, "get object %q", key)
	}

	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		if isNoSuchKey(err) {
			return nil, apperrors.New(apperrors.ErrObjectNotFound, key)
		}
		return nil, apperrors.Wrapf(err, apperrors.ErrStorageFailed, "stat object %q", key)
	}

	return obj, nil
}

// Exists uses a metadata-only probe, not a full fetch.
func (s *MinIOStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, apperrors.Wrapf(err, apperrors.ErrStorageFailed, "stat object %q", key)
	}
	return true, nil
}

// Health probes bucket reachability.
func (s *MinIOStore) Health(ctx context.Context) Health {
	if _, err := s.client.BucketExists(ctx, s.bucket); err != nil {
		return Unhealthy(fmt.Sprintf("bucket %q unreachable: %v", s.bucket, err))
	}
	return Healthy()
}

func isNoSuchKey(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchBucket"
}
