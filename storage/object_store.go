package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

// ErrNotFound reports that an object does not exist at the requested key.
// Callers rely on this to tell "not there yet" apart from real failures.
var ErrNotFound = errors.New("object not found")

// MinioStore wraps a MinIO client with the object operations the ingest
// pipeline and API handlers use.
type MinioStore struct {
	client *minio.Client
}

// NewMinioStore creates a MinioStore around an initialized client.
func NewMinioStore(client *minio.Client) *MinioStore {
	return &MinioStore{client: client}
}

// notFound reports whether err is the S3 "no such key" condition.
func notFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchObject"
}

// Exists reports whether an object exists at bucket/key.
func (s *MinioStore) Exists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if notFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s/%s: %w", bucket, key, err)
	}
	return true, nil
}

// ReadObject reads a whole object into memory. Returns ErrNotFound when the
// object does not exist; intended for small objects like metadata sidecars.
func (s *MinioStore) ReadObject(ctx context.Context, bucket, key string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", bucket, key, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		// GetObject is lazy; missing keys surface on first read.
		if notFound(err) {
			return nil, fmt.Errorf("%s/%s: %w", bucket, key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// Download streams an object to a local file.
func (s *MinioStore) Download(ctx context.Context, bucket, key, localPath string) error {
	if err := s.client.FGetObject(ctx, bucket, key, localPath, minio.GetObjectOptions{}); err != nil {
		if notFound(err) {
			return fmt.Errorf("%s/%s: %w", bucket, key, ErrNotFound)
		}
		return fmt.Errorf("failed to download %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Upload stores a local file at bucket/key with the given content type.
func (s *MinioStore) Upload(ctx context.Context, bucket, key, localPath, contentType string) error {
	_, err := s.client.FPutObject(ctx, bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Copy performs a server-side copy, replacing the content type on the
// destination rather than inheriting the source's metadata.
func (s *MinioStore) Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey, contentType string) error {
	src := minio.CopySrcOptions{
		Bucket: srcBucket,
		Object: srcKey,
	}
	dst := minio.CopyDestOptions{
		Bucket:          dstBucket,
		Object:          dstKey,
		ReplaceMetadata: true,
		UserMetadata: map[string]string{
			"Content-Type": contentType,
		},
	}
	if _, err := s.client.CopyObject(ctx, dst, src); err != nil {
		if notFound(err) {
			return fmt.Errorf("%s/%s: %w", srcBucket, srcKey, ErrNotFound)
		}
		return fmt.Errorf("failed to copy %s/%s to %s/%s: %w", srcBucket, srcKey, dstBucket, dstKey, err)
	}
	return nil
}
