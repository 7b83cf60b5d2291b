package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
)

// ObjectInfo describes one stored object for inspection commands.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// BucketStats aggregates a bucket prefix.
type BucketStats struct {
	TotalObjects int64
	TotalSize    int64
	LastModified time.Time
}

// ListPrefix lists objects under a prefix, recursing into sub-prefixes.
func (s *MinioStore) ListPrefix(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	objects := make([]ObjectInfo, 0)
	for object := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects in %s: %w", bucket, object.Err)
		}
		objects = append(objects, ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
			ContentType:  object.ContentType,
		})
	}
	return objects, nil
}

// Stats aggregates object counts and sizes under a prefix.
func (s *MinioStore) Stats(ctx context.Context, bucket, prefix string) (*BucketStats, error) {
	objects, err := s.ListPrefix(ctx, bucket, prefix)
	if err != nil {
		return nil, err
	}

	stats := &BucketStats{}
	for _, object := range objects {
		stats.TotalObjects++
		stats.TotalSize += object.Size
		if object.LastModified.After(stats.LastModified) {
			stats.LastModified = object.LastModified
		}
	}
	return stats, nil
}
