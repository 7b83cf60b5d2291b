package ingest

import "context"

// ObjectStore is the blob-store surface the pipeline needs. Implemented by
// storage.MinioStore; faked in tests. Download and ReadObject wrap
// storage.ErrNotFound for missing keys.
type ObjectStore interface {
	Exists(ctx context.Context, bucket, key string) (bool, error)
	ReadObject(ctx context.Context, bucket, key string) ([]byte, error)
	Download(ctx context.Context, bucket, key, localPath string) error
	Upload(ctx context.Context, bucket, key, localPath, contentType string) error
	Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey, contentType string) error
}
