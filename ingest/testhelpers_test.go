package ingest

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"CurrentFM/model"
	"CurrentFM/storage"
)

// fakeStore is an in-memory ObjectStore. Objects live in a map keyed by
// "bucket/key"; Download/Upload move bytes between the map and real files
// so the transcode path can be exercised end to end.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	// readErr forces ReadObject failures for specific keys.
	readErr map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
		readErr: make(map[string]error),
	}
}

func objKey(bucket, key string) string { return bucket + "/" + key }

func (s *fakeStore) put(bucket, key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objKey(bucket, key)] = data
}

func (s *fakeStore) get(bucket, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[objKey(bucket, key)]
	return data, ok
}

func (s *fakeStore) Exists(ctx context.Context, bucket, key string) (bool, error) {
	_, ok := s.get(bucket, key)
	return ok, nil
}

func (s *fakeStore) ReadObject(ctx context.Context, bucket, key string) ([]byte, error) {
	s.mu.Lock()
	forced := s.readErr[objKey(bucket, key)]
	s.mu.Unlock()
	if forced != nil {
		return nil, forced
	}

	data, ok := s.get(bucket, key)
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", bucket, key, storage.ErrNotFound)
	}
	return data, nil
}

func (s *fakeStore) Download(ctx context.Context, bucket, key, localPath string) error {
	data, ok := s.get(bucket, key)
	if !ok {
		return fmt.Errorf("%s/%s: %w", bucket, key, storage.ErrNotFound)
	}
	return os.WriteFile(localPath, data, 0644)
}

func (s *fakeStore) Upload(ctx context.Context, bucket, key, localPath, contentType string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objKey(bucket, key)] = data
	s.types[objKey(bucket, key)] = contentType
	return nil
}

func (s *fakeStore) Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey, contentType string) error {
	data, ok := s.get(srcBucket, srcKey)
	if !ok {
		return fmt.Errorf("%s/%s: %w", srcBucket, srcKey, storage.ErrNotFound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objKey(dstBucket, dstKey)] = append([]byte(nil), data...)
	s.types[objKey(dstBucket, dstKey)] = contentType
	return nil
}

// fakeTranscoder records invocations and rewrites content
// deterministically, so byte-for-byte convergence can be asserted.
type fakeTranscoder struct {
	mu         sync.Mutex
	audioCalls int
	imageCalls int
	failAudio  bool
	failImage  bool
}

func (t *fakeTranscoder) TranscodeAudio(ctx context.Context, inputPath string) (string, error) {
	t.mu.Lock()
	t.audioCalls++
	fail := t.failAudio
	t.mu.Unlock()
	if fail {
		return "", fmt.Errorf("ffmpeg execution failed")
	}
	return rewrite(inputPath, ".mp3", "mp3|")
}

func (t *fakeTranscoder) TranscodeImage(ctx context.Context, inputPath string) (string, error) {
	t.mu.Lock()
	t.imageCalls++
	fail := t.failImage
	t.mu.Unlock()
	if fail {
		return "", fmt.Errorf("ffmpeg execution failed")
	}
	return rewrite(inputPath, ".jpg", "jpg|")
}

func rewrite(inputPath, ext, prefix string) (string, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return "", err
	}
	out := outputPath(inputPath, ext)
	if err := os.WriteFile(out, append([]byte(prefix), data...), 0644); err != nil {
		return "", err
	}
	return out, nil
}

// memRecords is an in-memory RecordStore.
type memRecords struct {
	mu      sync.Mutex
	records map[string]*model.Track
	upserts int
	fail    bool
}

func newMemRecords() *memRecords {
	return &memRecords{records: make(map[string]*model.Track)}
}

func (r *memRecords) Upsert(ctx context.Context, track *model.Track) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return fmt.Errorf("record store unavailable")
	}
	r.upserts++
	copied := *track
	r.records[track.ID] = &copied
	return nil
}

// newTestPipeline wires a pipeline over the fakes with a fast retry policy.
func newTestPipeline(store *fakeStore, transcoder *fakeTranscoder, records *memRecords) *Pipeline {
	resolver := NewMetadataResolver(store, RetryPolicy{MaxAttempts: 3})
	resolver.sleep = func(time.Duration) {}
	art := NewArtResolver(store, transcoder, "raw-bucket", "media-bucket")
	return NewPipeline(store, transcoder, resolver, art, records, "raw-bucket", "media-bucket")
}
