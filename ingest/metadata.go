package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"CurrentFM/logger"
	"CurrentFM/storage"
)

// TrackMeta is the metadata sidecar an uploader may write next to the
// audio file. It is read-only to the pipeline and may legitimately never
// exist.
type TrackMeta struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	TrackNumber *int   `json:"track_number,omitempty"`
	ReleaseYear *int   `json:"release_year,omitempty"`
	ArtKey      string `json:"art_key,omitempty"`
	ArtPath     string `json:"art_path,omitempty"`
}

// RawArtKey returns the raw-bucket key of the uploaded art object, if the
// sidecar declared one. art_key wins over the legacy art_path field.
func (m *TrackMeta) RawArtKey() string {
	if m == nil {
		return ""
	}
	if m.ArtKey != "" {
		return m.ArtKey
	}
	return m.ArtPath
}

// SidecarReader is the metadata-store lookup the resolver needs.
// Implementations must return storage.ErrNotFound (wrapped) for missing
// keys so the resolver can tell "not yet" apart from real failures.
type SidecarReader interface {
	ReadObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// RetryPolicy bounds the wait for a sidecar that has not landed yet.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// MetadataResolver fetches the sidecar correlated to an audio object,
// absorbing the race where the sidecar lands shortly after the audio.
type MetadataResolver struct {
	store  SidecarReader
	policy RetryPolicy

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// NewMetadataResolver creates a resolver with the given retry policy.
func NewMetadataResolver(store SidecarReader, policy RetryPolicy) *MetadataResolver {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &MetadataResolver{
		store:  store,
		policy: policy,
		sleep:  time.Sleep,
	}
}

// Resolve reads the sidecar at SidecarKey(folder, token), retrying a
// bounded number of times while the object is not yet visible. It returns
// (nil, key, nil) when the sidecar never appears; that is a valid outcome,
// not an error. Any non-"not found" store error aborts immediately and is
// reported as ErrResolution.
func (r *MetadataResolver) Resolve(ctx context.Context, bucket, folder, token string) (*TrackMeta, string, error) {
	key := SidecarKey(folder, token)

	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		data, err := r.store.ReadObject(ctx, bucket, key)
		if err == nil {
			var meta TrackMeta
			if err := json.Unmarshal(data, &meta); err != nil {
				return nil, key, fmt.Errorf("%w: malformed sidecar %s: %v", ErrResolution, key, err)
			}
			return &meta, key, nil
		}

		if !errors.Is(err, storage.ErrNotFound) {
			return nil, key, fmt.Errorf("%w: %v", ErrResolution, err)
		}

		if attempt < r.policy.MaxAttempts {
			logger.Debug("sidecar not visible yet, retrying",
				logger.String("key", key),
				logger.Int("attempt", attempt),
				logger.Duration("delay", r.policy.Delay))
			r.sleep(r.policy.Delay)
		}
	}

	logger.Info("no metadata sidecar found, proceeding with fallbacks",
		logger.String("key", key),
		logger.Int("attempts", r.policy.MaxAttempts))
	return nil, key, nil
}
