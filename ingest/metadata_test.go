package ingest

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMetadataResolverFindsSidecarImmediately(t *testing.T) {
	store := newFakeStore()
	store.put("raw-bucket", "raw/a/b/1700000000__meta.json",
		[]byte(`{"title":"Wires","artist":"Pink Floyd","album":"Wish You Were Here","track_number":3}`))

	resolver := NewMetadataResolver(store, RetryPolicy{MaxAttempts: 3, Delay: time.Second})
	resolver.sleep = func(time.Duration) { t.Fatal("should not sleep when sidecar is present") }

	meta, key, err := resolver.Resolve(context.Background(), "raw-bucket", "raw/a/b", "1700000000")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if key != "raw/a/b/1700000000__meta.json" {
		t.Errorf("sidecar key = %q", key)
	}
	if meta == nil || meta.Title != "Wires" || meta.Artist != "Pink Floyd" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.TrackNumber == nil || *meta.TrackNumber != 3 {
		t.Errorf("track number = %v, want 3", meta.TrackNumber)
	}
}

func TestMetadataResolverRetriesUntilSidecarLands(t *testing.T) {
	store := newFakeStore()
	resolver := NewMetadataResolver(store, RetryPolicy{MaxAttempts: 5, Delay: 100 * time.Millisecond})

	// The sidecar lands after the second failed attempt.
	sleeps := 0
	resolver.sleep = func(d time.Duration) {
		if d != 100*time.Millisecond {
			t.Errorf("sleep delay = %v, want 100ms", d)
		}
		sleeps++
		if sleeps == 2 {
			store.put("raw-bucket", "raw/a/b/1700000000__meta.json", []byte(`{"title":"Late"}`))
		}
	}

	meta, _, err := resolver.Resolve(context.Background(), "raw-bucket", "raw/a/b", "1700000000")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if meta == nil || meta.Title != "Late" {
		t.Errorf("metadata = %+v, want late-landing sidecar", meta)
	}
	if sleeps != 2 {
		t.Errorf("sleeps = %d, want 2", sleeps)
	}
}

func TestMetadataResolverExhaustsRetries(t *testing.T) {
	store := newFakeStore()
	resolver := NewMetadataResolver(store, RetryPolicy{MaxAttempts: 4, Delay: time.Millisecond})

	sleeps := 0
	resolver.sleep = func(time.Duration) { sleeps++ }

	meta, key, err := resolver.Resolve(context.Background(), "raw-bucket", "raw/a/b", "1700000000")
	if err != nil {
		t.Fatalf("missing sidecar must not be an error, got %v", err)
	}
	if meta != nil {
		t.Errorf("metadata = %+v, want nil", meta)
	}
	if key == "" {
		t.Error("sidecar key should be reported even when absent")
	}
	// No sleep after the final attempt.
	if sleeps != 3 {
		t.Errorf("sleeps = %d, want 3", sleeps)
	}
}

func TestMetadataResolverPropagatesStoreFailures(t *testing.T) {
	store := newFakeStore()
	store.readErr["raw-bucket/raw/a/b/1700000000__meta.json"] = errors.New("access denied")

	resolver := NewMetadataResolver(store, RetryPolicy{MaxAttempts: 5, Delay: time.Second})
	resolver.sleep = func(time.Duration) { t.Fatal("store failures must not be retried") }

	_, _, err := resolver.Resolve(context.Background(), "raw-bucket", "raw/a/b", "1700000000")
	if !errors.Is(err, ErrResolution) {
		t.Fatalf("Resolve() error = %v, want ErrResolution", err)
	}
}

func TestMetadataResolverRejectsMalformedSidecar(t *testing.T) {
	store := newFakeStore()
	store.put("raw-bucket", "raw/a/b/1700000000__meta.json", []byte(`{not json`))

	resolver := NewMetadataResolver(store, RetryPolicy{MaxAttempts: 2, Delay: time.Millisecond})
	resolver.sleep = func(time.Duration) {}

	_, _, err := resolver.Resolve(context.Background(), "raw-bucket", "raw/a/b", "1700000000")
	if !errors.Is(err, ErrResolution) {
		t.Fatalf("Resolve() error = %v, want ErrResolution", err)
	}
}

func TestTrackMetaRawArtKey(t *testing.T) {
	tests := []struct {
		name string
		meta *TrackMeta
		want string
	}{
		{"nil meta", nil, ""},
		{"art_key wins", &TrackMeta{ArtKey: "raw/a/b/1__c.jpg", ArtPath: "raw/x/y/1__z.jpg"}, "raw/a/b/1__c.jpg"},
		{"art_path fallback", &TrackMeta{ArtPath: "raw/x/y/1__z.jpg"}, "raw/x/y/1__z.jpg"},
		{"neither", &TrackMeta{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meta.RawArtKey(); got != tt.want {
				t.Errorf("RawArtKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
