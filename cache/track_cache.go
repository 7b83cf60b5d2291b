package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"CurrentFM/logger"
	"CurrentFM/model"

	"github.com/go-redis/redis/v8"
)

const (
	trackListKey = "currentfm:tracks:all"
	trackListTTL = 5 * time.Minute
)

// TrackCache caches the track listing in Redis. The ingest pipeline
// invalidates it whenever a record is persisted.
type TrackCache struct {
	client *redis.Client
}

// NewTrackCache creates a TrackCache.
func NewTrackCache(client *redis.Client) *TrackCache {
	return &TrackCache{client: client}
}

// GetList returns the cached track listing, or (nil, false) on a miss.
func (c *TrackCache) GetList(ctx context.Context) ([]*model.Track, bool) {
	data, err := c.client.Get(ctx, trackListKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("track cache read failed", logger.ErrorField(err))
		}
		return nil, false
	}

	var tracks []*model.Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		logger.Warn("track cache entry malformed, dropping", logger.ErrorField(err))
		c.client.Del(ctx, trackListKey)
		return nil, false
	}
	return tracks, true
}

// SetList stores the track listing.
func (c *TrackCache) SetList(ctx context.Context, tracks []*model.Track) error {
	data, err := json.Marshal(tracks)
	if err != nil {
		return fmt.Errorf("failed to marshal track list: %w", err)
	}
	if err := c.client.Set(ctx, trackListKey, data, trackListTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache track list: %w", err)
	}
	return nil
}

// Invalidate drops the cached listing.
func (c *TrackCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, trackListKey).Err(); err != nil {
		logger.Warn("track cache invalidation failed", logger.ErrorField(err))
	}
}
