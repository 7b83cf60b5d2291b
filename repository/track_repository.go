package repository

import (
	"context"
	"errors"
	"fmt"

	"CurrentFM/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TrackRepository defines the interface for track record operations.
type TrackRepository interface {
	Upsert(ctx context.Context, track *model.Track) error
	GetByID(ctx context.Context, id string) (*model.Track, error)
	GetByStreamPath(ctx context.Context, streamPath string) (*model.Track, error)
	List(ctx context.Context) ([]*model.Track, error)
}

type gormTrackRepository struct {
	db *gorm.DB
}

// NewTrackRepository creates a GORM-backed TrackRepository.
func NewTrackRepository(db *gorm.DB) TrackRepository {
	return &gormTrackRepository{db: db}
}

// Upsert writes a track record, replacing any existing record with the
// same identifier. Redelivered notifications land on the same id, so this
// is a plain overwrite rather than an insert-or-fail.
func (r *gormTrackRepository) Upsert(ctx context.Context, track *model.Track) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(track).Error
	if err != nil {
		return fmt.Errorf("failed to upsert track %s: %w", track.ID, err)
	}
	return nil
}

// GetByID retrieves a track by its identifier. Returns (nil, nil) when the
// track does not exist.
func (r *gormTrackRepository) GetByID(ctx context.Context, id string) (*model.Track, error) {
	var track model.Track
	err := r.db.WithContext(ctx).First(&track, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query track %s: %w", id, err)
	}
	return &track, nil
}

// GetByStreamPath retrieves a track by its destination key. Returns
// (nil, nil) when no track references the path.
func (r *gormTrackRepository) GetByStreamPath(ctx context.Context, streamPath string) (*model.Track, error) {
	var track model.Track
	err := r.db.WithContext(ctx).First(&track, "stream_path = ?", streamPath).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query track by stream path %s: %w", streamPath, err)
	}
	return &track, nil
}

// List retrieves all tracks, newest first.
func (r *gormTrackRepository) List(ctx context.Context) ([]*model.Track, error) {
	tracks := make([]*model.Track, 0)
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	return tracks, nil
}
