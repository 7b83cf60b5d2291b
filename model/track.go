package model

import "time"

// Track is the persisted output of the ingest pipeline: one row per
// successfully processed raw audio object.
type Track struct {
	ID           string    `json:"id" gorm:"primaryKey;size:64"`
	Title        string    `json:"title"`
	Artist       string    `json:"artist,omitempty"`
	Album        string    `json:"album,omitempty"`
	TrackNumber  *int      `json:"track_number,omitempty"`
	ReleaseYear  *int      `json:"release_year,omitempty"`
	StreamPath   string    `json:"stream_path" gorm:"size:767"`          // key in the media bucket, e.g. tracks/pink_floyd/wish_you_were_here/wires.mp3
	SourceFormat string    `json:"source_format,omitempty"`              // extension of the raw upload, e.g. "flac"
	ArtPath      string    `json:"art_path,omitempty" gorm:"size:767"`   // key of the album cover in the media bucket, if any
	RawKey       string    `json:"raw_key,omitempty" gorm:"size:767"`    // original object in the raw bucket, kept for diagnostics
	MetaKey      string    `json:"meta_key,omitempty" gorm:"size:767"`   // sidecar object that supplied metadata, if resolved
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
