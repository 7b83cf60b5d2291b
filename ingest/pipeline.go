package ingest

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"CurrentFM/logger"
	"CurrentFM/model"
)

// supportedAudioExts are the raw audio formats the pipeline accepts.
var supportedAudioExts = map[string]bool{
	".mp3":  true,
	".flac": true,
	".wav":  true,
	".m4a":  true,
	".aac":  true,
	".ogg":  true,
}

// Per-event outcomes.
const (
	StatusIngested = "ingested"
	StatusIgnored  = "ignored"
	StatusFailed   = "failed"
)

// Result reports the outcome of one notification.
type Result struct {
	Status  string `json:"status"`
	Key     string `json:"key"`
	TrackID string `json:"track_id,omitempty"`
	Err     error  `json:"-"`
	Reason  string `json:"reason,omitempty"`
}

// RecordStore persists track records.
type RecordStore interface {
	Upsert(ctx context.Context, track *model.Track) error
}

// Pipeline reconciles independently-uploaded companion objects (audio,
// art, metadata sidecar) into one track record plus normalized assets in
// the media bucket. Each notification is an independent unit of work and
// runs to a terminal state; failures of one never abort the rest of a
// batch.
type Pipeline struct {
	store       ObjectStore
	transcoder  Transcoder
	metadata    *MetadataResolver
	art         *ArtResolver
	records     RecordStore
	rawBucket   string
	mediaBucket string

	// notify, when set, receives every non-ignored result. Used for the
	// websocket feed and cache invalidation.
	notify func(Result)
}

// NewPipeline wires up the ingest pipeline.
func NewPipeline(store ObjectStore, transcoder Transcoder, metadata *MetadataResolver, art *ArtResolver, records RecordStore, rawBucket, mediaBucket string) *Pipeline {
	return &Pipeline{
		store:       store,
		transcoder:  transcoder,
		metadata:    metadata,
		art:         art,
		records:     records,
		rawBucket:   rawBucket,
		mediaBucket: mediaBucket,
	}
}

// OnResult registers a hook invoked for every processed (non-ignored)
// notification.
func (p *Pipeline) OnResult(fn func(Result)) {
	p.notify = fn
}

// TrackID derives the record identifier from the raw source key. Making it
// deterministic means host-level redelivery of the same notification
// converges on one record instead of accumulating duplicates.
func TrackID(rawKey string) string {
	sum := sha1.Sum([]byte(rawKey))
	return "trk_" + hex.EncodeToString(sum[:])[:8]
}

// ProcessBatch runs every event through the pipeline in the order given.
// Per-item failures are isolated: they are logged, reported in the
// results, and never abort the remaining events.
func (p *Pipeline) ProcessBatch(ctx context.Context, events []ObjectEvent) []Result {
	results := make([]Result, 0, len(events))
	for _, event := range events {
		result := p.Process(ctx, event)
		if result.Status == StatusFailed {
			logger.Error("ingest failed",
				logger.String("key", event.Key),
				logger.ErrorField(result.Err))
		}
		if result.Status != StatusIgnored && p.notify != nil {
			p.notify(result)
		}
		results = append(results, result)
	}
	return results
}

// Process runs one notification to a terminal state.
func (p *Pipeline) Process(ctx context.Context, event ObjectEvent) Result {
	// Filtering: creation events for supported audio only.
	if !event.IsCreation() {
		return Result{Status: StatusIgnored, Key: event.Key, Reason: "not a creation event"}
	}
	ext := strings.ToLower(filepath.Ext(event.Key))
	if !supportedAudioExts[ext] {
		return Result{Status: StatusIgnored, Key: event.Key, Reason: "not a supported audio file"}
	}

	logger.Info("ingesting raw audio object",
		logger.String("bucket", event.Bucket),
		logger.String("key", event.Key),
		logger.Int64("size", event.Size))

	// Identifying: correlation token, folder scope, provisional identity.
	folder, token := ParseCorrelation(event.Key)
	filename := event.Key
	if idx := strings.LastIndex(event.Key, "/"); idx >= 0 {
		filename = event.Key[idx+1:]
	}
	pathArtist, pathAlbum := ParseFolderIdentity(event.Key)

	// ResolvingMetadata: only possible when a correlation token exists.
	var meta *TrackMeta
	var metaKey string
	if token != "" {
		var err error
		meta, metaKey, err = p.metadata.Resolve(ctx, event.Bucket, folder, token)
		if err != nil {
			return Result{Status: StatusFailed, Key: event.Key, Err: err}
		}
	}

	// Effective display fields: sidecar values override fallbacks when
	// non-empty after cleanup.
	title := TitleFromFilename(filename)
	artistDisplay := pathArtist
	albumDisplay := pathAlbum
	if meta != nil {
		if v := CleanDisplay(meta.Title); v != "" {
			title = v
		}
		if v := CleanDisplay(meta.Artist); v != "" {
			artistDisplay = v
		}
		if v := CleanDisplay(meta.Album); v != "" {
			albumDisplay = v
		}
	}

	// Canonical slugs come from the effective display names; the path-only
	// fallback already is a slug, and Slug is idempotent over slugs.
	artistSlug := Slug(artistDisplay)
	albumSlug := Slug(albumDisplay)
	if artistDisplay == "" {
		artistDisplay = artistSlug
	}
	if albumDisplay == "" {
		albumDisplay = albumSlug
	}

	scratch, err := os.MkdirTemp("", "currentfm-ingest-")
	if err != nil {
		return Result{Status: StatusFailed, Key: event.Key,
			Err: fmt.Errorf("%w: scratch dir: %v", ErrTranscode, err)}
	}
	defer os.RemoveAll(scratch)

	// ProducingAudio: the local transcode completes before any destination
	// write, so an abort mid-transcode leaves no half-written object.
	base := TrimCorrelationPrefix(strings.TrimSuffix(filename, filepath.Ext(filename)))
	dest := AudioDestination(artistSlug, albumSlug, SanitizeFilename(base)+".mp3")

	if ext == ".mp3" {
		if err := p.store.Copy(ctx, event.Bucket, event.Key, p.mediaBucket, dest, "audio/mpeg"); err != nil {
			return Result{Status: StatusFailed, Key: event.Key,
				Err: fmt.Errorf("%w: %v", ErrTranscode, err)}
		}
	} else {
		local := filepath.Join(scratch, "source"+ext)
		if err := p.store.Download(ctx, event.Bucket, event.Key, local); err != nil {
			return Result{Status: StatusFailed, Key: event.Key,
				Err: fmt.Errorf("%w: %v", ErrTranscode, err)}
		}
		normalized, err := p.transcoder.TranscodeAudio(ctx, local)
		if err != nil {
			return Result{Status: StatusFailed, Key: event.Key,
				Err: fmt.Errorf("%w: %v", ErrTranscode, err)}
		}
		if err := p.store.Upload(ctx, p.mediaBucket, dest, normalized, "audio/mpeg"); err != nil {
			return Result{Status: StatusFailed, Key: event.Key,
				Err: fmt.Errorf("%w: %v", ErrTranscode, err)}
		}
	}

	// ResolvingArt: degrades to "no art" on any failure.
	artPath := p.art.Resolve(ctx, artistSlug, albumSlug, meta.RawArtKey(), scratch)

	// Persisting: the record is written only after all asset writes, so a
	// redelivery after a persist failure re-runs convergent asset writes.
	track := &model.Track{
		ID:           TrackID(event.Key),
		Title:        title,
		Artist:       artistDisplay,
		Album:        albumDisplay,
		StreamPath:   dest,
		SourceFormat: strings.TrimPrefix(ext, "."),
		ArtPath:      artPath,
		RawKey:       event.Key,
	}
	if meta != nil {
		track.TrackNumber = meta.TrackNumber
		track.ReleaseYear = meta.ReleaseYear
		track.MetaKey = metaKey
	}

	if err := p.records.Upsert(ctx, track); err != nil {
		return Result{Status: StatusFailed, Key: event.Key,
			Err: fmt.Errorf("%w: %v", ErrPersist, err)}
	}

	logger.Info("track ingested",
		logger.String("track_id", track.ID),
		logger.String("title", track.Title),
		logger.String("stream_path", track.StreamPath))

	return Result{Status: StatusIngested, Key: event.Key, TrackID: track.ID}
}
