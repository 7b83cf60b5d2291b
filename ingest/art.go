package ingest

import (
	"context"
	"path/filepath"
	"strings"

	"CurrentFM/logger"
)

// supportedImageExts are the raw art formats the resolver will materialize.
var supportedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// ArtResolver materializes album art at its canonical destination. Art is
// deduplicated per (artist, album): the first track to establish a cover
// wins and later tracks reuse it without re-processing. Every failure in
// here degrades to "no art"; a missing cover never blocks an audio ingest.
type ArtResolver struct {
	store       ObjectStore
	transcoder  Transcoder
	rawBucket   string
	mediaBucket string
}

// NewArtResolver creates an ArtResolver.
func NewArtResolver(store ObjectStore, transcoder Transcoder, rawBucket, mediaBucket string) *ArtResolver {
	return &ArtResolver{
		store:       store,
		transcoder:  transcoder,
		rawBucket:   rawBucket,
		mediaBucket: mediaBucket,
	}
}

// Resolve returns the media-bucket key of the album cover, or "" when no
// art can be established. rawArtKey may be empty. scratchDir is a writable
// directory owned by the caller for the lifetime of the call.
func (r *ArtResolver) Resolve(ctx context.Context, artistSlug, albumSlug, rawArtKey, scratchDir string) string {
	dest := ArtDestination(artistSlug, albumSlug)

	exists, err := r.store.Exists(ctx, r.mediaBucket, dest)
	if err != nil {
		logger.Warn("art dedup check failed, skipping art",
			logger.String("dest", dest), logger.ErrorField(err))
		return ""
	}
	if exists {
		logger.Debug("album art already materialized", logger.String("dest", dest))
		return dest
	}

	if rawArtKey == "" {
		return ""
	}
	ext := strings.ToLower(filepath.Ext(rawArtKey))
	if !supportedImageExts[ext] {
		logger.Warn("unsupported art format, skipping art",
			logger.String("key", rawArtKey))
		return ""
	}

	if ext == ".jpg" || ext == ".jpeg" {
		// Already the canonical format; server-side copy with normalized
		// content type.
		if err := r.store.Copy(ctx, r.rawBucket, rawArtKey, r.mediaBucket, dest, "image/jpeg"); err != nil {
			logger.Warn("art copy failed, skipping art",
				logger.String("key", rawArtKey), logger.ErrorField(err))
			return ""
		}
		return dest
	}

	local := filepath.Join(scratchDir, "art"+ext)
	if err := r.store.Download(ctx, r.rawBucket, rawArtKey, local); err != nil {
		logger.Warn("art download failed, skipping art",
			logger.String("key", rawArtKey), logger.ErrorField(err))
		return ""
	}

	normalized, err := r.transcoder.TranscodeImage(ctx, local)
	if err != nil {
		logger.Warn("art transcode failed, skipping art",
			logger.String("key", rawArtKey), logger.ErrorField(err))
		return ""
	}

	if err := r.store.Upload(ctx, r.mediaBucket, dest, normalized, "image/jpeg"); err != nil {
		logger.Warn("art upload failed, skipping art",
			logger.String("dest", dest), logger.ErrorField(err))
		return ""
	}
	return dest
}
