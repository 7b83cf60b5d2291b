package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"CurrentFM/ingest"
	"CurrentFM/logger"
)

// UploadInitRequest describes one intended upload: an audio file, optional
// cover art, and the metadata the sidecar will carry.
type UploadInitRequest struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	TrackNumber *int   `json:"track_number,omitempty"`
	ReleaseYear *int   `json:"release_year,omitempty"`

	AudioFilename    string `json:"audio_filename"`
	AudioContentType string `json:"audio_content_type,omitempty"`
	ArtFilename      string `json:"art_filename,omitempty"`
	ArtContentType   string `json:"art_content_type,omitempty"`
}

// UploadInitResponse carries the raw-bucket keys plus presigned PUT URLs
// for the three companion objects. The shared timestamp token in each key
// is what the ingest pipeline later joins them on.
type UploadInitResponse struct {
	AudioKey    string `json:"audio_key"`
	AudioPutURL string `json:"audio_put_url"`

	ArtKey    string `json:"art_key,omitempty"`
	ArtPutURL string `json:"art_put_url,omitempty"`

	MetaKey    string `json:"meta_key"`
	MetaPutURL string `json:"meta_put_url"`

	MetaFields ingest.TrackMeta `json:"meta_fields"`
}

// UploadInitHandler issues presigned PUT URLs for one upload. Requires the
// artist or admin role (enforced by RequireAuth on the route).
func (h *APIHandler) UploadInitHandler(w http.ResponseWriter, r *http.Request) {
	var req UploadInitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	title := ingest.CleanDisplay(req.Title)
	artist := ingest.CleanDisplay(req.Artist)
	album := ingest.CleanDisplay(req.Album)
	audioFilename := ingest.SanitizeFilename(req.AudioFilename)
	artFilename := ingest.SanitizeFilename(req.ArtFilename)

	if title == "" || artist == "" || album == "" || audioFilename == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: title, artist, album, audio_filename")
		return
	}

	// The token doubles as the correlation key joining audio, art, and
	// sidecar once they land independently.
	token := fmt.Sprintf("%d", time.Now().Unix())
	folder := fmt.Sprintf("raw/%s/%s", ingest.Slug(artist), ingest.Slug(album))

	audioKey := fmt.Sprintf("%s/%s__%s", folder, token, audioFilename)
	metaKey := ingest.SidecarKey(folder, token)
	artKey := ""
	if artFilename != "" {
		artKey = fmt.Sprintf("%s/%s__%s", folder, token, artFilename)
	}

	resp := UploadInitResponse{
		AudioKey: audioKey,
		ArtKey:   artKey,
		MetaKey:  metaKey,
		MetaFields: ingest.TrackMeta{
			Title:       title,
			Artist:      artist,
			Album:       album,
			TrackNumber: req.TrackNumber,
			ReleaseYear: req.ReleaseYear,
			ArtKey:      artKey,
		},
	}

	audioURL, err := h.minio.PresignedPutObject(r.Context(), h.cfg.RawBucket, audioKey, h.cfg.UploadURLExpiry)
	if err != nil {
		logger.Error("failed to presign audio upload", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	resp.AudioPutURL = audioURL.String()

	metaURL, err := h.minio.PresignedPutObject(r.Context(), h.cfg.RawBucket, metaKey, h.cfg.UploadURLExpiry)
	if err != nil {
		logger.Error("failed to presign sidecar upload", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	resp.MetaPutURL = metaURL.String()

	if artKey != "" {
		artURL, err := h.minio.PresignedPutObject(r.Context(), h.cfg.RawBucket, artKey, h.cfg.UploadURLExpiry)
		if err != nil {
			logger.Error("failed to presign art upload", logger.ErrorField(err))
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		resp.ArtPutURL = artURL.String()
	}

	claims := claimsFrom(r)
	logger.Info("upload initialized",
		logger.String("audio_key", audioKey),
		logger.String("by", claims.Username))

	writeJSON(w, http.StatusOK, resp)
}
