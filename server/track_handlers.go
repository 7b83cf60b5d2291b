package server

import (
	"net/http"
	"net/url"

	"CurrentFM/logger"

	"github.com/gorilla/mux"
)

// GetTracksHandler lists all track records, newest first. The listing is
// cached in Redis; ingest invalidates the cache when a record lands.
func (h *APIHandler) GetTracksHandler(w http.ResponseWriter, r *http.Request) {
	if tracks, ok := h.trackCache.GetList(r.Context()); ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{"tracks": tracks})
		return
	}

	tracks, err := h.tracks.List(r.Context())
	if err != nil {
		logger.Error("track listing failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.trackCache.SetList(r.Context(), tracks); err != nil {
		logger.Warn("track cache write failed", logger.ErrorField(err))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"tracks": tracks})
}

// StreamURLHandler resolves a track to a time-limited playable URL for its
// normalized audio object.
func (h *APIHandler) StreamURLHandler(w http.ResponseWriter, r *http.Request) {
	trackID := mux.Vars(r)["track_id"]
	if trackID == "" {
		writeError(w, http.StatusBadRequest, "Missing track_id in path")
		return
	}

	track, err := h.tracks.GetByID(r.Context(), trackID)
	if err != nil {
		logger.Error("track lookup failed",
			logger.String("track_id", trackID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if track == nil {
		writeError(w, http.StatusNotFound, "Track not found")
		return
	}
	if track.StreamPath == "" {
		writeError(w, http.StatusInternalServerError, "Track is missing stream path")
		return
	}

	streamURL, err := h.minio.PresignedGetObject(r.Context(), h.cfg.MediaBucket, track.StreamPath, h.cfg.StreamURLExpiry, url.Values{})
	if err != nil {
		logger.Error("failed to presign stream URL",
			logger.String("track_id", trackID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"stream_url": streamURL.String(),
	})
}
