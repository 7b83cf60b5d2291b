package server

import (
	"net/http"

	"CurrentFM/model"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// newRouter builds the API routes with request tagging and CORS handling.
func newRouter(h *APIHandler, hub *IngestHub) *mux.Router {
	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", requestID)

			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Cache-Control", "no-store")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/auth/register", h.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", h.LoginHandler).Methods(http.MethodPost)

	router.HandleFunc("/api/tracks", h.GetTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{track_id}/stream", h.StreamURLHandler).Methods(http.MethodGet)

	router.HandleFunc("/api/uploads/init",
		h.RequireAuth(h.UploadInitHandler, model.RoleArtist, model.RoleAdmin)).Methods(http.MethodPost)

	router.HandleFunc("/ws/ingest", hub.ServeWS).Methods(http.MethodGet)

	return router
}
