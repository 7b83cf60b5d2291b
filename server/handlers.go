package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"CurrentFM/cache"
	"CurrentFM/config"
	"CurrentFM/core/auth"
	"CurrentFM/logger"
	"CurrentFM/repository"

	"github.com/minio/minio-go/v7"
)

// APIHandler holds the dependencies shared by the HTTP handlers.
type APIHandler struct {
	cfg        *config.Config
	tracks     repository.TrackRepository
	users      repository.UserRepository
	trackCache *cache.TrackCache
	secrets    *auth.SecretProvider
	minio      *minio.Client
}

// NewAPIHandler creates an APIHandler.
func NewAPIHandler(cfg *config.Config, tracks repository.TrackRepository, users repository.UserRepository, trackCache *cache.TrackCache, secrets *auth.SecretProvider, minioClient *minio.Client) *APIHandler {
	return &APIHandler{
		cfg:        cfg,
		tracks:     tracks,
		users:      users,
		trackCache: trackCache,
		secrets:    secrets,
		minio:      minioClient,
	}
}

type contextKey string

const claimsKey contextKey = "claims"

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// bearerToken extracts a Bearer token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth wraps a handler with token verification. When roles are
// given, the claims' role must be one of them.
func (h *APIHandler) RequireAuth(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Missing Bearer token")
			return
		}

		claims, err := auth.ParseToken(h.secrets, token)
		if err != nil {
			logger.Warn("token verification failed", logger.ErrorField(err))
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		if len(roles) > 0 {
			allowed := false
			for _, role := range roles {
				if strings.EqualFold(claims.Role, role) {
					allowed = true
					break
				}
			}
			if !allowed {
				writeError(w, http.StatusForbidden, "Insufficient role")
				return
			}
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// claimsFrom returns the verified claims attached by RequireAuth.
func claimsFrom(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(claimsKey).(*auth.Claims)
	return claims
}
