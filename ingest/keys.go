package ingest

import (
	"fmt"
	"regexp"
	"strings"
)

// Object key layout:
//
//	raw uploads:  raw/<artist_slug>/<album_slug>/<token>__<filename>
//	audio output: tracks/<artist_slug>/<album_slug>/<filename>.mp3
//	cover output: albums/<artist_slug>/<album_slug>/cover.jpg
//
// The numeric token prefix is the only join key between an audio file,
// its optional art file, and its metadata sidecar. All key helpers are
// pure and total; malformed input yields empty strings, never an error.

// tokenPattern matches the correlation-token filename prefix.
var tokenPattern = regexp.MustCompile(`^(\d{9,12})__`)

// ParseCorrelation splits an object key into its folder scope and the
// correlation token embedded in the filename. The token is empty when the
// filename carries no token prefix.
func ParseCorrelation(key string) (folder, token string) {
	name := key
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		folder = key[:idx]
		name = key[idx+1:]
	}
	if m := tokenPattern.FindStringSubmatch(name); m != nil {
		token = m[1]
	}
	return folder, token
}

// TrimCorrelationPrefix removes a leading correlation-token prefix from a
// filename, if one is present.
func TrimCorrelationPrefix(name string) string {
	if m := tokenPattern.FindString(name); m != "" {
		return name[len(m):]
	}
	return name
}

// ParseFolderIdentity extracts the artist and album slugs encoded in a raw
// upload key of the shape raw/<artist>/<album>/<file>. Both results are
// empty for any other key shape.
func ParseFolderIdentity(key string) (artistSlug, albumSlug string) {
	parts := strings.Split(key, "/")
	if len(parts) < 4 || parts[0] != "raw" {
		return "", ""
	}
	return parts[1], parts[2]
}

// SidecarKey returns the key of the metadata sidecar for a correlation
// token within a folder scope.
func SidecarKey(folder, token string) string {
	if folder == "" {
		return fmt.Sprintf("%s__meta.json", token)
	}
	return fmt.Sprintf("%s/%s__meta.json", folder, token)
}

// AudioDestination returns the canonical media-bucket key for normalized
// audio. filename must already be sanitized and carry the .mp3 extension.
func AudioDestination(artistSlug, albumSlug, filename string) string {
	return fmt.Sprintf("tracks/%s/%s/%s", artistSlug, albumSlug, filename)
}

// ArtDestination returns the canonical media-bucket key for album art.
// There is exactly one cover per (artist, album) pair.
func ArtDestination(artistSlug, albumSlug string) string {
	return fmt.Sprintf("albums/%s/%s/cover.jpg", artistSlug, albumSlug)
}
