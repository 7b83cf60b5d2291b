package ingest

import (
	"strings"
	"unicode"
)

// Placeholders used when normalization leaves nothing usable.
const (
	UntitledTrack = "Untitled"
	UnknownSlug   = "unknown"
)

// SanitizeFilename makes a filename safe for key construction: whitespace
// becomes '_' and anything outside [A-Za-z0-9_.-] is dropped. Idempotent.
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte('_')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_' || r == '.' || r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TitleFromFilename infers a display title from a raw filename: the
// extension and any correlation-token prefix are stripped, underscores
// become spaces. Returns "Untitled" if nothing remains.
func TitleFromFilename(name string) string {
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	name = TrimCorrelationPrefix(name)
	name = strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
	if name == "" {
		return UntitledTrack
	}
	return name
}

// CleanDisplay normalizes a user-facing string: trims, collapses internal
// whitespace runs to a single space, and drops characters outside
// [A-Za-z0-9 _.-]. Casing is preserved.
func CleanDisplay(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '_', r == '.', r == '-':
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Slug derives a storage-key identifier from a display string: cleaned,
// lowercased, spaces to underscores, repeated underscores collapsed and
// trimmed. Returns "unknown" if nothing remains. Distinct display strings
// may collide on slug; that is accepted.
func Slug(s string) string {
	s = strings.ToLower(CleanDisplay(s))
	s = strings.ReplaceAll(s, " ", "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	s = strings.Trim(s, "_")
	if s == "" {
		return UnknownSlug
	}
	return s
}
