package ingest

import (
	"regexp"
	"strings"
	"testing"
)

var (
	filenameCharset = regexp.MustCompile(`^[A-Za-z0-9_.-]*$`)
	slugCharset     = regexp.MustCompile(`^[a-z0-9_.-]*$`)
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already clean", "wires.flac", "wires.flac"},
		{"spaces become underscores", "my song.mp3", "my_song.mp3"},
		{"tabs and newlines too", "a\tb\nc.mp3", "a_b_c.mp3"},
		{"strips specials", "so/ng:*?.mp3", "song.mp3"},
		{"strips unicode", "naïve café.mp3", "nave_caf.mp3"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.in)
			if got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilenameProperties(t *testing.T) {
	inputs := []string{
		"wires.flac", "my song.mp3", "a\tb c__d.ogg", "Ünïcödé name!.wav",
		"", " ", "....", "__--..", "1700000000__track one.flac",
	}

	for _, in := range inputs {
		got := SanitizeFilename(in)
		if !filenameCharset.MatchString(got) {
			t.Errorf("SanitizeFilename(%q) = %q contains invalid characters", in, got)
		}
		if again := SanitizeFilename(got); again != got {
			t.Errorf("SanitizeFilename not idempotent on %q: %q != %q", in, got, again)
		}
	}
}

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"token and extension stripped", "1700000000__wires.flac", "wires"},
		{"underscores become spaces", "comfortably_numb.mp3", "comfortably numb"},
		{"no extension", "wires", "wires"},
		{"only token", "1700000000__.mp3", UntitledTrack},
		{"empty", "", UntitledTrack},
		{"leading dot is not an extension", ".hidden", ".hidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TitleFromFilename(tt.in)
			if got != tt.want {
				t.Errorf("TitleFromFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanDisplay(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"preserves case", "Pink Floyd", "Pink Floyd"},
		{"collapses whitespace", "  Pink \t Floyd  ", "Pink Floyd"},
		{"drops specials", "AC/DC!", "ACDC"},
		{"keeps allowed punctuation", "Mellon Collie - Disc_1.5", "Mellon Collie - Disc_1.5"},
		{"empty", "", ""},
		{"only specials", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanDisplay(tt.in)
			if got != tt.want {
				t.Errorf("CleanDisplay(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases and underscores", "Wish You Were Here", "wish_you_were_here"},
		{"collapses repeats", "a  b___c", "a_b_c"},
		{"trims underscores", "  _x_  ", "x"},
		{"empty maps to unknown", "", UnknownSlug},
		{"specials only map to unknown", "???", UnknownSlug},
		{"already a slug", "pink_floyd", "pink_floyd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slug(tt.in)
			if got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlugProperties(t *testing.T) {
	inputs := []string{
		"Wish You Were Here", "PINK FLOYD", "a  b___c", "", "Déjà Vu",
		"dots.and-dashes_ok", "  spaced  out  ", "1979", "__",
	}

	for _, in := range inputs {
		got := Slug(in)
		if got != strings.ToLower(got) {
			t.Errorf("Slug(%q) = %q is not lowercase", in, got)
		}
		if !slugCharset.MatchString(got) {
			t.Errorf("Slug(%q) = %q contains invalid characters", in, got)
		}
		if strings.Contains(got, "__") {
			t.Errorf("Slug(%q) = %q contains repeated underscores", in, got)
		}
		if again := Slug(got); again != got {
			t.Errorf("Slug not idempotent on %q: %q != %q", in, got, again)
		}
	}
}

func TestSlugCaseInsensitiveStability(t *testing.T) {
	// Different casings of the same display name must land on the same
	// slug, so destination keys stay identical.
	if Slug("Pink Floyd") != Slug("PINK FLOYD") || Slug("Pink Floyd") != Slug("pink floyd") {
		t.Error("Slug is not case-insensitive stable")
	}
}
