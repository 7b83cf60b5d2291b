package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestTranscodeAudioArgs(t *testing.T) {
	transcoder := NewFFmpegTranscoder("ffmpeg", "192k")

	var gotArgs []string
	transcoder.run = func(ctx context.Context, args []string) error {
		gotArgs = args
		return os.WriteFile(args[len(args)-1], []byte("mp3"), 0644)
	}

	dir := t.TempDir()
	input := filepath.Join(dir, "source.flac")
	if err := os.WriteFile(input, []byte("flac"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := transcoder.TranscodeAudio(context.Background(), input)
	if err != nil {
		t.Fatalf("TranscodeAudio() error = %v", err)
	}
	if out != filepath.Join(dir, "source.mp3") {
		t.Errorf("output path = %q", out)
	}

	want := []string{"-i", input, "-y", "-codec:a", "libmp3lame", "-b:a", "192k", out}
	if len(gotArgs) != len(want) {
		t.Fatalf("args = %v, want %v", gotArgs, want)
	}
	for i := range want {
		if gotArgs[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, gotArgs[i], want[i])
		}
	}
}

func TestTranscodeImageArgs(t *testing.T) {
	transcoder := NewFFmpegTranscoder("ffmpeg", "192k")

	var gotArgs []string
	transcoder.run = func(ctx context.Context, args []string) error {
		gotArgs = args
		return os.WriteFile(args[len(args)-1], []byte("jpg"), 0644)
	}

	dir := t.TempDir()
	input := filepath.Join(dir, "art.png")
	if err := os.WriteFile(input, []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := transcoder.TranscodeImage(context.Background(), input)
	if err != nil {
		t.Fatalf("TranscodeImage() error = %v", err)
	}
	if out != filepath.Join(dir, "art.jpg") {
		t.Errorf("output path = %q", out)
	}

	foundFilter := false
	for i, arg := range gotArgs {
		if arg == "-vf" && i+1 < len(gotArgs) && gotArgs[i+1] == imageScaleFilter {
			foundFilter = true
		}
	}
	if !foundFilter {
		t.Errorf("scale filter missing from args %v", gotArgs)
	}
}

func TestTranscodeRemovesPartialOutputOnFailure(t *testing.T) {
	transcoder := NewFFmpegTranscoder("ffmpeg", "192k")

	transcoder.run = func(ctx context.Context, args []string) error {
		// Simulate ffmpeg dying after writing a partial file.
		if err := os.WriteFile(args[len(args)-1], []byte("partial"), 0644); err != nil {
			return err
		}
		return errors.New("ffmpeg execution failed")
	}

	dir := t.TempDir()
	input := filepath.Join(dir, "source.flac")
	if err := os.WriteFile(input, []byte("flac"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := transcoder.TranscodeAudio(context.Background(), input); err == nil {
		t.Fatal("TranscodeAudio() should fail when ffmpeg fails")
	}

	if _, err := os.Stat(filepath.Join(dir, "source.mp3")); !os.IsNotExist(err) {
		t.Error("partial output was not cleaned up")
	}
}
