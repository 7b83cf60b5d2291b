package ingest

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Transcoder normalizes media files: audio to a single codec and bitrate,
// images to a size-capped jpg. Inputs and outputs are local scratch files.
type Transcoder interface {
	TranscodeAudio(ctx context.Context, inputPath string) (string, error)
	TranscodeImage(ctx context.Context, inputPath string) (string, error)
}

// imageScaleFilter caps covers at 3000x3000 while preserving aspect ratio
// and never upscaling.
const imageScaleFilter = "scale='min(iw,3000)':'min(ih,3000)':force_original_aspect_ratio=decrease"

// FFmpegTranscoder implements Transcoder by invoking ffmpeg.
type FFmpegTranscoder struct {
	ffmpegPath   string
	audioBitrate string

	// run executes ffmpeg with the given args; swapped out in tests.
	run func(ctx context.Context, args []string) error
}

// NewFFmpegTranscoder creates an FFmpegTranscoder.
func NewFFmpegTranscoder(ffmpegPath, audioBitrate string) *FFmpegTranscoder {
	t := &FFmpegTranscoder{
		ffmpegPath:   ffmpegPath,
		audioBitrate: audioBitrate,
	}
	t.run = t.execFFmpeg
	return t
}

func (t *FFmpegTranscoder) execFFmpeg(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, t.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg execution failed: %w\nFFmpeg Error: %s", err, stderr.String())
	}
	return nil
}

// outputPath swaps the input's extension. The transcoder is only invoked
// when the source format differs from the target, so the paths never clash.
func outputPath(inputPath, ext string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return base + ext
}

// TranscodeAudio converts a local audio file to CBR mp3 and returns the
// output path. A partial output is removed when the invocation fails.
func (t *FFmpegTranscoder) TranscodeAudio(ctx context.Context, inputPath string) (string, error) {
	out := outputPath(inputPath, ".mp3")
	args := []string{
		"-i", inputPath,
		"-y",
		"-codec:a", "libmp3lame",
		"-b:a", t.audioBitrate,
		out,
	}

	if err := t.run(ctx, args); err != nil {
		os.Remove(out)
		return "", fmt.Errorf("failed to transcode audio %s: %w", inputPath, err)
	}
	return out, nil
}

// TranscodeImage converts a local image to a size-capped jpg and returns
// the output path. A partial output is removed when the invocation fails.
func (t *FFmpegTranscoder) TranscodeImage(ctx context.Context, inputPath string) (string, error) {
	out := outputPath(inputPath, ".jpg")
	args := []string{
		"-i", inputPath,
		"-y",
		"-vf", imageScaleFilter,
		out,
	}

	if err := t.run(ctx, args); err != nil {
		os.Remove(out)
		return "", fmt.Errorf("failed to transcode image %s: %w", inputPath, err)
	}
	return out, nil
}
