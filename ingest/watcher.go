package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"CurrentFM/logger"

	"github.com/fsnotify/fsnotify"
)

// DropWatcher is a development-mode ingest source: it watches a local
// directory laid out like the raw bucket (raw/<artist>/<album>/<file>),
// uploads newly dropped files to the raw bucket, and synthesizes creation
// events for them. The real deployment uses bucket notifications instead.
type DropWatcher struct {
	pipeline  *Pipeline
	store     ObjectStore
	rawBucket string
	root      string
}

// NewDropWatcher creates a watcher rooted at dir.
func NewDropWatcher(pipeline *Pipeline, store ObjectStore, rawBucket, dir string) *DropWatcher {
	return &DropWatcher{
		pipeline:  pipeline,
		store:     store,
		rawBucket: rawBucket,
		root:      dir,
	}
}

// Run watches the drop directory until ctx is cancelled. Subdirectories
// created while running are watched as well.
func (w *DropWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addRecursive(watcher, w.root); err != nil {
		return err
	}
	logger.Info("watching drop directory", logger.String("dir", w.root))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create == 0 {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if err := addRecursive(watcher, event.Name); err != nil {
					logger.Warn("failed to watch new directory",
						logger.String("dir", event.Name), logger.ErrorField(err))
				}
				continue
			}
			w.handleFile(ctx, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logger.ErrorField(err))
		}
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

// handleFile waits for the file to stop growing, uploads it under its
// drop-relative key, and runs the resulting event through the pipeline.
func (w *DropWatcher) handleFile(ctx context.Context, path string) {
	size, err := settle(path)
	if err != nil {
		logger.Warn("dropped file vanished before upload", logger.String("path", path))
		return
	}

	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		logger.Warn("file outside drop root", logger.String("path", path))
		return
	}
	key := filepath.ToSlash(rel)

	if err := w.store.Upload(ctx, w.rawBucket, key, path, contentTypeFor(key)); err != nil {
		logger.Error("failed to upload dropped file",
			logger.String("key", key), logger.ErrorField(err))
		return
	}

	w.pipeline.ProcessBatch(ctx, []ObjectEvent{{
		Bucket:    w.rawBucket,
		Key:       key,
		EventName: "s3:ObjectCreated:Put",
		Size:      size,
	}})
}

// settle polls until two consecutive stats report the same size, so the
// upload does not race the writer still filling the file.
func settle(path string) (int64, error) {
	var last int64 = -1
	for i := 0; i < 20; i++ {
		info, err := os.Stat(path)
		if err != nil {
			return 0, err
		}
		if info.Size() == last {
			return last, nil
		}
		last = info.Size()
		time.Sleep(500 * time.Millisecond)
	}
	return last, nil
}

// contentTypeFor maps a key extension to an upload content type.
func contentTypeFor(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".mp3":
		return "audio/mpeg"
	case ".flac":
		return "audio/flac"
	case ".wav":
		return "audio/wav"
	case ".m4a", ".aac":
		return "audio/mp4"
	case ".ogg":
		return "audio/ogg"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
