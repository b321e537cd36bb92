package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"videonote/internal/logger"
)

var (
	subtitleExts = map[string]bool{".srt": true, ".vtt": true, ".txt": true}
	videoExts    = []string{".mp4", ".mov", ".avi", ".mkv", ".webm", ".m4v", ".flv"}
)

type implWatcher struct {
	inputDir      string
	handler       PairHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	semaphore     chan struct{}
	wg            sync.WaitGroup
}

// Start begins monitoring the input directory for new subtitle files. A
// subtitle is processed once a video with the same basename exists next to it.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inputDir)
	w.logger.Info(ctx, "Subtitle formats: .srt, .vtt, .txt; paired video formats: %s", strings.Join(videoExts, ", "))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing runs to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "Watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !subtitleExts[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}

			videoPath, found := w.findVideo(event.Name)
			if !found {
				w.logger.Warn(ctx, "No matching video for subtitle %s, skipping", event.Name)
				continue
			}

			w.logger.Info(ctx, "New subtitle detected: %s (video: %s)", event.Name, videoPath)

			// Small delay to ensure the file is fully written
			time.Sleep(500 * time.Millisecond)

			select {
			case w.semaphore <- struct{}{}:
				w.wg.Add(1)
				go func(video, sub string) {
					defer w.wg.Done()
					defer func() { <-w.semaphore }()
					if err := w.handler(ctx, video, sub); err != nil {
						w.logger.Error(ctx, "Failed to process %s: %v", sub, err)
					}
				}(videoPath, event.Name)
			case <-ctx.Done():
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// findVideo looks for a video file sharing the subtitle's basename.
func (w *implWatcher) findVideo(subtitlePath string) (string, bool) {
	base := strings.TrimSuffix(subtitlePath, filepath.Ext(subtitlePath))
	for _, ext := range videoExts {
		candidate := base + ext
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

// Stop closes the underlying filesystem watcher.
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}
