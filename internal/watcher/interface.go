package watcher

import "context"

// Watcher defines the interface for file system monitoring
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// PairHandler handles a newly detected subtitle file and its matching video.
type PairHandler func(ctx context.Context, videoPath, subtitlePath string) error
