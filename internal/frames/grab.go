package frames

import (
	"context"
	"fmt"
	"strconv"

	"videonote/pkg/executor"
)

// Grabber decodes one frame of a video at the given time into destPath and
// returns its sharpness score. Implementations must be safe for concurrent
// use; the ffmpeg-backed one spawns a fresh process per call, so no decode
// handle is ever shared between workers.
type Grabber interface {
	Grab(ctx context.Context, videoPath string, seconds float64, destPath string) (float64, error)
}

type ffmpegGrabber struct {
	exec executor.Executor
}

// NewFFmpegGrabber returns the production Grabber using the ffmpeg binary.
func NewFFmpegGrabber(exec executor.Executor) Grabber {
	return &ffmpegGrabber{exec: exec}
}

func (g *ffmpegGrabber) Grab(ctx context.Context, videoPath string, seconds float64, destPath string) (float64, error) {
	// -ss before -i: seek to the nearest decodable position, then decode
	// forward to the requested time
	args := []string{
		"-ss", strconv.FormatFloat(seconds, 'f', 3, 64),
		"-i", videoPath,
		"-frames:v", "1",
		"-q:v", "2",
		"-y",
		destPath,
	}

	if _, err := g.exec.Execute(ctx, "ffmpeg", args...); err != nil {
		return 0, fmt.Errorf("ffmpeg decode at %.3fs: %w", seconds, err)
	}

	return SharpnessFile(destPath)
}
