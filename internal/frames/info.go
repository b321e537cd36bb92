package frames

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"videonote/internal/subtitle"
	"videonote/pkg/executor"
)

// Info holds basic video metadata from ffprobe.
type Info struct {
	Duration float64 `json:"duration"`
	FPS      float64 `json:"fps"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
}

// DurationFormatted renders the duration as a zero-padded clock string.
func (i Info) DurationFormatted() string {
	return subtitle.FormatClock(i.Duration)
}

// Probe reads video metadata via ffprobe.
func Probe(ctx context.Context, exec executor.Executor, videoPath string) (Info, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,avg_frame_rate",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1",
		videoPath,
	}

	out, err := exec.Execute(ctx, "ffprobe", args...)
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe %s: %w", videoPath, err)
	}

	info, err := parseProbeOutput(out)
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe %s: %w", videoPath, err)
	}
	return info, nil
}

func parseProbeOutput(out string) (Info, error) {
	var info Info
	for _, line := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch key {
		case "width":
			info.Width, _ = strconv.Atoi(value)
		case "height":
			info.Height, _ = strconv.Atoi(value)
		case "duration":
			info.Duration, _ = strconv.ParseFloat(value, 64)
		case "avg_frame_rate":
			info.FPS = parseFrameRate(value)
		}
	}
	if info.Duration <= 0 {
		return Info{}, fmt.Errorf("no duration in probe output")
	}
	return info, nil
}

// parseFrameRate handles ffprobe's fractional rates such as "30000/1001".
func parseFrameRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	n, errN := strconv.ParseFloat(num, 64)
	d, errD := strconv.ParseFloat(den, 64)
	if errN != nil || errD != nil || d == 0 {
		return 0
	}
	return n / d
}
