package frames

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"videonote/internal/logger"
)

// Result is the outcome of extracting one frame. Exactly one of Path or Err
// is meaningful: a non-nil Err means no frame could be decoded at all.
type Result struct {
	Path      string
	Sharpness float64
	// OffsetSeconds is how far the retained frame's timestamp is from the
	// requested moment (0 when the exact timestamp decoded cleanly).
	OffsetSeconds float64
	// Degraded marks a frame kept even though nothing in the probe window
	// cleared the sharpness threshold.
	Degraded bool
	Err      error
}

// Failed reports whether no frame could be produced for the moment.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Options tunes the sharpness probe. Zero values fall back to defaults.
type Options struct {
	SharpnessThreshold float64
	ProbeStep          float64
	MaxRadius          float64
}

func (o *Options) fill() {
	if o.SharpnessThreshold <= 0 {
		o.SharpnessThreshold = 100.0
	}
	if o.ProbeStep <= 0 {
		o.ProbeStep = 0.5
	}
	if o.MaxRadius <= 0 {
		o.MaxRadius = 2.0
	}
}

// Engine locates and persists the sharpest decodable frame near a requested
// moment.
type Engine struct {
	grab Grabber
	log  logger.Logger
	opts Options
}

func NewEngine(grab Grabber, log logger.Logger, opts Options) *Engine {
	opts.fill()
	return &Engine{grab: grab, log: log, opts: opts}
}

// Extract decodes the frame nearest to target seconds. If it falls below the
// sharpness threshold, an expanding symmetric window around the target is
// probed and the sharpest frame wins; a below-threshold best is still kept,
// flagged Degraded. The accepted frame is persisted to
// <outDir>/frame_<index>.jpg. Every call works in its own temp dir, so
// concurrent extractions never collide.
func (e *Engine) Extract(ctx context.Context, videoPath string, target, duration float64, index int, outDir string) Result {
	tmpDir, err := os.MkdirTemp("", "videonote-frame-*")
	if err != nil {
		return Result{Err: fmt.Errorf("create temp dir: %w", err)}
	}
	defer os.RemoveAll(tmpDir)

	type candidate struct {
		path   string
		score  float64
		offset float64
	}
	var best candidate
	found := false
	var lastErr error

	seen := make(map[float64]bool)
	for i, off := range e.probeOffsets() {
		if ctx.Err() != nil {
			break
		}

		t := clampTime(target+off, duration)
		if seen[t] {
			continue
		}
		seen[t] = true

		candPath := filepath.Join(tmpDir, fmt.Sprintf("cand_%02d.jpg", i))
		score, err := e.grab.Grab(ctx, videoPath, t, candPath)
		if err != nil {
			lastErr = err
			continue
		}

		if !found || score > best.score {
			best = candidate{path: candPath, score: score, offset: t - target}
			found = true
		}
		if score >= e.opts.SharpnessThreshold {
			break
		}
	}

	if !found {
		if lastErr == nil {
			lastErr = ctx.Err()
		}
		return Result{Err: fmt.Errorf("decode frame near %.2fs: %w", target, lastErr)}
	}

	finalPath := filepath.Join(outDir, fmt.Sprintf("frame_%03d.jpg", index))
	if err := moveFile(best.path, finalPath); err != nil {
		return Result{Err: fmt.Errorf("persist frame: %w", err)}
	}

	degraded := best.score < e.opts.SharpnessThreshold
	if degraded {
		e.log.Debug(ctx, "no frame near %.2fs cleared threshold %.1f, keeping sharpest (%.1f)",
			target, e.opts.SharpnessThreshold, best.score)
	}

	return Result{
		Path:          finalPath,
		Sharpness:     best.score,
		OffsetSeconds: best.offset,
		Degraded:      degraded,
	}
}

// probeOffsets yields 0, +step, -step, +2*step, -2*step, ... out to MaxRadius.
func (e *Engine) probeOffsets() []float64 {
	offsets := []float64{0}
	for k := 1; ; k++ {
		off := float64(k) * e.opts.ProbeStep
		if off > e.opts.MaxRadius+1e-9 {
			break
		}
		offsets = append(offsets, off, -off)
	}
	return offsets
}

func clampTime(t, duration float64) float64 {
	if duration > 0 {
		t = math.Min(t, duration-0.1)
	}
	return math.Max(t, 0)
}

// moveFile renames, falling back to copy across filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
