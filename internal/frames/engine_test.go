package frames

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"videonote/internal/logger"
)

// stubGrabber scores frames by a fixed seconds->sharpness table and writes a
// placeholder file so persistence can be exercised.
type stubGrabber struct {
	scores map[float64]float64
	err    error
}

func (s *stubGrabber) Grab(ctx context.Context, videoPath string, seconds float64, destPath string) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	score, ok := s.scores[round1(seconds)]
	if !ok {
		score = 10
	}
	if err := os.WriteFile(destPath, []byte("jpeg"), 0644); err != nil {
		return 0, err
	}
	return score, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func testEngine(t *testing.T, g Grabber, opts Options) (*Engine, string) {
	t.Helper()
	return NewEngine(g, logger.New("error"), opts), t.TempDir()
}

func TestExtractSharpAtTarget(t *testing.T) {
	grab := &stubGrabber{scores: map[float64]float64{50.0: 250}}
	engine, outDir := testEngine(t, grab, Options{SharpnessThreshold: 100})

	res := engine.Extract(context.Background(), "video.mp4", 50, 300, 0, outDir)
	if res.Failed() {
		t.Fatalf("Extract() failed: %v", res.Err)
	}
	if res.OffsetSeconds != 0 {
		t.Errorf("offset = %v, want 0", res.OffsetSeconds)
	}
	if res.Degraded {
		t.Error("frame above threshold must not be degraded")
	}
	if res.Path != filepath.Join(outDir, "frame_000.jpg") {
		t.Errorf("path = %q, want deterministic frame_000.jpg", res.Path)
	}
	if _, err := os.Stat(res.Path); err != nil {
		t.Errorf("persisted frame missing: %v", err)
	}
}

func TestExtractFallbackWithinRadius(t *testing.T) {
	// Nothing sharp within +-0.6s of 50, but 51.2 clears the threshold.
	grab := &stubGrabber{scores: map[float64]float64{
		50.0: 40, 50.6: 55, 49.4: 30, 51.2: 150, 48.8: 20,
	}}
	engine, outDir := testEngine(t, grab, Options{
		SharpnessThreshold: 100,
		ProbeStep:          0.6,
		MaxRadius:          1.2,
	})

	res := engine.Extract(context.Background(), "video.mp4", 50, 300, 3, outDir)
	if res.Failed() {
		t.Fatalf("Extract() failed: %v", res.Err)
	}
	if math.Abs(res.OffsetSeconds-1.2) > 1e-9 {
		t.Errorf("offset = %v, want 1.2", res.OffsetSeconds)
	}
	if res.Degraded {
		t.Error("a frame cleared the threshold, result must not be degraded")
	}
	if res.Sharpness != 150 {
		t.Errorf("sharpness = %v, want 150", res.Sharpness)
	}
}

func TestExtractKeepsSharpestWhenAllBlurry(t *testing.T) {
	grab := &stubGrabber{scores: map[float64]float64{
		20.0: 12, 20.5: 35, 19.5: 8, 21.0: 22, 19.0: 5,
	}}
	engine, outDir := testEngine(t, grab, Options{
		SharpnessThreshold: 100,
		ProbeStep:          0.5,
		MaxRadius:          1.0,
	})

	res := engine.Extract(context.Background(), "video.mp4", 20, 300, 1, outDir)
	if res.Failed() {
		t.Fatalf("Extract() failed: %v (blurry-but-present beats missing)", res.Err)
	}
	if !res.Degraded {
		t.Error("result must be flagged degraded when nothing clears the threshold")
	}
	if res.Sharpness != 35 {
		t.Errorf("sharpness = %v, want the window's best 35", res.Sharpness)
	}
	if math.Abs(res.OffsetSeconds-0.5) > 1e-9 {
		t.Errorf("offset = %v, want 0.5", res.OffsetSeconds)
	}
}

func TestExtractTotalDecodeFailure(t *testing.T) {
	grab := &stubGrabber{err: errors.New("moov atom not found")}
	engine, outDir := testEngine(t, grab, Options{})

	res := engine.Extract(context.Background(), "corrupt.mp4", 10, 300, 0, outDir)
	if !res.Failed() {
		t.Fatal("Extract() should fail when every decode attempt fails")
	}
	if res.Path != "" {
		t.Errorf("failed result carries path %q", res.Path)
	}
}

func TestExtractClampsIntoVideo(t *testing.T) {
	grab := &stubGrabber{scores: map[float64]float64{299.9: 200}}
	engine, outDir := testEngine(t, grab, Options{SharpnessThreshold: 100})

	// Request beyond the end of a 300s video.
	res := engine.Extract(context.Background(), "video.mp4", 320, 300, 0, outDir)
	if res.Failed() {
		t.Fatalf("Extract() failed: %v", res.Err)
	}
	if res.OffsetSeconds >= 0 {
		t.Errorf("offset = %v, want negative (clamped before the target)", res.OffsetSeconds)
	}
}

func TestProbeOffsetsSymmetric(t *testing.T) {
	engine := NewEngine(nil, logger.New("error"), Options{ProbeStep: 0.5, MaxRadius: 1.0, SharpnessThreshold: 1})
	got := engine.probeOffsets()
	want := []float64{0, 0.5, -0.5, 1.0, -1.0}
	if len(got) != len(want) {
		t.Fatalf("offsets = %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("offsets = %v, want %v", got, want)
		}
	}
}
