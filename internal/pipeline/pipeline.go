package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"videonote/internal/config"
	"videonote/internal/frames"
	"videonote/internal/logger"
	"videonote/internal/moments"
	"videonote/internal/notes"
	"videonote/internal/subtitle"
)

// State names one phase of a pipeline run. Transitions are one-directional:
// parsing -> extracting -> frame_resolving -> assembling -> done | failed.
type State string

const (
	StateParsing        State = "parsing"
	StateExtracting     State = "extracting"
	StateFrameResolving State = "frame_resolving"
	StateAssembling     State = "assembling"
	StateDone           State = "done"
	StateFailed         State = "failed"
)

// Request carries everything one synthesis run needs. Credentials travel with
// the request, so concurrent runs with different keys never interfere.
type Request struct {
	VideoPath    string
	SubtitleText string
	Style        moments.Style
	Model        moments.ModelConfig
}

// ProbeFunc reads video metadata; injected so tests run without ffprobe.
type ProbeFunc func(ctx context.Context, videoPath string) (frames.Info, error)

// Pipeline turns raw subtitle text plus a video file into an ordered,
// illustrated note list.
type Pipeline struct {
	cfg       *config.Config
	log       logger.Logger
	extractor *moments.Extractor
	engine    *frames.Engine
	probe     ProbeFunc
}

// New wires a Pipeline from its collaborators.
func New(cfg *config.Config, log logger.Logger, client moments.Client, grab frames.Grabber, probe ProbeFunc) *Pipeline {
	extractor := moments.NewExtractor(client, log, moments.Options{
		MaxAttempts:    cfg.LLM.MaxAttempts,
		InitialBackoff: time.Duration(cfg.LLM.BackoffSeconds) * time.Second,
		MinSeparation:  cfg.Pipeline.MinSeparationSeconds,
	})
	engine := frames.NewEngine(grab, log, frames.Options{
		SharpnessThreshold: cfg.Frames.SharpnessThreshold,
		ProbeStep:          cfg.Frames.ProbeStepSeconds,
		MaxRadius:          cfg.Frames.MaxRadiusSeconds,
	})
	return &Pipeline{
		cfg:       cfg,
		log:       log,
		extractor: extractor,
		engine:    engine,
		probe:     probe,
	}
}

// Synthesize runs the full pipeline. Chunk- and moment-scoped failures are
// absorbed into a partial result; an error is returned only when nothing at
// all could be produced. The overall timeout cancels outstanding model and
// decode work, keeping whatever already completed.
func (p *Pipeline) Synthesize(ctx context.Context, req Request) ([]notes.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(p.cfg.Pipeline.TimeoutSeconds)*time.Second)
	defer cancel()

	// Parsing
	p.log.Info(ctx, "pipeline state: %s", StateParsing)

	var info frames.Info
	if p.probe != nil {
		var err error
		info, err = p.probe(ctx, req.VideoPath)
		if err != nil {
			p.log.Warn(ctx, "video probe failed, notes may lack images: %v", err)
		}
	}

	cues, err := subtitle.Parse(req.SubtitleText, subtitle.ParseOptions{
		AllowPlainText:   p.cfg.Subtitle.AllowPlainText,
		DocumentDuration: info.Duration,
	})
	if err != nil {
		p.log.Error(ctx, "pipeline state: %s", StateFailed)
		if errors.Is(err, subtitle.ErrUnsupportedFormat) {
			return nil, &Error{Code: CodeUnsupportedFormat, Message: "subtitles could not be parsed", Err: err}
		}
		return nil, &Error{Code: CodeUnsupportedFormat, Message: "subtitle parsing failed", Err: err}
	}
	if len(cues) == 0 {
		p.log.Error(ctx, "pipeline state: %s", StateFailed)
		return nil, &Error{Code: CodeNoUsableContent, Message: "no usable cues in subtitle input"}
	}

	chunks := subtitle.Split(cues, p.cfg.Subtitle.ChunkCharBudget)
	p.log.Info(ctx, "parsed %d cues into %d chunks", len(cues), len(chunks))

	// Extracting, bounded by the API concurrency budget
	p.log.Info(ctx, "pipeline state: %s", StateExtracting)
	merged := p.extractMoments(ctx, req, chunks)
	if info.Duration > 0 {
		merged = dropBeyond(merged, info.Duration)
	}
	if len(merged) == 0 {
		p.log.Error(ctx, "pipeline state: %s", StateFailed)
		if ctx.Err() != nil {
			return nil, &Error{Code: CodePipelineTimeout, Message: "timed out before any moments were extracted", Err: ctx.Err()}
		}
		return nil, &Error{Code: CodeNoUsableContent, Message: "no key moments could be extracted from any chunk"}
	}
	p.log.Info(ctx, "extracted %d key moments", len(merged))

	// FrameResolving, bounded by CPU-count workers
	p.log.Info(ctx, "pipeline state: %s", StateFrameResolving)
	frameResults := p.resolveFrames(ctx, req.VideoPath, merged, info.Duration)

	// Assembling
	p.log.Info(ctx, "pipeline state: %s", StateAssembling)
	result := notes.Assemble(merged, frameResults)

	p.log.Info(ctx, "pipeline state: %s (%d notes)", StateDone, len(result))
	return result, nil
}

// extractMoments fans chunks out to the model pool and merges the survivors.
// A failed chunk contributes nothing; the run continues.
func (p *Pipeline) extractMoments(ctx context.Context, req Request, chunks []subtitle.Chunk) []moments.Moment {
	perChunk := make([][]moments.Moment, len(chunks))
	sem := newSemaphore(p.cfg.LLM.MaxConcurrent)
	var wg sync.WaitGroup

	for i, ch := range chunks {
		wg.Add(1)
		go func(i int, ch subtitle.Chunk) {
			defer wg.Done()
			if err := sem.acquire(ctx); err != nil {
				return
			}
			defer sem.release()

			ms, err := p.extractor.ExtractChunk(ctx, req.Model, req.Style, ch)
			if err != nil {
				code := CodeModelUnavailable
				if errors.Is(err, moments.ErrMalformedResponse) {
					code = CodeMalformedModelResponse
				}
				p.log.Warn(ctx, "chunk %d/%d degraded to empty (%s): %v", i+1, len(chunks), code, err)
				return
			}
			perChunk[i] = ms
		}(i, ch)
	}
	wg.Wait()

	return moments.Merge(perChunk, p.cfg.Pipeline.MinSeparationSeconds)
}

// resolveFrames extracts one frame per moment in parallel. Results land at
// their moment's index regardless of completion order; failures become
// image-less notes downstream.
func (p *Pipeline) resolveFrames(ctx context.Context, videoPath string, merged []moments.Moment, duration float64) []frames.Result {
	results := make([]frames.Result, len(merged))

	outDir, err := p.runDir()
	if err != nil {
		p.log.Warn(ctx, "cannot create frame output dir, producing image-less notes: %v", err)
		for i := range results {
			results[i] = frames.Result{Err: err}
		}
		return results
	}

	sem := newSemaphore(p.cfg.Frames.MaxWorkers)
	var wg sync.WaitGroup
	for i, m := range merged {
		wg.Add(1)
		go func(i int, m moments.Moment) {
			defer wg.Done()
			if err := sem.acquire(ctx); err != nil {
				results[i] = frames.Result{Err: err}
				return
			}
			defer sem.release()

			res := p.engine.Extract(ctx, videoPath, m.Seconds, duration, i, outDir)
			if res.Failed() {
				p.log.Warn(ctx, "frame for moment %d at %.2fs failed (%s): %v",
					i, m.Seconds, CodeFrameDecodeFailure, res.Err)
			}
			results[i] = res
		}(i, m)
	}
	wg.Wait()

	return results
}

// runDir creates a unique frame directory for this run, so paths never
// collide with earlier runs or concurrent invocations.
func (p *Pipeline) runDir() (string, error) {
	dir := filepath.Join(p.cfg.Frames.OutputDir, "run-"+uuid.NewString()[:8])
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}
	return dir, nil
}

func dropBeyond(ms []moments.Moment, duration float64) []moments.Moment {
	out := ms[:0]
	for _, m := range ms {
		if m.Seconds > duration {
			continue
		}
		out = append(out, m)
	}
	return out
}
