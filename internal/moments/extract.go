package moments

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"videonote/internal/logger"
	"videonote/internal/subtitle"
)

var (
	reFenceOpen  = regexp.MustCompile("^```[a-zA-Z]*\\s*")
	reFenceClose = regexp.MustCompile("\\s*```$")
)

// Options tunes the extractor. Zero values fall back to defaults.
type Options struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MinSeparation  float64
}

func (o *Options) fill() {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.InitialBackoff <= 0 {
		o.InitialBackoff = time.Second
	}
	if o.MinSeparation <= 0 {
		o.MinSeparation = 5.0
	}
}

// Extractor sends transcript chunks to the language model and turns the
// replies into validated Moment lists.
type Extractor struct {
	client Client
	log    logger.Logger
	opts   Options
}

func NewExtractor(client Client, log logger.Logger, opts Options) *Extractor {
	opts.fill()
	return &Extractor{client: client, log: log, opts: opts}
}

// ExtractChunk runs the model over one chunk. Transient endpoint failures are
// retried with exponential backoff up to MaxAttempts; a reply that fails to
// parse gets exactly one corrective retry. Moments outside the chunk's cue
// range are discarded as hallucinations.
func (e *Extractor) ExtractChunk(ctx context.Context, cfg ModelConfig, style Style, chunk subtitle.Chunk) ([]Moment, error) {
	system := systemPrompt(style, int(e.opts.MinSeparation))
	user := userPrompt(chunk.Text())

	backoff := e.opts.InitialBackoff
	parseRetried := false

	for attempt := 1; ; attempt++ {
		raw, err := e.client.Generate(ctx, cfg, system, user)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt >= e.opts.MaxAttempts {
				return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
			}
			e.log.Warn(ctx, "model call failed (attempt %d/%d), backing off %s: %v",
				attempt, e.opts.MaxAttempts, backoff, err)
			if err := sleep(ctx, backoff); err != nil {
				return nil, err
			}
			backoff *= 2
			continue
		}

		parsed, perr := parseReply(raw)
		if perr != nil {
			if parseRetried {
				return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, perr)
			}
			parseRetried = true
			user = userPrompt(chunk.Text()) + "\n\n" + correctivePrompt
			e.log.Warn(ctx, "unparseable model reply, retrying with corrective instruction: %v", perr)
			continue
		}

		return e.clampToChunk(ctx, parsed, chunk), nil
	}
}

type replyItem struct {
	Timestamp string `json:"timestamp"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

// parseReply strips optional code fences and decodes the JSON moment array.
func parseReply(raw string) ([]Moment, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = reFenceOpen.ReplaceAllString(cleaned, "")
	cleaned = reFenceClose.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	var items []replyItem
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, fmt.Errorf("decode moment array: %w", err)
	}

	moments := make([]Moment, 0, len(items))
	for _, it := range items {
		secs, err := subtitle.ParseTimestamp(it.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("moment timestamp %q: %w", it.Timestamp, err)
		}
		if strings.TrimSpace(it.Title) == "" {
			return nil, fmt.Errorf("moment at %q has no title", it.Timestamp)
		}
		moments = append(moments, Moment{
			Seconds: secs,
			Title:   strings.TrimSpace(it.Title),
			Content: strings.TrimSpace(it.Content),
		})
	}
	return moments, nil
}

// clampToChunk drops moments outside the chunk's cue range.
func (e *Extractor) clampToChunk(ctx context.Context, in []Moment, chunk subtitle.Chunk) []Moment {
	lo, hi := chunk.Start(), chunk.End()
	out := in[:0]
	for _, m := range in {
		if m.Seconds < lo || m.Seconds > hi {
			e.log.Debug(ctx, "dropping hallucinated moment at %.2fs outside chunk [%.2f, %.2f]",
				m.Seconds, lo, hi)
			continue
		}
		out = append(out, m)
	}
	return out
}

// Merge flattens per-chunk moment lists in chunk order, sorts ascending by
// seconds and drops any moment within minSeparation of an already-kept
// earlier one. Stable sorting makes the first chunk's reading win on ties.
func Merge(perChunk [][]Moment, minSeparation float64) []Moment {
	var all []Moment
	for _, ms := range perChunk {
		all = append(all, ms...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Seconds < all[j].Seconds
	})

	var out []Moment
	for _, m := range all {
		if len(out) > 0 && m.Seconds-out[len(out)-1].Seconds < minSeparation {
			continue
		}
		out = append(out, m)
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
