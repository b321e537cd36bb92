package subtitle

import (
	"fmt"
	"strconv"
	"strings"
)

// Cue is one timed subtitle entry.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// Chunk is a context-budget-bounded group of consecutive cues submitted to
// the language model together.
type Chunk struct {
	Cues []Cue
}

// Start returns the start time of the first cue in the chunk.
func (c Chunk) Start() float64 {
	if len(c.Cues) == 0 {
		return 0
	}
	return c.Cues[0].Start
}

// End returns the end time of the last cue in the chunk.
func (c Chunk) End() float64 {
	if len(c.Cues) == 0 {
		return 0
	}
	return c.Cues[len(c.Cues)-1].End
}

// Text serializes the chunk for the model prompt, one timestamped line per cue.
func (c Chunk) Text() string {
	var b strings.Builder
	for _, cue := range c.Cues {
		b.WriteString(cueLine(cue))
	}
	return b.String()
}

func cueLine(c Cue) string {
	return "[" + FormatClock(c.Start) + "] " + c.Text + "\n"
}

// FormatClock renders seconds as a zero-padded HH:MM:SS clock string.
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// ParseTimestamp converts "HH:MM:SS", "MM:SS" or "SS" (with optional "," or
// "." millisecond suffix) to seconds.
func ParseTimestamp(ts string) (float64, error) {
	ts = strings.TrimSpace(ts)
	ts = strings.ReplaceAll(ts, ",", ".")

	parts := strings.Split(ts, ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp format: %q", ts)
	}

	var seconds float64
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp format: %q", ts)
		}
		seconds = seconds*60 + v
	}
	return seconds, nil
}
