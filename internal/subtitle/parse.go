package subtitle

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

// ErrUnsupportedFormat is returned when the input matches none of the
// recognized subtitle formats.
var ErrUnsupportedFormat = errors.New("unsupported subtitle format")

// tailSeconds closes the final cue of formats that only carry start times.
const tailSeconds = 5.0

var (
	rePlainTimed = regexp.MustCompile(`^\[?(\d{1,3}:\d{2}(?::\d{2})?(?:[.,]\d{1,3})?)\]?\s*[-:]?\s*(\S.*)$`)
	reDigitsOnly = regexp.MustCompile(`^\d+$`)
)

// ParseOptions controls subtitle parsing.
type ParseOptions struct {
	// AllowPlainText enables the whole-document fallback: untimed input
	// becomes a single cue spanning the document instead of failing.
	AllowPlainText bool
	// DocumentDuration bounds the synthetic whole-document cue. Zero means
	// the video duration is unknown.
	DocumentDuration float64
}

// Parse auto-detects the subtitle format and returns time-ordered cues.
// Supported formats: SRT/WebVTT cue blocks and plain timestamped lines.
// Malformed, empty and zero-duration cues are dropped; overlaps are clipped.
func Parse(raw string, opts ParseOptions) ([]Cue, error) {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return nil, ErrUnsupportedFormat
	}

	var cues []Cue
	switch {
	case strings.Contains(text, "-->"):
		cues = parseBlockCues(text)
	case looksPlainTimed(text):
		cues = parsePlainTimed(text)
	case opts.AllowPlainText:
		return []Cue{wholeDocumentCue(text, opts.DocumentDuration)}, nil
	default:
		return nil, ErrUnsupportedFormat
	}

	return normalize(cues), nil
}

// parseBlockCues handles SRT and WebVTT cue blocks:
//
//	1
//	00:00:00,000 --> 00:00:01,830
//	subtitle text, possibly
//	across several lines
func parseBlockCues(text string) []Cue {
	var cues []Cue
	var cur Cue
	var open bool

	flush := func() {
		if open {
			cur.Text = strings.TrimSpace(cur.Text)
			cues = append(cues, cur)
			open = false
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		if line == "" {
			flush()
			continue
		}
		if line == "WEBVTT" || strings.HasPrefix(line, "NOTE") || strings.HasPrefix(line, "STYLE") {
			continue
		}
		// Skip sequence numbers
		if reDigitsOnly.MatchString(line) && !open {
			continue
		}

		if strings.Contains(line, "-->") {
			flush()
			parts := strings.SplitN(line, "-->", 2)
			start, errS := ParseTimestamp(parts[0])
			// WebVTT allows cue settings after the end timestamp
			endFields := strings.Fields(strings.TrimSpace(parts[1]))
			if len(endFields) == 0 {
				continue
			}
			end, errE := ParseTimestamp(endFields[0])
			if errS != nil || errE != nil {
				continue
			}
			cur = Cue{Start: start, End: end}
			open = true
			continue
		}

		if open {
			if cur.Text != "" {
				cur.Text += " "
			}
			cur.Text += line
		}
	}
	flush()

	return cues
}

// parsePlainTimed handles one-cue-per-line input such as
// "[00:01:23] text" or "1:23 text". Each cue ends where the next begins.
func parsePlainTimed(text string) []Cue {
	var cues []Cue
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := rePlainTimed.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		start, err := ParseTimestamp(m[1])
		if err != nil {
			continue
		}
		cues = append(cues, Cue{Start: start, Text: strings.TrimSpace(m[2])})
	}

	for i := range cues {
		if i+1 < len(cues) {
			cues[i].End = cues[i+1].Start
		} else {
			cues[i].End = cues[i].Start + tailSeconds
		}
	}
	return cues
}

// looksPlainTimed reports whether most non-empty lines start with a timestamp.
func looksPlainTimed(text string) bool {
	var nonEmpty, timed int
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		nonEmpty++
		if rePlainTimed.MatchString(line) {
			timed++
		}
	}
	return timed > 0 && timed*2 >= nonEmpty
}

func wholeDocumentCue(text string, duration float64) Cue {
	end := duration
	if end <= 0 {
		end = tailSeconds
	}
	collapsed := strings.Join(strings.Fields(text), " ")
	return Cue{Start: 0, End: end, Text: collapsed}
}

// normalize sorts cues, drops unusable ones and clips overlaps so the result
// is a non-overlapping ascending sequence.
func normalize(cues []Cue) []Cue {
	sort.SliceStable(cues, func(i, j int) bool {
		return cues[i].Start < cues[j].Start
	})

	out := cues[:0]
	var prevEnd float64
	for _, c := range cues {
		if c.Text == "" || c.Start < 0 {
			continue
		}
		if c.Start < prevEnd {
			c.Start = prevEnd
		}
		if c.End <= c.Start {
			continue
		}
		out = append(out, c)
		prevEnd = c.End
	}
	return out
}
