package notes

import (
	"fmt"
	"math"
	"regexp"
	"sort"

	"videonote/internal/frames"
	"videonote/internal/moments"
	"videonote/internal/subtitle"
)

// reInlineTimestamp matches [HH:MM:SS] and [M:SS] markers the model may leave
// inside note content.
var reInlineTimestamp = regexp.MustCompile(`\[(\d{1,2}:\d{2}(?::\d{2})?)\]`)

// markerTolerance bounds how far an inline marker may sit from an extracted
// frame's moment and still reuse its image.
const markerTolerance = 1.0

// Assemble pairs each moment with its frame result by index and produces the
// final note sequence, ascending by seconds with unique stable ids. A failed
// frame yields an image-less note (empty string, never absent). Pure: no
// network or decode side effects.
func Assemble(ms []moments.Moment, frameResults []frames.Result) []Note {
	out := make([]Note, 0, len(ms))
	for i, m := range ms {
		imagePath := ""
		if i < len(frameResults) && !frameResults[i].Failed() {
			imagePath = frameResults[i].Path
		}
		out = append(out, Note{
			Timestamp: FormatTimestamp(m.Seconds),
			Seconds:   m.Seconds,
			Title:     m.Title,
			Content:   inlineImages(m.Content, ms, frameResults),
			ImagePath: imagePath,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Seconds < out[j].Seconds
	})
	for i := range out {
		out[i].ID = noteID(i, out[i].Seconds)
	}
	return out
}

// inlineImages rewrites [HH:MM:SS] markers in content to markdown images when
// a frame was extracted for a moment at that time. Unmatched markers are left
// untouched.
func inlineImages(content string, ms []moments.Moment, frameResults []frames.Result) string {
	return reInlineTimestamp.ReplaceAllStringFunc(content, func(marker string) string {
		ts := marker[1 : len(marker)-1]
		secs, err := subtitle.ParseTimestamp(ts)
		if err != nil {
			return marker
		}
		for i, m := range ms {
			if i >= len(frameResults) || frameResults[i].Failed() {
				continue
			}
			if math.Abs(m.Seconds-secs) <= markerTolerance {
				return fmt.Sprintf("\n\n![%s](%s)\n\n", ts, frameResults[i].Path)
			}
		}
		return marker
	})
}
