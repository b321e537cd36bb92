package notes

import (
	"fmt"
	"math"
)

// Note is one final output record: a timestamped, titled, AI-authored entry
// with an optional screenshot. Field names on the wire match the desktop
// shell's expectations.
type Note struct {
	ID        string  `json:"id"`
	Timestamp string  `json:"timestamp"`
	Seconds   float64 `json:"seconds"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	ImagePath string  `json:"imagePath"`
	Edited    bool    `json:"isEdited"`
}

// FormatTimestamp renders seconds compactly: hours are omitted when zero.
// 0 -> "0:00", 65 -> "1:05", 3661 -> "1:01:01".
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// noteID derives a stable id from output position and timestamp, so the
// presentation layer can match notes across re-renders of the same run.
func noteID(index int, seconds float64) string {
	return fmt.Sprintf("n%03d-%d", index, int(math.Round(seconds*100)))
}
