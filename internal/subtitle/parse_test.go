package subtitle

import (
	"errors"
	"math"
	"testing"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:03,500
Welcome to the course.

2
00:00:04,000 --> 00:00:06,000
Today we look at
the settings menu.

3
00:00:06,500 --> 00:00:09,000
Click the gear icon.
`

const sampleVTT = `WEBVTT

NOTE generated by test

00:00.000 --> 00:02.500 align:start
First caption

00:03.000 --> 00:05.000
Second caption
`

const samplePlain = `[00:00:05] Opening the editor
[00:00:12] Typing the first function
0:20 Running the tests
`

func TestParseSRT(t *testing.T) {
	cues, err := Parse(sampleSRT, ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(cues) != 3 {
		t.Fatalf("got %d cues, want 3", len(cues))
	}

	if cues[0].Start != 1.0 || cues[0].End != 3.5 {
		t.Errorf("cue 0 = [%v, %v], want [1, 3.5]", cues[0].Start, cues[0].End)
	}
	if cues[1].Text != "Today we look at the settings menu." {
		t.Errorf("multi-line cue text = %q", cues[1].Text)
	}
}

func TestParseVTT(t *testing.T) {
	cues, err := Parse(sampleVTT, ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("got %d cues, want 2", len(cues))
	}
	if cues[0].End != 2.5 {
		t.Errorf("cue 0 end = %v, want 2.5 (cue settings must be ignored)", cues[0].End)
	}
	if cues[1].Text != "Second caption" {
		t.Errorf("cue 1 text = %q", cues[1].Text)
	}
}

func TestParsePlainTimed(t *testing.T) {
	cues, err := Parse(samplePlain, ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(cues) != 3 {
		t.Fatalf("got %d cues, want 3", len(cues))
	}
	if cues[0].Start != 5 || cues[0].End != 12 {
		t.Errorf("cue 0 = [%v, %v], want [5, 12] (end taken from next start)", cues[0].Start, cues[0].End)
	}
	if cues[2].Start != 20 || cues[2].End != 25 {
		t.Errorf("final cue = [%v, %v], want [20, 25]", cues[2].Start, cues[2].End)
	}
	if cues[1].Text != "Typing the first function" {
		t.Errorf("cue 1 text = %q", cues[1].Text)
	}
}

func TestParseUntimedText(t *testing.T) {
	raw := "just some prose\nwith no timing at all\n"

	_, err := Parse(raw, ParseOptions{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Parse() error = %v, want ErrUnsupportedFormat", err)
	}

	cues, err := Parse(raw, ParseOptions{AllowPlainText: true, DocumentDuration: 90})
	if err != nil {
		t.Fatalf("Parse() with fallback error = %v", err)
	}
	if len(cues) != 1 {
		t.Fatalf("got %d cues, want 1 whole-document cue", len(cues))
	}
	if cues[0].Start != 0 || cues[0].End != 90 {
		t.Errorf("whole-document cue = [%v, %v], want [0, 90]", cues[0].Start, cues[0].End)
	}
	if cues[0].Text != "just some prose with no timing at all" {
		t.Errorf("whole-document text = %q", cues[0].Text)
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := Parse("   \n  ", ParseOptions{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Parse() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestNormalizeDropsAndClips(t *testing.T) {
	srt := `1
00:00:05,000 --> 00:00:05,000
zero duration

2
00:00:10,000 --> 00:00:14,000
first

3
00:00:12,000 --> 00:00:16,000
overlapping
`
	cues, err := Parse(srt, ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("got %d cues, want 2 (zero-duration dropped)", len(cues))
	}
	if cues[1].Start != 14.0 {
		t.Errorf("overlapping cue start = %v, want clipped to 14.0", cues[1].Start)
	}
	for i := 1; i < len(cues); i++ {
		if cues[i].Start < cues[i-1].End {
			t.Errorf("cues %d and %d overlap", i-1, i)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"00:00:01,500", 1.5},
		{"00:01:23", 83},
		{"01:05", 65},
		{"42", 42},
		{"1:01:01", 3661},
		{"00:02.500", 2.5},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		if err != nil {
			t.Errorf("ParseTimestamp(%q) error = %v", tt.in, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseTimestamp("not-a-time"); err == nil {
		t.Error("ParseTimestamp should reject garbage")
	}
}
