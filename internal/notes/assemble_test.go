package notes

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"videonote/internal/frames"
	"videonote/internal/moments"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{65, "1:05"},
		{3661, "1:01:01"},
		{59.9, "0:59"},
		{3600, "1:00:00"},
		{-3, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestAssembleSortedUniqueIDs(t *testing.T) {
	ms := []moments.Moment{
		{Seconds: 90, Title: "later", Content: "b"},
		{Seconds: 10, Title: "earlier", Content: "a"},
	}
	fr := []frames.Result{
		{Path: "/tmp/frame_000.jpg"},
		{Path: "/tmp/frame_001.jpg"},
	}

	ns := Assemble(ms, fr)
	if len(ns) != 2 {
		t.Fatalf("got %d notes, want 2", len(ns))
	}
	if ns[0].Seconds != 10 || ns[1].Seconds != 90 {
		t.Errorf("notes not ascending: %v, %v", ns[0].Seconds, ns[1].Seconds)
	}

	seen := map[string]bool{}
	for _, n := range ns {
		if n.ID == "" || seen[n.ID] {
			t.Errorf("id %q missing or duplicated", n.ID)
		}
		seen[n.ID] = true
		if n.Edited {
			t.Error("Edited must be false on creation")
		}
	}
	// The moment at 90s was paired with frame index 0 before sorting.
	if ns[1].ImagePath != "/tmp/frame_000.jpg" {
		t.Errorf("pairing is by moment index: got %q", ns[1].ImagePath)
	}
}

func TestAssembleIdempotent(t *testing.T) {
	ms := []moments.Moment{
		{Seconds: 12.34, Title: "a", Content: "x"},
		{Seconds: 60, Title: "b", Content: "y"},
	}
	fr := []frames.Result{{Path: "p0"}, {Err: errors.New("decode failed")}}

	first := Assemble(ms, fr)
	second := Assemble(ms, fr)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("assembly not idempotent:\n%v\n%v", first, second)
	}
}

func TestAssembleFailedFrame(t *testing.T) {
	ms := []moments.Moment{{Seconds: 5, Title: "t", Content: "c"}}
	fr := []frames.Result{{Err: errors.New("seek out of range")}}

	ns := Assemble(ms, fr)
	if ns[0].ImagePath != "" {
		t.Errorf("ImagePath = %q, want empty string on frame failure", ns[0].ImagePath)
	}
}

func TestAssembleMissingFrameResult(t *testing.T) {
	ms := []moments.Moment{{Seconds: 5, Title: "t", Content: "c"}}

	ns := Assemble(ms, nil)
	if len(ns) != 1 || ns[0].ImagePath != "" {
		t.Errorf("notes = %+v, want one image-less note", ns)
	}
}

func TestInlineImages(t *testing.T) {
	ms := []moments.Moment{
		{Seconds: 83, Title: "t", Content: "Before [00:01:23] after, and unknown [00:59:59]."},
	}
	fr := []frames.Result{{Path: "/tmp/frame_000.jpg"}}

	ns := Assemble(ms, fr)
	content := ns[0].Content
	if !strings.Contains(content, "![00:01:23](/tmp/frame_000.jpg)") {
		t.Errorf("marker at a captured moment not rewritten: %q", content)
	}
	if !strings.Contains(content, "[00:59:59]") {
		t.Errorf("marker with no matching frame must stay untouched: %q", content)
	}
}
