package main

import (
	"strings"
	"testing"

	"videonote/internal/notes"
)

func TestRenderNotesTable(t *testing.T) {
	ns := []notes.Note{
		{ID: "n000-700", Timestamp: "0:07", Title: "Settings", ImagePath: "/tmp/run-abc/frame_000.jpg"},
		{ID: "n001-4200", Timestamp: "0:42", Title: "Panel"},
	}

	out := renderNotesTable(ns)
	for _, want := range []string{"n000-700", "0:07", "Settings", "frame_000.jpg", "n001-4200"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	// Notes without an image render a placeholder, not an empty cell
	if !strings.Contains(out, "-") {
		t.Errorf("table missing image placeholder:\n%s", out)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "b", "c"); got != "b" {
		t.Errorf("firstNonEmpty = %q, want b", got)
	}
	if got := firstNonEmpty("", ""); got != "" {
		t.Errorf("firstNonEmpty = %q, want empty", got)
	}
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"analyze", "watch", "serve"} {
		if !names[want] {
			t.Errorf("root command missing subcommand %q", want)
		}
	}
}
