package moments

import (
	"errors"
	"fmt"
	"strings"
)

// Moment is a language-model-proposed candidate for a note: a timestamp with
// high visual information value plus authored title and markdown content.
type Moment struct {
	Seconds float64
	Title   string
	Content string
}

// Style controls the tone of generated note content. It never influences
// timestamp selection.
type Style string

const (
	StyleProfessional Style = "professional"
	StyleBlog         Style = "blog"
	StyleTutorial     Style = "tutorial"
)

// ParseStyle maps a user-supplied string onto a Style, defaulting to
// professional for empty input.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StyleProfessional, "":
		return StyleProfessional, nil
	case StyleBlog:
		return StyleBlog, nil
	case StyleTutorial:
		return StyleTutorial, nil
	}
	return "", fmt.Errorf("unknown style %q (want professional, blog or tutorial)", s)
}

// ModelConfig identifies the language-model endpoint for one pipeline run.
type ModelConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

var (
	// ErrMalformedResponse marks a chunk whose model reply could not be
	// parsed even after the corrective retry. Scoped to one chunk.
	ErrMalformedResponse = errors.New("malformed model response")
	// ErrModelUnavailable marks a chunk that exhausted its retry budget on
	// transient endpoint failures. Scoped to one chunk.
	ErrModelUnavailable = errors.New("model unavailable")
)
