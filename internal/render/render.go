// Package render writes pipeline results for the terminal, as markdown, or
// as JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"ghactivity/internal/logging"
	"ghactivity/internal/types"
)

// Format selects an output renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Heading is printed above the list.
const Heading = "Recent Activity"

// EmptyMessage is printed when no records matched.
const EmptyMessage = "No open or reviewed pull requests match your filters 🎉"

// Renderer writes a record list.
type Renderer interface {
	Render(w io.Writer, recs []types.PullRequestRecord) error
}

// Options tune rendering.
type Options struct {
	// WebURL prefixes repository links.
	WebURL string
	// Width wraps markdown output; zero means 80.
	Width int
	// Raw makes the markdown renderer emit markdown source instead of
	// terminal-styled text.
	Raw bool
}

// New returns the renderer for format.
func New(format Format, opts Options) (Renderer, error) {
	if opts.WebURL == "" {
		opts.WebURL = "https://github.com"
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	logging.RenderDebug("using %s renderer", format)

	switch format {
	case FormatText, "":
		return &TextRenderer{opts: opts}, nil
	case FormatMarkdown:
		return &MarkdownRenderer{opts: opts}, nil
	case FormatJSON:
		return JSONRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, markdown or json)", format)
	}
}

// JSONRenderer writes records as an indented JSON array.
type JSONRenderer struct{}

// Render implements Renderer.
func (JSONRenderer) Render(w io.Writer, recs []types.PullRequestRecord) error {
	if recs == nil {
		recs = []types.PullRequestRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}
