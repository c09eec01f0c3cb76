package render

import (
	"fmt"
	"io"
	"strings"

	"ghactivity/internal/types"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer builds a markdown list and, unless Raw is set, renders it
// for the terminal with glamour.
type MarkdownRenderer struct {
	opts Options
}

// Render implements Renderer.
func (m *MarkdownRenderer) Render(w io.Writer, recs []types.PullRequestRecord) error {
	doc := m.Markdown(recs)
	if m.opts.Raw {
		_, err := io.WriteString(w, doc)
		return err
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(m.opts.Width),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := tr.Render(doc)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// Markdown returns the markdown source for recs.
func (m *MarkdownRenderer) Markdown(recs []types.PullRequestRecord) string {
	var sb strings.Builder
	sb.WriteString("## " + Heading + "\n\n")
	if len(recs) == 0 {
		sb.WriteString("_" + EmptyMessage + "_\n")
		return sb.String()
	}

	base := strings.TrimRight(m.opts.WebURL, "/")
	for _, r := range recs {
		status := "open"
		if r.IsDraft {
			status = "draft"
		}
		fmt.Fprintf(&sb, "- `%s` [%s](%s) in [%s](%s/%s)\n",
			status, markdownTitle(r.Title), r.URL, r.RepoSlug, base, r.RepoSlug)
	}
	return sb.String()
}

var mdEscaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`, `*`, `\*`, `_`, `\_`, "`", "\\`")

// markdownTitle re-emits parsed title spans with plain text escaped.
func markdownTitle(title string) string {
	var sb strings.Builder
	for _, s := range ParseTitle(title) {
		switch s.Kind {
		case SpanBold:
			sb.WriteString("**" + mdEscaper.Replace(s.Text) + "**")
		case SpanCode:
			sb.WriteString("`" + strings.ReplaceAll(s.Text, "`", "") + "`")
		default:
			sb.WriteString(mdEscaper.Replace(s.Text))
		}
	}
	return sb.String()
}
