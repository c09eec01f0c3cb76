package render

import (
	"fmt"
	"io"
	"strings"

	"ghactivity/internal/types"

	"github.com/charmbracelet/lipgloss"
)

var (
	openColor  = lipgloss.Color("#3fb950")
	draftColor = lipgloss.Color("#8b949e")
	accent     = lipgloss.Color("#2196F3")
)

type textStyles struct {
	heading lipgloss.Style
	open    lipgloss.Style
	draft   lipgloss.Style
	title   lipgloss.Style
	bold    lipgloss.Style
	code    lipgloss.Style
	repo    lipgloss.Style
	link    lipgloss.Style
	muted   lipgloss.Style
}

func newTextStyles(r *lipgloss.Renderer) textStyles {
	return textStyles{
		heading: r.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		open:    r.NewStyle().Foreground(openColor),
		draft:   r.NewStyle().Foreground(draftColor),
		title:   r.NewStyle(),
		bold:    r.NewStyle().Bold(true),
		code:    r.NewStyle().Foreground(accent),
		repo:    r.NewStyle().Faint(true),
		link:    r.NewStyle().Underline(true).Faint(true),
		muted:   r.NewStyle().Italic(true).Faint(true),
	}
}

// TextRenderer writes a styled list for the terminal. Styling degrades to
// plain text when w is not a terminal.
type TextRenderer struct {
	opts Options
}

// Render implements Renderer.
func (t *TextRenderer) Render(w io.Writer, recs []types.PullRequestRecord) error {
	st := newTextStyles(lipgloss.NewRenderer(w))

	var sb strings.Builder
	sb.WriteString(st.heading.Render(Heading))
	sb.WriteString("\n")

	if len(recs) == 0 {
		sb.WriteString(st.muted.Render(EmptyMessage))
		sb.WriteString("\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	for _, r := range recs {
		icon := st.open.Render("●")
		if r.IsDraft {
			icon = st.draft.Render("◌")
		}
		sb.WriteString(icon)
		sb.WriteString(" ")
		sb.WriteString(t.title(st, r.Title))
		if r.IsDraft {
			sb.WriteString(" ")
			sb.WriteString(st.draft.Render("[draft]"))
		}
		sb.WriteString("\n  ")
		sb.WriteString(st.repo.Render(r.RepoSlug))
		if r.UpdatedAt != nil {
			sb.WriteString(st.repo.Render(fmt.Sprintf(" · updated %s", r.UpdatedAt.Format("2006-01-02"))))
		}
		sb.WriteString("\n  ")
		sb.WriteString(st.link.Render(r.URL))
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (t *TextRenderer) title(st textStyles, title string) string {
	var sb strings.Builder
	for _, s := range ParseTitle(title) {
		switch s.Kind {
		case SpanBold:
			sb.WriteString(st.bold.Render(s.Text))
		case SpanCode:
			sb.WriteString(st.code.Render(s.Text))
		default:
			sb.WriteString(st.title.Render(s.Text))
		}
	}
	return sb.String()
}
