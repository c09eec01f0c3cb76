package render

import "strings"

// SpanKind classifies a run of title text.
type SpanKind int

const (
	SpanText SpanKind = iota
	SpanBold
	SpanCode
)

// Span is a run of title text with one style.
type Span struct {
	Kind SpanKind
	Text string
}

// ParseTitle splits a pull request title into plain, **bold** and `code`
// spans. Bold pairs are matched first; code pairs are matched inside the
// remaining plain text. An unpaired marker is kept as literal text.
func ParseTitle(title string) []Span {
	var spans []Span
	for _, s := range scanPairs(title, "**", SpanBold) {
		if s.Kind != SpanText {
			spans = append(spans, s)
			continue
		}
		spans = append(spans, scanPairs(s.Text, "`", SpanCode)...)
	}
	return spans
}

// scanPairs splits s on matched pairs of delim; text between a pair gets kind.
func scanPairs(s, delim string, kind SpanKind) []Span {
	var spans []Span
	for s != "" {
		open := strings.Index(s, delim)
		if open < 0 {
			break
		}
		end := strings.Index(s[open+len(delim):], delim)
		if end < 0 {
			break
		}
		end += open + len(delim)

		if open > 0 {
			spans = append(spans, Span{Kind: SpanText, Text: s[:open]})
		}
		spans = append(spans, Span{Kind: kind, Text: s[open+len(delim) : end]})
		s = s[end+len(delim):]
	}
	if s != "" {
		spans = append(spans, Span{Kind: SpanText, Text: s})
	}
	return spans
}

// PlainTitle returns the title with markup markers removed.
func PlainTitle(title string) string {
	var sb strings.Builder
	for _, s := range ParseTitle(title) {
		sb.WriteString(s.Text)
	}
	return sb.String()
}
