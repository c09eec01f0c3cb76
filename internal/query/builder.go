// Package query turns a filter configuration and a username into search
// terms for the results page URL and for the search API.
package query

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"ghactivity/internal/logging"
	"ghactivity/internal/types"
)

// DefaultCustomDays is used when a custom date range has no usable day count.
const DefaultCustomDays = 60

// TypePR restricts every query to pull requests.
const TypePR = "type:pr"

// Builder builds query strings. Now is the clock used for date cutoffs; nil
// means time.Now.
type Builder struct {
	WebURL string
	Now    func() time.Time
}

// NewBuilder returns a Builder for the given web base URL.
func NewBuilder(webURL string) *Builder {
	return &Builder{WebURL: strings.TrimRight(webURL, "/")}
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// SearchURL returns the results page URL for username. All selected
// relationship clauses are combined into one query.
func (b *Builder) SearchURL(username string, f *types.FilterConfig) string {
	terms := []string{TypePR}

	if f == nil {
		terms = append(terms, "involves:"+username, "state:open")
	} else {
		var rel []string
		if f.ShowAuthor {
			rel = append(rel, authorTerm(username))
		}
		if f.ShowAssigned {
			rel = append(rel, assigneeTerm(username))
		}
		if f.ShowOthers {
			rel = append(rel, othersTerm(username))
		}
		if len(rel) == 0 {
			rel = append(rel, involvesTerm(username))
		}
		terms = append(terms, strings.Join(rel, " "))
		terms = append(terms, StatusTerms(*f)...)
		if date := DateTerm(*f, b.now()); date != "" {
			terms = append(terms, date)
		}
	}

	q := strings.Join(terms, " ")
	logging.QueryDebug("search page query: %s", q)
	return fmt.Sprintf("%s/issues?q=%s&sort=updated&order=desc", b.WebURL, url.QueryEscape(q))
}

// APIQueries returns one query per selected relationship facet, in the order
// author, assignee, others. With no facet selected it returns a single
// involves query; with nil filters it returns the author and assignee
// defaults limited to open pull requests.
func (b *Builder) APIQueries(username string, f *types.FilterConfig) types.QuerySet {
	if f == nil {
		return types.QuerySet{
			{Facet: types.FacetAuthor, Text: join(authorTerm(username), TypePR, "state:open")},
			{Facet: types.FacetAssignee, Text: join(assigneeTerm(username), TypePR, "state:open")},
		}
	}

	suffix := append([]string{TypePR}, StatusTerms(*f)...)
	if date := DateTerm(*f, b.now()); date != "" {
		suffix = append(suffix, date)
	}

	var qs types.QuerySet
	add := func(facet types.Facet, clause string) {
		qs = append(qs, types.Query{Facet: facet, Text: join(append([]string{clause}, suffix...)...)})
	}
	if f.ShowAuthor {
		add(types.FacetAuthor, authorTerm(username))
	}
	if f.ShowAssigned {
		add(types.FacetAssignee, assigneeTerm(username))
	}
	if f.ShowOthers {
		add(types.FacetOthers, othersTerm(username))
	}
	if len(qs) == 0 {
		add(types.FacetInvolves, involvesTerm(username))
	}

	for _, q := range qs {
		logging.QueryDebug("api query [%s]: %s", q.Facet, q.Text)
	}
	return qs
}

// StatusTerms returns the status clause. Open-only excludes drafts,
// draft-only selects drafts, and both or neither select open pull requests
// (which include drafts).
func StatusTerms(f types.FilterConfig) []string {
	switch {
	case f.ShowOpen && !f.ShowDraft:
		return []string{"state:open", "-is:draft"}
	case !f.ShowOpen && f.ShowDraft:
		return []string{"is:draft"}
	default:
		return []string{"state:open"}
	}
}

// DaysBack returns how many days the date clause reaches back, or 0 when no
// date clause applies.
func DaysBack(f types.FilterConfig) int {
	switch f.DateRange {
	case "", types.DateRangeAll:
		return 0
	case types.DateRangeCustom:
		return types.PositiveInt(f.CustomDays, DefaultCustomDays)
	default:
		n, ok := types.LeadingInt(f.DateRange)
		if !ok || n <= 0 {
			return 0
		}
		return n
	}
}

// DateTerm returns the updated-since clause relative to now, or "" when the
// date range is absent, "all", or unparseable.
func DateTerm(f types.FilterConfig, now time.Time) string {
	days := DaysBack(f)
	if days == 0 {
		return ""
	}
	cutoff := now.UTC().AddDate(0, 0, -days)
	return "updated:>" + cutoff.Format("2006-01-02")
}

// HasAuthorTerm reports whether query text contains a non-negated author
// clause for username.
func HasAuthorTerm(text, username string) bool {
	want := authorTerm(username)
	for _, term := range strings.Fields(text) {
		if strings.EqualFold(term, want) {
			return true
		}
	}
	return false
}

func authorTerm(u string) string   { return "author:" + u }
func assigneeTerm(u string) string { return "assignee:" + u }
func involvesTerm(u string) string { return "involves:" + u }
func othersTerm(u string) string   { return "involves:" + u + " -author:" + u }

func join(terms ...string) string {
	return strings.Join(terms, " ")
}
