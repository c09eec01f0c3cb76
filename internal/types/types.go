// Package types provides the shared data model for the activity pipeline.
// Types in this package are plain values with no dependencies on the fetch or
// rendering layers, so every other package can import them without cycles.
package types

import "time"

// =============================================================================
// FILTER CONFIGURATION
// =============================================================================

// Date range values with special meaning. Every other value is a preset day
// count such as "30" or "60".
const (
	DateRangeAll    = "all"
	DateRangeCustom = "custom"
)

// MaxResultsCustom selects CustomMaxResults as the result limit.
const MaxResultsCustom = "custom"

// FilterConfig is the user's persisted filter selection. Numeric fields stay
// strings because that is how the settings surface stores them; consumers
// parse them with LeadingInt and substitute defaults for invalid input.
type FilterConfig struct {
	DateRange        string `json:"dateRange" yaml:"date_range"`
	CustomDays       string `json:"customDays" yaml:"custom_days"`
	ShowOpen         bool   `json:"showOpen" yaml:"show_open"`
	ShowDraft        bool   `json:"showDraft" yaml:"show_draft"`
	ShowAuthor       bool   `json:"showAuthor" yaml:"show_author"`
	ShowAssigned     bool   `json:"showAssigned" yaml:"show_assigned"`
	ShowOthers       bool   `json:"showOthers" yaml:"show_others"`
	MaxResults       string `json:"maxResults" yaml:"max_results"`
	CustomMaxResults string `json:"customMaxResults" yaml:"custom_max_results"`
}

// HasRelationship reports whether at least one author-relationship facet is selected.
func (f FilterConfig) HasRelationship() bool {
	return f.ShowAuthor || f.ShowAssigned || f.ShowOthers
}

// HasStatus reports whether at least one status is selected.
func (f FilterConfig) HasStatus() bool {
	return f.ShowOpen || f.ShowDraft
}

// =============================================================================
// PULL REQUEST RECORDS
// =============================================================================

// Source tags which retrieval tier produced a record.
type Source string

const (
	SourceWeb    Source = "web-interface"
	SourceEvents Source = "events-api"
	SourceSearch Source = "api-search"
)

// Status values for a record.
const (
	StatusOpen  = "open"
	StatusDraft = "draft"
)

// UnknownRepo is used when no owner/name can be derived from a URL.
const UnknownRepo = "unknown"

// PullRequestRecord is one normalized pull request. URL is the identity key:
// two records with the same URL are the same pull request regardless of source.
type PullRequestRecord struct {
	URL       string     `json:"url"`
	Title     string     `json:"title"`
	RepoSlug  string     `json:"repo"`
	IsAuthor  bool       `json:"isAuthor"`
	IsDraft   bool       `json:"isDraft"`
	Status    string     `json:"status"`
	Source    Source     `json:"source"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// StatusFor maps a draft flag to a record status.
func StatusFor(draft bool) string {
	if draft {
		return StatusDraft
	}
	return StatusOpen
}

// =============================================================================
// QUERIES AND REQUESTS
// =============================================================================

// Facet is one author-relationship query dimension.
type Facet string

const (
	FacetAuthor   Facet = "author"
	FacetAssignee Facet = "assignee"
	FacetOthers   Facet = "others"
	FacetInvolves Facet = "involves"
)

// Query is one search API query for a single facet.
type Query struct {
	Facet Facet
	Text  string
}

// QuerySet is an ordered list of independent queries, in issue order.
type QuerySet []Query

// Strings returns the query texts in order.
func (qs QuerySet) Strings() []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Text
	}
	return out
}

// FetchRequest is the input shared by every retrieval tier. A nil Filters
// requests default behavior.
type FetchRequest struct {
	Username string
	Filters  *FilterConfig
}
