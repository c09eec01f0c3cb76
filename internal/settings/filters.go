// Package settings owns the persisted filter selection: defaults, validation
// of user edits, a sqlite-backed store and file import/export.
package settings

import (
	"fmt"

	"ghactivity/internal/types"
)

// Status indicator texts.
const (
	StatusDefault = "Using default filters"
	StatusCustom  = "Custom filters active"
)

// MaxCustomResults is the largest custom maximum the settings surface accepts.
const MaxCustomResults = 50

// DefaultFilters returns the selection used when nothing has been saved:
// the last 60 days, open and draft pull requests authored by the user, at
// most 8 results.
func DefaultFilters() types.FilterConfig {
	return types.FilterConfig{
		DateRange:        "60",
		CustomDays:       "",
		ShowOpen:         true,
		ShowDraft:        true,
		ShowAuthor:       true,
		ShowAssigned:     false,
		ShowOthers:       false,
		MaxResults:       "8",
		CustomMaxResults: "",
	}
}

// IsDefault reports whether f equals DefaultFilters field for field.
func IsDefault(f types.FilterConfig) bool {
	return f == DefaultFilters()
}

// StatusText returns the indicator text for f.
func StatusText(f types.FilterConfig) string {
	if IsDefault(f) {
		return StatusDefault
	}
	return StatusCustom
}

// ValidationError rejects a filter edit.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Normalize validates an edited selection before it is saved. A selection
// with no relationship facet gets showAuthor turned on; the other rules
// reject the edit.
func Normalize(f types.FilterConfig) (types.FilterConfig, error) {
	if !f.HasStatus() {
		return f, &ValidationError{Field: "status", Message: "select at least one pull request status (open or draft)"}
	}
	if !f.HasRelationship() {
		f.ShowAuthor = true
	}
	if f.DateRange == types.DateRangeCustom {
		if n, ok := types.LeadingInt(f.CustomDays); !ok || n < 1 {
			return f, &ValidationError{Field: "customDays", Message: "enter a number of days (1 or more)"}
		}
	}
	if f.MaxResults == types.MaxResultsCustom {
		if n, ok := types.LeadingInt(f.CustomMaxResults); !ok || n < 1 || n > MaxCustomResults {
			return f, &ValidationError{Field: "customMaxResults", Message: fmt.Sprintf("enter a number of results (1-%d)", MaxCustomResults)}
		}
	}
	return f, nil
}
