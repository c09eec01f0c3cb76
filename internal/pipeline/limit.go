package pipeline

import "ghactivity/internal/types"

// DefaultMaxResults applies when no filters are given or a maximum is unusable.
const DefaultMaxResults = 8

// MaxCustomResults is the largest accepted custom maximum.
const MaxCustomResults = 50

// Deduplicate drops records whose URL was already seen, keeping the first
// occurrence and the original order. Later duplicates are discarded whole.
func Deduplicate(recs []types.PullRequestRecord) []types.PullRequestRecord {
	seen := make(map[string]struct{}, len(recs))
	out := make([]types.PullRequestRecord, 0, len(recs))
	for _, r := range recs {
		if _, ok := seen[r.URL]; ok {
			continue
		}
		seen[r.URL] = struct{}{}
		out = append(out, r)
	}
	return out
}

// EffectiveMax returns the result cap for f.
func EffectiveMax(f *types.FilterConfig) int {
	if f == nil {
		return DefaultMaxResults
	}
	if f.MaxResults == types.MaxResultsCustom {
		n := types.PositiveInt(f.CustomMaxResults, DefaultMaxResults)
		if n > MaxCustomResults {
			return DefaultMaxResults
		}
		return n
	}
	return types.PositiveInt(f.MaxResults, DefaultMaxResults)
}

// Limit keeps at most n records from the front.
func Limit(recs []types.PullRequestRecord, n int) []types.PullRequestRecord {
	if n < 0 {
		n = 0
	}
	if len(recs) > n {
		return recs[:n]
	}
	return recs
}

// Finalize applies deduplication and the result cap. Without filters the
// records are only truncated to the default.
func Finalize(recs []types.PullRequestRecord, f *types.FilterConfig) []types.PullRequestRecord {
	if f == nil {
		return Limit(recs, DefaultMaxResults)
	}
	return Limit(Deduplicate(recs), EffectiveMax(f))
}
