package pipeline

import (
	"testing"

	"ghactivity/internal/types"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestDeduplicate(t *testing.T) {
	in := []types.PullRequestRecord{
		{URL: "a", Title: "first a"},
		{URL: "b"},
		{URL: "a", Title: "second a"},
		{URL: "c"},
		{URL: "b"},
	}
	want := []types.PullRequestRecord{
		{URL: "a", Title: "first a"},
		{URL: "b"},
		{URL: "c"},
	}
	if diff := cmp.Diff(want, Deduplicate(in)); diff != "" {
		t.Errorf("Deduplicate mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, Deduplicate(nil))
}

func TestDeduplicate_EachURLOnce(t *testing.T) {
	var in []types.PullRequestRecord
	for i := 0; i < 50; i++ {
		in = append(in, types.PullRequestRecord{URL: string(rune('a' + i%7))})
	}
	out := Deduplicate(in)

	seen := map[string]int{}
	for _, r := range out {
		seen[r.URL]++
	}
	assert.Len(t, out, 7)
	for u, n := range seen {
		assert.Equal(t, 1, n, u)
	}
	for i, r := range out {
		assert.Equal(t, string(rune('a'+i)), r.URL, "first-occurrence order")
	}
}

func TestEffectiveMax(t *testing.T) {
	tests := []struct {
		name string
		f    *types.FilterConfig
		want int
	}{
		{"nil filters", nil, 8},
		{"preset", &types.FilterConfig{MaxResults: "5"}, 5},
		{"preset with suffix", &types.FilterConfig{MaxResults: "12 results"}, 12},
		{"preset invalid", &types.FilterConfig{MaxResults: "many"}, 8},
		{"preset zero", &types.FilterConfig{MaxResults: "0"}, 8},
		{"custom", &types.FilterConfig{MaxResults: "custom", CustomMaxResults: "20"}, 20},
		{"custom at cap", &types.FilterConfig{MaxResults: "custom", CustomMaxResults: "50"}, 50},
		{"custom over cap", &types.FilterConfig{MaxResults: "custom", CustomMaxResults: "51"}, 8},
		{"custom empty", &types.FilterConfig{MaxResults: "custom"}, 8},
		{"custom negative", &types.FilterConfig{MaxResults: "custom", CustomMaxResults: "-3"}, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveMax(tt.f))
		})
	}
}

func TestLimit(t *testing.T) {
	in := []types.PullRequestRecord{{URL: "a"}, {URL: "b"}, {URL: "c"}}
	assert.Len(t, Limit(in, 2), 2)
	assert.Len(t, Limit(in, 10), 3)
	assert.Empty(t, Limit(in, 0))
	assert.Empty(t, Limit(in, -1))
}

func TestOutcomeKind_String(t *testing.T) {
	assert.Equal(t, "not-tried", OutcomeNotTried.String())
	assert.Equal(t, "empty", OutcomeEmpty.String())
	assert.Equal(t, "populated", OutcomePopulated.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
}
