package query

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"ghactivity/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

func newTestBuilder() *Builder {
	b := NewBuilder("https://github.com/")
	b.Now = func() time.Time { return fixedNow }
	return b
}

// decodedQuery extracts the q parameter from a search page URL.
func decodedQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query()
}

func TestStatusTerms(t *testing.T) {
	tests := []struct {
		name        string
		open, draft bool
		want        []string
	}{
		{"open only excludes drafts", true, false, []string{"state:open", "-is:draft"}},
		{"draft only", false, true, []string{"is:draft"}},
		{"both", true, true, []string{"state:open"}},
		// Neither selected silently falls back to open; upstream validation
		// is expected to prevent this combination.
		{"neither", false, false, []string{"state:open"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StatusTerms(types.FilterConfig{ShowOpen: tt.open, ShowDraft: tt.draft})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDaysBack(t *testing.T) {
	tests := []struct {
		name string
		f    types.FilterConfig
		want int
	}{
		{"absent", types.FilterConfig{}, 0},
		{"all", types.FilterConfig{DateRange: "all"}, 0},
		{"preset", types.FilterConfig{DateRange: "30"}, 30},
		{"preset ignores customDays", types.FilterConfig{DateRange: "14", CustomDays: "99"}, 14},
		{"unparseable preset", types.FilterConfig{DateRange: "fortnight"}, 0},
		{"custom", types.FilterConfig{DateRange: "custom", CustomDays: "10"}, 10},
		{"custom zero", types.FilterConfig{DateRange: "custom", CustomDays: "0"}, 60},
		{"custom non-numeric", types.FilterConfig{DateRange: "custom", CustomDays: "soon"}, 60},
		{"custom empty", types.FilterConfig{DateRange: "custom"}, 60},
		{"custom negative", types.FilterConfig{DateRange: "custom", CustomDays: "-4"}, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBack(tt.f))
		})
	}
}

func TestDateTerm(t *testing.T) {
	assert.Equal(t, "updated:>2025-02-13", DateTerm(types.FilterConfig{DateRange: "30"}, fixedNow))
	assert.Equal(t, "updated:>2025-01-14", DateTerm(types.FilterConfig{DateRange: "custom", CustomDays: "0"}, fixedNow))
	assert.Equal(t, "", DateTerm(types.FilterConfig{DateRange: "all"}, fixedNow))

	// The cutoff is computed in UTC regardless of the caller's zone.
	local := time.Date(2025, 3, 15, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))
	assert.Equal(t, "updated:>2025-03-15", DateTerm(types.FilterConfig{DateRange: "1"}, local))
}

func TestSearchURL(t *testing.T) {
	b := newTestBuilder()

	t.Run("nil filters", func(t *testing.T) {
		raw := b.SearchURL("alice", nil)
		assert.True(t, strings.HasPrefix(raw, "https://github.com/issues?q="))
		q := decodedQuery(t, raw)
		assert.Equal(t, "type:pr involves:alice state:open", q.Get("q"))
		assert.Equal(t, "updated", q.Get("sort"))
		assert.Equal(t, "desc", q.Get("order"))
	})

	t.Run("all facets combined", func(t *testing.T) {
		f := &types.FilterConfig{
			ShowAuthor: true, ShowAssigned: true, ShowOthers: true,
			ShowOpen: true, DateRange: "30",
		}
		q := decodedQuery(t, b.SearchURL("alice", f)).Get("q")
		assert.Equal(t,
			"type:pr author:alice assignee:alice involves:alice -author:alice state:open -is:draft updated:>2025-02-13",
			q)
	})

	t.Run("no facet falls back to involves", func(t *testing.T) {
		f := &types.FilterConfig{ShowDraft: true, DateRange: "all"}
		q := decodedQuery(t, b.SearchURL("alice", f)).Get("q")
		assert.Equal(t, "type:pr involves:alice is:draft", q)
	})

	t.Run("query is encoded", func(t *testing.T) {
		raw := b.SearchURL("alice", &types.FilterConfig{ShowAuthor: true, ShowOpen: true, ShowDraft: true})
		assert.NotContains(t, raw, " ")
		assert.Contains(t, raw, "author%3Aalice")
	})
}

func TestAPIQueries(t *testing.T) {
	b := newTestBuilder()

	t.Run("author and assignee", func(t *testing.T) {
		qs := b.APIQueries("alice", &types.FilterConfig{ShowAuthor: true, ShowAssigned: true})
		require.Len(t, qs, 2)
		assert.Contains(t, qs[0].Text, "author:alice")
		assert.Contains(t, qs[1].Text, "assignee:alice")
		for _, q := range qs {
			assert.Contains(t, q.Text, "type:pr")
		}
		assert.Equal(t, types.FacetAuthor, qs[0].Facet)
		assert.Equal(t, types.FacetAssignee, qs[1].Facet)
	})

	t.Run("facet order is author, assignee, others", func(t *testing.T) {
		qs := b.APIQueries("alice", &types.FilterConfig{ShowOthers: true, ShowAssigned: true, ShowAuthor: true, ShowOpen: true, DateRange: "7"})
		require.Len(t, qs, 3)
		assert.Equal(t, []string{
			"author:alice type:pr state:open -is:draft updated:>2025-03-08",
			"assignee:alice type:pr state:open -is:draft updated:>2025-03-08",
			"involves:alice -author:alice type:pr state:open -is:draft updated:>2025-03-08",
		}, qs.Strings())
	})

	t.Run("no facet selected", func(t *testing.T) {
		qs := b.APIQueries("alice", &types.FilterConfig{ShowDraft: true})
		require.Len(t, qs, 1)
		assert.Equal(t, "involves:alice type:pr is:draft", qs[0].Text)
		assert.Equal(t, types.FacetInvolves, qs[0].Facet)
	})

	t.Run("nil filters", func(t *testing.T) {
		qs := b.APIQueries("alice", nil)
		assert.Equal(t, []string{
			"author:alice type:pr state:open",
			"assignee:alice type:pr state:open",
		}, qs.Strings())
	})
}

func TestHasAuthorTerm(t *testing.T) {
	assert.True(t, HasAuthorTerm("author:alice type:pr", "alice"))
	assert.True(t, HasAuthorTerm("author:Alice type:pr", "alice"))
	assert.False(t, HasAuthorTerm("involves:alice -author:alice type:pr", "alice"))
	assert.False(t, HasAuthorTerm("author:alicia type:pr", "alice"))
	assert.False(t, HasAuthorTerm("assignee:alice type:pr", "alice"))
}
