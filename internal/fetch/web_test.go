package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ghactivity/internal/query"
	"ghactivity/internal/types"

	"github.com/andybalholm/cascadia"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

var fixedNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

type fakeLoader struct {
	body string
	err  error
	urls []string
}

func (f *fakeLoader) LoadPage(_ context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	return f.body, f.err
}

func newTestWebFetcher(loader PageLoader) *WebFetcher {
	w := NewWebFetcher(loader, query.NewBuilder("https://github.com"))
	w.now = func() time.Time { return fixedNow }
	return w
}

const hovercardPage = `<!DOCTYPE html>
<html><body>
<div class="js-issue-row">
  <a data-hovercard-type="pull_request" href="/octo/widgets/pull/12">
    Fix   the
    widget
  </a>
</div>
<div class="js-issue-row">
  <a data-hovercard-type="pull_request" href="https://github.com/octo/gadgets/pull/3">Add gadget</a>
</div>
</body></html>`

const boxRowPage = `<!DOCTYPE html>
<html><body>
<div class="Box">
  <div class="Box-row">
    <a class="Link--primary" href="https://github.com/octo/widgets/pull/7">Add **bold** feature</a>
    <span class="State State--draft">Draft</span>
    <a class="author" data-hovercard-type="user" href="/alice">alice</a>
    <relative-time datetime="2025-03-14T09:00:00Z">yesterday</relative-time>
  </div>
  <div class="Box-row">
    <a class="Link--primary" href="/octo/gadgets/pull/3" aria-label="Gadget fix"></a>
    <span class="Label">Open</span>
    <span class="opened-by">opened 3 days ago by bob</span>
  </div>
  <div class="Box-row">
    <a href="/octo/gadgets/issues/9">An issue, not a pull request</a>
  </div>
  <div class="Box-row">
    <a href="/octo/gadgets/pull/10"></a>
  </div>
</div>
</body></html>`

func TestWebFetcher_HovercardPattern(t *testing.T) {
	w := newTestWebFetcher(nil)
	recs, err := w.Parse(hovercardPage, "alice")
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "https://github.com/octo/widgets/pull/12", recs[0].URL)
	assert.Equal(t, "Fix the widget", recs[0].Title)
	assert.Equal(t, "octo/widgets", recs[0].RepoSlug)
	assert.Equal(t, types.SourceWeb, recs[0].Source)
	assert.Equal(t, types.StatusOpen, recs[0].Status)

	assert.Equal(t, "https://github.com/octo/gadgets/pull/3", recs[1].URL)
	assert.Equal(t, "octo/gadgets", recs[1].RepoSlug)
}

func TestWebFetcher_FallbackPatternAndHeuristics(t *testing.T) {
	w := newTestWebFetcher(nil)
	recs, err := w.Parse(boxRowPage, "alice")
	require.NoError(t, err)
	require.Len(t, recs, 3, "issue row without a pull link is skipped")

	first := recs[0]
	assert.Equal(t, "Add **bold** feature", first.Title)
	assert.True(t, first.IsAuthor)
	assert.True(t, first.IsDraft)
	assert.Equal(t, types.StatusDraft, first.Status)
	require.NotNil(t, first.UpdatedAt)
	assert.True(t, first.UpdatedAt.Equal(time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)))

	second := recs[1]
	assert.Equal(t, "https://github.com/octo/gadgets/pull/3", second.URL)
	assert.Equal(t, "Gadget fix", second.Title)
	assert.False(t, second.IsAuthor)
	assert.False(t, second.IsDraft)
	require.NotNil(t, second.UpdatedAt)
	assert.True(t, second.UpdatedAt.Equal(fixedNow.AddDate(0, 0, -3)))

	assert.Equal(t, "Untitled", recs[2].Title)
	assert.Nil(t, recs[2].UpdatedAt)
}

func TestWebFetcher_NoMatchesIsEmpty(t *testing.T) {
	w := newTestWebFetcher(nil)
	recs, err := w.Parse(`<html><body><p>Nothing here</p></body></html>`, "alice")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestWebFetcher_ItemWithoutHrefIsSkipped(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(
		`<div class="pr-row"><a data-hovercard-type="pull_request">No href</a></div>`))
	require.NoError(t, err)
	item := cascadia.MustCompile(".pr-row").MatchFirst(doc)
	require.NotNil(t, item)

	w := newTestWebFetcher(nil)
	_, err = w.parseItem(item, "alice")
	assert.True(t, errors.Is(err, ErrParse))

	recs, err := w.Parse(`<div class="pr-row"><a data-hovercard-type="pull_request">No href</a></div>`, "alice")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestWebFetcher_FetchBuildsSearchURL(t *testing.T) {
	loader := &fakeLoader{body: hovercardPage}
	w := newTestWebFetcher(loader)

	recs, err := w.Fetch(context.Background(), types.FetchRequest{Username: "alice"})
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	require.Len(t, loader.urls, 1)
	assert.Equal(t,
		"https://github.com/issues?q=type%3Apr+involves%3Aalice+state%3Aopen&sort=updated&order=desc",
		loader.urls[0])
}

func TestWebFetcher_FetchLoadError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	client := NewClient(ClientConfig{WebURL: ts.URL})
	w := NewWebFetcher(client, query.NewBuilder(ts.URL))

	recs, err := w.Fetch(context.Background(), types.FetchRequest{Username: "alice"})
	assert.Empty(t, recs)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestRepoSlugFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/octo/widgets/pull/12", "octo/widgets"},
		{"https://ghe.example.com/team/repo/pull/1", "team/repo"},
		{"https://github.com/octo/widgets", types.UnknownRepo},
		{"https://github.com/", types.UnknownRepo},
		{"::not a url", types.UnknownRepo},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, RepoSlugFromURL(tt.url))
		})
	}
}

func TestWebFetcher_DirectChildElements(t *testing.T) {
	w := newTestWebFetcher(nil)
	recs, err := w.Parse(`<div class="Box-row"><a href="/octo/w/pull/1">Fix</a><span class="State">Draft</span><time datetime="2025-03-10T00:00:00Z"></time></div>`, "alice")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "https://github.com/octo/w/pull/1", recs[0].URL)
	assert.Equal(t, "Fix", recs[0].Title)
	assert.True(t, recs[0].IsDraft)
	require.NotNil(t, recs[0].UpdatedAt)
	assert.True(t, recs[0].UpdatedAt.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
}

func TestQueryDescendant(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<div class="State"><span class="State">child</span><p><span class="State">deep</span></p></div>`))
	require.NoError(t, err)
	outer := cascadia.Query(doc, stateSelector)
	require.NotNil(t, outer)

	found := queryDescendant(outer, stateSelector)
	require.NotNil(t, found, "direct children are searched")
	assert.Equal(t, "child", textContent(found))

	leaf := queryDescendant(found, stateSelector)
	assert.Nil(t, leaf, "the node itself is not a match")
}
