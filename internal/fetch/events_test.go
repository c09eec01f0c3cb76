package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ghactivity/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eventsFeed = `[
  {"type": "PushEvent", "created_at": "2025-03-14T10:00:00Z", "payload": {}},
  {"type": "PullRequestEvent", "created_at": "2025-03-14T09:00:00Z", "payload": {"pull_request": {
    "html_url": "https://github.com/octo/widgets/pull/1", "title": "Widgets v1", "draft": false,
    "updated_at": "2025-03-14T09:00:00Z", "created_at": "2025-03-01T09:00:00Z",
    "user": {"login": "alice"}, "base": {"repo": {"full_name": "octo/widgets"}}}}},
  {"type": "PullRequestReviewEvent", "created_at": "2025-03-13T09:00:00Z", "payload": {"pull_request": {
    "html_url": "https://github.com/octo/gadgets/pull/2", "title": "Gadgets", "draft": true,
    "user": {"login": "bob"}, "base": {"repo": {"full_name": "octo/gadgets"}}}}},
  {"type": "PullRequestEvent", "created_at": "2025-03-12T09:00:00Z", "payload": {"pull_request": {
    "html_url": "https://github.com/octo/widgets/pull/1", "title": "Widgets v0", "draft": true,
    "user": {"login": "alice"}, "base": {"repo": {"full_name": "octo/widgets"}}}}},
  {"type": "PullRequestEvent", "created_at": "2025-03-11T09:00:00Z", "payload": {"pull_request": {
    "html_url": "https://github.com/octo/broken/pull/3", "title": "No base", "user": {"login": "alice"}}}},
  {"type": "PullRequestEvent", "created_at": "not-a-time", "payload": {"pull_request": {
    "html_url": "https://github.com/octo/widgets/pull/4", "title": "Bad time",
    "user": {"login": "alice"}, "base": {"repo": {"full_name": "octo/widgets"}}}}},
  {"type": "PullRequestEvent", "created_at": "2024-01-01T09:00:00Z", "payload": {"pull_request": {
    "html_url": "https://github.com/octo/widgets/pull/5", "title": "Too old",
    "user": {"login": "alice"}, "base": {"repo": {"full_name": "octo/widgets"}}}}}
]`

func TestEventsFetcher_Fetch(t *testing.T) {
	var gotPath, gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(eventsFeed))
	}))
	defer ts.Close()

	e := NewEventsFetcher(NewClient(ClientConfig{APIURL: ts.URL, Token: "tok"}))
	e.now = func() time.Time { return fixedNow }

	recs, err := e.Fetch(context.Background(), types.FetchRequest{Username: "alice"})
	require.NoError(t, err)

	assert.Equal(t, "/users/alice/events", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)

	require.Len(t, recs, 2)
	// First-seen order, data from the last qualifying event for that URL.
	assert.Equal(t, "https://github.com/octo/widgets/pull/1", recs[0].URL)
	assert.Equal(t, "Widgets v0", recs[0].Title)
	assert.True(t, recs[0].IsDraft)
	assert.Equal(t, types.StatusDraft, recs[0].Status)
	assert.True(t, recs[0].IsAuthor)
	assert.Equal(t, types.SourceEvents, recs[0].Source)

	assert.Equal(t, "https://github.com/octo/gadgets/pull/2", recs[1].URL)
	assert.Equal(t, "octo/gadgets", recs[1].RepoSlug)
	assert.False(t, recs[1].IsAuthor)
}

func TestEventsFetcher_FetchFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	e := NewEventsFetcher(NewClient(ClientConfig{APIURL: ts.URL}))
	recs, err := e.Fetch(context.Background(), types.FetchRequest{Username: "alice"})
	assert.Nil(t, recs)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestCollectEventPRs_Window(t *testing.T) {
	ev := func(created, url string) Event {
		pr := &EventPullRequest{
			HTMLURL: url,
			Title:   url,
			User:    &EventUser{Login: "alice"},
			Base:    &EventBase{Repo: &EventRepo{FullName: "octo/widgets"}},
		}
		return Event{Type: eventPullRequest, CreatedAt: created, Payload: EventPayload{PullRequest: pr}}
	}
	events := []Event{
		ev("2025-03-10T00:00:00Z", "https://github.com/octo/widgets/pull/1"),
		ev("2025-02-20T00:00:00Z", "https://github.com/octo/widgets/pull/2"),
		ev("2024-12-20T00:00:00Z", "https://github.com/octo/widgets/pull/3"),
	}

	tests := []struct {
		window string
		want   int
	}{
		{Window1Week, 1},
		{Window1Month, 2},
		{Window3Months, 3},
		{"", 3},
		{"30", 3},
	}
	for _, tt := range tests {
		t.Run("window="+tt.window, func(t *testing.T) {
			recs := CollectEventPRs(events, "alice", EventCutoff(tt.window, fixedNow))
			assert.Len(t, recs, tt.want)
		})
	}
}

func TestEventCutoff(t *testing.T) {
	assert.Equal(t, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC), EventCutoff(Window1Year, fixedNow))
	assert.Equal(t, time.Date(2024, 9, 15, 12, 0, 0, 0, time.UTC), EventCutoff(Window6Months, fixedNow))
	assert.Equal(t, EventCutoff(Window3Months, fixedNow), EventCutoff("custom", fixedNow))
}
