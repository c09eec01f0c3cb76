package fetch

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"ghactivity/internal/logging"
	"ghactivity/internal/types"
)

// Named activity windows accepted by the events tier.
const (
	Window1Week   = "1week"
	Window1Month  = "1month"
	Window3Months = "3months"
	Window6Months = "6months"
	Window1Year   = "1year"
)

// Event types that carry a pull request payload.
const (
	eventPullRequest       = "PullRequestEvent"
	eventPullRequestReview = "PullRequestReviewEvent"
)

// Event is one entry of a user's public activity feed.
type Event struct {
	Type      string       `json:"type"`
	CreatedAt string       `json:"created_at"`
	Payload   EventPayload `json:"payload"`
}

// EventPayload holds the nested pull request, when present.
type EventPayload struct {
	PullRequest *EventPullRequest `json:"pull_request"`
}

// EventPullRequest is the pull request embedded in an event.
type EventPullRequest struct {
	HTMLURL   string     `json:"html_url"`
	Title     string     `json:"title"`
	Draft     bool       `json:"draft"`
	UpdatedAt string     `json:"updated_at"`
	CreatedAt string     `json:"created_at"`
	User      *EventUser `json:"user"`
	Base      *EventBase `json:"base"`
}

type EventUser struct {
	Login string `json:"login"`
}

type EventBase struct {
	Repo *EventRepo `json:"repo"`
}

type EventRepo struct {
	FullName string `json:"full_name"`
}

// EventsFetcher is tier 2: it extracts pull requests from the activity feed.
type EventsFetcher struct {
	client *Client
	now    func() time.Time
}

// NewEventsFetcher creates an EventsFetcher.
func NewEventsFetcher(client *Client) *EventsFetcher {
	return &EventsFetcher{client: client, now: time.Now}
}

// Fetch reads the user's feed and returns unique pull requests from
// qualifying events. The window is taken from the filter's date range.
func (e *EventsFetcher) Fetch(ctx context.Context, req types.FetchRequest) ([]types.PullRequestRecord, error) {
	window := ""
	if req.Filters != nil {
		window = req.Filters.DateRange
	}

	feedURL := fmt.Sprintf("%s/users/%s/events", e.client.APIURL(), url.PathEscape(req.Username))
	var events []Event
	if err := e.client.getJSON(ctx, feedURL, &events); err != nil {
		return nil, fmt.Errorf("load activity feed: %w", err)
	}

	cutoff := EventCutoff(window, e.now())
	records := CollectEventPRs(events, req.Username, cutoff)
	logging.Events("%d events, %d unique pull requests since %s", len(events), len(records), cutoff.Format(time.DateOnly))
	return records, nil
}

// EventCutoff returns the earliest accepted event time for a named window.
// Unrecognized windows mean three months.
func EventCutoff(window string, now time.Time) time.Time {
	switch window {
	case Window1Week:
		return now.AddDate(0, 0, -7)
	case Window1Month:
		return now.AddDate(0, -1, 0)
	case Window3Months:
		return now.AddDate(0, -3, 0)
	case Window6Months:
		return now.AddDate(0, -6, 0)
	case Window1Year:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -3, 0)
	}
}

// CollectEventPRs keeps pull request and review events at or after cutoff
// and returns one record per pull request URL. Records keep the position of
// the URL's first qualifying event and the data of its last.
func CollectEventPRs(events []Event, username string, cutoff time.Time) []types.PullRequestRecord {
	var order []string
	byURL := make(map[string]types.PullRequestRecord)

	for _, ev := range events {
		if ev.Type != eventPullRequest && ev.Type != eventPullRequestReview {
			continue
		}
		at, err := time.Parse(time.RFC3339, ev.CreatedAt)
		if err != nil {
			logging.EventsDebug("skipping %s with bad timestamp %q", ev.Type, ev.CreatedAt)
			continue
		}
		if at.Before(cutoff) {
			continue
		}
		pr := ev.Payload.PullRequest
		if pr == nil {
			continue
		}
		if pr.HTMLURL == "" || pr.User == nil || pr.Base == nil || pr.Base.Repo == nil {
			logging.EventsWarn("skipping event: %v", fmt.Errorf("%w: pull request %q lacks url, user or base repo", ErrMissingData, pr.HTMLURL))
			continue
		}

		if _, seen := byURL[pr.HTMLURL]; !seen {
			order = append(order, pr.HTMLURL)
		}
		byURL[pr.HTMLURL] = types.PullRequestRecord{
			URL:       pr.HTMLURL,
			Title:     pr.Title,
			RepoSlug:  pr.Base.Repo.FullName,
			IsAuthor:  pr.User.Login == username,
			IsDraft:   pr.Draft,
			Status:    types.StatusFor(pr.Draft),
			Source:    types.SourceEvents,
			UpdatedAt: parseTime(pr.UpdatedAt),
			CreatedAt: parseTime(pr.CreatedAt),
		}
	}

	records := make([]types.PullRequestRecord, 0, len(order))
	for _, u := range order {
		records = append(records, byURL[u])
	}
	return records
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
