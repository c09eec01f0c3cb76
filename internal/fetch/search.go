package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"ghactivity/internal/logging"
	"ghactivity/internal/query"
	"ghactivity/internal/types"

	"golang.org/x/sync/errgroup"
)

// SearchPageSize is the number of hits requested per query.
const SearchPageSize = 100

type searchResponse struct {
	Items []searchHit `json:"items"`
}

type searchHit struct {
	HTMLURL       string `json:"html_url"`
	Title         string `json:"title"`
	RepositoryURL string `json:"repository_url"`
	Draft         bool   `json:"draft"`
	UpdatedAt     string `json:"updated_at"`
	CreatedAt     string `json:"created_at"`
}

// SearchFetcher is tier 3: it runs one search API query per facet.
type SearchFetcher struct {
	client      *Client
	builder     *query.Builder
	concurrency int
}

// NewSearchFetcher creates a SearchFetcher issuing up to concurrency queries
// at once. Values below 1 run queries sequentially.
func NewSearchFetcher(client *Client, builder *query.Builder, concurrency int) *SearchFetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &SearchFetcher{client: client, builder: builder, concurrency: concurrency}
}

// Fetch runs every facet query and concatenates the hits in query order.
// A failed query is logged and contributes nothing; an error is returned
// only when every query failed.
func (s *SearchFetcher) Fetch(ctx context.Context, req types.FetchRequest) ([]types.PullRequestRecord, error) {
	qs := s.builder.APIQueries(req.Username, req.Filters)

	results := make([][]types.PullRequestRecord, len(qs))
	errs := make([]error, len(qs))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, q := range qs {
		g.Go(func() error {
			recs, err := s.runQuery(ctx, req.Username, q)
			if err != nil {
				logging.SearchWarn("query %q failed: %v", q.Text, err)
				errs[i] = err
				return nil
			}
			results[i] = recs
			return nil
		})
	}
	_ = g.Wait()

	var records []types.PullRequestRecord
	failed := 0
	for i := range qs {
		if errs[i] != nil {
			failed++
			continue
		}
		records = append(records, results[i]...)
	}

	logging.Search("%d queries, %d failed, %d hits", len(qs), failed, len(records))
	if len(qs) > 0 && failed == len(qs) {
		return nil, errors.Join(errs...)
	}
	return records, nil
}

func (s *SearchFetcher) runQuery(ctx context.Context, username string, q types.Query) ([]types.PullRequestRecord, error) {
	searchURL := fmt.Sprintf("%s/search/issues?q=%s&sort=updated&order=desc&per_page=%d",
		s.client.APIURL(), url.QueryEscape(q.Text), SearchPageSize)
	logging.SearchDebug("issuing %s query: %s", q.Facet, q.Text)

	var resp searchResponse
	if err := s.client.getJSON(ctx, searchURL, &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		return nil, fmt.Errorf("%w: search response has no items", ErrParse)
	}

	isAuthor := query.HasAuthorTerm(q.Text, username)
	records := make([]types.PullRequestRecord, 0, len(resp.Items))
	for _, hit := range resp.Items {
		if hit.HTMLURL == "" {
			logging.SearchWarn("skipping hit without html_url: %q", hit.Title)
			continue
		}
		records = append(records, types.PullRequestRecord{
			URL:       hit.HTMLURL,
			Title:     hit.Title,
			RepoSlug:  repoSlugFromAPIURL(hit.RepositoryURL),
			IsAuthor:  isAuthor,
			IsDraft:   hit.Draft,
			Status:    types.StatusFor(hit.Draft),
			Source:    types.SourceSearch,
			UpdatedAt: parseTime(hit.UpdatedAt),
			CreatedAt: parseTime(hit.CreatedAt),
		})
	}
	return records, nil
}

// repoSlugFromAPIURL joins the last two path segments of a repository API
// URL such as https://api.github.com/repos/owner/name.
func repoSlugFromAPIURL(raw string) string {
	raw = strings.TrimRight(raw, "/")
	if raw == "" {
		return types.UnknownRepo
	}
	segs := strings.Split(raw, "/")
	if len(segs) < 2 {
		return types.UnknownRepo
	}
	return segs[len(segs)-2] + "/" + segs[len(segs)-1]
}
