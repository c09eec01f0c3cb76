package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"ghactivity/internal/logging"
	"ghactivity/internal/query"
	"ghactivity/internal/types"

	"golang.org/x/net/html"
)

// PageLoader loads an HTML page within the caller's authenticated session.
// Client implements it over HTTP; browser.Renderer implements it with a
// logged-in Chrome.
type PageLoader interface {
	LoadPage(ctx context.Context, url string) (string, error)
}

var errNoLink = errors.New("no pull request link in item")

// WebFetcher is tier 1: it scrapes the authenticated search results page.
type WebFetcher struct {
	loader  PageLoader
	builder *query.Builder
	base    *url.URL
	now     func() time.Time
}

// NewWebFetcher creates a WebFetcher. Relative links on the page resolve
// against the builder's web URL.
func NewWebFetcher(loader PageLoader, builder *query.Builder) *WebFetcher {
	base, err := url.Parse(builder.WebURL + "/")
	if err != nil || base.Host == "" {
		base, _ = url.Parse("https://github.com/")
	}
	return &WebFetcher{loader: loader, builder: builder, base: base, now: time.Now}
}

// Fetch loads the results page for the request and parses it.
func (w *WebFetcher) Fetch(ctx context.Context, req types.FetchRequest) ([]types.PullRequestRecord, error) {
	pageURL := w.builder.SearchURL(req.Username, req.Filters)
	logging.ScrapeDebug("loading results page %s", pageURL)

	body, err := w.loader.LoadPage(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("load results page: %w", err)
	}
	return w.Parse(body, req.Username)
}

// Parse extracts records from a results page body. Items that cannot be
// parsed are logged and skipped.
func (w *WebFetcher) Parse(body, username string) ([]types.PullRequestRecord, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	pattern, items := matchItems(doc, ItemMatchers)
	if len(items) == 0 {
		logging.ScrapeDebug("no result items matched any pattern")
		return nil, nil
	}
	logging.ScrapeDebug("pattern %s matched %d items", pattern, len(items))

	records := make([]types.PullRequestRecord, 0, len(items))
	for i, item := range items {
		rec, err := w.parseItem(item, username)
		if errors.Is(err, errNoLink) {
			continue
		}
		if err != nil {
			logging.ScrapeWarn("skipping item %d: %v", i, err)
			continue
		}
		records = append(records, rec)
	}

	logging.Scrape("parsed %d of %d items", len(records), len(items))
	return records, nil
}

func (w *WebFetcher) parseItem(item *html.Node, username string) (types.PullRequestRecord, error) {
	link := queryDescendant(item, prLinkSelector)
	if link == nil {
		link = queryDescendant(item, pullHrefSelector)
	}
	if link == nil && item.Type == html.ElementNode && item.Data == "a" &&
		strings.Contains(getAttr(item, "href"), "/pull/") {
		link = item
	}
	if link == nil {
		return types.PullRequestRecord{}, errNoLink
	}

	href := strings.TrimSpace(getAttr(link, "href"))
	if href == "" {
		return types.PullRequestRecord{}, fmt.Errorf("%w: link has no href", ErrParse)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return types.PullRequestRecord{}, fmt.Errorf("%w: bad href %q: %v", ErrParse, href, err)
	}
	abs := w.base.ResolveReference(ref).String()

	title := collapseSpace(textContent(link))
	if title == "" {
		title = strings.TrimSpace(getAttr(link, "aria-label"))
	}
	if title == "" {
		title = "Untitled"
	}

	isAuthor := false
	if el := queryDescendant(item, authorSelector); el != nil {
		isAuthor = strings.Contains(textContent(el), username)
	}

	isDraft := queryDescendant(item, draftSelector) != nil
	if !isDraft {
		if el := queryDescendant(item, stateSelector); el != nil {
			isDraft = strings.Contains(strings.ToLower(textContent(el)), "draft")
		}
	}

	rec := types.PullRequestRecord{
		URL:      abs,
		Title:    title,
		RepoSlug: RepoSlugFromURL(abs),
		IsAuthor: isAuthor,
		IsDraft:  isDraft,
		Status:   types.StatusFor(isDraft),
		Source:   types.SourceWeb,
	}
	if el := queryDescendant(item, dateSelector); el != nil {
		rec.UpdatedAt = w.itemTime(el)
	}
	return rec, nil
}

// itemTime reads a timestamp from a date element: the datetime attribute,
// then the title attribute, then relative text such as "3 days ago".
func (w *WebFetcher) itemTime(el *html.Node) *time.Time {
	for _, raw := range []string{getAttr(el, "datetime"), getAttr(el, "title")} {
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw)); err == nil {
			return &t
		}
	}
	if t, ok := ParseRelativeTime(textContent(el), w.now()); ok {
		return &t
	}
	return nil
}

// RepoSlugFromURL returns "owner/name" for a URL shaped like
// <host>/<owner>/<name>/..., or "unknown".
func RepoSlugFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return types.UnknownRepo
	}
	segs := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	if len(segs) < 3 || segs[0] == "" || segs[1] == "" {
		return types.UnknownRepo
	}
	return segs[0] + "/" + segs[1]
}
