package fetch

import (
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// ItemMatcher is one structural pattern for locating result items on the
// results page.
type ItemMatcher struct {
	Pattern  string
	selector cascadia.Selector
}

func newItemMatcher(pattern string) ItemMatcher {
	return ItemMatcher{Pattern: pattern, selector: cascadia.MustCompile(pattern)}
}

// ItemMatchers lists result-item patterns from most to least specific. The
// results page markup changes between versions, so the first pattern with at
// least one match wins.
var ItemMatchers = []ItemMatcher{
	newItemMatcher(`[data-hovercard-type="pull_request"]`),
	newItemMatcher(`[data-hovercard-type="issue"]`),
	newItemMatcher(`.js-issue-row`),
	newItemMatcher(`.Box-row`),
	newItemMatcher(`.issue-row`),
	newItemMatcher(`.pr-row`),
	newItemMatcher(`[id*="issue_"]`),
	newItemMatcher(`a[href*="/pull/"]`),
	newItemMatcher(`a[href*="/issues/"]`),
}

// Per-item selectors.
var (
	prLinkSelector    = cascadia.MustCompile(`a[data-hovercard-type="pull_request"]`)
	pullHrefSelector  = cascadia.MustCompile(`a[href*="/pull/"]`)
	authorSelector    = cascadia.MustCompile(`.opened-by, .author, [data-hovercard-type="user"]`)
	draftSelector     = cascadia.MustCompile(`[title*="Draft"], .Label--draft, .State--draft, [aria-label*="Draft"]`)
	stateSelector     = cascadia.MustCompile(`.State, .Label, [data-view-component="true"][class*="State"]`)
	dateSelector      = cascadia.MustCompile(`relative-time, time, [datetime], .opened-by`)
	userLoginSelector = cascadia.MustCompile(`meta[name="user-login"]`)
)

// matchItems applies matchers in order and returns the first non-empty match
// set together with the pattern that produced it.
func matchItems(doc *html.Node, matchers []ItemMatcher) (string, []*html.Node) {
	for _, m := range matchers {
		if nodes := m.selector.MatchAll(doc); len(nodes) > 0 {
			return m.Pattern, nodes
		}
	}
	return "", nil
}
