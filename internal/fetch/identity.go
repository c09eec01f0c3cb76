package fetch

import (
	"context"
	"fmt"
	"strings"

	"ghactivity/internal/logging"

	"golang.org/x/net/html"
)

// ResolveUsername returns the login of the signed-in session by reading the
// user-login meta tag from the web root page.
func ResolveUsername(ctx context.Context, loader PageLoader, webURL string) (string, error) {
	body, err := loader.LoadPage(ctx, strings.TrimRight(webURL, "/")+"/")
	if err != nil {
		return "", fmt.Errorf("load session page: %w", err)
	}
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}
	meta := userLoginSelector.MatchFirst(doc)
	if meta == nil {
		return "", ErrNotSignedIn
	}
	login := strings.TrimSpace(getAttr(meta, "content"))
	if login == "" {
		return "", ErrNotSignedIn
	}
	logging.BootDebug("resolved signed-in user %s", login)
	return login, nil
}
