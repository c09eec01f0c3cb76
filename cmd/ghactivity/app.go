package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"ghactivity/internal/browser"
	"ghactivity/internal/config"
	"ghactivity/internal/fetch"
	"ghactivity/internal/pipeline"
	"ghactivity/internal/query"
	"ghactivity/internal/render"
	"ghactivity/internal/settings"
	"ghactivity/internal/types"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app wires the tiers, the pipeline and the filter store from config.
type app struct {
	cfg      *config.Config
	client   *fetch.Client
	loader   fetch.PageLoader
	browser  *browser.Renderer
	pipeline *pipeline.Pipeline
	store    *settings.SQLiteStore
}

func newApp(c *config.Config) (*app, error) {
	client := fetch.NewClient(fetch.ClientConfig{
		WebURL:        c.GitHub.WebURL,
		APIURL:        c.GitHub.APIURL,
		Token:         c.GitHub.Token,
		SessionCookie: c.GitHub.SessionCookie,
		UserAgent:     c.GitHub.UserAgent,
		Timeout:       c.GetRequestTimeout(),
		MaxBodyBytes:  c.GetMaxBodyBytes(),
	})

	a := &app{cfg: c, client: client, loader: client}
	if c.Browser.Enabled {
		a.browser = browser.NewRenderer(browser.Config{
			DebuggerURL:       c.Browser.DebuggerURL,
			Bin:               c.Browser.Bin,
			Headless:          c.Browser.Headless,
			NavigationTimeout: c.GetNavigationTimeout(),
			WebURL:            c.GitHub.WebURL,
			SessionCookie:     c.GitHub.SessionCookie,
			UserAgent:         c.GitHub.UserAgent,
		})
		a.loader = a.browser
	}

	builder := query.NewBuilder(c.GitHub.WebURL)
	web := fetch.NewWebFetcher(a.loader, builder)
	search := fetch.NewSearchFetcher(client, builder, c.GetSearchConcurrency())
	var events pipeline.Fetcher
	if c.Fetch.EnableEvents {
		events = fetch.NewEventsFetcher(client)
	}
	a.pipeline = pipeline.Standard(web, events, search)

	store, err := settings.OpenStore(c.Store.DatabasePath)
	if err != nil {
		return nil, err
	}
	a.store = store
	return a, nil
}

func (a *app) Close() {
	if a.browser != nil {
		if err := a.browser.Shutdown(); err != nil {
			logger.Warn("browser shutdown", zap.Error(err))
		}
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}

// resolveUser picks the username from the flag, the config, or the signed-in
// session, in that order.
func (a *app) resolveUser(ctx context.Context) (string, error) {
	if userFlag != "" {
		return userFlag, nil
	}
	if a.cfg.User != "" {
		return a.cfg.User, nil
	}
	login, err := fetch.ResolveUsername(ctx, a.loader, a.cfg.GitHub.WebURL)
	if err != nil {
		return "", fmt.Errorf("cannot determine username (pass --user or set a session cookie): %w", err)
	}
	return login, nil
}

// runAndRender executes one pipeline run and writes the result to w.
func (a *app) runAndRender(ctx context.Context, w io.Writer, username string, filters *types.FilterConfig, r render.Renderer) (*pipeline.Result, error) {
	res, err := a.pipeline.Run(ctx, types.FetchRequest{Username: username, Filters: filters})
	if err != nil {
		return nil, err
	}
	logger.Debug("pipeline finished",
		zap.String("run_id", res.RunID),
		zap.String("winner", res.Winner),
		zap.Int("records", len(res.Records)))
	if err := r.Render(w, res.Records); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return res, nil
}

// commandContext returns a context cancelled on interrupt and, when
// withTimeout is set, after the --timeout flag.
func commandContext(cmd *cobra.Command, withTimeout bool) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	if !withTimeout {
		return ctx, stop
	}
	ctx, cancel := withOpTimeout(ctx)
	return ctx, func() {
		cancel()
		stop()
	}
}

// withOpTimeout bounds ctx by the --timeout flag. Zero or negative means no
// bound.
func withOpTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
