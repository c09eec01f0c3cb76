// Package browser loads result pages through a headless Chrome so the web
// tier can read markup that only appears after scripts run.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"ghactivity/internal/fetch"
	"ghactivity/internal/logging"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Config holds browser configuration.
type Config struct {
	// DebuggerURL attaches to a running Chrome instead of launching one.
	DebuggerURL string
	// Bin is the Chrome binary to launch; empty lets the launcher find one.
	Bin               string
	Headless          bool
	NavigationTimeout time.Duration
	// WebURL scopes the session cookie.
	WebURL        string
	SessionCookie string
	UserAgent     string
}

// DefaultConfig returns headless defaults.
func DefaultConfig() Config {
	return Config{
		Headless:          true,
		NavigationTimeout: 30 * time.Second,
		WebURL:            "https://github.com",
	}
}

// GetNavigationTimeout returns the navigation timeout.
func (c Config) GetNavigationTimeout() time.Duration {
	if c.NavigationTimeout <= 0 {
		return 30 * time.Second
	}
	return c.NavigationTimeout
}

// Renderer owns one Chrome connection and implements fetch.PageLoader.
type Renderer struct {
	cfg        Config
	mu         sync.RWMutex
	browser    *rod.Browser
	launch     *launcher.Launcher
	controlURL string
}

var _ fetch.PageLoader = (*Renderer)(nil)

// NewRenderer creates a Renderer. Chrome is not contacted until Start or the
// first LoadPage.
func NewRenderer(cfg Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Start connects to the configured debugger or launches Chrome.
func (r *Renderer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		if _, err := r.browser.Version(); err == nil {
			return nil
		}
		logging.BrowserWarn("stale browser connection, reconnecting")
		_ = r.browser.Close()
		r.browser = nil
		r.controlURL = ""
	}

	controlURL := r.cfg.DebuggerURL
	if controlURL == "" {
		l := launcher.New().Headless(r.cfg.Headless)
		if r.cfg.Bin != "" {
			l = l.Bin(r.cfg.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("launch chrome: %w", err)
		}
		r.launch = l
		controlURL = u
		logging.BrowserDebug("launched chrome at %s", u)
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		r.killLaunched()
		return fmt.Errorf("connect to chrome: %w", err)
	}

	r.browser = b
	r.controlURL = controlURL
	logging.Browser("connected to chrome")
	return nil
}

func (r *Renderer) ensureStarted(ctx context.Context) error {
	r.mu.RLock()
	if r.browser != nil {
		r.mu.RUnlock()
		return nil
	}
	r.mu.RUnlock()
	return r.Start(ctx)
}

// ControlURL returns the DevTools WebSocket URL, or "" before Start.
func (r *Renderer) ControlURL() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.controlURL
}

// IsConnected reports whether a browser is connected.
func (r *Renderer) IsConnected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.browser != nil
}

// LoadPage opens pageURL in a fresh tab with the session cookie set, waits
// for the load event and returns the rendered HTML.
func (r *Renderer) LoadPage(ctx context.Context, pageURL string) (string, error) {
	if err := r.ensureStarted(ctx); err != nil {
		return "", fmt.Errorf("%w: %w", fetch.ErrNetwork, err)
	}

	r.mu.RLock()
	b := r.browser
	r.mu.RUnlock()
	if b == nil {
		return "", fmt.Errorf("%w: browser not connected", fetch.ErrNetwork)
	}

	page, err := b.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("%w: create page: %w", fetch.ErrNetwork, err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			logging.BrowserDebug("close page: %v", err)
		}
	}()

	if cookies := r.sessionCookies(); len(cookies) > 0 {
		if err := page.SetCookies(cookies); err != nil {
			return "", fmt.Errorf("%w: set session cookie: %w", fetch.ErrNetwork, err)
		}
	}
	if r.cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: r.cfg.UserAgent}); err != nil {
			logging.BrowserWarn("set user agent: %v", err)
		}
	}

	p := page.Timeout(r.cfg.GetNavigationTimeout())
	defer p.CancelTimeout()

	if err := p.Navigate(pageURL); err != nil {
		return "", fmt.Errorf("%w: navigate %s: %w", fetch.ErrNetwork, pageURL, err)
	}
	if err := p.WaitLoad(); err != nil {
		return "", fmt.Errorf("%w: wait for load: %w", fetch.ErrNetwork, err)
	}
	body, err := p.HTML()
	if err != nil {
		return "", fmt.Errorf("%w: read page html: %w", fetch.ErrNetwork, err)
	}
	logging.BrowserDebug("rendered %s (%d bytes)", pageURL, len(body))
	return body, nil
}

// sessionCookies returns the cookies that sign the tab into the web session.
func (r *Renderer) sessionCookies() []*proto.NetworkCookieParam {
	if r.cfg.SessionCookie == "" {
		return nil
	}
	scope := strings.TrimRight(r.cfg.WebURL, "/") + "/"
	return []*proto.NetworkCookieParam{
		{Name: fetch.SessionCookieName, Value: r.cfg.SessionCookie, URL: scope, Secure: strings.HasPrefix(scope, "https://"), HTTPOnly: true},
		{Name: "logged_in", Value: "yes", URL: scope},
	}
}

// Shutdown closes the browser and kills Chrome if this Renderer launched it.
func (r *Renderer) Shutdown() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	r.killLaunched()
	r.controlURL = ""
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (r *Renderer) killLaunched() {
	if r.launch != nil {
		r.launch.Kill()
		r.launch = nil
	}
}
