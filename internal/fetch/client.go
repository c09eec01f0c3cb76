// Package fetch implements the three pull request retrieval tiers: the
// authenticated results page scrape, the user activity feed, and the search
// API. Every tier shares one Client so timeouts, credentials and body limits
// are applied uniformly.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SessionCookieName is the cookie that carries an authenticated web session.
const SessionCookieName = "user_session"

// ClientConfig configures a Client.
type ClientConfig struct {
	WebURL        string
	APIURL        string
	Token         string
	SessionCookie string
	UserAgent     string
	// Timeout bounds every individual request. Zero means 15s.
	Timeout time.Duration
	// MaxBodyBytes caps how much of a response body is read. Zero means 4 MiB.
	MaxBodyBytes int64
	// HTTPClient overrides the transport; nil uses a fresh http.Client.
	HTTPClient *http.Client
}

// Client performs GET requests against the web and API endpoints.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

// NewClient creates a Client, filling in defaults.
func NewClient(cfg ClientConfig) *Client {
	cfg.WebURL = strings.TrimRight(cfg.WebURL, "/")
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 4 << 20
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "ghactivity/1.0"
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{cfg: cfg, http: hc}
}

// WebURL returns the web base URL without a trailing slash.
func (c *Client) WebURL() string { return c.cfg.WebURL }

// APIURL returns the API base URL without a trailing slash.
func (c *Client) APIURL() string { return c.cfg.APIURL }

// LoadPage fetches an HTML page with the session cookie attached.
func (c *Client) LoadPage(ctx context.Context, url string) (string, error) {
	body, err := c.get(ctx, url, func(req *http.Request) {
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		if c.cfg.SessionCookie != "" {
			req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: c.cfg.SessionCookie})
			req.AddCookie(&http.Cookie{Name: "logged_in", Value: "yes"})
		}
	})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// getJSON fetches an API URL and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	body, err := c.get(ctx, url, func(req *http.Request) {
		req.Header.Set("Accept", "application/vnd.github+json")
		if c.cfg.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
		}
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrParse, url, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string, decorate func(*http.Request)) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrNetwork, err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrNetwork, err)
	}
	return body, nil
}
