package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all ghactivity configuration.
type Config struct {
	// Default username when --user is not given.
	User string `yaml:"user"`

	GitHub  GitHubConfig  `yaml:"github"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Browser BrowserConfig `yaml:"browser"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// GitHubConfig configures the code-hosting endpoints and credentials.
type GitHubConfig struct {
	WebURL        string `yaml:"web_url"`
	APIURL        string `yaml:"api_url"`
	Token         string `yaml:"token"`          // API bearer token
	SessionCookie string `yaml:"session_cookie"` // user_session cookie for the web page
	UserAgent     string `yaml:"user_agent"`
}

// FetchConfig configures the retrieval tiers.
type FetchConfig struct {
	RequestTimeout    string `yaml:"request_timeout"`
	SearchConcurrency int    `yaml:"search_concurrency"`
	MaxBodyBytes      int64  `yaml:"max_body_bytes"`
	EnableEvents      bool   `yaml:"enable_events"` // false selects the two-tier chain
}

// BrowserConfig configures the optional browser-rendered page loader.
type BrowserConfig struct {
	Enabled           bool   `yaml:"enabled"`
	DebuggerURL       string `yaml:"debugger_url"`
	Bin               string `yaml:"bin"`
	Headless          bool   `yaml:"headless"`
	NavigationTimeout string `yaml:"navigation_timeout"`
}

// StoreConfig configures filter persistence.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`  // debug, info, warn, error
	Format     string          `yaml:"format"` // json, console
	Categories map[string]bool `yaml:"categories"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			WebURL:    "https://github.com",
			APIURL:    "https://api.github.com",
			UserAgent: "ghactivity/1.0",
		},
		Fetch: FetchConfig{
			RequestTimeout:    "15s",
			SearchConcurrency: 3,
			MaxBodyBytes:      4 << 20,
			EnableEvents:      true,
		},
		Browser: BrowserConfig{
			Headless:          true,
			NavigationTimeout: "30s",
		},
		Store: StoreConfig{
			DatabasePath: filepath.Join(DefaultDir(), "filters.db"),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "json",
		},
	}
}

// DefaultDir returns $XDG_CONFIG_HOME/ghactivity, falling back to ~/.config/ghactivity.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ghactivity")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ghactivity"
	}
	return filepath.Join(home, ".config", "ghactivity")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Missing file means defaults.
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// GH_TOKEN is what the gh CLI exports; GITHUB_TOKEN wins when both are set.
	if token := os.Getenv("GH_TOKEN"); token != "" {
		c.GitHub.Token = token
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		c.GitHub.Token = token
	}
	if cookie := os.Getenv("GHACTIVITY_SESSION"); cookie != "" {
		c.GitHub.SessionCookie = cookie
	}
	if user := os.Getenv("GHACTIVITY_USER"); user != "" {
		c.User = user
	}
	if path := os.Getenv("GHACTIVITY_DB"); path != "" {
		c.Store.DatabasePath = path
	}
}

// GetRequestTimeout returns the per-request timeout as a duration.
func (c *Config) GetRequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Fetch.RequestTimeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// GetNavigationTimeout returns the browser navigation timeout as a duration.
func (c *Config) GetNavigationTimeout() time.Duration {
	d, err := time.ParseDuration(c.Browser.NavigationTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// GetSearchConcurrency returns the number of search queries issued in parallel.
func (c *Config) GetSearchConcurrency() int {
	if c.Fetch.SearchConcurrency <= 0 {
		return 1
	}
	return c.Fetch.SearchConcurrency
}

// GetMaxBodyBytes returns the response body read limit.
func (c *Config) GetMaxBodyBytes() int64 {
	if c.Fetch.MaxBodyBytes <= 0 {
		return 4 << 20
	}
	return c.Fetch.MaxBodyBytes
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.GitHub.WebURL == "" {
		return fmt.Errorf("github.web_url must be set")
	}
	if c.GitHub.APIURL == "" {
		return fmt.Errorf("github.api_url must be set")
	}
	if c.Store.DatabasePath == "" {
		return fmt.Errorf("store.database_path must be set (or GHACTIVITY_DB)")
	}
	return nil
}
