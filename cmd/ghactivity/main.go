package main

import (
	"fmt"
	"os"
	"time"

	"ghactivity/internal/config"
	"ghactivity/internal/logging"
	"ghactivity/internal/settings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	configPath string
	userFlag   string
	profile    string
	timeout    time.Duration

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ghactivity",
	Short: "Recent pull request activity for a GitHub user",
	Long: `ghactivity lists the open and draft pull requests a user authored,
is assigned to, or took part in.

Results come from the first source that returns anything:
  1. the signed-in web search page (session cookie, or a headless browser)
  2. the user's public activity feed
  3. the search API

Filters (date window, status, relationship, result cap) are stored per
profile and can be edited with "ghactivity filters".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", path, err)
		}
		cfg = loaded

		logger, err = logging.New(logging.Options{
			Level:      cfg.Logging.Level,
			Format:     cfg.Logging.Format,
			Categories: cfg.Logging.Categories,
		}, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.SetBase(logger)
		logging.SetCategories(cfg.Logging.Categories)
		logging.BootDebug("config loaded from %s", path)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runList,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $XDG_CONFIG_HOME/ghactivity/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "GitHub username (default: config user, then the signed-in session)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", settings.DefaultProfile, "Filter profile")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall operation timeout")

	addListFlags(rootCmd)

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(newFiltersCmd())
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
