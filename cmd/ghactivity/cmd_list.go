package main

import (
	"fmt"

	"ghactivity/internal/render"
	"ghactivity/internal/settings"
	"ghactivity/internal/types"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	outputFormat string
	rawMarkdown  bool
	noFilters    bool
	showSources  bool
)

// listCmd fetches and prints recent pull requests
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent pull request activity",
	Long: `Fetches pull requests for the user, trying the web search page, the
activity feed and the search API in turn, and prints the first non-empty
result after removing duplicates and applying the result cap.

Examples:
  ghactivity list
  ghactivity list --user octocat --format markdown
  ghactivity list --format json --no-filters`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFormat, "format", "f", string(render.FormatText), "Output format: text, markdown, json")
	cmd.Flags().BoolVar(&rawMarkdown, "raw", false, "With --format markdown, print markdown source")
	cmd.Flags().BoolVar(&noFilters, "no-filters", false, "Ignore saved filters and use built-in query defaults")
	cmd.Flags().BoolVar(&showSources, "sources", false, "Report which tier produced the results on stderr")
}

func init() {
	addListFlags(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd, true)
	defer cancel()

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := render.New(render.Format(outputFormat), render.Options{WebURL: cfg.GitHub.WebURL, Raw: rawMarkdown})
	if err != nil {
		return err
	}

	username, err := a.resolveUser(ctx)
	if err != nil {
		return err
	}

	var filters *types.FilterConfig
	if !noFilters {
		f, err := a.store.Load(profile)
		if err != nil {
			return err
		}
		filters = &f
		logger.Debug("filters loaded", zap.String("profile", profile), zap.String("status", settings.StatusText(f)))
	}

	res, err := a.runAndRender(ctx, cmd.OutOrStdout(), username, filters, r)
	if err != nil {
		return err
	}
	if showSources {
		for _, o := range res.Outcomes {
			fmt.Fprintf(cmd.ErrOrStderr(), "%-7s %-10s %d records\n", o.Tier, o.Kind, len(o.Records))
		}
	}
	return nil
}
