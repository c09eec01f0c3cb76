package main

import (
	"encoding/json"
	"fmt"

	"ghactivity/internal/config"
	"ghactivity/internal/settings"
	"ghactivity/internal/types"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newFiltersCmd builds the filters command group. Each call returns fresh
// commands so flag state never leaks between invocations.
func newFiltersCmd() *cobra.Command {
	filtersCmd := &cobra.Command{
		Use:   "filters",
		Short: "Show or edit the saved filters",
		Long: `Filters select which pull requests are listed:
  date range   preset day count (e.g. 7, 30, 60), "custom" with --custom-days, or "all"
  status       open and/or draft
  relationship authored, assigned, and/or other involvement
  max results  preset count, or "custom" with --custom-max-results (1-50)`,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved filters",
		Args:  cobra.NoArgs,
		RunE:  runFiltersShow,
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Change individual filter fields",
		Long: `Changes only the fields whose flags are given, validates the result and
saves it. At least one status must remain selected; if no relationship is
selected, "authored" is turned on.

Example:
  ghactivity filters set --date-range 30 --assigned --draft=false`,
		Args: cobra.NoArgs,
		RunE: runFiltersSet,
	}
	setCmd.Flags().String("date-range", "", `Day count, "custom" or "all"`)
	setCmd.Flags().String("custom-days", "", `Day count used with --date-range custom`)
	setCmd.Flags().Bool("open", false, "Include open pull requests")
	setCmd.Flags().Bool("draft", false, "Include draft pull requests")
	setCmd.Flags().Bool("author", false, "Include pull requests the user authored")
	setCmd.Flags().Bool("assigned", false, "Include pull requests assigned to the user")
	setCmd.Flags().Bool("others", false, "Include other pull requests the user is involved in")
	setCmd.Flags().String("max-results", "", `Result cap, or "custom"`)
	setCmd.Flags().String("custom-max-results", "", "Result cap used with --max-results custom (1-50)")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default filters",
		Args:  cobra.NoArgs,
		RunE:  runFiltersReset,
	}

	importCmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Load filters from a JSON or JSONC file",
		Long: `Reads {"filters": {...}} (the browser extension's export) or a bare
filters object. Comments and trailing commas are allowed.`,
		Args: cobra.ExactArgs(1),
		RunE: runFiltersImport,
	}

	exportCmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the saved filters to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE:  runFiltersExport,
	}

	filtersCmd.AddCommand(showCmd, setCmd, resetCmd, importCmd, exportCmd)
	return filtersCmd
}

func openStore(c *config.Config) (*settings.SQLiteStore, error) {
	return settings.OpenStore(c.Store.DatabasePath)
}

func runFiltersShow(cmd *cobra.Command, args []string) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := store.Load(profile)
	if err != nil {
		return err
	}
	return printFilters(cmd, f)
}

func printFilters(cmd *cobra.Command, f types.FilterConfig) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (profile %s)\n", settings.StatusText(f), profile)
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func runFiltersSet(cmd *cobra.Command, args []string) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := store.Load(profile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	strs := map[string]*string{
		"date-range":         &f.DateRange,
		"custom-days":        &f.CustomDays,
		"max-results":        &f.MaxResults,
		"custom-max-results": &f.CustomMaxResults,
	}
	for name, dst := range strs {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	bools := map[string]*bool{
		"open":     &f.ShowOpen,
		"draft":    &f.ShowDraft,
		"author":   &f.ShowAuthor,
		"assigned": &f.ShowAssigned,
		"others":   &f.ShowOthers,
	}
	for name, dst := range bools {
		if flags.Changed(name) {
			*dst, _ = flags.GetBool(name)
		}
	}

	f, err = settings.Normalize(f)
	if err != nil {
		return err
	}
	if err := store.Save(profile, f); err != nil {
		return err
	}
	logger.Info("filters updated", zap.String("profile", profile))
	return printFilters(cmd, f)
}

func runFiltersReset(cmd *cobra.Command, args []string) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Reset(profile); err != nil {
		return err
	}
	return printFilters(cmd, settings.DefaultFilters())
}

func runFiltersImport(cmd *cobra.Command, args []string) error {
	f, err := settings.ImportFile(args[0])
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(profile, f); err != nil {
		return err
	}
	return printFilters(cmd, f)
}

func runFiltersExport(cmd *cobra.Command, args []string) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := store.Load(profile)
	if err != nil {
		return err
	}
	if err := settings.ExportFile(args[0], f); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported filters to %s\n", args[0])
	return nil
}
