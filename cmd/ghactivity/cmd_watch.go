package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"ghactivity/internal/render"
	"ghactivity/internal/settings"
	"ghactivity/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// watchCmd re-lists whenever a filters file changes
var watchCmd = &cobra.Command{
	Use:   "watch [filters-file]",
	Short: "Re-list activity whenever a filters file changes",
	Long: `Imports the filters file, saves it to the profile and lists activity.
Every later save of the file repeats this. Invalid edits are reported and
the previous filters stay in effect. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := commandContext(cmd, false)
	defer stop()

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := render.New(render.Format(outputFormat), render.Options{WebURL: cfg.GitHub.WebURL, Raw: rawMarkdown})
	if err != nil {
		return err
	}

	userCtx, cancel := withOpTimeout(ctx)
	username, err := a.resolveUser(userCtx)
	cancel()
	if err != nil {
		return err
	}

	refresh := func(ctx context.Context, path string) {
		if err := refreshFromFile(ctx, cmd, a, r, username, path); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			logger.Warn("refresh failed", zap.String("file", path), zap.Error(err))
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
	}

	fw, err := watch.NewFileWatcher(args[0], 0, refresh)
	if err != nil {
		return err
	}
	defer fw.Stop()

	if _, err := os.Stat(fw.Path()); err == nil {
		refresh(ctx, fw.Path())
	} else {
		fmt.Fprintf(cmd.ErrOrStderr(), "waiting for %s to be created\n", fw.Path())
	}

	if err := fw.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

func refreshFromFile(ctx context.Context, cmd *cobra.Command, a *app, r render.Renderer, username, path string) error {
	f, err := settings.ImportFile(path)
	if err != nil {
		return err
	}
	if err := a.store.Save(profile, f); err != nil {
		return err
	}

	runCtx, cancel := withOpTimeout(ctx)
	defer cancel()
	_, err = a.runAndRender(runCtx, cmd.OutOrStdout(), username, &f, r)
	return err
}

func init() {
	watchCmd.Flags().StringVarP(&outputFormat, "format", "f", string(render.FormatText), "Output format: text, markdown, json")
	watchCmd.Flags().BoolVar(&rawMarkdown, "raw", false, "With --format markdown, print markdown source")
}
