package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// whoamiCmd prints the username the other commands would use
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the username activity is fetched for",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func runWhoami(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd, true)
	defer cancel()

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	username, err := a.resolveUser(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), username)
	return nil
}
