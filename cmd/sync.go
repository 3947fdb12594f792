package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push unsynced sessions to the CalDAV calendar",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.syncer == nil {
			return errors.New("calendar sync is not enabled (set calendar.enabled and calendar.url in the config)")
		}

		ctx, cancel := setupSignalHandler()
		defer cancel()

		result, err := app.syncer.SyncAll(ctx)
		if err != nil {
			return fmt.Errorf("calendar sync failed: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]int{
				"pushed":  result.Pushed,
				"skipped": result.Skipped,
				"failed":  result.Failed,
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "📅 Synced: %d pushed, %d already synced, %d failed\n", result.Pushed, result.Skipped, result.Failed)
		if result.Failed > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "   Failed sessions are retried on the next sync.")
		}
		return nil
	},
}
