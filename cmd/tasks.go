package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks [query]",
	Short: "List task names, optionally fuzzy-filtered",
	Long:  "List every task name you have recorded, most recent first. A query filters them fuzzily, best match first.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var query string
		if len(args) > 0 {
			query = args[0]
		}

		names, err := app.storage.Sessions().SearchTaskNames(commandContext(cmd), query)
		if err != nil {
			return fmt.Errorf("failed to search tasks: %w", err)
		}

		if jsonOutput {
			if names == nil {
				names = []string{}
			}
			return printJSON(cmd.OutOrStdout(), names)
		}
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No matching tasks.")
			return nil
		}
		for _, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
		}
		return nil
	},
}
