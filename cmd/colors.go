package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/adapters/web"
	"github.com/xvierd/pomo-cli/internal/domain"
)

var colorsCmd = &cobra.Command{
	Use:   "colors",
	Short: "List task colors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		colors := app.colors.All(commandContext(cmd))
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), web.NewTaskColorViews(colors))
		}
		if len(colors) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No task colors assigned yet.")
			return nil
		}
		for _, tc := range colors {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s  %s\n", swatch(tc.Color), tc.Color, tc.TaskName)
		}
		return nil
	},
}

var colorsSetCmd = &cobra.Command{
	Use:   "set <task> <#rrggbb>",
	Short: "Override the color of a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tc, err := app.colors.SetColor(commandContext(cmd), args[0], args[1])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), web.NewTaskColorViews([]domain.TaskColor{tc})[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🎨 %s is now %s %s\n", tc.TaskName, swatch(tc.Color), tc.Color)
		return nil
	},
}

func init() {
	colorsCmd.AddCommand(colorsSetCmd)
}

// swatch renders a small block in color.
func swatch(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("██")
}
