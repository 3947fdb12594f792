// Package cmd provides the CLI commands for pomo.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/adapters/tui"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	dbPath     string
	jsonOutput bool
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pomo [task] [duration]",
	Short: "pomo - a Pomodoro timer with per-task statistics",
	Long: `pomo times focused work sessions and reports where your time went.

  pomo coding          start a 25 minute session for "coding"
  pomo coding 1h30m    start a 90 minute session
  pomo stats month     show this month's totals per task

Run "pomo" with no arguments in a terminal to pick a recent task.`,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: runRoot,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := execute(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// execute runs cmd and then releases services. Cobra skips
// PersistentPostRunE when RunE fails, so cleanup cannot rely on it alone.
func execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if cerr := cleanupServices(); err == nil {
		err = cerr
	}
	return err
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (default: ~/.pomo/sessions.db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.pomo/config.toml)")

	// Set version - cobra handles --version automatically
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("pomo\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(colorsCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mcpCmd)
}

// runRoot treats "pomo <task> [duration]" as "pomo start". Without
// arguments it offers recent tasks on a terminal and prints help otherwise.
func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return runSession(cmd, args)
	}
	if !tui.IsInteractive() {
		return cmd.Help()
	}

	recent, err := app.storage.Sessions().SearchTaskNames(commandContext(cmd), "")
	if err != nil {
		app.logger.Warn("failed to load recent tasks", "error", err)
	}
	picked := tui.RunTaskPicker(recent)
	if picked.Aborted {
		return nil
	}
	return runSession(cmd, []string{picked.TaskName})
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// commandContext returns the command's context, falling back to Background.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
