package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit the timer settings",
	Long: `Show the effective configuration and interactively change the default
session duration, the first day of the week, or notifications. Everything
else lives in the config file (see "pomo config path").`,
	Args: cobra.NoArgs,
	// The config commands must work without opening the database.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, redacted(app.config))
		}
		return runConfigEditor(bufio.NewReader(cmd.InOrStdin()), out, app.config)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolvedConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
}

func resolvedConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

// redacted returns a copy of cfg that is safe to print.
func redacted(cfg *config.Config) config.Config {
	c := *cfg
	if c.Calendar.Password != "" {
		c.Calendar.Password = "********"
	}
	return c
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func notificationStatus(n config.NotificationConfig) string {
	if !n.Enabled {
		return "off"
	}
	if n.Sound {
		return "on (with sound)"
	}
	return "on"
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Current configuration:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "    Default duration:  %s\n", domain.FormatDuration(cfg.Timer.DefaultDuration))
	fmt.Fprintf(w, "    Discard below:     %s\n", cfg.Timer.DiscardBelow)
	fmt.Fprintf(w, "    Week starts on:    %s\n", cfg.WeekStart())
	fmt.Fprintf(w, "    Notifications:     %s\n", notificationStatus(cfg.Notifications))
	fmt.Fprintf(w, "    Calendar sync:     %s\n", onOff(cfg.Calendar.Enabled))
	if cfg.Calendar.Enabled {
		fmt.Fprintf(w, "      %s (%s)\n", cfg.Calendar.URL, cfg.Calendar.CalendarName)
	}
	fmt.Fprintf(w, "    Metrics export:    %s\n", onOff(cfg.Telemetry.Enabled))
	fmt.Fprintf(w, "    Stats feed:        %s\n", cfg.Web.Addr)
	fmt.Fprintf(w, "    Data directory:    %s\n", cfg.Storage.DataDir)
	fmt.Fprintln(w)
}

func runConfigEditor(reader *bufio.Reader, w io.Writer, cfg *config.Config) error {
	printConfig(w, cfg)

	fmt.Fprintln(w, "  What would you like to change?")
	fmt.Fprintln(w, "    [d] Default duration")
	fmt.Fprintln(w, "    [w] First day of the week")
	fmt.Fprintln(w, "    [n] Notifications")
	fmt.Fprintln(w, "    [q] Quit without saving")
	fmt.Fprint(w, "  Choose: ")

	choice, _ := reader.ReadString('\n')
	choice = strings.TrimSpace(strings.ToLower(choice))

	switch choice {
	case "d":
		return editDefaultDuration(reader, w, cfg)
	case "w":
		return editWeekStart(reader, w, cfg)
	case "n":
		return editNotifications(reader, w, cfg)
	case "q", "":
		fmt.Fprintln(w, "  No changes made.")
		return nil
	default:
		return fmt.Errorf("invalid choice %q", choice)
	}
}

func saveConfig(cfg *config.Config) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.SaveTo(path, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func editDefaultDuration(reader *bufio.Reader, w io.Writer, cfg *config.Config) error {
	current := cfg.Timer.DefaultDuration
	fmt.Fprintf(w, "\n  Default duration [%s]: ", domain.FormatDuration(current))
	input, _ := reader.ReadString('\n')

	d, err := domain.ParseDurationOr(input, current)
	if err != nil {
		return err
	}
	if d == current {
		fmt.Fprintln(w, "  No changes made.")
		return nil
	}

	cfg.Timer.DefaultDuration = d
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n  Saved: sessions default to %s\n", domain.FormatDuration(d))
	return nil
}

func editWeekStart(reader *bufio.Reader, w io.Writer, cfg *config.Config) error {
	fmt.Fprintf(w, "\n  First day of the week [%s]: ", cfg.WeekStart())
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		fmt.Fprintln(w, "  No changes made.")
		return nil
	}

	day, err := domain.ParseWeekday(input)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}

	cfg.Stats.WeekStart = strings.ToLower(day.String())
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n  Saved: weeks start on %s\n", day)
	return nil
}

func editNotifications(reader *bufio.Reader, w io.Writer, cfg *config.Config) error {
	fmt.Fprintf(w, "\n  Current notifications: %s\n\n", notificationStatus(cfg.Notifications))
	fmt.Fprintln(w, "    [1] Off")
	fmt.Fprintln(w, "    [2] On (visual only)")
	fmt.Fprintln(w, "    [3] On (with sound)")
	fmt.Fprint(w, "  Choose: ")

	choice, _ := reader.ReadString('\n')
	choice = strings.TrimSpace(choice)

	switch choice {
	case "1":
		cfg.Notifications.Enabled = false
		cfg.Notifications.Sound = false
	case "2":
		cfg.Notifications.Enabled = true
		cfg.Notifications.Sound = false
	case "3":
		cfg.Notifications.Enabled = true
		cfg.Notifications.Sound = true
	default:
		fmt.Fprintln(w, "  No changes made.")
		return nil
	}

	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n  Saved: notifications %s\n", notificationStatus(cfg.Notifications))
	return nil
}
