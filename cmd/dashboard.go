package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/adapters/calendar"
	"github.com/xvierd/pomo-cli/internal/adapters/web"
	"golang.org/x/sync/errgroup"
)

var dashboardAddr string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Serve stats as JSON over HTTP",
	Long: `Serve the stats data feed on web.addr until interrupted.

With calendar sync enabled, unsynced sessions are pushed to the calendar
every calendar.sync_interval while the feed is running.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := dashboardAddr
		if addr == "" {
			addr = app.config.Web.Addr
		}

		ctx, cancel := setupSignalHandler()
		defer cancel()

		server := web.NewServer(addr, app.stats, app.colors, app.logger)
		fmt.Fprintf(cmd.OutOrStdout(), "📊 Serving stats on http://%s/api/stats (Ctrl+C to stop)\n", addr)

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return server.Start(ctx)
		})
		if app.syncer != nil {
			g.Go(func() error {
				runPeriodicSync(ctx, app.syncer, app.config.Calendar.SyncInterval)
				return nil
			})
		}
		return g.Wait()
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardAddr, "addr", "", "Listen address (default: web.addr from config)")
}

// runPeriodicSync runs SyncAll right away and then every interval until
// ctx is done.
func runPeriodicSync(ctx context.Context, syncer *calendar.Syncer, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := syncer.SyncAll(ctx); err != nil && ctx.Err() == nil {
			app.logger.Warn("periodic calendar sync failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
