package main

import (
	"context"
	"os"
	"time"

	"c2_console/internal/bootstrap"
	"c2_console/internal/core"
	"c2_console/internal/session"

	"github.com/spf13/cobra"
)

// monitorRunner adapts the session monitor loop to the application's
// runner lifecycle so Ctrl-C shuts it down cleanly.
type monitorRunner struct {
	session  *session.Session
	interval time.Duration
	render   session.RenderFunc
}

func (r *monitorRunner) Run(ctx context.Context) error {
	return r.session.Monitor(ctx, r.interval, r.render)
}

func newMonitorCmd() *cobra.Command {
	var intervalSec int

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Continuously revalue positions until interrupted",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, args []string) error {
			if err := app.RequireStrategy(); err != nil {
				return err
			}
			interval := app.Cfg.MonitorInterval()
			if intervalSec > 0 {
				interval = time.Duration(intervalSec) * time.Second
			}

			runner := &monitorRunner{
				session:  app.Session,
				interval: interval,
				render: func(valued []core.ValuedPosition, summary *core.PortfolioSummary) {
					renderCycleHeader(os.Stdout, app.Session.StrategyID(), time.Now())
					renderPositions(os.Stdout, valued, summary)
				},
			}
			return app.Run(runner)
		}),
	}

	cmd.Flags().IntVarP(&intervalSec, "interval", "i", 0, "Refresh interval in seconds (overrides config)")
	return cmd
}
