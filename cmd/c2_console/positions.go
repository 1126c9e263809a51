package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"c2_console/internal/bootstrap"

	"github.com/spf13/cobra"
)

func newPositionsCmd() *cobra.Command {
	var securityType string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "positions",
		Short: "Show open positions with live valuation",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, args []string) error {
			if err := app.RequireStrategy(); err != nil {
				return err
			}

			filter := app.Cfg.Monitor.SecurityType
			if cmd.Flags().Changed("security-type") {
				filter = strings.ToUpper(strings.TrimSpace(securityType))
			}

			valued, summary, err := app.Session.SnapshotFor(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Positions interface{} `json:"positions"`
					Summary   interface{} `json:"summary"`
				}{valued, summary})
			}

			renderPositions(os.Stdout, valued, summary)
			return nil
		}),
	}

	cmd.Flags().StringVar(&securityType, "security-type", "", fmt.Sprintf("Filter by security type: %s (empty for all)", "CS, OPT, FUT, FOR"))
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON instead of a table")
	return cmd
}
