package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"c2_console/internal/bootstrap"

	"github.com/spf13/cobra"
)

func newDiscoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Show the account profile and the strategies it manages",
		Long:  "Fetches the profile behind the configured API key and lists the\nstrategy IDs it manages, for filling in collective2.strategy_id.",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, args []string) error {
			profile, err := app.Gateway.GetProfile(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Profile: %s %s (person %d)\n\n", profile.FirstName, profile.LastName, profile.PersonID)

			strategies, err := app.Gateway.GetManagedStrategies(cmd.Context(), profile.PersonID)
			if err != nil {
				return err
			}
			if len(strategies) == 0 {
				fmt.Println("No managed strategies found for this profile.")
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "STRATEGY ID\tNAME")
			for _, s := range strategies {
				fmt.Fprintf(tw, "%d\t%s\n", s.StrategyID, s.StrategyName)
			}
			return tw.Flush()
		}),
	}
}
