package main

import (
	"fmt"
	"os"
	"strconv"

	"c2_console/internal/bootstrap"

	"github.com/spf13/cobra"
)

func newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List working orders",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, args []string) error {
			if err := app.RequireStrategy(); err != nil {
				return err
			}
			working, err := app.Session.Orders(cmd.Context())
			if err != nil {
				return err
			}
			renderOrders(os.Stdout, working)
			return nil
		}),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "cancel <signal-id>",
		Short: "Cancel a working order",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, args []string) error {
			if err := app.RequireStrategy(); err != nil {
				return err
			}
			signalID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || signalID <= 0 {
				return fmt.Errorf("invalid signal ID %q", args[0])
			}

			result, err := app.Session.Cancel(cmd.Context(), signalID)
			if err != nil {
				return err
			}
			if result.NoOp {
				fmt.Printf("Signal %d already reached a terminal state; nothing to cancel.\n", signalID)
			} else {
				fmt.Printf("Signal %d cancelled.\n", signalID)
			}
			return nil
		}),
	})

	return cmd
}
