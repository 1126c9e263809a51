package main

import (
	"fmt"
	"os"

	"c2_console/internal/bootstrap"

	"github.com/spf13/cobra"
)

var configFile string

func main() {
	root := &cobra.Command{
		Use:           "c2_console",
		Short:         "Operator console for a Collective2 trading strategy",
		Long:          "c2_console values open positions, submits and manages trade signals,\nand monitors a Collective2 strategy from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&configFile, "config", "c", "configs/config.yaml", "Path to configuration file")

	root.AddCommand(
		newPositionsCmd(),
		newMonitorCmd(),
		newSignalCmd(),
		newOrdersCmd(),
		newDiscoverCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// withApp wires the application for one command invocation and tears it
// down afterwards.
func withApp(run func(cmd *cobra.Command, app *bootstrap.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap.NewApp(configFile)
		if err != nil {
			return err
		}
		defer app.Shutdown()
		return run(cmd, app, args)
	}
}
