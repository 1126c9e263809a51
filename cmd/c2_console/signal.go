package main

import (
	"fmt"
	"os"

	"c2_console/internal/bootstrap"
	"c2_console/internal/core"
	"c2_console/pkg/cli"

	"github.com/spf13/cobra"
)

type signalFlags struct {
	limit        string
	stop         string
	stopLoss     string
	profitTarget string
	tif          string
	strike       string
	right        string
	expiry       string
	replace      int64
	parent       int64
}

func newSignalCmd() *cobra.Command {
	var flags signalFlags

	cmd := &cobra.Command{
		Use:   "signal <buy|sell> <symbol> <quantity>",
		Short: "Submit a trade signal",
		Long: `Submit a trade signal for the configured strategy.

The order type follows the prices given: --limit makes a limit order,
--stop makes a stop order, neither makes a market order. Adding
--stop-loss or --profit-target attaches exit orders after the entry is
accepted. Option contracts are selected with --strike, --right and
--expiry on the underlying symbol.`,
		Example: `  c2_console signal buy TSLA 5 --limit 250.00 --stop-loss 245.00 --profit-target 260.00
  c2_console signal sell NBIS 14 --strike 150 --right call --expiry 10/17/25
  c2_console signal buy ARM 5 --limit 185.00 --replace 78494555`,
		Args: cobra.ExactArgs(3),
		RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, args []string) error {
			if err := app.RequireStrategy(); err != nil {
				return err
			}
			intent, err := buildIntent(args, flags)
			if err != nil {
				return err
			}

			result, err := app.Session.Submit(cmd.Context(), intent)
			if err != nil {
				return err
			}
			renderSubmitResult(os.Stdout, result)
			return nil
		}),
	}

	cmd.Flags().StringVar(&flags.limit, "limit", "", "Limit price")
	cmd.Flags().StringVar(&flags.stop, "stop", "", "Stop trigger price")
	cmd.Flags().StringVar(&flags.stopLoss, "stop-loss", "", "Attach a stop-loss exit at this price")
	cmd.Flags().StringVar(&flags.profitTarget, "profit-target", "", "Attach a profit-target exit at this price")
	cmd.Flags().StringVar(&flags.tif, "tif", "day", "Time in force: day or gtc")
	cmd.Flags().StringVar(&flags.strike, "strike", "", "Option strike price")
	cmd.Flags().StringVar(&flags.right, "right", "", "Option right: call or put")
	cmd.Flags().StringVar(&flags.expiry, "expiry", "", "Option expiry date, e.g. 10/17/25")
	cmd.Flags().Int64Var(&flags.replace, "replace", 0, "Cancel this working signal ID and replace it")
	cmd.Flags().Int64Var(&flags.parent, "parent", 0, "Submit as a conditional child of this signal ID")

	return cmd
}

func buildIntent(args []string, flags signalFlags) (core.SignalIntent, error) {
	var intent core.SignalIntent

	action, err := cli.ParseAction(args[0])
	if err != nil {
		return intent, err
	}
	symbol, err := cli.ParseSymbol(args[1])
	if err != nil {
		return intent, err
	}
	quantity, err := cli.ParseQuantity(args[2])
	if err != nil {
		return intent, err
	}

	instrument, err := buildInstrument(symbol, flags)
	if err != nil {
		return intent, err
	}

	intent = core.SignalIntent{
		Action:          action,
		Instrument:      instrument,
		Quantity:        quantity,
		OrderType:       core.OrderMarket,
		TIF:             core.TIFDay,
		CancelReplaceID: flags.replace,
		ParentSignalID:  flags.parent,
	}

	if flags.tif != "" {
		switch flags.tif {
		case "day":
			intent.TIF = core.TIFDay
		case "gtc":
			intent.TIF = core.TIFGTC
		default:
			return intent, fmt.Errorf("invalid time in force %q: use day or gtc", flags.tif)
		}
	}

	if flags.limit != "" && flags.stop != "" {
		return intent, fmt.Errorf("--limit and --stop are mutually exclusive")
	}
	if flags.limit != "" {
		price, err := cli.ParsePrice(flags.limit)
		if err != nil {
			return intent, fmt.Errorf("invalid limit price: %w", err)
		}
		intent.OrderType = core.OrderLimit
		intent.LimitPrice = &price
	}
	if flags.stop != "" {
		price, err := cli.ParsePrice(flags.stop)
		if err != nil {
			return intent, fmt.Errorf("invalid stop price: %w", err)
		}
		intent.OrderType = core.OrderStop
		intent.StopPrice = &price
	}
	if flags.stopLoss != "" {
		price, err := cli.ParsePrice(flags.stopLoss)
		if err != nil {
			return intent, fmt.Errorf("invalid stop-loss price: %w", err)
		}
		intent.StopLoss = &price
	}
	if flags.profitTarget != "" {
		price, err := cli.ParsePrice(flags.profitTarget)
		if err != nil {
			return intent, fmt.Errorf("invalid profit-target price: %w", err)
		}
		intent.ProfitTarget = &price
	}

	return intent, nil
}

// buildInstrument returns an equity unless any option flag is present, in
// which case all three are required.
func buildInstrument(symbol string, flags signalFlags) (core.Instrument, error) {
	if flags.strike == "" && flags.right == "" && flags.expiry == "" {
		return core.NewEquity(symbol), nil
	}
	if flags.strike == "" || flags.right == "" || flags.expiry == "" {
		return core.Instrument{}, fmt.Errorf("option contracts need --strike, --right and --expiry together")
	}

	strike, err := cli.ParsePrice(flags.strike)
	if err != nil {
		return core.Instrument{}, fmt.Errorf("invalid strike: %w", err)
	}
	right, err := cli.ParseRight(flags.right)
	if err != nil {
		return core.Instrument{}, err
	}
	expiry, err := cli.ParseExpiry(flags.expiry)
	if err != nil {
		return core.Instrument{}, err
	}

	return core.NewOption(symbol, right, strike, expiry)
}
