// Package c2 implements the Collective2 platform gateway.
package c2

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"c2_console/internal/core"
	pkghttp "c2_console/pkg/http"
	"c2_console/pkg/telemetry"
)

const (
	pathNewOrder      = "/Strategies/NewStrategyOrder"
	pathCancelSignal  = "/Strategies/CancelSignal"
	pathWorkingOrders = "/Strategies/GetStrategyWorkingOrders"
	pathOpenPositions = "/Strategies/GetStrategyOpenPositions"
	pathDetails       = "/Strategies/GetStrategyDetails"
	pathProfile       = "/General/GetProfile"
	pathManagerPlans  = "/General/GetManagerPlanSubscriptions"
)

// Gateway talks to the Collective2 REST API for a single strategy. It
// implements core.SignalGateway and core.AccountSource.
type Gateway struct {
	http       *pkghttp.Client
	strategyID int64
	logger     core.ILogger
}

// NewGateway creates a gateway for the given strategy using bearer-token
// authentication.
func NewGateway(baseURL, apiKey string, strategyID int64, timeout time.Duration, logger core.ILogger) *Gateway {
	return &Gateway{
		http:       pkghttp.NewClient(baseURL, timeout, &pkghttp.BearerSigner{Token: apiKey}),
		strategyID: strategyID,
		logger:     logger.WithField("component", "c2_gateway").WithField("strategy_id", strategyID),
	}
}

// StrategyID returns the strategy this gateway submits for.
func (g *Gateway) StrategyID() int64 {
	return g.strategyID
}

// SubmitSignal posts a new strategy order. The transport never retries the
// POST; a timeout here leaves the signal in an unknown state and the caller
// must reconcile against the working order list.
func (g *Gateway) SubmitSignal(ctx context.Context, sig core.Signal) (*core.SignalReceipt, error) {
	req := newOrderRequest{Order: buildOrder(g.strategyID, sig)}

	g.logger.Info("Submitting signal",
		"ref", sig.Ref,
		"symbol", sig.Instrument.Description(),
		"action", sig.Action,
		"quantity", sig.Quantity,
		"order_type", sig.OrderType)

	body, err := g.http.Post(ctx, pathNewOrder, req)
	if err != nil {
		telemetry.GetGlobalMetrics().IncSignalsRejected()
		return nil, fmt.Errorf("submit signal: %w", err)
	}

	var resp envelope[wireOrderResult]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("submit signal: malformed response: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("submit signal: empty results in response")
	}

	r := resp.Results[0]
	receipt := &core.SignalReceipt{
		SignalID:             r.SignalID,
		StopLossSignalID:     r.StopLossSignalID,
		ProfitTargetSignalID: r.ProfitTargetSignalID,
		OCAGroupID:           r.ExitSignalsOCAGroupID,
	}

	telemetry.GetGlobalMetrics().IncSignalsSubmitted()
	g.logger.Info("Signal accepted",
		"ref", sig.Ref,
		"signal_id", receipt.SignalID,
		"stop_loss_signal_id", receipt.StopLossSignalID,
		"profit_target_signal_id", receipt.ProfitTargetSignalID,
		"oca_group_id", receipt.OCAGroupID)

	return receipt, nil
}

// CancelSignal cancels a working order by its platform signal ID.
func (g *Gateway) CancelSignal(ctx context.Context, signalID int64) error {
	req := cancelRequest{StrategyID: g.strategyID, SignalID: signalID}

	if _, err := g.http.Post(ctx, pathCancelSignal, req); err != nil {
		return fmt.Errorf("cancel signal %d: %w", signalID, err)
	}

	telemetry.GetGlobalMetrics().IncCancels()
	g.logger.Info("Signal cancelled", "signal_id", signalID)
	return nil
}

// GetOpenPositions fetches the strategy's open positions, optionally
// filtered by platform security type (CS, OPT, FUT, FOR).
func (g *Gateway) GetOpenPositions(ctx context.Context, securityType string) ([]core.Position, error) {
	params := map[string]string{
		"StrategyIds": strconv.FormatInt(g.strategyID, 10),
	}
	if securityType != "" {
		params["SecurityType"] = securityType
	}

	body, err := g.http.Get(ctx, pathOpenPositions, params)
	if err != nil {
		return nil, fmt.Errorf("get open positions: %w", err)
	}

	var resp envelope[wirePosition]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("get open positions: malformed response: %w", err)
	}

	positions := make([]core.Position, 0, len(resp.Results))
	for _, w := range resp.Results {
		pos, err := positionFromWire(w)
		if err != nil {
			// A single malformed position must not hide the rest of the book.
			g.logger.Warn("Skipping malformed position", "symbol", w.C2Symbol.FullSymbol, "error", err)
			continue
		}
		positions = append(positions, pos)
	}

	return positions, nil
}

// GetAccountSnapshot fetches account-level figures from the strategy
// details endpoint.
func (g *Gateway) GetAccountSnapshot(ctx context.Context) (*core.AccountSnapshot, error) {
	params := map[string]string{"StrategyId": strconv.FormatInt(g.strategyID, 10)}

	body, err := g.http.Get(ctx, pathDetails, params)
	if err != nil {
		return nil, fmt.Errorf("get strategy details: %w", err)
	}

	var resp envelope[wireStrategyDetails]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("get strategy details: malformed response: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("get strategy details: empty results")
	}

	snapshot := accountFromWire(resp.Results[0])
	return &snapshot, nil
}

// GetWorkingOrders fetches the strategy's live (unfilled, uncancelled)
// orders.
func (g *Gateway) GetWorkingOrders(ctx context.Context) ([]core.WorkingOrder, error) {
	params := map[string]string{"StrategyId": strconv.FormatInt(g.strategyID, 10)}

	body, err := g.http.Get(ctx, pathWorkingOrders, params)
	if err != nil {
		return nil, fmt.Errorf("get working orders: %w", err)
	}

	var resp envelope[wireWorkingOrder]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("get working orders: malformed response: %w", err)
	}

	orders := make([]core.WorkingOrder, 0, len(resp.Results))
	for _, w := range resp.Results {
		order, err := workingOrderFromWire(w)
		if err != nil {
			g.logger.Warn("Skipping malformed working order", "signal_id", w.SignalID, "error", err)
			continue
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// GetProfile fetches the authenticated account's profile.
func (g *Gateway) GetProfile(ctx context.Context) (*Profile, error) {
	body, err := g.http.Get(ctx, pathProfile, nil)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	var resp envelope[Profile]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("get profile: malformed response: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("get profile: empty results")
	}
	return &resp.Results[0], nil
}

// GetManagedStrategies lists the strategies the given person manages.
func (g *Gateway) GetManagedStrategies(ctx context.Context, personID int64) ([]ManagedStrategy, error) {
	params := map[string]string{"PersonId": strconv.FormatInt(personID, 10)}

	body, err := g.http.Get(ctx, pathManagerPlans, params)
	if err != nil {
		return nil, fmt.Errorf("get managed strategies: %w", err)
	}

	var resp envelope[ManagedStrategy]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("get managed strategies: malformed response: %w", err)
	}
	return resp.Results, nil
}
