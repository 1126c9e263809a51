// Package session orchestrates the trading components for one strategy.
package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"c2_console/internal/core"
	"c2_console/internal/orders"
	"c2_console/internal/signal"
	"c2_console/pkg/telemetry"

	"golang.org/x/sync/errgroup"
)

// Session binds the account source, valuator, builder and order manager to
// a single strategy for the duration of a run. All state is explicit here;
// nothing hangs off process-wide globals, so multiple sessions could run in
// one process.
type Session struct {
	account      core.AccountSource
	valuator     core.IPositionValuator
	builder      *signal.Builder
	manager      *orders.Manager
	strategyID   int64
	securityType string
	logger       core.ILogger
}

// New creates a session over the given components.
func New(account core.AccountSource, valuator core.IPositionValuator, builder *signal.Builder, manager *orders.Manager, strategyID int64, securityType string, logger core.ILogger) *Session {
	return &Session{
		account:      account,
		valuator:     valuator,
		builder:      builder,
		manager:      manager,
		strategyID:   strategyID,
		securityType: securityType,
		logger:       logger.WithField("component", "session").WithField("strategy_id", strategyID),
	}
}

// StrategyID returns the strategy this session operates on.
func (s *Session) StrategyID() int64 { return s.strategyID }

// Snapshot fetches positions and the account snapshot concurrently, then
// runs a valuation pass. The session's configured security type filter
// applies.
func (s *Session) Snapshot(ctx context.Context) ([]core.ValuedPosition, *core.PortfolioSummary, error) {
	return s.SnapshotFor(ctx, s.securityType)
}

// SnapshotFor is Snapshot with an explicit security type filter. Empty
// means all types.
func (s *Session) SnapshotFor(ctx context.Context, securityType string) ([]core.ValuedPosition, *core.PortfolioSummary, error) {
	var positions []core.Position
	var account *core.AccountSnapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		positions, err = s.account.GetOpenPositions(gctx, securityType)
		return err
	})
	g.Go(func() error {
		var err error
		account, err = s.account.GetAccountSnapshot(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("snapshot: %w", err)
	}

	valued, summary, err := s.valuator.Valuate(ctx, positions, account)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot: %w", err)
	}

	pl, _ := summary.TotalUnrealizedPL.Float64()
	telemetry.GetGlobalMetrics().SetUnrealizedPnL(strconv.FormatInt(s.strategyID, 10), pl)

	return valued, summary, nil
}

// RenderFunc consumes one monitor cycle's output.
type RenderFunc func(valued []core.ValuedPosition, summary *core.PortfolioSummary)

// Monitor runs valuation cycles at the given interval until the context is
// cancelled. The first cycle runs immediately. A failed cycle is logged and
// the loop keeps going; cancellation is the only clean exit.
func (s *Session) Monitor(ctx context.Context, interval time.Duration, render RenderFunc) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Monitor started", "interval", interval.String())

	for {
		valued, summary, err := s.Snapshot(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Error("Monitor cycle failed", "error", err)
		} else {
			render(valued, summary)
		}

		select {
		case <-ctx.Done():
			s.logger.Info("Monitor stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Submit validates the intent, builds the signals and hands them to the
// order manager. A cancel-replace intent routes through the replace path.
func (s *Session) Submit(ctx context.Context, intent core.SignalIntent) (*orders.SubmitResult, error) {
	// The cancel-replace target is usually an order placed by an earlier
	// run, so the local working set starts empty. Sync it from the
	// platform before validating against it.
	if intent.CancelReplaceID != 0 {
		if _, err := s.manager.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	staged, err := s.builder.Build(intent)
	if err != nil {
		return nil, err
	}

	if intent.CancelReplaceID != 0 {
		return s.manager.Replace(ctx, staged)
	}
	return s.manager.Submit(ctx, staged)
}

// Orders re-synchronizes and returns the platform's working order list.
func (s *Session) Orders(ctx context.Context) ([]core.WorkingOrder, error) {
	return s.manager.Refresh(ctx)
}

// Cancel cancels the given signal. The manager resolves IDs it has never
// seen against the platform, so a cancel typed against an order that
// filled in an earlier run comes back as a no-op instead of an error.
func (s *Session) Cancel(ctx context.Context, signalID int64) (*orders.CancelResult, error) {
	return s.manager.Cancel(ctx, signalID)
}
