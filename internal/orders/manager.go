// Package orders tracks submitted signals against the platform's working
// order set and exposes cancel and cancel-replace operations.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"c2_console/internal/core"
	"c2_console/internal/signal"
	apperrors "c2_console/pkg/errors"
	pkghttp "c2_console/pkg/http"
	"c2_console/pkg/telemetry"

	"golang.org/x/time/rate"
)

// SubmissionError is a remote rejection or transport failure during signal
// submission. The platform's reason is carried verbatim. Submission is never
// retried automatically; retry is an explicit operator action.
type SubmissionError struct {
	Ref    string
	Reason string
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("submission failed (ref %s): %s", e.Ref, e.Reason)
	}
	return fmt.Sprintf("submission failed (ref %s): %v", e.Ref, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Is reports every submission failure as ErrNotSubmitted, so callers can
// check the order-never-entered-working guarantee with errors.Is.
func (e *SubmissionError) Is(target error) bool {
	return target == apperrors.ErrNotSubmitted
}

// SubmitResult reports what a submission created.
type SubmitResult struct {
	Receipt  core.SignalReceipt
	Children []core.SignalReceipt
}

// Manager owns the local view of working orders for one strategy. An order
// is pending-submit only for the duration of the network call: it enters
// the working set when the platform confirms it and on any failure the
// caller is told submission did not occur.
type Manager struct {
	gateway             core.SignalGateway
	orderSource         core.AccountSource
	strategyID          int64
	limiter             *rate.Limiter
	assumeAtomicReplace bool
	logger              core.ILogger

	mu       sync.RWMutex
	working  map[int64]core.WorkingOrder
	terminal map[int64]core.OrderStatus
}

// Options configures the manager.
type Options struct {
	SubmitRatePerMin    int
	AssumeAtomicReplace bool
}

// NewManager creates an order lifecycle manager.
func NewManager(gateway core.SignalGateway, orderSource core.AccountSource, strategyID int64, opts Options, logger core.ILogger) *Manager {
	perMin := opts.SubmitRatePerMin
	if perMin <= 0 {
		perMin = 30
	}
	return &Manager{
		gateway:             gateway,
		orderSource:         orderSource,
		strategyID:          strategyID,
		limiter:             rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), perMin),
		assumeAtomicReplace: opts.AssumeAtomicReplace,
		logger:              logger.WithField("component", "order_manager"),
		working:             make(map[int64]core.WorkingOrder),
		terminal:            make(map[int64]core.OrderStatus),
	}
}

// IsWorking reports whether the signal ID is in the local working set. It
// satisfies signal.WorkingSetView for cancel-replace validation.
func (m *Manager) IsWorking(signalID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.working[signalID]
	return ok
}

var _ signal.WorkingSetView = (*Manager)(nil)

// WorkingOrders returns a snapshot of the local working set.
func (m *Manager) WorkingOrders() []core.WorkingOrder {
	m.mu.RLock()
	defer m.mu.RUnlock()
	orders := make([]core.WorkingOrder, 0, len(m.working))
	for _, o := range m.working {
		orders = append(orders, o)
	}
	return orders
}

// Submit sends the staged signals: the primary first, then the bracket
// children, each linked with the primary's platform-assigned ID.
func (m *Manager) Submit(ctx context.Context, staged *signal.StagedSignals) (*SubmitResult, error) {
	receipt, err := m.submitOne(ctx, staged.Primary)
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{Receipt: *receipt}
	m.track(staged.Primary, receipt.SignalID)

	for _, child := range staged.Linked(receipt.SignalID) {
		childReceipt, err := m.submitOne(ctx, child)
		if err != nil {
			// The primary is live; surface the partial state instead of
			// pretending the whole bracket failed.
			return result, fmt.Errorf("primary signal %d accepted but bracket leg failed: %w", receipt.SignalID, err)
		}
		result.Children = append(result.Children, *childReceipt)
		m.track(child, childReceipt.SignalID)
	}

	return result, nil
}

func (m *Manager) submitOne(ctx context.Context, sig core.Signal) (*core.SignalReceipt, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRateLimitExceeded, err)
	}

	receipt, err := m.gateway.SubmitSignal(ctx, sig)
	if err != nil {
		return nil, &SubmissionError{Ref: sig.Ref, Reason: platformReason(err), Err: err}
	}
	return receipt, nil
}

// track enters a confirmed order into the working set.
func (m *Manager) track(sig core.Signal, signalID int64) {
	order := core.WorkingOrder{
		SignalID:    signalID,
		Instrument:  sig.Instrument,
		Action:      sig.Action,
		Quantity:    sig.Quantity,
		OrderType:   sig.OrderType,
		LimitPrice:  sig.LimitPrice,
		StopPrice:   sig.StopPrice,
		TIF:         sig.TIF,
		Status:      core.StatusWorking,
		SubmittedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.working[signalID] = order
	delete(m.terminal, signalID)
	count := len(m.working)
	m.mu.Unlock()

	telemetry.GetGlobalMetrics().SetWorkingOrders(strconv.FormatInt(m.strategyID, 10), int64(count))
}

// CancelResult distinguishes a real cancel from an idempotent no-op.
type CancelResult struct {
	Cancelled bool
	// NoOp is set when the order was already terminal.
	NoOp bool
}

// Cancel cancels a working order. Cancelling an order already in a terminal
// state is a no-op success, not an error. An ID this process has never
// seen is resolved against the platform first: still on the working list
// means a real cancel, absent means it already reached a terminal state
// (typically in an earlier run).
func (m *Manager) Cancel(ctx context.Context, signalID int64) (*CancelResult, error) {
	m.mu.RLock()
	_, isWorking := m.working[signalID]
	status, isTerminal := m.terminal[signalID]
	m.mu.RUnlock()

	if isTerminal {
		m.logger.Info("Cancel is a no-op, order already terminal", "signal_id", signalID, "status", status)
		return &CancelResult{NoOp: true}, nil
	}

	if !isWorking {
		if _, err := m.Refresh(ctx); err != nil {
			return nil, err
		}
		m.mu.RLock()
		_, isWorking = m.working[signalID]
		m.mu.RUnlock()

		if !isWorking {
			m.logger.Info("Cancel is a no-op, order absent from the platform's working list", "signal_id", signalID)
			return &CancelResult{NoOp: true}, nil
		}
	}

	if err := m.gateway.CancelSignal(ctx, signalID); err != nil {
		return nil, fmt.Errorf("cancel signal %d: %w", signalID, err)
	}

	m.markTerminal(signalID, core.StatusCancelled)
	return &CancelResult{Cancelled: true}, nil
}

// Replace retires the order identified by the staged primary's
// CancelReplaceID and submits the replacement. By default it runs the
// compensating sequence: cancel, confirm against the platform, then submit,
// so there is never a window with two live orders for one intent. With
// AssumeAtomicReplace the platform's single-request replace is used instead.
func (m *Manager) Replace(ctx context.Context, staged *signal.StagedSignals) (*SubmitResult, error) {
	targetID := staged.Primary.CancelReplaceID
	if targetID == 0 {
		return nil, fmt.Errorf("%w: replacement signal has no cancel-replace target", apperrors.ErrStaleTarget)
	}
	if !m.IsWorking(targetID) {
		return nil, fmt.Errorf("%w: signal %d is not working", apperrors.ErrStaleTarget, targetID)
	}

	if m.assumeAtomicReplace {
		return m.Submit(ctx, staged)
	}

	if _, err := m.Cancel(ctx, targetID); err != nil {
		return nil, fmt.Errorf("replace: cancel leg failed, replacement not submitted: %w", err)
	}

	if err := m.confirmCancelled(ctx, targetID); err != nil {
		return nil, fmt.Errorf("replace: %w", err)
	}

	// The replacement goes out as a fresh order; the combined-request field
	// stays off the wire in the compensating path.
	replacement := *staged
	replacement.Primary.CancelReplaceID = 0
	return m.Submit(ctx, &replacement)
}

// confirmCancelled re-reads the platform's working order list and verifies
// the target is gone before the replacement may be submitted.
func (m *Manager) confirmCancelled(ctx context.Context, signalID int64) error {
	orders, err := m.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("could not confirm cancel of signal %d: %w", signalID, err)
	}
	for _, o := range orders {
		if o.SignalID == signalID && !o.Status.IsTerminal() {
			return fmt.Errorf("signal %d still working after cancel, replacement not submitted", signalID)
		}
	}
	return nil
}

// Refresh re-synchronizes the local working set against the platform's
// authoritative list. Orders that disappeared from the platform list are
// marked terminal locally.
func (m *Manager) Refresh(ctx context.Context) ([]core.WorkingOrder, error) {
	orders, err := m.orderSource.GetWorkingOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh working orders: %w", err)
	}

	m.mu.Lock()
	fresh := make(map[int64]core.WorkingOrder, len(orders))
	for _, o := range orders {
		if o.Status.IsTerminal() {
			m.terminal[o.SignalID] = o.Status
			continue
		}
		fresh[o.SignalID] = o
	}
	for id := range m.working {
		if _, still := fresh[id]; !still {
			if _, known := m.terminal[id]; !known {
				m.terminal[id] = core.StatusFilled
			}
		}
	}
	m.working = fresh
	count := len(m.working)
	m.mu.Unlock()

	telemetry.GetGlobalMetrics().SetWorkingOrders(strconv.FormatInt(m.strategyID, 10), int64(count))
	m.logger.Debug("Working orders refreshed", "count", count)

	return orders, nil
}

func (m *Manager) markTerminal(signalID int64, status core.OrderStatus) {
	m.mu.Lock()
	delete(m.working, signalID)
	m.terminal[signalID] = status
	count := len(m.working)
	m.mu.Unlock()

	telemetry.GetGlobalMetrics().SetWorkingOrders(strconv.FormatInt(m.strategyID, 10), int64(count))
}

// platformReason extracts the platform's rejection text when the error is
// an API error with a response body.
func platformReason(err error) string {
	var apiErr *pkghttp.APIError
	if errors.As(err, &apiErr) {
		return string(apiErr.Body)
	}
	return ""
}
