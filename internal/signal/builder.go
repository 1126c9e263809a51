// Package signal validates trade intents and builds immutable signals.
package signal

import (
	"fmt"
	"time"

	"c2_console/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValidationError is a local, pre-network rejection of a trade intent. It
// never reaches the wire.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid signal: %s: %s", e.Field, e.Message)
}

// WorkingSetView exposes the order manager's view of which signal IDs are
// currently live. The builder consults it so a cancel-replace against a
// stale target dies before any network call.
type WorkingSetView interface {
	IsWorking(signalID int64) bool
}

// Builder validates SignalIntents and produces staged signals. All rules
// run before any network activity.
type Builder struct {
	workingSet WorkingSetView
	logger     core.ILogger
	now        func() time.Time
}

// NewBuilder creates a signal builder over the given working-set view.
func NewBuilder(workingSet WorkingSetView, logger core.ILogger) *Builder {
	return &Builder{
		workingSet: workingSet,
		logger:     logger.WithField("component", "signal_builder"),
		now:        time.Now,
	}
}

// Build validates the intent and returns the staged signals: a primary plus
// bracket children when stop-loss or profit-target legs are present. The
// children are not yet linked to the primary; linkage happens after the
// platform assigns the primary's signal ID.
func (b *Builder) Build(intent core.SignalIntent) (*StagedSignals, error) {
	if err := b.validate(intent); err != nil {
		return nil, err
	}

	primary := core.Signal{
		Ref:             uuid.NewString(),
		Action:          intent.Action,
		Instrument:      intent.Instrument,
		Quantity:        intent.Quantity,
		OrderType:       intent.OrderType,
		LimitPrice:      intent.LimitPrice,
		StopPrice:       intent.StopPrice,
		TIF:             intent.TIF,
		CancelReplaceID: intent.CancelReplaceID,
		ParentSignalID:  intent.ParentSignalID,
	}

	staged := &StagedSignals{Primary: primary}

	// Bracket legs become explicit child signals on the opposite side,
	// good-till-cancel so they outlive the entry day.
	exitAction := core.ActionSell
	if intent.Action == core.ActionSell {
		exitAction = core.ActionBuy
	}

	if intent.StopLoss != nil {
		staged.StopLossChild = &core.Signal{
			Ref:        uuid.NewString(),
			Action:     exitAction,
			Instrument: intent.Instrument,
			Quantity:   intent.Quantity,
			OrderType:  core.OrderStop,
			StopPrice:  intent.StopLoss,
			TIF:        core.TIFGTC,
		}
	}
	if intent.ProfitTarget != nil {
		staged.ProfitTargetChild = &core.Signal{
			Ref:        uuid.NewString(),
			Action:     exitAction,
			Instrument: intent.Instrument,
			Quantity:   intent.Quantity,
			OrderType:  core.OrderLimit,
			LimitPrice: intent.ProfitTarget,
			TIF:        core.TIFGTC,
		}
	}

	b.logger.Debug("Signal built",
		"ref", primary.Ref,
		"instrument", intent.Instrument.Description(),
		"signals", staged.Count())

	return staged, nil
}

func (b *Builder) validate(intent core.SignalIntent) error {
	if intent.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Message: fmt.Sprintf("must be positive, got %d", intent.Quantity)}
	}
	if intent.Action != core.ActionBuy && intent.Action != core.ActionSell {
		return &ValidationError{Field: "action", Message: "must be buy or sell"}
	}

	switch intent.OrderType {
	case core.OrderLimit:
		if intent.LimitPrice == nil {
			return &ValidationError{Field: "limit", Message: "limit order requires a limit price"}
		}
		if !intent.LimitPrice.IsPositive() {
			return &ValidationError{Field: "limit", Message: "limit price must be positive"}
		}
	case core.OrderStop:
		if intent.StopPrice == nil {
			return &ValidationError{Field: "stop", Message: "stop order requires a stop price"}
		}
		if !intent.StopPrice.IsPositive() {
			return &ValidationError{Field: "stop", Message: "stop price must be positive"}
		}
	case core.OrderMarket:
		if intent.LimitPrice != nil || intent.StopPrice != nil {
			return &ValidationError{Field: "order_type", Message: "market order must not carry limit or stop prices"}
		}
	default:
		return &ValidationError{Field: "order_type", Message: fmt.Sprintf("unknown order type %q", intent.OrderType)}
	}

	if intent.Instrument.IsOption() {
		if err := b.validateOption(intent.Instrument); err != nil {
			return err
		}
	}

	if intent.StopLoss != nil || intent.ProfitTarget != nil {
		if err := b.validateBracket(intent); err != nil {
			return err
		}
	}

	if intent.CancelReplaceID != 0 {
		if b.workingSet == nil || !b.workingSet.IsWorking(intent.CancelReplaceID) {
			return &ValidationError{
				Field:   "cancel_replace",
				Message: fmt.Sprintf("signal %d is not a working order (stale target)", intent.CancelReplaceID),
			}
		}
	}

	return nil
}

func (b *Builder) validateOption(inst core.Instrument) error {
	// Strike and right malformations are caught at instrument construction;
	// expiry in the past is an intent-time rule because "past" moves.
	today := b.now().UTC().Truncate(24 * time.Hour)
	if inst.Expiry.Before(today) {
		return &ValidationError{
			Field:   "expiry",
			Message: fmt.Sprintf("option expired %s", inst.Expiry.Format("01/02/2006")),
		}
	}
	return nil
}

// validateBracket checks that the exit legs sit on the correct sides of the
// entry reference price. For a buy, the stop-loss must be below and the
// profit target above; a sell bracket is the mirror image.
func (b *Builder) validateBracket(intent core.SignalIntent) error {
	if intent.CancelReplaceID != 0 || intent.ParentSignalID != 0 {
		return &ValidationError{Field: "bracket", Message: "bracket legs are only valid on a standalone opening order"}
	}

	for field, p := range map[string]*decimal.Decimal{
		"stop_loss":     intent.StopLoss,
		"profit_target": intent.ProfitTarget,
	} {
		if p != nil && !p.IsPositive() {
			return &ValidationError{Field: field, Message: "must be positive"}
		}
	}

	// Entry reference: the limit price for limit orders, the stop trigger
	// for stop entries. Market entries have no reference; the legs are
	// checked against each other instead.
	var ref *decimal.Decimal
	if intent.LimitPrice != nil {
		ref = intent.LimitPrice
	} else if intent.StopPrice != nil {
		ref = intent.StopPrice
	}

	long := intent.Action == core.ActionBuy

	if ref != nil {
		if intent.StopLoss != nil {
			if long && intent.StopLoss.GreaterThanOrEqual(*ref) {
				return &ValidationError{Field: "stop_loss", Message: fmt.Sprintf("must be below entry %s for a buy", ref)}
			}
			if !long && intent.StopLoss.LessThanOrEqual(*ref) {
				return &ValidationError{Field: "stop_loss", Message: fmt.Sprintf("must be above entry %s for a sell", ref)}
			}
		}
		if intent.ProfitTarget != nil {
			if long && intent.ProfitTarget.LessThanOrEqual(*ref) {
				return &ValidationError{Field: "profit_target", Message: fmt.Sprintf("must be above entry %s for a buy", ref)}
			}
			if !long && intent.ProfitTarget.GreaterThanOrEqual(*ref) {
				return &ValidationError{Field: "profit_target", Message: fmt.Sprintf("must be below entry %s for a sell", ref)}
			}
		}
	} else if intent.StopLoss != nil && intent.ProfitTarget != nil {
		if long && intent.StopLoss.GreaterThanOrEqual(*intent.ProfitTarget) {
			return &ValidationError{Field: "bracket", Message: "stop-loss must be below profit target for a buy"}
		}
		if !long && intent.StopLoss.LessThanOrEqual(*intent.ProfitTarget) {
			return &ValidationError{Field: "bracket", Message: "stop-loss must be above profit target for a sell"}
		}
	}

	return nil
}
