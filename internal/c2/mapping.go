package c2

import (
	"fmt"
	"strings"
	"time"

	"c2_console/internal/core"
	apperrors "c2_console/pkg/errors"

	"github.com/shopspring/decimal"
)

// Platform numeric codes. The API speaks these as strings.
const (
	codeMarket = "1"
	codeLimit  = "2"
	codeStop   = "3"

	codeBuy  = "1"
	codeSell = "2"

	codeDay = "0"
	codeGTC = "1"

	codeCall = 1
	codePut  = 0
)

func orderTypeToWire(t core.OrderType) string {
	switch t {
	case core.OrderLimit:
		return codeLimit
	case core.OrderStop:
		return codeStop
	default:
		return codeMarket
	}
}

func wireToOrderType(code string) core.OrderType {
	switch code {
	case codeLimit:
		return core.OrderLimit
	case codeStop:
		return core.OrderStop
	default:
		return core.OrderMarket
	}
}

func sideToWire(a core.SignalAction) string {
	if a == core.ActionSell {
		return codeSell
	}
	return codeBuy
}

func wireToSide(code string) core.SignalAction {
	if code == codeSell {
		return core.ActionSell
	}
	return core.ActionBuy
}

func tifToWire(tif core.TimeInForce) string {
	if tif == core.TIFGTC {
		return codeGTC
	}
	return codeDay
}

func wireToTIF(code string) core.TimeInForce {
	if code == codeGTC {
		return core.TIFGTC
	}
	return core.TIFDay
}

// symbolForInstrument builds the ExchangeSymbol payload for submission.
func symbolForInstrument(inst core.Instrument) wireSymbol {
	if !inst.IsOption() {
		return wireSymbol{
			Symbol:       inst.Symbol,
			Currency:     "USD",
			SecurityType: "CS",
		}
	}

	putOrCall := codePut
	if inst.Right == core.RightCall {
		putOrCall = codeCall
	}
	return wireSymbol{
		Symbol:            inst.Underlying,
		Currency:          "USD",
		SecurityExchange:  "DEFAULT",
		SecurityType:      "OPT",
		MaturityMonthYear: inst.Expiry.Format("20060102"),
		PutOrCall:         &putOrCall,
		StrikePrice:       inst.Strike.InexactFloat64(),
	}
}

// buildOrder converts a validated signal into the platform Order object.
func buildOrder(strategyID int64, sig core.Signal) wireOrder {
	order := wireOrder{
		StrategyID:     strategyID,
		OrderType:      orderTypeToWire(sig.OrderType),
		Side:           sideToWire(sig.Action),
		OrderQuantity:  sig.Quantity,
		TIF:            tifToWire(sig.TIF),
		CancelReplace:  sig.CancelReplaceID,
		ParentSignalID: sig.ParentSignalID,
		ExchangeSymbol: symbolForInstrument(sig.Instrument),
	}

	if sig.LimitPrice != nil {
		order.Limit = sig.LimitPrice.String()
	}
	if sig.StopPrice != nil {
		order.Stop = sig.StopPrice.String()
	}
	if sig.StopLoss != nil {
		v := sig.StopLoss.InexactFloat64()
		order.StopLoss = &v
	}
	if sig.ProfitTarget != nil {
		v := sig.ProfitTarget.InexactFloat64()
		order.ProfitTarget = &v
	}

	return order
}

// instrumentFromC2Symbol converts a response-side C2Symbol into a domain
// instrument.
func instrumentFromC2Symbol(sym wireC2Symbol) (core.Instrument, error) {
	if !strings.EqualFold(sym.SymbolType, "option") {
		symbol := sym.FullSymbol
		if symbol == "" {
			symbol = sym.Underlying
		}
		if symbol == "" {
			return core.Instrument{}, fmt.Errorf("%w: position symbol is empty", apperrors.ErrInvalidInstrument)
		}
		return core.NewEquity(symbol), nil
	}

	right := core.RightCall
	if strings.EqualFold(sym.PutOrCall, "put") {
		right = core.RightPut
	}

	expiry, err := parseC2Expiry(sym.Expiry)
	if err != nil {
		return core.Instrument{}, fmt.Errorf("%w: option %s: %v", apperrors.ErrInvalidInstrument, sym.FullSymbol, err)
	}

	inst, err := core.NewOption(sym.Underlying, right, decimal.NewFromFloat(sym.StrikePrice), expiry)
	if err != nil {
		return core.Instrument{}, fmt.Errorf("%w: option %s: %v", apperrors.ErrInvalidInstrument, sym.FullSymbol, err)
	}
	return inst, nil
}

// parseC2Expiry handles the two expiry formats the platform emits: a monthly
// code like "Oct25" (resolved to the third Friday, the standard monthly
// expiration) or an explicit date like "10/24/25".
func parseC2Expiry(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty expiry")
	}

	if len(s) == 5 {
		if t, err := time.Parse("Jan06", s); err == nil {
			return thirdFriday(t.Year(), t.Month()), nil
		}
	}

	for _, layout := range []string{"01/02/06", "01/02/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized expiry format %q", s)
}

// thirdFriday returns the third Friday of the given month at UTC midnight.
func thirdFriday(year int, month time.Month) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(time.Friday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+14)
}

func positionFromWire(w wirePosition) (core.Position, error) {
	inst, err := instrumentFromC2Symbol(w.C2Symbol)
	if err != nil {
		return core.Position{}, err
	}

	return core.Position{
		Instrument: inst,
		Quantity:   decimal.NewFromFloat(w.Quantity),
		AvgCost:    decimal.NewFromFloat(w.AvgPx),
		OpenedAt:   parseWireTime(w.OpenedDate),
	}, nil
}

func workingOrderFromWire(w wireWorkingOrder) (core.WorkingOrder, error) {
	inst, err := instrumentFromC2Symbol(w.C2Symbol)
	if err != nil {
		return core.WorkingOrder{}, err
	}

	order := core.WorkingOrder{
		SignalID:    w.SignalID,
		Instrument:  inst,
		Action:      wireToSide(w.Side),
		Quantity:    int64(w.OrderQuantity),
		OrderType:   wireToOrderType(w.OrderType),
		TIF:         wireToTIF(w.TIF),
		Status:      wireToStatus(w.OrderStatus),
		SubmittedAt: parseWireTime(w.PostedDate),
	}

	if p, err := decimal.NewFromString(w.Limit); err == nil && !p.IsZero() {
		order.LimitPrice = &p
	}
	if p, err := decimal.NewFromString(w.Stop); err == nil && !p.IsZero() {
		order.StopPrice = &p
	}

	return order, nil
}

// wireToStatus maps the platform's assorted status spellings onto the
// lifecycle states. Unknown statuses are treated as working since the
// order list endpoint only returns live orders.
func wireToStatus(s string) core.OrderStatus {
	switch strings.ToLower(s) {
	case "filled", "2":
		return core.StatusFilled
	case "canceled", "cancelled", "4", "expired", "c":
		return core.StatusCancelled
	case "rejected":
		return core.StatusRejected
	default:
		return core.StatusWorking
	}
}

func accountFromWire(w wireStrategyDetails) core.AccountSnapshot {
	return core.AccountSnapshot{
		Equity:       decimal.NewFromFloat(w.Equity),
		Cash:         decimal.NewFromFloat(w.Cash),
		BuyingPower:  decimal.NewFromFloat(w.BuyingPower),
		AccountValue: decimal.NewFromFloat(w.ModelAccountValue),
		StartingCash: decimal.NewFromFloat(w.StartingCash),
		MarginUsed:   decimal.NewFromFloat(w.MarginUsed),
		NumTrades:    w.NumTrades,
		NumWinners:   w.NumWinners,
		NumLosers:    w.NumLosers,
		WinPercent:   decimal.NewFromFloat(w.PercentWinTrades),
	}
}

// parseWireTime parses the platform's timestamps, which arrive as RFC3339
// with or without the zone suffix. A zero time is returned when parsing
// fails; display code renders it as N/A.
func parseWireTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
