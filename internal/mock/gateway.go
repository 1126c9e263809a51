// Package mock provides in-memory implementations of the platform-facing
// interfaces for tests and dry runs.
package mock

import (
	"context"
	"sync"
	"time"

	"c2_console/internal/core"
)

// MockGateway implements core.SignalGateway and core.AccountSource against
// in-memory state. Submitted orders become working immediately and stay
// working until cancelled.
type MockGateway struct {
	mu        sync.Mutex
	nextID    int64
	orders    map[int64]core.WorkingOrder
	positions []core.Position
	account   core.AccountSnapshot

	SubmitErr error
	CancelErr error
}

// NewMockGateway creates an empty mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		orders: make(map[int64]core.WorkingOrder),
	}
}

// SeedPositions installs the positions later returned by GetOpenPositions.
func (g *MockGateway) SeedPositions(positions []core.Position) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.positions = positions
}

// SeedAccount installs the account snapshot.
func (g *MockGateway) SeedAccount(account core.AccountSnapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.account = account
}

func (g *MockGateway) SubmitSignal(ctx context.Context, sig core.Signal) (*core.SignalReceipt, error) {
	if g.SubmitErr != nil {
		return nil, g.SubmitErr
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextID++
	id := g.nextID

	if sig.CancelReplaceID != 0 {
		delete(g.orders, sig.CancelReplaceID)
	}

	g.orders[id] = core.WorkingOrder{
		SignalID:    id,
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

	return &core.SignalReceipt{SignalID: id}, nil
}

func (g *MockGateway) CancelSignal(ctx context.Context, signalID int64) error {
	if g.CancelErr != nil {
		return g.CancelErr
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.orders, signalID)
	return nil
}

func (g *MockGateway) GetOpenPositions(ctx context.Context, securityType string) ([]core.Position, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]core.Position, len(g.positions))
	copy(out, g.positions)
	return out, nil
}

func (g *MockGateway) GetAccountSnapshot(ctx context.Context) (*core.AccountSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	account := g.account
	return &account, nil
}

func (g *MockGateway) GetWorkingOrders(ctx context.Context) ([]core.WorkingOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]core.WorkingOrder, 0, len(g.orders))
	for _, o := range g.orders {
		out = append(out, o)
	}
	return out, nil
}

var (
	_ core.SignalGateway = (*MockGateway)(nil)
	_ core.AccountSource = (*MockGateway)(nil)
)
