package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"c2_console/internal/core"
	apperrors "c2_console/pkg/errors"

	"github.com/shopspring/decimal"
)

// MockPriceSource serves last prices from an in-memory table. Symbols
// without an entry report quote-unavailable, mirroring a dead ticker.
type MockPriceSource struct {
	mu     sync.RWMutex
	prices map[string]decimal.Decimal
}

// NewMockPriceSource creates a price source with the given table.
func NewMockPriceSource(prices map[string]decimal.Decimal) *MockPriceSource {
	if prices == nil {
		prices = make(map[string]decimal.Decimal)
	}
	return &MockPriceSource{prices: prices}
}

// SetPrice installs or updates a price.
func (s *MockPriceSource) SetPrice(symbol string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[symbol] = price
}

// Remove drops a symbol so subsequent lookups fail.
func (s *MockPriceSource) Remove(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.prices, symbol)
}

func (s *MockPriceSource) LastPrice(ctx context.Context, symbol string) (decimal.Decimal, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.prices[symbol]; ok {
		return p, time.Now().UTC(), nil
	}
	return decimal.Zero, time.Time{}, fmt.Errorf("%w: %s", apperrors.ErrQuoteUnavailable, symbol)
}

var _ core.PriceSource = (*MockPriceSource)(nil)
