package oracle

import (
	"context"
	"fmt"
	"sync"

	"comptroller/core"
	"comptroller/pkg/number"
)

// Static oracle serving posted prices, unknown assets price at zero
type Static struct {
	mu     sync.RWMutex
	prices map[string]number.Exp
}

// NewStatic static oracle seeded with prices
func NewStatic(prices map[string]number.Exp) *Static {
	s := &Static{prices: map[string]number.Exp{}}
	for asset, price := range prices {
		s.prices[asset] = price
	}

	return s
}

// FromConfig static oracle seeded with decimal string prices
func FromConfig(cfg core.PriceOracle) (*Static, error) {
	prices := make(map[string]number.Exp, len(cfg.Prices))
	for asset, v := range cfg.Prices {
		price, err := number.ParseExp(v)
		if err != nil {
			return nil, fmt.Errorf("price of %s: %w", asset, err)
		}

		prices[asset] = price
	}

	return NewStatic(prices), nil
}

func (s *Static) GetUnderlyingPrice(_ context.Context, asset string) (number.Exp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.prices[asset], nil
}

func (s *Static) SetUnderlyingPrice(_ context.Context, asset string, price number.Exp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prices[asset] = price
	return nil
}
