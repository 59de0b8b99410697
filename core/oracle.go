package core

import (
	"context"

	"comptroller/pkg/number"
)

// IPriceOracle usd price per unit of asset scaled by 1e18. A zero price
// means the price is unknown.
type IPriceOracle interface {
	GetUnderlyingPrice(ctx context.Context, asset string) (number.Exp, error)
}

// IPriceSetter oracles whose prices can be posted directly
type IPriceSetter interface {
	SetUnderlyingPrice(ctx context.Context, asset string, price number.Exp) error
}

// PriceTicker price ticker
type PriceTicker struct {
	Asset string     `json:"asset"`
	Price number.Exp `json:"price"`
}
