package views

import (
	"testing"

	"comptroller/core"
	"comptroller/pkg/compound"
	"comptroller/pkg/number"

	"github.com/stretchr/testify/assert"
)

func TestMarketViewAPY(t *testing.T) {
	market := &core.Market{
		Asset:     "eth",
		SupplyCap: number.MaxAmount,
		BorrowCap: number.NewAmount(500),
	}

	// 0.05 per year truncates per block, a year of it is 0.0499999999982688
	rates := MarketRates{
		BorrowRate: compound.PerBlock(number.MustExp("0.05")),
		SupplyRate: number.ExpFromMantissa(1),
	}

	view := MarketView(market, rates)
	assert.Equal(t, "0.04999999", view.BorrowAPY.String())
	assert.Equal(t, "0", view.SupplyAPY.String())
	assert.Equal(t, "0.000000023782343987", view.BorrowRatePerBlock.String())
	assert.Empty(t, view.SupplyCap)
	assert.Equal(t, "500", view.BorrowCap)
}
