package metrics

import (
	"testing"

	"comptroller/core"
	"comptroller/pkg/number"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveAction(t *testing.T) {
	m := Lending()
	assert.Same(t, m, Lending())

	m.ObserveAction("borrow", nil)
	m.ObserveAction("borrow", core.Fail(core.ErrInsufficientLiquidity, core.InfoNone))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.actions.WithLabelValues("borrow", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.actions.WithLabelValues("borrow", "100407")))

	m.SetShortfallAccounts(3, 42)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.shortfall))

	m.SetMarketRates("usdc", MarketRates{
		Utilization:  number.MustExp("0.25"),
		ExchangeRate: number.MustExp("1.5"),
	})
	assert.Equal(t, 0.25, testutil.ToFloat64(m.marketRates.WithLabelValues("usdc", "utilization")))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.marketRates.WithLabelValues("usdc", "exchange_rate")))

	var nilMetrics *LendingMetrics
	nilMetrics.ObserveAction("borrow", nil)
}
