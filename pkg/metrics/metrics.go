package metrics

import (
	"strconv"
	"sync"

	"comptroller/core"
	"comptroller/pkg/number"

	"github.com/prometheus/client_golang/prometheus"
)

// LendingMetrics prometheus collectors of the lending core
type LendingMetrics struct {
	accruals     *prometheus.CounterVec
	actions      *prometheus.CounterVec
	liquidations *prometheus.CounterVec
	shortfall    prometheus.Gauge
	scannedBlock prometheus.Gauge
	marketRates  *prometheus.GaugeVec
}

var (
	lendingOnce     sync.Once
	lendingRegistry *LendingMetrics
)

// Lending shared metrics, registered on first use
func Lending() *LendingMetrics {
	lendingOnce.Do(func() {
		lendingRegistry = &LendingMetrics{
			accruals: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "comptroller_accruals_total",
				Help: "Interest accruals by market and outcome code.",
			}, []string{"asset", "code"}),
			actions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "comptroller_actions_total",
				Help: "Economic actions by name and outcome code.",
			}, []string{"action", "code"}),
			liquidations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "comptroller_liquidations_total",
				Help: "Successful liquidations by borrowed and collateral market.",
			}, []string{"borrowed", "collateral"}),
			shortfall: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "comptroller_shortfall_accounts",
				Help: "Accounts eligible for liquidation at the last scan.",
			}),
			scannedBlock: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "comptroller_scanned_block",
				Help: "Block of the last liquidity scan.",
			}),
			marketRates: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: "comptroller_market_rate",
				Help: "Per block rates and exchange rate of each market at the current block.",
			}, []string{"asset", "rate"}),
		}
		prometheus.MustRegister(
			lendingRegistry.accruals,
			lendingRegistry.actions,
			lendingRegistry.liquidations,
			lendingRegistry.shortfall,
			lendingRegistry.scannedBlock,
			lendingRegistry.marketRates,
		)
	})
	return lendingRegistry
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}

	return strconv.Itoa(int(core.CodeOf(err)))
}

func (m *LendingMetrics) ObserveAccrual(asset string, err error) {
	if m == nil {
		return
	}
	m.accruals.WithLabelValues(asset, outcome(err)).Inc()
}

func (m *LendingMetrics) ObserveAction(action string, err error) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(action, outcome(err)).Inc()
}

func (m *LendingMetrics) ObserveLiquidation(borrowed, collateral string) {
	if m == nil {
		return
	}
	m.liquidations.WithLabelValues(borrowed, collateral).Inc()
}

func (m *LendingMetrics) SetShortfallAccounts(n int, block int64) {
	if m == nil {
		return
	}
	m.shortfall.Set(float64(n))
	m.scannedBlock.Set(float64(block))
}

// MarketRates rates of one market, per block
type MarketRates struct {
	Utilization  number.Exp
	BorrowRate   number.Exp
	SupplyRate   number.Exp
	ExchangeRate number.Exp
}

func (m *LendingMetrics) SetMarketRates(asset string, rates MarketRates) {
	if m == nil {
		return
	}

	for name, v := range map[string]number.Exp{
		"utilization":   rates.Utilization,
		"borrow":        rates.BorrowRate,
		"supply":        rates.SupplyRate,
		"exchange_rate": rates.ExchangeRate,
	} {
		f, _ := v.Decimal().Float64()
		m.marketRates.WithLabelValues(asset, name).Set(f)
	}
}
