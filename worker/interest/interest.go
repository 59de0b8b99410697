package interest

import (
	"context"
	"time"

	"comptroller/core"
	"comptroller/pkg/metrics"
	"comptroller/worker"

	"github.com/fox-one/pkg/logger"
)

// Worker publishes the rates of every listed market once per block. Accrual
// is previewed in a view and never committed, markets are still accrued by
// the first action touching them.
type Worker struct {
	*worker.BaseJob
	states  core.StateStore
	markets core.IMarketService
	blocks  core.IBlockService
	last    int64
}

// New new interest worker
func New(
	location string,
	states core.StateStore,
	markets core.IMarketService,
	blocks core.IBlockService,
) *Worker {
	w := &Worker{
		states:  states,
		markets: markets,
		blocks:  blocks,
	}

	w.BaseJob = worker.NewBaseJob("interest", location, time.Second, w.onWork)
	return w
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "interest")

	block, err := w.blocks.CurrentBlock(ctx)
	if err != nil {
		return err
	}

	if block <= w.last {
		return nil
	}

	rates, err := w.Preview(ctx)
	if err != nil {
		log.WithError(err).Errorln("preview rates")
		return err
	}

	for asset, r := range rates {
		metrics.Lending().SetMarketRates(asset, r)
	}

	w.last = block
	return nil
}

// Preview rates of every listed market as if accrued at the current block
func (w *Worker) Preview(ctx context.Context) (map[string]metrics.MarketRates, error) {
	rates := map[string]metrics.MarketRates{}
	err := w.states.View(ctx, func(ctx context.Context, state core.State) error {
		markets, err := state.ListMarkets(ctx)
		if err != nil {
			return core.FailWith(core.ErrStore, core.InfoNone, err)
		}

		for _, m := range markets {
			if !m.IsListed {
				continue
			}

			// a market whose model fails keeps its last accrued numbers
			if err := w.markets.Accrue(ctx, state, m); err != nil {
				logger.FromContext(ctx).WithError(err).WithField("asset", m.Asset).Infoln("preview accrual")
			}

			var r metrics.MarketRates
			r.Utilization, _ = w.markets.UtilizationRate(m)
			r.BorrowRate, _ = w.markets.BorrowRatePerBlock(m)
			r.SupplyRate, _ = w.markets.SupplyRatePerBlock(m)
			r.ExchangeRate, _ = w.markets.ExchangeRate(m)
			rates[m.Asset] = r
		}

		return nil
	})

	return rates, err
}
