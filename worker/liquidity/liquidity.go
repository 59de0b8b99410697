package liquidity

import (
	"context"
	"sort"
	"sync"
	"time"

	"comptroller/core"
	"comptroller/pkg/concurrency"
	"comptroller/pkg/metrics"
	"comptroller/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
)

const checkpointKey = "liquidity_checkpoint"

// Worker scans borrowers once per block and records the accounts eligible
// for liquidation
type Worker struct {
	*worker.BaseJob
	states   core.StateStore
	accounts core.IAccountService
	blocks   core.IBlockService
	// cache and property are optional
	cache    core.IAccountStore
	property property.Store
	limit    int
}

// New new liquidity worker
func New(
	location string,
	states core.StateStore,
	accounts core.IAccountService,
	blocks core.IBlockService,
	cache core.IAccountStore,
	property property.Store,
) *Worker {
	w := &Worker{
		states:   states,
		accounts: accounts,
		blocks:   blocks,
		cache:    cache,
		property: property,
		limit:    concurrency.DefaultMax,
	}

	w.BaseJob = worker.NewBaseJob("liquidity", location, time.Second, w.onWork)
	return w
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "liquidity")

	block, err := w.blocks.CurrentBlock(ctx)
	if err != nil {
		return err
	}

	if w.property != nil {
		v, err := w.property.Get(ctx, checkpointKey)
		if err != nil {
			log.WithError(err).Errorln("property.Get", checkpointKey)
			return err
		}

		if v.Int64() >= block {
			return nil
		}
	}

	shortfalls, err := w.Scan(ctx, block)
	if err != nil {
		return err
	}

	if w.cache != nil {
		if err := w.cache.SaveShortfalls(ctx, block, shortfalls); err != nil {
			log.WithError(err).Errorln("SaveShortfalls")
			return err
		}
	}

	metrics.Lending().SetShortfallAccounts(len(shortfalls), block)

	if w.property != nil {
		if err := w.property.Save(ctx, checkpointKey, block); err != nil {
			log.WithError(err).Errorln("property.Save", checkpointKey)
			return err
		}
	}

	if len(shortfalls) > 0 {
		log.WithField("block", block).Infof("%d accounts in shortfall", len(shortfalls))
	}

	return nil
}

// Scan returns the borrowers in shortfall at block, sorted
func (w *Worker) Scan(ctx context.Context, block int64) ([]string, error) {
	var borrowers []string
	err := w.states.View(ctx, func(ctx context.Context, state core.State) (err error) {
		borrowers, err = state.ListBorrowers(ctx)
		return
	})
	if err != nil {
		return nil, err
	}

	var (
		mux        sync.Mutex
		shortfalls []string
		g          = concurrency.NewGoLimit(w.limit)
	)

	for _, borrower := range borrowers {
		borrower := borrower
		g.Go(func() {
			liquidity, err := w.liquidity(ctx, borrower, block)
			if err != nil {
				logger.FromContext(ctx).WithError(err).WithField("account", borrower).Infoln("liquidity calculation failed")
				return
			}

			if liquidity.Shortfall.IsZero() {
				return
			}

			mux.Lock()
			shortfalls = append(shortfalls, borrower)
			mux.Unlock()
		})
	}

	g.Wait()
	sort.Strings(shortfalls)
	return shortfalls, nil
}

func (w *Worker) liquidity(ctx context.Context, account string, block int64) (*core.AccountLiquidity, error) {
	if w.cache != nil {
		if liquidity, err := w.cache.FindLiquidity(ctx, account, block); err == nil {
			return liquidity, nil
		}
	}

	var liquidity *core.AccountLiquidity
	err := w.states.View(ctx, func(ctx context.Context, state core.State) (err error) {
		liquidity, err = w.accounts.GetLiquidationShortfall(ctx, state, account)
		return
	})
	if err != nil {
		return nil, err
	}

	if w.cache != nil {
		_ = w.cache.SaveLiquidity(ctx, account, block, liquidity)
	}

	return liquidity, nil
}
