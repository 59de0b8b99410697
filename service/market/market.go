package market

import (
	"context"

	"comptroller/core"
	"comptroller/internal/eventlog"
	"comptroller/pkg/compound"
	"comptroller/pkg/metrics"
	"comptroller/pkg/number"

	"github.com/fox-one/pkg/logger"
)

// ModelResolver builds the rate model of a market
type ModelResolver func(market *core.Market) (core.BorrowRateModel, error)

// ConfigModels resolves rate models from the persisted market config
func ConfigModels(market *core.Market) (core.BorrowRateModel, error) {
	return compound.NewRateModel(market.RateModel)
}

type service struct {
	blockSrv core.IBlockService
	models   ModelResolver
}

// New new market service
func New(
	blockSrv core.IBlockService,
	models ModelResolver,
) core.IMarketService {
	if models == nil {
		models = ConfigModels
	}

	return &service{
		blockSrv: blockSrv,
		models:   models,
	}
}

func (s *service) AccrueInterest(ctx context.Context, state core.State, asset string) (*core.Market, error) {
	market, err := state.FindMarket(ctx, asset)
	if err != nil {
		return nil, core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	if market == nil || !market.IsListed {
		return nil, core.Fail(core.ErrMarketNotListed, core.InfoNone)
	}

	if err := s.Accrue(ctx, state, market); err != nil {
		return nil, err
	}

	return market, nil
}

func (s *service) LoadFresh(ctx context.Context, state core.State, asset string) (*core.Market, error) {
	market, err := s.AccrueInterest(ctx, state, asset)
	if err == nil {
		return market, nil
	}

	switch core.CodeOf(err) {
	case core.ErrMarketNotListed, core.ErrStore:
		return nil, err
	}

	return nil, core.FailWith(core.ErrMarketNotFresh, core.InfoNone, err)
}

// Accrue accrue interest of market up to the current block.
//
// The market is left untouched when any step fails.
func (s *service) Accrue(ctx context.Context, state core.State, market *core.Market) error {
	log := logger.FromContext(ctx).WithField("asset", market.Asset)

	current, err := s.blockSrv.CurrentBlock(ctx)
	if err != nil {
		return err
	}

	if market.AccrualBlock == current {
		return nil
	}

	risk, err := state.FindRisk(ctx)
	if err != nil {
		return core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	model, err := s.models(market)
	if err != nil {
		err = core.FailWith(core.ErrInterestRateModel, core.AccrueInterestBorrowRateCalculationFailed, err)
		observeAccrual(ctx, market.Asset, err)
		return err
	}

	result, err := compound.Accrue(compound.AccrueInput{
		CurrentBlock:  current,
		AccrualBlock:  market.AccrualBlock,
		Cash:          market.Cash,
		TotalBorrows:  market.TotalBorrows,
		TotalReserves: market.TotalReserves,
		BorrowIndex:   market.BorrowIndex,
		ReserveFactor: market.ReserveFactor,
		MaxBorrowRate: risk.MaxBorrowRate,
		Model:         model,
	})
	observeAccrual(ctx, market.Asset, err)
	if err != nil {
		log.WithError(err).Infoln("accrue interest failed")
		return err
	}

	market.AccrualBlock = current
	market.TotalBorrows = result.TotalBorrows
	market.TotalReserves = result.TotalReserves
	market.BorrowIndex = result.BorrowIndex

	if err := state.SaveMarket(ctx, market); err != nil {
		return core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	data := core.EventData{}.
		Put("cash_prior", market.Cash).
		Put("interest_accumulated", result.InterestAccumulated).
		Put("borrow_index", result.BorrowIndex).
		Put("total_borrows", result.TotalBorrows).
		Put("borrow_rate", result.BorrowRate)
	if err := eventlog.Write(ctx, state, current, core.EventAccrueInterest, market.Asset, "", data); err != nil {
		return err
	}

	log.WithField("block", current).Debugln("interest accrued")
	return nil
}

// RequireFresh freshness guard
func (s *service) RequireFresh(ctx context.Context, market *core.Market) error {
	current, err := s.blockSrv.CurrentBlock(ctx)
	if err != nil {
		return err
	}

	if !market.Fresh(current) {
		return core.Fail(core.ErrMarketNotFresh, core.InfoNone)
	}

	return nil
}

func (s *service) ExchangeRate(market *core.Market) (number.Exp, error) {
	return compound.MarketExchangeRate(market)
}

func (s *service) BorrowBalance(market *core.Market, position *core.Position) (number.Amount, error) {
	return compound.BorrowBalance(position.Principal, market.BorrowIndex, position.InterestIndex)
}

func (s *service) UtilizationRate(market *core.Market) (number.Exp, error) {
	rate, err := compound.UtilizationRate(market.Cash, market.TotalBorrows, market.TotalReserves)
	if err != nil {
		return number.ExpZero, core.FailWith(core.ErrMath, core.InfoNone, err)
	}

	return rate, nil
}

func (s *service) BorrowRatePerBlock(market *core.Market) (number.Exp, error) {
	model, err := s.models(market)
	if err != nil {
		return number.ExpZero, core.FailWith(core.ErrInterestRateModel, core.InfoNone, err)
	}

	rate, err := model.GetBorrowRate(market.Cash, market.TotalBorrows, market.TotalReserves)
	if err != nil {
		return number.ExpZero, core.FailWith(core.ErrInterestRateModel, core.InfoNone, err)
	}

	return rate, nil
}

func (s *service) SupplyRatePerBlock(market *core.Market) (number.Exp, error) {
	model, err := s.models(market)
	if err != nil {
		return number.ExpZero, core.FailWith(core.ErrInterestRateModel, core.InfoNone, err)
	}

	rate, err := model.GetSupplyRate(market.Cash, market.TotalBorrows, market.TotalReserves, market.ReserveFactor)
	if err != nil {
		return number.ExpZero, core.FailWith(core.ErrInterestRateModel, core.InfoNone, err)
	}

	return rate, nil
}

// observeAccrual counts accruals that are persisted. Previews inside a View
// are not counted, successes wait for the commit and failures abort the
// unit of work so they count at once.
func observeAccrual(ctx context.Context, asset string, err error) {
	if core.InView(ctx) {
		return
	}

	if err != nil {
		metrics.Lending().ObserveAccrual(asset, err)
		return
	}

	core.OnCommit(ctx, func() {
		metrics.Lending().ObserveAccrual(asset, nil)
	})
}
