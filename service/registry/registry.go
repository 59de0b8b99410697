package registry

import (
	"context"

	"comptroller/core"
	"comptroller/internal/eventlog"
	"comptroller/pkg/compound"
	"comptroller/pkg/number"

	"github.com/fox-one/pkg/logger"
)

type service struct {
	states  core.StateStore
	policy  core.IAdminPolicy
	oracle  core.IPriceOracle
	blocks  core.IBlockService
	markets core.IMarketService
}

// New new market registry
func New(
	states core.StateStore,
	policy core.IAdminPolicy,
	oracle core.IPriceOracle,
	blocks core.IBlockService,
	markets core.IMarketService,
) core.IRegistryService {
	return &service{
		states:  states,
		policy:  policy,
		oracle:  oracle,
		blocks:  blocks,
		markets: markets,
	}
}

func (s *service) authorize(caller string) error {
	if s.policy == nil || !s.policy.IsAdmin(caller) {
		return core.Fail(core.ErrUnauthorized, core.InfoNone)
	}

	return nil
}

// requirePrice a nonzero collateral factor needs a known price
func (s *service) requirePrice(ctx context.Context, asset string, factor number.Exp) error {
	if factor.IsZero() {
		return nil
	}

	price, err := s.oracle.GetUnderlyingPrice(ctx, asset)
	if err != nil {
		return core.FailWith(core.ErrPrice, core.SetCollateralFactorWithoutPrice, err)
	}

	if price.IsZero() {
		return core.Fail(core.ErrPrice, core.SetCollateralFactorWithoutPrice)
	}

	return nil
}

// SupportMarket lists a market exactly once
func (s *service) SupportMarket(ctx context.Context, caller string, params core.MarketParams) (*core.Market, error) {
	if err := s.authorize(caller); err != nil {
		return nil, err
	}

	if err := validateMarket(params); err != nil {
		return nil, err
	}

	if params.CollateralFactor.GreaterThan(core.CollateralFactorMax) {
		return nil, core.Fail(core.ErrInvalidCollateralFactor, core.InfoNone)
	}

	threshold := params.LiquidationThreshold
	if threshold.IsZero() {
		threshold = params.CollateralFactor
	}

	if threshold.LessThan(params.CollateralFactor) || threshold.GreaterThan(number.ExpOne) {
		return nil, core.Fail(core.ErrInvalidLiquidationThreshold, core.InfoNone)
	}

	if params.ReserveFactor.GreaterThan(number.ExpOne) {
		return nil, core.Fail(core.ErrInvalidReserveFactor, core.InfoNone)
	}

	if err := s.requirePrice(ctx, params.Asset, params.CollateralFactor); err != nil {
		return nil, err
	}

	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return nil, err
	}

	market := &core.Market{
		Asset:                params.Asset,
		Symbol:               params.Symbol,
		IsListed:             true,
		CollateralFactor:     params.CollateralFactor,
		LiquidationThreshold: threshold,
		SupplyCap:            number.MaxAmount,
		BorrowCap:            number.MaxAmount,
		BorrowIndex:          number.ExpOne,
		AccrualBlock:         block,
		ReserveFactor:        params.ReserveFactor,
		InitialExchangeRate:  params.InitialExchangeRate,
		RateModel:            params.RateModel,
	}

	if market.InitialExchangeRate.IsZero() {
		market.InitialExchangeRate = number.ExpOne
	}

	if params.SupplyCap != nil {
		market.SupplyCap = *params.SupplyCap
	}

	if params.BorrowCap != nil {
		market.BorrowCap = *params.BorrowCap
	}

	err = s.states.Update(ctx, func(ctx context.Context, state core.State) error {
		existing, err := state.FindMarket(ctx, params.Asset)
		if err != nil {
			return core.FailWith(core.ErrStore, core.InfoNone, err)
		}

		if existing != nil && existing.IsListed {
			return core.Fail(core.ErrMarketAlreadyListed, core.InfoNone)
		}

		if existing != nil {
			market.ID, market.Version = existing.ID, existing.Version
		}

		if err := state.SaveMarket(ctx, market); err != nil {
			return core.FailWith(core.ErrStore, core.InfoNone, err)
		}

		data := core.EventData{}.
			Put("symbol", market.Symbol).
			Put("collateral_factor", market.CollateralFactor).
			Put("liquidation_threshold", market.LiquidationThreshold).
			Put("rate_model", market.RateModel)
		return eventlog.Write(ctx, state, block, core.EventSupportMarket, market.Asset, caller, data)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).WithField("asset", market.Asset).Infoln("market listed")
	return market, nil
}

// validateMarket capability check of a new market
func validateMarket(params core.MarketParams) error {
	if params.Asset == "" {
		return core.Fail(core.ErrInvalidMarket, core.InfoNone)
	}

	if _, err := compound.NewRateModel(params.RateModel); err != nil {
		return core.FailWith(core.ErrInvalidMarket, core.InfoNone, err)
	}

	return nil
}

// updateMarket runs fn on the listed market of asset and saves it. Markets
// are accrued first when accrue is set so interest up to now uses the old
// parameters.
func (s *service) updateMarket(ctx context.Context, caller, asset string, accrue bool, fn func(ctx context.Context, state core.State, market *core.Market) (core.EventType, core.EventData, error)) error {
	if err := s.authorize(caller); err != nil {
		return err
	}

	return s.states.Update(ctx, func(ctx context.Context, state core.State) error {
		var (
			market *core.Market
			err    error
		)

		if accrue {
			market, err = s.markets.LoadFresh(ctx, state, asset)
		} else {
			market, err = state.FindMarket(ctx, asset)
			if err != nil {
				err = core.FailWith(core.ErrStore, core.InfoNone, err)
			} else if market == nil || !market.IsListed {
				err = core.Fail(core.ErrMarketNotListed, core.InfoNone)
			}
		}

		if err != nil {
			return err
		}

		typ, data, err := fn(ctx, state, market)
		if err != nil {
			return err
		}

		if err := state.SaveMarket(ctx, market); err != nil {
			return core.FailWith(core.ErrStore, core.InfoNone, err)
		}

		block, err := s.blocks.CurrentBlock(ctx)
		if err != nil {
			return err
		}

		return eventlog.Write(ctx, state, block, typ, asset, caller, data)
	})
}

func (s *service) SetCollateralFactor(ctx context.Context, caller, asset string, factor number.Exp) error {
	return s.updateMarket(ctx, caller, asset, false, func(ctx context.Context, state core.State, market *core.Market) (core.EventType, core.EventData, error) {
		if factor.GreaterThan(core.CollateralFactorMax) {
			return "", nil, core.Fail(core.ErrInvalidCollateralFactor, core.InfoNone)
		}

		if !market.LiquidationThreshold.IsZero() && factor.GreaterThan(market.LiquidationThreshold) {
			return "", nil, core.Fail(core.ErrInvalidCollateralFactor, core.InfoNone)
		}

		if err := s.requirePrice(ctx, asset, factor); err != nil {
			return "", nil, err
		}

		old := market.CollateralFactor
		market.CollateralFactor = factor
		return core.EventNewCollateralFactor, core.EventData{}.Put("old", old).Put("new", factor), nil
	})
}

func (s *service) SetLiquidationThreshold(ctx context.Context, caller, asset string, threshold number.Exp) error {
	return s.updateMarket(ctx, caller, asset, false, func(ctx context.Context, state core.State, market *core.Market) (core.EventType, core.EventData, error) {
		if threshold.LessThan(market.CollateralFactor) || threshold.GreaterThan(number.ExpOne) {
			return "", nil, core.Fail(core.ErrInvalidLiquidationThreshold, core.InfoNone)
		}

		old := market.LiquidationThreshold
		market.LiquidationThreshold = threshold
		return core.EventNewLiquidationThresh, core.EventData{}.Put("old", old).Put("new", threshold), nil
	})
}

func (s *service) SetMarketCaps(ctx context.Context, caller, asset string, supplyCap, borrowCap number.Amount) error {
	return s.updateMarket(ctx, caller, asset, false, func(ctx context.Context, state core.State, market *core.Market) (core.EventType, core.EventData, error) {
		market.SupplyCap = supplyCap
		market.BorrowCap = borrowCap
		return core.EventNewSupplyCap, core.EventData{}.Put("supply_cap", supplyCap).Put("borrow_cap", borrowCap), nil
	})
}

func (s *service) SetSupplyCap(ctx context.Context, caller, asset string, supplyCap number.Amount) error {
	return s.updateMarket(ctx, caller, asset, false, func(ctx context.Context, state core.State, market *core.Market) (core.EventType, core.EventData, error) {
		market.SupplyCap = supplyCap
		return core.EventNewSupplyCap, core.EventData{}.Put("supply_cap", supplyCap), nil
	})
}

func (s *service) SetBorrowCap(ctx context.Context, caller, asset string, borrowCap number.Amount) error {
	return s.updateMarket(ctx, caller, asset, false, func(ctx context.Context, state core.State, market *core.Market) (core.EventType, core.EventData, error) {
		market.BorrowCap = borrowCap
		return core.EventNewBorrowCap, core.EventData{}.Put("borrow_cap", borrowCap), nil
	})
}

func (s *service) SetReserveFactor(ctx context.Context, caller, asset string, factor number.Exp) error {
	return s.updateMarket(ctx, caller, asset, true, func(ctx context.Context, state core.State, market *core.Market) (core.EventType, core.EventData, error) {
		if factor.GreaterThan(number.ExpOne) {
			return "", nil, core.Fail(core.ErrInvalidReserveFactor, core.InfoNone)
		}

		old := market.ReserveFactor
		market.ReserveFactor = factor
		return core.EventNewReserveFactor, core.EventData{}.Put("old", old).Put("new", factor), nil
	})
}

func (s *service) SetInterestRateModel(ctx context.Context, caller, asset string, model core.RateModelConfig) error {
	if err := s.authorize(caller); err != nil {
		return err
	}

	if _, err := compound.NewRateModel(model); err != nil {
		return core.FailWith(core.ErrInterestRateModel, core.InfoNone, err)
	}

	return s.updateMarket(ctx, caller, asset, true, func(ctx context.Context, state core.State, market *core.Market) (core.EventType, core.EventData, error) {
		market.RateModel = model
		return core.EventNewRateModel, core.EventData{}.Put("rate_model", model), nil
	})
}

func (s *service) SetPaused(ctx context.Context, caller, asset string, action core.Action, paused bool) error {
	return s.updateMarket(ctx, caller, asset, false, func(ctx context.Context, state core.State, market *core.Market) (core.EventType, core.EventData, error) {
		market.SetPaused(action, paused)
		return core.EventActionPaused, core.EventData{}.Put("action", action.String()).Put("paused", paused), nil
	})
}

// updateRisk runs fn on the registry-wide parameters and saves them
func (s *service) updateRisk(ctx context.Context, caller string, fn func(risk *core.RiskParameters) (core.EventType, core.EventData, error)) error {
	if err := s.authorize(caller); err != nil {
		return err
	}

	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return err
	}

	return s.states.Update(ctx, func(ctx context.Context, state core.State) error {
		risk, err := state.FindRisk(ctx)
		if err != nil {
			return core.FailWith(core.ErrStore, core.InfoNone, err)
		}

		typ, data, err := fn(risk)
		if err != nil {
			return err
		}

		if err := state.SaveRisk(ctx, risk); err != nil {
			return core.FailWith(core.ErrStore, core.InfoNone, err)
		}

		return eventlog.Write(ctx, state, block, typ, "", caller, data)
	})
}

func (s *service) SetCloseFactor(ctx context.Context, caller string, factor number.Exp) error {
	return s.updateRisk(ctx, caller, func(risk *core.RiskParameters) (core.EventType, core.EventData, error) {
		if factor.IsZero() || factor.GreaterThan(number.ExpOne) {
			return "", nil, core.Fail(core.ErrInvalidCloseFactor, core.InfoNone)
		}

		old := risk.CloseFactor
		risk.CloseFactor = factor
		return core.EventNewCloseFactor, core.EventData{}.Put("old", old).Put("new", factor), nil
	})
}

func (s *service) SetLiquidationIncentive(ctx context.Context, caller string, incentive number.Exp) error {
	return s.updateRisk(ctx, caller, func(risk *core.RiskParameters) (core.EventType, core.EventData, error) {
		if incentive.LessThan(number.ExpOne) {
			return "", nil, core.Fail(core.ErrInvalidLiquidationIncentive, core.InfoNone)
		}

		old := risk.LiquidationIncentive
		risk.LiquidationIncentive = incentive
		return core.EventNewIncentive, core.EventData{}.Put("old", old).Put("new", incentive), nil
	})
}

func (s *service) SetProtocolSeizeShare(ctx context.Context, caller string, share number.Exp) error {
	return s.updateRisk(ctx, caller, func(risk *core.RiskParameters) (core.EventType, core.EventData, error) {
		if share.GreaterThan(number.ExpOne) {
			return "", nil, core.Fail(core.ErrInvalidProtocolSeizeShare, core.InfoNone)
		}

		old := risk.ProtocolSeizeShare
		risk.ProtocolSeizeShare = share
		return core.EventNewProtocolShare, core.EventData{}.Put("old", old).Put("new", share), nil
	})
}

func (s *service) SetMaxBorrowRate(ctx context.Context, caller string, rate number.Exp) error {
	return s.updateRisk(ctx, caller, func(risk *core.RiskParameters) (core.EventType, core.EventData, error) {
		if rate.IsZero() {
			return "", nil, core.Fail(core.ErrInvalidAmount, core.InfoNone)
		}

		old := risk.MaxBorrowRate
		risk.MaxBorrowRate = rate
		return core.EventNewMaxBorrowRate, core.EventData{}.Put("old", old).Put("new", rate), nil
	})
}

func (s *service) RiskParameters(ctx context.Context) (*core.RiskParameters, error) {
	var risk *core.RiskParameters
	err := s.states.View(ctx, func(ctx context.Context, state core.State) error {
		r, err := state.FindRisk(ctx)
		risk = r
		return err
	})

	return risk, err
}
