package reserve

import (
	"context"

	"comptroller/core"
	"comptroller/internal/eventlog"
	"comptroller/pkg/metrics"
	"comptroller/pkg/number"

	"github.com/fox-one/pkg/logger"
)

type service struct {
	states   core.StateStore
	markets  core.IMarketService
	policy   core.IAdminPolicy
	treasury core.ITreasury
}

// New new reserve service
func New(
	states core.StateStore,
	markets core.IMarketService,
	policy core.IAdminPolicy,
	treasury core.ITreasury,
) core.IReserveService {
	return &service{
		states:   states,
		markets:  markets,
		policy:   policy,
		treasury: treasury,
	}
}

func (s *service) AddReserves(ctx context.Context, account, asset string, amount number.Amount) error {
	err := s.states.Update(ctx, func(ctx context.Context, state core.State) error {
		if amount.IsZero() {
			return core.Fail(core.ErrInvalidAmount, core.InfoNone)
		}

		market, err := s.markets.LoadFresh(ctx, state, asset)
		if err != nil {
			return err
		}

		if market.TotalReserves, err = market.TotalReserves.Add(amount); err != nil {
			return core.FailWith(core.ErrMath, core.ReservesCalculationFailed, err)
		}

		if market.Cash, err = market.Cash.Add(amount); err != nil {
			return core.FailWith(core.ErrMath, core.ReservesCalculationFailed, err)
		}

		if err := state.SaveMarket(ctx, market); err != nil {
			return core.FailWith(core.ErrStore, core.InfoNone, err)
		}

		data := core.EventData{}.Put("amount", amount).Put("total_reserves", market.TotalReserves)
		return eventlog.Write(ctx, state, market.AccrualBlock, core.EventReservesAdded, asset, account, data)
	})

	metrics.Lending().ObserveAction(core.EventReservesAdded.String(), err)
	return err
}

// ReduceReserves hands amount of reserves to the treasury. The receipt is
// recorded last in the same unit of work, a refused receipt leaves the
// market untouched.
func (s *service) ReduceReserves(ctx context.Context, caller, asset string, amount number.Amount) error {
	log := logger.FromContext(ctx).WithField("asset", asset)

	if s.policy == nil || !s.policy.IsAdmin(caller) {
		return core.Fail(core.ErrUnauthorized, core.InfoNone)
	}

	err := s.states.Update(ctx, func(ctx context.Context, state core.State) error {
		if amount.IsZero() {
			return core.Fail(core.ErrInvalidAmount, core.InfoNone)
		}

		market, err := s.markets.LoadFresh(ctx, state, asset)
		if err != nil {
			return err
		}

		if market.Cash.LessThan(amount) {
			return core.Fail(core.ErrInsufficientCash, core.InfoNone)
		}

		if market.TotalReserves.LessThan(amount) {
			return core.Fail(core.ErrInsufficientBalance, core.ReservesCalculationFailed)
		}

		if market.TotalReserves, err = market.TotalReserves.Sub(amount); err != nil {
			return core.FailWith(core.ErrMath, core.ReservesCalculationFailed, err)
		}

		if market.Cash, err = market.Cash.Sub(amount); err != nil {
			return core.FailWith(core.ErrMath, core.ReservesCalculationFailed, err)
		}

		if err := state.SaveMarket(ctx, market); err != nil {
			return core.FailWith(core.ErrStore, core.InfoNone, err)
		}

		data := core.EventData{}.Put("amount", amount).Put("total_reserves", market.TotalReserves)
		if err := eventlog.Write(ctx, state, market.AccrualBlock, core.EventReservesReduced, asset, caller, data); err != nil {
			return err
		}

		return s.treasury.Receive(ctx, state, market.AccrualBlock, asset, amount)
	})

	metrics.Lending().ObserveAction(core.EventReservesReduced.String(), err)
	if err != nil {
		log.WithError(err).Infoln("reduce reserves failed")
	}

	return err
}
