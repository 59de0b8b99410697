package borrow

import (
	"context"

	"comptroller/core"
	"comptroller/internal/eventlog"
	"comptroller/pkg/metrics"
	"comptroller/pkg/number"

	"github.com/fox-one/pkg/logger"
)

type borrowService struct {
	states      core.StateStore
	markets     core.IMarketService
	accounts    core.IAccountService
	comptroller core.IComptrollerService
}

// New new borrow service
func New(
	states core.StateStore,
	markets core.IMarketService,
	accounts core.IAccountService,
	comptroller core.IComptrollerService,
) core.IBorrowService {
	return &borrowService{
		states:      states,
		markets:     markets,
		accounts:    accounts,
		comptroller: comptroller,
	}
}

// Borrow lends amount of asset to account. The market is entered on the
// account's behalf so the debt always counts in its liquidity.
func (s *borrowService) Borrow(ctx context.Context, account, asset string, amount number.Amount) error {
	log := logger.FromContext(ctx).WithField("account", account).WithField("asset", asset)

	err := s.states.Update(ctx, func(ctx context.Context, state core.State) error {
		if amount.IsZero() || amount.IsMax() {
			return core.Fail(core.ErrInvalidAmount, core.InfoNone)
		}

		market, err := s.markets.LoadFresh(ctx, state, asset)
		if err != nil {
			return err
		}

		if err := s.accounts.EnterMarkets(ctx, state, account, asset); err != nil {
			return err
		}

		if err := s.comptroller.BorrowAllowed(ctx, state, market, account, amount); err != nil {
			return err
		}

		if market.Cash.LessThan(amount) {
			return core.Fail(core.ErrInsufficientCash, core.InfoNone)
		}

		position, err := state.FindPosition(ctx, account, asset)
		if err != nil {
			return core.FailWith(core.ErrStore, core.InfoNone, err)
		}

		debt, err := s.markets.BorrowBalance(market, position)
		if err != nil {
			return err
		}

		if position.Principal, err = debt.Add(amount); err != nil {
			return core.FailWith(core.ErrMath, core.BorrowNewTotalsCalculationFailed, err)
		}
		position.InterestIndex = market.BorrowIndex

		if market.TotalBorrows, err = market.TotalBorrows.Add(amount); err != nil {
			return core.FailWith(core.ErrMath, core.BorrowNewTotalsCalculationFailed, err)
		}

		if market.Cash, err = market.Cash.Sub(amount); err != nil {
			return core.FailWith(core.ErrMath, core.BorrowNewTotalsCalculationFailed, err)
		}

		if err := save(ctx, state, market, position); err != nil {
			return err
		}

		data := core.EventData{}.
			Put("amount", amount).
			Put("account_borrows", position.Principal).
			Put("total_borrows", market.TotalBorrows)
		return eventlog.Write(ctx, state, market.AccrualBlock, core.EventBorrow, asset, account, data)
	})

	metrics.Lending().ObserveAction(core.EventBorrow.String(), err)
	if err != nil {
		log.WithError(err).Infoln("borrow failed")
	}

	return err
}

func (s *borrowService) RepayBorrow(ctx context.Context, payer, borrower, asset string, amount number.Amount) (number.Amount, error) {
	log := logger.FromContext(ctx).WithField("payer", payer).WithField("borrower", borrower).WithField("asset", asset)

	var repaid number.Amount
	err := s.states.Update(ctx, func(ctx context.Context, state core.State) error {
		if amount.IsZero() {
			return core.Fail(core.ErrInvalidAmount, core.InfoNone)
		}

		market, err := s.markets.LoadFresh(ctx, state, asset)
		if err != nil {
			return err
		}

		repaid, err = s.RepayBorrowFresh(ctx, state, market, payer, borrower, amount)
		return err
	})

	metrics.Lending().ObserveAction(core.EventRepayBorrow.String(), err)
	if err != nil {
		log.WithError(err).Infoln("repay borrow failed")
		return number.Amount{}, err
	}

	return repaid, nil
}

// RepayBorrowFresh repays min(amount, debt) when amount is number.MaxAmount
// and exactly amount otherwise. Repaying more than the debt fails.
func (s *borrowService) RepayBorrowFresh(ctx context.Context, state core.State, market *core.Market, payer, borrower string, amount number.Amount) (number.Amount, error) {
	if err := s.comptroller.RepayBorrowAllowed(ctx, state, market, payer, borrower, amount); err != nil {
		return number.Amount{}, err
	}

	position, err := state.FindPosition(ctx, borrower, market.Asset)
	if err != nil {
		return number.Amount{}, core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	debt, err := s.markets.BorrowBalance(market, position)
	if err != nil {
		return number.Amount{}, err
	}

	repay := amount
	if amount.IsMax() {
		repay = debt
	}

	if repay.GreaterThan(debt) {
		return number.Amount{}, core.Fail(core.ErrTooMuchRepay, core.InfoNone)
	}

	if position.Principal, err = debt.Sub(repay); err != nil {
		return number.Amount{}, core.FailWith(core.ErrMath, core.RepayNewTotalsCalculationFailed, err)
	}
	position.InterestIndex = market.BorrowIndex

	// per-account truncation can leave the sum of debts above total borrows
	market.TotalBorrows = market.TotalBorrows.SubFloor(repay)

	if market.Cash, err = market.Cash.Add(repay); err != nil {
		return number.Amount{}, core.FailWith(core.ErrMath, core.RepayNewTotalsCalculationFailed, err)
	}

	if err := save(ctx, state, market, position); err != nil {
		return number.Amount{}, err
	}

	data := core.EventData{}.
		Put("payer", payer).
		Put("amount", repay).
		Put("account_borrows", position.Principal).
		Put("total_borrows", market.TotalBorrows)
	if err := eventlog.Write(ctx, state, market.AccrualBlock, core.EventRepayBorrow, market.Asset, borrower, data); err != nil {
		return number.Amount{}, err
	}

	return repay, nil
}

// BorrowBalance debt of account including interest up to the current block
func (s *borrowService) BorrowBalance(ctx context.Context, account, asset string) (number.Amount, error) {
	var debt number.Amount
	err := s.states.View(ctx, func(ctx context.Context, state core.State) error {
		market, err := s.markets.LoadFresh(ctx, state, asset)
		if err != nil {
			return err
		}

		position, err := state.FindPosition(ctx, account, asset)
		if err != nil {
			return core.FailWith(core.ErrStore, core.InfoNone, err)
		}

		debt, err = s.markets.BorrowBalance(market, position)
		return err
	})

	return debt, err
}

func save(ctx context.Context, state core.State, market *core.Market, position *core.Position) error {
	if err := state.SaveMarket(ctx, market); err != nil {
		return core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	if err := state.SavePosition(ctx, position); err != nil {
		return core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	return nil
}
