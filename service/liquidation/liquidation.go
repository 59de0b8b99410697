package liquidation

import (
	"context"

	"comptroller/core"
	"comptroller/internal/eventlog"
	"comptroller/pkg/compound"
	"comptroller/pkg/metrics"
	"comptroller/pkg/number"

	"github.com/fox-one/pkg/logger"
)

type service struct {
	states      core.StateStore
	markets     core.IMarketService
	borrows     core.IBorrowService
	comptroller core.IComptrollerService
	oracle      core.IPriceOracle
}

// New new liquidation engine
func New(
	states core.StateStore,
	markets core.IMarketService,
	borrows core.IBorrowService,
	comptroller core.IComptrollerService,
	oracle core.IPriceOracle,
) core.ILiquidationService {
	return &service{
		states:      states,
		markets:     markets,
		borrows:     borrows,
		comptroller: comptroller,
		oracle:      oracle,
	}
}

func (s *service) CalculateSeizeTokens(ctx context.Context, state core.State, borrowed, collateral *core.Market, repayAmount number.Amount) (number.Amount, error) {
	priceBorrowed, err := s.oracle.GetUnderlyingPrice(ctx, borrowed.Asset)
	if err != nil {
		return number.Amount{}, core.FailWith(core.ErrPrice, core.LiquidateCalculateSeizePriceMissing, err)
	}

	priceCollateral, err := s.oracle.GetUnderlyingPrice(ctx, collateral.Asset)
	if err != nil {
		return number.Amount{}, core.FailWith(core.ErrPrice, core.LiquidateCalculateSeizePriceMissing, err)
	}

	exchangeRate, err := s.markets.ExchangeRate(collateral)
	if err != nil {
		return number.Amount{}, err
	}

	risk, err := state.FindRisk(ctx)
	if err != nil {
		return number.Amount{}, core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	return compound.SeizeTokens(repayAmount, risk.LiquidationIncentive, priceBorrowed, priceCollateral, exchangeRate)
}

// LiquidateBorrow accrues both markets, repays repayAmount of the borrower's
// debt on behalf of liquidator and seizes the matching collateral claims.
// Nothing is written unless every step succeeds.
func (s *service) LiquidateBorrow(ctx context.Context, liquidator, borrower, borrowedAsset string, repayAmount number.Amount, collateralAsset string) (*core.LiquidationResult, error) {
	log := logger.FromContext(ctx).WithFields(map[string]interface{}{
		"liquidator": liquidator,
		"borrower":   borrower,
		"borrowed":   borrowedAsset,
		"collateral": collateralAsset,
	})

	result := &core.LiquidationResult{
		Borrower:        borrower,
		Liquidator:      liquidator,
		BorrowedAsset:   borrowedAsset,
		CollateralAsset: collateralAsset,
	}

	err := s.states.Update(ctx, func(ctx context.Context, state core.State) error {
		borrowed, err := s.markets.LoadFresh(ctx, state, borrowedAsset)
		if err != nil {
			return err
		}

		collateral, err := s.markets.LoadFresh(ctx, state, collateralAsset)
		if err != nil {
			return err
		}

		if err := s.comptroller.LiquidateBorrowAllowed(ctx, state, borrowed, collateral, liquidator, borrower, repayAmount); err != nil {
			return err
		}

		repaid, err := s.borrows.RepayBorrowFresh(ctx, state, borrowed, liquidator, borrower, repayAmount)
		if err != nil {
			return err
		}

		// pick up the repayment when both sides are the same market
		if collateral, err = state.FindMarket(ctx, collateralAsset); err != nil {
			return core.FailWith(core.ErrStore, core.InfoNone, err)
		}

		seizeTokens, err := s.CalculateSeizeTokens(ctx, state, borrowed, collateral, repaid)
		if err != nil {
			return err
		}

		position, err := state.FindPosition(ctx, borrower, collateralAsset)
		if err != nil {
			return core.FailWith(core.ErrStore, core.InfoNone, err)
		}

		if position.Claims.LessThan(seizeTokens) {
			return core.Fail(core.ErrLiquidateSeizeTooMuch, core.InfoNone)
		}

		seized, err := s.Seize(ctx, state, collateral, borrowed, liquidator, borrower, seizeTokens)
		if err != nil {
			return err
		}

		result.RepayAmount = repaid
		result.SeizeResult = *seized

		data := core.EventData{}.
			Put("liquidator", liquidator).
			Put("repay_amount", repaid).
			Put("collateral", collateralAsset).
			Put("seize_tokens", seized.SeizeTokens).
			Put("protocol_tokens", seized.ProtocolTokens)
		return eventlog.Write(ctx, state, borrowed.AccrualBlock, core.EventLiquidateBorrow, borrowedAsset, borrower, data)
	})

	metrics.Lending().ObserveAction(core.EventLiquidateBorrow.String(), err)
	if err != nil {
		log.WithError(err).Infoln("liquidate borrow failed")
		return nil, err
	}

	metrics.Lending().ObserveLiquidation(borrowedAsset, collateralAsset)
	log.WithField("seize_tokens", result.SeizeTokens).Infoln("borrow liquidated")
	return result, nil
}

// Seize moves seizeTokens of the borrower's claims in collateral. The
// protocol share is burned and its underlying value added to reserves, the
// liquidator receives the rest.
func (s *service) Seize(ctx context.Context, state core.State, collateral, borrowed *core.Market, liquidator, borrower string, seizeTokens number.Amount) (*core.SeizeResult, error) {
	if err := s.comptroller.SeizeAllowed(ctx, state, collateral, borrowed, liquidator, borrower); err != nil {
		return nil, err
	}

	risk, err := state.FindRisk(ctx)
	if err != nil {
		return nil, core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	protocolTokens, liquidatorTokens, err := compound.SplitSeize(seizeTokens, risk.ProtocolSeizeShare)
	if err != nil {
		return nil, err
	}

	exchangeRate, err := s.markets.ExchangeRate(collateral)
	if err != nil {
		return nil, err
	}

	protocolAmount, err := exchangeRate.MulScalarTruncate(protocolTokens)
	if err != nil {
		return nil, core.FailWith(core.ErrMath, core.LiquidateSeizeTotalsCalculationFailed, err)
	}

	from, err := state.FindPosition(ctx, borrower, collateral.Asset)
	if err != nil {
		return nil, core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	to, err := state.FindPosition(ctx, liquidator, collateral.Asset)
	if err != nil {
		return nil, core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	if from.Claims, err = from.Claims.Sub(seizeTokens); err != nil {
		return nil, core.FailWith(core.ErrLiquidateSeizeTooMuch, core.LiquidateSeizeBalanceDecrementFailed, err)
	}

	if to.Claims, err = to.Claims.Add(liquidatorTokens); err != nil {
		return nil, core.FailWith(core.ErrMath, core.LiquidateSeizeBalanceIncrementFailed, err)
	}

	if collateral.TotalReserves, err = collateral.TotalReserves.Add(protocolAmount); err != nil {
		return nil, core.FailWith(core.ErrMath, core.LiquidateSeizeTotalsCalculationFailed, err)
	}

	if collateral.TotalSupply, err = collateral.TotalSupply.Sub(protocolTokens); err != nil {
		return nil, core.FailWith(core.ErrMath, core.LiquidateSeizeTotalsCalculationFailed, err)
	}

	if err := state.SaveMarket(ctx, collateral); err != nil {
		return nil, core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	for _, p := range []*core.Position{from, to} {
		if err := state.SavePosition(ctx, p); err != nil {
			return nil, core.FailWith(core.ErrStore, core.InfoNone, err)
		}
	}

	return &core.SeizeResult{
		SeizeTokens:      seizeTokens,
		LiquidatorTokens: liquidatorTokens,
		ProtocolTokens:   protocolTokens,
		ProtocolAmount:   protocolAmount,
	}, nil
}
