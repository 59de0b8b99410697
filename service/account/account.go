package account

import (
	"context"

	"comptroller/core"
	"comptroller/internal/eventlog"
	"comptroller/pkg/number"

	"github.com/fox-one/pkg/logger"
)

type accountService struct {
	marketService core.IMarketService
	blockService  core.IBlockService
	oracle        core.IPriceOracle
}

// New new account service
func New(
	marketSrv core.IMarketService,
	blockSrv core.IBlockService,
	oracle core.IPriceOracle,
) core.IAccountService {
	return &accountService{
		marketService: marketSrv,
		blockService:  blockSrv,
		oracle:        oracle,
	}
}

func (s *accountService) GetAccountLiquidity(ctx context.Context, state core.State, account string) (*core.AccountLiquidity, error) {
	return s.CalculateLiquidity(ctx, state, account, core.HypotheticalAction{}, core.WeightCollateralFactor)
}

func (s *accountService) GetHypotheticalAccountLiquidity(ctx context.Context, state core.State, account string, action core.HypotheticalAction) (*core.AccountLiquidity, error) {
	return s.CalculateLiquidity(ctx, state, account, action, core.WeightCollateralFactor)
}

func (s *accountService) GetLiquidationShortfall(ctx context.Context, state core.State, account string) (*core.AccountLiquidity, error) {
	return s.CalculateLiquidity(ctx, state, account, core.HypotheticalAction{}, core.WeightLiquidationThreshold)
}

// CalculateLiquidity sums weighted collateral and borrows over every entered
// market. A hypothetical redeem reduces collateral and a hypothetical borrow
// adds to borrows. A redeem worth more than the whole collateral leaves
// collateral at zero and the excess is counted as borrows.
//
//	tokens_to_denom = weight * exchange_rate * price
//	collateral     += tokens_to_denom * claims
//	borrows        += price * debt
//	redeemed       += tokens_to_denom * redeem_claims
//	borrows        += price * borrow_amount
//	collateral     -= redeemed
func (s *accountService) CalculateLiquidity(ctx context.Context, state core.State, account string, action core.HypotheticalAction, weight core.Weight) (*core.AccountLiquidity, error) {
	assets, err := state.AssetsIn(ctx, account)
	if err != nil {
		return nil, core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	var collateral, borrows, redeemed number.Amount
	for _, asset := range assets {
		market, err := s.marketService.LoadFresh(ctx, state, asset)
		if err != nil {
			return nil, err
		}

		position, err := state.FindPosition(ctx, account, asset)
		if err != nil {
			return nil, core.FailWith(core.ErrStore, core.InfoNone, err)
		}

		debt, err := s.marketService.BorrowBalance(market, position)
		if err != nil {
			return nil, err
		}

		exchangeRate, err := s.marketService.ExchangeRate(market)
		if err != nil {
			return nil, err
		}

		factor := market.CollateralFactor
		if weight == core.WeightLiquidationThreshold {
			factor = market.EffectiveLiquidationThreshold()
		}

		modified := asset == action.Asset
		contributes := (!position.Claims.IsZero() && !factor.IsZero()) || !debt.IsZero() ||
			(modified && (!action.RedeemClaims.IsZero() || !action.BorrowAmount.IsZero()))
		if !contributes {
			continue
		}

		price, err := s.oracle.GetUnderlyingPrice(ctx, asset)
		if err != nil {
			return nil, core.FailWith(core.ErrPrice, core.LiquidityPriceMissing, err)
		}

		if price.IsZero() {
			logger.FromContext(ctx).WithField("asset", asset).Infoln("price missing in liquidity calculation")
			return nil, core.Fail(core.ErrPrice, core.LiquidityPriceMissing)
		}

		tokensToDenom, err := factor.Mul(exchangeRate)
		if err == nil {
			tokensToDenom, err = tokensToDenom.Mul(price)
		}
		if err != nil {
			return nil, core.FailWith(core.ErrMath, core.LiquidityCollateralValueCalculationFailed, err)
		}

		if collateral, err = tokensToDenom.MulScalarTruncateAdd(position.Claims, collateral); err != nil {
			return nil, core.FailWith(core.ErrMath, core.LiquidityCollateralValueCalculationFailed, err)
		}

		if borrows, err = price.MulScalarTruncateAdd(debt, borrows); err != nil {
			return nil, core.FailWith(core.ErrMath, core.LiquidityBorrowValueCalculationFailed, err)
		}

		if !modified {
			continue
		}

		if redeemed, err = tokensToDenom.MulScalarTruncateAdd(action.RedeemClaims, redeemed); err != nil {
			return nil, core.FailWith(core.ErrMath, core.LiquidityCollateralValueCalculationFailed, err)
		}

		if borrows, err = price.MulScalarTruncateAdd(action.BorrowAmount, borrows); err != nil {
			return nil, core.FailWith(core.ErrMath, core.LiquidityBorrowValueCalculationFailed, err)
		}
	}

	if redeemed.GreaterThan(collateral) {
		excess := redeemed.SubFloor(collateral)
		if borrows, err = borrows.Add(excess); err != nil {
			return nil, core.FailWith(core.ErrMath, core.LiquidityBorrowValueCalculationFailed, err)
		}
	}
	collateral = collateral.SubFloor(redeemed)

	return &core.AccountLiquidity{
		Collateral: collateral,
		Borrows:    borrows,
		Liquidity:  collateral.SubFloor(borrows),
		Shortfall:  borrows.SubFloor(collateral),
	}, nil
}

func (s *accountService) Snapshot(ctx context.Context, state core.State, account, asset string) (*core.BorrowSnapshot, error) {
	market, err := s.marketService.LoadFresh(ctx, state, asset)
	if err != nil {
		return nil, err
	}

	position, err := state.FindPosition(ctx, account, asset)
	if err != nil {
		return nil, core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	debt, err := s.marketService.BorrowBalance(market, position)
	if err != nil {
		return nil, err
	}

	exchangeRate, err := s.marketService.ExchangeRate(market)
	if err != nil {
		return nil, err
	}

	return &core.BorrowSnapshot{
		Claims:        position.Claims,
		BorrowBalance: debt,
		ExchangeRate:  exchangeRate,
	}, nil
}

func (s *accountService) EnterMarkets(ctx context.Context, state core.State, account string, assets ...string) error {
	block, err := s.blockService.CurrentBlock(ctx)
	if err != nil {
		return err
	}

	entered, err := state.AssetsIn(ctx, account)
	if err != nil {
		return core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	for _, asset := range assets {
		market, err := state.FindMarket(ctx, asset)
		if err != nil {
			return core.FailWith(core.ErrStore, core.InfoNone, err)
		}

		if market == nil || !market.IsListed {
			return core.Fail(core.ErrMarketNotListed, core.InfoNone)
		}

		if core.IsMember(entered, asset) {
			continue
		}

		if err := state.EnterMarket(ctx, account, asset); err != nil {
			return core.FailWith(core.ErrStore, core.InfoNone, err)
		}

		entered = append(entered, asset)
		if err := eventlog.Write(ctx, state, block, core.EventMarketEntered, asset, account, nil); err != nil {
			return err
		}
	}

	return nil
}

// ExitMarket removes asset from the account's collateral. The account must
// owe nothing there and stay solvent without the claims held there.
func (s *accountService) ExitMarket(ctx context.Context, state core.State, account, asset string) error {
	entered, err := state.AssetsIn(ctx, account)
	if err != nil {
		return core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	if !core.IsMember(entered, asset) {
		return nil
	}

	snapshot, err := s.Snapshot(ctx, state, account, asset)
	if err != nil {
		return err
	}

	if !snapshot.BorrowBalance.IsZero() {
		return core.Fail(core.ErrNonzeroBorrowBalance, core.InfoNone)
	}

	liquidity, err := s.GetHypotheticalAccountLiquidity(ctx, state, account, core.HypotheticalAction{
		Asset:        asset,
		RedeemClaims: snapshot.Claims,
	})
	if err != nil {
		return err
	}

	if !liquidity.Shortfall.IsZero() {
		return core.Fail(core.ErrInsufficientLiquidity, core.InfoNone)
	}

	if err := state.ExitMarket(ctx, account, asset); err != nil {
		return core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	block, err := s.blockService.CurrentBlock(ctx)
	if err != nil {
		return err
	}

	return eventlog.Write(ctx, state, block, core.EventMarketExited, asset, account, nil)
}
