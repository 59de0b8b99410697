package comptroller

import (
	"context"

	"comptroller/core"
	"comptroller/pkg/compound"
	"comptroller/pkg/number"
)

type service struct {
	markets  core.IMarketService
	accounts core.IAccountService
	oracle   core.IPriceOracle
}

// New new comptroller policy hooks
func New(
	markets core.IMarketService,
	accounts core.IAccountService,
	oracle core.IPriceOracle,
) core.IComptrollerService {
	return &service{
		markets:  markets,
		accounts: accounts,
		oracle:   oracle,
	}
}

func requireListed(markets ...*core.Market) error {
	for _, m := range markets {
		if m == nil || !m.IsListed {
			return core.Fail(core.ErrMarketNotListed, core.InfoNone)
		}
	}

	return nil
}

func (s *service) requireFresh(ctx context.Context, markets ...*core.Market) error {
	for _, m := range markets {
		if err := s.markets.RequireFresh(ctx, m); err != nil {
			return err
		}
	}

	return nil
}

func (s *service) MintAllowed(ctx context.Context, state core.State, market *core.Market, minter string, mintAmount number.Amount) error {
	if err := requireListed(market); err != nil {
		return err
	}

	if market.Paused(core.ActionMint) {
		return core.Fail(core.ErrActionPaused, core.InfoNone)
	}

	if err := s.requireFresh(ctx, market); err != nil {
		return err
	}

	if market.SupplyCap.IsMax() {
		return nil
	}

	exchangeRate, err := s.markets.ExchangeRate(market)
	if err != nil {
		return err
	}

	supplied, err := exchangeRate.MulScalarTruncateAdd(market.TotalSupply, mintAmount)
	if err != nil {
		return core.FailWith(core.ErrMath, core.CapCalculationFailed, err)
	}

	if supplied.GreaterThan(market.SupplyCap) {
		return core.Fail(core.ErrSupplyCapExceeded, core.InfoNone)
	}

	return nil
}

func (s *service) RedeemAllowed(ctx context.Context, state core.State, market *core.Market, redeemer string, redeemClaims number.Amount) error {
	if err := requireListed(market); err != nil {
		return err
	}

	if err := s.requireFresh(ctx, market); err != nil {
		return err
	}

	assets, err := state.AssetsIn(ctx, redeemer)
	if err != nil {
		return core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	// claims outside entered markets are not collateral
	if !core.IsMember(assets, market.Asset) {
		return nil
	}

	liquidity, err := s.accounts.GetHypotheticalAccountLiquidity(ctx, state, redeemer, core.HypotheticalAction{
		Asset:        market.Asset,
		RedeemClaims: redeemClaims,
	})
	if err != nil {
		return err
	}

	if !liquidity.Shortfall.IsZero() {
		return core.Fail(core.ErrInsufficientLiquidity, core.InfoNone)
	}

	return nil
}

// RedeemVerify forbids paying out underlying for zero claims
func (s *service) RedeemVerify(ctx context.Context, market *core.Market, redeemer string, redeemAmount, redeemClaims number.Amount) error {
	if redeemClaims.IsZero() && !redeemAmount.IsZero() {
		return core.Fail(core.ErrRedeemTokensZero, core.InfoNone)
	}

	return nil
}

func (s *service) BorrowAllowed(ctx context.Context, state core.State, market *core.Market, borrower string, borrowAmount number.Amount) error {
	if err := requireListed(market); err != nil {
		return err
	}

	if market.Paused(core.ActionBorrow) {
		return core.Fail(core.ErrActionPaused, core.InfoNone)
	}

	if err := s.requireFresh(ctx, market); err != nil {
		return err
	}

	assets, err := state.AssetsIn(ctx, borrower)
	if err != nil {
		return core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	if !core.IsMember(assets, market.Asset) {
		return core.Fail(core.ErrMarketNotEntered, core.InfoNone)
	}

	price, err := s.oracle.GetUnderlyingPrice(ctx, market.Asset)
	if err != nil {
		return core.FailWith(core.ErrPrice, core.InfoNone, err)
	}

	if price.IsZero() {
		return core.Fail(core.ErrPrice, core.InfoNone)
	}

	if !market.BorrowCap.IsMax() {
		borrows, err := market.TotalBorrows.Add(borrowAmount)
		if err != nil {
			return core.FailWith(core.ErrMath, core.CapCalculationFailed, err)
		}

		if borrows.GreaterThan(market.BorrowCap) {
			return core.Fail(core.ErrBorrowCapExceeded, core.InfoNone)
		}
	}

	liquidity, err := s.accounts.GetHypotheticalAccountLiquidity(ctx, state, borrower, core.HypotheticalAction{
		Asset:        market.Asset,
		BorrowAmount: borrowAmount,
	})
	if err != nil {
		return err
	}

	if !liquidity.Shortfall.IsZero() {
		return core.Fail(core.ErrInsufficientLiquidity, core.InfoNone)
	}

	return nil
}

func (s *service) RepayBorrowAllowed(ctx context.Context, state core.State, market *core.Market, payer, borrower string, repayAmount number.Amount) error {
	if err := requireListed(market); err != nil {
		return err
	}

	return s.requireFresh(ctx, market)
}

// LiquidateBorrowAllowed checks every liquidation precondition before any
// state changes, including the close factor cap on repayAmount
func (s *service) LiquidateBorrowAllowed(ctx context.Context, state core.State, borrowed, collateral *core.Market, liquidator, borrower string, repayAmount number.Amount) error {
	if err := requireListed(borrowed, collateral); err != nil {
		return err
	}

	if liquidator == borrower {
		return core.Fail(core.ErrInvalidAccountPair, core.InfoNone)
	}

	if repayAmount.IsZero() || repayAmount.IsMax() {
		return core.Fail(core.ErrInvalidCloseAmount, core.InfoNone)
	}

	if err := s.requireFresh(ctx, borrowed, collateral); err != nil {
		return err
	}

	shortfall, err := s.accounts.GetLiquidationShortfall(ctx, state, borrower)
	if err != nil {
		return err
	}

	if shortfall.Shortfall.IsZero() {
		return core.Fail(core.ErrInsufficientShortfall, core.InfoNone)
	}

	risk, err := state.FindRisk(ctx)
	if err != nil {
		return core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	position, err := state.FindPosition(ctx, borrower, borrowed.Asset)
	if err != nil {
		return core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	debt, err := s.markets.BorrowBalance(borrowed, position)
	if err != nil {
		return err
	}

	maxClose, err := compound.MaxClose(risk.CloseFactor, debt)
	if err != nil {
		return err
	}

	if repayAmount.GreaterThan(maxClose) {
		return core.Fail(core.ErrTooMuchRepay, core.InfoNone)
	}

	return nil
}

func (s *service) SeizeAllowed(ctx context.Context, state core.State, collateral, borrowed *core.Market, liquidator, borrower string) error {
	if err := requireListed(collateral, borrowed); err != nil {
		return err
	}

	if collateral.Paused(core.ActionSeize) {
		return core.Fail(core.ErrActionPaused, core.InfoNone)
	}

	if liquidator == borrower {
		return core.Fail(core.ErrInvalidAccountPair, core.InfoNone)
	}

	return s.requireFresh(ctx, collateral, borrowed)
}

func (s *service) TransferAllowed(ctx context.Context, state core.State, market *core.Market, src, dst string, claims number.Amount) error {
	if err := requireListed(market); err != nil {
		return err
	}

	if market.Paused(core.ActionTransfer) {
		return core.Fail(core.ErrActionPaused, core.InfoNone)
	}

	if src == dst {
		return core.Fail(core.ErrInvalidAccountPair, core.InfoNone)
	}

	return s.RedeemAllowed(ctx, state, market, src, claims)
}
