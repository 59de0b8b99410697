package supply

import (
	"context"

	"comptroller/core"
	"comptroller/internal/eventlog"
	"comptroller/pkg/metrics"
	"comptroller/pkg/number"

	"github.com/fox-one/pkg/logger"
)

type supplyService struct {
	states      core.StateStore
	markets     core.IMarketService
	comptroller core.IComptrollerService
}

// New new supply service
func New(
	states core.StateStore,
	markets core.IMarketService,
	comptroller core.IComptrollerService,
) core.ISupplyService {
	return &supplyService{
		states:      states,
		markets:     markets,
		comptroller: comptroller,
	}
}

// Mint supplies amount of underlying and mints claims at the current exchange rate
func (s *supplyService) Mint(ctx context.Context, account, asset string, amount number.Amount) (number.Amount, error) {
	log := logger.FromContext(ctx).WithField("account", account).WithField("asset", asset)

	var minted number.Amount
	err := s.states.Update(ctx, func(ctx context.Context, state core.State) error {
		if amount.IsZero() {
			return core.Fail(core.ErrInvalidAmount, core.InfoNone)
		}

		market, err := s.markets.LoadFresh(ctx, state, asset)
		if err != nil {
			return err
		}

		if err := s.comptroller.MintAllowed(ctx, state, market, account, amount); err != nil {
			return err
		}

		exchangeRate, err := s.markets.ExchangeRate(market)
		if err != nil {
			return err
		}

		claims, err := number.DivScalarByExpTruncate(amount, exchangeRate)
		if err != nil {
			return core.FailWith(core.ErrMath, core.MintExchangeCalculationFailed, err)
		}

		// nothing would be credited for the deposit
		if claims.IsZero() {
			return core.Fail(core.ErrInvalidAmount, core.MintExchangeCalculationFailed)
		}

		position, err := state.FindPosition(ctx, account, asset)
		if err != nil {
			return core.FailWith(core.ErrStore, core.InfoNone, err)
		}

		if market.TotalSupply, err = market.TotalSupply.Add(claims); err != nil {
			return core.FailWith(core.ErrMath, core.MintNewTotalsCalculationFailed, err)
		}

		if market.Cash, err = market.Cash.Add(amount); err != nil {
			return core.FailWith(core.ErrMath, core.MintNewTotalsCalculationFailed, err)
		}

		if position.Claims, err = position.Claims.Add(claims); err != nil {
			return core.FailWith(core.ErrMath, core.MintNewTotalsCalculationFailed, err)
		}

		if err := save(ctx, state, market, position); err != nil {
			return err
		}

		minted = claims
		data := core.EventData{}.
			Put("amount", amount).
			Put("claims", claims).
			Put("exchange_rate", exchangeRate)
		return eventlog.Write(ctx, state, market.AccrualBlock, core.EventMint, asset, account, data)
	})

	metrics.Lending().ObserveAction(core.EventMint.String(), err)
	if err != nil {
		log.WithError(err).Infoln("mint failed")
		return number.Amount{}, err
	}

	log.WithField("claims", minted).Debugln("minted")
	return minted, nil
}

func (s *supplyService) Redeem(ctx context.Context, account, asset string, claims number.Amount) (number.Amount, error) {
	if claims.IsZero() {
		return number.Amount{}, core.Fail(core.ErrInvalidAmount, core.InfoNone)
	}

	amount, _, err := s.redeem(ctx, account, asset, claims, number.Amount{})
	return amount, err
}

func (s *supplyService) RedeemUnderlying(ctx context.Context, account, asset string, amount number.Amount) (number.Amount, error) {
	if amount.IsZero() {
		return number.Amount{}, core.Fail(core.ErrInvalidAmount, core.InfoNone)
	}

	_, claims, err := s.redeem(ctx, account, asset, number.Amount{}, amount)
	return claims, err
}

// redeem burns claimsIn, or the claims worth amountIn when claimsIn is zero.
// Claims for amountIn round up so the pool never pays out more than it burns.
func (s *supplyService) redeem(ctx context.Context, account, asset string, claimsIn, amountIn number.Amount) (number.Amount, number.Amount, error) {
	log := logger.FromContext(ctx).WithField("account", account).WithField("asset", asset)

	var redeemAmount, redeemClaims number.Amount
	err := s.states.Update(ctx, func(ctx context.Context, state core.State) error {
		market, err := s.markets.LoadFresh(ctx, state, asset)
		if err != nil {
			return err
		}

		exchangeRate, err := s.markets.ExchangeRate(market)
		if err != nil {
			return err
		}

		if !claimsIn.IsZero() {
			redeemClaims = claimsIn
			if redeemAmount, err = exchangeRate.MulScalarTruncate(claimsIn); err != nil {
				return core.FailWith(core.ErrMath, core.RedeemExchangeCalculationFailed, err)
			}
		} else {
			redeemAmount = amountIn
			if redeemClaims, err = claimsFor(amountIn, exchangeRate); err != nil {
				return err
			}
		}

		if err := s.comptroller.RedeemAllowed(ctx, state, market, account, redeemClaims); err != nil {
			return err
		}

		position, err := state.FindPosition(ctx, account, asset)
		if err != nil {
			return core.FailWith(core.ErrStore, core.InfoNone, err)
		}

		if position.Claims.LessThan(redeemClaims) {
			return core.Fail(core.ErrInsufficientBalance, core.InfoNone)
		}

		if market.Cash.LessThan(redeemAmount) {
			return core.Fail(core.ErrInsufficientCash, core.InfoNone)
		}

		if err := s.comptroller.RedeemVerify(ctx, market, account, redeemAmount, redeemClaims); err != nil {
			return err
		}

		if market.TotalSupply, err = market.TotalSupply.Sub(redeemClaims); err != nil {
			return core.FailWith(core.ErrMath, core.RedeemNewTotalsCalculationFailed, err)
		}

		if position.Claims, err = position.Claims.Sub(redeemClaims); err != nil {
			return core.FailWith(core.ErrMath, core.RedeemNewTotalsCalculationFailed, err)
		}

		if market.Cash, err = market.Cash.Sub(redeemAmount); err != nil {
			return core.FailWith(core.ErrMath, core.RedeemNewTotalsCalculationFailed, err)
		}

		if err := save(ctx, state, market, position); err != nil {
			return err
		}

		data := core.EventData{}.
			Put("amount", redeemAmount).
			Put("claims", redeemClaims).
			Put("exchange_rate", exchangeRate)
		return eventlog.Write(ctx, state, market.AccrualBlock, core.EventRedeem, asset, account, data)
	})

	metrics.Lending().ObserveAction(core.EventRedeem.String(), err)
	if err != nil {
		log.WithError(err).Infoln("redeem failed")
		return number.Amount{}, number.Amount{}, err
	}

	return redeemAmount, redeemClaims, nil
}

// claimsFor smallest claim count worth at least amount
func claimsFor(amount number.Amount, exchangeRate number.Exp) (number.Amount, error) {
	claims, err := number.DivScalarByExpTruncate(amount, exchangeRate)
	if err != nil {
		return number.Amount{}, core.FailWith(core.ErrMath, core.RedeemExchangeCalculationFailed, err)
	}

	worth, err := exchangeRate.MulScalarTruncate(claims)
	if err != nil {
		return number.Amount{}, core.FailWith(core.ErrMath, core.RedeemExchangeCalculationFailed, err)
	}

	if worth.LessThan(amount) {
		if claims, err = claims.Add(number.NewAmount(1)); err != nil {
			return number.Amount{}, core.FailWith(core.ErrMath, core.RedeemExchangeCalculationFailed, err)
		}
	}

	return claims, nil
}

// Transfer moves claims between accounts, the source must stay solvent
func (s *supplyService) Transfer(ctx context.Context, src, dst, asset string, claims number.Amount) error {
	log := logger.FromContext(ctx).WithField("src", src).WithField("dst", dst).WithField("asset", asset)

	err := s.states.Update(ctx, func(ctx context.Context, state core.State) error {
		if claims.IsZero() {
			return core.Fail(core.ErrInvalidAmount, core.InfoNone)
		}

		market, err := s.markets.LoadFresh(ctx, state, asset)
		if err != nil {
			return err
		}

		if err := s.comptroller.TransferAllowed(ctx, state, market, src, dst, claims); err != nil {
			return err
		}

		from, err := state.FindPosition(ctx, src, asset)
		if err != nil {
			return core.FailWith(core.ErrStore, core.InfoNone, err)
		}

		to, err := state.FindPosition(ctx, dst, asset)
		if err != nil {
			return core.FailWith(core.ErrStore, core.InfoNone, err)
		}

		if from.Claims.LessThan(claims) {
			return core.Fail(core.ErrInsufficientBalance, core.InfoNone)
		}

		if from.Claims, err = from.Claims.Sub(claims); err != nil {
			return core.FailWith(core.ErrMath, core.TransferBalanceCalculationFailed, err)
		}

		if to.Claims, err = to.Claims.Add(claims); err != nil {
			return core.FailWith(core.ErrMath, core.TransferBalanceCalculationFailed, err)
		}

		if err := save(ctx, state, market, from, to); err != nil {
			return err
		}

		data := core.EventData{}.Put("to", dst).Put("claims", claims)
		return eventlog.Write(ctx, state, market.AccrualBlock, core.EventTransfer, asset, src, data)
	})

	metrics.Lending().ObserveAction(core.EventTransfer.String(), err)
	if err != nil {
		log.WithError(err).Infoln("transfer failed")
	}

	return err
}

func save(ctx context.Context, state core.State, market *core.Market, positions ...*core.Position) error {
	if err := state.SaveMarket(ctx, market); err != nil {
		return core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	for _, p := range positions {
		if err := state.SavePosition(ctx, p); err != nil {
			return core.FailWith(core.ErrStore, core.InfoNone, err)
		}
	}

	return nil
}
