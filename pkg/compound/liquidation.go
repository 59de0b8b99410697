package compound

import (
	"comptroller/core"
	"comptroller/pkg/number"
)

// SeizeTokens collateral claims to seize for repayAmount of borrowed asset
//
//	seize_tokens = repay * incentive * price_borrowed / (price_collateral * exchange_rate)
func SeizeTokens(repayAmount number.Amount, incentive, priceBorrowed, priceCollateral, exchangeRate number.Exp) (number.Amount, error) {
	if priceBorrowed.IsZero() || priceCollateral.IsZero() {
		return number.Amount{}, core.Fail(core.ErrPrice, core.LiquidateCalculateSeizePriceMissing)
	}

	numerator, err := incentive.Mul(priceBorrowed)
	if err != nil {
		return number.Amount{}, core.FailWith(core.ErrMath, core.LiquidateCalculateSeizeNumeratorFailed, err)
	}

	denominator, err := priceCollateral.Mul(exchangeRate)
	if err != nil {
		return number.Amount{}, core.FailWith(core.ErrMath, core.LiquidateCalculateSeizeDenominatorFailed, err)
	}

	ratio, err := numerator.Div(denominator)
	if err != nil {
		return number.Amount{}, core.FailWith(core.ErrMath, core.LiquidateCalculateSeizeRatioFailed, err)
	}

	seizeTokens, err := ratio.MulScalarTruncate(repayAmount)
	if err != nil {
		return number.Amount{}, core.FailWith(core.ErrMath, core.LiquidateCalculateSeizeTokensFailed, err)
	}

	return seizeTokens, nil
}

// SplitSeize splits seized claims into the protocol share and the liquidator share
func SplitSeize(seizeTokens number.Amount, protocolShare number.Exp) (protocol, liquidator number.Amount, err error) {
	if protocol, err = protocolShare.MulScalarTruncate(seizeTokens); err != nil {
		return number.Amount{}, number.Amount{}, core.FailWith(core.ErrMath, core.LiquidateSeizeProtocolShareCalculationFailed, err)
	}

	if liquidator, err = seizeTokens.Sub(protocol); err != nil {
		return number.Amount{}, number.Amount{}, core.FailWith(core.ErrMath, core.LiquidateSeizeProtocolShareCalculationFailed, err)
	}

	return protocol, liquidator, nil
}

// MaxClose max repayable amount of debt in one liquidation
func MaxClose(closeFactor number.Exp, debt number.Amount) (number.Amount, error) {
	v, err := closeFactor.MulScalarTruncate(debt)
	if err != nil {
		return number.Amount{}, core.FailWith(core.ErrMath, core.LiquidateCloseAmountCalculationFailed, err)
	}

	return v, nil
}
