package compound

import (
	"comptroller/core"
	"comptroller/pkg/number"
)

// UtilizationRate utilization rate
// utilization_rate = borrows / (cash + borrows - reserves)
func UtilizationRate(cash, borrows, reserves number.Amount) (number.Exp, error) {
	if borrows.IsZero() {
		return number.ExpZero, nil
	}

	total, err := cash.Add(borrows)
	if err != nil {
		return number.ExpZero, err
	}

	if total, err = total.Sub(reserves); err != nil {
		return number.ExpZero, err
	}

	return number.NewExp(borrows, total)
}

// ExchangeRate exchange rate of claims to underlying
// exchange_rate = (cash + borrows - reserves) / total_supply
func ExchangeRate(cash, borrows, reserves, totalSupply number.Amount, initial number.Exp) (number.Exp, error) {
	if totalSupply.IsZero() {
		if initial.IsZero() {
			return number.ExpOne, nil
		}

		return initial, nil
	}

	total, err := cash.Add(borrows)
	if err != nil {
		return number.ExpZero, core.FailWith(core.ErrMath, core.ExchangeRateCalculationFailed, err)
	}

	if total, err = total.Sub(reserves); err != nil {
		return number.ExpZero, core.FailWith(core.ErrMath, core.ExchangeRateCalculationFailed, err)
	}

	rate, err := number.NewExp(total, totalSupply)
	if err != nil {
		return number.ExpZero, core.FailWith(core.ErrMath, core.ExchangeRateCalculationFailed, err)
	}

	return rate, nil
}

// MarketExchangeRate exchange rate of market
func MarketExchangeRate(market *core.Market) (number.Exp, error) {
	return ExchangeRate(market.Cash, market.TotalBorrows, market.TotalReserves, market.TotalSupply, market.InitialExchangeRate)
}

// BorrowBalance current debt
// balance = principal * market_index / interest_index
func BorrowBalance(principal number.Amount, marketIndex, interestIndex number.Exp) (number.Amount, error) {
	if principal.IsZero() {
		return number.Amount{}, nil
	}

	if interestIndex.IsZero() {
		return principal, nil
	}

	principalTimesIndex, err := principal.Mul(number.AmountFromUint256(marketIndex.Mantissa()))
	if err != nil {
		return number.Amount{}, core.FailWith(core.ErrMath, core.BorrowBalanceCalculationFailed, err)
	}

	balance, err := principalTimesIndex.Div(number.AmountFromUint256(interestIndex.Mantissa()))
	if err != nil {
		return number.Amount{}, core.FailWith(core.ErrMath, core.BorrowBalanceCalculationFailed, err)
	}

	return balance, nil
}

// AccrueInput market aggregates before accrual
type AccrueInput struct {
	CurrentBlock  int64
	AccrualBlock  int64
	Cash          number.Amount
	TotalBorrows  number.Amount
	TotalReserves number.Amount
	BorrowIndex   number.Exp
	ReserveFactor number.Exp
	MaxBorrowRate number.Exp
	Model         core.BorrowRateModel
}

// AccrueResult market aggregates after accrual
type AccrueResult struct {
	BlockDelta          int64
	BorrowRate          number.Exp
	InterestAccumulated number.Amount
	TotalBorrows        number.Amount
	TotalReserves       number.Amount
	BorrowIndex         number.Exp
}

// Accrue applies simple interest for the blocks elapsed since the last accrual.
// Every failing step returns its own FailureInfo and nothing is partially applied.
func Accrue(in AccrueInput) (*AccrueResult, error) {
	if in.CurrentBlock < in.AccrualBlock {
		return nil, core.FailWith(core.ErrMath, core.AccrueInterestBlockDeltaCalculationFailed, number.ErrUnderflow)
	}

	result := &AccrueResult{
		BlockDelta:    in.CurrentBlock - in.AccrualBlock,
		TotalBorrows:  in.TotalBorrows,
		TotalReserves: in.TotalReserves,
		BorrowIndex:   in.BorrowIndex,
	}

	if result.BlockDelta == 0 {
		return result, nil
	}

	if in.Model == nil {
		return nil, core.Fail(core.ErrInterestRateModel, core.AccrueInterestBorrowRateCalculationFailed)
	}

	rate, err := in.Model.GetBorrowRate(in.Cash, in.TotalBorrows, in.TotalReserves)
	if err != nil {
		return nil, core.FailWith(core.ErrInterestRateModel, core.AccrueInterestBorrowRateCalculationFailed, err)
	}

	if rate.GreaterThan(in.MaxBorrowRate) {
		return nil, core.Fail(core.ErrBorrowRateTooHigh, core.AccrueInterestBorrowRateCalculationFailed)
	}

	result.BorrowRate = rate

	// simple_interest_factor = borrow_rate * block_delta
	simpleInterestFactor, err := rate.MulScalar(number.NewAmount(uint64(result.BlockDelta)))
	if err != nil {
		return nil, core.FailWith(core.ErrMath, core.AccrueInterestSimpleInterestFactorCalculationFailed, err)
	}

	// interest_accumulated = simple_interest_factor * total_borrows
	if result.InterestAccumulated, err = simpleInterestFactor.MulScalarTruncate(in.TotalBorrows); err != nil {
		return nil, core.FailWith(core.ErrMath, core.AccrueInterestAccumulatedInterestCalculationFailed, err)
	}

	if result.TotalBorrows, err = result.InterestAccumulated.Add(in.TotalBorrows); err != nil {
		return nil, core.FailWith(core.ErrMath, core.AccrueInterestNewTotalBorrowsCalculationFailed, err)
	}

	if result.TotalReserves, err = in.ReserveFactor.MulScalarTruncateAdd(result.InterestAccumulated, in.TotalReserves); err != nil {
		return nil, core.FailWith(core.ErrMath, core.AccrueInterestNewTotalReservesCalculationFailed, err)
	}

	// borrow_index = borrow_index + borrow_index * simple_interest_factor
	growth, err := simpleInterestFactor.Mul(in.BorrowIndex)
	if err != nil {
		return nil, core.FailWith(core.ErrMath, core.AccrueInterestNewBorrowIndexCalculationFailed, err)
	}

	if result.BorrowIndex, err = growth.Add(in.BorrowIndex); err != nil {
		return nil, core.FailWith(core.ErrMath, core.AccrueInterestNewBorrowIndexCalculationFailed, err)
	}

	return result, nil
}
