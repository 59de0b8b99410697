package compound

import (
	"errors"
	"testing"

	"comptroller/core"
	"comptroller/pkg/number"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeRate(t *testing.T) {
	rate, err := ExchangeRate(number.NewAmount(100), number.NewAmount(50), number.NewAmount(50), number.Amount{}, number.MustExp("0.02"))
	require.NoError(t, err)
	assert.Equal(t, number.MustExp("0.02"), rate, "initial rate when supply is zero")

	rate, err = ExchangeRate(number.NewAmount(100), number.NewAmount(50), number.Amount{}, number.Amount{}, number.ExpZero)
	require.NoError(t, err)
	assert.Equal(t, number.ExpOne, rate)

	rate, err = ExchangeRate(number.NewAmount(100), number.NewAmount(50), number.NewAmount(50), number.NewAmount(500), number.ExpOne)
	require.NoError(t, err)
	assert.Equal(t, "0.2", rate.String())

	_, err = ExchangeRate(number.NewAmount(1), number.Amount{}, number.NewAmount(2), number.NewAmount(500), number.ExpOne)
	assert.ErrorIs(t, err, core.ErrMath)
	assert.Equal(t, core.ExchangeRateCalculationFailed, core.InfoOf(err))
}

func TestBorrowBalance(t *testing.T) {
	balance, err := BorrowBalance(number.NewAmount(1000), number.MustExp("1.1"), number.MustExp("1.0"))
	require.NoError(t, err)
	assert.Equal(t, "1100", balance.String())

	balance, err = BorrowBalance(number.Amount{}, number.MustExp("1.1"), number.MustExp("1.0"))
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	// truncates toward zero
	balance, err = BorrowBalance(number.NewAmount(10), number.MustExp("1.05"), number.MustExp("1.1"))
	require.NoError(t, err)
	assert.Equal(t, "9", balance.String())
}

func TestAccrue(t *testing.T) {
	in := AccrueInput{
		CurrentBlock:  110,
		AccrualBlock:  100,
		Cash:          number.NewAmount(1_000_000),
		TotalBorrows:  number.NewAmount(1_000_000),
		TotalReserves: number.Amount{},
		BorrowIndex:   number.ExpOne,
		ReserveFactor: number.MustExp("0.1"),
		MaxBorrowRate: core.DefaultMaxBorrowRate,
		Model:         &FixedRate{RatePerBlock: number.MustExp("0.0001")},
	}

	t.Run("applies simple interest", func(t *testing.T) {
		result, err := Accrue(in)
		require.NoError(t, err)
		assert.Equal(t, int64(10), result.BlockDelta)
		assert.Equal(t, "1000", result.InterestAccumulated.String())
		assert.Equal(t, "1001000", result.TotalBorrows.String())
		assert.Equal(t, "100", result.TotalReserves.String())
		assert.Equal(t, "1.001", result.BorrowIndex.String())
	})

	t.Run("no-op in the same block", func(t *testing.T) {
		same := in
		same.CurrentBlock = same.AccrualBlock
		same.Model = &FixedRate{Err: errors.New("must not be called")}

		result, err := Accrue(same)
		require.NoError(t, err)
		assert.Equal(t, in.TotalBorrows, result.TotalBorrows)
		assert.Equal(t, in.BorrowIndex, result.BorrowIndex)
	})

	t.Run("rate above ceiling", func(t *testing.T) {
		high := in
		high.Model = &FixedRate{RatePerBlock: number.MustExp("0.0006")}

		_, err := Accrue(high)
		assert.ErrorIs(t, err, core.ErrBorrowRateTooHigh)
	})

	t.Run("rate model failure", func(t *testing.T) {
		broken := in
		broken.Model = &FixedRate{Err: errors.New("boom")}

		_, err := Accrue(broken)
		assert.ErrorIs(t, err, core.ErrInterestRateModel)
	})

	t.Run("overflow reports the failing step", func(t *testing.T) {
		huge := in
		huge.TotalBorrows = number.MaxAmount

		_, err := Accrue(huge)
		assert.ErrorIs(t, err, core.ErrMath)
		assert.Equal(t, core.AccrueInterestAccumulatedInterestCalculationFailed, core.InfoOf(err))
	})

	t.Run("block going backwards", func(t *testing.T) {
		back := in
		back.CurrentBlock = 50

		_, err := Accrue(back)
		assert.ErrorIs(t, err, core.ErrMath)
		assert.Equal(t, core.AccrueInterestBlockDeltaCalculationFailed, core.InfoOf(err))
	})
}
