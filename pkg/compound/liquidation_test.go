package compound

import (
	"testing"

	"comptroller/core"
	"comptroller/pkg/number"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeizeTokens(t *testing.T) {
	t.Run("tiny borrowed price truncates to zero", func(t *testing.T) {
		// ratio = 1.0 * 2e-8 / (1.0 * 0.2) = 1e-7, 1000 * 1e-7 truncates to 0
		seize, err := SeizeTokens(
			number.NewAmount(1000),
			number.ExpOne,
			number.ExpFromMantissa(2e10),
			number.ExpFromMantissa(1e18),
			number.MustExp("0.2"),
		)
		require.NoError(t, err)
		assert.True(t, seize.IsZero())
	})

	t.Run("incentive applied", func(t *testing.T) {
		// 1000 * 1.1 * 2 / (1 * 0.2) = 11000
		seize, err := SeizeTokens(
			number.NewAmount(1000),
			number.MustExp("1.1"),
			number.MustExp("2"),
			number.ExpOne,
			number.MustExp("0.2"),
		)
		require.NoError(t, err)
		assert.Equal(t, "11000", seize.String())
	})

	t.Run("zero price", func(t *testing.T) {
		_, err := SeizeTokens(number.NewAmount(1000), number.ExpOne, number.ExpZero, number.ExpOne, number.ExpOne)
		assert.ErrorIs(t, err, core.ErrPrice)
	})

	t.Run("zero exchange rate", func(t *testing.T) {
		_, err := SeizeTokens(number.NewAmount(1000), number.ExpOne, number.ExpOne, number.ExpOne, number.ExpZero)
		assert.ErrorIs(t, err, core.ErrMath)
		assert.Equal(t, core.LiquidateCalculateSeizeRatioFailed, core.InfoOf(err))
	})

	t.Run("numerator overflow", func(t *testing.T) {
		huge := number.ExpFromUint256(number.MaxAmount.Uint256())
		_, err := SeizeTokens(number.NewAmount(1), huge, number.MustExp("2"), number.ExpOne, number.ExpOne)
		assert.ErrorIs(t, err, core.ErrMath)
		assert.Equal(t, core.LiquidateCalculateSeizeNumeratorFailed, core.InfoOf(err))
	})

	t.Run("seize overflow", func(t *testing.T) {
		_, err := SeizeTokens(number.MaxAmount, number.ExpOne, number.MustExp("2"), number.ExpOne, number.ExpOne)
		assert.ErrorIs(t, err, core.ErrMath)
		assert.Equal(t, core.LiquidateCalculateSeizeTokensFailed, core.InfoOf(err))
	})
}

func TestSplitSeize(t *testing.T) {
	protocol, liquidator, err := SplitSeize(number.NewAmount(11000), number.MustExp("0.028"))
	require.NoError(t, err)
	assert.Equal(t, "308", protocol.String())
	assert.Equal(t, "10692", liquidator.String())
}

func TestMaxClose(t *testing.T) {
	v, err := MaxClose(number.MustExp("0.5"), number.NewAmount(1001))
	require.NoError(t, err)
	assert.Equal(t, "500", v.String())
}
