package compound

import (
	"testing"

	"comptroller/core"
	"comptroller/pkg/number"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUtilizationRate(t *testing.T) {
	util, err := UtilizationRate(number.NewAmount(100), number.Amount{}, number.Amount{})
	require.NoError(t, err)
	assert.True(t, util.IsZero())

	util, err = UtilizationRate(number.NewAmount(60), number.NewAmount(50), number.NewAmount(10))
	require.NoError(t, err)
	assert.Equal(t, "0.5", util.String())
}

func TestPerBlock(t *testing.T) {
	assert.Equal(t, "0.000000047564687975", PerBlock(number.MustExp("0.1")).String())
}

func TestJumpRate(t *testing.T) {
	model, err := NewRateModel(core.RateModelConfig{
		Kind:                  core.RateModelJump,
		BaseRatePerYear:       number.MustExp("0.02"),
		MultiplierPerYear:     number.MustExp("0.1"),
		JumpMultiplierPerYear: number.MustExp("2"),
		Kink:                  number.MustExp("0.8"),
	})
	require.NoError(t, err)

	jump := model.(*JumpRate)

	// below kink, 50% utilization
	rate, err := model.GetBorrowRate(number.NewAmount(50), number.NewAmount(50), number.Amount{})
	require.NoError(t, err)
	expected, _ := linear(number.MustExp("0.5"), jump.BaseRatePerBlock, jump.MultiplierPerBlock)
	assert.Equal(t, expected, rate)

	// above kink, 90% utilization
	rate, err = model.GetBorrowRate(number.NewAmount(10), number.NewAmount(90), number.Amount{})
	require.NoError(t, err)
	normal, _ := linear(number.MustExp("0.8"), jump.BaseRatePerBlock, jump.MultiplierPerBlock)
	expected, _ = linear(number.MustExp("0.1"), normal, jump.JumpMultiplierPerBlock)
	assert.Equal(t, expected, rate)
	assert.True(t, rate.GreaterThan(normal))
}

func TestTwoKink(t *testing.T) {
	model, err := NewRateModel(core.RateModelConfig{
		Kind:                  core.RateModelTwoKink,
		BaseRatePerYear:       number.MustExp("0.01"),
		MultiplierPerYear:     number.MustExp("0.1"),
		Kink:                  number.MustExp("0.5"),
		Multiplier2PerYear:    number.MustExp("0.5"),
		BaseRate2PerYear:      number.MustExp("0.01"),
		Kink2:                 number.MustExp("0.8"),
		JumpMultiplierPerYear: number.MustExp("3"),
	})
	require.NoError(t, err)

	low, err := model.GetBorrowRate(number.NewAmount(70), number.NewAmount(30), number.Amount{})
	require.NoError(t, err)
	mid, err := model.GetBorrowRate(number.NewAmount(40), number.NewAmount(60), number.Amount{})
	require.NoError(t, err)
	high, err := model.GetBorrowRate(number.NewAmount(10), number.NewAmount(90), number.Amount{})
	require.NoError(t, err)

	assert.True(t, low.LessThan(mid))
	assert.True(t, mid.LessThan(high))

	_, err = NewRateModel(core.RateModelConfig{Kind: core.RateModelTwoKink, Kink: number.MustExp("0.9"), Kink2: number.MustExp("0.8")})
	assert.Error(t, err)
}

func TestSupplyRate(t *testing.T) {
	model := NewWhitePaper(number.MustExp("0.05"), number.MustExp("0.45"))

	borrowRate, err := model.GetBorrowRate(number.NewAmount(50), number.NewAmount(50), number.Amount{})
	require.NoError(t, err)

	supply, err := model.GetSupplyRate(number.NewAmount(50), number.NewAmount(50), number.Amount{}, number.MustExp("0.1"))
	require.NoError(t, err)

	// 0.5 * borrow_rate * 0.9
	rateToPool, _ := borrowRate.Mul(number.MustExp("0.9"))
	expected, _ := number.MustExp("0.5").Mul(rateToPool)
	assert.Equal(t, expected, supply)

	_, err = model.GetSupplyRate(number.NewAmount(50), number.NewAmount(50), number.Amount{}, number.MustExp("1.1"))
	assert.ErrorIs(t, err, number.ErrUnderflow)
}

func TestNewRateModelUnknown(t *testing.T) {
	_, err := NewRateModel(core.RateModelConfig{Kind: "nope"})
	assert.Error(t, err)
}
