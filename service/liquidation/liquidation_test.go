package liquidation_test

import (
	"context"
	"testing"

	"comptroller/core"
	"comptroller/internal/testutil"
	"comptroller/pkg/number"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup leaves alice borrowing 500 b against 1000 a at the limit
func setup(t *testing.T) *testutil.Fixture {
	f := testutil.New()
	f.List(t, "a", "0.5", "1")
	f.List(t, "b", "0", "1")
	f.Deposit(t, "bob", "b", 10000)
	f.Deposit(t, "alice", "a", 1000)
	require.NoError(t, f.Borrows.Borrow(context.Background(), "alice", "b", number.NewAmount(500)))
	return f
}

type snapshot struct {
	markets   []*core.Market
	positions []*core.Position
	events    int
}

func take(t *testing.T, f *testutil.Fixture) snapshot {
	var s snapshot
	err := f.Store.View(context.Background(), func(ctx context.Context, state core.State) error {
		for _, asset := range []string{"a", "b"} {
			m, err := state.FindMarket(ctx, asset)
			require.NoError(t, err)
			s.markets = append(s.markets, m)

			for _, account := range []string{"alice", "bob", "liquidator"} {
				p, err := state.FindPosition(ctx, account, asset)
				require.NoError(t, err)
				s.positions = append(s.positions, p)
			}
		}

		events, err := state.ListEvents(ctx, 0, 1000)
		s.events = len(events)
		return err
	})
	require.NoError(t, err)
	return s
}

func TestLiquidateBorrow(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.Liquidation.LiquidateBorrow(ctx, "liquidator", "alice", "b", number.NewAmount(250), "a")
	assert.ErrorIs(t, err, core.ErrInsufficientShortfall)

	f.SetPrice(t, "a", "0.8")

	_, err = f.Liquidation.LiquidateBorrow(ctx, "liquidator", "alice", "b", number.NewAmount(251), "a")
	assert.ErrorIs(t, err, core.ErrTooMuchRepay)

	_, err = f.Liquidation.LiquidateBorrow(ctx, "alice", "alice", "b", number.NewAmount(250), "a")
	assert.ErrorIs(t, err, core.ErrInvalidAccountPair)

	_, err = f.Liquidation.LiquidateBorrow(ctx, "liquidator", "alice", "b", number.MaxAmount, "a")
	assert.ErrorIs(t, err, core.ErrInvalidCloseAmount)

	result, err := f.Liquidation.LiquidateBorrow(ctx, "liquidator", "alice", "b", number.NewAmount(250), "a")
	require.NoError(t, err)

	// 250 * 1.08 * 1 / (0.8 * 1) = 337.5
	assert.Equal(t, number.NewAmount(250), result.RepayAmount)
	assert.Equal(t, number.NewAmount(337), result.SeizeTokens)
	assert.Equal(t, number.NewAmount(9), result.ProtocolTokens)
	assert.Equal(t, number.NewAmount(328), result.LiquidatorTokens)
	assert.Equal(t, number.NewAmount(9), result.ProtocolAmount)

	assert.Equal(t, number.NewAmount(663), f.Position(t, "alice", "a").Claims)
	assert.Equal(t, number.NewAmount(328), f.Position(t, "liquidator", "a").Claims)
	assert.Equal(t, number.NewAmount(250), f.Position(t, "alice", "b").Principal)

	a := f.Market(t, "a")
	assert.Equal(t, number.NewAmount(991), a.TotalSupply)
	assert.Equal(t, number.NewAmount(9), a.TotalReserves)

	b := f.Market(t, "b")
	assert.Equal(t, number.NewAmount(250), b.TotalBorrows)
	assert.Equal(t, number.NewAmount(9750), b.Cash)
}

func TestLiquidateBorrowIsAtomic(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	// 250 * 1.08 / 0.1 claims exceed alice's 1000
	f.SetPrice(t, "a", "0.1")
	before := take(t, f)

	_, err := f.Liquidation.LiquidateBorrow(ctx, "liquidator", "alice", "b", number.NewAmount(250), "a")
	assert.ErrorIs(t, err, core.ErrLiquidateSeizeTooMuch)
	assert.Equal(t, before, take(t, f))

	// seize paused fails after the repayment step
	f.SetPrice(t, "a", "0.8")
	require.NoError(t, f.Registry.SetPaused(ctx, testutil.Admin, "a", core.ActionSeize, true))
	before = take(t, f)

	_, err = f.Liquidation.LiquidateBorrow(ctx, "liquidator", "alice", "b", number.NewAmount(250), "a")
	assert.ErrorIs(t, err, core.ErrActionPaused)
	assert.Equal(t, before, take(t, f))
}

func TestLiquidateBorrowAccruesBothMarkets(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.SetPrice(t, "a", "0.8")
	f.Blocks.Advance(10)

	_, err := f.Liquidation.LiquidateBorrow(ctx, "liquidator", "alice", "b", number.NewAmount(200), "a")
	require.NoError(t, err)

	assert.Equal(t, int64(110), f.Market(t, "a").AccrualBlock)
	assert.Equal(t, int64(110), f.Market(t, "b").AccrualBlock)
}

func TestCalculateSeizeTokens(t *testing.T) {
	ctx := context.Background()
	f := testutil.New()
	f.List(t, "borrowed", "0", "0.00000002")
	_, err := f.Registry.SupportMarket(ctx, testutil.Admin, core.MarketParams{
		Asset:               "collateral",
		InitialExchangeRate: number.MustExp("0.2"),
		RateModel:           testutil.WhitePaper(),
	})
	require.NoError(t, err)
	f.SetPrice(t, "collateral", "1")
	require.NoError(t, f.Registry.SetLiquidationIncentive(ctx, testutil.Admin, number.ExpOne))

	err = f.Store.View(ctx, func(ctx context.Context, state core.State) error {
		borrowed, _ := state.FindMarket(ctx, "borrowed")
		collateral, _ := state.FindMarket(ctx, "collateral")

		// 1000 * 2e-8 / 0.2 truncates to nothing
		seize, err := f.Liquidation.CalculateSeizeTokens(ctx, state, borrowed, collateral, number.NewAmount(1000))
		require.NoError(t, err)
		assert.True(t, seize.IsZero())

		seize, err = f.Liquidation.CalculateSeizeTokens(ctx, state, borrowed, collateral, number.MustAmount("1000000000000"))
		require.NoError(t, err)
		assert.Equal(t, number.NewAmount(100000), seize)

		f.SetPrice(t, "collateral", "0")
		_, err = f.Liquidation.CalculateSeizeTokens(ctx, state, borrowed, collateral, number.NewAmount(1000))
		assert.ErrorIs(t, err, core.ErrPrice)
		return nil
	})
	require.NoError(t, err)
}
