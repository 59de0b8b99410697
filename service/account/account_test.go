package account_test

import (
	"context"
	"testing"

	"comptroller/core"
	"comptroller/internal/testutil"
	"comptroller/pkg/number"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountLiquiditySingleMarket(t *testing.T) {
	f := testutil.New()
	f.List(t, "usdc", "0.5", "1")
	f.Deposit(t, "alice", "usdc", 1000000)

	l := f.Liquidity(t, "alice", core.HypotheticalAction{})
	assert.Equal(t, number.NewAmount(500000), l.Liquidity)
	assert.True(t, l.Shortfall.IsZero())

	l = f.Liquidity(t, "alice", core.HypotheticalAction{
		Asset:        "usdc",
		BorrowAmount: number.NewAmount(1000000),
	})
	assert.True(t, l.Liquidity.IsZero())
	assert.Equal(t, number.NewAmount(500000), l.Shortfall)
}

func TestAccountLiquidityMultipleMarkets(t *testing.T) {
	f := testutil.New()
	f.List(t, "a", "0.5", "3")
	f.List(t, "b", "0.666", "2.718")
	f.List(t, "c", "0", "1")

	f.Deposit(t, "alice", "a", 1000000)
	f.Deposit(t, "alice", "b", 1000)
	f.Enter(t, "alice", "c")

	// floor(1e6*0.5*3 + 1e3*0.666*2.718)
	l := f.Liquidity(t, "alice", core.HypotheticalAction{})
	assert.Equal(t, number.NewAmount(1501810), l.Liquidity)
	assert.True(t, l.Shortfall.IsZero())
}

func TestAccountLiquidityIgnoresMarketsNotEntered(t *testing.T) {
	f := testutil.New()
	f.List(t, "a", "0.5", "1")

	_, err := f.Supply.Mint(context.Background(), "alice", "a", number.NewAmount(1000))
	require.NoError(t, err)

	l := f.Liquidity(t, "alice", core.HypotheticalAction{})
	assert.True(t, l.Liquidity.IsZero())
	assert.True(t, l.Shortfall.IsZero())
}

func TestAccountLiquidityRequiresPrice(t *testing.T) {
	f := testutil.New()
	f.List(t, "a", "0.5", "1")
	f.List(t, "b", "0", "1")
	f.Deposit(t, "alice", "a", 1000)
	f.Enter(t, "alice", "b")

	// b contributes nothing, a zero price there is irrelevant
	f.SetPrice(t, "b", "0")
	l := f.Liquidity(t, "alice", core.HypotheticalAction{})
	assert.Equal(t, number.NewAmount(500), l.Liquidity)

	f.SetPrice(t, "a", "0")
	err := f.Store.View(context.Background(), func(ctx context.Context, state core.State) error {
		_, err := f.Accounts.GetAccountLiquidity(ctx, state, "alice")
		return err
	})
	assert.ErrorIs(t, err, core.ErrPrice)
	assert.Equal(t, core.LiquidityPriceMissing, core.InfoOf(err))
}

func TestLiquidationShortfallUsesThreshold(t *testing.T) {
	ctx := context.Background()
	f := testutil.New()
	f.List(t, "a", "0.5", "1")
	f.List(t, "b", "0", "1")
	require.NoError(t, f.Registry.SetLiquidationThreshold(ctx, testutil.Admin, "a", number.MustExp("0.8")))

	f.Deposit(t, "bob", "b", 10000)
	f.Deposit(t, "alice", "a", 1000)
	require.NoError(t, f.Borrows.Borrow(ctx, "alice", "b", number.NewAmount(500)))

	f.SetPrice(t, "a", "0.75")
	err := f.Store.View(ctx, func(ctx context.Context, state core.State) error {
		l, err := f.Accounts.GetAccountLiquidity(ctx, state, "alice")
		require.NoError(t, err)
		assert.Equal(t, number.NewAmount(125), l.Shortfall)

		l, err = f.Accounts.GetLiquidationShortfall(ctx, state, "alice")
		require.NoError(t, err)
		assert.Equal(t, number.NewAmount(100), l.Liquidity)
		assert.True(t, l.Shortfall.IsZero())
		return nil
	})
	require.NoError(t, err)
}

func TestExitMarket(t *testing.T) {
	ctx := context.Background()
	f := testutil.New()
	f.List(t, "a", "0.5", "1")
	f.List(t, "b", "0.5", "1")
	f.Deposit(t, "bob", "b", 10000)
	f.Deposit(t, "alice", "a", 1000)
	require.NoError(t, f.Borrows.Borrow(ctx, "alice", "b", number.NewAmount(400)))

	exit := func(asset string) error {
		return f.Store.Update(ctx, func(ctx context.Context, state core.State) error {
			return f.Accounts.ExitMarket(ctx, state, "alice", asset)
		})
	}

	assert.ErrorIs(t, exit("b"), core.ErrNonzeroBorrowBalance)
	assert.ErrorIs(t, exit("a"), core.ErrInsufficientLiquidity)

	_, err := f.Borrows.RepayBorrow(ctx, "alice", "alice", "b", number.MaxAmount)
	require.NoError(t, err)
	require.NoError(t, exit("a"))
	require.NoError(t, exit("b"))

	err = f.Store.View(ctx, func(ctx context.Context, state core.State) error {
		assets, err := state.AssetsIn(ctx, "alice")
		assert.Empty(t, assets)
		return err
	})
	require.NoError(t, err)
}

func TestEnterMarketsRequiresListing(t *testing.T) {
	f := testutil.New()
	err := f.Store.Update(context.Background(), func(ctx context.Context, state core.State) error {
		return f.Accounts.EnterMarkets(ctx, state, "alice", "unknown")
	})
	assert.ErrorIs(t, err, core.ErrMarketNotListed)
}

func TestAccountLiquidityRedeemReducesCollateral(t *testing.T) {
	f := testutil.New()
	f.List(t, "usdc", "0.5", "1")
	claims := f.Deposit(t, "alice", "usdc", 1000000)

	half, err := claims.Div(number.NewAmount(2))
	require.NoError(t, err)

	l := f.Liquidity(t, "alice", core.HypotheticalAction{
		Asset:        "usdc",
		RedeemClaims: half,
	})
	assert.Equal(t, number.NewAmount(250000), l.Collateral)
	assert.True(t, l.Borrows.IsZero())
	assert.Equal(t, number.NewAmount(250000), l.Liquidity)

	l = f.Liquidity(t, "alice", core.HypotheticalAction{
		Asset:        "usdc",
		RedeemClaims: claims,
		BorrowAmount: number.NewAmount(100000),
	})
	assert.True(t, l.Collateral.IsZero())
	assert.Equal(t, number.NewAmount(100000), l.Borrows)
	assert.Equal(t, number.NewAmount(100000), l.Shortfall)
}

func TestAccountLiquidityRedeemBeyondCollateral(t *testing.T) {
	f := testutil.New()
	f.List(t, "a", "0.5", "1")
	f.List(t, "b", "0.5", "1")
	f.Deposit(t, "alice", "a", 1000)
	f.Enter(t, "alice", "b")

	// 3000 * 0.5 redeemed against 500 of collateral
	l := f.Liquidity(t, "alice", core.HypotheticalAction{
		Asset:        "b",
		RedeemClaims: number.NewAmount(3000),
	})
	assert.True(t, l.Collateral.IsZero())
	assert.Equal(t, number.NewAmount(1000), l.Borrows)
	assert.Equal(t, number.NewAmount(1000), l.Shortfall)
}
