package supply_test

import (
	"context"
	"testing"

	"comptroller/core"
	"comptroller/internal/testutil"
	"comptroller/pkg/number"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintRedeem(t *testing.T) {
	ctx := context.Background()
	f := testutil.New()
	f.List(t, "usdc", "0.5", "1")

	claims, err := f.Supply.Mint(ctx, "alice", "usdc", number.NewAmount(1000))
	require.NoError(t, err)
	assert.Equal(t, number.NewAmount(1000), claims)

	m := f.Market(t, "usdc")
	assert.Equal(t, number.NewAmount(1000), m.Cash)
	assert.Equal(t, number.NewAmount(1000), m.TotalSupply)

	amount, err := f.Supply.Redeem(ctx, "alice", "usdc", number.NewAmount(400))
	require.NoError(t, err)
	assert.Equal(t, number.NewAmount(400), amount)

	burned, err := f.Supply.RedeemUnderlying(ctx, "alice", "usdc", number.NewAmount(100))
	require.NoError(t, err)
	assert.Equal(t, number.NewAmount(100), burned)

	assert.Equal(t, number.NewAmount(500), f.Position(t, "alice", "usdc").Claims)
	assert.Equal(t, number.NewAmount(500), f.Market(t, "usdc").Cash)
}

func TestMintRejects(t *testing.T) {
	ctx := context.Background()
	f := testutil.New()
	f.List(t, "usdc", "0.5", "1")

	_, err := f.Supply.Mint(ctx, "alice", "usdc", number.Amount{})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = f.Supply.Mint(ctx, "alice", "dai", number.NewAmount(1))
	assert.ErrorIs(t, err, core.ErrMarketNotListed)

	require.NoError(t, f.Registry.SetSupplyCap(ctx, testutil.Admin, "usdc", number.NewAmount(1000)))
	_, err = f.Supply.Mint(ctx, "alice", "usdc", number.NewAmount(1001))
	assert.ErrorIs(t, err, core.ErrSupplyCapExceeded)

	_, err = f.Supply.Mint(ctx, "alice", "usdc", number.NewAmount(1000))
	assert.NoError(t, err)

	require.NoError(t, f.Registry.SetPaused(ctx, testutil.Admin, "usdc", core.ActionMint, true))
	_, err = f.Supply.Mint(ctx, "alice", "usdc", number.NewAmount(1))
	assert.ErrorIs(t, err, core.ErrActionPaused)
}

func TestRedeemKeepsAccountSolvent(t *testing.T) {
	ctx := context.Background()
	f := testutil.New()
	f.List(t, "a", "0.5", "1")
	f.List(t, "b", "0.5", "1")
	f.Deposit(t, "bob", "b", 10000)
	f.Deposit(t, "alice", "a", 1000)
	require.NoError(t, f.Borrows.Borrow(ctx, "alice", "b", number.NewAmount(400)))

	_, err := f.Supply.Redeem(ctx, "alice", "a", number.NewAmount(202))
	assert.ErrorIs(t, err, core.ErrInsufficientLiquidity)

	_, err = f.Supply.Redeem(ctx, "alice", "a", number.NewAmount(200))
	assert.NoError(t, err)

	_, err = f.Supply.Redeem(ctx, "bob", "b", number.NewAmount(9700))
	assert.ErrorIs(t, err, core.ErrInsufficientCash)

	_, err = f.Supply.Redeem(ctx, "carol", "b", number.NewAmount(1))
	assert.ErrorIs(t, err, core.ErrInsufficientBalance)
}

func TestRedeemUnderlyingRoundsClaimsUp(t *testing.T) {
	ctx := context.Background()
	f := testutil.New()
	_, err := f.Registry.SupportMarket(ctx, testutil.Admin, core.MarketParams{
		Asset:               "a",
		InitialExchangeRate: number.MustExp("0.3"),
		RateModel:           testutil.WhitePaper(),
	})
	require.NoError(t, err)

	claims, err := f.Supply.Mint(ctx, "alice", "a", number.NewAmount(1000))
	require.NoError(t, err)
	assert.Equal(t, number.NewAmount(3333), claims)

	// 333 claims are worth only 99
	burned, err := f.Supply.RedeemUnderlying(ctx, "alice", "a", number.NewAmount(100))
	require.NoError(t, err)
	assert.Equal(t, number.NewAmount(334), burned)
	assert.Equal(t, number.NewAmount(900), f.Market(t, "a").Cash)
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	f := testutil.New()
	f.List(t, "a", "0.5", "1")
	f.List(t, "b", "0.5", "1")
	f.Deposit(t, "bob", "b", 10000)
	f.Deposit(t, "alice", "a", 1000)
	require.NoError(t, f.Borrows.Borrow(ctx, "alice", "b", number.NewAmount(400)))

	assert.ErrorIs(t, f.Supply.Transfer(ctx, "alice", "alice", "a", number.NewAmount(1)), core.ErrInvalidAccountPair)
	assert.ErrorIs(t, f.Supply.Transfer(ctx, "alice", "carol", "a", number.NewAmount(202)), core.ErrInsufficientLiquidity)
	require.NoError(t, f.Supply.Transfer(ctx, "alice", "carol", "a", number.NewAmount(200)))

	assert.Equal(t, number.NewAmount(800), f.Position(t, "alice", "a").Claims)
	assert.Equal(t, number.NewAmount(200), f.Position(t, "carol", "a").Claims)
	assert.Equal(t, number.NewAmount(1000), f.Market(t, "a").TotalSupply)

	require.NoError(t, f.Registry.SetPaused(ctx, testutil.Admin, "a", core.ActionTransfer, true))
	assert.ErrorIs(t, f.Supply.Transfer(ctx, "carol", "alice", "a", number.NewAmount(1)), core.ErrActionPaused)
}
