package reserve_test

import (
	"context"
	"testing"

	"comptroller/core"
	"comptroller/internal/testutil"
	"comptroller/pkg/number"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserves(t *testing.T) {
	ctx := context.Background()
	f := testutil.New()
	f.List(t, "eth", "0.5", "1")
	f.Deposit(t, "alice", "eth", 1000)

	assert.ErrorIs(t, f.Reserves.AddReserves(ctx, "bob", "eth", number.Amount{}), core.ErrInvalidAmount)
	require.NoError(t, f.Reserves.AddReserves(ctx, "bob", "eth", number.NewAmount(100)))

	m := f.Market(t, "eth")
	assert.Equal(t, number.NewAmount(100), m.TotalReserves)
	assert.Equal(t, number.NewAmount(1100), m.Cash)

	// reserves do not change what a claim is worth
	er, err := f.Markets.ExchangeRate(m)
	require.NoError(t, err)
	assert.Equal(t, number.ExpOne, er)

	assert.ErrorIs(t, f.Reserves.ReduceReserves(ctx, "bob", "eth", number.NewAmount(10)), core.ErrUnauthorized)
	assert.ErrorIs(t, f.Reserves.ReduceReserves(ctx, testutil.Admin, "eth", number.NewAmount(101)), core.ErrInsufficientBalance)
	require.NoError(t, f.Reserves.ReduceReserves(ctx, testutil.Admin, "eth", number.NewAmount(60)))

	m = f.Market(t, "eth")
	assert.Equal(t, number.NewAmount(40), m.TotalReserves)
	assert.Equal(t, number.NewAmount(1040), m.Cash)

	err = f.Store.View(ctx, func(ctx context.Context, state core.State) error {
		received, err := f.Treasury.Balance(ctx, state, "eth")
		require.NoError(t, err)
		assert.Equal(t, number.NewAmount(60), received)
		return nil
	})
	require.NoError(t, err)
}
