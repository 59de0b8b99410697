package interest

import (
	"context"
	"testing"

	"comptroller/internal/testutil"
	"comptroller/pkg/number"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewDoesNotCommit(t *testing.T) {
	ctx := context.Background()
	f := testutil.New()
	f.List(t, "a", "0.5", "1")
	f.List(t, "b", "0.5", "1")
	f.Deposit(t, "alice", "a", 1000)
	f.Deposit(t, "alice", "b", 1000)
	require.NoError(t, f.Borrows.Borrow(ctx, "alice", "a", number.NewAmount(250)))

	w := New("UTC", f.Store, f.Markets, f.Blocks)
	f.Blocks.Advance(5)
	require.NoError(t, w.onWork(ctx))
	assert.Equal(t, int64(105), w.last)

	rates, err := w.Preview(ctx)
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, "0.25", rates["a"].Utilization.String())
	assert.True(t, rates["b"].Utilization.IsZero())
	assert.False(t, rates["a"].BorrowRate.IsZero())

	assert.Equal(t, int64(100), f.Market(t, "a").AccrualBlock)
	assert.Equal(t, int64(100), f.Market(t, "b").AccrualBlock)
}
