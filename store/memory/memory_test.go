package memory

import (
	"context"
	"errors"
	"testing"

	"comptroller/core"
	"comptroller/pkg/number"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateCommits(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.Update(ctx, func(ctx context.Context, state core.State) error {
		require.NoError(t, state.SaveMarket(ctx, &core.Market{Asset: "eth", IsListed: true}))
		p, _ := state.FindPosition(ctx, "alice", "eth")
		p.Claims = number.NewAmount(10)
		require.NoError(t, state.SavePosition(ctx, p))
		require.NoError(t, state.EnterMarket(ctx, "alice", "eth"))

		// reads observe earlier writes
		m, _ := state.FindMarket(ctx, "eth")
		assert.NotNil(t, m)
		return state.CreateEvent(ctx, &core.Event{Type: core.EventMint})
	})
	require.NoError(t, err)

	err = s.View(ctx, func(ctx context.Context, state core.State) error {
		m, _ := state.FindMarket(ctx, "eth")
		require.NotNil(t, m)
		assert.Equal(t, uint64(1), m.ID)

		p, _ := state.FindPosition(ctx, "alice", "eth")
		assert.Equal(t, number.NewAmount(10), p.Claims)

		assets, _ := state.AssetsIn(ctx, "alice")
		assert.Equal(t, []string{"eth"}, assets)

		events, _ := state.ListEvents(ctx, 0, 10)
		assert.Len(t, events, 1)
		return nil
	})
	require.NoError(t, err)
}

func TestUpdateRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")

	err := s.Update(ctx, func(ctx context.Context, state core.State) error {
		_ = state.SaveMarket(ctx, &core.Market{Asset: "eth"})
		_ = state.EnterMarket(ctx, "alice", "eth")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_ = s.View(ctx, func(ctx context.Context, state core.State) error {
		m, _ := state.FindMarket(ctx, "eth")
		assert.Nil(t, m)

		assets, _ := state.AssetsIn(ctx, "alice")
		assert.Empty(t, assets)
		return nil
	})
}

func TestViewNeverCommits(t *testing.T) {
	ctx := context.Background()
	s := New()

	_ = s.View(ctx, func(ctx context.Context, state core.State) error {
		return state.SaveMarket(ctx, &core.Market{Asset: "eth"})
	})

	_ = s.View(ctx, func(ctx context.Context, state core.State) error {
		markets, _ := state.ListMarkets(ctx)
		assert.Empty(t, markets)
		return nil
	})
}

func TestReentrancyRejected(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.Update(ctx, func(ctx context.Context, state core.State) error {
		return s.Update(ctx, func(ctx context.Context, state core.State) error {
			return nil
		})
	})
	assert.ErrorIs(t, err, core.ErrReentered)
}

func TestFindReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New()

	_ = s.Update(ctx, func(ctx context.Context, state core.State) error {
		return state.SaveMarket(ctx, &core.Market{Asset: "eth", Cash: number.NewAmount(1)})
	})

	_ = s.View(ctx, func(ctx context.Context, state core.State) error {
		m, _ := state.FindMarket(ctx, "eth")
		m.Cash = number.NewAmount(100)

		again, _ := state.FindMarket(ctx, "eth")
		assert.Equal(t, number.NewAmount(1), again.Cash)
		return nil
	})
}

func TestListBorrowersAndExit(t *testing.T) {
	ctx := context.Background()
	s := New()

	_ = s.Update(ctx, func(ctx context.Context, state core.State) error {
		for _, account := range []string{"bob", "alice", "carol"} {
			p, _ := state.FindPosition(ctx, account, "usdc")
			if account != "carol" {
				p.Principal = number.NewAmount(5)
			}
			_ = state.SavePosition(ctx, p)
			_ = state.EnterMarket(ctx, account, "usdc")
			_ = state.EnterMarket(ctx, account, "eth")
		}

		return state.ExitMarket(ctx, "alice", "usdc")
	})

	_ = s.View(ctx, func(ctx context.Context, state core.State) error {
		borrowers, _ := state.ListBorrowers(ctx)
		assert.Equal(t, []string{"alice", "bob"}, borrowers)

		assets, _ := state.AssetsIn(ctx, "alice")
		assert.Equal(t, []string{"eth"}, assets)
		return nil
	})
}

func TestCommitHooks(t *testing.T) {
	ctx := context.Background()
	s := New()

	var fired []string
	hook := func(name string) core.StateFunc {
		return func(ctx context.Context, _ core.State) error {
			core.OnCommit(ctx, func() { fired = append(fired, name) })
			return nil
		}
	}

	require.NoError(t, s.View(ctx, hook("view")))
	assert.Empty(t, fired)

	err := s.Update(ctx, func(ctx context.Context, state core.State) error {
		_ = hook("failed")(ctx, state)
		return errors.New("boom")
	})
	assert.Error(t, err)
	assert.Empty(t, fired)

	require.NoError(t, s.Update(ctx, hook("update")))
	assert.Equal(t, []string{"update"}, fired)
}
