package state_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"comptroller/core"
	"comptroller/pkg/number"
	"comptroller/store/state"

	"github.com/fox-one/pkg/store/db"
	"github.com/fox-one/pkg/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openStore connects to the database described by COMPTROLLER_TEST_DB,
// a json encoded db config, e.g. {"dialect":"sqlite3","host":"/tmp/c.db"}
func openStore(t *testing.T) core.StateStore {
	raw := os.Getenv("COMPTROLLER_TEST_DB")
	if raw == "" {
		t.Skip("COMPTROLLER_TEST_DB not set")
	}

	var cfg db.Config
	require.NoError(t, json.Unmarshal([]byte(raw), &cfg))

	database := db.MustOpen(cfg)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.Migrate(database))

	return state.New(database)
}

func TestUpdateAndView(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	asset := uuid.New()
	account := uuid.New()

	err := s.Update(ctx, func(ctx context.Context, st core.State) error {
		if err := st.SaveMarket(ctx, &core.Market{Asset: asset, IsListed: true, BorrowIndex: number.ExpOne}); err != nil {
			return err
		}

		p, err := st.FindPosition(ctx, account, asset)
		if err != nil {
			return err
		}

		p.Claims = number.NewAmount(10)
		if err := st.SavePosition(ctx, p); err != nil {
			return err
		}

		return st.EnterMarket(ctx, account, asset)
	})
	require.NoError(t, err)

	err = s.View(ctx, func(ctx context.Context, st core.State) error {
		m, err := st.FindMarket(ctx, asset)
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.True(t, m.IsListed)

		p, err := st.FindPosition(ctx, account, asset)
		require.NoError(t, err)
		assert.Equal(t, number.NewAmount(10), p.Claims)

		assets, err := st.AssetsIn(ctx, account)
		require.NoError(t, err)
		assert.Equal(t, []string{asset}, assets)
		return nil
	})
	require.NoError(t, err)
}

func TestViewDiscardsWrites(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	asset := uuid.New()

	err := s.View(ctx, func(ctx context.Context, st core.State) error {
		return st.SaveMarket(ctx, &core.Market{Asset: asset, IsListed: true})
	})
	require.NoError(t, err)

	err = s.View(ctx, func(ctx context.Context, st core.State) error {
		m, err := st.FindMarket(ctx, asset)
		require.NoError(t, err)
		assert.Nil(t, m)
		return nil
	})
	require.NoError(t, err)
}

func TestUpdateRollsBackOnError(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	account := uuid.New()
	boom := errors.New("boom")

	err := s.Update(ctx, func(ctx context.Context, st core.State) error {
		_ = st.EnterMarket(ctx, account, "eth")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = s.View(ctx, func(ctx context.Context, st core.State) error {
		assets, err := st.AssetsIn(ctx, account)
		require.NoError(t, err)
		assert.Empty(t, assets)
		return nil
	})
	require.NoError(t, err)
}

func TestReentryRejected(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	err := s.Update(ctx, func(ctx context.Context, _ core.State) error {
		return s.View(ctx, func(context.Context, core.State) error { return nil })
	})
	assert.ErrorIs(t, err, core.ErrReentered)
}
