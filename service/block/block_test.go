package block

import (
	"context"
	"testing"
	"time"

	"comptroller/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBlock(t *testing.T) {
	ctx := context.Background()
	s := New(&core.Config{App: core.App{Genesis: 1603366002}})

	block, err := s.GetBlock(ctx, time.Unix(1603366002+15*7+3, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(7), block)

	_, err = s.GetBlock(ctx, time.Unix(1603366001, 0))
	assert.Error(t, err)

	current, err := s.CurrentBlock(ctx)
	require.NoError(t, err)
	assert.True(t, current > block)
}

func TestManual(t *testing.T) {
	m := NewManual(5)
	assert.Equal(t, int64(8), m.Advance(3))

	block, _ := m.CurrentBlock(context.Background())
	assert.Equal(t, int64(8), block)

	m.Set(100)
	block, _ = m.GetBlock(context.Background(), time.Now())
	assert.Equal(t, int64(100), block)
}
