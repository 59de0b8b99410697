package cmd

import (
	"context"
	"testing"

	"comptroller/core"
	"comptroller/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapRiskWithoutMarkets(t *testing.T) {
	ctx := context.Background()
	f := testutil.New()

	saved := cfg
	t.Cleanup(func() { cfg = saved })

	cfg = core.Config{
		Admins: []string{testutil.Admin},
		Risk:   core.Risk{CloseFactor: "0.4"},
	}

	require.NoError(t, bootstrap(ctx, services{registry: f.Registry}))

	risk, err := f.Registry.RiskParameters(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0.4", risk.CloseFactor.String())
}

func TestBootstrapNothingConfigured(t *testing.T) {
	saved := cfg
	t.Cleanup(func() { cfg = saved })

	cfg = core.Config{}
	assert.NoError(t, bootstrap(context.Background(), services{}))
}
