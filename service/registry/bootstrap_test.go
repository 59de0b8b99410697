package registry_test

import (
	"context"
	"testing"

	"comptroller/core"
	"comptroller/internal/testutil"
	"comptroller/pkg/number"
	"comptroller/service/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	f := testutil.New()
	f.SetPrice(t, "usdc", "1")

	cfg := &core.Config{
		Risk: core.Risk{
			CloseFactor:   "0.4",
			MaxBorrowRate: "0.0001",
		},
		Markets: []core.MarketConfig{
			{
				Asset:             "usdc",
				Symbol:            "USDC",
				CollateralFactor:  "0.8",
				ReserveFactor:     "0.1",
				SupplyCap:         "1000000",
				RateModel:         "jump",
				BaseRatePerYear:   "0.02",
				MultiplierPerYear: "0.1",
				Kink:              "0.8",
			},
			{
				Asset:         "dai",
				ReserveFactor: "0.1",
			},
		},
	}

	listed, err := registry.Bootstrap(ctx, f.Registry, testutil.Admin, cfg)
	require.NoError(t, err)
	require.Len(t, listed, 2)

	usdc := f.Market(t, "usdc")
	assert.Equal(t, "0.8", usdc.CollateralFactor.String())
	assert.Equal(t, "0.8", usdc.LiquidationThreshold.String())
	assert.Equal(t, number.NewAmount(1000000), usdc.SupplyCap)
	assert.True(t, usdc.BorrowCap.IsMax())
	assert.Equal(t, core.RateModelJump, usdc.RateModel.Kind)

	risk, err := f.Registry.RiskParameters(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0.4", risk.CloseFactor.String())
	assert.Equal(t, "0.0001", risk.MaxBorrowRate.String())
	assert.Equal(t, "1.08", risk.LiquidationIncentive.String())

	listed, err = registry.Bootstrap(ctx, f.Registry, testutil.Admin, cfg)
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, err = registry.Bootstrap(ctx, f.Registry, "alice", cfg)
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestBootstrapRiskOnly(t *testing.T) {
	ctx := context.Background()
	f := testutil.New()

	cfg := &core.Config{
		Risk: core.Risk{CloseFactor: "0.4"},
	}

	listed, err := registry.Bootstrap(ctx, f.Registry, testutil.Admin, cfg)
	require.NoError(t, err)
	assert.Empty(t, listed)

	risk, err := f.Registry.RiskParameters(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0.4", risk.CloseFactor.String())
}
