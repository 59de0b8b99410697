package registry

import (
	"context"
	"errors"

	"comptroller/core"
	"comptroller/pkg/number"

	"github.com/fox-one/pkg/logger"
)

// Bootstrap applies the configured risk parameters and lists the configured
// markets that are not listed yet. Listed markets are left untouched.
func Bootstrap(ctx context.Context, registry core.IRegistryService, caller string, cfg *core.Config) ([]*core.Market, error) {
	log := logger.FromContext(ctx)

	current, err := registry.RiskParameters(ctx)
	if err != nil {
		return nil, err
	}

	risk, err := cfg.Risk.Parameters(current)
	if err != nil {
		return nil, err
	}

	setters := []struct {
		old, new number.Exp
		set      func(ctx context.Context, caller string, v number.Exp) error
	}{
		{current.CloseFactor, risk.CloseFactor, registry.SetCloseFactor},
		{current.LiquidationIncentive, risk.LiquidationIncentive, registry.SetLiquidationIncentive},
		{current.ProtocolSeizeShare, risk.ProtocolSeizeShare, registry.SetProtocolSeizeShare},
		{current.MaxBorrowRate, risk.MaxBorrowRate, registry.SetMaxBorrowRate},
	}

	for _, s := range setters {
		if s.old.Equal(s.new) {
			continue
		}

		if err := s.set(ctx, caller, s.new); err != nil {
			return nil, err
		}
	}

	var listed []*core.Market
	for _, mc := range cfg.Markets {
		params, err := mc.Params()
		if err != nil {
			return listed, err
		}

		market, err := registry.SupportMarket(ctx, caller, params)
		if errors.Is(err, core.ErrMarketAlreadyListed) {
			log.WithField("asset", mc.Asset).Debugln("market already listed")
			continue
		} else if err != nil {
			return listed, err
		}

		listed = append(listed, market)
	}

	return listed, nil
}
