package cmd

import (
	"context"

	"comptroller/core"
	"comptroller/service/registry"

	"github.com/fox-one/pkg/logger"
)

// bootstrap applies the configured risk parameters and lists the configured
// markets with the first admin as caller. A memory store starts empty, so
// this is how it gets its markets.
func bootstrap(ctx context.Context, s services) error {
	if len(cfg.Markets) == 0 && cfg.Risk == (core.Risk{}) {
		return nil
	}

	log := logger.FromContext(ctx)
	if len(cfg.Admins) == 0 {
		log.Warnln("risk or markets configured without admins, skip bootstrap")
		return nil
	}

	listed, err := registry.Bootstrap(ctx, s.registry, cfg.Admins[0], &cfg)
	if err != nil {
		return err
	}

	log.Infof("bootstrap: %d markets listed", len(listed))
	return nil
}
