package cmd

import (
	"context"
	"errors"

	"comptroller/worker"
	"comptroller/worker/interest"
	"comptroller/worker/liquidity"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "run the liquidity scan and rate workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := signal.WithContext(cmd.Context())
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		s := provideServices()
		defer s.close()

		if err := bootstrap(ctx, s); err != nil {
			return err
		}

		return runWorkers(ctx, s)
	},
}

func runWorkers(ctx context.Context, s services) error {
	location := cfg.App.Location
	err := worker.Run(ctx,
		interest.New(location, s.states, s.markets, s.blocks),
		liquidity.New(location, s.states, s.accounts, s.blocks, s.cache, s.property),
	)
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
