package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"comptroller/handler"
	"comptroller/handler/rest"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run comptroller api server and workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := signal.WithContext(cmd.Context())
		ctx = logger.WithContext(ctx, logger.FromContext(ctx))

		s := provideServices()
		defer s.close()

		if err := bootstrap(ctx, s); err != nil {
			return err
		}

		svr := handler.New(rest.Services{
			States:      s.states,
			Blocks:      s.blocks,
			Markets:     s.markets,
			Accounts:    s.accounts,
			Registry:    s.registry,
			Supply:      s.supply,
			Borrows:     s.borrows,
			Liquidation: s.liquidation,
			Reserves:    s.reserves,
			Oracle:      s.oracle,
			Policy:      provideConfig(),
			Cache:       s.cache,
		}, rootCmd.Version)

		port, _ := cmd.Flags().GetInt("port")
		addr := fmt.Sprintf(":%d", port)
		server := &http.Server{
			Addr:    addr,
			Handler: logger.WithRequestID(middleware.Logger(svr.Handler())),
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logrus.Infoln("serve at", addr)
			if err := server.ListenAndServe(); err != http.ErrServerClosed {
				return err
			}

			return nil
		})

		g.Go(func() error {
			<-ctx.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logrus.WithError(err).Error("graceful shutdown server failed")
			}

			return nil
		})

		if noWorkers, _ := cmd.Flags().GetBool("no-workers"); !noWorkers {
			g.Go(func() error {
				return runWorkers(ctx, s)
			})
		}

		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 9000, "server port")
	serverCmd.Flags().Bool("no-workers", false, "serve the api only")
}
