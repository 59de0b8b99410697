package cmd

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"comptroller/core"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/yiplee/structs"
)

var marketsCmd = &cobra.Command{
	Use:     "markets",
	Aliases: []string{"m"},
	Short:   "print listed markets",
	Example: heredoc.Doc(`
		$ comptroller markets
		$ comptroller markets --detail usdc
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s := provideServices()
		defer s.close()

		if err := bootstrap(ctx, s); err != nil {
			return err
		}

		var markets []*core.Market
		err := s.states.View(ctx, func(ctx context.Context, state core.State) error {
			list, err := state.ListMarkets(ctx)
			if err != nil {
				return err
			}

			for _, m := range list {
				if err := s.markets.Accrue(ctx, state, m); err != nil {
					return err
				}
				markets = append(markets, m)
			}

			return nil
		})
		if err != nil {
			return err
		}

		if detail, _ := cmd.Flags().GetString("detail"); detail != "" {
			for _, m := range markets {
				if m.Asset == detail {
					printMarket(cmd, m)
					return nil
				}
			}

			return core.Fail(core.ErrMarketNotListed, core.InfoNone)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ASSET\tSYMBOL\tCF\tCASH\tBORROWS\tRESERVES\tSUPPLY\tEXCHANGE RATE\tBORROW RATE\tBLOCK")
		for _, m := range markets {
			er, _ := s.markets.ExchangeRate(m)
			br, _ := s.markets.BorrowRatePerBlock(m)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
				m.Asset, m.Symbol, m.CollateralFactor, m.Cash, m.TotalBorrows, m.TotalReserves, m.TotalSupply, er, br, m.AccrualBlock)
		}

		return w.Flush()
	},
}

func printMarket(cmd *cobra.Command, m *core.Market) {
	fields := structs.Map(m)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%v\n", k, fields[k])
	}
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(marketsCmd)
	marketsCmd.Flags().String("detail", "", "print every field of one market")
}
