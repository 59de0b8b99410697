package cmd

import (
	"context"

	"comptroller/core"

	"github.com/spf13/cobra"
)

var liquidityCmd = &cobra.Command{
	Use:   "liquidity <account>",
	Short: "print the liquidity and shortfall of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		account := args[0]

		s := provideServices()
		defer s.close()

		if err := bootstrap(ctx, s); err != nil {
			return err
		}

		var borrow, liquidation *core.AccountLiquidity
		err := s.states.View(ctx, func(ctx context.Context, state core.State) (err error) {
			if borrow, err = s.accounts.GetAccountLiquidity(ctx, state, account); err != nil {
				return err
			}

			liquidation, err = s.accounts.GetLiquidationShortfall(ctx, state, account)
			return err
		})
		if err != nil {
			return err
		}

		cmd.Println("collateral:", borrow.Collateral)
		cmd.Println("borrows:   ", borrow.Borrows)
		cmd.Println("liquidity: ", borrow.Liquidity)
		cmd.Println("shortfall: ", borrow.Shortfall)
		cmd.Println("liquidatable shortfall:", liquidation.Shortfall)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(liquidityCmd)
}
