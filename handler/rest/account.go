package rest

import (
	"context"
	"net/http"

	"comptroller/core"
	"comptroller/handler/param"
	"comptroller/handler/render"
	"comptroller/handler/views"
	"comptroller/pkg/number"
)

func liquidityHandler(states core.StateStore, blockSrv core.IBlockService, accountSrv core.IAccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		account := param.URL(r, "account")

		block, err := blockSrv.CurrentBlock(ctx)
		if err != nil {
			render.Error(w, err)
			return
		}

		var liquidity *core.AccountLiquidity
		err = states.View(ctx, func(ctx context.Context, state core.State) (err error) {
			liquidity, err = accountSrv.GetAccountLiquidity(ctx, state, account)
			return
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.LiquidityView(account, block, liquidity))
	}
}

func hypotheticalHandler(states core.StateStore, blockSrv core.IBlockService, accountSrv core.IAccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		account := param.URL(r, "account")

		var params struct {
			Asset        string        `json:"asset"`
			RedeemClaims number.Amount `json:"redeem_claims"`
			BorrowAmount number.Amount `json:"borrow_amount"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		block, err := blockSrv.CurrentBlock(ctx)
		if err != nil {
			render.Error(w, err)
			return
		}

		action := core.HypotheticalAction{
			Asset:        params.Asset,
			RedeemClaims: params.RedeemClaims,
			BorrowAmount: params.BorrowAmount,
		}

		var liquidity *core.AccountLiquidity
		err = states.View(ctx, func(ctx context.Context, state core.State) (err error) {
			liquidity, err = accountSrv.GetHypotheticalAccountLiquidity(ctx, state, account, action)
			return
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.LiquidityView(account, block, liquidity))
	}
}

func positionsHandler(states core.StateStore, accountSrv core.IAccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		account := param.URL(r, "account")

		var positionViews []views.Position
		err := states.View(ctx, func(ctx context.Context, state core.State) error {
			positions, err := state.ListPositions(ctx, account)
			if err != nil {
				return core.FailWith(core.ErrStore, core.InfoNone, err)
			}

			entered, err := state.AssetsIn(ctx, account)
			if err != nil {
				return core.FailWith(core.ErrStore, core.InfoNone, err)
			}

			positionViews = make([]views.Position, 0, len(positions))
			for _, p := range positions {
				snapshot, err := accountSrv.Snapshot(ctx, state, account, p.Asset)
				if err != nil {
					return err
				}

				positionViews = append(positionViews, views.PositionView(p.Asset, core.IsMember(entered, p.Asset), snapshot))
			}

			return nil
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, positionViews)
	}
}

// shortfallsHandler serves the last liquidity scan, or scans the borrowers
// now when no scan was cached
func shortfallsHandler(states core.StateStore, blockSrv core.IBlockService, accountSrv core.IAccountService, cache core.IAccountStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if cache != nil {
			block, accounts, err := cache.FindShortfalls(ctx)
			if err == nil && block > 0 {
				if accounts == nil {
					accounts = []string{}
				}
				render.JSON(w, views.Shortfalls{Block: block, Accounts: accounts})
				return
			}
		}

		block, err := blockSrv.CurrentBlock(ctx)
		if err != nil {
			render.Error(w, err)
			return
		}

		view := views.Shortfalls{Block: block, Accounts: []string{}}
		err = states.View(ctx, func(ctx context.Context, state core.State) error {
			borrowers, err := state.ListBorrowers(ctx)
			if err != nil {
				return core.FailWith(core.ErrStore, core.InfoNone, err)
			}

			for _, borrower := range borrowers {
				liquidity, err := accountSrv.GetLiquidationShortfall(ctx, state, borrower)
				if err != nil {
					return err
				}

				if !liquidity.Shortfall.IsZero() {
					view.Accounts = append(view.Accounts, borrower)
				}
			}

			return nil
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, view)
	}
}
