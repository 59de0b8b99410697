package rest

import (
	"context"
	"net/http"

	"comptroller/core"
	"comptroller/handler/param"
	"comptroller/handler/render"
	"comptroller/pkg/id"
	"comptroller/pkg/number"
)

// actionParams common body of the action endpoints. TraceID names the
// action so replays record the same event ids.
type actionParams struct {
	TraceID string        `json:"trace_id"`
	Asset   string        `json:"asset"`
	Amount  number.Amount `json:"amount"`
}

func bindAction(w http.ResponseWriter, r *http.Request, v interface{}, trace func() string) (context.Context, bool) {
	if err := param.Binding(r, v); err != nil {
		render.BadRequest(w, err)
		return nil, false
	}

	return id.WithTrace(r.Context(), trace()), true
}

func supplyHandler(supplySrv core.ISupplyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params actionParams
		ctx, ok := bindAction(w, r, &params, func() string { return params.TraceID })
		if !ok {
			return
		}

		claims, err := supplySrv.Mint(ctx, caller(r), params.Asset, params.Amount)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"claims": claims})
	}
}

func redeemHandler(supplySrv core.ISupplyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			TraceID string        `json:"trace_id"`
			Asset   string        `json:"asset"`
			Claims  number.Amount `json:"claims"`
		}
		ctx, ok := bindAction(w, r, &params, func() string { return params.TraceID })
		if !ok {
			return
		}

		amount, err := supplySrv.Redeem(ctx, caller(r), params.Asset, params.Claims)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"amount": amount})
	}
}

func redeemUnderlyingHandler(supplySrv core.ISupplyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params actionParams
		ctx, ok := bindAction(w, r, &params, func() string { return params.TraceID })
		if !ok {
			return
		}

		claims, err := supplySrv.RedeemUnderlying(ctx, caller(r), params.Asset, params.Amount)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"claims": claims})
	}
}

func transferHandler(supplySrv core.ISupplyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			TraceID string        `json:"trace_id"`
			Asset   string        `json:"asset"`
			To      string        `json:"to"`
			Claims  number.Amount `json:"claims"`
		}
		ctx, ok := bindAction(w, r, &params, func() string { return params.TraceID })
		if !ok {
			return
		}

		if err := supplySrv.Transfer(ctx, caller(r), params.To, params.Asset, params.Claims); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{})
	}
}

func borrowHandler(borrowSrv core.IBorrowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params actionParams
		ctx, ok := bindAction(w, r, &params, func() string { return params.TraceID })
		if !ok {
			return
		}

		if err := borrowSrv.Borrow(ctx, caller(r), params.Asset, params.Amount); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"amount": params.Amount})
	}
}

// repayHandler repays the caller's debt, or the borrower's when given.
// An amount of "-1" repays everything.
func repayHandler(borrowSrv core.IBorrowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			TraceID  string `json:"trace_id"`
			Asset    string `json:"asset"`
			Borrower string `json:"borrower"`
			Amount   string `json:"amount"`
		}
		ctx, ok := bindAction(w, r, &params, func() string { return params.TraceID })
		if !ok {
			return
		}

		amount := number.MaxAmount
		if params.Amount != "-1" {
			v, err := number.ParseAmount(params.Amount)
			if err != nil {
				render.BadRequest(w, err)
				return
			}
			amount = v
		}

		payer := caller(r)
		borrower := params.Borrower
		if borrower == "" {
			borrower = payer
		}

		repaid, err := borrowSrv.RepayBorrow(ctx, payer, borrower, params.Asset, amount)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"amount": repaid})
	}
}

func liquidateHandler(liquidationSrv core.ILiquidationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			TraceID         string        `json:"trace_id"`
			Borrower        string        `json:"borrower"`
			Asset           string        `json:"asset"`
			Amount          number.Amount `json:"amount"`
			CollateralAsset string        `json:"collateral_asset"`
		}
		ctx, ok := bindAction(w, r, &params, func() string { return params.TraceID })
		if !ok {
			return
		}

		result, err := liquidationSrv.LiquidateBorrow(ctx, caller(r), params.Borrower, params.Asset, params.Amount, params.CollateralAsset)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, result)
	}
}

func enterHandler(states core.StateStore, accountSrv core.IAccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			TraceID string   `json:"trace_id"`
			Assets  []string `json:"assets"`
		}
		ctx, ok := bindAction(w, r, &params, func() string { return params.TraceID })
		if !ok {
			return
		}

		account := caller(r)
		var entered []string
		err := states.Update(ctx, func(ctx context.Context, state core.State) (err error) {
			if err = accountSrv.EnterMarkets(ctx, state, account, params.Assets...); err != nil {
				return err
			}

			entered, err = state.AssetsIn(ctx, account)
			return
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"assets": entered})
	}
}

func exitHandler(states core.StateStore, accountSrv core.IAccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params actionParams
		ctx, ok := bindAction(w, r, &params, func() string { return params.TraceID })
		if !ok {
			return
		}

		account := caller(r)
		var entered []string
		err := states.Update(ctx, func(ctx context.Context, state core.State) (err error) {
			if err = accountSrv.ExitMarket(ctx, state, account, params.Asset); err != nil {
				return err
			}

			entered, err = state.AssetsIn(ctx, account)
			return
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		if entered == nil {
			entered = []string{}
		}
		render.JSON(w, render.H{"assets": entered})
	}
}

func accrueHandler(states core.StateStore, marketSrv core.IMarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params actionParams
		ctx, ok := bindAction(w, r, &params, func() string { return params.TraceID })
		if !ok {
			return
		}

		var market *core.Market
		err := states.Update(ctx, func(ctx context.Context, state core.State) (err error) {
			market, err = marketSrv.AccrueInterest(ctx, state, params.Asset)
			return
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, getMarketView(market, marketSrv))
	}
}

func addReservesHandler(reserveSrv core.IReserveService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params actionParams
		ctx, ok := bindAction(w, r, &params, func() string { return params.TraceID })
		if !ok {
			return
		}

		if err := reserveSrv.AddReserves(ctx, caller(r), params.Asset, params.Amount); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"amount": params.Amount})
	}
}
