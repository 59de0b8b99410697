package rest

import (
	"context"
	"errors"
	"net/http"

	"comptroller/core"
	"comptroller/handler/param"
	"comptroller/handler/render"
	"comptroller/pkg/number"
)

func supportMarketHandler(registry core.IRegistryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params core.MarketParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		market, err := registry.SupportMarket(r.Context(), caller(r), params)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, market)
	}
}

// expSetter handles the endpoints that set one fixed-point parameter of a market
func expSetter(set func(ctx context.Context, caller, asset string, v number.Exp) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Value number.Exp `json:"value"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := set(r.Context(), caller(r), param.URL(r, "asset"), params.Value); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"value": params.Value})
	}
}

func collateralFactorHandler(registry core.IRegistryService) http.HandlerFunc {
	return expSetter(registry.SetCollateralFactor)
}

func liquidationThresholdHandler(registry core.IRegistryService) http.HandlerFunc {
	return expSetter(registry.SetLiquidationThreshold)
}

func reserveFactorHandler(registry core.IRegistryService) http.HandlerFunc {
	return expSetter(registry.SetReserveFactor)
}

// riskSetter handles the endpoints that set one registry-wide parameter
func riskSetter(set func(ctx context.Context, caller string, v number.Exp) error) http.HandlerFunc {
	return expSetter(func(ctx context.Context, caller, _ string, v number.Exp) error {
		return set(ctx, caller, v)
	})
}

func closeFactorHandler(registry core.IRegistryService) http.HandlerFunc {
	return riskSetter(registry.SetCloseFactor)
}

func liquidationIncentiveHandler(registry core.IRegistryService) http.HandlerFunc {
	return riskSetter(registry.SetLiquidationIncentive)
}

func protocolSeizeShareHandler(registry core.IRegistryService) http.HandlerFunc {
	return riskSetter(registry.SetProtocolSeizeShare)
}

// capsHandler sets both caps, an omitted cap is unlimited
func capsHandler(registry core.IRegistryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			SupplyCap *number.Amount `json:"supply_cap"`
			BorrowCap *number.Amount `json:"borrow_cap"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		supplyCap, borrowCap := number.MaxAmount, number.MaxAmount
		if params.SupplyCap != nil {
			supplyCap = *params.SupplyCap
		}
		if params.BorrowCap != nil {
			borrowCap = *params.BorrowCap
		}

		if err := registry.SetMarketCaps(r.Context(), caller(r), param.URL(r, "asset"), supplyCap, borrowCap); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"supply_cap": supplyCap, "borrow_cap": borrowCap})
	}
}

func rateModelHandler(registry core.IRegistryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params core.RateModelConfig
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := registry.SetInterestRateModel(r.Context(), caller(r), param.URL(r, "asset"), params); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, params)
	}
}

func pauseHandler(registry core.IRegistryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Action string `json:"action"`
			Paused bool   `json:"paused"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		action, ok := core.ParseAction(params.Action)
		if !ok {
			render.BadRequest(w, errors.New("unknown action"))
			return
		}

		if err := registry.SetPaused(r.Context(), caller(r), param.URL(r, "asset"), action, params.Paused); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, params)
	}
}

func reduceReservesHandler(reserveSrv core.IReserveService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Amount number.Amount `json:"amount"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := reserveSrv.ReduceReserves(r.Context(), caller(r), param.URL(r, "asset"), params.Amount); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"amount": params.Amount})
	}
}
