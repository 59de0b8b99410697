package rest

import (
	"context"
	"net/http"

	"comptroller/core"
	"comptroller/handler/param"
	"comptroller/handler/render"
	"comptroller/handler/views"
	"comptroller/pkg/number"

	"github.com/fox-one/pkg/logger"
)

// allMarketsHandler lists listed markets accrued to the current block. The
// accrual is previewed in a view and never committed.
func allMarketsHandler(states core.StateStore, marketSrv core.IMarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var marketViews []views.Market
		err := states.View(ctx, func(ctx context.Context, state core.State) error {
			markets, err := state.ListMarkets(ctx)
			if err != nil {
				return core.FailWith(core.ErrStore, core.InfoNone, err)
			}

			marketViews = make([]views.Market, 0, len(markets))
			for _, m := range markets {
				if !m.IsListed {
					continue
				}

				if err := marketSrv.Accrue(ctx, state, m); err != nil {
					logger.FromContext(ctx).WithError(err).WithField("asset", m.Asset).Infoln("preview accrual")
				}

				marketViews = append(marketViews, getMarketView(m, marketSrv))
			}

			return nil
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, marketViews)
	}
}

func marketHandler(states core.StateStore, marketSrv core.IMarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		asset := param.URL(r, "asset")

		var view views.Market
		err := states.View(ctx, func(ctx context.Context, state core.State) error {
			market, err := marketSrv.LoadFresh(ctx, state, asset)
			if err != nil {
				return err
			}

			view = getMarketView(market, marketSrv)
			return nil
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, view)
	}
}

func getMarketView(market *core.Market, marketSrv core.IMarketService) views.Market {
	var rates views.MarketRates
	rates.ExchangeRate, _ = marketSrv.ExchangeRate(market)
	rates.UtilizationRate, _ = marketSrv.UtilizationRate(market)
	rates.BorrowRate, _ = marketSrv.BorrowRatePerBlock(market)
	rates.SupplyRate, _ = marketSrv.SupplyRatePerBlock(market)
	return views.MarketView(market, rates)
}

func riskHandler(registry core.IRegistryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		risk, err := registry.RiskParameters(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, risk)
	}
}

func eventsHandler(states core.StateStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			From  uint64 `json:"from"`
			Limit int    `json:"limit"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if params.Limit <= 0 || params.Limit > 500 {
			params.Limit = 100
		}

		var events []*core.Event
		err := states.View(r.Context(), func(ctx context.Context, state core.State) (err error) {
			events, err = state.ListEvents(ctx, params.From, params.Limit)
			return
		})
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, events)
	}
}

// priceHandler posts a price to oracles that accept posted prices
func priceHandler(oracle core.IPriceOracle, policy core.IAdminPolicy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Price number.Exp `json:"price"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if !policy.IsAdmin(caller(r)) {
			render.Error(w, core.Fail(core.ErrUnauthorized, core.InfoNone))
			return
		}

		setter, ok := oracle.(core.IPriceSetter)
		if !ok {
			render.Error(w, core.Fail(core.ErrPrice, core.InfoNone))
			return
		}

		asset := param.URL(r, "asset")
		if err := setter.SetUnderlyingPrice(r.Context(), asset, params.Price); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"asset": asset, "price": params.Price})
	}
}
