package rest

import (
	"errors"
	"net/http"

	"comptroller/core"
	"comptroller/handler/auth"
	"comptroller/handler/render"
	"comptroller/handler/request"

	"github.com/go-chi/chi"
)

// Services lending services served by the rest api
type Services struct {
	States      core.StateStore
	Blocks      core.IBlockService
	Markets     core.IMarketService
	Accounts    core.IAccountService
	Registry    core.IRegistryService
	Supply      core.ISupplyService
	Borrows     core.IBorrowService
	Liquidation core.ILiquidationService
	Reserves    core.IReserveService
	Oracle      core.IPriceOracle
	Policy      core.IAdminPolicy
	// Cache holds the last liquidity scan, optional
	Cache core.IAccountStore
}

// Handle handle rest api request
func Handle(s Services) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Use(auth.HandleAuthentication())

	router.Get("/markets", allMarketsHandler(s.States, s.Markets))
	router.Get("/markets/{asset}", marketHandler(s.States, s.Markets))
	router.Get("/risk", riskHandler(s.Registry))
	router.Get("/events", eventsHandler(s.States))

	router.Route("/accounts/{account}", func(r chi.Router) {
		r.Get("/liquidity", liquidityHandler(s.States, s.Blocks, s.Accounts))
		r.Get("/hypothetical", hypotheticalHandler(s.States, s.Blocks, s.Accounts))
		r.Get("/positions", positionsHandler(s.States, s.Accounts))
	})
	router.Get("/shortfalls", shortfallsHandler(s.States, s.Blocks, s.Accounts, s.Cache))

	router.Route("/actions", func(r chi.Router) {
		r.Use(auth.HandleAuthenticated())
		r.Post("/supply", supplyHandler(s.Supply))
		r.Post("/redeem", redeemHandler(s.Supply))
		r.Post("/redeem-underlying", redeemUnderlyingHandler(s.Supply))
		r.Post("/transfer", transferHandler(s.Supply))
		r.Post("/borrow", borrowHandler(s.Borrows))
		r.Post("/repay", repayHandler(s.Borrows))
		r.Post("/liquidate", liquidateHandler(s.Liquidation))
		r.Post("/enter", enterHandler(s.States, s.Accounts))
		r.Post("/exit", exitHandler(s.States, s.Accounts))
		r.Post("/accrue", accrueHandler(s.States, s.Markets))
		r.Post("/add-reserves", addReservesHandler(s.Reserves))
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(auth.HandleAuthenticated())
		r.Post("/markets", supportMarketHandler(s.Registry))
		r.Post("/markets/{asset}/collateral-factor", collateralFactorHandler(s.Registry))
		r.Post("/markets/{asset}/liquidation-threshold", liquidationThresholdHandler(s.Registry))
		r.Post("/markets/{asset}/reserve-factor", reserveFactorHandler(s.Registry))
		r.Post("/markets/{asset}/caps", capsHandler(s.Registry))
		r.Post("/markets/{asset}/rate-model", rateModelHandler(s.Registry))
		r.Post("/markets/{asset}/pause", pauseHandler(s.Registry))
		r.Post("/markets/{asset}/reduce-reserves", reduceReservesHandler(s.Reserves))
		r.Post("/risk/close-factor", closeFactorHandler(s.Registry))
		r.Post("/risk/liquidation-incentive", liquidationIncentiveHandler(s.Registry))
		r.Post("/risk/protocol-seize-share", protocolSeizeShareHandler(s.Registry))
		r.Post("/prices/{asset}", priceHandler(s.Oracle, s.Policy))
	})

	return router
}

// caller account bound by auth.HandleAuthenticated
func caller(r *http.Request) string {
	account, _ := request.NewContext(r.Context()).GetCaller()
	return account
}
