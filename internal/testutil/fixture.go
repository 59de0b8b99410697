// Package testutil wires the lending services over the memory store for
// tests.
package testutil

import (
	"context"
	"testing"

	"comptroller/core"
	"comptroller/pkg/number"
	"comptroller/service/account"
	"comptroller/service/block"
	"comptroller/service/borrow"
	"comptroller/service/comptroller"
	"comptroller/service/liquidation"
	"comptroller/service/market"
	"comptroller/service/oracle"
	"comptroller/service/registry"
	"comptroller/service/reserve"
	"comptroller/service/supply"
	"comptroller/service/treasury"
	"comptroller/store/memory"

	"github.com/stretchr/testify/require"
)

// Admin account allowed to call the registry
const Admin = "admin"

// Fixture lending core over process memory
type Fixture struct {
	Store       *memory.Store
	Blocks      *block.Manual
	Oracle      *oracle.Static
	Treasury    *treasury.Ledger
	Policy      core.IAdminPolicy
	Markets     core.IMarketService
	Accounts    core.IAccountService
	Comptroller core.IComptrollerService
	Registry    core.IRegistryService
	Supply      core.ISupplyService
	Borrows     core.IBorrowService
	Liquidation core.ILiquidationService
	Reserves    core.IReserveService
}

// New fixture at block 100
func New() *Fixture {
	f := &Fixture{
		Store:    memory.New(),
		Blocks:   block.NewManual(100),
		Oracle:   oracle.NewStatic(nil),
		Treasury: treasury.New(),
	}

	policy := &core.Config{Admins: []string{Admin}}
	f.Policy = policy
	f.Markets = market.New(f.Blocks, nil)
	f.Accounts = account.New(f.Markets, f.Blocks, f.Oracle)
	f.Comptroller = comptroller.New(f.Markets, f.Accounts, f.Oracle)
	f.Registry = registry.New(f.Store, policy, f.Oracle, f.Blocks, f.Markets)
	f.Supply = supply.New(f.Store, f.Markets, f.Comptroller)
	f.Borrows = borrow.New(f.Store, f.Markets, f.Accounts, f.Comptroller)
	f.Liquidation = liquidation.New(f.Store, f.Markets, f.Borrows, f.Comptroller, f.Oracle)
	f.Reserves = reserve.New(f.Store, f.Markets, policy, f.Treasury)
	return f
}

// WhitePaper a gentle default rate model
func WhitePaper() core.RateModelConfig {
	return core.RateModelConfig{
		Kind:              core.RateModelWhitePaper,
		BaseRatePerYear:   number.MustExp("0.02"),
		MultiplierPerYear: number.MustExp("0.1"),
	}
}

// List prices and lists asset with collateral factor cf
func (f *Fixture) List(t testing.TB, asset, cf, price string) *core.Market {
	ctx := context.Background()
	require.NoError(t, f.Oracle.SetUnderlyingPrice(ctx, asset, number.MustExp(price)))

	m, err := f.Registry.SupportMarket(ctx, Admin, core.MarketParams{
		Asset:            asset,
		Symbol:           asset,
		CollateralFactor: number.MustExp(cf),
		ReserveFactor:    number.MustExp("0.1"),
		RateModel:        WhitePaper(),
	})
	require.NoError(t, err)
	return m
}

// SetPrice moves the oracle price of asset
func (f *Fixture) SetPrice(t testing.TB, asset, price string) {
	require.NoError(t, f.Oracle.SetUnderlyingPrice(context.Background(), asset, number.MustExp(price)))
}

// Enter enters account into assets
func (f *Fixture) Enter(t testing.TB, account string, assets ...string) {
	err := f.Store.Update(context.Background(), func(ctx context.Context, state core.State) error {
		return f.Accounts.EnterMarkets(ctx, state, account, assets...)
	})
	require.NoError(t, err)
}

// Deposit mints amount and enters the market
func (f *Fixture) Deposit(t testing.TB, account, asset string, amount uint64) number.Amount {
	claims, err := f.Supply.Mint(context.Background(), account, asset, number.NewAmount(amount))
	require.NoError(t, err)
	f.Enter(t, account, asset)
	return claims
}

// Market committed market state of asset, without accruing
func (f *Fixture) Market(t testing.TB, asset string) *core.Market {
	var m *core.Market
	err := f.Store.View(context.Background(), func(ctx context.Context, state core.State) (err error) {
		m, err = state.FindMarket(ctx, asset)
		return
	})
	require.NoError(t, err)
	return m
}

// Position committed position of account in asset
func (f *Fixture) Position(t testing.TB, account, asset string) *core.Position {
	var p *core.Position
	err := f.Store.View(context.Background(), func(ctx context.Context, state core.State) (err error) {
		p, err = state.FindPosition(ctx, account, asset)
		return
	})
	require.NoError(t, err)
	return p
}

// Liquidity account liquidity weighted by collateral factors
func (f *Fixture) Liquidity(t testing.TB, account string, action core.HypotheticalAction) *core.AccountLiquidity {
	var l *core.AccountLiquidity
	err := f.Store.View(context.Background(), func(ctx context.Context, state core.State) (err error) {
		l, err = f.Accounts.GetHypotheticalAccountLiquidity(ctx, state, account, action)
		return
	})
	require.NoError(t, err)
	return l
}
