package views

import (
	"comptroller/core"
	"comptroller/pkg/compound"
	"comptroller/pkg/number"

	"github.com/shopspring/decimal"
)

// Market market view, amounts and factors as decimal strings
type Market struct {
	Asset                string          `json:"asset"`
	Symbol               string          `json:"symbol"`
	CollateralFactor     decimal.Decimal `json:"collateral_factor"`
	LiquidationThreshold decimal.Decimal `json:"liquidation_threshold"`
	ReserveFactor        decimal.Decimal `json:"reserve_factor"`
	SupplyCap            string          `json:"supply_cap,omitempty"`
	BorrowCap            string          `json:"borrow_cap,omitempty"`
	TotalSupply          decimal.Decimal `json:"total_supply"`
	TotalBorrows         decimal.Decimal `json:"total_borrows"`
	TotalReserves        decimal.Decimal `json:"total_reserves"`
	Cash                 decimal.Decimal `json:"cash"`
	BorrowIndex          decimal.Decimal `json:"borrow_index"`
	AccrualBlock         int64           `json:"accrual_block"`
	ExchangeRate         decimal.Decimal `json:"exchange_rate"`
	UtilizationRate      decimal.Decimal `json:"utilization_rate"`
	BorrowRatePerBlock   decimal.Decimal `json:"borrow_rate_per_block"`
	SupplyRatePerBlock   decimal.Decimal `json:"supply_rate_per_block"`
	BorrowAPY            decimal.Decimal `json:"borrow_apy"`
	SupplyAPY            decimal.Decimal `json:"supply_apy"`

	RateModel core.RateModelConfig `json:"rate_model"`
	Paused    []string             `json:"paused,omitempty"`
}

// MarketRates rates derived from a market's aggregates
type MarketRates struct {
	ExchangeRate    number.Exp
	UtilizationRate number.Exp
	BorrowRate      number.Exp
	SupplyRate      number.Exp
}

// MarketView renders market with its current rates
func MarketView(market *core.Market, rates MarketRates) Market {
	view := Market{
		Asset:                market.Asset,
		Symbol:               market.Symbol,
		CollateralFactor:     market.CollateralFactor.Decimal(),
		LiquidationThreshold: market.EffectiveLiquidationThreshold().Decimal(),
		ReserveFactor:        market.ReserveFactor.Decimal(),
		SupplyCap:            capString(market.SupplyCap),
		BorrowCap:            capString(market.BorrowCap),
		TotalSupply:          market.TotalSupply.Decimal(),
		TotalBorrows:         market.TotalBorrows.Decimal(),
		TotalReserves:        market.TotalReserves.Decimal(),
		Cash:                 market.Cash.Decimal(),
		BorrowIndex:          market.BorrowIndex.Decimal(),
		AccrualBlock:         market.AccrualBlock,
		ExchangeRate:         rates.ExchangeRate.Decimal(),
		UtilizationRate:      rates.UtilizationRate.Decimal(),
		BorrowRatePerBlock:   rates.BorrowRate.Decimal(),
		SupplyRatePerBlock:   rates.SupplyRate.Decimal(),
		BorrowAPY:            perYear(rates.BorrowRate),
		SupplyAPY:            perYear(rates.SupplyRate),
		RateModel:            market.RateModel,
	}

	for _, action := range []core.Action{core.ActionMint, core.ActionBorrow, core.ActionTransfer, core.ActionSeize} {
		if market.Paused(action) {
			view.Paused = append(view.Paused, action.String())
		}
	}

	return view
}

// unlimited caps are omitted
func capString(cap number.Amount) string {
	if cap.IsMax() {
		return ""
	}

	return cap.String()
}

// apyPrecision decimal places of the per year rates
const apyPrecision = 8

// perYear per year rate of a per block rate, floored to apyPrecision
func perYear(rate number.Exp) decimal.Decimal {
	v, err := compound.PerYear(rate)
	if err != nil {
		return decimal.Zero
	}

	return number.Floor(v.Decimal(), apyPrecision)
}
