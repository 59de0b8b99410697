package core

import (
	"context"

	"comptroller/pkg/number"
)

// MarketParams listing parameters of a new market
type MarketParams struct {
	Asset                string          `json:"asset" valid:"required"`
	Symbol               string          `json:"symbol"`
	CollateralFactor     number.Exp      `json:"collateral_factor"`
	LiquidationThreshold number.Exp      `json:"liquidation_threshold"`
	SupplyCap            *number.Amount  `json:"supply_cap,omitempty"`
	BorrowCap            *number.Amount  `json:"borrow_cap,omitempty"`
	ReserveFactor        number.Exp      `json:"reserve_factor"`
	InitialExchangeRate  number.Exp      `json:"initial_exchange_rate"`
	RateModel            RateModelConfig `json:"rate_model"`
}

// IRegistryService privileged market registry mutators. Every method
// checks the caller against the admin policy.
type IRegistryService interface {
	SupportMarket(ctx context.Context, caller string, params MarketParams) (*Market, error)
	SetCollateralFactor(ctx context.Context, caller, asset string, factor number.Exp) error
	SetLiquidationThreshold(ctx context.Context, caller, asset string, threshold number.Exp) error
	SetMarketCaps(ctx context.Context, caller, asset string, supplyCap, borrowCap number.Amount) error
	SetSupplyCap(ctx context.Context, caller, asset string, supplyCap number.Amount) error
	SetBorrowCap(ctx context.Context, caller, asset string, borrowCap number.Amount) error
	SetReserveFactor(ctx context.Context, caller, asset string, factor number.Exp) error
	SetInterestRateModel(ctx context.Context, caller, asset string, model RateModelConfig) error
	SetPaused(ctx context.Context, caller, asset string, action Action, paused bool) error
	SetCloseFactor(ctx context.Context, caller string, factor number.Exp) error
	SetLiquidationIncentive(ctx context.Context, caller string, incentive number.Exp) error
	SetProtocolSeizeShare(ctx context.Context, caller string, share number.Exp) error
	// SetMaxBorrowRate per block ceiling enforced by accrual
	SetMaxBorrowRate(ctx context.Context, caller string, rate number.Exp) error
	RiskParameters(ctx context.Context) (*RiskParameters, error)
}

// IAdminPolicy decides who may call the registry mutators
type IAdminPolicy interface {
	IsAdmin(account string) bool
}
