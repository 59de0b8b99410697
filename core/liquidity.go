package core

import (
	"context"

	"comptroller/pkg/number"
)

// AccountLiquidity result of the solvency calculation, at most one of
// Liquidity and Shortfall is nonzero
type AccountLiquidity struct {
	Collateral number.Amount `json:"collateral"`
	Borrows    number.Amount `json:"borrows"`
	Liquidity  number.Amount `json:"liquidity"`
	Shortfall  number.Amount `json:"shortfall"`
}

// Weight selects which factor weighs collateral
type Weight int

const (
	// WeightCollateralFactor used by borrow, redeem and exit checks
	WeightCollateralFactor Weight = iota
	// WeightLiquidationThreshold used by liquidation eligibility
	WeightLiquidationThreshold
)

// HypotheticalAction a what-if change applied to one market
type HypotheticalAction struct {
	Asset        string        `json:"asset"`
	RedeemClaims number.Amount `json:"redeem_claims"`
	BorrowAmount number.Amount `json:"borrow_amount"`
}

// IAccountService account liquidity calculator and market membership
type IAccountService interface {
	GetAccountLiquidity(ctx context.Context, state State, account string) (*AccountLiquidity, error)
	GetHypotheticalAccountLiquidity(ctx context.Context, state State, account string, action HypotheticalAction) (*AccountLiquidity, error)
	GetLiquidationShortfall(ctx context.Context, state State, account string) (*AccountLiquidity, error)
	CalculateLiquidity(ctx context.Context, state State, account string, action HypotheticalAction, weight Weight) (*AccountLiquidity, error)
	Snapshot(ctx context.Context, state State, account, asset string) (*BorrowSnapshot, error)
	EnterMarkets(ctx context.Context, state State, account string, assets ...string) error
	ExitMarket(ctx context.Context, state State, account, asset string) error
}

// IAccountStore cache of account liquidity per block
type IAccountStore interface {
	SaveLiquidity(ctx context.Context, account string, block int64, liquidity *AccountLiquidity) error
	FindLiquidity(ctx context.Context, account string, block int64) (*AccountLiquidity, error)
	SaveShortfalls(ctx context.Context, block int64, accounts []string) error
	FindShortfalls(ctx context.Context) (int64, []string, error)
}
