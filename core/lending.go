package core

import (
	"context"

	"comptroller/pkg/number"
)

// ISupplyService supply side actions, each runs in its own unit of work
type ISupplyService interface {
	// Mint supplies amount and returns the claims minted
	Mint(ctx context.Context, account, asset string, amount number.Amount) (number.Amount, error)
	// Redeem burns claims and returns the underlying paid out
	Redeem(ctx context.Context, account, asset string, claims number.Amount) (number.Amount, error)
	// RedeemUnderlying pays out amount and returns the claims burned
	RedeemUnderlying(ctx context.Context, account, asset string, amount number.Amount) (number.Amount, error)
	Transfer(ctx context.Context, src, dst, asset string, claims number.Amount) error
}

// IBorrowService borrow side actions, each runs in its own unit of work
type IBorrowService interface {
	Borrow(ctx context.Context, account, asset string, amount number.Amount) error
	// RepayBorrow repays on behalf of borrower, number.MaxAmount repays everything
	RepayBorrow(ctx context.Context, payer, borrower, asset string, amount number.Amount) (number.Amount, error)
	BorrowBalance(ctx context.Context, account, asset string) (number.Amount, error)
	// RepayBorrowFresh repays inside the caller's unit of work, market must be fresh
	RepayBorrowFresh(ctx context.Context, state State, market *Market, payer, borrower string, amount number.Amount) (number.Amount, error)
}

// SeizeResult claims moved by a seize
type SeizeResult struct {
	SeizeTokens      number.Amount `json:"seize_tokens"`
	LiquidatorTokens number.Amount `json:"liquidator_tokens"`
	ProtocolTokens   number.Amount `json:"protocol_tokens"`
	ProtocolAmount   number.Amount `json:"protocol_amount"`
}

// LiquidationResult outcome of a liquidation
type LiquidationResult struct {
	Borrower        string        `json:"borrower"`
	Liquidator      string        `json:"liquidator"`
	BorrowedAsset   string        `json:"borrowed_asset"`
	CollateralAsset string        `json:"collateral_asset"`
	RepayAmount     number.Amount `json:"repay_amount"`
	SeizeResult
}

// ILiquidationService liquidation engine
type ILiquidationService interface {
	// CalculateSeizeTokens claims of collateral worth repayAmount of borrowed times the incentive
	CalculateSeizeTokens(ctx context.Context, state State, borrowed, collateral *Market, repayAmount number.Amount) (number.Amount, error)
	// LiquidateBorrow repays borrower's debt and seizes collateral in one unit of work
	LiquidateBorrow(ctx context.Context, liquidator, borrower, borrowedAsset string, repayAmount number.Amount, collateralAsset string) (*LiquidationResult, error)
	// Seize moves seizeTokens claims from borrower to liquidator and reserves
	Seize(ctx context.Context, state State, collateral, borrowed *Market, liquidator, borrower string, seizeTokens number.Amount) (*SeizeResult, error)
}

// IReserveService protocol reserves
type IReserveService interface {
	AddReserves(ctx context.Context, account, asset string, amount number.Amount) error
	// ReduceReserves moves amount of reserves to the treasury
	ReduceReserves(ctx context.Context, caller, asset string, amount number.Amount) error
}
