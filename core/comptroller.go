package core

import (
	"context"

	"comptroller/pkg/number"
)

// IComptrollerService policy hooks consulted by every economic action.
// The markets passed in must already be fresh.
type IComptrollerService interface {
	MintAllowed(ctx context.Context, state State, market *Market, minter string, mintAmount number.Amount) error
	RedeemAllowed(ctx context.Context, state State, market *Market, redeemer string, redeemClaims number.Amount) error
	RedeemVerify(ctx context.Context, market *Market, redeemer string, redeemAmount, redeemClaims number.Amount) error
	BorrowAllowed(ctx context.Context, state State, market *Market, borrower string, borrowAmount number.Amount) error
	RepayBorrowAllowed(ctx context.Context, state State, market *Market, payer, borrower string, repayAmount number.Amount) error
	LiquidateBorrowAllowed(ctx context.Context, state State, borrowed, collateral *Market, liquidator, borrower string, repayAmount number.Amount) error
	SeizeAllowed(ctx context.Context, state State, collateral, borrowed *Market, liquidator, borrower string) error
	TransferAllowed(ctx context.Context, state State, market *Market, src, dst string, claims number.Amount) error
}
