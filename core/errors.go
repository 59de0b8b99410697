package core

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000
	// ErrUnauthorized caller is not allowed to change risk parameters
	ErrUnauthorized ErrorCode = 100001
	// ErrReentered a unit of work was opened inside another one
	ErrReentered ErrorCode = 100002
	// ErrStore persistence failed
	ErrStore ErrorCode = 100003

	// ErrMath overflow, underflow or division by zero
	ErrMath ErrorCode = 100100

	// ErrPrice a required price is zero or unavailable
	ErrPrice ErrorCode = 100200

	// ErrMarketNotFresh market accrual block is behind the current block
	ErrMarketNotFresh ErrorCode = 100300

	// ErrMarketNotListed no such market
	ErrMarketNotListed ErrorCode = 100400
	// ErrMarketAlreadyListed market listed twice
	ErrMarketAlreadyListed ErrorCode = 100401
	// ErrInvalidMarket asset failed the market capability check
	ErrInvalidMarket ErrorCode = 100402
	// ErrInvalidAccountPair liquidator equals borrower
	ErrInvalidAccountPair ErrorCode = 100403
	// ErrInvalidCloseAmount zero or unlimited repay in liquidation
	ErrInvalidCloseAmount ErrorCode = 100404
	// ErrTooMuchRepay repay over close factor
	ErrTooMuchRepay ErrorCode = 100405
	// ErrInsufficientShortfall borrower is not liquidatable
	ErrInsufficientShortfall ErrorCode = 100406
	// ErrInsufficientLiquidity action would put the account in shortfall
	ErrInsufficientLiquidity ErrorCode = 100407
	// ErrInsufficientCash market cash can not cover the transfer out
	ErrInsufficientCash ErrorCode = 100408
	// ErrInsufficientBalance account balance can not cover the action
	ErrInsufficientBalance ErrorCode = 100409
	// ErrSupplyCapExceeded supply cap reached
	ErrSupplyCapExceeded ErrorCode = 100410
	// ErrBorrowCapExceeded borrow cap reached
	ErrBorrowCapExceeded ErrorCode = 100411
	// ErrInvalidCollateralFactor collateral factor out of bounds
	ErrInvalidCollateralFactor ErrorCode = 100412
	// ErrInvalidLiquidationThreshold liquidation threshold out of bounds
	ErrInvalidLiquidationThreshold ErrorCode = 100413
	// ErrInvalidCloseFactor close factor out of bounds
	ErrInvalidCloseFactor ErrorCode = 100414
	// ErrInvalidLiquidationIncentive liquidation incentive below 1
	ErrInvalidLiquidationIncentive ErrorCode = 100415
	// ErrInvalidReserveFactor reserve factor above 1
	ErrInvalidReserveFactor ErrorCode = 100416
	// ErrInvalidProtocolSeizeShare protocol seize share above 1
	ErrInvalidProtocolSeizeShare ErrorCode = 100417
	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100418
	// ErrActionPaused action paused by admin
	ErrActionPaused ErrorCode = 100419
	// ErrNonzeroBorrowBalance exit market with outstanding debt
	ErrNonzeroBorrowBalance ErrorCode = 100420
	// ErrLiquidateSeizeTooMuch seize more than the borrower holds
	ErrLiquidateSeizeTooMuch ErrorCode = 100421
	// ErrRedeemTokensZero nonzero redeem amount for zero claims
	ErrRedeemTokensZero ErrorCode = 100422
	// ErrMarketNotEntered borrow from a market the account has not entered
	ErrMarketNotEntered ErrorCode = 100423

	// ErrInterestRateModel the rate model failed
	ErrInterestRateModel ErrorCode = 100500
	// ErrBorrowRateTooHigh the rate model returned a rate above the ceiling
	ErrBorrowRateTooHigh ErrorCode = 100501
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}

	return e.String()
}

// ErrorKind groups error codes by how they arise
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindMath
	KindPrice
	KindFreshness
	KindPolicy
	KindRateModel
	KindStore
)

func (k ErrorKind) String() string {
	switch k {
	case KindMath:
		return "math"
	case KindPrice:
		return "price"
	case KindFreshness:
		return "freshness"
	case KindPolicy:
		return "policy"
	case KindRateModel:
		return "rate_model"
	case KindStore:
		return "store"
	default:
		return "unknown"
	}
}

// Kind reports the error kind of the code
func (e ErrorCode) Kind() ErrorKind {
	switch {
	case e == ErrStore:
		return KindStore
	case e == ErrUnauthorized || e == ErrReentered:
		return KindPolicy
	case e >= 100100 && e < 100200:
		return KindMath
	case e >= 100200 && e < 100300:
		return KindPrice
	case e >= 100300 && e < 100400:
		return KindFreshness
	case e >= 100400 && e < 100500:
		return KindPolicy
	case e >= 100500 && e < 100600:
		return KindRateModel
	default:
		return KindUnknown
	}
}

var errorMessages = map[ErrorCode]string{
	ErrUnknown:                     "unknown error",
	ErrUnauthorized:                "unauthorized",
	ErrReentered:                   "re-entered",
	ErrStore:                       "store failure",
	ErrMath:                        "math error",
	ErrPrice:                       "price error",
	ErrMarketNotFresh:              "market not fresh",
	ErrMarketNotListed:             "market not listed",
	ErrMarketAlreadyListed:         "market already listed",
	ErrInvalidMarket:               "invalid market",
	ErrInvalidAccountPair:          "invalid account pair",
	ErrInvalidCloseAmount:          "invalid close amount",
	ErrTooMuchRepay:                "too much repay",
	ErrInsufficientShortfall:       "insufficient shortfall",
	ErrInsufficientLiquidity:       "insufficient liquidity",
	ErrInsufficientCash:            "insufficient cash",
	ErrInsufficientBalance:         "insufficient balance",
	ErrSupplyCapExceeded:           "market supply cap reached",
	ErrBorrowCapExceeded:           "market borrow cap reached",
	ErrInvalidCollateralFactor:     "invalid collateral factor",
	ErrInvalidLiquidationThreshold: "invalid liquidation threshold",
	ErrInvalidCloseFactor:          "invalid close factor",
	ErrInvalidLiquidationIncentive: "invalid liquidation incentive",
	ErrInvalidReserveFactor:        "invalid reserve factor",
	ErrInvalidProtocolSeizeShare:   "invalid protocol seize share",
	ErrInvalidAmount:               "invalid amount",
	ErrActionPaused:                "action paused",
	ErrNonzeroBorrowBalance:        "nonzero borrow balance",
	ErrLiquidateSeizeTooMuch:       "liquidate seize too much",
	ErrRedeemTokensZero:            "redeem tokens zero",
	ErrMarketNotEntered:            "market not entered",
	ErrInterestRateModel:           "interest rate model error",
	ErrBorrowRateTooHigh:           "borrow rate is absurdly high",
}

// FailureInfo names the step that failed
type FailureInfo string

const (
	InfoNone FailureInfo = ""

	AccrueInterestBorrowRateCalculationFailed           FailureInfo = "accrue_interest_borrow_rate_calculation_failed"
	AccrueInterestBlockDeltaCalculationFailed           FailureInfo = "accrue_interest_block_delta_calculation_failed"
	AccrueInterestSimpleInterestFactorCalculationFailed FailureInfo = "accrue_interest_simple_interest_factor_calculation_failed"
	AccrueInterestAccumulatedInterestCalculationFailed  FailureInfo = "accrue_interest_accumulated_interest_calculation_failed"
	AccrueInterestNewTotalBorrowsCalculationFailed      FailureInfo = "accrue_interest_new_total_borrows_calculation_failed"
	AccrueInterestNewTotalReservesCalculationFailed     FailureInfo = "accrue_interest_new_total_reserves_calculation_failed"
	AccrueInterestNewBorrowIndexCalculationFailed       FailureInfo = "accrue_interest_new_borrow_index_calculation_failed"
	AccrueInterestNewSupplyRateCalculationFailed        FailureInfo = "accrue_interest_new_supply_rate_calculation_failed"
	ExchangeRateCalculationFailed                       FailureInfo = "exchange_rate_calculation_failed"
	BorrowBalanceCalculationFailed                      FailureInfo = "borrow_balance_calculation_failed"
	LiquidityCollateralValueCalculationFailed           FailureInfo = "liquidity_collateral_value_calculation_failed"
	LiquidityBorrowValueCalculationFailed               FailureInfo = "liquidity_borrow_value_calculation_failed"
	LiquidityPriceMissing                               FailureInfo = "liquidity_price_missing"
	LiquidateCalculateSeizeNumeratorFailed              FailureInfo = "liquidate_calculate_seize_numerator_failed"
	LiquidateCalculateSeizeDenominatorFailed            FailureInfo = "liquidate_calculate_seize_denominator_failed"
	LiquidateCalculateSeizeRatioFailed                  FailureInfo = "liquidate_calculate_seize_ratio_failed"
	LiquidateCalculateSeizeTokensFailed                 FailureInfo = "liquidate_calculate_seize_tokens_failed"
	LiquidateCalculateSeizePriceMissing                 FailureInfo = "liquidate_calculate_seize_price_missing"
	LiquidateCloseAmountCalculationFailed               FailureInfo = "liquidate_close_amount_calculation_failed"
	LiquidateSeizeProtocolShareCalculationFailed        FailureInfo = "liquidate_seize_protocol_share_calculation_failed"
	LiquidateSeizeBalanceDecrementFailed                FailureInfo = "liquidate_seize_balance_decrement_failed"
	LiquidateSeizeBalanceIncrementFailed                FailureInfo = "liquidate_seize_balance_increment_failed"
	LiquidateSeizeTotalsCalculationFailed               FailureInfo = "liquidate_seize_totals_calculation_failed"
	MintExchangeCalculationFailed                       FailureInfo = "mint_exchange_calculation_failed"
	MintNewTotalsCalculationFailed                      FailureInfo = "mint_new_totals_calculation_failed"
	RedeemExchangeCalculationFailed                     FailureInfo = "redeem_exchange_calculation_failed"
	RedeemNewTotalsCalculationFailed                    FailureInfo = "redeem_new_totals_calculation_failed"
	BorrowNewTotalsCalculationFailed                    FailureInfo = "borrow_new_totals_calculation_failed"
	RepayNewTotalsCalculationFailed                     FailureInfo = "repay_new_totals_calculation_failed"
	TransferBalanceCalculationFailed                    FailureInfo = "transfer_balance_calculation_failed"
	ReservesCalculationFailed                           FailureInfo = "reserves_calculation_failed"
	CapCalculationFailed                                FailureInfo = "cap_calculation_failed"
	SetCollateralFactorWithoutPrice                     FailureInfo = "set_collateral_factor_without_price"
)

// Error is the structured outcome of a failed core operation
type Error struct {
	Code ErrorCode
	Info FailureInfo
	Err  error
}

// Fail builds an Error without a cause
func Fail(code ErrorCode, info FailureInfo) *Error {
	return &Error{Code: code, Info: info}
}

// FailWith builds an Error wrapping cause
func FailWith(code ErrorCode, info FailureInfo, cause error) *Error {
	return &Error{Code: code, Info: info, Err: cause}
}

func (e *Error) Error() string {
	msg := e.Code.Error()
	if e.Info != InfoNone {
		msg = fmt.Sprintf("%s (%s)", msg, e.Info)
	}

	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches both *Error and bare ErrorCode targets by code
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case ErrorCode:
		return e.Code == t
	case *Error:
		return e.Code == t.Code && (t.Info == InfoNone || e.Info == t.Info)
	}

	return false
}

// CodeOf extracts the outermost error code of err
func CodeOf(err error) ErrorCode {
	if err == nil {
		return 0
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	var code ErrorCode
	if errors.As(err, &code) {
		return code
	}

	return ErrUnknown
}

// InfoOf extracts the failing step of err, if any
func InfoOf(err error) FailureInfo {
	var e *Error
	if errors.As(err, &e) {
		return e.Info
	}

	return InfoNone
}
