package core

import (
	"context"
	"time"

	"comptroller/pkg/number"
)

// Market per-asset lending state and risk parameters
type Market struct {
	ID     uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Asset  string `sql:"size:64;unique_index:market_asset_idx" json:"asset"`
	Symbol string `sql:"size:20" json:"symbol"`
	// IsListed set once by SupportMarket and never cleared
	IsListed bool `json:"is_listed"`
	// CollateralFactor weight of supplied value when borrowing or redeeming, <= 0.9
	CollateralFactor number.Exp `sql:"type:varchar(80)" json:"collateral_factor"`
	// LiquidationThreshold weight of supplied value when checking liquidation eligibility, >= CollateralFactor
	LiquidationThreshold number.Exp `sql:"type:varchar(80)" json:"liquidation_threshold"`
	// SupplyCap max underlying equivalent of total supply, number.MaxAmount is unlimited
	SupplyCap number.Amount `sql:"type:varchar(80)" json:"supply_cap"`
	// BorrowCap max total borrows, number.MaxAmount is unlimited
	BorrowCap number.Amount `sql:"type:varchar(80)" json:"borrow_cap"`
	// TotalSupply outstanding claim tokens
	TotalSupply   number.Amount `sql:"type:varchar(80)" json:"total_supply"`
	TotalBorrows  number.Amount `sql:"type:varchar(80)" json:"total_borrows"`
	TotalReserves number.Amount `sql:"type:varchar(80)" json:"total_reserves"`
	Cash          number.Amount `sql:"type:varchar(80)" json:"cash"`
	// BorrowIndex starts at 1.0 and never decreases
	BorrowIndex  number.Exp `sql:"type:varchar(80)" json:"borrow_index"`
	AccrualBlock int64      `json:"accrual_block"`
	// ReserveFactor share of accrued interest routed to reserves
	ReserveFactor       number.Exp      `sql:"type:varchar(80)" json:"reserve_factor"`
	InitialExchangeRate number.Exp      `sql:"type:varchar(80)" json:"initial_exchange_rate"`
	RateModel           RateModelConfig `sql:"type:varchar(512)" json:"rate_model"`
	MintPaused          bool            `json:"mint_paused"`
	BorrowPaused        bool            `json:"borrow_paused"`
	TransferPaused      bool            `json:"transfer_paused"`
	SeizePaused         bool            `json:"seize_paused"`
	Version             int64           `sql:"default:0" json:"version"`
	CreatedAt           time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Clone returns a copy safe to mutate
func (m *Market) Clone() *Market {
	if m == nil {
		return nil
	}

	c := *m
	return &c
}

// Fresh reports whether the market has been accrued at block
func (m *Market) Fresh(block int64) bool {
	return m.AccrualBlock == block
}

// EffectiveLiquidationThreshold falls back to the collateral factor when unset
func (m *Market) EffectiveLiquidationThreshold() number.Exp {
	if m.LiquidationThreshold.IsZero() {
		return m.CollateralFactor
	}

	return m.LiquidationThreshold
}

// Action market action that can be paused
type Action int

const (
	_ Action = iota
	ActionMint
	ActionBorrow
	ActionTransfer
	ActionSeize
)

func (a Action) String() string {
	switch a {
	case ActionMint:
		return "mint"
	case ActionBorrow:
		return "borrow"
	case ActionTransfer:
		return "transfer"
	case ActionSeize:
		return "seize"
	default:
		return "unknown"
	}
}

// ParseAction parses a pausable action name
func ParseAction(s string) (Action, bool) {
	for _, a := range []Action{ActionMint, ActionBorrow, ActionTransfer, ActionSeize} {
		if a.String() == s {
			return a, true
		}
	}

	return 0, false
}

// Paused reports whether action is paused in this market
func (m *Market) Paused(action Action) bool {
	switch action {
	case ActionMint:
		return m.MintPaused
	case ActionBorrow:
		return m.BorrowPaused
	case ActionTransfer:
		return m.TransferPaused
	case ActionSeize:
		return m.SeizePaused
	default:
		return false
	}
}

// SetPaused toggles the pause flag of action
func (m *Market) SetPaused(action Action, paused bool) {
	switch action {
	case ActionMint:
		m.MintPaused = paused
	case ActionBorrow:
		m.BorrowPaused = paused
	case ActionTransfer:
		m.TransferPaused = paused
	case ActionSeize:
		m.SeizePaused = paused
	}
}

// IMarketStore market store interface
type IMarketStore interface {
	Find(ctx context.Context, asset string) (*Market, error)
	List(ctx context.Context) ([]*Market, error)
	Save(ctx context.Context, market *Market) error
}

// IMarketService interest accrual and freshness guard
type IMarketService interface {
	// AccrueInterest accrues the market of asset up to the current block
	AccrueInterest(ctx context.Context, state State, asset string) (*Market, error)
	// Accrue accrues market in place and persists it, idempotent per block
	Accrue(ctx context.Context, state State, market *Market) error
	// LoadFresh loads the listed market of asset and accrues it. Accrual
	// failures surface as ErrMarketNotFresh wrapping the cause.
	LoadFresh(ctx context.Context, state State, asset string) (*Market, error)
	// RequireFresh fails with ErrMarketNotFresh unless market is accrued at the current block
	RequireFresh(ctx context.Context, market *Market) error
	ExchangeRate(market *Market) (number.Exp, error)
	BorrowBalance(market *Market, position *Position) (number.Amount, error)
	UtilizationRate(market *Market) (number.Exp, error)
	BorrowRatePerBlock(market *Market) (number.Exp, error)
	SupplyRatePerBlock(market *Market) (number.Exp, error)
}
