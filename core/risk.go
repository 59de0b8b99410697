package core

import (
	"context"
	"time"

	"comptroller/pkg/number"
)

// RiskParameters registry-wide liquidation parameters
type RiskParameters struct {
	ID uint64 `sql:"PRIMARY_KEY" json:"-"`
	// CloseFactor max fraction of one market's debt repayable per liquidation, in (0, 1]
	CloseFactor number.Exp `sql:"type:varchar(80)" json:"close_factor"`
	// LiquidationIncentive multiplier on repaid value, >= 1
	LiquidationIncentive number.Exp `sql:"type:varchar(80)" json:"liquidation_incentive"`
	// ProtocolSeizeShare share of seized claims routed to reserves
	ProtocolSeizeShare number.Exp `sql:"type:varchar(80)" json:"protocol_seize_share"`
	// MaxBorrowRate per block borrow rate ceiling
	MaxBorrowRate number.Exp `sql:"type:varchar(80)" json:"max_borrow_rate"`
	Version       int64      `sql:"default:0" json:"version"`
	UpdatedAt     time.Time  `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

var (
	// CollateralFactorMax absolute ceiling of collateral factors
	CollateralFactorMax = number.MustExp("0.9")
	// DefaultMaxBorrowRate 0.0005 per block
	DefaultMaxBorrowRate = number.MustExp("0.0005")
)

// DefaultRiskParameters parameters used until the registry sets its own
func DefaultRiskParameters() *RiskParameters {
	return &RiskParameters{
		ID:                   1,
		CloseFactor:          number.MustExp("0.5"),
		LiquidationIncentive: number.MustExp("1.08"),
		ProtocolSeizeShare:   number.MustExp("0.028"),
		MaxBorrowRate:        DefaultMaxBorrowRate,
	}
}

func (r *RiskParameters) Clone() *RiskParameters {
	if r == nil {
		return nil
	}

	c := *r
	return &c
}

// IRiskStore risk parameter store interface
type IRiskStore interface {
	// Find returns nil when nothing was saved yet
	Find(ctx context.Context) (*RiskParameters, error)
	Save(ctx context.Context, risk *RiskParameters) error
}
