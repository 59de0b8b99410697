package core

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"comptroller/pkg/number"
)

// BorrowRateModel pluggable interest rate strategy. Implementations must be
// pure functions of the market aggregates.
type BorrowRateModel interface {
	// GetBorrowRate per block borrow rate
	GetBorrowRate(cash, borrows, reserves number.Amount) (number.Exp, error)
	// GetSupplyRate per block supply rate
	GetSupplyRate(cash, borrows, reserves number.Amount, reserveFactor number.Exp) (number.Exp, error)
}

// RateModelKind rate model variant
type RateModelKind string

const (
	RateModelWhitePaper RateModelKind = "whitepaper"
	RateModelJump       RateModelKind = "jump"
	RateModelTwoKink    RateModelKind = "two_kink"
	// RateModelFixed constant BaseRatePerYear regardless of utilization
	RateModelFixed RateModelKind = "fixed"
)

// RateModelConfig persisted rate model parameters, rates are per year
type RateModelConfig struct {
	Kind                  RateModelKind `json:"kind"`
	BaseRatePerYear       number.Exp    `json:"base_rate_per_year"`
	MultiplierPerYear     number.Exp    `json:"multiplier_per_year"`
	Kink                  number.Exp    `json:"kink,omitempty"`
	JumpMultiplierPerYear number.Exp    `json:"jump_multiplier_per_year,omitempty"`
	// two kink only
	Multiplier2PerYear number.Exp `json:"multiplier2_per_year,omitempty"`
	BaseRate2PerYear   number.Exp `json:"base_rate2_per_year,omitempty"`
	Kink2              number.Exp `json:"kink2,omitempty"`
}

func (c RateModelConfig) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}

	return string(b), nil
}

func (c *RateModelConfig) Scan(src interface{}) error {
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	case nil:
		*c = RateModelConfig{}
		return nil
	default:
		return fmt.Errorf("core: scan rate model from %T", src)
	}

	if len(b) == 0 {
		*c = RateModelConfig{}
		return nil
	}

	return json.Unmarshal(b, c)
}
