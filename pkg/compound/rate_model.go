package compound

import (
	"errors"
	"fmt"

	"comptroller/core"
	"comptroller/pkg/number"

	"github.com/holiman/uint256"
)

// PerBlock converts a per year rate to a per block rate
func PerBlock(perYear number.Exp) number.Exp {
	m := perYear.Mantissa()
	return number.ExpFromUint256(m.Div(m, uint256.NewInt(BlocksPerYear)))
}

// PerYear converts a per block rate to a per year rate
func PerYear(perBlock number.Exp) (number.Exp, error) {
	return perBlock.MulScalar(number.NewAmount(BlocksPerYear))
}

// NewRateModel builds the rate model described by cfg
func NewRateModel(cfg core.RateModelConfig) (core.BorrowRateModel, error) {
	switch cfg.Kind {
	case core.RateModelWhitePaper:
		return NewWhitePaper(cfg.BaseRatePerYear, cfg.MultiplierPerYear), nil
	case core.RateModelJump:
		if cfg.Kink.GreaterThan(number.ExpOne) {
			return nil, errors.New("kink should not be greater than 1")
		}

		return NewJumpRate(cfg.BaseRatePerYear, cfg.MultiplierPerYear, cfg.JumpMultiplierPerYear, cfg.Kink), nil
	case core.RateModelTwoKink:
		if cfg.Kink2.GreaterThan(number.ExpOne) || cfg.Kink.GreaterThan(cfg.Kink2) {
			return nil, errors.New("kinks should satisfy kink <= kink2 <= 1")
		}

		return NewTwoKink(cfg), nil
	case core.RateModelFixed:
		return &FixedRate{RatePerBlock: PerBlock(cfg.BaseRatePerYear)}, nil
	default:
		return nil, fmt.Errorf("unknown rate model %q", cfg.Kind)
	}
}

// supplyRate utilization * borrow_rate * (1 - reserve_factor)
func supplyRate(model core.BorrowRateModel, cash, borrows, reserves number.Amount, reserveFactor number.Exp) (number.Exp, error) {
	oneMinusReserveFactor, err := number.ExpOne.Sub(reserveFactor)
	if err != nil {
		return number.ExpZero, err
	}

	borrowRate, err := model.GetBorrowRate(cash, borrows, reserves)
	if err != nil {
		return number.ExpZero, err
	}

	rateToPool, err := borrowRate.Mul(oneMinusReserveFactor)
	if err != nil {
		return number.ExpZero, err
	}

	util, err := UtilizationRate(cash, borrows, reserves)
	if err != nil {
		return number.ExpZero, err
	}

	return util.Mul(rateToPool)
}

// linear base + util * multiplier
func linear(util, base, multiplier number.Exp) (number.Exp, error) {
	v, err := util.Mul(multiplier)
	if err != nil {
		return number.ExpZero, err
	}

	return v.Add(base)
}

// WhitePaper linear rate model
type WhitePaper struct {
	BaseRatePerBlock   number.Exp
	MultiplierPerBlock number.Exp
}

func NewWhitePaper(baseRatePerYear, multiplierPerYear number.Exp) *WhitePaper {
	return &WhitePaper{
		BaseRatePerBlock:   PerBlock(baseRatePerYear),
		MultiplierPerBlock: PerBlock(multiplierPerYear),
	}
}

func (m *WhitePaper) GetBorrowRate(cash, borrows, reserves number.Amount) (number.Exp, error) {
	util, err := UtilizationRate(cash, borrows, reserves)
	if err != nil {
		return number.ExpZero, err
	}

	return linear(util, m.BaseRatePerBlock, m.MultiplierPerBlock)
}

func (m *WhitePaper) GetSupplyRate(cash, borrows, reserves number.Amount, reserveFactor number.Exp) (number.Exp, error) {
	return supplyRate(m, cash, borrows, reserves, reserveFactor)
}

// JumpRate single kink rate model
type JumpRate struct {
	BaseRatePerBlock       number.Exp
	MultiplierPerBlock     number.Exp
	JumpMultiplierPerBlock number.Exp
	Kink                   number.Exp
}

func NewJumpRate(baseRatePerYear, multiplierPerYear, jumpMultiplierPerYear, kink number.Exp) *JumpRate {
	return &JumpRate{
		BaseRatePerBlock:       PerBlock(baseRatePerYear),
		MultiplierPerBlock:     PerBlock(multiplierPerYear),
		JumpMultiplierPerBlock: PerBlock(jumpMultiplierPerYear),
		Kink:                   kink,
	}
}

func (m *JumpRate) GetBorrowRate(cash, borrows, reserves number.Amount) (number.Exp, error) {
	util, err := UtilizationRate(cash, borrows, reserves)
	if err != nil {
		return number.ExpZero, err
	}

	if m.Kink.IsZero() || !util.GreaterThan(m.Kink) {
		return linear(util, m.BaseRatePerBlock, m.MultiplierPerBlock)
	}

	normalRate, err := linear(m.Kink, m.BaseRatePerBlock, m.MultiplierPerBlock)
	if err != nil {
		return number.ExpZero, err
	}

	excessUtil, err := util.Sub(m.Kink)
	if err != nil {
		return number.ExpZero, err
	}

	return linear(excessUtil, normalRate, m.JumpMultiplierPerBlock)
}

func (m *JumpRate) GetSupplyRate(cash, borrows, reserves number.Amount, reserveFactor number.Exp) (number.Exp, error) {
	return supplyRate(m, cash, borrows, reserves, reserveFactor)
}

// TwoKink rate model with a second slope between the kinks
type TwoKink struct {
	BaseRatePerBlock       number.Exp
	MultiplierPerBlock     number.Exp
	Kink                   number.Exp
	BaseRate2PerBlock      number.Exp
	Multiplier2PerBlock    number.Exp
	Kink2                  number.Exp
	JumpMultiplierPerBlock number.Exp
}

func NewTwoKink(cfg core.RateModelConfig) *TwoKink {
	return &TwoKink{
		BaseRatePerBlock:       PerBlock(cfg.BaseRatePerYear),
		MultiplierPerBlock:     PerBlock(cfg.MultiplierPerYear),
		Kink:                   cfg.Kink,
		BaseRate2PerBlock:      PerBlock(cfg.BaseRate2PerYear),
		Multiplier2PerBlock:    PerBlock(cfg.Multiplier2PerYear),
		Kink2:                  cfg.Kink2,
		JumpMultiplierPerBlock: PerBlock(cfg.JumpMultiplierPerYear),
	}
}

func (m *TwoKink) GetBorrowRate(cash, borrows, reserves number.Amount) (number.Exp, error) {
	util, err := UtilizationRate(cash, borrows, reserves)
	if err != nil {
		return number.ExpZero, err
	}

	if util.LessThan(m.Kink) {
		return linear(util, m.BaseRatePerBlock, m.MultiplierPerBlock)
	}

	rateAtKink, err := linear(m.Kink, m.BaseRatePerBlock, m.MultiplierPerBlock)
	if err != nil {
		return number.ExpZero, err
	}

	if rateAtKink, err = rateAtKink.Add(m.BaseRate2PerBlock); err != nil {
		return number.ExpZero, err
	}

	if util.LessThan(m.Kink2) {
		excess, err := util.Sub(m.Kink)
		if err != nil {
			return number.ExpZero, err
		}

		return linear(excess, rateAtKink, m.Multiplier2PerBlock)
	}

	between, err := m.Kink2.Sub(m.Kink)
	if err != nil {
		return number.ExpZero, err
	}

	rateAtKink2, err := linear(between, rateAtKink, m.Multiplier2PerBlock)
	if err != nil {
		return number.ExpZero, err
	}

	excess, err := util.Sub(m.Kink2)
	if err != nil {
		return number.ExpZero, err
	}

	return linear(excess, rateAtKink2, m.JumpMultiplierPerBlock)
}

func (m *TwoKink) GetSupplyRate(cash, borrows, reserves number.Amount, reserveFactor number.Exp) (number.Exp, error) {
	return supplyRate(m, cash, borrows, reserves, reserveFactor)
}

// FixedRate returns the same per block rate regardless of utilization
type FixedRate struct {
	RatePerBlock number.Exp
	Err          error
}

func (m *FixedRate) GetBorrowRate(cash, borrows, reserves number.Amount) (number.Exp, error) {
	if m.Err != nil {
		return number.ExpZero, m.Err
	}

	return m.RatePerBlock, nil
}

func (m *FixedRate) GetSupplyRate(cash, borrows, reserves number.Amount, reserveFactor number.Exp) (number.Exp, error) {
	return supplyRate(m, cash, borrows, reserves, reserveFactor)
}
