package number

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// ExpScale is the number of decimals carried by an Exp mantissa
const ExpScale = 18

var expScale = uint256.NewInt(1_000_000_000_000_000_000)

// Exp is an unsigned fixed-point number stored as mantissa / 1e18.
// The zero value is 0.
type Exp struct {
	m uint256.Int
}

var (
	ExpZero = Exp{}
	ExpOne  = Exp{m: *expScale.Clone()}
)

// ExpFromMantissa builds an Exp whose mantissa is m, ie. m / 1e18
func ExpFromMantissa(m uint64) Exp {
	var e Exp
	e.m.SetUint64(m)
	return e
}

func ExpFromUint256(m *uint256.Int) Exp {
	return Exp{m: *m}
}

// ExpFromDecimal truncates d to 18 decimals
func ExpFromDecimal(d decimal.Decimal) (Exp, error) {
	if d.IsNegative() {
		return Exp{}, ErrNegative
	}

	m, overflow := uint256.FromBig(d.Shift(ExpScale).BigInt())
	if overflow {
		return Exp{}, ErrOverflow
	}

	return Exp{m: *m}, nil
}

func ParseExp(s string) (Exp, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Exp{}, err
	}

	return ExpFromDecimal(d)
}

func MustExp(s string) Exp {
	e, err := ParseExp(s)
	if err != nil {
		panic(err)
	}

	return e
}

// NewExp returns num / den as an Exp
func NewExp(num, den Amount) (Exp, error) {
	if den.IsZero() {
		return Exp{}, ErrDivisionByZero
	}

	var scaled uint256.Int
	if _, overflow := scaled.MulOverflow(&num.v, expScale); overflow {
		return Exp{}, ErrOverflow
	}

	var e Exp
	e.m.Div(&scaled, &den.v)
	return e, nil
}

func (e Exp) Mantissa() *uint256.Int {
	return e.m.Clone()
}

func (e Exp) IsZero() bool {
	return e.m.IsZero()
}

func (e Exp) Cmp(o Exp) int {
	return e.m.Cmp(&o.m)
}

func (e Exp) Equal(o Exp) bool {
	return e.m.Eq(&o.m)
}

func (e Exp) LessThan(o Exp) bool {
	return e.m.Lt(&o.m)
}

func (e Exp) GreaterThan(o Exp) bool {
	return e.m.Gt(&o.m)
}

func (e Exp) Add(o Exp) (Exp, error) {
	var z Exp
	if _, overflow := z.m.AddOverflow(&e.m, &o.m); overflow {
		return Exp{}, ErrOverflow
	}

	return z, nil
}

func (e Exp) Sub(o Exp) (Exp, error) {
	if e.m.Lt(&o.m) {
		return Exp{}, ErrUnderflow
	}

	var z Exp
	z.m.Sub(&e.m, &o.m)
	return z, nil
}

// Mul returns e * o truncated to 18 decimals
func (e Exp) Mul(o Exp) (Exp, error) {
	var prod uint256.Int
	if _, overflow := prod.MulOverflow(&e.m, &o.m); overflow {
		return Exp{}, ErrOverflow
	}

	var z Exp
	z.m.Div(&prod, expScale)
	return z, nil
}

// Div returns e / o truncated to 18 decimals
func (e Exp) Div(o Exp) (Exp, error) {
	if o.IsZero() {
		return Exp{}, ErrDivisionByZero
	}

	var scaled uint256.Int
	if _, overflow := scaled.MulOverflow(&e.m, expScale); overflow {
		return Exp{}, ErrOverflow
	}

	var z Exp
	z.m.Div(&scaled, &o.m)
	return z, nil
}

// MulScalar returns e * s keeping full precision
func (e Exp) MulScalar(s Amount) (Exp, error) {
	var z Exp
	if _, overflow := z.m.MulOverflow(&e.m, &s.v); overflow {
		return Exp{}, ErrOverflow
	}

	return z, nil
}

// MulScalarTruncate returns floor(e * s)
func (e Exp) MulScalarTruncate(s Amount) (Amount, error) {
	prod, err := e.MulScalar(s)
	if err != nil {
		return Amount{}, err
	}

	return prod.Truncate(), nil
}

// MulScalarTruncateAdd returns floor(e * s) + addend
func (e Exp) MulScalarTruncateAdd(s, addend Amount) (Amount, error) {
	v, err := e.MulScalarTruncate(s)
	if err != nil {
		return Amount{}, err
	}

	return v.Add(addend)
}

// Truncate drops the fractional part
func (e Exp) Truncate() Amount {
	var a Amount
	a.v.Div(&e.m, expScale)
	return a
}

// DivScalarByExpTruncate returns floor(s / e)
func DivScalarByExpTruncate(s Amount, e Exp) (Amount, error) {
	if e.IsZero() {
		return Amount{}, ErrDivisionByZero
	}

	var scaled uint256.Int
	if _, overflow := scaled.MulOverflow(&s.v, expScale); overflow {
		return Amount{}, ErrOverflow
	}

	var a Amount
	a.v.Div(&scaled, &e.m)
	return a, nil
}

func (e Exp) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(e.m.ToBig(), -ExpScale)
}

func (e Exp) String() string {
	return e.Decimal().String()
}

func (e Exp) Value() (driver.Value, error) {
	return e.String(), nil
}

func (e *Exp) Scan(src interface{}) error {
	if b, ok := src.([]byte); ok {
		src = string(b)
	}

	s, err := cast.ToStringE(src)
	if err != nil {
		return fmt.Errorf("number: scan exp: %w", err)
	}

	if s == "" {
		*e = Exp{}
		return nil
	}

	v, err := ParseExp(s)
	if err != nil {
		return err
	}

	*e = v
	return nil
}

func (e Exp) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *Exp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		s = string(b)
	}

	v, err := ParseExp(s)
	if err != nil {
		return err
	}

	*e = v
	return nil
}
