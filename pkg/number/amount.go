package number

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Amount is an unsigned 256-bit quantity of asset units, claim units or
// usd value. The zero value is 0.
type Amount struct {
	v uint256.Int
}

// MaxAmount is the largest representable amount. Caps use it as "unlimited"
// and repay uses it as "everything owed".
var MaxAmount = Amount{v: *new(uint256.Int).SetAllOne()}

func NewAmount(v uint64) Amount {
	var a Amount
	a.v.SetUint64(v)
	return a
}

func AmountFromUint256(v *uint256.Int) Amount {
	return Amount{v: *v}
}

// AmountFromDecimal truncates d toward zero
func AmountFromDecimal(d decimal.Decimal) (Amount, error) {
	if d.IsNegative() {
		return Amount{}, ErrNegative
	}

	v, overflow := uint256.FromBig(d.BigInt())
	if overflow {
		return Amount{}, ErrOverflow
	}

	return Amount{v: *v}, nil
}

func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}

	return AmountFromDecimal(d)
}

func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}

	return a
}

func (a Amount) Uint256() *uint256.Int {
	return a.v.Clone()
}

func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

func (a Amount) IsMax() bool {
	return a.v.Eq(&MaxAmount.v)
}

func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

func (a Amount) Equal(b Amount) bool {
	return a.v.Eq(&b.v)
}

func (a Amount) LessThan(b Amount) bool {
	return a.v.Lt(&b.v)
}

func (a Amount) GreaterThan(b Amount) bool {
	return a.v.Gt(&b.v)
}

func (a Amount) Add(b Amount) (Amount, error) {
	var z Amount
	if _, overflow := z.v.AddOverflow(&a.v, &b.v); overflow {
		return Amount{}, ErrOverflow
	}

	return z, nil
}

func (a Amount) Sub(b Amount) (Amount, error) {
	if a.v.Lt(&b.v) {
		return Amount{}, ErrUnderflow
	}

	var z Amount
	z.v.Sub(&a.v, &b.v)
	return z, nil
}

func (a Amount) Mul(b Amount) (Amount, error) {
	var z Amount
	if _, overflow := z.v.MulOverflow(&a.v, &b.v); overflow {
		return Amount{}, ErrOverflow
	}

	return z, nil
}

func (a Amount) Div(b Amount) (Amount, error) {
	if b.IsZero() {
		return Amount{}, ErrDivisionByZero
	}

	var z Amount
	z.v.Div(&a.v, &b.v)
	return z, nil
}

// SubFloor returns max(a-b, 0)
func (a Amount) SubFloor(b Amount) Amount {
	if a.v.Lt(&b.v) {
		return Amount{}
	}

	var z Amount
	z.v.Sub(&a.v, &b.v)
	return z
}

func MinAmount(a, b Amount) Amount {
	if a.LessThan(b) {
		return a
	}

	return b
}

func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(a.v.ToBig(), 0)
}

func (a Amount) String() string {
	return a.v.Dec()
}

func (a Amount) Value() (driver.Value, error) {
	return a.String(), nil
}

func (a *Amount) Scan(src interface{}) error {
	if b, ok := src.([]byte); ok {
		src = string(b)
	}

	s, err := cast.ToStringE(src)
	if err != nil {
		return fmt.Errorf("number: scan amount: %w", err)
	}

	if s == "" {
		*a = Amount{}
		return nil
	}

	v, err := ParseAmount(s)
	if err != nil {
		return err
	}

	*a = v
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// accept bare numbers too
		s = string(b)
	}

	v, err := ParseAmount(s)
	if err != nil {
		return err
	}

	*a = v
	return nil
}
