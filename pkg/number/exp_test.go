package number

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpMul(t *testing.T) {
	a := MustExp("0.5")
	b := MustExp("3")

	c, err := a.Mul(b)
	require.NoError(t, err)
	assert.Equal(t, "1.5", c.String())

	// truncates toward zero
	d, err := MustExp("0.000000000000000001").Mul(MustExp("0.5"))
	require.NoError(t, err)
	assert.True(t, d.IsZero())
}

func TestExpDiv(t *testing.T) {
	c, err := MustExp("1").Div(MustExp("3"))
	require.NoError(t, err)
	assert.Equal(t, "0.333333333333333333", c.String())

	_, err = ExpOne.Div(ExpZero)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestExpOverflow(t *testing.T) {
	huge := ExpFromUint256(MaxAmount.Uint256())

	_, err := huge.Add(ExpOne)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = huge.Mul(MustExp("2"))
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = huge.MulScalar(NewAmount(2))
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = ExpZero.Sub(ExpOne)
	assert.ErrorIs(t, err, ErrUnderflow)
}

func TestMulScalarTruncate(t *testing.T) {
	v, err := MustExp("0.666").MulScalarTruncate(NewAmount(1000))
	require.NoError(t, err)
	assert.Equal(t, "666", v.String())

	v, err = MustExp("2.718").MulScalarTruncateAdd(NewAmount(3), NewAmount(10))
	require.NoError(t, err)
	assert.Equal(t, "18", v.String())
}

func TestNewExp(t *testing.T) {
	e, err := NewExp(NewAmount(1), NewAmount(5))
	require.NoError(t, err)
	assert.Equal(t, "0.2", e.String())

	_, err = NewExp(NewAmount(1), Amount{})
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestDivScalarByExpTruncate(t *testing.T) {
	v, err := DivScalarByExpTruncate(NewAmount(1000), MustExp("0.3"))
	require.NoError(t, err)
	assert.Equal(t, "3333", v.String())
}

func TestAmountArithmetic(t *testing.T) {
	a := NewAmount(10)

	_, err := a.Sub(NewAmount(11))
	assert.ErrorIs(t, err, ErrUnderflow)

	_, err = MaxAmount.Add(NewAmount(1))
	assert.ErrorIs(t, err, ErrOverflow)

	assert.True(t, a.SubFloor(NewAmount(11)).IsZero())
	assert.Equal(t, NewAmount(3), MinAmount(NewAmount(3), a))
	assert.True(t, MaxAmount.IsMax())

	_, err = AmountFromDecimal(decimal.RequireFromString("-1"))
	assert.ErrorIs(t, err, ErrNegative)

	v, err := AmountFromDecimal(decimal.RequireFromString("12.9"))
	require.NoError(t, err)
	assert.Equal(t, "12", v.String())
}

func TestScanAndJSON(t *testing.T) {
	var e Exp
	require.NoError(t, e.Scan([]byte("0.75")))
	assert.Equal(t, MustExp("0.75"), e)

	var a Amount
	require.NoError(t, a.Scan("123456789012345678901234567890"))
	assert.Equal(t, "123456789012345678901234567890", a.String())

	b, err := json.Marshal(struct {
		A Amount `json:"a"`
		E Exp    `json:"e"`
	}{A: a, E: e})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"123456789012345678901234567890","e":"0.75"}`, string(b))

	var out struct {
		A Amount `json:"a"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":42}`), &out))
	assert.Equal(t, NewAmount(42), out.A)
}
