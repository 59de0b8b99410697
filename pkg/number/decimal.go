package number

import (
	"github.com/shopspring/decimal"
)

// Floor truncates d to precision decimal places
func Floor(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Floor().Shift(-precision)
}
