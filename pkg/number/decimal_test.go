package number

import (
	"testing"

	"github.com/bmizerany/assert"
	"github.com/shopspring/decimal"
)

func TestFloor(t *testing.T) {
	data := map[string]string{
		"0.10304": "0.1",
		"0.119":   "0.11",
		"3":       "3",
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			d := decimal.RequireFromString(k)
			assert.Equal(t, v, Floor(d, 2).String(), "should be floor")
		})
	}
}
