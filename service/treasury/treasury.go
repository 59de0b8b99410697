package treasury

import (
	"context"

	"comptroller/core"
	"comptroller/internal/eventlog"
	"comptroller/pkg/number"

	"github.com/fox-one/pkg/logger"
)

const pageSize = 500

// Ledger treasury that records every receipt as a treasury_received event
type Ledger struct{}

// New new treasury ledger
func New() *Ledger {
	return &Ledger{}
}

var _ core.ITreasury = (*Ledger)(nil)

func (l *Ledger) Receive(ctx context.Context, state core.State, block int64, asset string, amount number.Amount) error {
	if amount.IsZero() {
		return core.Fail(core.ErrInvalidAmount, core.InfoNone)
	}

	data := core.EventData{}.Put("amount", amount)
	if err := eventlog.Write(ctx, state, block, core.EventTreasuryReceived, asset, "", data); err != nil {
		return err
	}

	logger.FromContext(ctx).WithField("asset", asset).WithField("amount", amount).Debugln(core.EventTreasuryReceived)
	return nil
}

// Balance sums the receipts of asset recorded in state
func (l *Ledger) Balance(ctx context.Context, state core.State, asset string) (number.Amount, error) {
	var (
		total  number.Amount
		fromID uint64
	)

	for {
		events, err := state.ListEvents(ctx, fromID, pageSize)
		if err != nil {
			return number.Amount{}, core.FailWith(core.ErrStore, core.InfoNone, err)
		}

		for _, e := range events {
			fromID = e.ID
			if e.Type != core.EventTreasuryReceived || e.Asset != asset {
				continue
			}

			var data struct {
				Amount number.Amount `json:"amount"`
			}
			if err := e.Data.Unmarshal(&data); err != nil {
				return number.Amount{}, core.FailWith(core.ErrStore, core.InfoNone, err)
			}

			if total, err = total.Add(data.Amount); err != nil {
				return number.Amount{}, core.FailWith(core.ErrMath, core.ReservesCalculationFailed, err)
			}
		}

		if len(events) < pageSize {
			return total, nil
		}
	}
}
