package core

import (
	"context"

	"comptroller/pkg/number"
)

// ITreasury sink for reserves withdrawn from the markets. A receipt is
// part of the unit of work of state and rolls back with it.
type ITreasury interface {
	Receive(ctx context.Context, state State, block int64, asset string, amount number.Amount) error
}
