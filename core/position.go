package core

import (
	"context"
	"time"

	"comptroller/pkg/number"
)

// Position an account's claims and borrow snapshot in one market.
// Positions are never deleted, they persist at zero.
type Position struct {
	ID      uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Account string `sql:"size:64;unique_index:position_idx" json:"account"`
	Asset   string `sql:"size:64;unique_index:position_idx" json:"asset"`
	// Claims interest-bearing supply claim balance
	Claims number.Amount `sql:"type:varchar(80)" json:"claims"`
	// Principal debt recorded at InterestIndex
	Principal     number.Amount `sql:"type:varchar(80)" json:"principal"`
	InterestIndex number.Exp    `sql:"type:varchar(80)" json:"interest_index"`
	Version       int64         `sql:"default:0" json:"version"`
	CreatedAt     time.Time     `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time     `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// NewPosition empty position
func NewPosition(account, asset string) *Position {
	return &Position{
		Account: account,
		Asset:   asset,
	}
}

func (p *Position) Clone() *Position {
	if p == nil {
		return nil
	}

	c := *p
	return &c
}

// IPositionStore position store interface
type IPositionStore interface {
	Find(ctx context.Context, account, asset string) (*Position, error)
	ListByAccount(ctx context.Context, account string) ([]*Position, error)
	Save(ctx context.Context, position *Position) error
	// ListBorrowers accounts with a nonzero principal in any market
	ListBorrowers(ctx context.Context) ([]string, error)
}
