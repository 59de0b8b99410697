package core

import (
	"context"
	"time"
)

// Membership account entered a market, its claims there count as collateral
type Membership struct {
	ID        uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Account   string    `sql:"size:64;unique_index:membership_idx" json:"account"`
	Asset     string    `sql:"size:64;unique_index:membership_idx" json:"asset"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// IMembershipStore membership store interface
type IMembershipStore interface {
	// ListAssets entered assets of account in the order they were entered
	ListAssets(ctx context.Context, account string) ([]string, error)
	Enter(ctx context.Context, account, asset string) error
	Exit(ctx context.Context, account, asset string) error
}
