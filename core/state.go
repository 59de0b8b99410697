package core

import (
	"context"
	"sync"

	"comptroller/pkg/number"
)

// State lending state as seen from inside one unit of work. Reads observe
// the writes made earlier in the same unit of work.
type State interface {
	// FindMarket returns a copy of the market, nil when the asset is unknown
	FindMarket(ctx context.Context, asset string) (*Market, error)
	ListMarkets(ctx context.Context) ([]*Market, error)
	SaveMarket(ctx context.Context, market *Market) error

	// FindPosition returns a copy of the position, an empty one when absent
	FindPosition(ctx context.Context, account, asset string) (*Position, error)
	ListPositions(ctx context.Context, account string) ([]*Position, error)
	SavePosition(ctx context.Context, position *Position) error
	// ListBorrowers accounts with a nonzero borrow principal in any market
	ListBorrowers(ctx context.Context) ([]string, error)

	AssetsIn(ctx context.Context, account string) ([]string, error)
	EnterMarket(ctx context.Context, account, asset string) error
	ExitMarket(ctx context.Context, account, asset string) error

	FindRisk(ctx context.Context) (*RiskParameters, error)
	SaveRisk(ctx context.Context, risk *RiskParameters) error

	CreateEvent(ctx context.Context, event *Event) error
	ListEvents(ctx context.Context, fromID uint64, limit int) ([]*Event, error)
}

// StateFunc body of a unit of work
type StateFunc func(ctx context.Context, state State) error

// StateStore runs units of work. Update commits every write of fn when fn
// returns nil and discards them all otherwise. View never commits.
type StateStore interface {
	View(ctx context.Context, fn StateFunc) error
	Update(ctx context.Context, fn StateFunc) error
}

type unitOfWorkKey struct{}

type unitOfWork struct {
	view bool

	mu        sync.Mutex
	committed []func()
}

// WithUnitOfWork marks ctx as running inside an Update
func WithUnitOfWork(ctx context.Context) context.Context {
	return context.WithValue(ctx, unitOfWorkKey{}, &unitOfWork{})
}

// WithView marks ctx as running inside a View
func WithView(ctx context.Context) context.Context {
	return context.WithValue(ctx, unitOfWorkKey{}, &unitOfWork{view: true})
}

func unitOf(ctx context.Context) *unitOfWork {
	u, _ := ctx.Value(unitOfWorkKey{}).(*unitOfWork)
	return u
}

// InUnitOfWork reports whether ctx is already inside a unit of work
func InUnitOfWork(ctx context.Context) bool {
	return unitOf(ctx) != nil
}

// InView reports whether ctx runs inside a View, whose writes are discarded
func InView(ctx context.Context) bool {
	u := unitOf(ctx)
	return u != nil && u.view
}

// OnCommit runs fn after the Update of ctx commits. fn is dropped when the
// unit of work is a View or fails.
func OnCommit(ctx context.Context, fn func()) {
	u := unitOf(ctx)
	if u == nil {
		fn()
		return
	}

	if u.view {
		return
	}

	u.mu.Lock()
	u.committed = append(u.committed, fn)
	u.mu.Unlock()
}

// Committed runs the OnCommit hooks of ctx in registration order. State
// stores call it once the unit of work is durable.
func Committed(ctx context.Context) {
	u := unitOf(ctx)
	if u == nil {
		return
	}

	u.mu.Lock()
	hooks := u.committed
	u.committed = nil
	u.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// IsMember reports whether asset is one of the account's entered markets
func IsMember(assets []string, asset string) bool {
	for _, a := range assets {
		if a == asset {
			return true
		}
	}

	return false
}

// BorrowSnapshot account balances in one market
type BorrowSnapshot struct {
	Claims        number.Amount `json:"claims"`
	BorrowBalance number.Amount `json:"borrow_balance"`
	ExchangeRate  number.Exp    `json:"exchange_rate"`
}
