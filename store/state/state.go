// Package state runs units of work over the sql stores. Each unit of work
// is one database transaction.
package state

import (
	"context"
	"errors"

	"comptroller/core"
	"comptroller/store/event"
	"comptroller/store/market"
	"comptroller/store/membership"
	"comptroller/store/position"
	"comptroller/store/risk"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

// errDiscard rolls back a View transaction
var errDiscard = errors.New("state: discard view")

type stateStore struct {
	db *db.DB
}

// New new sql state store
func New(db *db.DB) core.StateStore {
	return &stateStore{db: db}
}

// View runs fn in a transaction that is always rolled back, so lazy
// accrual inside fn is never persisted
func (s *stateStore) View(ctx context.Context, fn core.StateFunc) error {
	if core.InUnitOfWork(ctx) {
		return core.ErrReentered
	}

	err := s.db.Tx(func(tx *db.DB) error {
		if err := fn(core.WithView(ctx), newState(tx)); err != nil {
			return err
		}

		return errDiscard
	})

	if errors.Is(err, errDiscard) {
		return nil
	}

	return err
}

func (s *stateStore) Update(ctx context.Context, fn core.StateFunc) error {
	if core.InUnitOfWork(ctx) {
		return core.ErrReentered
	}

	ctx = core.WithUnitOfWork(ctx)
	if err := s.db.Tx(func(tx *db.DB) error {
		return fn(ctx, newState(tx))
	}); err != nil {
		return err
	}

	core.Committed(ctx)
	return nil
}

type sqlState struct {
	markets   core.IMarketStore
	positions core.IPositionStore
	members   core.IMembershipStore
	risks     core.IRiskStore
	events    core.IEventStore
}

func newState(tx *db.DB) *sqlState {
	return &sqlState{
		markets:   market.New(tx),
		positions: position.New(tx),
		members:   membership.New(tx),
		risks:     risk.New(tx),
		events:    event.New(tx),
	}
}

func (s *sqlState) FindMarket(ctx context.Context, asset string) (*core.Market, error) {
	m, err := s.markets.Find(ctx, asset)
	if store.IsErrNotFound(err) {
		return nil, nil
	}

	return m, err
}

func (s *sqlState) ListMarkets(ctx context.Context) ([]*core.Market, error) {
	return s.markets.List(ctx)
}

func (s *sqlState) SaveMarket(ctx context.Context, market *core.Market) error {
	return s.markets.Save(ctx, market)
}

func (s *sqlState) FindPosition(ctx context.Context, account, asset string) (*core.Position, error) {
	p, err := s.positions.Find(ctx, account, asset)
	if store.IsErrNotFound(err) {
		return core.NewPosition(account, asset), nil
	}

	return p, err
}

func (s *sqlState) ListPositions(ctx context.Context, account string) ([]*core.Position, error) {
	return s.positions.ListByAccount(ctx, account)
}

func (s *sqlState) SavePosition(ctx context.Context, position *core.Position) error {
	return s.positions.Save(ctx, position)
}

func (s *sqlState) ListBorrowers(ctx context.Context) ([]string, error) {
	return s.positions.ListBorrowers(ctx)
}

func (s *sqlState) AssetsIn(ctx context.Context, account string) ([]string, error) {
	return s.members.ListAssets(ctx, account)
}

func (s *sqlState) EnterMarket(ctx context.Context, account, asset string) error {
	return s.members.Enter(ctx, account, asset)
}

func (s *sqlState) ExitMarket(ctx context.Context, account, asset string) error {
	return s.members.Exit(ctx, account, asset)
}

func (s *sqlState) FindRisk(ctx context.Context) (*core.RiskParameters, error) {
	r, err := s.risks.Find(ctx)
	if err != nil {
		return nil, err
	}

	if r == nil {
		r = core.DefaultRiskParameters()
	}

	return r, nil
}

func (s *sqlState) SaveRisk(ctx context.Context, risk *core.RiskParameters) error {
	return s.risks.Save(ctx, risk)
}

func (s *sqlState) CreateEvent(ctx context.Context, event *core.Event) error {
	return s.events.Create(ctx, event)
}

func (s *sqlState) ListEvents(ctx context.Context, fromID uint64, limit int) ([]*core.Event, error) {
	return s.events.List(ctx, fromID, limit)
}
