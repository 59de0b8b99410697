// Package memory keeps the lending state in process memory. Every unit of
// work writes into a private overlay that is merged on commit.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"comptroller/core"
)

type positionKey struct {
	account string
	asset   string
}

// Store in-memory core.StateStore
type Store struct {
	mu        sync.RWMutex
	markets   map[string]*core.Market
	positions map[positionKey]*core.Position
	members   map[string][]string
	risk      *core.RiskParameters
	events    []*core.Event
	marketSeq uint64
	posSeq    uint64
}

// New empty store with default risk parameters
func New() *Store {
	return &Store{
		markets:   map[string]*core.Market{},
		positions: map[positionKey]*core.Position{},
		members:   map[string][]string{},
		risk:      core.DefaultRiskParameters(),
	}
}

func (s *Store) View(ctx context.Context, fn core.StateFunc) error {
	if core.InUnitOfWork(ctx) {
		return core.ErrReentered
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(core.WithView(ctx), newOverlay(s))
}

func (s *Store) Update(ctx context.Context, fn core.StateFunc) error {
	if core.InUnitOfWork(ctx) {
		return core.ErrReentered
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o := newOverlay(s)
	ctx = core.WithUnitOfWork(ctx)
	if err := fn(ctx, o); err != nil {
		return err
	}

	o.commit()
	core.Committed(ctx)
	return nil
}

type overlay struct {
	base      *Store
	markets   map[string]*core.Market
	positions map[positionKey]*core.Position
	members   map[string][]string
	risk      *core.RiskParameters
	events    []*core.Event
	marketSeq uint64
	posSeq    uint64
}

func newOverlay(base *Store) *overlay {
	return &overlay{
		base:      base,
		markets:   map[string]*core.Market{},
		positions: map[positionKey]*core.Position{},
		members:   map[string][]string{},
		marketSeq: base.marketSeq,
		posSeq:    base.posSeq,
	}
}

func (o *overlay) commit() {
	b := o.base
	for asset, m := range o.markets {
		b.markets[asset] = m
	}

	for key, p := range o.positions {
		b.positions[key] = p
	}

	for account, assets := range o.members {
		b.members[account] = assets
	}

	if o.risk != nil {
		b.risk = o.risk
	}

	b.events = append(b.events, o.events...)
	b.marketSeq = o.marketSeq
	b.posSeq = o.posSeq
}

func (o *overlay) market(asset string) *core.Market {
	if m, ok := o.markets[asset]; ok {
		return m
	}

	return o.base.markets[asset]
}

func (o *overlay) FindMarket(_ context.Context, asset string) (*core.Market, error) {
	return o.market(asset).Clone(), nil
}

func (o *overlay) ListMarkets(_ context.Context) ([]*core.Market, error) {
	assets := make([]string, 0, len(o.base.markets)+len(o.markets))
	for asset := range o.base.markets {
		assets = append(assets, asset)
	}

	for asset := range o.markets {
		if _, ok := o.base.markets[asset]; !ok {
			assets = append(assets, asset)
		}
	}

	sort.Strings(assets)

	markets := make([]*core.Market, 0, len(assets))
	for _, asset := range assets {
		markets = append(markets, o.market(asset).Clone())
	}

	return markets, nil
}

func (o *overlay) SaveMarket(_ context.Context, market *core.Market) error {
	m := market.Clone()
	now := time.Now()
	if m.ID == 0 {
		o.marketSeq++
		m.ID = o.marketSeq
		m.CreatedAt = now
	}

	m.Version++
	m.UpdatedAt = now
	o.markets[m.Asset] = m
	*market = *m.Clone()
	return nil
}

func (o *overlay) position(key positionKey) *core.Position {
	if p, ok := o.positions[key]; ok {
		return p
	}

	return o.base.positions[key]
}

func (o *overlay) FindPosition(_ context.Context, account, asset string) (*core.Position, error) {
	if p := o.position(positionKey{account: account, asset: asset}); p != nil {
		return p.Clone(), nil
	}

	return core.NewPosition(account, asset), nil
}

func (o *overlay) ListPositions(_ context.Context, account string) ([]*core.Position, error) {
	seen := map[string]bool{}
	var positions []*core.Position

	collect := func(src map[positionKey]*core.Position) {
		for key := range src {
			if key.account != account || seen[key.asset] {
				continue
			}

			seen[key.asset] = true
			positions = append(positions, o.position(key).Clone())
		}
	}

	collect(o.positions)
	collect(o.base.positions)

	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Asset < positions[j].Asset
	})

	return positions, nil
}

func (o *overlay) SavePosition(_ context.Context, position *core.Position) error {
	p := position.Clone()
	now := time.Now()
	if p.ID == 0 {
		o.posSeq++
		p.ID = o.posSeq
		p.CreatedAt = now
	}

	p.Version++
	p.UpdatedAt = now
	o.positions[positionKey{account: p.Account, asset: p.Asset}] = p
	*position = *p.Clone()
	return nil
}

func (o *overlay) ListBorrowers(_ context.Context) ([]string, error) {
	borrowers := map[string]bool{}
	check := func(src map[positionKey]*core.Position) {
		for key := range src {
			if p := o.position(key); !p.Principal.IsZero() {
				borrowers[key.account] = true
			}
		}
	}

	check(o.base.positions)
	check(o.positions)

	accounts := make([]string, 0, len(borrowers))
	for account := range borrowers {
		accounts = append(accounts, account)
	}

	sort.Strings(accounts)
	return accounts, nil
}

func (o *overlay) assetsIn(account string) []string {
	if assets, ok := o.members[account]; ok {
		return assets
	}

	return o.base.members[account]
}

func (o *overlay) AssetsIn(_ context.Context, account string) ([]string, error) {
	assets := o.assetsIn(account)
	return append([]string(nil), assets...), nil
}

func (o *overlay) EnterMarket(_ context.Context, account, asset string) error {
	assets := o.assetsIn(account)
	if core.IsMember(assets, asset) {
		return nil
	}

	o.members[account] = append(append([]string(nil), assets...), asset)
	return nil
}

func (o *overlay) ExitMarket(_ context.Context, account, asset string) error {
	assets := o.assetsIn(account)
	if !core.IsMember(assets, asset) {
		return nil
	}

	left := make([]string, 0, len(assets)-1)
	for _, a := range assets {
		if a != asset {
			left = append(left, a)
		}
	}

	o.members[account] = left
	return nil
}

func (o *overlay) FindRisk(_ context.Context) (*core.RiskParameters, error) {
	if o.risk != nil {
		return o.risk.Clone(), nil
	}

	return o.base.risk.Clone(), nil
}

func (o *overlay) SaveRisk(_ context.Context, risk *core.RiskParameters) error {
	r := risk.Clone()
	r.Version++
	r.UpdatedAt = time.Now()
	o.risk = r
	risk.Version = r.Version
	return nil
}

func (o *overlay) CreateEvent(_ context.Context, event *core.Event) error {
	e := *event
	e.ID = uint64(len(o.base.events) + len(o.events) + 1)
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	o.events = append(o.events, &e)
	event.ID = e.ID
	return nil
}

func (o *overlay) ListEvents(_ context.Context, fromID uint64, limit int) ([]*core.Event, error) {
	var events []*core.Event
	for _, list := range [][]*core.Event{o.base.events, o.events} {
		for _, e := range list {
			if e.ID <= fromID {
				continue
			}

			if limit > 0 && len(events) >= limit {
				return events, nil
			}

			c := *e
			events = append(events, &c)
		}
	}

	return events, nil
}
