package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// EventType event type
type EventType string

const (
	EventAccrueInterest       EventType = "accrue_interest"
	EventSupportMarket        EventType = "support_market"
	EventNewCollateralFactor  EventType = "new_collateral_factor"
	EventNewLiquidationThresh EventType = "new_liquidation_threshold"
	EventNewSupplyCap         EventType = "new_supply_cap"
	EventNewBorrowCap         EventType = "new_borrow_cap"
	EventNewReserveFactor     EventType = "new_reserve_factor"
	EventNewRateModel         EventType = "new_rate_model"
	EventNewCloseFactor       EventType = "new_close_factor"
	EventNewIncentive         EventType = "new_liquidation_incentive"
	EventNewProtocolShare     EventType = "new_protocol_seize_share"
	EventNewMaxBorrowRate     EventType = "new_max_borrow_rate"
	EventActionPaused         EventType = "action_paused"
	EventMarketEntered        EventType = "market_entered"
	EventMarketExited         EventType = "market_exited"
	EventMint                 EventType = "mint"
	EventRedeem               EventType = "redeem"
	EventBorrow               EventType = "borrow"
	EventRepayBorrow          EventType = "repay_borrow"
	EventLiquidateBorrow      EventType = "liquidate_borrow"
	EventTransfer             EventType = "transfer"
	EventReservesAdded        EventType = "reserves_added"
	EventReservesReduced      EventType = "reserves_reduced"
	EventTreasuryReceived     EventType = "treasury_received"
)

func (t EventType) String() string {
	return string(t)
}

// Event state transition log
type Event struct {
	ID        uint64         `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID   string         `sql:"size:36" json:"trace_id"`
	Block     int64          `sql:"index:event_block_idx" json:"block"`
	Type      EventType      `sql:"size:36" json:"type"`
	Asset     string         `sql:"size:64" json:"asset,omitempty"`
	Account   string         `sql:"size:64" json:"account,omitempty"`
	Data      types.JSONText `sql:"type:TEXT" json:"data,omitempty"`
	CreatedAt time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// NewEvent event of one state transition
func NewEvent(trace string, block int64, typ EventType, asset, account string, data EventData) *Event {
	return &Event{
		TraceID: trace,
		Block:   block,
		Type:    typ,
		Asset:   asset,
		Account: account,
		Data:    data.Format(),
	}
}

// EventData event payload builder
type EventData map[string]interface{}

// Put put key value
func (d EventData) Put(key string, value interface{}) EventData {
	d[key] = value
	return d
}

// Format encode as json
func (d EventData) Format() types.JSONText {
	b, _ := json.Marshal(d)
	return b
}

// IEventStore event store interface
type IEventStore interface {
	Create(ctx context.Context, event *Event) error
	List(ctx context.Context, fromID uint64, limit int) ([]*Event, error)
}
