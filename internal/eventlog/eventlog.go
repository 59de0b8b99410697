package eventlog

import (
	"context"
	"strings"

	"comptroller/core"
	"comptroller/pkg/id"
)

// Write appends an event to the unit of work of state. Its trace id is
// derived from the action trace so replays produce the same ids.
func Write(ctx context.Context, state core.State, block int64, typ core.EventType, asset, account string, data core.EventData) error {
	if data == nil {
		data = core.EventData{}
	}

	trace := id.SubTrace(ctx, strings.Join([]string{string(typ), asset, account}, ":"))
	event := core.NewEvent(trace, block, typ, asset, account, data)
	if err := state.CreateEvent(ctx, event); err != nil {
		return core.FailWith(core.ErrStore, core.InfoNone, err)
	}

	return nil
}
