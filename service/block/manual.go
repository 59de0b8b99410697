package block

import (
	"context"
	"sync/atomic"
	"time"
)

// Manual block counter advanced by its owner
type Manual struct {
	block int64
}

// NewManual manual clock starting at block
func NewManual(block int64) *Manual {
	return &Manual{block: block}
}

func (m *Manual) CurrentBlock(ctx context.Context) (int64, error) {
	return atomic.LoadInt64(&m.block), nil
}

// GetBlock always reports the current block
func (m *Manual) GetBlock(ctx context.Context, t time.Time) (int64, error) {
	return m.CurrentBlock(ctx)
}

// Advance moves the clock forward n blocks
func (m *Manual) Advance(n int64) int64 {
	return atomic.AddInt64(&m.block, n)
}

// Set jumps to block
func (m *Manual) Set(block int64) {
	atomic.StoreInt64(&m.block, block)
}
