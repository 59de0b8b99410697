package block

import (
	"comptroller/core"
	"comptroller/pkg/compound"
	"context"
	"time"
)

type service struct {
	genesis         int64
	secondsPerBlock int64
}

// New new block service
func New(config *core.Config) core.IBlockService {
	spb := config.App.SecondsPerBlock
	if spb <= 0 {
		spb = compound.SecondsPerBlock
	}

	return &service{
		genesis:         config.App.Genesis,
		secondsPerBlock: spb,
	}
}

// CurrentBlock current block
func (s *service) CurrentBlock(ctx context.Context) (int64, error) {
	return s.GetBlock(ctx, time.Now())
}

// GetBlock get block by time
func (s *service) GetBlock(ctx context.Context, t time.Time) (int64, error) {
	return compound.BlockAt(s.genesis, s.secondsPerBlock, t)
}
