package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBaseJobSkipsOverlappingRounds(t *testing.T) {
	var rounds int32
	release := make(chan struct{})

	job := NewBaseJob("test", "UTC", time.Second, func(ctx context.Context) error {
		atomic.AddInt32(&rounds, 1)
		<-release
		return nil
	})

	go job.Run()
	time.Sleep(50 * time.Millisecond)

	// the first round still holds the job
	job.Run()
	close(release)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int32(1), atomic.LoadInt32(&rounds))

	job.Run()
	assert.Equal(t, int32(2), atomic.LoadInt32(&rounds))
}
