package concurrency

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoLimit(t *testing.T) {
	g := NewGoLimit(4)

	var running, peak, done int32
	for i := 0; i < 64; i++ {
		g.Go(func() {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}

			atomic.AddInt32(&done, 1)
			atomic.AddInt32(&running, -1)
		})
	}

	g.Wait()
	assert.Equal(t, int32(64), done)
	assert.LessOrEqual(t, peak, int32(4))
}
